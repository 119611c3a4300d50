package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/guildroster/guild-roster/internal/roster"
	"github.com/guildroster/guild-roster/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintEntries(t *testing.T) {
	var buf bytes.Buffer
	printEntries(&buf, []snapshot.Entry{{
		RunID:   "run-1",
		TakenAt: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
		Report:  roster.Report{Identity: "bot", GuildID: "42", GuildName: "Rotaria", Members: []string{"a", "b"}},
	}})

	want := "[2026-10-18T09:30:00Z] run run-1 by bot\n" +
		"Rotaria - (id: 42)\n" +
		"Guild Members (2):\n - a\n - b\n\n"
	assert.Equal(t, want, buf.String())
}

func TestDefaultGuild_ReadsDotEnv(t *testing.T) {
	t.Setenv("GUILD_ID", "")
	require.NoError(t, os.Unsetenv("GUILD_ID"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GUILD_ID=42\n"), 0o600))

	assert.Equal(t, "42", defaultGuild(path))
}

func TestDefaultGuild_EnvironmentWins(t *testing.T) {
	t.Setenv("GUILD_ID", "7")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GUILD_ID=42\n"), 0o600))

	assert.Equal(t, "7", defaultGuild(path))
}
