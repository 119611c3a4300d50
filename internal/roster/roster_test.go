package roster

import (
	"bytes"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/guildroster/guild-roster/internal/shared/snowflake"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(username string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{Username: username}}
}

func guild(id, name string, members ...*discordgo.Member) *discordgo.Guild {
	return &discordgo.Guild{ID: id, Name: name, Members: members}
}

func TestFindGuild_SelectsExactMatch(t *testing.T) {
	guilds := []*discordgo.Guild{
		guild("41", "before"),
		guild("42", "target"),
		guild("43", "after"),
	}

	got := FindGuild(guilds, snowflake.ID(42))
	require.True(t, got.IsPresent())
	assert.Equal(t, "target", got.MustGet().Name)
}

func TestFindGuild_FirstMatchWins(t *testing.T) {
	first := guild("42", "first")
	second := guild("42", "second")

	got := FindGuild([]*discordgo.Guild{guild("1", "other"), first, second}, snowflake.ID(42))
	require.True(t, got.IsPresent())
	assert.Same(t, first, got.MustGet())
}

func TestFindGuild_NoMatch(t *testing.T) {
	guilds := []*discordgo.Guild{guild("1", "a"), guild("2", "b")}
	assert.False(t, FindGuild(guilds, snowflake.ID(42)).IsPresent())
	assert.False(t, FindGuild(nil, snowflake.ID(42)).IsPresent())
}

func TestFindGuild_SkipsNilAndMalformedIDs(t *testing.T) {
	guilds := []*discordgo.Guild{nil, guild("", "stub"), guild("abc", "junk"), guild("42", "ok")}
	got := FindGuild(guilds, snowflake.ID(42))
	require.True(t, got.IsPresent())
	assert.Equal(t, "ok", got.MustGet().Name)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "a\n - b\n - c", Format([]string{"a", "b", "c"}))
	assert.Equal(t, "solo", Format([]string{"solo"}))
	assert.Equal(t, "", Format(nil))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "nick", DisplayName(&discordgo.Member{Nick: "nick", User: &discordgo.User{Username: "u", GlobalName: "g"}}))
	assert.Equal(t, "g", DisplayName(&discordgo.Member{User: &discordgo.User{Username: "u", GlobalName: "g"}}))
	assert.Equal(t, "u", DisplayName(&discordgo.Member{User: &discordgo.User{Username: "u"}}))
	assert.Equal(t, "", DisplayName(&discordgo.Member{}))
}

func TestMemberNames_SkipsNil(t *testing.T) {
	names := MemberNames([]*discordgo.Member{member("a"), nil, member("b")})
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestBuild(t *testing.T) {
	guilds := []*discordgo.Guild{
		guild("7", "elsewhere", member("x")),
		guild("42", "Rotaria", member("a"), member("b"), member("c")),
	}

	r, err := Build("bot#0001", guilds, snowflake.ID(42))
	require.NoError(t, err)
	assert.Equal(t, "bot#0001", r.Identity)
	assert.Equal(t, "42", r.GuildID)
	assert.Equal(t, "Rotaria", r.GuildName)
	assert.Equal(t, "a\n - b\n - c", r.Roster())
}

func TestBuild_EmptyMembers(t *testing.T) {
	r, err := Build("bot", []*discordgo.Guild{guild("42", "quiet")}, snowflake.ID(42))
	require.NoError(t, err)
	assert.Empty(t, r.Members)
	assert.Equal(t, "", r.Roster())
}

func TestBuild_NotFound(t *testing.T) {
	_, err := Build("bot", []*discordgo.Guild{guild("1", "last seen")}, snowflake.ID(42))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGuildNotFound))
	assert.Contains(t, err.Error(), "42")
}

func TestWriteConnected(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConnected(&buf, "bot#0001"))
	assert.Equal(t, "bot#0001 has connected to Discord!\n", buf.String())
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	r := Report{Identity: "bot", GuildID: "42", GuildName: "Rotaria", Members: []string{"a", "b", "c"}}

	require.NoError(t, WriteReport(&buf, r))
	want := "bot is connected to the following guild:\n" +
		"Rotaria - (id: 42)\n\n" +
		"Guild Members:\n - a\n - b\n - c\n"
	assert.Equal(t, want, buf.String())
}

func TestBuild_UnavailableStubIsNotFound(t *testing.T) {
	stub := &discordgo.Guild{ID: "42", Unavailable: true}

	_, err := Build("bot", []*discordgo.Guild{stub}, snowflake.ID(42))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGuildUnavailable))
	assert.True(t, errors.Is(err, ErrGuildNotFound))
}
