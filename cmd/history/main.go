package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/guildroster/guild-roster/internal/roster"
	"github.com/guildroster/guild-roster/internal/shared/config"
	"github.com/guildroster/guild-roster/internal/shared/snowflake"
	"github.com/guildroster/guild-roster/internal/snapshot"
)

func main() {
	defGuild := defaultGuild()
	dbPath := flag.String("db", envDefault("ROSTER_DB_PATH", "roster.db"), "path to sqlite snapshot database (defaults to $ROSTER_DB_PATH)")
	guild := flag.String("guild", defGuild, "guild ID (defaults to $GUILD_ID, .env included)")
	limit := flag.Int("n", 10, "number of snapshots to show, 0 for all")
	flag.Parse()

	guildID, err := snowflake.Parse(*guild)
	if err != nil {
		log.Fatalf("guild: %v", err)
	}

	store, err := snapshot.Open(*dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := store.List(ctx, guildID.String(), *limit)
	if err != nil {
		log.Fatalf("list snapshots: %v", err)
	}
	if len(entries) == 0 {
		log.Printf("No snapshots for guild %s in %s", guildID, *dbPath)
		return
	}
	printEntries(os.Stdout, entries)
}

// defaultGuild resolves GUILD_ID the way the bot does: .env first, without
// overriding the environment.
func defaultGuild(envFiles ...string) string {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		log.Printf("WARN: %v", err)
	}
	return os.Getenv("GUILD_ID")
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func printEntries(w io.Writer, entries []snapshot.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "[%s] run %s by %s\n%s\nGuild Members (%d):\n - %s\n\n",
			e.TakenAt.UTC().Format(time.RFC3339), e.RunID, e.Identity,
			e.GuildLine(), len(e.Members), roster.Format(e.Members),
		)
	}
}
