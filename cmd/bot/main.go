package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guildroster/guild-roster/internal/discord"
	"github.com/guildroster/guild-roster/internal/shared/config"
	"github.com/guildroster/guild-roster/internal/shared/logging"
	"github.com/guildroster/guild-roster/internal/snapshot"
	"github.com/guildroster/guild-roster/internal/websocket"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	logging.Init(logging.Options{
		Path:    cfg.Log.Path,
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console,
	})
	defer logging.Close()
	log := logging.L()

	sess, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		log.Error("discord init", "error", err)
		return 1
	}

	app := discord.NewApp(sess, cfg, os.Stdout)

	if cfg.SnapshotDBPath != "" {
		store, err := snapshot.Open(cfg.SnapshotDBPath)
		if err != nil {
			log.Error("snapshot store", "path", cfg.SnapshotDBPath, "error", err)
			return 1
		}
		defer store.Close()
		app.Store = store
	}

	if cfg.FeedAddr != "" {
		hub := websocket.NewHub()
		feed := websocket.NewServer(cfg.FeedAddr, hub)
		app.Feed = hub
		go func() {
			if err := feed.Start(); err != nil {
				log.Error("roster feed stopped", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = feed.Shutdown(ctx)
		}()
	}

	app.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Bot running. Ctrl+C to exit.", "guild_id", cfg.GuildID.String())
	if err := app.Run(ctx); err != nil {
		log.Error("bot stopped", "error", err)
		return 1
	}
	log.Info("Shutdown.")
	return 0
}
