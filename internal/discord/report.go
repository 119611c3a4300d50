package discord

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/guildroster/guild-roster/internal/roster"
	"github.com/guildroster/guild-roster/internal/shared/logging"
)

// fire runs the roster report exactly once, whichever trigger gets here first.
func (a *App) fire(s *discordgo.Session, trigger string) {
	a.once.Do(func() {
		a.mu.Lock()
		if a.timer != nil {
			a.timer.Stop()
		}
		identity := a.identity
		a.mu.Unlock()

		a.report(s, identity, trigger)
	})
}

func (a *App) report(s *discordgo.Session, identity, trigger string) {
	runID := uuid.NewString()
	log := logging.L().With("run", runID, "trigger", trigger)

	s.State.RLock()
	r, err := roster.Build(identity, s.State.Guilds, a.Cfg.GuildID)
	s.State.RUnlock()

	if err != nil {
		log.Error("configured guild not found", "guild_id", a.Cfg.GuildID.String(), "error", err)
		a.fail(err)
		return
	}

	if err := roster.WriteReport(a.Out, r); err != nil {
		log.Error("roster not written", "error", err)
		a.fail(err)
		return
	}
	log.Info("roster reported", "guild", r.GuildName, "guild_id", r.GuildID, "members", len(r.Members))

	a.persist(log, runID, r)
	a.publish(log, r)
	a.mirror(log, r)
}

func (a *App) persist(log *slog.Logger, runID string, r roster.Report) {
	if a.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Store.Save(ctx, runID, r, a.now()); err != nil {
		log.Error("snapshot save failed", "error", err)
		return
	}
	log.Debug("snapshot saved")
}

func (a *App) publish(log *slog.Logger, r roster.Report) {
	if a.Feed == nil {
		return
	}
	if err := a.Feed.Publish(r); err != nil {
		log.Warn("feed publish failed", "error", err)
	}
}
