package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/guildroster/guild-roster/internal/roster"
	"github.com/guildroster/guild-roster/internal/shared/logging"
)

// onReady records which guilds are still syncing and arms the report. Ready
// only carries unavailable guild stubs; the full guilds follow as GuildCreate.
func (a *App) onReady(s *discordgo.Session, r *discordgo.Ready) {
	identity := r.User.String()

	a.mu.Lock()
	if a.ready {
		a.mu.Unlock()
		logging.L().Debug("Ready after roster was armed; ignoring", "user", identity, "sessionID", r.SessionID)
		return
	}
	a.ready = true
	a.identity = identity
	a.avatar = r.User.AvatarURL("128")
	for _, g := range r.Guilds {
		if _, ok := a.arrived[g.ID]; ok {
			continue
		}
		a.pending[g.ID] = struct{}{}
	}
	waiting := len(a.pending)

	// Written under mu so the roster can never be printed ahead of it.
	logging.L().Info("Discord connected", "user", identity, "guilds", len(r.Guilds), "syncing", waiting)
	if err := roster.WriteConnected(a.Out, identity); err != nil {
		logging.L().Warn("connected line not written", "error", err)
	}
	if waiting > 0 {
		a.timer = time.AfterFunc(a.Cfg.ReadyTimeout, func() {
			a.mu.Lock()
			left := len(a.pending)
			a.mu.Unlock()
			if left == 0 {
				return
			}
			logging.L().Warn("guild sync timed out; reporting from partial state", "timeout", a.Cfg.ReadyTimeout, "unsynced", left)
			a.fire(s, "timeout")
		})
	}
	a.mu.Unlock()

	if waiting == 0 {
		a.fire(s, "ready")
	}
}
