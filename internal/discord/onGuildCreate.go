package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/guildroster/guild-roster/internal/shared/logging"
)

func (a *App) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	a.mu.Lock()
	a.arrived[g.ID] = struct{}{}
	if !a.ready {
		a.mu.Unlock()
		return
	}
	_, wasPending := a.pending[g.ID]
	delete(a.pending, g.ID)
	synced := wasPending && len(a.pending) == 0
	a.mu.Unlock()

	logging.L().Debug("guild available", "guild", g.ID, "name", g.Name, "members", len(g.Members))
	if synced {
		a.fire(s, "guilds synced")
	}
}
