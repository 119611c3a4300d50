package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/guildroster/guild-roster/internal/roster"
	"github.com/rotaria-smp/discordwebhook"
)

const maxWebhookContent = 2000

// mirror posts the report to the configured webhook, split to fit Discord's
// message limit.
func (a *App) mirror(log *slog.Logger, r roster.Report) {
	if a.Cfg.DiscordWebhookURL == "" {
		log.Debug("mirror: DiscordWebhookURL is empty, not sending webhook")
		return
	}

	a.mu.Lock()
	avatar := a.avatar
	a.mu.Unlock()

	content := fmt.Sprintf("**%s**\nGuild Members:\n - %s", r.GuildLine(), r.Roster())
	for i, chunk := range chunkLines(content, maxWebhookContent) {
		if err := a.postWebhook(r.Identity, chunk, avatar); err != nil {
			log.Error("mirror: webhook send failed", "error", err, "chunk", i)
			return
		}
	}
}

func (a *App) postWebhook(username, content, avatar string) error {
	flag := discordwebhook.MessageFlagSuppressNotifications
	msg := discordwebhook.Message{
		Content: &content,
		Flags:   &flag,
	}
	// Discord rejects webhook usernames containing "discord"; unset falls back
	// to the webhook's own name.
	if username != "" && !strings.Contains(strings.ToLower(username), "discord") {
		msg.Username = &username
	}
	if avatar != "" {
		msg.AvatarURL = &avatar
	}
	return a.sendWebhook(a.Cfg.DiscordWebhookURL, msg)
}
