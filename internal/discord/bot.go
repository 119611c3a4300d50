package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

// NewSession builds an unopened session with the library's default intents.
// Member lists in state are only as complete as those intents allow.
func NewSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, errors.New("empty discord token")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, errors.Wrap(err, "discord init")
	}
	s.Identify.Intents = discordgo.IntentsAllWithoutPrivileged
	s.StateEnabled = true
	s.State.TrackMembers = true
	return s, nil
}
