// Package roster selects the configured guild out of the identity's guilds
// and renders its member list for the console.
package roster

import (
	"fmt"
	"io"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/guildroster/guild-roster/internal/shared/snowflake"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Separator joins member names in the printed roster.
const Separator = "\n - "

var ErrGuildNotFound = errors.New("guild not found")

// ErrGuildUnavailable is a match on a guild Discord has not delivered yet: an
// ID with no name and no members. It is a kind of ErrGuildNotFound.
var ErrGuildUnavailable = errors.Wrap(ErrGuildNotFound, "guild unavailable")

type Report struct {
	Identity  string   `json:"identity"`
	GuildID   string   `json:"guild_id"`
	GuildName string   `json:"guild_name"`
	Members   []string `json:"members"`
}

// FindGuild returns the first guild whose ID equals target. Guilds with an ID
// that is not a snowflake never match.
func FindGuild(guilds []*discordgo.Guild, target snowflake.ID) mo.Option[*discordgo.Guild] {
	for _, g := range guilds {
		if g == nil {
			continue
		}
		id, err := snowflake.Parse(g.ID)
		if err != nil {
			continue
		}
		if id == target {
			return mo.Some(g)
		}
	}
	return mo.None[*discordgo.Guild]()
}

// DisplayName is the guild nickname, then the global display name, then the
// username.
func DisplayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User == nil {
		return ""
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

func MemberNames(members []*discordgo.Member) []string {
	return lo.FilterMap(members, func(m *discordgo.Member, _ int) (string, bool) {
		if m == nil {
			return "", false
		}
		return DisplayName(m), true
	})
}

func Format(names []string) string {
	return strings.Join(names, Separator)
}

// Build locates target among guilds and captures its roster. The caller must
// hold whatever lock protects guilds.
func Build(identity string, guilds []*discordgo.Guild, target snowflake.ID) (Report, error) {
	maybeGuild := FindGuild(guilds, target)
	if !maybeGuild.IsPresent() {
		return Report{}, errors.Wrapf(ErrGuildNotFound, "guild %s among %d guilds", target, len(guilds))
	}
	g := maybeGuild.MustGet()
	if g.Unavailable {
		return Report{}, errors.Wrapf(ErrGuildUnavailable, "guild %s", target)
	}
	return Report{
		Identity:  identity,
		GuildID:   g.ID,
		GuildName: g.Name,
		Members:   MemberNames(g.Members),
	}, nil
}

func (r Report) Roster() string {
	return Format(r.Members)
}

// GuildLine is the guild confirmation without the leading identity line.
func (r Report) GuildLine() string {
	return fmt.Sprintf("%s - (id: %s)", r.GuildName, r.GuildID)
}

func WriteConnected(w io.Writer, identity string) error {
	_, err := fmt.Fprintf(w, "%s has connected to Discord!\n", identity)
	return errors.Wrap(err, "write connected line")
}

func WriteReport(w io.Writer, r Report) error {
	_, err := fmt.Fprintf(w,
		"%s is connected to the following guild:\n%s\n\nGuild Members:\n - %s\n",
		r.Identity, r.GuildLine(), r.Roster(),
	)
	return errors.Wrap(err, "write roster")
}
