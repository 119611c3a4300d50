package config

import (
	"os"
	"time"

	"github.com/guildroster/guild-roster/internal/shared/snowflake"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	DiscordToken      string
	GuildID           snowflake.ID
	ReadyTimeout      time.Duration
	SnapshotDBPath    string
	DiscordWebhookURL string
	FeedAddr          string
	Log               LogConfig
}

type LogConfig struct {
	Path    string
	Level   string
	Console bool
}

// Load reads .env (if present) and then the process environment. Variables
// already set in the environment win over the file.
func Load() (Config, error) {
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}
	return FromEnv()
}

// LoadDotEnv loads the given files, or ./.env when none are given. A missing
// file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "load %s", p)
		}
	}
	return nil
}

func FromEnv() (Config, error) {
	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return Config{}, errors.New("DISCORD_TOKEN not set")
	}

	rawGuild := os.Getenv("GUILD_ID")
	if rawGuild == "" {
		return Config{}, errors.New("GUILD_ID not set")
	}
	guildID, err := snowflake.Parse(rawGuild)
	if err != nil {
		return Config{}, errors.Wrap(err, "GUILD_ID")
	}

	readyTimeout, err := time.ParseDuration(envDefault("GUILD_READY_TIMEOUT", "2s"))
	if err != nil {
		return Config{}, errors.Wrap(err, "GUILD_READY_TIMEOUT")
	}
	if readyTimeout <= 0 {
		return Config{}, errors.Errorf("GUILD_READY_TIMEOUT must be positive, got %s", readyTimeout)
	}

	return Config{
		DiscordToken:      token,
		GuildID:           guildID,
		ReadyTimeout:      readyTimeout,
		SnapshotDBPath:    os.Getenv("ROSTER_DB_PATH"),
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		FeedAddr:          os.Getenv("FEED_ADDR"),
		Log: LogConfig{
			Path:    envDefault("LOG_PATH", "./logs/roster.log"),
			Level:   envDefault("LOG_LEVEL", "info"),
			Console: os.Getenv("ENV") == "dev" || os.Getenv("LOG_CONSOLE") == "1",
		},
	}, nil
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
