package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full bot configuration, read from the environment.
// A .env file in the working directory is loaded first if present.
type Config struct {
	DiscordToken     string   `env:"DISCORD_TOKEN"`
	DiscordBetaToken string   `env:"DISCORD_BETA_TOKEN"`
	DefaultPrefix    string   `env:"DEFAULT_PREFIX" envDefault:"!"`
	Owners           []string `env:"OWNER_IDS" envSeparator:","`

	CommandsDir string `env:"COMMANDS_DIR" envDefault:"commands"`
	DataDir     string `env:"DATA_DIR" envDefault:"data"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"players.db"`
	StoragePath  string `env:"STORAGE_PATH" envDefault:"datastore.json"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	UpdaterAddr     string `env:"UPDATER_ADDR" envDefault:":8555"`
	WebhookSecret   string `env:"GITHUB_WEBHOOK_SECRET"`
	UpdateChannelID string `env:"UPDATE_CHANNEL_ID"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// New loads the configuration. The Discord token is the only hard
// requirement; everything else has a workable default or is optional.
func New(production bool) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if !production && cfg.DiscordBetaToken != "" {
		cfg.DiscordToken = cfg.DiscordBetaToken
	}
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is not set")
	}

	return cfg, nil
}

// IsOwner reports whether the given Discord user ID belongs to a bot owner.
func (c *Config) IsOwner(userID string) bool {
	for _, id := range c.Owners {
		if id == userID {
			return true
		}
	}
	return false
}
