package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store backends accepted by STORE.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port             int            `envconfig:"PORT" default:"8080"`
	LogLevel         string         `envconfig:"LOG_LEVEL" default:"info"`
	Store            string         `envconfig:"STORE" default:"postgres"`
	DatabaseURL      string         `envconfig:"DATABASE_URL" default:""`
	AutoMigrate      bool           `envconfig:"AUTO_MIGRATE" default:"true"`
	Version          string         `envconfig:"VERSION" default:"dev"`
	OrganizerKeyHash string         `envconfig:"ORGANIZER_KEY_HASH" default:""`
	CORSOrigins      []string       `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	TierScores       map[string]int `envconfig:"TIER_SCORES" default:"IRON:100,BRONZE:200,SILVER:300,GOLD:400,PLATINUM:500,EMERALD:600,DIAMOND:700,MASTER:800,GRANDMASTER:900,CHALLENGER:1000"`
	UnrankedScore    int            `envconfig:"UNRANKED_SCORE" default:"50"`

	RiotAPIKey            string `envconfig:"RIOT_API_KEY" default:""`
	RiotAccountBaseURL    string `envconfig:"RIOT_ACCOUNT_BASE_URL" default:"https://asia.api.riotgames.com"`
	RiotLeagueBaseURL     string `envconfig:"RIOT_LEAGUE_BASE_URL" default:"https://kr.api.riotgames.com"`
	RatingRefreshInterval int    `envconfig:"RATING_REFRESH_INTERVAL" default:"0"`
	RatingConcurrency     int    `envconfig:"RATING_REFRESH_CONCURRENCY" default:"4"`
}

// Load reads configuration from environment variables into a Config struct.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE=postgres")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.RatingRefreshInterval < 0 {
		return fmt.Errorf("RATING_REFRESH_INTERVAL must not be negative, got %d", c.RatingRefreshInterval)
	}
	if c.RatingConcurrency < 1 {
		c.RatingConcurrency = 1
	}
	return nil
}
