package cli

import (
	"time"

	"github.com/gabapcia/depositwatch/internal/pkg/validator"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// serveConfig configures the HTTP server process.
type serveConfig struct {
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	OtelEnabled   bool   `envconfig:"OTEL_ENABLED" default:"false"`
	ServerAddress string `envconfig:"SERVER_ADDRESS" default:":8000"`

	DatabaseURI string `envconfig:"DATABASE_URI" validate:"required"`

	IndexerBaseURI string        `envconfig:"INDEXER_BASE_URI" default:"https://testnet.tonapi.io/v1/blockchain/accounts" validate:"required,url"`
	PollInterval   time.Duration `envconfig:"POLL_INTERVAL" default:"10s" validate:"gt=0"`
}

// creditConfig configures the deposit crediting worker.
type creditConfig struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	OtelEnabled bool   `envconfig:"OTEL_ENABLED" default:"false"`

	FeedBaseURI   string `envconfig:"FEED_BASE_URI" default:"ws://localhost:8000" validate:"required"`
	LedgerBaseURI string `envconfig:"LEDGER_BASE_URI" default:"http://localhost:8000" validate:"required,url"`
	PointsPerCoin int64  `envconfig:"POINTS_PER_COIN" default:"100" validate:"gt=0"`

	// Redis is optional: without an address the worker resolves every
	// deposit through the ledger API.
	RedisAddress  string `envconfig:"REDIS_ADDRESS"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// loadConfig fills cfg from the environment, optionally seeded by a local
// .env file, and validates the result. cfg must be a struct pointer.
func loadConfig(cfg any) error {
	// A missing .env file is fine; the environment takes precedence anyway.
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return err
	}

	return validator.Validate(cfg)
}
