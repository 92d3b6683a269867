package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every environment-driven setting of the draft service
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"json"`

	Port     string `envconfig:"PORT" default:"3000"`
	GRPCPort string `envconfig:"GRPC_PORT" default:"50051"`

	// Storage: memory, sqlite or postgres
	DBDriver    string `envconfig:"DB_DRIVER" default:"memory"`
	SQLiteFile  string `envconfig:"SQLITE_FILE" default:"dev.sqlite"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	NATSURL     string `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	NATSSubject string `envconfig:"NATS_SUBJECT" default:"draft.events"`

	// Empty keeps tick locks in-process
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	ClickHouseAddr     string `envconfig:"CLICKHOUSE_ADDR" default:"localhost:9000"`
	ClickHouseDB       string `envconfig:"CLICKHOUSE_DB" default:"default"`
	ClickHouseUser     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	ClickHousePassword string `envconfig:"CLICKHOUSE_PASSWORD"`

	// Empty API key means template-only text
	OpenAIBaseURL  string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIModel    string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIAPIKey   string        `envconfig:"OPENAI_API_KEY"`
	TextGenTimeout time.Duration `envconfig:"TEXTGEN_TIMEOUT" default:"3s"`

	TickInterval time.Duration `envconfig:"TICK_INTERVAL" default:"5s"`
	LiveMode     bool          `envconfig:"LIVE_MODE" default:"false"`
	// PickTimeLimit is stamped on drafts created without one. Live mode
	// ticks each draft at its own limit.
	PickTimeLimit time.Duration `envconfig:"PICK_TIME_LIMIT" default:"90s"`
	TickLockTTL   time.Duration `envconfig:"TICK_LOCK_TTL" default:"30s"`
	DefaultRounds int           `envconfig:"DEFAULT_ROUNDS" default:"15"`

	AuthentikBaseURL      string `envconfig:"AUTHENTIK_BASE_URL"`
	AuthentikClientID     string `envconfig:"AUTHENTIK_CLIENT_ID"`
	AuthentikClientSecret string `envconfig:"AUTHENTIK_CLIENT_SECRET"`
	AuthentikRedirectURL  string `envconfig:"AUTHENTIK_REDIRECT_URL" default:"http://localhost:3000/auth/callback"`
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether local development doubles should be used
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

// Validate checks cross-field requirements
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "memory", "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER: %s (valid: memory, sqlite, postgres)", c.DBDriver)
	}
	if c.DefaultRounds <= 0 {
		return fmt.Errorf("DEFAULT_ROUNDS must be positive")
	}
	if c.PickTimeLimit < 0 {
		return fmt.Errorf("PICK_TIME_LIMIT must not be negative")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive")
	}
	if !c.IsDevelopment() && (c.AuthentikBaseURL == "" || c.AuthentikClientID == "" || c.AuthentikClientSecret == "") {
		return fmt.Errorf("AUTHENTIK_BASE_URL, AUTHENTIK_CLIENT_ID and AUTHENTIK_CLIENT_SECRET are required outside development")
	}
	return nil
}
