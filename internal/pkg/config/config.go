package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,        default=8080"`
	Env       string        `env:"ENV,         default=development"`
	LogLevel  string        `env:"LOG_LEVEL,   default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,   default=24h"`

	// SessionTTL bounds idle client sessions and the operator marker lifetime.
	SessionTTL      time.Duration `env:"SESSION_TTL,       default=12h"`
	SweepInterval   time.Duration `env:"SWEEP_INTERVAL,    default=1m"`
	DispatchWorkers int           `env:"DISPATCH_WORKERS,  default=8"`

	RequireEmailConfirmation bool `env:"AUTH_REQUIRE_EMAIL_CONFIRMATION, default=false"`

	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=*"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Operator OperatorConfig
	GenAI    GenAIConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=eventsphere"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// OperatorConfig gates the operator bootstrap sign-in. It is off unless enabled explicitly.
type OperatorConfig struct {
	Enabled  bool   `env:"OPERATOR_BOOTSTRAP_ENABLED, default=false"`
	Email    string `env:"OPERATOR_EMAIL,             default=admin@kiit"`
	Password string `env:"OPERATOR_PASSWORD,          default=admin@kiit"`
}

type GenAIConfig struct {
	APIKey string `env:"GENAI_API_KEY"`
	Model  string `env:"GENAI_MODEL, default=gemini-2.0-flash"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "local"
}

// Validate rejects combinations that cannot run safely.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, errors.New("SWEEP_INTERVAL must be positive"))
	}
	if c.Operator.Enabled && !c.IsDevelopment() && c.Operator.Password == "admin@kiit" {
		errs = append(errs, errors.New("OPERATOR_PASSWORD must be changed outside development"))
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
