package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration, loaded from the environment.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort  uint   `envconfig:"SERVER_PORT" default:"8080"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"json"` // json or text

	DatabaseURL     string        `envconfig:"DATABASE_URL"`
	DBMaxConns      int32         `envconfig:"DB_MAX_CONNS" default:"20"`
	DBMinConns      int32         `envconfig:"DB_MIN_CONNS" default:"5"`
	DBConnLifetime  time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	DBConnIdleTime  time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"5m"`
	DBDialTimeout   time.Duration `envconfig:"DB_DIAL_TIMEOUT" default:"3s"`
	DBHealthTimeout time.Duration `envconfig:"DB_HEALTH_TIMEOUT" default:"3s"`

	OpenAIAPIKey      string        `envconfig:"OPENAI_API_KEY"`
	OpenAIModel       string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL     string        `envconfig:"OPENAI_BASE_URL"`
	OpenAITemperature float32       `envconfig:"OPENAI_TEMPERATURE" default:"0"`
	OpenAITimeout     time.Duration `envconfig:"OPENAI_TIMEOUT" default:"45s"`

	SupabaseProjectID string        `envconfig:"SUPABASE_PROJECT_ID"`
	SupabaseAPIKey    string        `envconfig:"SUPABASE_API_KEY"`
	StorageBaseURL    string        `envconfig:"STORAGE_BASE_URL"`
	StorageBucket     string        `envconfig:"STORAGE_BUCKET" default:"health_documents"`
	UploadMaxRetries  int           `envconfig:"UPLOAD_MAX_RETRIES" default:"2"`
	UploadRetryDelay  time.Duration `envconfig:"UPLOAD_RETRY_DELAY" default:"1s"`

	ReviewTTL time.Duration `envconfig:"REVIEW_TTL" default:"30m"`
}

// Load reads configuration from environment variables and validates the
// required settings. A missing OpenAI key is deliberately NOT fatal here:
// it is surfaced per-upload as a configuration error by the extraction
// step, so the rest of the app keeps working.
func Load() (*Config, error) {
	c := new(Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}
	if c.SupabaseProjectID == "" && c.StorageBaseURL == "" {
		return nil, fmt.Errorf("set SUPABASE_PROJECT_ID or STORAGE_BASE_URL")
	}
	return c, nil
}

func (c *Config) IsDev() bool {
	return c.Environment == "development"
}
