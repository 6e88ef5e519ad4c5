package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"mongo"`
	MongoURI    string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	DBName      string `envconfig:"MONGODB_DB" default:"local_library"`

	// ReadTimeout bounds the concurrent reads issued for one page.
	ReadTimeout  time.Duration `envconfig:"CATALOG_READ_TIMEOUT" default:"5s"`
	RateLimitRPS float64       `envconfig:"RATE_LIMIT_RPS" default:"50"`

	MetadataLookup bool `envconfig:"METADATA_LOOKUP" default:"false"`

	S3Bucket      string `envconfig:"AWS_S3_BUCKET"`
	S3Region      string `envconfig:"AWS_REGION" default:"us-east-1"`
	S3AccessKeyID string `envconfig:"AWS_ACCESS_KEY_ID"`
	S3SecretKey   string `envconfig:"AWS_SECRET_ACCESS_KEY"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q (use mongo or memory)", c.StoreDriver)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("config: CATALOG_READ_TIMEOUT must be positive")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_RPS must be positive")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel into a zap level.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	return lvl, nil
}
