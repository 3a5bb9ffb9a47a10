package config

import (
	"fmt"
	"log"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const (
	DataSourceHTTP     = "http"
	DataSourcePostgres = "postgres"
)

type Config struct {
	Environment string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	HTTPAddr      string `mapstructure:"HTTP_ADDR"`

	// DataSource selects where availability comes from: the REST backend or PostgreSQL.
	DataSource     string        `mapstructure:"DATA_SOURCE"`
	BackendURL     string        `mapstructure:"BACKEND_URL"`
	BackendToken   string        `mapstructure:"BACKEND_TOKEN"`
	BackendTimeout time.Duration `mapstructure:"BACKEND_TIMEOUT"`
	DBDSN          string        `mapstructure:"DB_DSN"`
	MigrationsPath string        `mapstructure:"MIGRATIONS_PATH"`

	Timezone           string        `mapstructure:"TIMEZONE"`
	SessionIdleTimeout time.Duration `mapstructure:"SESSION_IDLE_TIMEOUT"`
	BookingDuration    time.Duration `mapstructure:"BOOKING_DURATION"`

	location *time.Location
}

func Load() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		Environment:    os.Getenv("ENV"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		DataSource:     os.Getenv("DATA_SOURCE"),
		BackendURL:     os.Getenv("BACKEND_URL"),
		BackendToken:   os.Getenv("BACKEND_TOKEN"),
		DBDSN:          os.Getenv("DB_DSN"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		Timezone:       os.Getenv("TIMEZONE"),
	}

	var err error
	if cfg.BackendTimeout, err = durationEnv("BACKEND_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTimeout, err = durationEnv("SESSION_IDLE_TIMEOUT", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.BookingDuration, err = durationEnv("BOOKING_DURATION", time.Hour); err != nil {
		return nil, err
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.DataSource == "" {
		cfg.DataSource = DataSourceHTTP
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Kolkata"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded (env=%s, source=%s, tz=%s)\n", cfg.Environment, cfg.DataSource, cfg.Timezone)

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DataSource {
	case DataSourceHTTP:
		if c.BackendURL == "" {
			return fmt.Errorf("BACKEND_URL is required when DATA_SOURCE=%s", DataSourceHTTP)
		}
	case DataSourcePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required when DATA_SOURCE=%s", DataSourcePostgres)
		}
	default:
		return fmt.Errorf("unknown DATA_SOURCE %q", c.DataSource)
	}

	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
		}
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	return nil
}

// Location returns the zone dates and slots are evaluated in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// RequireTelegram checks the settings only the bot binary needs.
func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	return nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
