// Package config loads terminal settings from the environment and an
// optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverBolt   = "bolt"
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

type Config struct {
	AppPort  string
	Location string

	StorageDriver string
	DataPath      string
	SQLiteDSN     string

	JWTSecret    string
	TokenTTL     time.Duration
	PasswordMode string

	LogMode string
	LogFile string

	AMQPURL           string
	AMQPQueue         string
	AMQPConsume       bool
	LowStockThreshold int
	ReportCron        string
	LowStockCron      string
}

// SetDefaults registers the default of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "127.0.0.1:8080")
	v.SetDefault("LOCATION", "Local")
	v.SetDefault("STORAGE_DRIVER", DriverBolt)
	v.SetDefault("DATA_PATH", "data/kasir.db")
	v.SetDefault("SQLITE_DSN", "data/kasir.sqlite")
	v.SetDefault("JWT_SECRET", "kasir-local-terminal-secret")
	v.SetDefault("TOKEN_TTL", "12h")
	v.SetDefault("PASSWORD_MODE", "bcrypt")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_QUEUE", "transaction_queue")
	v.SetDefault("AMQP_CONSUME", false)
	v.SetDefault("LOW_STOCK_THRESHOLD", 10)
	v.SetDefault("REPORT_CRON", "55 23 * * *")
	v.SetDefault("LOW_STOCK_CRON", "0 8 * * *")
}

// Load reads settings from the environment. When CONFIG_FILE is set the
// file is read first and environment variables override it.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:           v.GetString("APP_PORT"),
		Location:          v.GetString("LOCATION"),
		StorageDriver:     strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DataPath:          v.GetString("DATA_PATH"),
		SQLiteDSN:         v.GetString("SQLITE_DSN"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		TokenTTL:          v.GetDuration("TOKEN_TTL"),
		PasswordMode:      strings.ToLower(v.GetString("PASSWORD_MODE")),
		LogMode:           v.GetString("LOG_MODE"),
		LogFile:           v.GetString("LOG_FILE"),
		AMQPURL:           v.GetString("AMQP_URL"),
		AMQPQueue:         v.GetString("AMQP_QUEUE"),
		AMQPConsume:       v.GetBool("AMQP_CONSUME"),
		LowStockThreshold: v.GetInt("LOW_STOCK_THRESHOLD"),
		ReportCron:        v.GetString("REPORT_CRON"),
		LowStockCron:      v.GetString("LOW_STOCK_CRON"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the terminal cannot start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverBolt, DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.PasswordMode {
	case "bcrypt", "plain":
	default:
		return fmt.Errorf("unknown PASSWORD_MODE %q", c.PasswordMode)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD must not be negative")
	}
	return nil
}

// TimeLocation resolves Location, falling back to the local zone.
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Location == "" || c.Location == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Location)
}
