// Package config resolves settings from defaults, a .env file, the environment and
// command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jason-s-yu/bang/internal/game"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Catalog source names.
const (
	SourceBuiltin  = "builtin"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config is everything the binaries need to start.
type Config struct {
	DatabaseURL   string
	RedisAddr     string
	RedisDB       int
	QueueName     string
	LogLevel      logrus.Level
	CatalogSource string
	CatalogPath   string
	CatalogTable  string
	Rules         game.HouseRules

	// historian worker
	BatchSize   int
	FlushMs     int
	IdleTimeout int
}

// keys maps viper keys to the environment variables they read.
var keys = map[string]string{
	"database_url":   "DATABASE_URL",
	"redis_addr":     "REDIS_ADDR",
	"redis_db":       "REDIS_DB",
	"queue_name":     "HISTORIAN_QUEUE_NAME",
	"log_level":      "LOG_LEVEL",
	"catalog_source": "BANG_CATALOG_SOURCE",
	"catalog_path":   "BANG_CATALOG_PATH",
	"catalog_table":  "BANG_CATALOG_TABLE",
	"rules":          "BANG_RULES",
	"batch_size":     "HISTORIAN_BATCH_SIZE",
	"flush_ms":       "HISTORIAN_FLUSH_MS",
	"idle_timeout":   "GAME_INACTIVITY_TIMEOUT_SEC",
}

// New returns a viper instance with defaults and environment bindings set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("queue_name", "bang_events")
	v.SetDefault("log_level", "info")
	v.SetDefault("catalog_source", SourceBuiltin)
	v.SetDefault("catalog_table", "decks.classic_deck")
	v.SetDefault("batch_size", 20)
	v.SetDefault("flush_ms", 500)
	v.SetDefault("idle_timeout", 600)
	for key, env := range keys {
		// BindEnv only fails without a key
		_ = v.BindEnv(key, env)
	}
	return v
}

// LoadDotEnv reads .env files into the process environment. Missing files are fine;
// variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// BindFlags lets flags override the environment. Flag names use dashes in place of
// the key underscores, e.g. --catalog-source.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key := range keys {
		f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// Load resolves a Config from v.
func Load(v *viper.Viper) (*Config, error) {
	level, err := logrus.ParseLevel(v.GetString("log_level"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	rules, err := game.ParseRulesJSON(v.GetString("rules"))
	if err != nil {
		return nil, fmt.Errorf("BANG_RULES: %w", err)
	}
	src := strings.ToLower(v.GetString("catalog_source"))
	switch src {
	case SourceBuiltin, SourcePostgres:
	case SourceFile:
		if v.GetString("catalog_path") == "" {
			return nil, fmt.Errorf("catalog source %q needs BANG_CATALOG_PATH", src)
		}
	default:
		return nil, fmt.Errorf("unknown catalog source %q", src)
	}

	return &Config{
		DatabaseURL:   v.GetString("database_url"),
		RedisAddr:     v.GetString("redis_addr"),
		RedisDB:       v.GetInt("redis_db"),
		QueueName:     v.GetString("queue_name"),
		LogLevel:      level,
		CatalogSource: src,
		CatalogPath:   v.GetString("catalog_path"),
		CatalogTable:  v.GetString("catalog_table"),
		Rules:         rules,
		BatchSize:     v.GetInt("batch_size"),
		FlushMs:       v.GetInt("flush_ms"),
		IdleTimeout:   v.GetInt("idle_timeout"),
	}, nil
}

// NewLogger builds the process logger at the configured level.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}
