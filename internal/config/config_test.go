package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, env := range keys {
		t.Setenv(env, "")
	}
	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "bang_events", cfg.QueueName)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, SourceBuiltin, cfg.CatalogSource)
	assert.Equal(t, "decks.classic_deck", cfg.CatalogTable)
	assert.Equal(t, 3, cfg.Rules.BeerMinAlive)
	assert.Equal(t, 20, cfg.BatchSize)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BANG_CATALOG_SOURCE", "FILE")
	t.Setenv("BANG_CATALOG_PATH", "deck.toml")
	t.Setenv("BANG_RULES", `{"outlawBounty": 2, "deputyPenalty": false}`)

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, SourceFile, cfg.CatalogSource)
	assert.Equal(t, 2, cfg.Rules.OutlawBounty)
	assert.False(t, cfg.Rules.DeputyPenalty)
	assert.Equal(t, logrus.DebugLevel, cfg.NewLogger().GetLevel())
}

func TestInvalidSettings(t *testing.T) {
	tests := []struct {
		name, env, value, want string
	}{
		{"log level", "LOG_LEVEL", "loud", "LOG_LEVEL"},
		{"rules", "BANG_RULES", "{", "BANG_RULES"},
		{"source", "BANG_CATALOG_SOURCE", "carrier_pigeon", "unknown catalog source"},
		{"file without path", "BANG_CATALOG_SOURCE", "file", "BANG_CATALOG_PATH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BANG_CATALOG_PATH", "")
			t.Setenv(tt.env, tt.value)
			_, err := Load(New())
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("REDIS_ADDR", "from-env:6379")
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("redis-addr", "", "")
	flags.String("unrelated", "", "")
	require.NoError(t, flags.Parse([]string{"--redis-addr", "from-flag:6379"}))

	v := New()
	require.NoError(t, BindFlags(v, flags))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "from-flag:6379", cfg.RedisAddr)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("BANG_TEST_ONLY=dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("BANG_TEST_ONLY") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "dotenv", os.Getenv("BANG_TEST_ONLY"))
}
