package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "netflix_titles.csv", cfg.CSVPath)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Serve)
	assert.Equal(t, "127.0.0.1:8501", cfg.ListenAddr)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 60*time.Second, cfg.ChromeTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestLoad_EnvThenFlags(t *testing.T) {
	t.Setenv("CATALOG_CSV_PATH", "/data/env.csv")
	t.Setenv("CATALOG_LOG_LEVEL", "debug")
	t.Setenv("CATALOG_CACHE_SIZE", "2")

	cfg, err := Load([]string{"-log-level", "warn", "-serve", "-db-driver", "sqlite"})
	require.NoError(t, err)

	assert.Equal(t, "/data/env.csv", cfg.CSVPath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 2, cfg.CacheSize)
	assert.True(t, cfg.Serve)
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

func TestLoad_PositionalPath(t *testing.T) {
	cfg, err := Load([]string{"-csv", "flag.csv", "positional.csv"})
	require.NoError(t, err)
	assert.Equal(t, "positional.csv", cfg.CSVPath)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"unknown flag", nil, []string{"-nope"}},
		{"bad environment", nil, []string{"-env", "test"}},
		{"bad driver", nil, []string{"-db-driver", "mysql"}},
		{"bad listen address", nil, []string{"-addr", "nowhere"}},
		{"bad cache size", map[string]string{"CATALOG_CACHE_SIZE": "0"}, nil},
		{"unparseable env", map[string]string{"CATALOG_MAX_RETRIES": "lots"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.args)
			assert.Error(t, err)
		})
	}
}
