package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"EMSHOWER_DB", "EMSHOWER_WORKERS", "EMSHOWER_SEED", "EMSHOWER_MAX_GENERATIONS", "EMSHOWER_CATALOG"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.DB)
	assert.Equal(t, 0, cfg.Workers)
	assert.False(t, cfg.SeedSet)
	assert.Equal(t, 1_000_000, cfg.MaxGenerations)
	assert.Empty(t, cfg.Catalog)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EMSHOWER_DB", "/tmp/showers.db")
	t.Setenv("EMSHOWER_WORKERS", "4")
	t.Setenv("EMSHOWER_SEED", "42")
	t.Setenv("EMSHOWER_MAX_GENERATIONS", "500")
	t.Setenv("EMSHOWER_CATALOG", "materials")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/showers.db", cfg.DB)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.SeedSet)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 500, cfg.MaxGenerations)
	assert.Equal(t, "materials", cfg.Catalog)
}

func TestLoadRejectsNegative(t *testing.T) {
	t.Setenv("EMSHOWER_WORKERS", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMSHOWER_WORKERS")
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("EMSHOWER_SEED", "not-an-int")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
