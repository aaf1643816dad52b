package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "LOG_LEVEL", "CATALOG_RATE_LIMIT", "CATALOG_CACHE_TTL", "CATALOG_CACHE_SIZE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 2, cfg.CatalogRateLimit)
	assert.Equal(t, 15*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, 16, cfg.CatalogCacheSize)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CATALOG_CACHE_TTL", "90s")
	t.Setenv("CATALOG_API_URL", "https://shop.example/admin/api")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 90*time.Second, cfg.CatalogCacheTTL)
	assert.Equal(t, "https://shop.example/admin/api", cfg.CatalogAPIURL)
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("CATALOG_RATE_LIMIT", "fast")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sku: [Artikel]\nprice: [Preis, Price]\n"), 0o600))

	aliases, err := LoadAliases(path)
	require.NoError(t, err)

	assert.Equal(t, "Artikel", aliases.SKU[0])
	assert.Equal(t, "SKU", aliases.SKU[1])
	assert.Equal(t, []string{"Preis", "Price", "Cost", "Unit_Price", "price"}, aliases.Price)
}

func TestLoadAliases_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skew: [Artikel]\n"), 0o600))

	_, err := LoadAliases(path)
	assert.Error(t, err)
}
