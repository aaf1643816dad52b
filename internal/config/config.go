package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mauv0809/pricelist/internal/pricelist"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

// Config is everything the service reads from its environment.
type Config struct {
	Env         string
	Port        string
	LogLevel    zerolog.Level
	DatabaseURL string

	CatalogAPIURL    string
	CatalogAPIToken  string
	CatalogRateLimit int
	CatalogCacheTTL  time.Duration
	CatalogCacheSize int

	AliasesFile string
}

// Load reads a .env file if present, then the environment.
func Load() (Config, error) {
	// Load .env file if it exists (local dev)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	cfg := Config{
		Env:             getenv("APP_ENV", "development"),
		Port:            getenv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		CatalogAPIURL:   os.Getenv("CATALOG_API_URL"),
		CatalogAPIToken: os.Getenv("CATALOG_API_TOKEN"),
		AliasesFile:     os.Getenv("ALIASES_FILE"),
	}

	var err error
	if cfg.LogLevel, err = zerolog.ParseLevel(getenv("LOG_LEVEL", "info")); err != nil {
		return Config{}, eris.Wrap(err, "LOG_LEVEL")
	}
	if cfg.CatalogRateLimit, err = strconv.Atoi(getenv("CATALOG_RATE_LIMIT", "2")); err != nil {
		return Config{}, eris.Wrap(err, "CATALOG_RATE_LIMIT")
	}
	if cfg.CatalogCacheTTL, err = time.ParseDuration(getenv("CATALOG_CACHE_TTL", "15m")); err != nil {
		return Config{}, eris.Wrap(err, "CATALOG_CACHE_TTL")
	}
	if cfg.CatalogCacheSize, err = strconv.Atoi(getenv("CATALOG_CACHE_SIZE", "16")); err != nil {
		return Config{}, eris.Wrap(err, "CATALOG_CACHE_SIZE")
	}

	return cfg, nil
}

// Aliases returns the default alias set, extended by AliasesFile if set.
func (c Config) Aliases() (pricelist.AliasSet, error) {
	if c.AliasesFile == "" {
		return pricelist.DefaultAliases, nil
	}
	return LoadAliases(c.AliasesFile)
}

// LoadAliases reads extra column aliases from a YAML file. Listed names
// are tried before the defaults.
func LoadAliases(path string) (pricelist.AliasSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pricelist.AliasSet{}, eris.Wrapf(err, "read aliases %s", path)
	}
	var override pricelist.AliasSet
	if err := yaml.UnmarshalStrict(data, &override); err != nil {
		return pricelist.AliasSet{}, eris.Wrapf(err, "parse aliases %s", path)
	}
	return pricelist.DefaultAliases.Merge(override), nil
}

// SetupLogging configures the global zerolog logger. Development gets the
// human-readable console writer.
func (c Config) SetupLogging() {
	zerolog.SetGlobalLevel(c.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339
	if c.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
