// Package config loads runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"gic-cinemas/seating"
)

const appDir = "gic-cinemas"

const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

type Config struct {
	StateFile  string // JSON state file
	Store      string // json or sqlite
	SQLiteDSN  string
	LogDir     string
	LogConsole bool   // echo log lines to stderr
	Seating    string // policy used for fresh bookings
}

// Load reads .env (if present) and the GIC_* environment variables.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return Config{}, err
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		StateFile: env("GIC_STATE_FILE", filepath.Join(configDir, appDir, "movie.json")),
		Store:     strings.ToLower(env("GIC_STORE", StoreJSON)),
		SQLiteDSN: env("GIC_SQLITE_DSN", "file:"+filepath.Join(configDir, appDir, "gic.db")+"?cache=shared"),
		LogDir:    env("GIC_LOG_DIR", filepath.Join(cacheDir, appDir, "logs")),
		Seating:   strings.ToLower(env("GIC_SEATING", seating.PolicyStandard)),
	}

	if raw, ok := os.LookupEnv("GIC_LOG_CONSOLE"); ok && raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid bool for GIC_LOG_CONSOLE: %q", raw)
		}
		cfg.LogConsole = v
	}

	switch cfg.Store {
	case StoreJSON, StoreSQLite:
	default:
		return Config{}, fmt.Errorf("invalid GIC_STORE %q: want %s or %s", cfg.Store, StoreJSON, StoreSQLite)
	}
	if _, err := seating.PolicyByName(cfg.Seating); err != nil {
		return Config{}, fmt.Errorf("invalid GIC_SEATING: %w", err)
	}
	return cfg, nil
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
