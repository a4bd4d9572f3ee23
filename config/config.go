package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort           = "8083"
	defaultDatabaseDriver = "sqlite"
	defaultSQLiteDSN      = "cafes.db"
	defaultPostgresDSN    = "host=localhost user=postgres password=postgres dbname=cafes port=5432 sslmode=disable"
	defaultSessionMaxAge  = 7 * 24 * time.Hour
	defaultAllowedOrigin  = "http://localhost:3000"
)

var ErrMissingSecret = errors.New("SECRET_KEY must be set")

type Config struct {
	Port           string
	Release        bool
	DatabaseDriver string
	DatabaseDSN    string
	SecretKey      string
	SessionMaxAge  time.Duration
	AllowedOrigins []string
	// OpenAccess lets anonymous visitors add, edit and delete cafes.
	OpenAccess    bool
	SecureCookies bool
}

// Load reads the configuration from the environment. A .env file in the
// working directory is merged in first if one exists; real environment
// variables win over it.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:           getenv("PORT"),
		Release:        getenv("GIN_MODE") == "release",
		DatabaseDriver: strings.ToLower(strings.TrimSpace(getenv("DB_DRIVER"))),
		DatabaseDSN:    getenv("DATABASE_DSN"),
		SecretKey:      getenv("SECRET_KEY"),
		SessionMaxAge:  defaultSessionMaxAge,
		AllowedOrigins: []string{defaultAllowedOrigin},
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	switch cfg.DatabaseDriver {
	case "":
		cfg.DatabaseDriver = defaultDatabaseDriver
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres)", cfg.DatabaseDriver)
	}
	if cfg.DatabaseDSN == "" {
		if cfg.DatabaseDriver == "postgres" {
			cfg.DatabaseDSN = defaultPostgresDSN
		} else {
			cfg.DatabaseDSN = defaultSQLiteDSN
		}
	}

	if cfg.SecretKey == "" {
		return Config{}, ErrMissingSecret
	}

	if v := getenv("SESSION_MAX_AGE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid SESSION_MAX_AGE %q", v)
		}
		cfg.SessionMaxAge = d
	}

	for _, origin := range strings.Split(getenv("ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" || origin == defaultAllowedOrigin {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return Config{}, fmt.Errorf("invalid origin %q in ALLOWED_ORIGINS", origin)
		}
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
	}

	var err error
	if cfg.OpenAccess, err = parseBool(getenv, "OPEN_ACCESS"); err != nil {
		return Config{}, err
	}
	if cfg.SecureCookies, err = parseBool(getenv, "SECURE_COOKIES"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parseBool(getenv func(string) string, key string) (bool, error) {
	v := getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, v)
	}
	return b, nil
}
