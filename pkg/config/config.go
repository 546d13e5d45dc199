// Package config loads the service configuration from the environment,
// with an optional .env file for local development. Secrets are handed
// to the rest of the system as explicit structs, never read ad hoc
// from process-wide state.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/entrhq/timefill/pkg/camis"
)

// Default values for optional settings.
const (
	// DefaultURL is the fixed application entry point.
	DefaultURL = "https://camis.cegeka.com/agresso"

	DefaultAddr     = ":8000"
	DefaultLogLevel = "info"
)

// Config is the full service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// URL is the timesheet application entry point.
	URL string

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string

	// SelectorsPath optionally points at a YAML file overriding the
	// built-in selector table.
	SelectorsPath string

	// Credentials for the automation account. Password and OTP secret
	// are optional; their absence triggers the manual sign-in fallback.
	Credentials camis.Credentials
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; a missing file is
// not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:          envOr("TIMEFILL_ADDR", DefaultAddr),
		URL:           envOr("CAMIS_URL", DefaultURL),
		LogLevel:      envOr("TIMEFILL_LOG_LEVEL", DefaultLogLevel),
		SelectorsPath: os.Getenv("TIMEFILL_SELECTORS"),
		Credentials: camis.Credentials{
			Username:  os.Getenv("AD_LOGIN"),
			Password:  os.Getenv("AD_PASSWORD"),
			OTPSecret: os.Getenv("AD_TOTP_SECRET"),
		},
	}

	if cfg.Credentials.Username == "" {
		return Config{}, fmt.Errorf("AD_LOGIN is required")
	}
	return cfg, nil
}

// Selectors resolves the selector table, applying the YAML override
// file when configured.
func (c Config) Selectors() (camis.Selectors, error) {
	if c.SelectorsPath == "" {
		return camis.DefaultSelectors(), nil
	}
	return camis.LoadSelectors(c.SelectorsPath)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
