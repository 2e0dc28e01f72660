package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// loadWithDefaults reads the YAML config file, applies defaults, then
// applies environment variable overrides (env always wins). A .env
// file next to the binary is loaded first if present.
func loadWithDefaults(path string, setDefaults func(*Config)) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if setDefaults != nil {
		setDefaults(&cfg)
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// applyEnvOverrides maps the env-tagged fields explicitly. The set is
// small enough that reflection buys nothing.
func applyEnvOverrides(cfg *Config) {
	overrideInt(&cfg.Service.Port, "CONVERSIONS_PORT")
	overrideBool(&cfg.Service.Debug, "APP_DEBUG")

	overrideString(&cfg.Database.Host, "POSTGRES_CONVERSIONS_HOST")
	overrideInt(&cfg.Database.Port, "POSTGRES_CONVERSIONS_PORT")
	overrideString(&cfg.Database.User, "POSTGRES_CONVERSIONS_USER")
	overrideString(&cfg.Database.Password, "POSTGRES_CONVERSIONS_PASSWORD")
	overrideString(&cfg.Database.Database, "POSTGRES_CONVERSIONS_DB")
	overrideString(&cfg.Database.SSLMode, "POSTGRES_CONVERSIONS_SSLMODE")

	overrideString(&cfg.Networks.FacebookPixelURL, "FACEBOOK_PIXEL_URL")
	overrideString(&cfg.Networks.GoogleRelayURL, "GOOGLE_RELAY_URL")
	overrideString(&cfg.Networks.TiktokEndpoint, "TIKTOK_ENDPOINT")

	overrideString(&cfg.Logging.Level, "LOG_LEVEL")
	overrideString(&cfg.Logging.Format, "LOG_FORMAT")
}

func overrideString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func overrideInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func overrideBool(dst *bool, key string) {
	if val := os.Getenv(key); val != "" {
		s := strings.ToLower(strings.TrimSpace(val))
		*dst = s == "true" || s == "1" || s == "yes"
	}
}

// GetConfigPath returns the config path from CONFIG_PATH env var or
// the default.
func GetConfigPath(defaultPath string) string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return defaultPath
}
