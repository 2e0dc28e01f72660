// Package config loads service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName  = "conversions-manager"
	defaultServicePort  = 8095
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
	defaultDBHost       = "localhost"
	defaultDBPort       = 5432
	defaultDBName       = "conversions"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"

	defaultFacebookPixelURL = "https://www.facebook.com/tr/"
	defaultRequestTimeoutS  = 30
)

// Config holds the application configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Networks NetworksConfig `yaml:"networks"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"CONVERSIONS_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"        yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_CONVERSIONS_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_CONVERSIONS_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_CONVERSIONS_USER"     yaml:"user"`
	Password string `env:"POSTGRES_CONVERSIONS_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_CONVERSIONS_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_CONVERSIONS_SSLMODE"  yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// NetworksConfig holds the advertising network endpoints.
type NetworksConfig struct {
	FacebookPixelURL string        `env:"FACEBOOK_PIXEL_URL" yaml:"facebook_pixel_url"`
	GoogleRelayURL   string        `env:"GOOGLE_RELAY_URL"   yaml:"google_relay_url"`
	TiktokEndpoint   string        `env:"TIKTOK_ENDPOINT"    yaml:"tiktok_endpoint"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return loadWithDefaults(path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setNetworksDefaults(&cfg.Networks)
	setLoggingDefaults(&cfg.Logging)
}

// setServiceDefaults applies default values to ServiceConfig.
func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

// setDatabaseDefaults applies default values to DatabaseConfig.
func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
}

// setNetworksDefaults applies default values to NetworksConfig.
func setNetworksDefaults(n *NetworksConfig) {
	if n.FacebookPixelURL == "" {
		n.FacebookPixelURL = defaultFacebookPixelURL
	}
	if n.RequestTimeout == 0 {
		n.RequestTimeout = defaultRequestTimeoutS * time.Second
	}
}

// setLoggingDefaults applies default values to LoggingConfig.
func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if c.Networks.GoogleRelayURL == "" {
		return &ValidationError{
			Field:   "networks.google_relay_url",
			Message: "is required",
		}
	}
	if c.Networks.TiktokEndpoint == "" {
		return &ValidationError{
			Field:   "networks.tiktok_endpoint",
			Message: "is required",
		}
	}
	return nil
}
