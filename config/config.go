// backend/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`

	// Pool sizing; zero values fall back to database.InitDB defaults.
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"` // e.g. "5m"
}

// ProviderConfig holds the endpoint and credentials for one external
// flight-data API. The two providers use different auth schemes: FlightAware
// takes an API key header, FlightStats takes appId/appKey query parameters.
type ProviderConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"` // FlightAware x-apikey
	AppID      string `yaml:"app_id"`  // FlightStats appId
	AppKey     string `yaml:"app_key"` // FlightStats appKey
	TimeoutStr string `yaml:"timeout"`
	Timeout    time.Duration // parsed from TimeoutStr
}

type ProvidersConfig struct {
	FlightAware ProviderConfig `yaml:"flightaware"`
	FlightStats ProviderConfig `yaml:"flightstats"`
}

type ReferenceConfig struct {
	CarriersCSV string `yaml:"carriers_csv"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Providers ProvidersConfig `yaml:"providers"`
	Reference ReferenceConfig `yaml:"reference"`
}

var AppConfig Config

const defaultProviderTimeout = 10 * time.Second

// LoadConfig reads configuration from the yaml file at configPath, then
// applies environment variable overrides for secrets so credentials never
// have to live in the file.
func LoadConfig(configPath string) error {
	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(file, &AppConfig)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&AppConfig)

	// Parse provider timeouts
	AppConfig.Providers.FlightAware.Timeout, err = parseTimeout(AppConfig.Providers.FlightAware.TimeoutStr)
	if err != nil {
		return fmt.Errorf("failed to parse flightaware timeout: %w", err)
	}
	AppConfig.Providers.FlightStats.Timeout, err = parseTimeout(AppConfig.Providers.FlightStats.TimeoutStr)
	if err != nil {
		return fmt.Errorf("failed to parse flightstats timeout: %w", err)
	}

	if AppConfig.Server.Port == "" {
		AppConfig.Server.Port = "8080"
	}

	return nil
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return defaultProviderTimeout, nil
	}
	return time.ParseDuration(s)
}

// applyEnvOverrides lets secrets and deploy-time settings come from the
// environment (loaded from .env by main) rather than the yaml file.
func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"PORT", &cfg.Server.Port},
		{"DB_HOST", &cfg.Database.Host},
		{"DB_PORT", &cfg.Database.Port},
		{"DB_USER", &cfg.Database.User},
		{"DB_PASSWORD", &cfg.Database.Password},
		{"DB_NAME", &cfg.Database.DBName},
		{"FLIGHTAWARE_API_KEY", &cfg.Providers.FlightAware.APIKey},
		{"FLIGHTSTATS_APP_ID", &cfg.Providers.FlightStats.AppID},
		{"FLIGHTSTATS_APP_KEY", &cfg.Providers.FlightStats.AppKey},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}
