package infrastructure

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the backend server configuration: an optional YAML file
// overridden by environment variables.
type Config struct {
	Port         string `yaml:"port"`
	DatabasePath string `yaml:"database_path"`
	AuthMode     string `yaml:"auth_mode"`
	APIKey       string `yaml:"api_key"`
	TokenSecret  string `yaml:"token_secret"`
	Language     string `yaml:"language"`
	Seed         bool   `yaml:"seed"`
}

func defaults() Config {
	return Config{
		Port:         "5000",
		DatabasePath: "database/smart_attendance.db",
		AuthMode:     "none",
		Language:     "ar",
	}
}

// LoadConfig reads path when it exists (a missing file is not an error)
// and applies env overrides on top.
func LoadConfig(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}
	overrideString(&cfg.Port, "PORT")
	overrideString(&cfg.DatabasePath, "DATABASE_PATH")
	overrideString(&cfg.AuthMode, "AUTH_MODE")
	overrideString(&cfg.APIKey, "API_KEY")
	overrideString(&cfg.TokenSecret, "TOKEN_SECRET")
	overrideString(&cfg.Language, "LANGUAGE")
	if v := os.Getenv("SEED_DATABASE"); v != "" {
		cfg.Seed = v == "true" || v == "1"
	}
	return cfg, cfg.validate()
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c Config) validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.DatabasePath == "" {
		return errors.New("database_path must not be empty")
	}
	switch c.AuthMode {
	case "none", "api_key", "token":
	default:
		return errors.New("auth_mode must be one of none, api_key, token")
	}
	if c.AuthMode == "token" && c.TokenSecret == "" {
		return errors.New("token_secret is required for token auth mode")
	}
	if c.AuthMode == "api_key" && c.APIKey == "" {
		return errors.New("api_key is required for api_key auth mode")
	}
	return nil
}
