package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Trello   TrelloConfig   `mapstructure:"trello"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Google   GoogleConfig   `mapstructure:"google"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type TrelloConfig struct {
	APIKey      string `mapstructure:"api_key"`
	APIToken    string `mapstructure:"api_token"`
	BoardID     string `mapstructure:"board_id"`
	BaseURL     string `mapstructure:"base_url"`
	DefaultList string `mapstructure:"default_list"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type GoogleConfig struct {
	Enabled        bool           `mapstructure:"enabled"`
	CalendarID     string         `mapstructure:"calendar_id"`
	ServiceAccount map[string]any `mapstructure:"service_account"`
}

// ServiceAccountJSON re-encodes the inline service account table as a key file.
func (g GoogleConfig) ServiceAccountJSON() ([]byte, error) {
	jsonBytes, err := json.Marshal(g.ServiceAccount)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal service account settings to JSON: %w", err)
	}
	return jsonBytes, nil
}

// Load reads config.toml from the working directory, or the file at path when
// given. Environment variables such as TRELLO_API_KEY override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.path", "automation.db")
	v.SetDefault("trello.api_key", "")
	v.SetDefault("trello.api_token", "")
	v.SetDefault("trello.board_id", "")
	v.SetDefault("trello.base_url", "https://api.trello.com/1")
	v.SetDefault("trello.default_list", "To Do")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-pro")
	v.SetDefault("google.enabled", false)
	v.SetDefault("google.calendar_id", "")
}

func (c *Config) Validate() error {
	var missing []string
	if c.Trello.APIKey == "" {
		missing = append(missing, "trello.api_key")
	}
	if c.Trello.APIToken == "" {
		missing = append(missing, "trello.api_token")
	}
	if c.Trello.BoardID == "" {
		missing = append(missing, "trello.board_id")
	}
	if c.Google.Enabled && c.Google.CalendarID == "" {
		missing = append(missing, "google.calendar_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}
