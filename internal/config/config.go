package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix            = "NEWSDESK"
	defaultAPIBaseURL    = "http://localhost:3000"
	defaultSessionPath   = "newsdesk.session.json"
	defaultClientLogPath = "newsdesk.log"
	defaultPageSize      = 6
	defaultPreviewLength = 100
	defaultLogLevel      = "info"
	defaultStoreHTTPAddr = "0.0.0.0:3000"
	defaultStoreDatabase = "newsstore.db"
)

// ClientConfig captures runtime configuration for the portal client.
type ClientConfig struct {
	APIBaseURL    string
	SessionPath   string
	LogLevel      string
	LogPath       string
	PageSize      int
	PreviewLength int
}

// StoreConfig captures runtime configuration for the collection store
// server.
type StoreConfig struct {
	HTTPAddress  string
	DatabasePath string
	SeedPath     string
	LogLevel     string
}

// NewViper returns a viper instance with defaults and env bindings
// configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper
// instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("api.base_url", defaultAPIBaseURL)
	configViper.SetDefault("session.path", defaultSessionPath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("log.path", defaultClientLogPath)
	configViper.SetDefault("page.size", defaultPageSize)
	configViper.SetDefault("preview.length", defaultPreviewLength)
	configViper.SetDefault("http.address", defaultStoreHTTPAddr)
	configViper.SetDefault("database.path", defaultStoreDatabase)
	configViper.SetDefault("seed.path", "")
}

// LoadClient parses client configuration from viper.
func LoadClient(configViper *viper.Viper) (ClientConfig, error) {
	cfg := ClientConfig{
		APIBaseURL:    configViper.GetString("api.base_url"),
		SessionPath:   configViper.GetString("session.path"),
		LogLevel:      configViper.GetString("log.level"),
		LogPath:       configViper.GetString("log.path"),
		PageSize:      configViper.GetInt("page.size"),
		PreviewLength: configViper.GetInt("preview.length"),
	}
	if err := cfg.validate(); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

// LoadStore parses store server configuration from viper.
func LoadStore(configViper *viper.Viper) (StoreConfig, error) {
	cfg := StoreConfig{
		HTTPAddress:  configViper.GetString("http.address"),
		DatabasePath: configViper.GetString("database.path"),
		SeedPath:     configViper.GetString("seed.path"),
		LogLevel:     configViper.GetString("log.level"),
	}
	if err := cfg.validate(); err != nil {
		return StoreConfig{}, err
	}
	return cfg, nil
}

func (c ClientConfig) validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if strings.TrimSpace(c.SessionPath) == "" {
		return fmt.Errorf("session.path is required")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page.size must be positive")
	}
	if c.PreviewLength < 1 {
		return fmt.Errorf("preview.length must be positive")
	}
	return nil
}

func (c StoreConfig) validate() error {
	if strings.TrimSpace(c.HTTPAddress) == "" {
		return fmt.Errorf("http.address is required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}
