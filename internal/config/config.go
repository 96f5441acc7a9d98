package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"
)

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Enabled reports whether re-authorization emails can be sent at all.
func (s *SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

type Config struct {
	// Secret key for signing session tokens. Must be set in production.
	Secret string `mapstructure:"secret"`
	// Session token TTL in seconds
	SessionTTL uint   `mapstructure:"session_ttl"`
	LogLevel   string `mapstructure:"log_level"`

	// Base URL under which this application is reachable. The OAuth callback
	// URL handed to the tracker is derived from it.
	BaseURL string `mapstructure:"base_url"`
	// Listen address for the HTTP server, e.g. ":8080".
	ListenAddr string `mapstructure:"listen_addr"`

	// Timeout for a single tracker API request, in seconds.
	TrackerTimeout uint `mapstructure:"tracker_timeout"`

	Storage Storage `mapstructure:"storage"`

	// Outgoing mail for re-authorization notices.
	SMTP SMTPConfig `mapstructure:"smtp"`
}

// OAuthCallbackURL returns the absolute callback URL the tracker redirects
// back to after the user decides on the authorization request.
func (c *Config) OAuthCallbackURL() string {
	return joinURL(c.BaseURL, "/oauth/callback")
}

func joinURL(base, path string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + path
}

var Cfg *Config

func getConfigPath() string {
	// Docker images mount the instance folder at a fixed path.
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return "/app/instance"
	}
	return "./instance"
}

// LoadConfig reads configuration from the config file and environment
// variables and returns a Config struct.
func LoadConfig(configFile ...string) (*Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(getConfigPath())
	v.AddConfigPath(".")
	v.SetEnvPrefix("")

	if len(configFile) > 0 {
		for _, path := range configFile {
			v.SetConfigFile(path)
		}
	}

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	// Convert relative sqlite path to the instance folder
	if cfg.Storage.SQLite != nil {
		if cfg.Storage.SQLite.Path == ":memory:" {
			// In-memory database, do nothing
		} else if !os.IsPathSeparator(cfg.Storage.SQLite.Path[0]) {
			cfg.Storage.SQLite.Path = fmt.Sprintf("%s/%s", getConfigPath(), cfg.Storage.SQLite.Path)
		}
	}

	// Warn if secret is missing - this is a critical security setting for production
	if cfg.Secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("SECRET configuration variable is required in production")
		} else {
			slog.Warn("Secret is not set. Do not use in production.")
		}
	}

	return &cfg, nil
}
