// Package config loads the user-level todohub configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	// ConfigDir is the name of the config directory in home.
	ConfigDir = ".todohub"

	// ConfigFileName is the name of the config file.
	ConfigFileName = "config.toml"

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultPort is the default server port.
	DefaultPort = 8714

	// DefaultDBFileName is the database file name inside the config directory.
	DefaultDBFileName = "todohub.db"
)

// Config represents the user-level configuration from ~/.todohub/config.toml.
type Config struct {
	ServerHost string
	ServerPort int
	DBPath     string
}

// Addr returns the host:port address the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// configFile represents the raw TOML structure.
type configFile struct {
	Server   serverSection   `toml:"server"`
	Database databaseSection `toml:"database"`
}

type serverSection struct {
	Host string `toml:"host"`
	Port *int   `toml:"port"`
}

type databaseSection struct {
	Path string `toml:"path"`
}

// Load loads the configuration from ~/.todohub/config.toml, applying
// defaults for anything the file leaves out and TODOHUB_BIND / TODOHUB_DB
// environment overrides on top.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return LoadFromDir(homeDir)
}

// LoadFromDir loads config using the specified directory as home.
// This is useful for testing.
func LoadFromDir(homeDir string) (*Config, error) {
	cfg := &Config{
		ServerHost: DefaultHost,
		ServerPort: DefaultPort,
		DBPath:     filepath.Join(homeDir, ConfigDir, DefaultDBFileName),
	}

	configPath := filepath.Join(homeDir, ConfigDir, ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		var raw configFile
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}

		if raw.Server.Host != "" {
			cfg.ServerHost = raw.Server.Host
		}
		if raw.Server.Port != nil {
			cfg.ServerPort = *raw.Server.Port
		}
		if raw.Database.Path != "" {
			cfg.DBPath = raw.Database.Path
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if bind := os.Getenv("TODOHUB_BIND"); bind != "" {
		host, port, ok := splitBind(bind)
		if ok {
			cfg.ServerHost = host
			cfg.ServerPort = port
		}
	}
	if dbPath := os.Getenv("TODOHUB_DB"); dbPath != "" {
		cfg.DBPath = dbPath
	}
}

func splitBind(bind string) (string, int, bool) {
	for i := len(bind) - 1; i >= 0; i-- {
		if bind[i] == ':' {
			port, err := strconv.Atoi(bind[i+1:])
			if err != nil {
				return "", 0, false
			}
			return bind[:i], port, true
		}
	}
	return "", 0, false
}
