package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the date-added tool server
type Config struct {
	// LogLevel specifies the logging level (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// AllowedDirectories contains the directories whose date-added
	// attributes the server may read and write
	AllowedDirectories []string `yaml:"allowed_directories"`

	// Server configuration
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	// Name of the MCP server
	Name string `yaml:"name"`

	// Version of the MCP server
	Version string `yaml:"version"`

	// Transport specifies the transport method (stdio)
	Transport string `yaml:"transport"`
}

// Load reads and validates configuration from the specified file path
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("configuration file path is required")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := normalizeDirectories(&cfg); err != nil {
		return nil, fmt.Errorf("failed to process allowed directories: %w", err)
	}

	return &cfg, nil
}

// validateConfig checks the log level and fills in server defaults
func validateConfig(cfg *Config) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if !validLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	if cfg.Server.Name == "" {
		cfg.Server.Name = "dateadded-server"
	}

	if cfg.Server.Version == "" {
		cfg.Server.Version = "1.0.0"
	}

	if cfg.Server.Transport == "" {
		cfg.Server.Transport = "stdio"
	}

	if len(cfg.AllowedDirectories) == 0 {
		return fmt.Errorf("at least one allowed directory must be specified")
	}

	return nil
}

// normalizeDirectories expands, absolutizes and checks allowed directories
func normalizeDirectories(cfg *Config) error {
	normalizedDirs := make([]string, 0, len(cfg.AllowedDirectories))

	for _, dir := range cfg.AllowedDirectories {

		// Expand home directory if needed
		if dir == "~" || len(dir) > 1 && dir[:2] == "~/" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			if dir == "~" {
				dir = homeDir
			} else {
				dir = filepath.Join(homeDir, dir[2:])
			}
		}

		absDir, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("failed to get absolute path for %s: %w", dir, err)
		}

		info, err := os.Stat(absDir)
		if err != nil {
			return fmt.Errorf("directory %s is not accessible: %w", absDir, err)
		}

		if !info.IsDir() {
			return fmt.Errorf("path %s is not a directory", absDir)
		}

		normalizedDirs = append(normalizedDirs, filepath.Clean(absDir))
	}

	cfg.AllowedDirectories = normalizedDirs
	return nil
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		LogLevel:           "info",
		AllowedDirectories: []string{"."},
		Server: ServerConfig{
			Name:      "dateadded-server",
			Version:   "1.0.0",
			Transport: "stdio",
		},
	}
}
