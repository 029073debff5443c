package config

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/viper"

	"github.com/Lumos-Labs-HQ/qsynth/internal/database"
)

const (
	FileName  = "qsynth.config.json"
	EnvPrefix = "QSYNTH"
)

type Config struct {
	Seed        int64    `json:"seed,omitempty" mapstructure:"seed"`
	Parallelism int      `json:"parallelism" mapstructure:"parallelism"`
	Verbose     bool     `json:"verbose,omitempty" mapstructure:"verbose"`
	OutputDir   string   `json:"output_dir" mapstructure:"output_dir"`
	Database    Database `json:"database" mapstructure:"database"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
	Batch    int    `json:"batch" mapstructure:"batch"`
}

func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the configuration viper has collected from the config file,
// QSYNTH_* environment variables and bound flags.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Parallelism == 0 {
		c.Parallelism = 4
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.Database.Provider == "" {
		c.Database.Provider = "postgresql"
	}
	if c.Database.URLEnv == "" {
		c.Database.URLEnv = "DATABASE_URL"
	}
	if c.Database.Batch == 0 {
		c.Database.Batch = 100
	}
}

func (c *Config) Validate() error {
	if !slices.Contains(database.Providers, c.Database.Provider) {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, database.Providers)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}
	if c.Database.Batch < 1 {
		return fmt.Errorf("database.batch must be at least 1, got %d", c.Database.Batch)
	}
	return nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

// IsInitialized reports whether a config file exists in the working directory.
func IsInitialized() bool {
	_, err := os.Stat(FileName)
	return err == nil
}

// Write stores the configuration as indented JSON.
func (c *Config) Write(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
