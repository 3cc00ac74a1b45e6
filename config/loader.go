package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"bean-forge/builder"
	"bean-forge/save"
)

// Environment variables read by Load.
const (
	EnvConfig   = "BEANFORGE_CONFIG"
	EnvRandom   = "BEANFORGE_RANDOM"
	EnvSeed     = "BEANFORGE_SEED"
	EnvLogLevel = "BEANFORGE_LOG_LEVEL"
	EnvDriver   = "BEANFORGE_DRIVER"
	EnvDSN      = "BEANFORGE_DSN"
)

// Load reads the environment files (".env" when none are given, ignored if
// missing), then the YAML file at path (or $BEANFORGE_CONFIG; no file at all
// yields the defaults) and finally applies the environment overrides.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadEnv(envFiles); err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := &Config{}

	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

// LoadFile loads and parses a YAML config file from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// Marshal serializes a Config to YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = "1"
	}

	if cfg.CollectionSize == nil {
		n := builder.DefaultCollectionSize
		cfg.CollectionSize = &n
	}

	if cfg.MaxDepth == nil {
		n := builder.DefaultMaxDepth
		cfg.MaxDepth = &n
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = log.InfoLevel.String()
	}

	if cfg.Saver.DSN != "" && cfg.Saver.Driver == "" {
		cfg.Saver.Driver = Drivers[0]
	}

	if cfg.Saver.Table == "" {
		cfg.Saver.Table = save.DefaultTable
	}
}

func loadEnv(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		return nil
	}

	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}

	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvRandom); v != "" {
		random, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRandom, err)
		}

		cfg.Random = random
	}

	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}

		cfg.Seed = seed
		cfg.Random = true
	}

	cfg.LogLevel = getEnv(EnvLogLevel, cfg.LogLevel)
	cfg.Saver.Driver = getEnv(EnvDriver, cfg.Saver.Driver)
	cfg.Saver.DSN = getEnv(EnvDSN, cfg.Saver.DSN)

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}
