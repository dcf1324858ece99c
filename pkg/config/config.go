package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the SDK-level configuration: which environment to talk to and
// the credentials used for signing and authentication.
type Config struct {
	Env string `yaml:"env"` // "testnet" or "mainnet"

	// SigningKey is the hex private key of the registered signing key; used
	// for order signatures.
	SigningKey string `yaml:"signing_key"`
	// WalletAddress is the account's main address (the order maker).
	WalletAddress string `yaml:"wallet_address"`
	// WalletPrivateKey is required only for withdrawals and key registration.
	WalletPrivateKey string `yaml:"wallet_private_key"`

	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	OutputFile string `yaml:"output_file"`
}

// Load reads a YAML config file. Missing file is an error; use FromEnv for
// env-only setups.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv builds a config from environment variables, loading a .env file
// first when present. Used by the example commands.
func FromEnv() (*Config, error) {
	_ = godotenv.Load() // .env is optional
	cfg := &Config{
		Env:              os.Getenv("AEVO_ENV"),
		SigningKey:       os.Getenv("AEVO_SIGNING_KEY"),
		WalletAddress:    os.Getenv("AEVO_WALLET_ADDRESS"),
		WalletPrivateKey: os.Getenv("AEVO_WALLET_PRIVATE_KEY"),
		APIKey:           os.Getenv("AEVO_API_KEY"),
		APISecret:        os.Getenv("AEVO_API_SECRET"),
		Log: LogConfig{
			Level:      os.Getenv("AEVO_LOG_LEVEL"),
			OutputFile: os.Getenv("AEVO_LOG_FILE"),
		},
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = "testnet"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the fields every caller depends on. Credentials are left
// optional here: public market data needs none of them.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Env) {
	case "testnet", "mainnet":
		return nil
	default:
		return fmt.Errorf("env must be either 'testnet' or 'mainnet', got %q", c.Env)
	}
}
