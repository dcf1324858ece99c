package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
env: mainnet
signing_key: "0xabc"
wallet_address: "0x0000000000000000000000000000000000000001"
api_key: key
api_secret: secret
log:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Env != "mainnet" {
		t.Errorf("env = %s", cfg.Env)
	}
	if cfg.APIKey != "key" || cfg.APISecret != "secret" {
		t.Errorf("credentials = %s/%s", cfg.APIKey, cfg.APISecret)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %s", cfg.Log.Level)
	}
}

func TestDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Env != "testnet" {
		t.Errorf("default env = %s", cfg.Env)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("default log level = %s", cfg.Log.Level)
	}
}

func TestValidateRejectsUnknownEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("env: staging"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown env")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("AEVO_ENV", "mainnet")
	t.Setenv("AEVO_API_KEY", "k")
	t.Setenv("AEVO_API_SECRET", "s")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Env != "mainnet" || cfg.APIKey != "k" || cfg.APISecret != "s" {
		t.Errorf("cfg = %+v", cfg)
	}
}
