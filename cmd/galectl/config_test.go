package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lodgepole/gale/internal/testutil/testlog"
)

func TestLoadClientConfigFromFile(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "galectl.toml")
	content := `
token = "bot.file"
admin_addr = ":9911"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := loadClientConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "bot.file" || cfg.AdminAddr != ":9911" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadClientConfigEnvFallback(t *testing.T) {
	testlog.Start(t)
	t.Setenv(EnvToken, " bot.env ")
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, err := loadClientConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "bot.env" {
		t.Fatalf("unexpected token: %q", cfg.Token)
	}
}

func TestLoadClientConfigMissingEverywhere(t *testing.T) {
	testlog.Start(t)
	t.Setenv(EnvToken, "")
	path := filepath.Join(t.TempDir(), "missing.toml")
	if _, err := loadClientConfig(path); err == nil {
		t.Fatalf("expected error with no file and no env token")
	}
}
