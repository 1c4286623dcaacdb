package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lodgepole/gale/internal/gateway"
	"github.com/lodgepole/gale/internal/gateway/session"
	"github.com/lodgepole/gale/internal/rest"
)

// ClientConfig is the full galectl runtime configuration.
type ClientConfig struct {
	Token       string
	GatewayURL  string
	APIBaseURL  string
	AdminAddr   string
	CORSOrigins []string
	Session     session.Config
}

// Default returns the runtime defaults; only Token has no default.
func Default() ClientConfig {
	return ClientConfig{
		GatewayURL: gateway.DefaultURL,
		APIBaseURL: rest.DefaultBaseURL,
		AdminAddr:  ":9400",
		Session:    session.DefaultConfig(),
	}
}

type fileConfig struct {
	Token               string   `toml:"token"`
	GatewayURL          string   `toml:"gateway_url"`
	APIBaseURL          string   `toml:"api_base_url"`
	AdminAddr           string   `toml:"admin_addr"`
	CORSOrigins         []string `toml:"cors_origins"`
	ConnectTimeout      string   `toml:"connect_timeout"`
	HandshakeTimeout    string   `toml:"handshake_timeout"`
	WriteTimeout        string   `toml:"write_timeout"`
	ReconnectDelay      string   `toml:"reconnect_delay"`
	ReconnectMaxDelay   string   `toml:"reconnect_max_delay"`
	ReconnectMultiplier float64  `toml:"reconnect_multiplier"`
	ReconnectJitter     bool     `toml:"reconnect_jitter"`
}

// Load reads a TOML config file over the defaults. Only keys present
// in the file override.
func Load(path string) (ClientConfig, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("load client config: %w", err)
	}

	if meta.IsDefined("token") {
		cfg.Token = strings.TrimSpace(raw.Token)
	}
	if meta.IsDefined("gateway_url") {
		cfg.GatewayURL = strings.TrimSpace(raw.GatewayURL)
	}
	if meta.IsDefined("api_base_url") {
		cfg.APIBaseURL = strings.TrimSpace(raw.APIBaseURL)
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CORSOrigins = normalizeOrigins(raw.CORSOrigins)
	}

	durations := []struct {
		key   string
		raw   string
		field *time.Duration
	}{
		{"connect_timeout", raw.ConnectTimeout, &cfg.Session.ConnectTimeout},
		{"handshake_timeout", raw.HandshakeTimeout, &cfg.Session.HandshakeTimeout},
		{"write_timeout", raw.WriteTimeout, &cfg.Session.WriteTimeout},
		{"reconnect_delay", raw.ReconnectDelay, &cfg.Session.Backoff.InitialDelay},
		{"reconnect_max_delay", raw.ReconnectMaxDelay, &cfg.Session.Backoff.MaxDelay},
	}
	for _, d := range durations {
		if !meta.IsDefined(d.key) {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return ClientConfig{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.field = parsed
	}

	if meta.IsDefined("reconnect_multiplier") {
		cfg.Session.Backoff.Multiplier = raw.ReconnectMultiplier
	}
	if meta.IsDefined("reconnect_jitter") {
		cfg.Session.Backoff.Jitter = raw.ReconnectJitter
	}

	if err := Validate(cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

// Validate rejects configs the daemon cannot run with.
func Validate(cfg ClientConfig) error {
	if strings.TrimSpace(cfg.Token) == "" {
		return fmt.Errorf("client config missing token")
	}
	if strings.TrimSpace(cfg.GatewayURL) == "" {
		return fmt.Errorf("client config missing gateway_url")
	}
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return fmt.Errorf("client config missing api_base_url")
	}
	if cfg.Session.Backoff.InitialDelay <= 0 {
		return fmt.Errorf("reconnect_delay must be positive")
	}
	if cfg.Session.Backoff.Multiplier < 1.0 {
		return fmt.Errorf("reconnect_multiplier must be >= 1.0")
	}
	return nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
