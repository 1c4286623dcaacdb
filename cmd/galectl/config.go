package main

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/lodgepole/gale/internal/config"
)

// EnvToken lets deployments without a config file supply the
// credential directly.
const EnvToken = "GALE_TOKEN"

func loadClientConfig(path string) (config.ClientConfig, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}

	// A missing file is fine when the token comes from the
	// environment; any other load failure is fatal.
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		return config.ClientConfig{}, err
	}

	cfg = config.Default()
	cfg.Token = strings.TrimSpace(os.Getenv(EnvToken))
	if err := config.Validate(cfg); err != nil {
		return config.ClientConfig{}, err
	}
	return cfg, nil
}
