// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

// Load resolves the effective configuration. overrides carries the caller's
// explicit option values (zero fields mean "not set") and wins over the
// environment, which wins over the defaults.
func Load(overrides *Config) (*Config, error) {
	cfg := new(Config)
	if overrides != nil {
		*cfg = *overrides
	}

	envCfg := new(Config)
	if err := env.Parse(envCfg); err != nil {
		return nil, fmt.Errorf("parse environment config: %w", err)
	}

	// mergo fills only the zero-valued fields, which gives the precedence
	// order: overrides, then environment, then defaults.
	if err := mergo.Merge(cfg, envCfg); err != nil {
		return nil, fmt.Errorf("merge environment config: %w", err)
	}
	if err := mergo.Merge(cfg, defaults()); err != nil {
		return nil, fmt.Errorf("merge default config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
