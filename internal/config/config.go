// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config holds the vault's tunables and the machinery to resolve
// them. Resolution order, strongest first: explicit caller options,
// DOCVAULT_* environment variables, built-in defaults.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config collects every timing knob of the vault. Zero values mean "unset"
// and are filled from the environment and then the defaults during Load.
type Config struct {
	// ConnectWait bounds how long ConnectRemote waits for the sync handle's
	// first "active" signal. Elapsing is success: a freshly connected remote
	// with nothing to transfer is legitimately silent.
	ConnectWait time.Duration `env:"DOCVAULT_CONNECT_WAIT"`

	// DeleteSyncWait bounds how long DeleteAllAndSync waits for the deletions
	// to be confirmed pushed. Elapsing is a failure.
	DeleteSyncWait time.Duration `env:"DOCVAULT_DELETE_SYNC_WAIT"`

	// PollInterval is the idle delay between live replication cycles.
	PollInterval time.Duration `env:"DOCVAULT_POLL_INTERVAL"`

	// HTTPTimeout bounds individual replication HTTP calls.
	HTTPTimeout time.Duration `env:"DOCVAULT_HTTP_TIMEOUT"`
}

func defaults() *Config {
	return &Config{
		ConnectWait:    5 * time.Second,
		DeleteSyncWait: 30 * time.Second,
		PollInterval:   time.Second,
		HTTPTimeout:    15 * time.Second,
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.ConnectWait <= 0 {
		errs = append(errs, fmt.Errorf("connect wait must be positive, got %v", c.ConnectWait))
	}
	if c.DeleteSyncWait <= 0 {
		errs = append(errs, fmt.Errorf("delete-sync wait must be positive, got %v", c.DeleteSyncWait))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval must be positive, got %v", c.PollInterval))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http timeout must be positive, got %v", c.HTTPTimeout))
	}
	return errors.Join(errs...)
}
