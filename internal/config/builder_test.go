// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.ConnectWait)
	assert.Equal(t, 30*time.Second, cfg.DeleteSyncWait)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
}

func TestLoad_EnvBeatsDefaults(t *testing.T) {
	t.Setenv("DOCVAULT_CONNECT_WAIT", "2s")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.ConnectWait)
	assert.Equal(t, 30*time.Second, cfg.DeleteSyncWait)
}

func TestLoad_OverridesBeatEnv(t *testing.T) {
	t.Setenv("DOCVAULT_CONNECT_WAIT", "2s")

	cfg, err := Load(&Config{ConnectWait: 250 * time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.ConnectWait)
}

func TestLoad_RejectsNegative(t *testing.T) {
	_, err := Load(&Config{PollInterval: -time.Second})
	require.Error(t, err)
}
