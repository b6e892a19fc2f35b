// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package docvault

import (
	"time"

	"github.com/MKhiriev/go-doc-vault/internal/crypto"
	"github.com/MKhiriev/go-doc-vault/internal/service"
	"github.com/rs/zerolog"
)

// KeyMode selects how the passphrase becomes an encryption key.
type KeyMode = crypto.KeyMode

const (
	// KeyModeDerive stretches the passphrase with PBKDF2. The default.
	KeyModeDerive = crypto.KeyModeDerive

	// KeyModeRaw hashes the passphrase once. Only appropriate when the
	// passphrase already is a high-entropy key.
	KeyModeRaw = crypto.KeyModeRaw
)

// ConnectOptions configures the replication link established by
// [Vault.ConnectRemote].
type ConnectOptions = service.ConnectOptions

// Options tunes a [Vault]. The zero value is usable.
type Options struct {
	// KeyMode selects the key-derivation mode. Defaults to [KeyModeDerive].
	KeyMode KeyMode

	// Logger receives the vault's structured logs. Nil keeps the vault
	// silent.
	Logger *zerolog.Logger

	// StrictLoad makes [Vault.LoadAll] fail on a bulk-scan error instead of
	// logging it and carrying on with the live feed.
	StrictLoad bool

	// ConnectWait overrides how long [Vault.ConnectRemote] waits for the
	// link to show activity before declaring it connected.
	ConnectWait time.Duration

	// DeleteSyncWait overrides how long [Vault.DeleteAllAndSync] waits for
	// the deletions to reach the remote.
	DeleteSyncWait time.Duration

	// PollInterval overrides the idle delay between live replication cycles.
	PollInterval time.Duration

	// HTTPTimeout overrides the per-request timeout of the replicator.
	HTTPTimeout time.Duration
}
