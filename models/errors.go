// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"
)

// Sentinel errors of the vault's public surface. Callers should match against
// these values with [errors.Is].
var (
	// ErrRevisionConflict is returned by write operations when the supplied
	// revision token is stale: another writer has updated the document since
	// the caller last read it.
	ErrRevisionConflict = errors.New("revision conflict")

	// ErrSyncNotConnected is returned by manual sync operations when no
	// remote has been connected.
	ErrSyncNotConnected = errors.New("sync is not connected")

	// ErrSyncTimeout is returned by DeleteAllAndSync when the deletions were
	// not confirmed pushed within the wait window.
	ErrSyncTimeout = errors.New("sync timed out")

	// ErrInvalidTable is returned when a table name contains the identifier
	// separator, which would make decoding ambiguous.
	ErrInvalidTable = errors.New("table name contains the identifier separator")
)

// DecryptionError reports that a stored record could not be authenticated and
// decrypted: wrong key, malformed ciphertext encoding, or a tampered
// authentication tag. Every failure mode surfaces as this one type; the
// underlying cryptographic error is reduced to a description so callers never
// depend on it.
type DecryptionError struct {
	Reason string
}

// NewDecryptionError builds a [DecryptionError] describing cause.
func NewDecryptionError(cause error) *DecryptionError {
	return &DecryptionError{Reason: cause.Error()}
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("decryption failed: %s", e.Reason)
}

// IsDecryptionError reports whether err is (or wraps) a [DecryptionError].
func IsDecryptionError(err error) bool {
	var de *DecryptionError
	return errors.As(err, &de)
}

// DecryptionErrorEvent carries one failed record through the error channel:
// its store-level identifier, the failure, and the raw (still encrypted)
// record for diagnostics.
type DecryptionErrorEvent struct {
	FullID string
	Err    error
	Record map[string]any
}
