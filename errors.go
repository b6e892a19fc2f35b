// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package docvault

import (
	"github.com/MKhiriev/go-doc-vault/models"
	"github.com/MKhiriev/go-doc-vault/store"
)

// Errors callers are expected to match with errors.Is. They alias the
// definitions in [models] and [store] so most users never import either.
var (
	// ErrNotFound is returned by reads targeting a document that does not
	// exist or is deleted.
	ErrNotFound = store.ErrNotFound

	// ErrRevisionConflict is returned by writes whose revision token is not
	// the current one.
	ErrRevisionConflict = models.ErrRevisionConflict

	// ErrSyncNotConnected is returned by sync operations when no remote is
	// connected.
	ErrSyncNotConnected = models.ErrSyncNotConnected

	// ErrSyncTimeout is returned by [Vault.DeleteAllAndSync] when the
	// deletions did not reach the remote within the configured window.
	ErrSyncTimeout = models.ErrSyncTimeout

	// ErrInvalidTable is returned for table names that cannot be encoded
	// unambiguously.
	ErrInvalidTable = models.ErrInvalidTable
)
