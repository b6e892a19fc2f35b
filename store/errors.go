// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by store implementations. Callers should match
// against these values with [errors.Is].
var (
	// ErrNotFound is returned when a read targets a document (or a specific
	// revision of one) that does not exist or has been deleted.
	ErrNotFound = errors.New("document not found")

	// ErrConflict is returned when an optimistic-concurrency check fails: the
	// revision token supplied with a write does not match the document's
	// current winning revision.
	ErrConflict = errors.New("document revision conflict")
)
