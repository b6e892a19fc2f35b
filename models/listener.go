// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// TableBatch groups decrypted documents of a single table inside one
// notification.
type TableBatch struct {
	Table string
	Docs  []Document
}

// Listener receives batched notifications about document changes. It is the
// required part of the callback contract; the optional capabilities below are
// discovered by interface assertion on the same value.
//
// Callbacks for live events are invoked sequentially, in the order the store
// emitted the underlying events. A callback must not block for long: it runs
// on the single event-processing worker and delays all later events.
type Listener interface {
	// OnChange delivers created or updated documents grouped by table.
	// A bulk load produces exactly one call carrying every table; a live
	// change produces one call with a single one-document batch.
	OnChange(batches []TableBatch)

	// OnDelete delivers deletions. Each document carries only its logical
	// identifier.
	OnDelete(batches []TableBatch)
}

// ConflictListener is implemented by listeners that want multi-revision
// conflict notifications.
type ConflictListener interface {
	OnConflict(conflicts []ConflictInfo)
}

// SyncListener is implemented by listeners that want per-direction sync
// statistics.
type SyncListener interface {
	OnSync(info SyncInfo)
}

// ErrorListener is implemented by listeners that want to observe documents
// that could not be decrypted. Failures are reported here and never abort
// the surrounding batch or operation.
type ErrorListener interface {
	OnError(events []DecryptionErrorEvent)
}
