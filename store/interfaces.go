// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "context"

//go:generate mockgen -source=interfaces.go -destination=../internal/mock/store_mock.go -package=mock

// Store is the capability surface the vault requires from a replicated
// document store. The vault never passes plaintext through this interface:
// the record bodies it reads and writes are the encrypted wire format.
type Store interface {
	// AllDocs lists every stored record with its revision token and conflict
	// metadata. Deleted records are omitted; store-internal records are not:
	// filtering those is the caller's concern.
	AllDocs(ctx context.Context) ([]Row, error)

	// Get reads one record. Returns [ErrNotFound] when the record does not
	// exist, is deleted, or the requested revision is unknown.
	Get(ctx context.Context, id string, opts GetOptions) (Row, error)

	// Put writes a record body under id. rev must be the current winning
	// revision token, or "" for a record that does not exist yet; a stale
	// token yields [ErrConflict]. Returns the new revision token.
	Put(ctx context.Context, id, rev string, body map[string]any) (string, error)

	// Remove deletes the revision rev of record id, leaving a tombstone.
	// Removing a conflict revision promotes the remaining branches.
	Remove(ctx context.Context, id, rev string) error

	// BulkDelete removes every listed revision. Individual failures are
	// logged by the implementation and do not abort the remaining deletions.
	BulkDelete(ctx context.Context, markers []DeleteMarker) error

	// Changes subscribes to live change events starting now. Events are
	// delivered in emission order. Cancelling ctx cancels the subscription.
	Changes(ctx context.Context) (Subscription, error)

	// Sync starts bidirectional replication with the store at url and
	// returns a handle reporting its progress. Cancelling ctx or the handle
	// stops the replication.
	Sync(ctx context.Context, url string, opts SyncOptions) (SyncHandle, error)
}

// Subscription is a live change feed.
type Subscription interface {
	// Events returns the feed channel. It is closed after Cancel.
	Events() <-chan Row

	// Cancel stops the feed. Safe to call more than once.
	Cancel()
}

// SyncHandle reports the progress of one replication.
type SyncHandle interface {
	// Events returns the signal channel. It is closed when the replication
	// stops for any reason.
	Events() <-chan SyncEvent

	// Cancel stops the replication. Safe to call more than once.
	Cancel()
}

// Replicable is the extended surface replication needs from a local store.
// Both reference implementations provide it; a custom [Store] only has to if
// it wants to use this package's replicator.
type Replicable interface {
	Store

	// ChangesSince returns up to limit rows modified after sequence since, in
	// sequence order, including deletion tombstones, together with the last
	// sequence covered.
	ChangesSince(ctx context.Context, since int64, limit int) ([]Row, int64, error)

	// ApplyReplicated writes a row preserving its remote revision token and
	// history: it fast-forwards the matching local branch, ignores rows
	// already known locally, and forks a conflict branch when histories have
	// diverged.
	ApplyReplicated(ctx context.Context, row Row) error

	// LastSeq returns the store's current change sequence.
	LastSeq(ctx context.Context) (int64, error)
}
