// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store defines the capability surface the vault requires from a
// replicated document store, plus two reference implementations (in-memory
// and embedded SQLite) and an HTTP replicator that connects a local store to
// a remote peer.
//
// The vault itself only depends on the [Store] interface; everything else in
// this package exists so the system can run and be tested end to end.
package store

import "time"

// Row is one stored record together with its store-level bookkeeping. Doc is
// the record body: the encrypted payload field plus any cleartext metadata
// fields, excluding the identifier and revision token which live on the Row
// itself.
type Row struct {
	ID      string         `json:"id"`
	Rev     string         `json:"rev"`
	Deleted bool           `json:"deleted,omitempty"`
	Doc     map[string]any `json:"doc,omitempty"`

	// ConflictRevs are the revision tokens of competing non-deleted branches,
	// populated when conflict metadata was requested.
	ConflictRevs []string `json:"conflict_revs,omitempty"`

	// History lists this branch's revision tokens, newest first. Used by
	// replication to distinguish fast-forwards from genuine conflicts.
	History []string `json:"history,omitempty"`

	// Seq is the store-local change sequence at which this row was last
	// modified.
	Seq int64 `json:"seq,omitempty"`
}

// GetOptions modifies a point read.
type GetOptions struct {
	// Rev fetches one specific revision instead of the current winner.
	Rev string

	// Conflicts populates Row.ConflictRevs on the result.
	Conflicts bool
}

// DeleteMarker identifies one revision to delete during a bulk delete.
type DeleteMarker struct {
	ID  string `json:"id"`
	Rev string `json:"rev"`
}

// Direction identifies which way documents moved during replication.
type Direction string

const (
	Push Direction = "push"
	Pull Direction = "pull"
)

// SyncStats is the change-statistics record of one replication batch.
type SyncStats struct {
	DocsRead      int      `json:"docs_read"`
	DocsWritten   int      `json:"docs_written"`
	WriteFailures int      `json:"write_failures"`
	Errors        []string `json:"errors,omitempty"`
}

// SyncEventKind enumerates the signals a [SyncHandle] emits.
type SyncEventKind int

const (
	// EventActive is emitted when a replication cycle found work to do.
	EventActive SyncEventKind = iota

	// EventChange is emitted after a batch moved in one direction; it carries
	// the direction and that batch's statistics.
	EventChange

	// EventError is emitted when replication stops on a transport or
	// store-level failure.
	EventError

	// EventComplete is emitted when a one-shot replication finished both
	// directions.
	EventComplete
)

// SyncEvent is one signal from a [SyncHandle].
type SyncEvent struct {
	Kind      SyncEventKind
	Direction Direction
	Stats     SyncStats
	Err       error
}

// SyncOptions configures a replication started with [Store.Sync].
type SyncOptions struct {
	// Live keeps replicating after the initial cycle, reacting to local
	// changes and polling the remote; false performs a single cycle and
	// completes.
	Live bool

	// Retry makes a live replication survive transport failures with capped
	// exponential backoff instead of stopping on the first error.
	Retry bool

	// AuthToken, when set, is sent as a bearer token on every request.
	AuthToken string

	// PollInterval is the idle delay between live cycles. Zero means the
	// replicator default.
	PollInterval time.Duration

	// HTTPTimeout bounds individual HTTP calls. Zero means the replicator
	// default.
	HTTPTimeout time.Duration
}
