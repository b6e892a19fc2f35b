// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/MKhiriev/go-doc-vault/internal/logger"
)

// Memory is the in-memory reference implementation of [Store] and
// [Replicable]. It keeps full revision branches per document, so conflict
// semantics match the SQLite implementation exactly. Intended for tests and
// ephemeral working sets.
type Memory struct {
	log *logger.Logger

	mu   sync.RWMutex
	docs map[string]map[string]*branch // id → leaf rev → branch
	seqs map[string]int64              // id → sequence of last modification
	seq  int64

	changes *notifier
}

// NewMemory constructs an empty in-memory store.
func NewMemory(log *logger.Logger) *Memory {
	if log == nil {
		log = logger.Nop()
	}
	return &Memory{
		log:     log.Component("memstore"),
		docs:    make(map[string]map[string]*branch),
		seqs:    make(map[string]int64),
		changes: newNotifier(),
	}
}

// AllDocs implements [Store].
func (m *Memory) AllDocs(_ context.Context) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]Row, 0, len(ids))
	for _, id := range ids {
		row, ok := m.rowLocked(id, true)
		if !ok || row.Deleted {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Get implements [Store].
func (m *Memory) Get(_ context.Context, id string, opts GetOptions) (Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	branches := m.docs[id]
	if len(branches) == 0 {
		return Row{}, ErrNotFound
	}

	if opts.Rev != "" {
		b, ok := branches[opts.Rev]
		if !ok || b.Deleted {
			return Row{}, ErrNotFound
		}
		return Row{ID: id, Rev: b.Rev, Doc: cloneBody(b.Body), History: b.History, Seq: m.seqs[id]}, nil
	}

	w := winner(branches)
	if w == nil {
		return Row{}, ErrNotFound
	}
	row := Row{ID: id, Rev: w.Rev, Doc: cloneBody(w.Body), History: w.History, Seq: m.seqs[id]}
	if opts.Conflicts {
		row.ConflictRevs = conflictRevs(branches, w)
	}
	return row, nil
}

// Put implements [Store].
func (m *Memory) Put(_ context.Context, id, rev string, body map[string]any) (string, error) {
	m.mu.Lock()

	branches := m.docs[id]
	w := winner(branches)

	var current string
	if w != nil {
		current = w.Rev
	}
	if rev != current {
		m.mu.Unlock()
		return "", ErrConflict
	}

	parent := w
	if parent == nil {
		// Recreating a deleted document extends its latest tombstone.
		parent = latest(branches)
	}

	next := parent.extend(cloneBody(body), false)
	if branches == nil {
		branches = make(map[string]*branch)
		m.docs[id] = branches
	}
	if parent != nil {
		delete(branches, parent.Rev)
	}
	branches[next.Rev] = next

	ev := m.bumpLocked(id)
	m.mu.Unlock()

	m.changes.publish(ev)
	return next.Rev, nil
}

// Remove implements [Store]. It tombstones exactly the revision rev, which
// may be the current winner or a conflict branch.
func (m *Memory) Remove(_ context.Context, id, rev string) error {
	m.mu.Lock()

	branches := m.docs[id]
	b, ok := branches[rev]
	if !ok || b.Deleted {
		m.mu.Unlock()
		return ErrNotFound
	}

	tomb := b.extend(nil, true)
	delete(branches, b.Rev)
	branches[tomb.Rev] = tomb

	ev := m.bumpLocked(id)
	m.mu.Unlock()

	m.changes.publish(ev)
	return nil
}

// BulkDelete implements [Store]. Failures on individual markers are logged
// and skipped.
func (m *Memory) BulkDelete(ctx context.Context, markers []DeleteMarker) error {
	for _, marker := range markers {
		if err := m.Remove(ctx, marker.ID, marker.Rev); err != nil {
			m.log.Warn().Err(err).Str("id", marker.ID).Str("rev", marker.Rev).
				Msg("bulk delete: skipping record")
		}
	}
	return nil
}

// Changes implements [Store].
func (m *Memory) Changes(ctx context.Context) (Subscription, error) {
	return m.changes.subscribe(ctx), nil
}

// Sync implements [Store] using the package replicator.
func (m *Memory) Sync(ctx context.Context, url string, opts SyncOptions) (SyncHandle, error) {
	return startReplicator(ctx, m, url, opts, m.log)
}

// ChangesSince implements [Replicable].
func (m *Memory) ChangesSince(_ context.Context, since int64, limit int) ([]Row, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type seqID struct {
		seq int64
		id  string
	}
	var changed []seqID
	for id, seq := range m.seqs {
		if seq > since {
			changed = append(changed, seqID{seq: seq, id: id})
		}
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i].seq < changed[j].seq })

	last := since
	rows := make([]Row, 0, len(changed))
	for _, c := range changed {
		if limit > 0 && len(rows) >= limit {
			break
		}
		row, ok := m.rowLocked(c.id, true)
		if !ok {
			continue
		}
		rows = append(rows, row)
		last = c.seq
	}
	return rows, last, nil
}

// ApplyReplicated implements [Replicable].
func (m *Memory) ApplyReplicated(_ context.Context, row Row) error {
	m.mu.Lock()

	branches := m.docs[row.ID]
	incoming := &branch{Rev: row.Rev, History: row.History, Deleted: row.Deleted, Body: cloneBody(row.Doc)}
	if len(incoming.History) == 0 {
		incoming.History = []string{row.Rev}
	}

	fate, target := classify(branches, row)
	switch fate {
	case replicaKnown, replicaStale:
		m.mu.Unlock()
		return nil
	case replicaFastForward:
		delete(branches, target.Rev)
		branches[incoming.Rev] = incoming
	default: // replicaFork
		if branches == nil {
			branches = make(map[string]*branch)
			m.docs[row.ID] = branches
		}
		branches[incoming.Rev] = incoming
	}

	ev := m.bumpLocked(row.ID)
	m.mu.Unlock()

	m.changes.publish(ev)
	return nil
}

// LastSeq implements [Replicable].
func (m *Memory) LastSeq(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.seq, nil
}

// bumpLocked advances the change sequence for id and builds the event row
// describing the document's state after the mutation. Callers hold the write
// lock and publish the returned event after releasing it.
func (m *Memory) bumpLocked(id string) Row {
	m.seq++
	m.seqs[id] = m.seq

	row, _ := m.rowLocked(id, true)
	return row
}

// rowLocked renders the document's current state: the winning revision, or a
// tombstone row when every branch is deleted. ok is false for unknown ids.
func (m *Memory) rowLocked(id string, includeConflicts bool) (Row, bool) {
	branches := m.docs[id]
	if len(branches) == 0 {
		return Row{}, false
	}

	if w := winner(branches); w != nil {
		row := Row{ID: id, Rev: w.Rev, Doc: cloneBody(w.Body), History: w.History, Seq: m.seqs[id]}
		if includeConflicts {
			row.ConflictRevs = conflictRevs(branches, w)
		}
		return row, true
	}

	t := latest(branches)
	return Row{ID: id, Rev: t.Rev, Deleted: true, History: t.History, Seq: m.seqs[id]}, true
}

// latest picks the newest branch, tombstones included. Used to extend a fully
// deleted document and to describe tombstone state.
func latest(branches map[string]*branch) *branch {
	var best *branch
	for _, b := range branches {
		if best == nil || revLess(best.Rev, b.Rev) {
			best = b
		}
	}
	return best
}

func cloneBody(body map[string]any) map[string]any {
	if body == nil {
		return nil
	}
	out := make(map[string]any, len(body))
	for k, v := range body {
		out[k] = v
	}
	return out
}
