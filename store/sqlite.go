// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-doc-vault/internal/logger"
	"github.com/MKhiriev/go-doc-vault/store/migrations"
)

// SQLite is the embedded persistent implementation of [Store] and
// [Replicable]. Revision branches and per-document change sequences live in
// two tables (see store/migrations); conflict semantics are shared with
// [Memory] through the branch helpers.
type SQLite struct {
	db  *sql.DB
	log *logger.Logger

	// One writer at a time. SQLite serializes writers anyway; doing it here
	// keeps the read-modify-write of a branch set atomic with its sequence
	// bump, and lets events publish in commit order.
	mu  sync.Mutex
	seq int64

	changes *notifier
}

// NewSQLite opens (creating if needed) the database at dsn, applies schema
// migrations, and loads the current change sequence. Use ":memory:" for an
// ephemeral database.
func NewSQLite(ctx context.Context, dsn string, log *logger.Logger) (*SQLite, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("sqlitestore")

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if err := migrations.Up(db); err != nil {
		return nil, err
	}

	s := &SQLite{db: db, log: log, changes: newNotifier()}

	query, args, err := selectMaxSeqQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build max-seq query: %w", err)
	}
	if err := db.QueryRowContext(ctx, query, args...).Scan(&s.seq); err != nil {
		return nil, fmt.Errorf("load change sequence: %w", err)
	}

	return s, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// AllDocs implements [Store].
func (s *SQLite) AllDocs(ctx context.Context) ([]Row, error) {
	byDoc, err := s.loadAllBranches(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(byDoc))
	for id := range byDoc {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]Row, 0, len(ids))
	for _, id := range ids {
		w := winner(byDoc[id])
		if w == nil {
			continue
		}
		rows = append(rows, Row{
			ID:           id,
			Rev:          w.Rev,
			Doc:          w.Body,
			ConflictRevs: conflictRevs(byDoc[id], w),
			History:      w.History,
		})
	}
	return rows, nil
}

// Get implements [Store].
func (s *SQLite) Get(ctx context.Context, id string, opts GetOptions) (Row, error) {
	branches, err := s.loadBranches(ctx, s.db, id)
	if err != nil {
		return Row{}, err
	}
	if len(branches) == 0 {
		return Row{}, ErrNotFound
	}

	if opts.Rev != "" {
		b, ok := branches[opts.Rev]
		if !ok || b.Deleted {
			return Row{}, ErrNotFound
		}
		return Row{ID: id, Rev: b.Rev, Doc: b.Body, History: b.History}, nil
	}

	w := winner(branches)
	if w == nil {
		return Row{}, ErrNotFound
	}
	row := Row{ID: id, Rev: w.Rev, Doc: w.Body, History: w.History}
	if opts.Conflicts {
		row.ConflictRevs = conflictRevs(branches, w)
	}
	return row, nil
}

// Put implements [Store].
func (s *SQLite) Put(ctx context.Context, id, rev string, body map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next *branch
	ev, err := s.mutate(ctx, id, func(branches map[string]*branch) (*branch, *branch, error) {
		w := winner(branches)

		var current string
		if w != nil {
			current = w.Rev
		}
		if rev != current {
			return nil, nil, ErrConflict
		}

		parent := w
		if parent == nil {
			parent = latest(branches)
		}
		next = parent.extend(cloneBody(body), false)
		return parent, next, nil
	})
	if err != nil {
		return "", err
	}

	s.changes.publish(ev)
	return next.Rev, nil
}

// Remove implements [Store].
func (s *SQLite) Remove(ctx context.Context, id, rev string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.mutate(ctx, id, func(branches map[string]*branch) (*branch, *branch, error) {
		b, ok := branches[rev]
		if !ok || b.Deleted {
			return nil, nil, ErrNotFound
		}
		return b, b.extend(nil, true), nil
	})
	if err != nil {
		return err
	}

	s.changes.publish(ev)
	return nil
}

// BulkDelete implements [Store]. Failures on individual markers are logged
// and skipped.
func (s *SQLite) BulkDelete(ctx context.Context, markers []DeleteMarker) error {
	for _, marker := range markers {
		if err := s.Remove(ctx, marker.ID, marker.Rev); err != nil {
			s.log.Warn().Err(err).Str("id", marker.ID).Str("rev", marker.Rev).
				Msg("bulk delete: skipping record")
		}
	}
	return nil
}

// Changes implements [Store].
func (s *SQLite) Changes(ctx context.Context) (Subscription, error) {
	return s.changes.subscribe(ctx), nil
}

// Sync implements [Store] using the package replicator.
func (s *SQLite) Sync(ctx context.Context, url string, opts SyncOptions) (SyncHandle, error) {
	return startReplicator(ctx, s, url, opts, s.log)
}

// ChangesSince implements [Replicable].
func (s *SQLite) ChangesSince(ctx context.Context, since int64, limit int) ([]Row, int64, error) {
	query, args, err := selectChangedQuery(since, limit).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build changes query: %w", err)
	}

	res, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query changed documents: %w", err)
	}
	defer res.Close()

	type seqID struct {
		id  string
		seq int64
	}
	var changed []seqID
	for res.Next() {
		var c seqID
		if err := res.Scan(&c.id, &c.seq); err != nil {
			return nil, 0, fmt.Errorf("scan changed document: %w", err)
		}
		changed = append(changed, c)
	}
	if err := res.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate changed documents: %w", err)
	}

	last := since
	rows := make([]Row, 0, len(changed))
	for _, c := range changed {
		branches, err := s.loadBranches(ctx, s.db, c.id)
		if err != nil {
			return nil, 0, err
		}
		row, ok := renderRow(c.id, branches)
		if !ok {
			continue
		}
		row.Seq = c.seq
		rows = append(rows, row)
		last = c.seq
	}
	return rows, last, nil
}

// ApplyReplicated implements [Replicable].
func (s *SQLite) ApplyReplicated(ctx context.Context, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	incoming := &branch{Rev: row.Rev, History: row.History, Deleted: row.Deleted, Body: cloneBody(row.Doc)}
	if len(incoming.History) == 0 {
		incoming.History = []string{row.Rev}
	}

	ev, err := s.mutate(ctx, row.ID, func(branches map[string]*branch) (*branch, *branch, error) {
		fate, target := classify(branches, row)
		switch fate {
		case replicaKnown, replicaStale:
			return nil, nil, errSkipMutation
		case replicaFastForward:
			return target, incoming, nil
		default:
			return nil, incoming, nil
		}
	})
	if errors.Is(err, errSkipMutation) {
		return nil
	}
	if err != nil {
		return err
	}

	s.changes.publish(ev)
	return nil
}

// LastSeq implements [Replicable].
func (s *SQLite) LastSeq(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq, nil
}

// errSkipMutation aborts a mutate callback without surfacing an error.
var errSkipMutation = errors.New("skip mutation")

// mutate runs one read-modify-write cycle on a document's branch set inside a
// transaction: apply decides which branch to drop and which to insert, then
// mutate bumps the sequence and returns the change event to publish. The
// caller holds s.mu.
func (s *SQLite) mutate(ctx context.Context, id string, apply func(map[string]*branch) (drop, add *branch, err error)) (Row, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Row{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	branches, err := s.loadBranches(ctx, tx, id)
	if err != nil {
		return Row{}, err
	}

	drop, add, err := apply(branches)
	if err != nil {
		return Row{}, err
	}

	if drop != nil {
		query, args, err := deleteBranchQuery(id, drop.Rev).ToSql()
		if err != nil {
			return Row{}, fmt.Errorf("build branch delete: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return Row{}, fmt.Errorf("delete branch: %w", err)
		}
		delete(branches, drop.Rev)
	}

	if add != nil {
		history, err := json.Marshal(add.History)
		if err != nil {
			return Row{}, fmt.Errorf("marshal branch history: %w", err)
		}
		body := []byte("{}")
		if add.Body != nil {
			if body, err = json.Marshal(add.Body); err != nil {
				return Row{}, fmt.Errorf("marshal branch body: %w", err)
			}
		}
		query, args, err := insertBranchQuery(id, add, string(history), string(body)).ToSql()
		if err != nil {
			return Row{}, fmt.Errorf("build branch insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return Row{}, fmt.Errorf("insert branch: %w", err)
		}
		branches[add.Rev] = add
	}

	nextSeq := s.seq + 1
	query, args, err := upsertSeqQuery(id, nextSeq).ToSql()
	if err != nil {
		return Row{}, fmt.Errorf("build sequence upsert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return Row{}, fmt.Errorf("bump change sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Row{}, fmt.Errorf("commit transaction: %w", err)
	}
	s.seq = nextSeq

	ev, _ := renderRow(id, branches)
	ev.Seq = nextSeq
	return ev, nil
}

// queryer lets loadBranches run against either the pool or a transaction.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *SQLite) loadBranches(ctx context.Context, q queryer, id string) (map[string]*branch, error) {
	query, args, err := selectBranchesQuery(id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build branches query: %w", err)
	}

	res, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query branches: %w", err)
	}
	defer res.Close()

	branches := make(map[string]*branch)
	for res.Next() {
		b, err := scanBranch(res, nil)
		if err != nil {
			return nil, err
		}
		branches[b.Rev] = b
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("iterate branches: %w", err)
	}
	return branches, nil
}

func (s *SQLite) loadAllBranches(ctx context.Context) (map[string]map[string]*branch, error) {
	query, args, err := selectAllBranchesQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build all-branches query: %w", err)
	}

	res, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query all branches: %w", err)
	}
	defer res.Close()

	byDoc := make(map[string]map[string]*branch)
	for res.Next() {
		var docID string
		b, err := scanBranch(res, &docID)
		if err != nil {
			return nil, err
		}
		if byDoc[docID] == nil {
			byDoc[docID] = make(map[string]*branch)
		}
		byDoc[docID][b.Rev] = b
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("iterate all branches: %w", err)
	}
	return byDoc, nil
}

// scanBranch reads one branches row. docID, when non-nil, receives the doc_id
// column (present only in the all-branches query).
func scanBranch(res *sql.Rows, docID *string) (*branch, error) {
	var (
		b           branch
		historyJSON string
		bodyJSON    string
	)

	dest := []any{&b.Rev, &historyJSON, &b.Deleted, &bodyJSON}
	if docID != nil {
		dest = append([]any{docID}, dest...)
	}
	if err := res.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan branch row: %w", err)
	}

	if err := json.Unmarshal([]byte(historyJSON), &b.History); err != nil {
		return nil, fmt.Errorf("decode branch history: %w", err)
	}
	if !b.Deleted {
		if err := json.Unmarshal([]byte(bodyJSON), &b.Body); err != nil {
			return nil, fmt.Errorf("decode branch body: %w", err)
		}
	}
	return &b, nil
}

// renderRow mirrors Memory.rowLocked for a loaded branch set.
func renderRow(id string, branches map[string]*branch) (Row, bool) {
	if len(branches) == 0 {
		return Row{}, false
	}
	if w := winner(branches); w != nil {
		return Row{ID: id, Rev: w.Rev, Doc: w.Body, ConflictRevs: conflictRevs(branches, w), History: w.History}, true
	}
	t := latest(branches)
	return Row{ID: id, Rev: t.Rev, Deleted: true, History: t.History}, true
}
