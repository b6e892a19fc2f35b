// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-doc-vault/internal/logger"
)

// Wire types of the replication protocol, shared with the store/remote
// server.

// ChangesResponse is the body of GET /v1/changes.
type ChangesResponse struct {
	Results []Row `json:"results"`
	LastSeq int64 `json:"last_seq"`
}

// BulkApplyResponse is the body of POST /v1/docs.
type BulkApplyResponse struct {
	Written  int      `json:"written"`
	Failures []string `json:"failures,omitempty"`
}

const (
	defaultPollInterval = time.Second
	defaultHTTPTimeout  = 15 * time.Second
	batchLimit          = 500

	maxBackoff = 30 * time.Second
)

// replicator copies documents both ways between a local [Replicable] store
// and a remote replication server, implementing [SyncHandle].
//
// Replication is checkpointed: progress in each direction is persisted in a
// "_local/sync-<hash>" document of the local store, so reconnecting resumes
// instead of rescanning. Store-internal records (identifier prefix "_") never
// cross the wire.
type replicator struct {
	local  Replicable
	client *resty.Client
	opts   SyncOptions
	log    *logger.Logger

	events chan SyncEvent
	cancel context.CancelFunc

	checkpointID  string
	checkpointRev string
	pullSeq       int64
	pushSeq       int64

	localChanged chan struct{}
	localSub     Subscription
}

// startReplicator wires a replicator and launches its cycle loop.
func startReplicator(ctx context.Context, local Replicable, url string, opts SyncOptions, log *logger.Logger) (SyncHandle, error) {
	if url == "" {
		return nil, errors.New("replication url is empty")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.HTTPTimeout <= 0 {
		opts.HTTPTimeout = defaultHTTPTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(url, "/")).
		SetTimeout(opts.HTTPTimeout)
	if opts.AuthToken != "" {
		client.SetAuthToken(opts.AuthToken)
	}

	sum := sha256.Sum256([]byte(url))
	r := &replicator{
		local:        local,
		client:       client,
		opts:         opts,
		log:          log.Component("replicator"),
		events:       make(chan SyncEvent),
		checkpointID: "_local/sync-" + hex.EncodeToString(sum[:8]),
		localChanged: make(chan struct{}, 1),
	}

	rctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.loadCheckpoint(rctx)

	if opts.Live {
		sub, err := local.Changes(rctx)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("subscribe to local changes: %w", err)
		}
		r.localSub = sub
		go func() {
			for range sub.Events() {
				select {
				case r.localChanged <- struct{}{}:
				default:
				}
			}
		}()
	}

	go r.run(rctx)
	return r, nil
}

// Events implements [SyncHandle].
func (r *replicator) Events() <-chan SyncEvent { return r.events }

// Cancel implements [SyncHandle].
func (r *replicator) Cancel() { r.cancel() }

func (r *replicator) run(ctx context.Context) {
	defer close(r.events)
	defer func() {
		if r.localSub != nil {
			r.localSub.Cancel()
		}
	}()

	backoff := time.Second
	for {
		err := r.cycle(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if r.opts.Live && r.opts.Retry {
				r.log.Warn().Err(err).Dur("backoff", backoff).Msg("replication cycle failed, retrying")
				if !sleep(ctx, backoff) {
					return
				}
				backoff = min(backoff*2, maxBackoff)
				continue
			}
			r.emit(ctx, SyncEvent{Kind: EventError, Err: err})
			return
		}
		backoff = time.Second

		if !r.opts.Live {
			r.emit(ctx, SyncEvent{Kind: EventComplete})
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-r.localChanged:
		case <-time.After(r.opts.PollInterval):
		}
	}
}

// cycle runs one pull pass followed by one push pass.
func (r *replicator) cycle(ctx context.Context) error {
	if err := r.pull(ctx); err != nil {
		return fmt.Errorf("pull: %w", err)
	}
	if err := r.push(ctx); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	return nil
}

func (r *replicator) pull(ctx context.Context) error {
	for {
		var body ChangesResponse
		resp, err := r.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"since": strconv.FormatInt(r.pullSeq, 10),
				"limit": strconv.Itoa(batchLimit),
			}).
			SetResult(&body).
			Get("/v1/changes")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("remote returned %s", resp.Status())
		}

		rows := dropSystemRows(body.Results)
		if len(rows) == 0 {
			r.pullSeq = body.LastSeq
			return nil
		}

		r.emit(ctx, SyncEvent{Kind: EventActive, Direction: Pull})

		stats := SyncStats{DocsRead: len(rows)}
		for _, row := range rows {
			if err := r.local.ApplyReplicated(ctx, row); err != nil {
				stats.WriteFailures++
				stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", row.ID, err))
				continue
			}
			stats.DocsWritten++
		}

		r.pullSeq = body.LastSeq
		r.saveCheckpoint(ctx)
		r.emit(ctx, SyncEvent{Kind: EventChange, Direction: Pull, Stats: stats})

		if len(body.Results) < batchLimit {
			return nil
		}
	}
}

func (r *replicator) push(ctx context.Context) error {
	for {
		batch, last, err := r.local.ChangesSince(ctx, r.pushSeq, batchLimit)
		if err != nil {
			return fmt.Errorf("read local changes: %w", err)
		}

		rows := dropSystemRows(batch)
		if len(rows) == 0 {
			r.pushSeq = last
			if len(batch) < batchLimit {
				return nil
			}
			continue
		}

		r.emit(ctx, SyncEvent{Kind: EventActive, Direction: Push})

		var result BulkApplyResponse
		resp, err := r.client.R().
			SetContext(ctx).
			SetBody(rows).
			SetResult(&result).
			Post("/v1/docs")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("remote returned %s", resp.Status())
		}

		stats := SyncStats{
			DocsRead:      len(rows),
			DocsWritten:   result.Written,
			WriteFailures: len(result.Failures),
			Errors:        result.Failures,
		}

		r.pushSeq = last
		r.saveCheckpoint(ctx)
		r.emit(ctx, SyncEvent{Kind: EventChange, Direction: Push, Stats: stats})

		if len(batch) < batchLimit {
			return nil
		}
	}
}

// loadCheckpoint restores replication progress from the local checkpoint
// document. Absence or corruption just restarts from zero: replication is
// idempotent, a lost checkpoint only costs a rescan.
func (r *replicator) loadCheckpoint(ctx context.Context) {
	row, err := r.local.Get(ctx, r.checkpointID, GetOptions{})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.log.Warn().Err(err).Msg("load replication checkpoint")
		}
		return
	}
	r.checkpointRev = row.Rev
	r.pullSeq = asInt64(row.Doc["pull_seq"])
	r.pushSeq = asInt64(row.Doc["push_seq"])
}

// saveCheckpoint persists progress. Only called after documents actually
// moved; the checkpoint write itself bumps the local sequence, so writing on
// idle cycles would re-trigger them forever.
func (r *replicator) saveCheckpoint(ctx context.Context) {
	body := map[string]any{
		"pull_seq": r.pullSeq,
		"push_seq": r.pushSeq,
	}
	rev, err := r.local.Put(ctx, r.checkpointID, r.checkpointRev, body)
	if errors.Is(err, ErrConflict) {
		// Another handle on the same store and URL raced us; take over its
		// revision and retry once.
		if row, getErr := r.local.Get(ctx, r.checkpointID, GetOptions{}); getErr == nil {
			r.checkpointRev = row.Rev
			rev, err = r.local.Put(ctx, r.checkpointID, r.checkpointRev, body)
		}
	}
	if err != nil {
		r.log.Warn().Err(err).Msg("save replication checkpoint")
		return
	}
	r.checkpointRev = rev
}

func (r *replicator) emit(ctx context.Context, ev SyncEvent) {
	select {
	case r.events <- ev:
	case <-ctx.Done():
	}
}

func dropSystemRows(rows []Row) []Row {
	out := rows[:0:0]
	for _, row := range rows {
		if strings.HasPrefix(row.ID, "_") {
			continue
		}
		out = append(out, row)
	}
	return out
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
