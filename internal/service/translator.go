// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-doc-vault/internal/codec"
	"github.com/MKhiriev/go-doc-vault/internal/crypto"
	"github.com/MKhiriev/go-doc-vault/internal/logger"
	"github.com/MKhiriev/go-doc-vault/internal/workers"
	"github.com/MKhiriev/go-doc-vault/models"
	"github.com/MKhiriev/go-doc-vault/store"
)

// Translator turns raw store events into decrypted listener notifications.
// It performs the initial bulk load and then feeds every live change through
// the serial event worker, so callbacks observe changes one at a time in
// store emission order.
type Translator struct {
	store     store.Store
	engine    crypto.Engine
	conflicts *Conflicts
	queue     *workers.Serial
	listener  models.Listener
	log       *logger.Logger

	// strict makes LoadAll fail on a bulk-scan error instead of logging it
	// and carrying on with the live feed.
	strict bool

	// parent bounds the live subscription and its per-event work, which
	// outlive any single LoadAll call.
	parent context.Context

	mu       sync.Mutex
	sub      store.Subscription
	pumpDone chan struct{}
}

// NewTranslator wires a translator. parent bounds the lifetime of the live
// subscription, not of individual calls. listener is required; its optional
// capabilities (conflict, sync, error callbacks) are discovered by interface
// assertion.
func NewTranslator(parent context.Context, st store.Store, engine crypto.Engine, conflicts *Conflicts, queue *workers.Serial, listener models.Listener, strict bool, log *logger.Logger) *Translator {
	return &Translator{
		store:     st,
		engine:    engine,
		conflicts: conflicts,
		queue:     queue,
		listener:  listener,
		strict:    strict,
		parent:    parent,
		log:       log.Component("translator"),
	}
}

// LoadAll scans the whole store, delivers the decrypted state in one change
// notification, and then establishes the live subscription. ctx bounds the
// scan only; the subscription runs on the parent context until Close. The
// subscription is established even when the scan fails; the scan error is
// logged unless strict mode was requested, in which case it is returned
// after the subscription is up.
func (t *Translator) LoadAll(ctx context.Context) error {
	scanErr := t.scan(ctx)
	if scanErr != nil {
		t.log.Error().Err(scanErr).Msg("bulk load failed")
	}
	if err := t.subscribe(); err != nil {
		return fmt.Errorf("subscribe to changes: %w", err)
	}
	if t.strict && scanErr != nil {
		return fmt.Errorf("bulk load: %w", scanErr)
	}
	return nil
}

// Close cancels the live subscription and waits for its pump to drain. Tasks
// already handed to the event worker still run.
func (t *Translator) Close() {
	t.mu.Lock()
	sub, done := t.sub, t.pumpDone
	t.sub, t.pumpDone = nil, nil
	t.mu.Unlock()
	if sub == nil {
		return
	}
	sub.Cancel()
	<-done
}

func (t *Translator) scan(ctx context.Context) error {
	rows, err := t.store.AllDocs(ctx)
	if err != nil {
		return err
	}

	var (
		batches   []models.TableBatch
		batchIdx  = make(map[string]int)
		events    []models.DecryptionErrorEvent
		conflicts []models.ConflictInfo
	)
	for _, row := range rows {
		if codec.IsSystem(row.ID) {
			continue
		}
		table, _, ok := codec.Decode(row.ID)
		if !ok {
			t.log.Warn().Str("id", row.ID).Msg("skipping record with undecodable identifier")
			continue
		}
		doc, err := DecryptRecord(t.engine, row)
		if err != nil {
			events = append(events, models.DecryptionErrorEvent{
				FullID: row.ID,
				Err:    err,
				Record: rawRecord(row),
			})
			continue
		}
		i, ok := batchIdx[table]
		if !ok {
			i = len(batches)
			batchIdx[table] = i
			batches = append(batches, models.TableBatch{Table: table})
		}
		batches[i].Docs = append(batches[i].Docs, doc)

		if len(row.ConflictRevs) > 0 {
			info, evs := t.conflicts.BuildInfo(ctx, row.ID, row.Rev, row.ConflictRevs, doc)
			conflicts = append(conflicts, info)
			events = append(events, evs...)
		}
	}

	if len(batches) > 0 {
		t.listener.OnChange(batches)
	}
	t.notifyErrors(events)
	t.notifyConflicts(conflicts)
	return nil
}

func (t *Translator) subscribe() error {
	sub, err := t.store.Changes(t.parent)
	if err != nil {
		return err
	}
	done := make(chan struct{})
	t.mu.Lock()
	t.sub, t.pumpDone = sub, done
	t.mu.Unlock()

	go func() {
		defer close(done)
		for row := range sub.Events() {
			row := row
			t.queue.Enqueue(func() error { return t.handleLive(t.parent, row) })
		}
	}()
	return nil
}

// handleLive translates one live store event. It runs on the serial event
// worker.
func (t *Translator) handleLive(ctx context.Context, row store.Row) error {
	if codec.IsSystem(row.ID) {
		return nil
	}
	table, docID, ok := codec.Decode(row.ID)
	if !ok {
		t.log.Warn().Str("id", row.ID).Msg("ignoring change with undecodable identifier")
		return nil
	}

	// A deletion arrives either flagged by the store or as a row whose body
	// lost its payload field.
	if _, hasPayload := row.Doc[models.PayloadField].(string); row.Deleted || !hasPayload {
		t.listener.OnDelete([]models.TableBatch{{
			Table: table,
			Docs:  []models.Document{{models.FieldID: docID}},
		}})
		return nil
	}

	doc, err := DecryptRecord(t.engine, row)
	if err != nil {
		t.notifyErrors([]models.DecryptionErrorEvent{{
			FullID: row.ID,
			Err:    err,
			Record: rawRecord(row),
		}})
		return nil
	}
	t.listener.OnChange([]models.TableBatch{{Table: table, Docs: []models.Document{doc}}})

	if len(row.ConflictRevs) > 0 {
		info, evs := t.conflicts.BuildInfo(ctx, row.ID, row.Rev, row.ConflictRevs, doc)
		t.notifyConflicts([]models.ConflictInfo{info})
		t.notifyErrors(evs)
	}
	return nil
}

func (t *Translator) notifyErrors(events []models.DecryptionErrorEvent) {
	if len(events) == 0 {
		return
	}
	l, ok := t.listener.(models.ErrorListener)
	if !ok {
		for _, ev := range events {
			t.log.Warn().Str("id", ev.FullID).Err(ev.Err).Msg("record could not be decrypted")
		}
		return
	}
	l.OnError(events)
}

func (t *Translator) notifyConflicts(conflicts []models.ConflictInfo) {
	if len(conflicts) == 0 {
		return
	}
	if l, ok := t.listener.(models.ConflictListener); ok {
		l.OnConflict(conflicts)
	}
}
