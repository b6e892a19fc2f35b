// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package docvault is a client-side encryption and translation layer over a
// replicated document store. Documents are grouped into named tables; their
// user-data fields are sealed with AES-256-GCM before they reach the store,
// while identifiers and revision tokens stay in cleartext so replication and
// conflict detection keep working on ciphertext.
//
// A [Vault] owns one passphrase-derived key and one listener. After
// [Vault.LoadAll] delivers the decrypted initial state, every local or
// replicated change arrives through the listener's callbacks, one event at a
// time, in store order.
package docvault

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-doc-vault/internal/codec"
	"github.com/MKhiriev/go-doc-vault/internal/config"
	"github.com/MKhiriev/go-doc-vault/internal/crypto"
	"github.com/MKhiriev/go-doc-vault/internal/logger"
	"github.com/MKhiriev/go-doc-vault/internal/service"
	"github.com/MKhiriev/go-doc-vault/internal/workers"
	"github.com/MKhiriev/go-doc-vault/models"
	"github.com/MKhiriev/go-doc-vault/store"
	"github.com/google/uuid"
)

// Vault is the caller-facing handle. All methods are safe for concurrent
// use.
type Vault struct {
	log    *logger.Logger
	store  store.Store
	engine crypto.Engine
	cfg    *config.Config

	queue      *workers.Serial
	translator *service.Translator
	conflicts  *service.Conflicts
	syncer     *service.Syncer

	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New builds a vault over st, sealing documents with a key made from
// passphrase. listener receives every change notification; st may be nil, in
// which case an in-memory store is used.
//
// The key is derived lazily on first use, so New never blocks on the KDF.
func New(st store.Store, passphrase string, listener models.Listener, opts Options) (*Vault, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase is required")
	}
	if listener == nil {
		return nil, errors.New("listener is required")
	}
	if st == nil {
		st = store.NewMemory(nil)
	}

	log := logger.Nop()
	if opts.Logger != nil {
		log = logger.Wrap(opts.Logger)
	}

	cfg, err := config.Load(&config.Config{
		ConnectWait:    opts.ConnectWait,
		DeleteSyncWait: opts.DeleteSyncWait,
		PollInterval:   opts.PollInterval,
		HTTPTimeout:    opts.HTTPTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	engine := crypto.NewEngine(passphrase, opts.KeyMode)
	queue := workers.NewSerial(log)
	conflicts := service.NewConflicts(st, engine, log)

	v := &Vault{
		log:        log.Component("vault"),
		store:      st,
		engine:     engine,
		cfg:        cfg,
		queue:      queue,
		translator: service.NewTranslator(ctx, st, engine, conflicts, queue, listener, opts.StrictLoad, log),
		conflicts:  conflicts,
		syncer:     service.NewSyncer(ctx, st, listener, cfg, log),
		cancel:     cancel,
	}
	return v, nil
}

// LoadAll decrypts the whole store into one change notification and starts
// the live feed. Call it once, after New. The live feed runs until
// [Vault.Close]; the passed context bounds only the initial scan.
func (v *Vault) LoadAll(ctx context.Context) error {
	return v.translator.LoadAll(ctx)
}

// Put writes doc into table. A document without an identifier gets a
// generated one; a document without a revision token must not exist yet.
// Returns the stored document carrying its identifier and new revision
// token. A stale revision token yields [ErrRevisionConflict].
func (v *Vault) Put(ctx context.Context, table string, doc models.Document) (models.Document, error) {
	if !codec.ValidTable(table) {
		return nil, fmt.Errorf("table %q: %w", table, models.ErrInvalidTable)
	}
	if doc == nil {
		return nil, errors.New("document is required")
	}

	id := doc.ID()
	if id == "" {
		id = uuid.NewString()
	}
	fullID := codec.Encode(table, id)

	meta, user := codec.Partition(doc)
	payload, err := codec.EncodePayload(user)
	if err != nil {
		return nil, err
	}
	sealed, err := v.engine.Encrypt(payload)
	if err != nil {
		return nil, fmt.Errorf("encrypt %s: %w", fullID, err)
	}

	body := map[string]any{models.PayloadField: sealed}
	for name, value := range meta {
		if name == models.FieldID || name == models.FieldRev || name == models.PayloadField {
			continue
		}
		body[name] = value
	}

	newRev, err := v.store.Put(ctx, fullID, doc.Rev(), body)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, fmt.Errorf("put %s: %w", fullID, models.ErrRevisionConflict)
		}
		return nil, fmt.Errorf("put %s: %w", fullID, err)
	}

	out := doc.Clone()
	out[models.FieldID] = id
	out[models.FieldRev] = newRev
	return out, nil
}

// Get reads and decrypts the current version of one document. Returns
// [ErrNotFound] when it does not exist or is deleted.
func (v *Vault) Get(ctx context.Context, table, id string) (models.Document, error) {
	if !codec.ValidTable(table) {
		return nil, fmt.Errorf("table %q: %w", table, models.ErrInvalidTable)
	}
	row, err := v.store.Get(ctx, codec.Encode(table, id), store.GetOptions{})
	if err != nil {
		return nil, err
	}
	if _, ok := row.Doc[models.PayloadField].(string); !ok {
		// A record written without a payload has nothing to decrypt; its
		// cleartext metadata is still readable.
		return codec.Reassemble(row.Doc, "{}", id, row.Rev)
	}
	return service.DecryptRecord(v.engine, row)
}

// GetAll reads and decrypts every document of one table, or of all tables
// when table is empty. Documents that cannot be decrypted are skipped and
// logged; they do not fail the listing.
func (v *Vault) GetAll(ctx context.Context, table string) ([]models.Document, error) {
	if table != "" && !codec.ValidTable(table) {
		return nil, fmt.Errorf("table %q: %w", table, models.ErrInvalidTable)
	}
	rows, err := v.store.AllDocs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	var docs []models.Document
	for _, row := range rows {
		if codec.IsSystem(row.ID) {
			continue
		}
		rowTable, _, ok := codec.Decode(row.ID)
		if !ok || (table != "" && rowTable != table) {
			continue
		}
		doc, err := service.DecryptRecord(v.engine, row)
		if err != nil {
			v.log.Warn().Str("id", row.ID).Err(err).Msg("skipping undecryptable document")
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Delete removes the current version of one document. Returns [ErrNotFound]
// when it does not exist.
func (v *Vault) Delete(ctx context.Context, table, id string) error {
	if !codec.ValidTable(table) {
		return fmt.Errorf("table %q: %w", table, models.ErrInvalidTable)
	}
	fullID := codec.Encode(table, id)
	row, err := v.store.Get(ctx, fullID, store.GetOptions{})
	if err != nil {
		return err
	}
	if err := v.store.Remove(ctx, fullID, row.Rev); err != nil {
		return fmt.Errorf("remove %s: %w", fullID, err)
	}
	return nil
}

// DeleteAllLocal deletes every non-system document from the local store
// without waiting for any remote. Individual failures are logged by the
// store and do not abort the rest.
func (v *Vault) DeleteAllLocal(ctx context.Context) error {
	rows, err := v.store.AllDocs(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	var markers []store.DeleteMarker
	for _, row := range rows {
		if codec.IsSystem(row.ID) {
			continue
		}
		markers = append(markers, store.DeleteMarker{ID: row.ID, Rev: row.Rev})
	}
	if len(markers) == 0 {
		return nil
	}
	return v.store.BulkDelete(ctx, markers)
}

// DeleteAllAndSync deletes every non-system document and blocks until the
// deletions have been pushed to the connected remote, or [ErrSyncTimeout]
// after the configured window. Requires a connected remote.
func (v *Vault) DeleteAllAndSync(ctx context.Context) error {
	return v.syncer.DeleteAllAndSync(ctx)
}

// ConnectRemote tears down any existing replication link and establishes a
// new one. It returns once the link shows activity or a quiet connect window
// has passed; an early link failure is returned as an error.
func (v *Vault) ConnectRemote(ctx context.Context, opts ConnectOptions) error {
	return v.syncer.Connect(ctx, opts)
}

// DisconnectRemote stops the replication link. Safe to call when not
// connected.
func (v *Vault) DisconnectRemote() {
	v.syncer.Disconnect()
}

// Reconnect re-dials the remote with the options of the last ConnectRemote.
func (v *Vault) Reconnect(ctx context.Context) error {
	return v.syncer.Reconnect(ctx)
}

// SyncNow runs one manual bidirectional sync cycle. Per-direction statistics
// reach the listener's OnSync for every direction that wrote documents.
// Returns [ErrSyncNotConnected] when no remote is connected.
func (v *Vault) SyncNow(ctx context.Context) error {
	return v.syncer.SyncNow(ctx)
}

// ResolveConflict settles a multi-revision conflict by writing winning as
// the new canonical version and removing the revisions that were competing.
// Removal failures are logged and do not fail the resolution.
func (v *Vault) ResolveConflict(ctx context.Context, table, id string, winning models.Document) error {
	if !codec.ValidTable(table) {
		return fmt.Errorf("table %q: %w", table, models.ErrInvalidTable)
	}
	win := winning.Clone()
	win[models.FieldID] = id
	delete(win, models.FieldRev)
	return v.conflicts.Resolve(ctx, table, id, win, v.resolvePut)
}

// resolvePut is the write path handed to the conflict resolver: a normal Put
// over the current winner, whatever its revision is.
func (v *Vault) resolvePut(ctx context.Context, table string, doc models.Document) (models.Document, error) {
	if row, err := v.store.Get(ctx, codec.Encode(table, doc.ID()), store.GetOptions{}); err == nil {
		doc = doc.Clone()
		doc[models.FieldRev] = row.Rev
	}
	return v.Put(ctx, table, doc)
}

// GetConflictInfo reads the current conflict state of one document without
// invoking any listener. Returns nil when the document does not exist or has
// no conflicts.
func (v *Vault) GetConflictInfo(ctx context.Context, table, id string) (*models.ConflictInfo, error) {
	if !codec.ValidTable(table) {
		return nil, fmt.Errorf("table %q: %w", table, models.ErrInvalidTable)
	}
	return v.conflicts.Info(ctx, table, id)
}

// Close stops the replication link, the live feed, and the event worker,
// draining events already queued. The vault must not be used afterwards.
// Safe to call more than once.
func (v *Vault) Close() {
	v.closeOnce.Do(func() {
		v.syncer.Disconnect()
		v.translator.Close()
		v.queue.Close()
		v.cancel()
	})
}
