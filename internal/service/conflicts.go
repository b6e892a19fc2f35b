// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-doc-vault/internal/codec"
	"github.com/MKhiriev/go-doc-vault/internal/crypto"
	"github.com/MKhiriev/go-doc-vault/internal/logger"
	"github.com/MKhiriev/go-doc-vault/models"
	"github.com/MKhiriev/go-doc-vault/store"
)

// PutFunc is the vault's normal write path, injected so conflict resolution
// goes through the same encryption and identifier handling as any other
// write.
type PutFunc func(ctx context.Context, table string, doc models.Document) (models.Document, error)

// Conflicts reconstructs multi-revision conflicts into decrypted
// [models.ConflictInfo] values and settles them on request.
type Conflicts struct {
	store  store.Store
	engine crypto.Engine
	log    *logger.Logger
}

// NewConflicts returns a conflict resolver over the given store and cipher.
func NewConflicts(st store.Store, engine crypto.Engine, log *logger.Logger) *Conflicts {
	return &Conflicts{store: st, engine: engine, log: log.Component("conflicts")}
}

// BuildInfo fetches and decrypts every competing revision of a conflicted
// document. winner is the already-decrypted current version. Revisions that
// cannot be fetched or decrypted are dropped from the losers and reported as
// decryption-error events instead.
func (c *Conflicts) BuildInfo(ctx context.Context, fullID, rev string, competing []string, winner models.Document) (models.ConflictInfo, []models.DecryptionErrorEvent) {
	table, docID, ok := codec.Decode(fullID)
	if !ok {
		table, docID = "", fullID
	}
	info := models.ConflictInfo{
		FullID:        fullID,
		Table:         table,
		DocID:         docID,
		Rev:           rev,
		CompetingRevs: competing,
		Winner:        winner,
	}
	var events []models.DecryptionErrorEvent
	for _, crev := range competing {
		row, err := c.store.Get(ctx, fullID, store.GetOptions{Rev: crev})
		if err != nil {
			events = append(events, models.DecryptionErrorEvent{
				FullID: fullID,
				Err:    models.NewDecryptionError(fmt.Errorf("fetch revision %s: %w", crev, err)),
			})
			continue
		}
		doc, err := DecryptRecord(c.engine, row)
		if err != nil {
			events = append(events, models.DecryptionErrorEvent{
				FullID: fullID,
				Err:    err,
				Record: rawRecord(row),
			})
			continue
		}
		info.Losers = append(info.Losers, doc)
	}
	return info, events
}

// Info reads the current conflict state of one document without touching any
// listener. It returns nil when the document does not exist or carries no
// conflicts. Reconstruction failures of individual competing revisions are
// logged, not dispatched.
func (c *Conflicts) Info(ctx context.Context, table, id string) (*models.ConflictInfo, error) {
	fullID := codec.Encode(table, id)
	row, err := c.store.Get(ctx, fullID, store.GetOptions{Conflicts: true})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", fullID, err)
	}
	if len(row.ConflictRevs) == 0 {
		return nil, nil
	}
	winner, err := DecryptRecord(c.engine, row)
	if err != nil {
		return nil, err
	}
	info, events := c.BuildInfo(ctx, fullID, row.Rev, row.ConflictRevs, winner)
	for _, ev := range events {
		c.log.Warn().Str("id", ev.FullID).Err(ev.Err).Msg("conflict revision unrecoverable")
	}
	return &info, nil
}

// Resolve settles a conflict: it writes winning through the vault's normal
// write path and then removes every revision that was competing at the time
// of the call. Removal failures are logged and do not fail the resolution;
// the store promotes or keeps branches on its own either way.
func (c *Conflicts) Resolve(ctx context.Context, table, id string, winning models.Document, put PutFunc) error {
	fullID := codec.Encode(table, id)
	var competing []string
	if row, err := c.store.Get(ctx, fullID, store.GetOptions{Conflicts: true}); err == nil {
		competing = row.ConflictRevs
	}
	if _, err := put(ctx, table, winning); err != nil {
		return err
	}
	for _, rev := range competing {
		if err := c.store.Remove(ctx, fullID, rev); err != nil {
			c.log.Warn().Str("id", fullID).Str("rev", rev).Err(err).Msg("cleanup of losing revision failed")
		}
	}
	return nil
}
