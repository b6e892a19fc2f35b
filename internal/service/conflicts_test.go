// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-doc-vault/internal/codec"
	"github.com/MKhiriev/go-doc-vault/internal/crypto"
	"github.com/MKhiriev/go-doc-vault/internal/logger"
	"github.com/MKhiriev/go-doc-vault/models"
	"github.com/MKhiriev/go-doc-vault/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forkRemote injects a replicated forked revision, optionally with a payload
// that cannot be decrypted.
func forkRemote(t *testing.T, st store.Replicable, engine crypto.Engine, fullID, rev string, user map[string]any, corrupt bool) {
	t.Helper()
	enc := "garbage-not-a-ciphertext"
	if !corrupt {
		payload, err := codec.EncodePayload(user)
		require.NoError(t, err)
		enc, err = engine.Encrypt(payload)
		require.NoError(t, err)
	}
	require.NoError(t, st.ApplyReplicated(context.Background(), store.Row{
		ID:      fullID,
		Rev:     rev,
		Doc:     map[string]any{models.PayloadField: enc},
		History: []string{rev},
	}))
}

// vaultPut builds a put func doing what the vault's write path does: fetch
// the current winner, encrypt the user data, and write over it.
func vaultPut(st store.Store, engine crypto.Engine) PutFunc {
	return func(ctx context.Context, table string, doc models.Document) (models.Document, error) {
		fullID := codec.Encode(table, doc.ID())
		var rev string
		if row, err := st.Get(ctx, fullID, store.GetOptions{}); err == nil {
			rev = row.Rev
		}
		_, user := codec.Partition(doc)
		payload, err := codec.EncodePayload(user)
		if err != nil {
			return nil, err
		}
		enc, err := engine.Encrypt(payload)
		if err != nil {
			return nil, err
		}
		newRev, err := st.Put(ctx, fullID, rev, map[string]any{models.PayloadField: enc})
		if err != nil {
			return nil, err
		}
		out := doc.Clone()
		out[models.FieldRev] = newRev
		return out, nil
	}
}

func TestConflicts_Info_NoConflict(t *testing.T) {
	st := store.NewMemory(nil)
	engine := testEngine()
	c := NewConflicts(st, engine, logger.Nop())
	ctx := context.Background()

	seedDoc(t, st, engine, "expenses", "lunch", map[string]any{"amount": 15.0})

	info, err := c.Info(ctx, "expenses", "lunch")
	require.NoError(t, err)
	assert.Nil(t, info, "a single-revision document has no conflict info")

	info, err = c.Info(ctx, "expenses", "missing")
	require.NoError(t, err)
	assert.Nil(t, info, "an absent document has no conflict info")
}

func TestConflicts_Info_ReconstructsLosers(t *testing.T) {
	st := store.NewMemory(nil)
	engine := testEngine()
	c := NewConflicts(st, engine, logger.Nop())
	ctx := context.Background()

	seedDoc(t, st, engine, "expenses", "lunch", map[string]any{"amount": 15.0})
	forkRemote(t, st, engine, "expenses_lunch", "1-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", map[string]any{"amount": 20.0}, false)
	forkRemote(t, st, engine, "expenses_lunch", "2-ffffffffffffffffffffffffffffffff", map[string]any{"amount": 99.0}, true)

	info, err := c.Info(ctx, "expenses", "lunch")
	require.Error(t, err, "an undecryptable winner cannot be reconstructed")
	assert.True(t, models.IsDecryptionError(err))
	assert.Nil(t, info)
}

func TestConflicts_Info_SkipsUnrecoverableLosers(t *testing.T) {
	st := store.NewMemory(nil)
	engine := testEngine()
	c := NewConflicts(st, engine, logger.Nop())
	ctx := context.Background()

	seedDoc(t, st, engine, "expenses", "lunch", map[string]any{"amount": 15.0})
	forkRemote(t, st, engine, "expenses_lunch", "1-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", map[string]any{"amount": 20.0}, true)
	forkRemote(t, st, engine, "expenses_lunch", "2-ffffffffffffffffffffffffffffffff", map[string]any{"amount": 42.0}, false)

	info, err := c.Info(ctx, "expenses", "lunch")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "expenses_lunch", info.FullID)
	assert.Equal(t, "2-ffffffffffffffffffffffffffffffff", info.Rev)
	assert.Equal(t, 42.0, info.Winner["amount"])
	assert.Len(t, info.CompetingRevs, 2, "both competing revisions are listed")
	require.Len(t, info.Losers, 1, "only the decryptable loser is reconstructed")
	assert.Equal(t, 15.0, info.Losers[0]["amount"])
}

func TestConflicts_BuildInfo_FetchFailure(t *testing.T) {
	st := store.NewMemory(nil)
	engine := testEngine()
	c := NewConflicts(st, engine, logger.Nop())

	seedDoc(t, st, engine, "expenses", "lunch", map[string]any{"amount": 15.0})

	info, events := c.BuildInfo(context.Background(), "expenses_lunch", "2-dead",
		[]string{"1-unknown"}, models.Document{models.FieldID: "lunch"})
	assert.Empty(t, info.Losers)
	require.Len(t, events, 1)
	assert.Equal(t, "expenses_lunch", events[0].FullID)
	assert.True(t, models.IsDecryptionError(events[0].Err))
}

func TestConflicts_Resolve(t *testing.T) {
	st := store.NewMemory(nil)
	engine := testEngine()
	c := NewConflicts(st, engine, logger.Nop())
	ctx := context.Background()

	seedDoc(t, st, engine, "expenses", "lunch", map[string]any{"amount": 15.0})
	forkRemote(t, st, engine, "expenses_lunch", "1-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", map[string]any{"amount": 20.0}, false)

	require.NoError(t, c.Resolve(ctx, "expenses", "lunch",
		models.Document{models.FieldID: "lunch", "amount": 17.5}, vaultPut(st, engine)))

	row, err := st.Get(ctx, "expenses_lunch", store.GetOptions{Conflicts: true})
	require.NoError(t, err)
	assert.Empty(t, row.ConflictRevs, "losing revisions are removed")

	info, err := c.Info(ctx, "expenses", "lunch")
	require.NoError(t, err)
	assert.Nil(t, info)

	doc, err := DecryptRecord(engine, row)
	require.NoError(t, err)
	assert.Equal(t, 17.5, doc["amount"])
}

func TestConflicts_Resolve_WriteFailureAborts(t *testing.T) {
	st := store.NewMemory(nil)
	engine := testEngine()
	c := NewConflicts(st, engine, logger.Nop())
	ctx := context.Background()

	seedDoc(t, st, engine, "expenses", "lunch", map[string]any{"amount": 15.0})
	forkRemote(t, st, engine, "expenses_lunch", "1-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", map[string]any{"amount": 20.0}, false)

	writeErr := errors.New("write rejected")
	fail := func(context.Context, string, models.Document) (models.Document, error) {
		return nil, writeErr
	}
	require.ErrorIs(t, c.Resolve(ctx, "expenses", "lunch", models.Document{models.FieldID: "lunch"}, fail), writeErr)

	row, err := st.Get(ctx, "expenses_lunch", store.GetOptions{Conflicts: true})
	require.NoError(t, err)
	assert.Len(t, row.ConflictRevs, 1, "a failed resolution must not touch the competing revisions")
}
