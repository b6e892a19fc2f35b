// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service contains the vault's orchestration layer: the translator
// that turns raw store events into decrypted listener notifications, the
// conflict resolver that reconstructs and settles multi-revision conflicts,
// and the sync coordinator that manages the replication link.
package service

import (
	"github.com/MKhiriev/go-doc-vault/internal/codec"
	"github.com/MKhiriev/go-doc-vault/internal/crypto"
	"github.com/MKhiriev/go-doc-vault/models"
	"github.com/MKhiriev/go-doc-vault/store"
)

// DecryptRecord decrypts a stored row back into a caller-facing document.
// Every failure, including a missing or non-string payload field, surfaces
// as a [models.DecryptionError].
func DecryptRecord(engine crypto.Engine, row store.Row) (models.Document, error) {
	_, id, ok := codec.Decode(row.ID)
	if !ok {
		id = row.ID
	}
	payload, ok := row.Doc[models.PayloadField].(string)
	if !ok {
		return nil, models.NewDecryptionError(errMissingPayload)
	}
	plain, err := engine.Decrypt(payload)
	if err != nil {
		return nil, err
	}
	doc, err := codec.Reassemble(row.Doc, plain, id, row.Rev)
	if err != nil {
		return nil, models.NewDecryptionError(err)
	}
	return doc, nil
}

// rawRecord snapshots the still-encrypted row for a decryption-error event,
// so the caller can inspect or export what could not be recovered.
func rawRecord(row store.Row) map[string]any {
	raw := make(map[string]any, len(row.Doc)+2)
	for name, value := range row.Doc {
		raw[name] = value
	}
	raw[models.FieldID] = row.ID
	raw[models.FieldRev] = row.Rev
	return raw
}
