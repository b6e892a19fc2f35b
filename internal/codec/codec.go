// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package codec maps between the caller-facing document model and the
// store-facing record model: it encodes (table, id) pairs into store-level
// identifiers and partitions documents into cleartext metadata and the
// user-data fields destined for the encrypted payload.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-doc-vault/models"
)

// Separator joins table and logical id into the full identifier. Decoding
// splits on its first occurrence, so table names must never contain it; see
// [ValidTable].
const Separator = "_"

// SystemPrefix marks store-internal identifiers (e.g. replication
// checkpoints under "_local/"). Records with such identifiers are never
// decrypted, translated, or deleted by the vault.
const SystemPrefix = "_"

// Encode builds the full store-level identifier for table and id.
func Encode(table, id string) string {
	return table + Separator + id
}

// Decode splits a full identifier into its table and logical id at the first
// separator. ok is false when the identifier contains no separator and is
// therefore not one of ours.
func Decode(fullID string) (table, id string, ok bool) {
	return strings.Cut(fullID, Separator)
}

// IsSystem reports whether fullID names a store-internal record.
func IsSystem(fullID string) bool {
	return strings.HasPrefix(fullID, SystemPrefix)
}

// ValidTable reports whether table can be encoded unambiguously.
func ValidTable(table string) bool {
	return table != "" && !strings.Contains(table, Separator)
}

// Partition splits a document into its metadata fields (names starting with
// [models.MetaPrefix], passed through in cleartext) and its user-data fields
// (everything else, destined for the encrypted payload). Which metadata names
// are acceptable is for the store to decide; no validation happens here.
func Partition(doc models.Document) (meta map[string]any, user map[string]any) {
	meta = make(map[string]any)
	user = make(map[string]any)
	for name, value := range doc {
		if strings.HasPrefix(name, models.MetaPrefix) {
			meta[name] = value
		} else {
			user[name] = value
		}
	}
	return meta, user
}

// EncodePayload serializes the user-data fields to the JSON plaintext that
// gets encrypted into the payload field.
func EncodePayload(user map[string]any) (string, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("marshal user data: %w", err)
	}
	return string(raw), nil
}

// Reassemble is the read-side inverse of [Partition] + [EncodePayload]: it
// parses the decrypted payload, merges the cleartext metadata back in
// (minus the payload field itself), and substitutes the logical id and
// revision token.
func Reassemble(meta map[string]any, payload string, id, rev string) (models.Document, error) {
	doc := models.Document{}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), (*map[string]any)(&doc)); err != nil {
			return nil, fmt.Errorf("unmarshal user data: %w", err)
		}
	}

	for name, value := range meta {
		if name == models.PayloadField || name == models.FieldID || name == models.FieldRev {
			continue
		}
		doc[name] = value
	}

	doc[models.FieldID] = id
	if rev != "" {
		doc[models.FieldRev] = rev
	}
	return doc, nil
}
