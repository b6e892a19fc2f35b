// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package models declares the shared data types exchanged between the vault
// facade, its internal services, and client code: plain documents, listener
// batches, conflict descriptors, sync statistics, and the error taxonomy.
package models

// Reserved field names and prefixes of the document model.
//
// Any field whose name starts with [MetaPrefix] is metadata: it is stored in
// cleartext at the top level of the persisted record. Every other field is
// user data and lives inside the encrypted payload. [PayloadField] is the
// cleartext field that carries the ciphertext itself.
const (
	// MetaPrefix marks metadata fields that bypass encryption.
	MetaPrefix = "_"

	// FieldID is the logical document identifier field.
	FieldID = "_id"

	// FieldRev is the revision-token field assigned by the store.
	FieldRev = "_rev"

	// PayloadField holds the encrypted user-data payload in stored records.
	PayloadField = "d"
)

// Document is a plain structured record as seen by callers: user-data fields
// plus the reserved metadata fields.
//
// Documents are transient. They are constructed on read, dispatched to the
// listener or returned to the caller, and never retained by the vault.
type Document map[string]any

// ID returns the document's logical identifier, or "" if unset or not a
// string.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Rev returns the document's revision token, or "" if the document has never
// been persisted.
func (d Document) Rev() string {
	rev, _ := d[FieldRev].(string)
	return rev
}

// Clone returns a shallow copy of the document. Field values are shared;
// adding or removing fields on the copy does not affect the original.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
