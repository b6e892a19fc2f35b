// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ConflictInfo describes a multi-revision conflict on one document: the
// decrypted winning version plus however many competing revisions could be
// fetched and decrypted.
//
// Losers may be a strict subset of CompetingRevs: a competing revision that
// fails to decrypt is reported through the error channel and omitted here.
type ConflictInfo struct {
	// FullID is the store-level identifier (table + separator + id).
	FullID string

	// Table and DocID are the decoded parts of FullID.
	Table string
	DocID string

	// Rev is the revision token of the current (winning) version.
	Rev string

	// CompetingRevs are the revision tokens competing against Rev.
	CompetingRevs []string

	// Winner is the decrypted current version.
	Winner Document

	// Losers are the decrypted competing versions that were recoverable.
	Losers []Document
}
