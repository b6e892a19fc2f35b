// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"
)

// Query builders for the SQLite store. Kept together so the sqlmock tests can
// pin the generated SQL in one place.

func selectBranchesQuery(docID string) sq.SelectBuilder {
	return sq.Select("leaf_rev", "history", "deleted", "body").
		From("branches").
		Where(sq.Eq{"doc_id": docID})
}

func selectAllBranchesQuery() sq.SelectBuilder {
	return sq.Select("doc_id", "leaf_rev", "history", "deleted", "body").
		From("branches").
		OrderBy("doc_id ASC")
}

func insertBranchQuery(docID string, b *branch, history, body string) sq.InsertBuilder {
	return sq.Insert("branches").
		Columns("doc_id", "leaf_rev", "history", "deleted", "body").
		Values(docID, b.Rev, history, b.Deleted, body)
}

func deleteBranchQuery(docID, leafRev string) sq.DeleteBuilder {
	return sq.Delete("branches").
		Where(sq.Eq{"doc_id": docID, "leaf_rev": leafRev})
}

func upsertSeqQuery(docID string, seq int64) sq.InsertBuilder {
	return sq.Insert("doc_seqs").
		Columns("doc_id", "seq").
		Values(docID, seq).
		Suffix("ON CONFLICT (doc_id) DO UPDATE SET seq = excluded.seq")
}

func selectMaxSeqQuery() sq.SelectBuilder {
	return sq.Select("COALESCE(MAX(seq), 0)").From("doc_seqs")
}

func selectChangedQuery(since int64, limit int) sq.SelectBuilder {
	q := sq.Select("doc_id", "seq").
		From("doc_seqs").
		Where(sq.Gt{"seq": since}).
		OrderBy("seq ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return q
}
