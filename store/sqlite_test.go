// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-doc-vault/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLQueries_RenderedSQL(t *testing.T) {
	query, args, err := selectBranchesQuery("expenses_lunch").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT leaf_rev, history, deleted, body FROM branches WHERE doc_id = ?", query)
	assert.Equal(t, []any{"expenses_lunch"}, args)

	query, _, err = selectAllBranchesQuery().ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT doc_id, leaf_rev, history, deleted, body FROM branches ORDER BY doc_id ASC", query)

	query, args, err = insertBranchQuery("expenses_lunch", &branch{Rev: "1-aa"}, `["1-aa"]`, `{}`).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO branches (doc_id,leaf_rev,history,deleted,body) VALUES (?,?,?,?,?)", query)
	assert.Equal(t, []any{"expenses_lunch", "1-aa", `["1-aa"]`, false, `{}`}, args)

	query, args, err = deleteBranchQuery("expenses_lunch", "1-aa").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM branches WHERE doc_id = ? AND leaf_rev = ?", query)
	assert.Equal(t, []any{"expenses_lunch", "1-aa"}, args)

	query, args, err = upsertSeqQuery("expenses_lunch", 7).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO doc_seqs (doc_id,seq) VALUES (?,?) ON CONFLICT (doc_id) DO UPDATE SET seq = excluded.seq", query)
	assert.Equal(t, []any{"expenses_lunch", int64(7)}, args)

	query, _, err = selectMaxSeqQuery().ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COALESCE(MAX(seq), 0) FROM doc_seqs", query)

	query, args, err = selectChangedQuery(42, 0).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT doc_id, seq FROM doc_seqs WHERE seq > ? ORDER BY seq ASC", query)
	assert.Equal(t, []any{int64(42)}, args)

	query, _, err = selectChangedQuery(42, 500).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT doc_id, seq FROM doc_seqs WHERE seq > ? ORDER BY seq ASC LIMIT 500", query)
}

func newMockSQLite(t *testing.T) (*SQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &SQLite{db: db, log: logger.Nop(), changes: newNotifier()}, mockDB
}

var branchColumns = []string{"leaf_rev", "history", "deleted", "body"}

func TestSQLite_Get_WinnerAndConflicts(t *testing.T) {
	st, mockDB := newMockSQLite(t)

	mockDB.ExpectQuery(regexp.QuoteMeta("SELECT leaf_rev, history, deleted, body FROM branches WHERE doc_id = ?")).
		WithArgs("expenses_lunch").
		WillReturnRows(sqlmock.NewRows(branchColumns).
			AddRow("2-bbbb", `["2-bbbb","1-aaaa"]`, false, `{"d":"winner"}`).
			AddRow("2-aaaa", `["2-aaaa","1-aaaa"]`, false, `{"d":"loser"}`))

	row, err := st.Get(context.Background(), "expenses_lunch", GetOptions{Conflicts: true})
	require.NoError(t, err)
	assert.Equal(t, "2-bbbb", row.Rev)
	assert.Equal(t, "winner", row.Doc["d"])
	assert.Equal(t, []string{"2-bbbb", "1-aaaa"}, row.History)
	assert.Equal(t, []string{"2-aaaa"}, row.ConflictRevs)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLite_Get_NotFound(t *testing.T) {
	st, mockDB := newMockSQLite(t)

	mockDB.ExpectQuery(regexp.QuoteMeta("SELECT leaf_rev, history, deleted, body FROM branches WHERE doc_id = ?")).
		WithArgs("expenses_missing").
		WillReturnRows(sqlmock.NewRows(branchColumns))

	_, err := st.Get(context.Background(), "expenses_missing", GetOptions{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLite_Get_TombstonesOnly(t *testing.T) {
	st, mockDB := newMockSQLite(t)

	mockDB.ExpectQuery(regexp.QuoteMeta("SELECT leaf_rev, history, deleted, body FROM branches WHERE doc_id = ?")).
		WithArgs("expenses_gone").
		WillReturnRows(sqlmock.NewRows(branchColumns).
			AddRow("2-dead", `["2-dead","1-aaaa"]`, true, `{}`))

	_, err := st.Get(context.Background(), "expenses_gone", GetOptions{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLite_Put_FirstRevision(t *testing.T) {
	st, mockDB := newMockSQLite(t)

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(regexp.QuoteMeta("SELECT leaf_rev, history, deleted, body FROM branches WHERE doc_id = ?")).
		WithArgs("expenses_lunch").
		WillReturnRows(sqlmock.NewRows(branchColumns))
	mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO branches (doc_id,leaf_rev,history,deleted,body) VALUES (?,?,?,?,?)")).
		WithArgs("expenses_lunch", sqlmock.AnyArg(), sqlmock.AnyArg(), false, `{"d":"sealed"}`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO doc_seqs (doc_id,seq) VALUES (?,?) ON CONFLICT (doc_id) DO UPDATE SET seq = excluded.seq")).
		WithArgs("expenses_lunch", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectCommit()

	rev, err := st.Put(context.Background(), "expenses_lunch", "", map[string]any{"d": "sealed"})
	require.NoError(t, err)
	assert.Equal(t, 1, Generation(rev))

	seq, err := st.LastSeq(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLite_Put_SupersedesCurrentBranch(t *testing.T) {
	st, mockDB := newMockSQLite(t)

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(regexp.QuoteMeta("SELECT leaf_rev, history, deleted, body FROM branches WHERE doc_id = ?")).
		WithArgs("expenses_lunch").
		WillReturnRows(sqlmock.NewRows(branchColumns).
			AddRow("1-aaaa", `["1-aaaa"]`, false, `{"d":"old"}`))
	mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM branches WHERE doc_id = ? AND leaf_rev = ?")).
		WithArgs("expenses_lunch", "1-aaaa").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO branches (doc_id,leaf_rev,history,deleted,body) VALUES (?,?,?,?,?)")).
		WithArgs("expenses_lunch", sqlmock.AnyArg(), sqlmock.AnyArg(), false, `{"d":"new"}`).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO doc_seqs (doc_id,seq) VALUES (?,?) ON CONFLICT (doc_id) DO UPDATE SET seq = excluded.seq")).
		WithArgs("expenses_lunch", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectCommit()

	rev, err := st.Put(context.Background(), "expenses_lunch", "1-aaaa", map[string]any{"d": "new"})
	require.NoError(t, err)
	assert.Equal(t, 2, Generation(rev))
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLite_Put_StaleRevisionRollsBack(t *testing.T) {
	st, mockDB := newMockSQLite(t)

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(regexp.QuoteMeta("SELECT leaf_rev, history, deleted, body FROM branches WHERE doc_id = ?")).
		WithArgs("expenses_lunch").
		WillReturnRows(sqlmock.NewRows(branchColumns).
			AddRow("2-bbbb", `["2-bbbb","1-aaaa"]`, false, `{"d":"current"}`))
	mockDB.ExpectRollback()

	_, err := st.Put(context.Background(), "expenses_lunch", "1-aaaa", map[string]any{"d": "stale"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLite_ApplyReplicated_StaleIsIgnoredWithoutWrites(t *testing.T) {
	st, mockDB := newMockSQLite(t)

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(regexp.QuoteMeta("SELECT leaf_rev, history, deleted, body FROM branches WHERE doc_id = ?")).
		WithArgs("expenses_lunch").
		WillReturnRows(sqlmock.NewRows(branchColumns).
			AddRow("2-bbbb", `["2-bbbb","1-aaaa"]`, false, `{"d":"current"}`))
	mockDB.ExpectRollback()

	err := st.ApplyReplicated(context.Background(), Row{ID: "expenses_lunch", Rev: "1-aaaa", History: []string{"1-aaaa"}})
	assert.NoError(t, err, "a stale replica row is silently dropped")

	seq, err := st.LastSeq(context.Background())
	require.NoError(t, err)
	assert.Zero(t, seq)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLite_ChangesSince(t *testing.T) {
	st, mockDB := newMockSQLite(t)

	mockDB.ExpectQuery(regexp.QuoteMeta("SELECT doc_id, seq FROM doc_seqs WHERE seq > ? ORDER BY seq ASC")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"doc_id", "seq"}).
			AddRow("expenses_lunch", int64(5)))
	mockDB.ExpectQuery(regexp.QuoteMeta("SELECT leaf_rev, history, deleted, body FROM branches WHERE doc_id = ?")).
		WithArgs("expenses_lunch").
		WillReturnRows(sqlmock.NewRows(branchColumns).
			AddRow("2-bbbb", `["2-bbbb","1-aaaa"]`, false, `{"d":"sealed"}`))

	rows, last, err := st.ChangesSince(context.Background(), 3, 100)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "expenses_lunch", rows[0].ID)
	assert.Equal(t, "2-bbbb", rows[0].Rev)
	assert.Equal(t, int64(5), rows[0].Seq)
	assert.Equal(t, int64(5), last)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}
