package documents

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/finsync/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	upsertRe = regexp.MustCompile(`INSERT INTO documents .* ON CONFLICT \(user_id, collection, id\) DO UPDATE SET data = documents\.data \|\| EXCLUDED\.data`)
	listRe   = regexp.MustCompile(`SELECT id, data FROM documents WHERE user_id = \$1 AND collection = \$2 ORDER BY id`)
	getRe    = regexp.MustCompile(`SELECT data FROM documents WHERE user_id = \$1 AND collection = \$2 AND id = \$3`)
	deleteRe = regexp.MustCompile(`DELETE FROM documents WHERE user_id = \$1 AND collection = \$2 AND id = \$3`)
)

func newPostgresWithMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresStore(db), mock, db
}

func TestPostgresStore_UpsertMerge(t *testing.T) {
	s, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertRe.String()).
		WithArgs("u1", "transactions", "t1", `{"amount":50,"note":"lunch"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.UpsertMerge(context.Background(), "u1", "transactions", "t1", map[string]any{"note": "lunch", "amount": 50})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertMerge_DBError(t *testing.T) {
	s, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertRe.String()).
		WithArgs("u1", "transactions", "t1", `{}`).
		WillReturnError(errors.New("db is down"))

	err := s.UpsertMerge(context.Background(), "u1", "transactions", "t1", nil)
	if !errors.Is(err, common.ErrStorageUnavailable) {
		t.Fatalf("want ErrStorageUnavailable, got %v", err)
	}
	assert.Contains(t, err.Error(), "db is down")
}

func TestPostgresStore_CommitBatch(t *testing.T) {
	s, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(upsertRe.String()).
		WithArgs("u1", "wallets", "a", `{"name":"cash"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsertRe.String()).
		WithArgs("u1", "wallets", "b", `{"name":"bank"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b := NewBatch()
	b.Merge("u1", "wallets", "a", map[string]any{"name": "cash"})
	b.Merge("u1", "wallets", "b", map[string]any{"name": "bank"})

	require.NoError(t, s.CommitBatch(context.Background(), b))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CommitBatch_RollsBackOnError(t *testing.T) {
	s, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(upsertRe.String()).
		WithArgs("u1", "wallets", "a", `{"name":"cash"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsertRe.String()).
		WithArgs("u1", "wallets", "b", `{"name":"bank"}`).
		WillReturnError(errors.New("conn reset"))
	mock.ExpectRollback()

	b := NewBatch()
	b.Merge("u1", "wallets", "a", map[string]any{"name": "cash"})
	b.Merge("u1", "wallets", "b", map[string]any{"name": "bank"})

	err := s.CommitBatch(context.Background(), b)
	if !errors.Is(err, common.ErrStorageUnavailable) {
		t.Fatalf("want ErrStorageUnavailable, got %v", err)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CommitBatch_BeginError(t *testing.T) {
	s, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	b := NewBatch()
	b.Merge("u1", "wallets", "a", map[string]any{})

	err := s.CommitBatch(context.Background(), b)
	if !errors.Is(err, common.ErrStorageUnavailable) {
		t.Fatalf("want ErrStorageUnavailable, got %v", err)
	}
	assert.Contains(t, err.Error(), "begin tx")
}

func TestPostgresStore_CommitBatch_EmptySkipsDB(t *testing.T) {
	s, mock, db := newPostgresWithMock(t)
	defer db.Close()

	require.NoError(t, s.CommitBatch(context.Background(), NewBatch()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAll(t *testing.T) {
	s, mock, db := newPostgresWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "data"}).
		AddRow("a", []byte(`{"amount":50,"updatedAt":1700000000000}`)).
		AddRow("b", []byte(`{"rate":1.25}`))

	mock.ExpectQuery(listRe.String()).
		WithArgs("u1", "transactions").
		WillReturnRows(rows)

	docs, err := s.ListAll(context.Background(), "u1", "transactions")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, int64(1700000000000), docs[0].Data["updatedAt"])
	assert.Equal(t, int64(50), docs[0].Data["amount"])
	assert.Equal(t, 1.25, docs[1].Data["rate"])
}

func TestPostgresStore_ListAll_QueryError(t *testing.T) {
	s, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listRe.String()).
		WithArgs("u1", "transactions").
		WillReturnError(errors.New("db err"))

	_, err := s.ListAll(context.Background(), "u1", "transactions")
	if err == nil || !regexp.MustCompile(`storage unavailable: list documents: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped list error, got %v", err)
	}
}

func TestPostgresStore_ListAll_BadJSON(t *testing.T) {
	s, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listRe.String()).
		WithArgs("u1", "transactions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).AddRow("a", []byte(`{oops`)))

	_, err := s.ListAll(context.Background(), "u1", "transactions")
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
}

func TestPostgresStore_Get(t *testing.T) {
	s, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getRe.String()).
		WithArgs("u1", "budgets", "b1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"limit":100}`)))

	doc, err := s.Get(context.Background(), "u1", "budgets", "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", doc.ID)
	assert.Equal(t, int64(100), doc.Data["limit"])
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	s, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getRe.String()).
		WithArgs("u1", "budgets", "nope").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	_, err := s.Get(context.Background(), "u1", "budgets", "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestPostgresStore_DeleteByID(t *testing.T) {
	s, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteRe.String()).
		WithArgs("u1", "transactions", "t1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.DeleteByID(context.Background(), "u1", "transactions", "t1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteByID_Error(t *testing.T) {
	s, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteRe.String()).
		WithArgs("u1", "transactions", "t1").
		WillReturnError(errors.New("boom"))

	err := s.DeleteByID(context.Background(), "u1", "transactions", "t1")
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
}
