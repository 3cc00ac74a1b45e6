package save_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"bean-forge/beanerr"
	"bean-forge/save"
)

type invoice struct {
	ID     int64
	Number string
	Total  int64
}

func (i *invoice) EntityName() string { return "invoice" }
func (i *invoice) EntityID() int64 { return i.ID }
func (i *invoice) SetEntityID(id int64) { i.ID = id }

func TestUnsupported(t *testing.T) {
	got, err := save.Unsupported{}.Save(context.Background(), &invoice{})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, beanerr.IsUnsupportedOperation(err))
	assert.Contains(t, err.Error(), "save_test.invoice")

	err = save.Unsupported{}.Delete(context.Background(), &invoice{})
	assert.True(t, beanerr.IsUnsupportedOperation(err))
}

func TestNopAndFunc(t *testing.T) {
	bean := &invoice{Number: "A-1"}

	got, err := save.Nop{}.Save(context.Background(), bean)
	require.NoError(t, err)
	assert.Same(t, bean, got)
	assert.NoError(t, save.Nop{}.Delete(context.Background(), bean))

	var deleted []any

	f := save.Func{DeleteFunc: func(_ context.Context, bean any) error {
		deleted = append(deleted, bean)
		if len(deleted) == 2 {
			return errors.New("locked")
		}

		return nil
	}}

	got, err = f.Save(context.Background(), bean)
	require.NoError(t, err)
	assert.Same(t, bean, got)

	err = save.DeleteAll(context.Background(), f, 1, 2, 3)
	assert.EqualError(t, err, "locked")
	assert.Equal(t, []any{1, 2}, deleted)
}

func newMock(t *testing.T) (*save.SQL, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return save.NewSQL(sqlx.NewDb(db, "sqlmock")), mock
}

func TestSQL_SaveNewEntity(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO beans (entity, payload) VALUES (?, ?)")).
		WithArgs("invoice", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE beans SET payload = ? WHERE id = ? AND entity = ?")).
		WithArgs(sqlmock.AnyArg(), int64(7), "invoice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	bean := &invoice{Number: "A-1", Total: 990}
	got, err := s.Save(context.Background(), bean)
	require.NoError(t, err)
	assert.Same(t, bean, got)
	assert.Equal(t, int64(7), bean.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_SaveFailure(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO beans").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := s.Save(context.Background(), &invoice{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_SaveRollsBackPartialInsert(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO beans").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("UPDATE beans").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	bean := &invoice{Number: "A-1"}
	got, err := s.Save(context.Background(), bean)
	require.ErrorContains(t, err, "connection reset")
	assert.Nil(t, got)
	assert.Zero(t, bean.ID, "a failed save assigns no id")
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO beans").WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec("UPDATE beans").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	_, err = s.Save(context.Background(), bean)
	require.ErrorContains(t, err, "commit")
	assert.Zero(t, bean.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_SaveExistingEntity(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec("UPDATE beans").
		WithArgs(sqlmock.AnyArg(), int64(3), "invoice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	bean := &invoice{ID: 3, Number: "A-3"}
	_, err := s.Save(context.Background(), bean)
	require.NoError(t, err)
	assert.Equal(t, int64(3), bean.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_IgnoresNonEntities(t *testing.T) {
	s, mock := newMock(t)

	type note struct{ Text string }

	bean := &note{Text: "hi"}
	got, err := s.Save(context.Background(), bean)
	require.NoError(t, err)
	assert.Same(t, bean, got)
	assert.NoError(t, s.Delete(context.Background(), bean))
	assert.NoError(t, s.Delete(context.Background(), &invoice{}), "unsaved entities are ignored")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = db.Close() })

	s := save.NewSQL(db, save.WithTable("fixtures"))
	require.NoError(t, s.Migrate(ctx))

	first := &invoice{Number: "A-1", Total: 100}
	_, err = s.Save(ctx, first)
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second := &invoice{Number: "A-2", Total: 200}
	_, err = s.Save(ctx, second)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	first.Total = 150
	_, err = s.Save(ctx, first)
	require.NoError(t, err)

	var loaded invoice
	require.NoError(t, s.Load(ctx, "invoice", first.ID, &loaded))
	assert.Equal(t, *first, loaded)

	require.NoError(t, s.Delete(ctx, first))
	assert.Error(t, s.Load(ctx, "invoice", first.ID, &loaded))
}
