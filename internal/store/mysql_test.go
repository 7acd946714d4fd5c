package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/tenant"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *MySQL) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewMySQL(db, zap.NewNop())
}

func TestMySQLGet(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(sqlSelectOne)).
		WithArgs("rooms", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).
			AddRow([]byte(`{"hotelId":1,"type":"suite","status":"available"}`)))

	rec, err := s.Get(context.Background(), "rooms", 1)
	require.NoError(t, err)
	id, _ := rec.ID()
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "suite", rec.String("type"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLGetNotFound(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(sqlSelectOne)).
		WithArgs("rooms", int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	_, err := s.Get(context.Background(), "rooms", 9)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLFilterPushesDownWhereAndTenant(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	const want = `SELECT id, body FROM records WHERE collection = ? AND hotel_id = ? ` +
		`AND JSON_UNQUOTE(JSON_EXTRACT(body, ?)) = ? ORDER BY id`
	mock.ExpectQuery(regexp.QuoteMeta(want)).
		WithArgs("rooms", "1", `$."status"`, "available").
		WillReturnRows(sqlmock.NewRows([]string{"id", "body"}).
			AddRow(int64(1), []byte(`{"id":1,"hotelId":1,"status":"available"}`)).
			AddRow(int64(4), []byte(`{"id":4,"hotelId":1,"status":"available"}`)))

	q := By("status", "available").Scoped(tenant.ID("1"))
	recs, err := s.Filter(context.Background(), "rooms", q)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	id, _ := recs[1].ID()
	assert.Equal(t, int64(4), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLFilterRejectsInvalidField(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	_, err := s.Filter(context.Background(), "rooms", By(`x") OR 1=1 --`, "a"))
	assert.ErrorIs(t, err, ErrInvalidField)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLAppendAllocatesID(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(sqlNextID)).
		WithArgs("bookings").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(int64(3)))
	mock.ExpectExec(regexp.QuoteMeta(sqlInsert)).
		WithArgs("bookings", int64(3), "2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	rec, err := s.Append(context.Background(), "bookings", Record{"hotelId": 2, "roomId": 5})
	require.NoError(t, err)
	id, _ := rec.ID()
	assert.Equal(t, int64(3), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLAppendDuplicate(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(sqlInsert)).
		WithArgs("rooms", int64(1), nil, sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	_, err := s.Append(context.Background(), "rooms", Record{"id": 1})
	assert.ErrorIs(t, err, ErrDuplicateID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLUpdateMerges(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(sqlSelectLocked)).
		WithArgs("rooms", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).
			AddRow([]byte(`{"id":1,"hotelId":1,"status":"available","floor":2}`)))
	mock.ExpectExec(regexp.QuoteMeta(sqlUpdate)).
		WithArgs("1", sqlmock.AnyArg(), "rooms", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec, err := s.Update(context.Background(), "rooms", 1, Record{"status": "occupied", "currentUserId": 3})
	require.NoError(t, err)
	assert.Equal(t, "occupied", rec.String("status"))
	assert.Equal(t, "2", rec.String("floor"))
	assert.Equal(t, "3", rec.String("currentUserId"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLUpdateNotFound(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(sqlSelectLocked)).
		WithArgs("rooms", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"body"}))
	mock.ExpectRollback()

	_, err := s.Update(context.Background(), "rooms", 5, Record{"status": "occupied"})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLDelete(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(sqlDelete)).
		WithArgs("rooms", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(sqlDelete)).
		WithArgs("rooms", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Delete(context.Background(), "rooms", 1))
	assert.ErrorIs(t, s.Delete(context.Background(), "rooms", 1), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
