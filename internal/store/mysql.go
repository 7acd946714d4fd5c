package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/tenant"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

const schemaRecords = `CREATE TABLE IF NOT EXISTS records (
    collection VARCHAR(64) NOT NULL,
    id         BIGINT      NOT NULL,
    hotel_id   VARCHAR(64) NULL,
    body       JSON        NOT NULL,
    PRIMARY KEY (collection, id),
    KEY idx_records_hotel (collection, hotel_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const (
	sqlSelectOne    = `SELECT body FROM records WHERE collection = ? AND id = ?`
	sqlSelectLocked = `SELECT body FROM records WHERE collection = ? AND id = ? FOR UPDATE`
	sqlNextID       = `SELECT COALESCE(MAX(id), 0) + 1 FROM records WHERE collection = ? FOR UPDATE`
	sqlInsert       = `INSERT INTO records (collection, id, hotel_id, body) VALUES (?, ?, ?, ?)`
	sqlUpdate       = `UPDATE records SET hotel_id = ?, body = ? WHERE collection = ? AND id = ?`
	sqlDelete       = `DELETE FROM records WHERE collection = ? AND id = ?`
)

// MySQL stores one row per record in the records table. The hotelId
// attribute is mirrored into its own column so tenant filters use the index.
type MySQL struct {
	db  *sql.DB
	log *zap.Logger
}

// NewMySQL wraps an open connection pool.
func NewMySQL(db *sql.DB, log *zap.Logger) *MySQL {
	if log == nil {
		log = zap.NewNop()
	}
	return &MySQL{db: db, log: log}
}

// EnsureSchema creates the records table when it does not exist.
func (m *MySQL) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, schemaRecords); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

func (m *MySQL) Get(ctx context.Context, collection string, id int64) (Record, error) {
	var body []byte
	err := m.db.QueryRowContext(ctx, sqlSelectOne, collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeBody(body, id)
}

func (m *MySQL) Find(ctx context.Context, collection string, q Query) (Record, error) {
	recs, err := m.Filter(ctx, collection, q)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return recs[0], nil
}

// Filter pushes Where and Tenant into SQL. JSON_UNQUOTE yields a slightly
// different text form for null and nested values, so every row is checked
// again with Query.Matches.
func (m *MySQL) Filter(ctx context.Context, collection string, q Query) ([]Record, error) {
	stmt, args, err := filterSQL(collection, q)
	if err != nil {
		return nil, err
	}
	rows, err := m.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		var (
			id   int64
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		rec, err := decodeBody(body, id)
		if err != nil {
			return nil, err
		}
		if q.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, rows.Err()
}

func filterSQL(collection string, q Query) (string, []any, error) {
	keys, err := q.fields()
	if err != nil {
		return "", nil, err
	}
	var sb strings.Builder
	sb.WriteString(`SELECT id, body FROM records WHERE collection = ?`)
	args := []any{collection}
	if !q.Tenant.IsZero() {
		sb.WriteString(` AND hotel_id = ?`)
		args = append(args, q.Tenant.String())
	}
	for _, k := range keys {
		sb.WriteString(` AND JSON_UNQUOTE(JSON_EXTRACT(body, ?)) = ?`)
		args = append(args, `$."`+k+`"`, q.Where[k])
	}
	sb.WriteString(` ORDER BY id`)
	return sb.String(), args, nil
}

func (m *MySQL) Append(ctx context.Context, collection string, rec Record) (Record, error) {
	stored := rec.Clone()
	if stored == nil {
		stored = Record{}
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	id, ok := stored.ID()
	if !ok || id == 0 {
		if err := tx.QueryRowContext(ctx, sqlNextID, collection).Scan(&id); err != nil {
			return nil, err
		}
	}
	stored["id"] = id

	body, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	if _, err := tx.ExecContext(ctx, sqlInsert, collection, id, hotelColumn(stored), body); err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateID
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return stored, nil
}

func (m *MySQL) Update(ctx context.Context, collection string, id int64, patch Record) (Record, error) {
	return m.mutate(ctx, collection, id, func(cur Record) Record {
		out := cur.merge(patch)
		out["id"] = id
		return out
	})
}

func (m *MySQL) Replace(ctx context.Context, collection string, id int64, rec Record) (Record, error) {
	return m.mutate(ctx, collection, id, func(Record) Record {
		out := rec.Clone()
		if out == nil {
			out = Record{}
		}
		out["id"] = id
		return out
	})
}

func (m *MySQL) Delete(ctx context.Context, collection string, id int64) error {
	res, err := m.db.ExecContext(ctx, sqlDelete, collection, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MySQL) Close() error { return m.db.Close() }

// mutate reads the row under FOR UPDATE, applies fn and writes it back in
// the same transaction.
func (m *MySQL) mutate(ctx context.Context, collection string, id int64, fn func(Record) Record) (Record, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var body []byte
	err = tx.QueryRowContext(ctx, sqlSelectLocked, collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	cur, err := decodeBody(body, id)
	if err != nil {
		return nil, err
	}

	next := fn(cur)
	encoded, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	if _, err := tx.ExecContext(ctx, sqlUpdate, hotelColumn(next), encoded, collection, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return next, nil
}

func decodeBody(body []byte, id int64) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode record %d: %w", id, err)
	}
	if rec == nil {
		rec = Record{}
	}
	rec["id"] = id
	return rec, nil
}

// hotelColumn is the value mirrored into records.hotel_id.
func hotelColumn(rec Record) any {
	v, ok := rec[tenant.Field]
	if !ok || v == nil {
		return nil
	}
	return Canonical(v)
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
