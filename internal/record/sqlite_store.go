package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shearsapp/shears/internal/types"
)

// SQLiteStore implements Store on a single records table with the
// fields_data document stored as a JSON text column. Field filters go
// through SQLite's json_extract, so the store stays schemaless while
// remaining queryable.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store over an opened database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// CreateTable creates the records table. Run during startup migration.
func (s *SQLiteStore) CreateTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			id          TEXT PRIMARY KEY,
			record_type TEXT NOT NULL,
			fields_data TEXT NOT NULL DEFAULT '{}',
			created_at  TIMESTAMP NOT NULL,
			updated_at  TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_records_type_created
			ON records (record_type, created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("creating records table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]types.Record, int, error) {
	where, args := buildWhere(f)

	var total int
	countQuery := "SELECT COUNT(*) FROM records" + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting records: %w", err)
	}

	query := "SELECT id, record_type, fields_data, created_at, updated_at FROM records" +
		where + " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	} else if f.Offset > 0 {
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []types.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (types.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, record_type, fields_data, created_at, updated_at FROM records WHERE id = ?", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Record{}, ErrNotFound
	}
	return r, err
}

func (s *SQLiteStore) Create(ctx context.Context, recordType string, fieldsData types.RecordValue) (types.Record, error) {
	raw, err := marshalFields(fieldsData)
	if err != nil {
		return types.Record{}, err
	}
	now := time.Now().UTC()
	r := types.Record{
		ID:         uuid.New().String(),
		RecordType: recordType,
		FieldsData: fieldsData,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO records (id, record_type, fields_data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		r.ID, r.RecordType, raw, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return types.Record{}, fmt.Errorf("inserting record: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, fieldsData types.RecordValue) (types.Record, error) {
	raw, err := marshalFields(fieldsData)
	if err != nil {
		return types.Record{}, err
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"UPDATE records SET fields_data = ?, updated_at = ? WHERE id = ?", raw, now, id)
	if err != nil {
		return types.Record{}, fmt.Errorf("updating record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.Record{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func buildWhere(f Filter) (string, []any) {
	var clauses []string
	var args []any
	if f.RecordType != "" {
		clauses = append(clauses, "record_type = ?")
		args = append(args, f.RecordType)
	}
	for key, want := range f.FieldEquals {
		clauses = append(clauses, "json_extract(fields_data, ?) = ?")
		args = append(args, "$."+key, want)
	}
	if f.Search != "" {
		// Match top-level string values only, same as the in-memory
		// store. json_each keeps keys and nested documents out of the
		// match; escaping keeps user input literal under LIKE.
		clauses = append(clauses,
			`EXISTS (SELECT 1 FROM json_each(records.fields_data)`+
				` WHERE json_each.type = 'text' AND json_each.value LIKE ? ESCAPE '\')`)
		args = append(args, "%"+escapeLike(f.Search)+"%")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike makes a search term literal inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (types.Record, error) {
	var r types.Record
	var raw string
	if err := row.Scan(&r.ID, &r.RecordType, &raw, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return types.Record{}, err
	}
	if err := json.Unmarshal([]byte(raw), &r.FieldsData); err != nil {
		// A corrupt document surfaces as an empty record value rather
		// than failing the whole listing.
		r.FieldsData = types.RecordValue{}
	}
	return r, nil
}

func marshalFields(fieldsData types.RecordValue) (string, error) {
	if fieldsData == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(fieldsData)
	if err != nil {
		return "", fmt.Errorf("encoding fields_data: %w", err)
	}
	return string(raw), nil
}
