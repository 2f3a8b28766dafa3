package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"fieldprof/domain/dataset"
	"fieldprof/internal"
)

// Reader reads rows from a SQL source into a dataset table. The source is
// either a table name or a full SELECT statement. Read-side only: nothing
// here persists profiling results.
type Reader struct {
	db  *sqlx.DB
	log *internal.Logger
}

// NewReader creates a SQL row reader over an open connection pool.
func NewReader(db *sqlx.DB) *Reader {
	return &Reader{db: db, log: internal.DefaultLogger}
}

// Connect opens a postgres pool and wraps it in a reader.
func Connect(databaseURL string) (*Reader, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return NewReader(db), nil
}

// Close releases the underlying pool.
func (r *Reader) Close() error {
	return r.db.Close()
}

// ReadRows implements ports.RowReader. SQL NULLs stay nil; byte slices
// become strings so the classifier sees text, not driver internals.
func (r *Reader) ReadRows(ctx context.Context, source string, maxRows int) (*dataset.Table, error) {
	query := buildQuery(source, maxRows)
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fields, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read column names: %w", err)
	}

	var out []dataset.Row
	for rows.Next() {
		record := map[string]interface{}{}
		if err := rows.MapScan(record); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(dataset.Row, len(fields))
		for _, name := range fields {
			row[name] = normalize(record[name])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	r.log.Debug("read %d rows from sql source", len(out))
	return dataset.NewTable(fields, out), nil
}

func buildQuery(source string, maxRows int) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(source), ";")
	if strings.HasPrefix(strings.ToLower(trimmed), "select") {
		if maxRows > 0 {
			return fmt.Sprintf("SELECT * FROM (%s) AS fieldprof_src LIMIT %d", trimmed, maxRows)
		}
		return trimmed
	}
	query := fmt.Sprintf("SELECT * FROM %s", pqQuoteIdentifier(trimmed))
	if maxRows > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, maxRows)
	}
	return query
}

func pqQuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func normalize(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
