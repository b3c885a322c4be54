package basic

import (
	"context"
	"database/sql"

	core "ordering/data/db"
	"ordering/data/db/dialect"
)

// querier *sql.DB 与 *sql.Tx 的公共部分
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// runner 按方言改写占位符后执行语句
type runner struct {
	q       querier
	dialect dialect.Dialect
}

func (r runner) Query(ctx context.Context, query string, args ...any) (core.IRows, error) {
	rows, err := r.q.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (r runner) QueryRow(ctx context.Context, query string, args ...any) core.IRow {
	return &Row{row: r.q.QueryRowContext(ctx, r.dialect.Rebind(query), args...)}
}

func (r runner) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.q.ExecContext(ctx, r.dialect.Rebind(query), args...)
}

// Rows 包装 sql.Rows
type Rows struct{ rows *sql.Rows }

func (r *Rows) Next() bool                 { return r.rows.Next() }
func (r *Rows) Scan(dest ...any) error     { return r.rows.Scan(dest...) }
func (r *Rows) Close() error               { return r.rows.Close() }
func (r *Rows) Err() error                 { return r.rows.Err() }
func (r *Rows) Columns() ([]string, error) { return r.rows.Columns() }

// Row 包装 sql.Row
type Row struct{ row *sql.Row }

func (r *Row) Scan(dest ...any) error { return r.row.Scan(dest...) }
func (r *Row) Err() error             { return r.row.Err() }
