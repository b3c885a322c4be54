package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	core "ordering/data/db"
	"ordering/data/db/dialect"
)

type upsertBuilder struct {
	db      core.IDatabase
	dialect dialect.Dialect

	table   string
	columns []string
	values  []any
	keys    []string
}

func (b *upsertBuilder) Columns(cols ...string) IUpsertBuilder {
	b.columns = cols
	return b
}

func (b *upsertBuilder) Values(vals ...any) IUpsertBuilder {
	b.values = vals
	return b
}

func (b *upsertBuilder) Key(cols ...string) IUpsertBuilder {
	b.keys = cols
	return b
}

// Build 生成 INSERT 语句及方言对应的冲突更新子句，非键列全部覆盖
func (b *upsertBuilder) Build() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("upsert: Columns is required")
	}
	if len(b.values) != len(b.columns) {
		return "", nil, fmt.Errorf("upsert: values length mismatch columns length")
	}
	if len(b.keys) == 0 {
		return "", nil, fmt.Errorf("upsert: Key is required")
	}

	isKey := make(map[string]bool, len(b.keys))
	for _, k := range b.keys {
		isKey[k] = true
	}
	for _, k := range b.keys {
		found := false
		for _, c := range b.columns {
			if c == k {
				found = true
				break
			}
		}
		if !found {
			return "", nil, fmt.Errorf("upsert: key column %s not found in Columns", k)
		}
	}
	updates := make([]string, 0, len(b.columns))
	for _, c := range b.columns {
		if !isKey[c] {
			updates = append(updates, c)
		}
	}

	clause := b.dialect.UpsertClause(b.keys, updates)
	if clause == "" && len(updates) > 0 {
		return "", nil, fmt.Errorf("upsert: dialect %q does not support upsert", b.dialect.Name())
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(b.columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)%s",
		b.table, strings.Join(b.columns, ", "), placeholders, clause)

	args := make([]any, len(b.values))
	copy(args, b.values)
	return query, args, nil
}

func (b *upsertBuilder) Exec(ctx context.Context) (sql.Result, error) {
	q, args, err := b.Build()
	if err != nil {
		return nil, err
	}
	return b.db.Exec(ctx, q, args...)
}
