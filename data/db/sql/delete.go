package sql

import (
	"context"
	"database/sql"
	"strings"

	core "ordering/data/db"
)

type deleteBuilder struct {
	db    core.IDatabase
	table string
	conditions
}

func (b *deleteBuilder) Where(cond string, args ...any) IDeleteBuilder {
	b.add(cond, args)
	return b
}

func (b *deleteBuilder) Build() (string, []any) {
	var sb strings.Builder
	sb.WriteString("DELETE FROM " + b.table)
	b.write(&sb)
	return sb.String(), b.argsWithRoom(0)
}

func (b *deleteBuilder) Exec(ctx context.Context) (sql.Result, error) {
	q, args := b.Build()
	return b.db.Exec(ctx, q, args...)
}
