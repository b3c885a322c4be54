package sql

import (
	"context"
	"strings"

	core "ordering/data/db"
)

// conditions WHERE 子句，多次添加以 AND 连接
type conditions struct {
	exprs []string
	args  []any
}

func (c *conditions) add(cond string, args []any) {
	if cond == "" {
		return
	}
	c.exprs = append(c.exprs, cond)
	c.args = append(c.args, args...)
}

func (c *conditions) write(sb *strings.Builder) {
	if len(c.exprs) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(c.exprs, " AND "))
	}
}

// argsWithRoom 复制参数，Build 多次调用互不影响
func (c *conditions) argsWithRoom(extra int) []any {
	return append(make([]any, 0, len(c.args)+extra), c.args...)
}

type selectBuilder struct {
	db    core.IDatabase
	cols  []string
	table string
	conditions
	orderBy       string
	limit, offset int
}

func (b *selectBuilder) From(table string) ISelectBuilder {
	b.table = table
	return b
}

func (b *selectBuilder) Where(cond string, args ...any) ISelectBuilder {
	b.add(cond, args)
	return b
}

func (b *selectBuilder) OrderBy(expr string) ISelectBuilder {
	b.orderBy = expr
	return b
}

func (b *selectBuilder) Limit(n int) ISelectBuilder {
	b.limit = n
	return b
}

func (b *selectBuilder) Offset(n int) ISelectBuilder {
	b.offset = n
	return b
}

func (b *selectBuilder) Build() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT " + strings.Join(b.cols, ", ") + " FROM " + b.table)
	b.write(&sb)
	if b.orderBy != "" {
		sb.WriteString(" ORDER BY " + b.orderBy)
	}

	args := b.argsWithRoom(2)
	if b.limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, b.limit)
	}
	if b.offset > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, b.offset)
	}
	return sb.String(), args
}

func (b *selectBuilder) Query(ctx context.Context) (core.IRows, error) {
	q, args := b.Build()
	return b.db.Query(ctx, q, args...)
}

func (b *selectBuilder) QueryRow(ctx context.Context) core.IRow {
	q, args := b.Build()
	return b.db.QueryRow(ctx, q, args...)
}
