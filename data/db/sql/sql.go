// Package sql 提供轻量 SQL 构建器，按方言生成语句并在 IDatabase 上执行
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	core "ordering/data/db"
	"ordering/data/db/dialect"
)

// ISql 统一的 SQL 构建入口
type ISql interface {
	Select(columns ...string) ISelectBuilder
	UpsertInto(table string) IUpsertBuilder
	DeleteFrom(table string) IDeleteBuilder
	Dialect() dialect.Dialect
}

// ISelectBuilder 构建 SELECT
type ISelectBuilder interface {
	From(table string) ISelectBuilder
	Where(cond string, args ...any) ISelectBuilder
	OrderBy(expr string) ISelectBuilder
	Limit(n int) ISelectBuilder
	Offset(n int) ISelectBuilder
	Build() (query string, args []any)
	Query(ctx context.Context) (core.IRows, error)
	QueryRow(ctx context.Context) core.IRow
}

// IUpsertBuilder 构建单行 INSERT ... ON CONFLICT
type IUpsertBuilder interface {
	Columns(cols ...string) IUpsertBuilder
	Values(vals ...any) IUpsertBuilder
	Key(cols ...string) IUpsertBuilder
	Build() (query string, args []any, err error)
	Exec(ctx context.Context) (sql.Result, error)
}

// IDeleteBuilder 构建 DELETE
type IDeleteBuilder interface {
	Where(cond string, args ...any) IDeleteBuilder
	Build() (query string, args []any)
	Exec(ctx context.Context) (sql.Result, error)
}

type sqlImpl struct {
	db      core.IDatabase
	dialect dialect.Dialect
}

// New 创建 ISql，方言从 db 推断
func New(db core.IDatabase) ISql {
	return &sqlImpl{db: db, dialect: dialect.FromDatabase(db)}
}

func (s *sqlImpl) Select(columns ...string) ISelectBuilder {
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	return &selectBuilder{db: s.db, cols: columns}
}

func (s *sqlImpl) UpsertInto(table string) IUpsertBuilder {
	return &upsertBuilder{db: s.db, dialect: s.dialect, table: table}
}

func (s *sqlImpl) DeleteFrom(table string) IDeleteBuilder {
	return &deleteBuilder{db: s.db, table: table}
}

func (s *sqlImpl) Dialect() dialect.Dialect {
	return s.dialect
}

// identifierPattern 单段或以点分隔的限定名，每段以字母或下划线开头
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// CheckIdentifiers 校验表名/列名，防止拼接注入
func CheckIdentifiers(names ...string) error {
	for _, name := range names {
		if !identifierPattern.MatchString(name) {
			return fmt.Errorf("sql: unsafe identifier %q", name)
		}
	}
	return nil
}
