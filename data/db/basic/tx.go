package basic

import (
	"context"
	"database/sql"
	"errors"

	core "ordering/data/db"
)

// ErrNestedTx 不支持嵌套事务
var ErrNestedTx = errors.New("basic.Tx: nested transactions are not supported")

// Tx 同时满足 core.IDatabase，仓储代码无需区分是否处于事务中
type Tx struct {
	runner
	db *sql.DB
	tx *sql.Tx
}

func (t *Tx) Begin(context.Context) (core.ITransaction, error) { return nil, ErrNestedTx }

func (t *Tx) BeginTx(context.Context, *sql.TxOptions) (core.ITransaction, error) {
	return nil, ErrNestedTx
}

func (t *Tx) Ping(ctx context.Context) error { return t.db.PingContext(ctx) }

// Close 事务的生命周期由 Commit/Rollback 结束
func (t *Tx) Close() error { return nil }
func (t *Tx) Raw() any     { return t.tx }

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }

// GetDialectName 沿用连接的方言
func (t *Tx) GetDialectName() string {
	return string(t.dialect.Name())
}
