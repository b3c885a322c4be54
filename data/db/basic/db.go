// Package basic 基于 database/sql 的 IDatabase 实现
package basic

import (
	"context"
	"database/sql"
	"time"

	core "ordering/data/db"
	"ordering/data/db/dialect"
)

const memoryDSN = ":memory:"

// DB 基于 database/sql 的最小实现
type DB struct {
	runner
	db     *sql.DB
	driver string
}

// New 根据配置打开数据库。
// 调用方需确保驱动已通过空导入注册（例如 `_ "modernc.org/sqlite"`）。
func New(config core.DBConfig) (*DB, error) {
	driver := config.Driver
	if driver == "" {
		driver = "sqlite"
	}
	dsn := config.Database
	dial := dialect.New(driver)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// sqlite 内存库每个连接各自独立，只能使用单连接
	if dial.Name() == dialect.NameSQLite && (dsn == "" || dsn == memoryDSN) {
		db.SetMaxOpenConns(1)
	} else if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(config.ConnMaxLifetime) * time.Second)
	}
	if config.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(time.Duration(config.ConnMaxIdleTime) * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{runner: runner{q: db, dialect: dial}, db: db, driver: driver}, nil
}

func (d *DB) Begin(ctx context.Context) (core.ITransaction, error) {
	return d.BeginTx(ctx, nil)
}

func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (core.ITransaction, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{runner: runner{q: tx, dialect: d.dialect}, db: d.db, tx: tx}, nil
}

func (d *DB) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }
func (d *DB) Close() error                   { return d.db.Close() }
func (d *DB) Raw() any                       { return d.db }

// GetDialectName 实现 core.IDialectNameProvider
func (d *DB) GetDialectName() string {
	return d.driver
}
