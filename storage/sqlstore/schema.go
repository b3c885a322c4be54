package sqlstore

import (
	"context"

	core "ordering/data/db"
	"ordering/domain/customer"
	"ordering/domain/entity"
	"ordering/domain/order"
	"ordering/logging"
)

// 表名
const (
	TableOrders    = "orders"
	TableCustomers = "customers"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id          TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		total       REAL NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		deleted_at  TEXT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders (customer_id)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		deleted_at TEXT NULL
	)`,
}

// EnsureSchema 在单个事务中创建表
func EnsureSchema(ctx context.Context, db core.IDatabase) error {
	return core.RunInTx(ctx, db, func(tx core.ITransaction) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
}

var baseColumns = []string{entity.FieldID, entity.FieldCreatedAt, entity.FieldUpdatedAt, entity.FieldDeletedAt}

// OrderMapping 订单表映射
func OrderMapping() Mapping[*order.Order] {
	return Mapping[*order.Order]{
		Table:   TableOrders,
		Columns: append(append([]string{}, baseColumns...), order.FieldCustomerID, order.FieldTotal),
		FromMap: order.FromMap,
	}
}

// CustomerMapping 客户表映射
func CustomerMapping() Mapping[*customer.Customer] {
	return Mapping[*customer.Customer]{
		Table:   TableCustomers,
		Columns: append(append([]string{}, baseColumns...), customer.FieldName, customer.FieldEmail),
		FromMap: customer.FromMap,
	}
}

// NewOrderRepository 订单 SQL 仓储
func NewOrderRepository(db core.IDatabase, logger logging.Logger) (*Repository[*order.Order], error) {
	return NewRepository(db, OrderMapping(), logger)
}

// NewCustomerRepository 客户 SQL 仓储
func NewCustomerRepository(db core.IDatabase, logger logging.Logger) (*Repository[*customer.Customer], error) {
	return NewRepository(db, CustomerMapping(), logger)
}
