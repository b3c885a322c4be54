// Package sqlstore 基于 SQL 数据库的聚合根仓储。
//
// 行与聚合之间通过聚合自身的 ToMap/FromMap 转换，
// 时间戳以定宽 RFC3339 文本保存，按文本排序即按时间排序。
package sqlstore

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	core "ordering/data/db"
	sqlb "ordering/data/db/sql"
	"ordering/domain/entity"
	"ordering/domain/repository"
	"ordering/logging"
	"ordering/result"
)

// Mapping 描述聚合与表的对应关系
type Mapping[T entity.IAggregate] struct {
	Table string
	// Columns 与 ToMap 的键一一对应，必须包含 id
	Columns []string
	FromMap func(map[string]any) result.Result[T]
}

// Repository 通用 SQL 仓储
type Repository[T entity.IAggregate] struct {
	db      core.IDatabase
	sql     sqlb.ISql
	mapping Mapping[T]
	logger  logging.Logger
}

// NewRepository 创建仓储，表名与列名必须是安全标识符
func NewRepository[T entity.IAggregate](db core.IDatabase, mapping Mapping[T], logger logging.Logger) (*Repository[T], error) {
	if err := sqlb.CheckIdentifiers(append([]string{mapping.Table}, mapping.Columns...)...); err != nil {
		return nil, err
	}
	hasID := false
	for _, col := range mapping.Columns {
		if col == entity.FieldID {
			hasID = true
		}
	}
	if !hasID {
		return nil, fmt.Errorf("sqlstore: mapping for %s must include the id column", mapping.Table)
	}
	if mapping.FromMap == nil {
		return nil, fmt.Errorf("sqlstore: mapping for %s has no FromMap", mapping.Table)
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Repository[T]{
		db:      db,
		sql:     sqlb.New(db),
		mapping: mapping,
		logger:  logger.WithFields(logging.String("component", "sqlstore"), logging.String("table", mapping.Table)),
	}, nil
}

// Save 按 id upsert
func (r *Repository[T]) Save(ctx context.Context, agg T) result.Result[result.Void] {
	return repository.Guard("save", func() result.Result[result.Void] {
		if repository.IsNil(agg) {
			return result.Fail[result.Void](repository.ErrInvalidEntity)
		}

		data := agg.ToMap()
		values := make([]any, len(r.mapping.Columns))
		for i, col := range r.mapping.Columns {
			values[i] = data[col]
		}

		_, err := r.sql.UpsertInto(r.mapping.Table).
			Columns(r.mapping.Columns...).
			Values(values...).
			Key(entity.FieldID).
			Exec(ctx)
		if err != nil {
			r.logger.Warn(ctx, "保存聚合失败", logging.String("id", agg.GetID().String()), logging.Error(err))
			return result.Fail[result.Void](repository.NewRepositoryError("save "+r.mapping.Table, agg.GetID(), err))
		}
		return result.OkVoid()
	})
}

// GetByID 不存在时返回零值的成功结果
func (r *Repository[T]) GetByID(ctx context.Context, id uuid.UUID) result.Result[T] {
	return repository.Guard("get", func() result.Result[T] {
		row := r.sql.Select(r.mapping.Columns...).
			From(r.mapping.Table).
			Where(entity.FieldID+" = ?", id.String()).
			QueryRow(ctx)

		data, err := r.scan(row.Scan)
		if errors.Is(err, stdsql.ErrNoRows) {
			var zero T
			return result.Ok(zero)
		}
		if err != nil {
			return result.Fail[T](repository.NewRepositoryError("get "+r.mapping.Table, id, err))
		}
		return r.mapping.FromMap(data)
	})
}

// GetAll 按创建时间排序返回全部聚合
func (r *Repository[T]) GetAll(ctx context.Context) result.Result[[]T] {
	return repository.Guard("list", func() result.Result[[]T] {
		rows, err := r.sql.Select(r.mapping.Columns...).
			From(r.mapping.Table).
			OrderBy(entity.FieldCreatedAt).
			Query(ctx)
		if err != nil {
			return result.Fail[[]T](repository.NewRepositoryError("list "+r.mapping.Table, uuid.Nil, err))
		}
		defer rows.Close()

		var out []T
		for rows.Next() {
			data, err := r.scan(rows.Scan)
			if err != nil {
				return result.Fail[[]T](repository.NewRepositoryError("list "+r.mapping.Table, uuid.Nil, err))
			}
			loaded := r.mapping.FromMap(data)
			if loaded.IsFailure() {
				return result.Propagate[[]T](loaded)
			}
			out = append(out, loaded.Value())
		}
		if err := rows.Err(); err != nil {
			return result.Fail[[]T](repository.NewRepositoryError("list "+r.mapping.Table, uuid.Nil, err))
		}
		return result.Ok(out)
	})
}

// Count 统计行数
func (r *Repository[T]) Count(ctx context.Context) result.Result[int] {
	var n int
	err := r.sql.Select("COUNT(*)").From(r.mapping.Table).QueryRow(ctx).Scan(&n)
	if err != nil {
		return result.Fail[int](repository.NewRepositoryError("count "+r.mapping.Table, uuid.Nil, err))
	}
	return result.Ok(n)
}

// Clear 删除全部行
func (r *Repository[T]) Clear(ctx context.Context) error {
	_, err := r.sql.DeleteFrom(r.mapping.Table).Exec(ctx)
	return err
}

func (r *Repository[T]) scan(scan func(dest ...any) error) (map[string]any, error) {
	raw := make([]any, len(r.mapping.Columns))
	dest := make([]any, len(raw))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := scan(dest...); err != nil {
		return nil, err
	}

	data := make(map[string]any, len(raw))
	for i, col := range r.mapping.Columns {
		if b, ok := raw[i].([]byte); ok {
			data[col] = string(b)
			continue
		}
		data[col] = raw[i]
	}
	return data, nil
}
