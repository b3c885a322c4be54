// Package entity 定义实体与聚合根的基础实现
//
// 实体以 UUID 标识，相等性只看 ID；删除为软删除，且一旦删除不可恢复。
// 聚合根在实体基础上维护按顺序追加的待发布领域事件。
package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"ordering/eventing"
)

// 序列化字段名
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
	FieldDeletedAt = "deleted_at"
)

// IEntity 实体接口
type IEntity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
	GetDeletedAt() *time.Time
	IsDeleted() bool
	ToMap() map[string]any
}

// Entity 实体基础字段，供具体类型嵌入
type Entity struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewEntity 创建新实体：生成 ID，创建与更新时间取当前时间
func NewEntity() Entity {
	now := time.Now().UTC()
	return Entity{id: uuid.New(), createdAt: now, updatedAt: now}
}

// RestoreEntity 从持久化数据重建实体。
// id 为零值时生成新 ID，时间为零值时取当前时间。
func RestoreEntity(id uuid.UUID, createdAt, updatedAt time.Time, deletedAt *time.Time) Entity {
	now := time.Now().UTC()
	if id == uuid.Nil {
		id = uuid.New()
	}
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = now
	}
	e := Entity{id: id, createdAt: createdAt.UTC(), updatedAt: updatedAt.UTC()}
	if deletedAt != nil {
		t := deletedAt.UTC()
		e.deletedAt = &t
	}
	return e
}

func (e *Entity) GetID() uuid.UUID        { return e.id }
func (e *Entity) GetCreatedAt() time.Time { return e.createdAt }
func (e *Entity) GetUpdatedAt() time.Time { return e.updatedAt }

// GetDeletedAt 返回删除时间副本，未删除时为 nil
func (e *Entity) GetDeletedAt() *time.Time {
	if e.deletedAt == nil {
		return nil
	}
	t := *e.deletedAt
	return &t
}

func (e *Entity) IsDeleted() bool { return e.deletedAt != nil }

// Key 用作 map 键
func (e *Entity) Key() uuid.UUID { return e.id }

// Equal 按 ID 比较
func (e *Entity) Equal(other interface{ GetID() uuid.UUID }) bool {
	if other == nil {
		return false
	}
	return e.id == other.GetID()
}

// Touch 刷新更新时间，保证单调递增
func (e *Entity) Touch() {
	now := time.Now().UTC()
	if !now.After(e.updatedAt) {
		now = e.updatedAt.Add(time.Microsecond)
	}
	e.updatedAt = now
}

// Delete 软删除。已删除的实体保持首次删除时间不变。
func (e *Entity) Delete() {
	if e.deletedAt != nil {
		return
	}
	now := time.Now().UTC()
	e.deletedAt = &now
	e.Touch()
}

// EntityMap 基础字段的序列化形式，具体类型在此基础上追加字段
func (e *Entity) EntityMap() map[string]any {
	data := map[string]any{
		FieldID:        e.id.String(),
		FieldCreatedAt: FormatTime(e.createdAt),
		FieldUpdatedAt: FormatTime(e.updatedAt),
		FieldDeletedAt: nil,
	}
	if e.deletedAt != nil {
		data[FieldDeletedAt] = FormatTime(*e.deletedAt)
	}
	return data
}

func (e *Entity) ToMap() map[string]any { return e.EntityMap() }

// ParseEntity 从序列化形式解析基础字段
func ParseEntity(data map[string]any) (Entity, error) {
	id, err := ParseUUID(data[FieldID], FieldID)
	if err != nil {
		return Entity{}, err
	}
	createdAt, err := ParseTime(data[FieldCreatedAt], FieldCreatedAt)
	if err != nil {
		return Entity{}, err
	}
	updatedAt, err := ParseTime(data[FieldUpdatedAt], FieldUpdatedAt)
	if err != nil {
		return Entity{}, err
	}
	var deletedAt *time.Time
	if raw, ok := data[FieldDeletedAt]; ok && raw != nil {
		t, err := ParseTime(raw, FieldDeletedAt)
		if err != nil {
			return Entity{}, err
		}
		deletedAt = &t
	}
	return RestoreEntity(id, createdAt, updatedAt, deletedAt), nil
}

// TimeLayout 与事件时间戳共用同一格式
const TimeLayout = eventing.TimeLayout

// FormatTime 时间戳序列化格式
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime 解析时间戳，nil 或空串返回零值
func ParseTime(raw any, field string) (time.Time, error) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v.UTC(), nil
	case string:
		if v == "" {
			return time.Time{}, nil
		}
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, newFieldError(ErrCodeInvalidTimestamp, field, raw, err)
		}
		return t.UTC(), nil
	default:
		return time.Time{}, newFieldError(ErrCodeInvalidTimestamp, field, raw, nil)
	}
}

// ParseUUID 解析 UUID，nil 或空串返回 uuid.Nil
func ParseUUID(raw any, field string) (uuid.UUID, error) {
	switch v := raw.(type) {
	case nil:
		return uuid.Nil, nil
	case uuid.UUID:
		return v, nil
	case string:
		if v == "" {
			return uuid.Nil, nil
		}
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, newFieldError(ErrCodeInvalidID, field, raw, err)
		}
		return id, nil
	default:
		return uuid.Nil, newFieldError(ErrCodeInvalidID, field, raw, nil)
	}
}

// 实体错误码
const (
	ErrCodeInvalidID        = "INVALID_ID"
	ErrCodeInvalidTimestamp = "INVALID_TIMESTAMP"
	ErrCodeInvalidField     = "INVALID_FIELD"
)

// EntityError 实体反序列化错误
type EntityError struct {
	Code  string
	Field string
	Value any
	Cause error
}

func newFieldError(code, field string, value any, cause error) *EntityError {
	return &EntityError{Code: code, Field: field, Value: value, Cause: cause}
}

// NewFieldError 创建字段错误，供具体实体解析自身字段时使用
func NewFieldError(field string, value any, cause error) *EntityError {
	return newFieldError(ErrCodeInvalidField, field, value, cause)
}

func (e *EntityError) Error() string {
	msg := fmt.Sprintf("%s: invalid value for %s: %v", e.Code, e.Field, e.Value)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *EntityError) Unwrap() error { return e.Cause }
