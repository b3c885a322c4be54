// Package middleware 提供消息总线中间件
package middleware

import (
	"context"

	"ordering/messaging"
)

// 在 Metadata 与 Context 中传播的字段名
const (
	KeyCorrelationID = "correlation_id"
	KeyCausationID   = "causation_id"
)

type ctxKey string

// WithCorrelationID 将 correlation_id 放入 Context
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey(KeyCorrelationID), id)
}

// CorrelationID 从 Context 读取 correlation_id
func CorrelationID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKey(KeyCorrelationID)).(string)
	return v
}

// CorrelationMiddleware 为消息补齐 correlation_id/causation_id
//
// 已有值不覆盖；correlation_id 优先继承 Context，否则取消息ID；
// causation_id 取聚合ID，缺失时取消息ID。
type CorrelationMiddleware struct{}

func NewCorrelationMiddleware() *CorrelationMiddleware { return &CorrelationMiddleware{} }

func (m *CorrelationMiddleware) Name() string { return "Correlation" }

func (m *CorrelationMiddleware) Handle(ctx context.Context, message messaging.IMessage, next messaging.HandlerFunc) error {
	if message == nil {
		return next(ctx, message)
	}
	md := message.GetMetadata()
	msgID := message.GetID()

	if messaging.MetadataString(message, KeyCorrelationID) == "" {
		if corr := CorrelationID(ctx); corr != "" {
			md[KeyCorrelationID] = corr
		} else {
			md[KeyCorrelationID] = msgID
		}
	}
	if messaging.MetadataString(message, KeyCausationID) == "" {
		if agg := messaging.MetadataString(message, messaging.MetadataAggregateID); agg != "" {
			md[KeyCausationID] = agg
		} else {
			md[KeyCausationID] = msgID
		}
	}
	return next(WithCorrelationID(ctx, messaging.MetadataString(message, KeyCorrelationID)), message)
}
