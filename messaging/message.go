// Package messaging 提供消息、处理器、传输层与消息总线抽象
package messaging

import (
	"time"
)

// 常用元数据键
const (
	MetadataEventType   = "event_type"
	MetadataEventID     = "event_id"
	MetadataAggregateID = "aggregate_id"
)

// IMessage 消息接口
type IMessage interface {
	GetID() string
	// GetType 消息类型，传输层据此路由（主题名）
	GetType() string
	GetTimestamp() time.Time
	GetPayload() any
	GetMetadata() map[string]any
}

// Message 消息基础实现
type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   any            `json:"payload"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewMessage 创建消息
func NewMessage(id, messageType string, payload any) *Message {
	return &Message{
		ID:        id,
		Type:      messageType,
		Timestamp: time.Now(),
		Payload:   payload,
		Metadata:  make(map[string]any),
	}
}

func (m *Message) GetID() string           { return m.ID }
func (m *Message) GetType() string         { return m.Type }
func (m *Message) GetTimestamp() time.Time { return m.Timestamp }
func (m *Message) GetPayload() any         { return m.Payload }

// GetMetadata 返回元数据，必要时初始化
func (m *Message) GetMetadata() map[string]any {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	return m.Metadata
}

// SetMetadata 设置元数据
func (m *Message) SetMetadata(key string, value any) {
	m.GetMetadata()[key] = value
}

// MetadataString 读取字符串元数据
func MetadataString(msg IMessage, key string) string {
	v, _ := msg.GetMetadata()[key].(string)
	return v
}
