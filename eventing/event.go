// Package eventing 定义领域事件信封以及两条投递路径：
// 进程内的 DomainEventPublisher（容错、尽力投递）与按主题分发的 EventDispatcher（遇错即停）。
package eventing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventVersion 领域事件的固定版本号
const EventVersion = 1

// TimeLayout 定宽的 RFC3339 纳秒格式（UTC），文本排序与时间顺序一致
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Snapshot 可被事件引用的聚合快照
type Snapshot interface {
	GetID() uuid.UUID
	ToMap() map[string]any
}

// IEvent 领域事件接口
type IEvent interface {
	GetEventID() uuid.UUID
	// EventType 事件类型判别字段，等于具体事件的名称
	EventType() string
	GetAggregateID() uuid.UUID
	GetOccurredOn() time.Time
	GetVersion() int
	// GetEventData 返回产生事件的聚合
	GetEventData() Snapshot
	// Payload 事件创建时刻的聚合快照
	Payload() map[string]any
	ToMap() map[string]any
}

// DomainEvent 不可变的事件信封，供具体事件嵌入
type DomainEvent struct {
	eventID     uuid.UUID
	eventType   string
	aggregateID uuid.UUID
	occurredOn  time.Time
	version     int
	data        Snapshot
	payload     map[string]any
}

// NewDomainEvent 创建事件，payload 在此刻从 data 截取
func NewDomainEvent(eventType string, data Snapshot) *DomainEvent {
	evt := &DomainEvent{
		eventID:    uuid.New(),
		eventType:  eventType,
		occurredOn: time.Now().UTC(),
		version:    EventVersion,
		data:       data,
	}
	if data != nil {
		evt.aggregateID = data.GetID()
		evt.payload = data.ToMap()
	}
	return evt
}

// RestoreDomainEvent 从已持久化/已传输的字段重建事件，不引用聚合
func RestoreDomainEvent(eventID uuid.UUID, eventType string, aggregateID uuid.UUID, occurredOn time.Time, version int, payload map[string]any) *DomainEvent {
	return &DomainEvent{
		eventID:     eventID,
		eventType:   eventType,
		aggregateID: aggregateID,
		occurredOn:  occurredOn,
		version:     version,
		payload:     copyMap(payload),
	}
}

func (e *DomainEvent) GetEventID() uuid.UUID     { return e.eventID }
func (e *DomainEvent) EventType() string         { return e.eventType }
func (e *DomainEvent) GetAggregateID() uuid.UUID { return e.aggregateID }
func (e *DomainEvent) GetOccurredOn() time.Time  { return e.occurredOn }
func (e *DomainEvent) GetVersion() int           { return e.version }
func (e *DomainEvent) GetEventData() Snapshot    { return e.data }

// WithEventData 返回引用 data 的副本，payload 不变
func (e *DomainEvent) WithEventData(data Snapshot) *DomainEvent {
	cp := *e
	cp.data = data
	cp.payload = copyMap(e.payload)
	return &cp
}

// Payload 返回快照副本
func (e *DomainEvent) Payload() map[string]any {
	return copyMap(e.payload)
}

// ToMap 事件序列化形式
func (e *DomainEvent) ToMap() map[string]any {
	return map[string]any{
		"event_id":     e.eventID.String(),
		"event_type":   e.eventType,
		"aggregate_id": e.aggregateID.String(),
		"event_data":   e.Payload(),
		"occurred_on":  e.occurredOn.UTC().Format(TimeLayout),
		"version":      e.version,
	}
}

func (e *DomainEvent) String() string {
	return fmt.Sprintf("%s(%s, aggregate=%s)", e.eventType, e.eventID, e.aggregateID)
}

// EventFromMap 解析 ToMap 的输出，得到不带聚合引用的事件
func EventFromMap(data map[string]any) (*DomainEvent, error) {
	eventType, _ := data["event_type"].(string)
	if eventType == "" {
		return nil, fmt.Errorf("event_type is required")
	}
	eventID, err := parseUUID(data["event_id"])
	if err != nil {
		return nil, fmt.Errorf("event_id: %w", err)
	}
	aggregateID, err := parseUUID(data["aggregate_id"])
	if err != nil {
		return nil, fmt.Errorf("aggregate_id: %w", err)
	}
	occurredRaw, _ := data["occurred_on"].(string)
	occurredOn, err := time.Parse(time.RFC3339Nano, occurredRaw)
	if err != nil {
		return nil, fmt.Errorf("occurred_on: %w", err)
	}
	version := EventVersion
	switch v := data["version"].(type) {
	case int:
		version = v
	case float64:
		version = int(v)
	}
	payload, _ := data["event_data"].(map[string]any)
	return RestoreDomainEvent(eventID, eventType, aggregateID, occurredOn, version, payload), nil
}

func parseUUID(raw any) (uuid.UUID, error) {
	switch v := raw.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		return uuid.Parse(v)
	default:
		return uuid.Nil, fmt.Errorf("invalid uuid: %v", raw)
	}
}

func copyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
