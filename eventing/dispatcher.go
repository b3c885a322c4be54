package eventing

import (
	"context"
	"sync"

	"ordering/logging"
	"ordering/result"
)

// 默认主题
const (
	TopicOrderEvents    = "order-events"
	TopicCustomerEvents = "customer-events"
)

// EventPublisher 外部主题发布端口
type EventPublisher interface {
	Publish(ctx context.Context, evt IEvent, topic string) result.Result[result.Void]
}

// EventSource 持有待分发事件的聚合
type EventSource interface {
	GetEvents() []IEvent
	ClearEvents()
}

// DefaultTopics 默认的事件类型到主题映射
func DefaultTopics() map[string]string {
	return map[string]string{
		"OrderCreatedEvent":    TopicOrderEvents,
		"CustomerCreatedEvent": TopicCustomerEvents,
	}
}

// EventDispatcher 将事件按类型映射到主题并逐个发布，遇到第一个失败即停止
type EventDispatcher struct {
	publisher EventPublisher
	topics    map[string]string
	logger    logging.Logger
	mutex     sync.RWMutex
}

// DispatcherOption 分发器选项
type DispatcherOption func(*EventDispatcher)

// WithTopics 追加/覆盖主题映射
func WithTopics(topics map[string]string) DispatcherOption {
	return func(d *EventDispatcher) {
		for eventType, topic := range topics {
			d.topics[eventType] = topic
		}
	}
}

// WithDispatcherLogger 设置日志
func WithDispatcherLogger(logger logging.Logger) DispatcherOption {
	return func(d *EventDispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewEventDispatcher 创建分发器，初始映射为 DefaultTopics
func NewEventDispatcher(publisher EventPublisher, opts ...DispatcherOption) *EventDispatcher {
	d := &EventDispatcher{
		publisher: publisher,
		topics:    DefaultTopics(),
		logger:    logging.ComponentLogger(logging.GetLogger(), "eventing.dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddTopicMapping 登记事件类型对应的主题
func (d *EventDispatcher) AddTopicMapping(eventType, topic string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.topics[eventType] = topic
}

// TopicFor 查询事件类型对应的主题
func (d *EventDispatcher) TopicFor(eventType string) (string, bool) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	topic, ok := d.topics[eventType]
	return topic, ok
}

// DispatchFromEntity 分发聚合的全部待发布事件，全部成功后清空聚合事件
func (d *EventDispatcher) DispatchFromEntity(ctx context.Context, source EventSource) result.Result[result.Void] {
	r := d.DispatchEvents(ctx, source.GetEvents())
	if r.IsFailure() {
		return r
	}
	source.ClearEvents()
	return r
}

// DispatchEvents 按顺序发布事件
func (d *EventDispatcher) DispatchEvents(ctx context.Context, events []IEvent) result.Result[result.Void] {
	for _, evt := range events {
		topic, ok := d.TopicFor(evt.EventType())
		if !ok {
			return result.Fail[result.Void](NewTopicNotFoundError(evt.EventType()))
		}

		r := d.publisher.Publish(ctx, evt, topic)
		if r.IsFailure() {
			d.logger.Warn(ctx, "事件分发失败",
				logging.String("event_type", evt.EventType()),
				logging.String("topic", topic),
				logging.Error(r.Err()))
			return r
		}
		d.logger.Debug(ctx, "事件已分发",
			logging.String("event_type", evt.EventType()),
			logging.String("event_id", evt.GetEventID().String()),
			logging.String("topic", topic))
	}
	return result.OkVoid()
}
