package publisher

import (
	"context"

	"ordering/eventing"
	"ordering/logging"
	"ordering/messaging"
	"ordering/patterns/retry"
	"ordering/result"
)

// TransportEventPublisher 把领域事件映射为消息，经消息总线发布到主题
type TransportEventPublisher struct {
	bus    messaging.IMessageBus
	retry  retry.Config
	logger logging.Logger
}

// Option 发布端口选项
type Option func(*TransportEventPublisher)

// WithRetry 设置重试策略
func WithRetry(cfg retry.Config) Option {
	return func(p *TransportEventPublisher) { p.retry = cfg }
}

// WithLogger 设置日志
func WithLogger(logger logging.Logger) Option {
	return func(p *TransportEventPublisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewTransportEventPublisher 创建发布端口，默认使用 retry.DefaultConfig
func NewTransportEventPublisher(bus messaging.IMessageBus, opts ...Option) *TransportEventPublisher {
	p := &TransportEventPublisher{
		bus:    bus,
		retry:  retry.DefaultConfig(),
		logger: logging.ComponentLogger(nil, "eventing.transport_publisher"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ToMessage 事件到消息的映射：Type 为主题，Payload 为事件序列化形式
func ToMessage(evt eventing.IEvent, topic string) *messaging.Message {
	msg := messaging.NewMessage(evt.GetEventID().String(), topic, evt.ToMap())
	msg.Timestamp = evt.GetOccurredOn()
	msg.SetMetadata(messaging.MetadataEventType, evt.EventType())
	msg.SetMetadata(messaging.MetadataEventID, evt.GetEventID().String())
	msg.SetMetadata(messaging.MetadataAggregateID, evt.GetAggregateID().String())
	return msg
}

func (p *TransportEventPublisher) Publish(ctx context.Context, evt eventing.IEvent, topic string) result.Result[result.Void] {
	msg := ToMessage(evt, topic)
	err := retry.DoWithInfo(ctx, func(ctx context.Context, attempt int) error {
		err := p.bus.Publish(ctx, msg)
		if err != nil {
			p.logger.Warn(ctx, "事件发布失败",
				logging.String("topic", topic),
				logging.String("event_id", msg.ID),
				logging.Int("attempt", attempt),
				logging.Error(err))
		}
		return err
	}, p.retry)
	if err != nil {
		return result.Fail[result.Void](eventing.NewPublishError(evt.EventType(), topic, err))
	}
	return result.OkVoid()
}
