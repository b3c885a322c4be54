package publisher

import (
	"context"
	"fmt"

	"ordering/eventing"
	"ordering/logging"
	"ordering/messaging"
)

// EventDecoder 由事件序列化形式还原事件
type EventDecoder interface {
	Decode(data map[string]any) (eventing.IEvent, error)
}

type decoderFunc func(map[string]any) (eventing.IEvent, error)

func (f decoderFunc) Decode(data map[string]any) (eventing.IEvent, error) { return f(data) }

// GenericDecoder 还原为 *eventing.DomainEvent
var GenericDecoder EventDecoder = decoderFunc(func(data map[string]any) (eventing.IEvent, error) {
	return eventing.EventFromMap(data)
})

// TopicSubscriber 订阅主题，把收到的消息还原为事件后交给进程内发布器
type TopicSubscriber struct {
	transport messaging.Transport
	decoder   EventDecoder
	local     *eventing.DomainEventPublisher
	logger    logging.Logger
	handler   messaging.IMessageHandler
}

// NewTopicSubscriber 创建订阅者，decoder 为 nil 时使用 GenericDecoder
func NewTopicSubscriber(transport messaging.Transport, decoder EventDecoder, local *eventing.DomainEventPublisher, logger logging.Logger) *TopicSubscriber {
	if decoder == nil {
		decoder = GenericDecoder
	}
	s := &TopicSubscriber{
		transport: transport,
		decoder:   decoder,
		local:     local,
		logger:    logging.ComponentLogger(logger, "eventing.topic_subscriber"),
	}
	s.handler = messaging.NewHandler("topic-subscriber", s.handle)
	return s
}

// Subscribe 订阅主题
func (s *TopicSubscriber) Subscribe(topics ...string) error {
	for _, topic := range topics {
		if err := s.transport.Subscribe(topic, s.handler); err != nil {
			return err
		}
	}
	return nil
}

// Unsubscribe 取消订阅主题
func (s *TopicSubscriber) Unsubscribe(topics ...string) error {
	for _, topic := range topics {
		if err := s.transport.Unsubscribe(topic, s.handler); err != nil {
			return err
		}
	}
	return nil
}

func (s *TopicSubscriber) handle(ctx context.Context, msg messaging.IMessage) error {
	data, ok := msg.GetPayload().(map[string]any)
	if !ok {
		return fmt.Errorf("message %s payload is %T, want event map", msg.GetID(), msg.GetPayload())
	}
	evt, err := s.decoder.Decode(data)
	if err != nil {
		s.logger.Warn(ctx, "事件解码失败",
			logging.String("topic", msg.GetType()),
			logging.String("message_id", msg.GetID()),
			logging.Error(err))
		return err
	}
	s.local.Publish(ctx, []eventing.IEvent{evt})
	return nil
}
