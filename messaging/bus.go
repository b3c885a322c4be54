package messaging

import (
	"context"
	"strings"
	"sync"

	"ordering/errors"
)

// HandlerFunc 中间件链的执行单元
type HandlerFunc func(ctx context.Context, message IMessage) error

// IMiddleware 发布前执行的中间件
type IMiddleware interface {
	Handle(ctx context.Context, message IMessage, next HandlerFunc) error
	Name() string
}

// IMessageBus 消息总线接口
type IMessageBus interface {
	Subscribe(ctx context.Context, topic string, handler IMessageHandler) error
	Unsubscribe(ctx context.Context, topic string, handler IMessageHandler) error
	Publish(ctx context.Context, message IMessage) error
	PublishAll(ctx context.Context, messages []IMessage) error
	Use(middleware IMiddleware)
	Transport() Transport
}

// MessageBus 在 Transport 之上叠加中间件链。
// 发布链在 Use 时重建，发布路径只取快照。
type MessageBus struct {
	transport   Transport
	middlewares []IMiddleware
	publish     HandlerFunc
	mutex       sync.RWMutex
}

// NewMessageBus 创建消息总线
func NewMessageBus(transport Transport) *MessageBus {
	return &MessageBus{
		transport: transport,
		publish:   transport.Publish,
	}
}

// Use 注册中间件，按注册顺序由外到内执行
func (bus *MessageBus) Use(middleware IMiddleware) {
	if middleware == nil {
		return
	}
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	bus.middlewares = append(bus.middlewares, middleware)
	bus.publish = chain(bus.middlewares, bus.transport.Publish)
}

// Transport 底层传输
func (bus *MessageBus) Transport() Transport {
	return bus.transport
}

// Subscribe 订阅主题
func (bus *MessageBus) Subscribe(ctx context.Context, topic string, handler IMessageHandler) error {
	if err := checkTopic(topic); err != nil {
		return err
	}
	return bus.transport.Subscribe(topic, handler)
}

// Unsubscribe 取消订阅
func (bus *MessageBus) Unsubscribe(ctx context.Context, topic string, handler IMessageHandler) error {
	return bus.transport.Unsubscribe(topic, handler)
}

// Publish 经中间件链后交给 Transport
func (bus *MessageBus) Publish(ctx context.Context, message IMessage) error {
	if err := checkTopic(message.GetType()); err != nil {
		return err
	}
	bus.mutex.RLock()
	publish := bus.publish
	bus.mutex.RUnlock()
	return publish(ctx, message)
}

// PublishAll 每条消息先经过中间件，全部通过后整批交给 Transport。
// 任一消息被中间件拒绝时整批不发布。
func (bus *MessageBus) PublishAll(ctx context.Context, messages []IMessage) error {
	if len(messages) == 0 {
		return nil
	}

	batch := make([]IMessage, 0, len(messages))
	bus.mutex.RLock()
	collect := chain(bus.middlewares, func(_ context.Context, msg IMessage) error {
		batch = append(batch, msg)
		return nil
	})
	bus.mutex.RUnlock()

	for _, message := range messages {
		if err := checkTopic(message.GetType()); err != nil {
			return err
		}
		if err := collect(ctx, message); err != nil {
			return errors.WrapError(err, errors.ErrCodeQueue, "middleware rejected message "+message.GetID())
		}
	}
	if len(batch) == 0 {
		return nil
	}
	if err := bus.transport.PublishAll(ctx, batch); err != nil {
		return errors.WrapError(err, errors.ErrCodeQueue, "publish batch").
			WithContext("size", len(batch))
	}
	return nil
}

// chain 把中间件包在 last 外层
func chain(middlewares []IMiddleware, last HandlerFunc) HandlerFunc {
	next := last
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw, inner := middlewares[i], next
		next = func(ctx context.Context, msg IMessage) error {
			return mw.Handle(ctx, msg, inner)
		}
	}
	return next
}

func checkTopic(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return errors.NewError(errors.ErrCodeInvalidInput, "message topic is empty")
	}
	return nil
}
