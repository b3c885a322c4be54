package eventing

import (
	"context"
	"sync"

	"ordering/errors"
	"ordering/logging"
)

type subscription struct {
	key     string
	handler IEventHandler
}

// DomainEventPublisher 进程内事件发布器。
//
// 同一事件类型下同类型的处理器只登记一次；处理器按订阅顺序调用，
// 单个处理器返回错误或 panic 只记录日志，不影响其余处理器，也不向调用方返回错误。
type DomainEventPublisher struct {
	handlers map[string][]subscription
	logger   logging.Logger
	mutex    sync.RWMutex
}

// NewDomainEventPublisher 创建发布器，logger 为 nil 时使用全局日志
func NewDomainEventPublisher(logger logging.Logger) *DomainEventPublisher {
	if logger == nil {
		logger = logging.ComponentLogger(logging.GetLogger(), "eventing.publisher")
	}
	return &DomainEventPublisher{
		handlers: make(map[string][]subscription),
		logger:   logger,
	}
}

// Subscribe 订阅事件类型，重复订阅返回 false
func (p *DomainEventPublisher) Subscribe(eventType string, handler IEventHandler) bool {
	if handler == nil {
		return false
	}
	key := handlerKey(handler)

	p.mutex.Lock()
	defer p.mutex.Unlock()

	for _, sub := range p.handlers[eventType] {
		if sub.key == key {
			return false
		}
	}
	p.handlers[eventType] = append(p.handlers[eventType], subscription{key: key, handler: handler})
	return true
}

// Unsubscribe 取消订阅
func (p *DomainEventPublisher) Unsubscribe(eventType string, handler IEventHandler) bool {
	if handler == nil {
		return false
	}
	key := handlerKey(handler)

	p.mutex.Lock()
	defer p.mutex.Unlock()

	subs := p.handlers[eventType]
	for i, sub := range subs {
		if sub.key == key {
			p.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return true
		}
	}
	return false
}

// HandlerCount 某事件类型的处理器数量
func (p *DomainEventPublisher) HandlerCount(eventType string) int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return len(p.handlers[eventType])
}

// Clear 移除全部订阅
func (p *DomainEventPublisher) Clear() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.handlers = make(map[string][]subscription)
}

// Publish 依次投递事件
func (p *DomainEventPublisher) Publish(ctx context.Context, events []IEvent) {
	for _, evt := range events {
		if evt == nil {
			continue
		}
		p.mutex.RLock()
		subs := append([]subscription(nil), p.handlers[evt.EventType()]...)
		p.mutex.RUnlock()

		for _, sub := range subs {
			p.invoke(ctx, sub.handler, evt)
		}
	}
}

func (p *DomainEventPublisher) invoke(ctx context.Context, handler IEventHandler, evt IEvent) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Recovered(r, errors.ErrCodeInternal, "event handler panicked")
			p.logger.Error(ctx, "事件处理器异常",
				logging.String("handler", HandlerName(handler)),
				logging.String("event_type", evt.EventType()),
				logging.String("event_id", evt.GetEventID().String()),
				logging.Error(err))
		}
	}()

	if err := handler.Handle(ctx, evt); err != nil {
		p.logger.Error(ctx, "事件处理失败",
			logging.String("handler", HandlerName(handler)),
			logging.String("event_type", evt.EventType()),
			logging.String("event_id", evt.GetEventID().String()),
			logging.Error(err))
	}
}
