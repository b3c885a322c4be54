// Package sync 提供同步的进程内消息传输
package sync

import (
	"context"
	"sync"

	"ordering/errors"
	"ordering/messaging"
)

// ErrNotRunning 传输层未启动
var ErrNotRunning = errors.NewError(errors.ErrCodeQueue, "sync transport is not running")

// SyncTransport 在调用方 goroutine 中依次执行订阅该主题的处理器
type SyncTransport struct {
	handlers map[string][]messaging.IMessageHandler
	mutex    sync.RWMutex
	running  bool
}

// NewSyncTransport 创建同步传输
func NewSyncTransport() *SyncTransport {
	return &SyncTransport{
		handlers: make(map[string][]messaging.IMessageHandler),
	}
}

// Publish 同步投递消息。
// 无订阅者不是错误；所有处理器都会执行，错误合并返回。
func (t *SyncTransport) Publish(ctx context.Context, message messaging.IMessage) error {
	t.mutex.RLock()
	if !t.running {
		t.mutex.RUnlock()
		return ErrNotRunning
	}
	handlers := messaging.Matching(t.handlers, message.GetType())
	t.mutex.RUnlock()

	return messaging.Dispatch(ctx, handlers, message)
}

// PublishAll 依次发布，遇到第一个错误停止
func (t *SyncTransport) PublishAll(ctx context.Context, messages []messaging.IMessage) error {
	for _, message := range messages {
		if err := t.Publish(ctx, message); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe 订阅主题
func (t *SyncTransport) Subscribe(messageType string, handler messaging.IMessageHandler) error {
	if handler == nil {
		return errors.NewError(errors.ErrCodeInvalidInput, "handler is nil")
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.handlers[messageType] = append(t.handlers[messageType], handler)
	return nil
}

// Unsubscribe 按指针相等移除处理器
func (t *SyncTransport) Unsubscribe(messageType string, handler messaging.IMessageHandler) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	handlers := t.handlers[messageType]
	for i, h := range handlers {
		if h == handler {
			t.handlers[messageType] = append(handlers[:i:i], handlers[i+1:]...)
			if len(t.handlers[messageType]) == 0 {
				delete(t.handlers, messageType)
			}
			return nil
		}
	}
	return errors.Errorf(errors.ErrCodeNotFound, "handler not found for message type %s", messageType)
}

// Start 启动；重复启动无副作用
func (t *SyncTransport) Start(ctx context.Context) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.running = true
	return nil
}

// Close 停止；重复关闭无副作用
func (t *SyncTransport) Close() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.running = false
	return nil
}

// Stats 统计信息
func (t *SyncTransport) Stats() messaging.TransportStats {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return messaging.NewTransportStats(t.running, t.handlers)
}
