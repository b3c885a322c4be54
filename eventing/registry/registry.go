// Package registry 事件类型注册表：把传输还原的通用事件转换为具体事件
package registry

import (
	"fmt"
	"sort"
	"sync"

	"ordering/eventing"
)

// Decoder 由通用事件构造具体事件
type Decoder func(evt *eventing.DomainEvent) (eventing.IEvent, error)

// Registry 事件注册表
type Registry struct {
	decoders map[string]Decoder
	mutex    sync.RWMutex
}

// NewRegistry 创建注册表
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// Register 注册事件类型，重复注册报错
func (r *Registry) Register(eventType string, decoder Decoder) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if decoder == nil {
		return fmt.Errorf("event decoder cannot be nil for type %s", eventType)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, exists := r.decoders[eventType]; exists {
		return fmt.Errorf("event type already registered: %s", eventType)
	}
	r.decoders[eventType] = decoder
	return nil
}

// MustRegister 注册事件类型（失败 panic）
func (r *Registry) MustRegister(eventType string, decoder Decoder) {
	if err := r.Register(eventType, decoder); err != nil {
		panic(err)
	}
}

// Unregister 取消注册
func (r *Registry) Unregister(eventType string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.decoders, eventType)
}

// HasEvent 检查事件类型是否已注册
func (r *Registry) HasEvent(eventType string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	_, exists := r.decoders[eventType]
	return exists
}

// GetRegisteredTypes 已注册的事件类型，按名称排序
func (r *Registry) GetRegisteredTypes() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	types := make([]string, 0, len(r.decoders))
	for eventType := range r.decoders {
		types = append(types, eventType)
	}
	sort.Strings(types)
	return types
}

// Decode 解析事件序列化形式。未注册的类型返回通用 DomainEvent。
func (r *Registry) Decode(data map[string]any) (eventing.IEvent, error) {
	if data == nil {
		return nil, fmt.Errorf("event data map cannot be nil")
	}
	evt, err := eventing.EventFromMap(data)
	if err != nil {
		return nil, err
	}

	r.mutex.RLock()
	decoder, exists := r.decoders[evt.EventType()]
	r.mutex.RUnlock()
	if !exists {
		return evt, nil
	}

	decoded, err := decoder(evt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode event %s: %w", evt.EventType(), err)
	}
	return decoded, nil
}
