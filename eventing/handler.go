package eventing

import (
	"context"
	"fmt"
	"reflect"
)

// IEventHandler 进程内事件处理器
type IEventHandler interface {
	Handle(ctx context.Context, evt IEvent) error
}

// INamedHandler 自定义去重键的处理器
type INamedHandler interface {
	IEventHandler
	HandlerName() string
}

// EventHandlerFunc 函数形式的处理器
type EventHandlerFunc func(ctx context.Context, evt IEvent) error

func (f EventHandlerFunc) Handle(ctx context.Context, evt IEvent) error {
	return f(ctx, evt)
}

type namedHandler struct {
	name string
	fn   EventHandlerFunc
}

func (h namedHandler) Handle(ctx context.Context, evt IEvent) error { return h.fn(ctx, evt) }
func (h namedHandler) HandlerName() string                          { return h.name }

// NewNamedHandler 以 name 作为去重键包装函数处理器
func NewNamedHandler(name string, fn EventHandlerFunc) INamedHandler {
	return namedHandler{name: name, fn: fn}
}

// handlerKey 计算订阅去重键：同类型处理器视为同一订阅。
// 函数处理器按函数地址区分。
func handlerKey(h IEventHandler) string {
	if named, ok := h.(INamedHandler); ok {
		return "name:" + named.HandlerName()
	}
	t := reflect.TypeOf(h)
	if t.Kind() == reflect.Func {
		return fmt.Sprintf("func:%s@%x", t.String(), reflect.ValueOf(h).Pointer())
	}
	return "type:" + t.String()
}

// HandlerName 处理器的可读名称，用于日志
func HandlerName(h IEventHandler) string {
	if named, ok := h.(INamedHandler); ok {
		return named.HandlerName()
	}
	return reflect.TypeOf(h).String()
}
