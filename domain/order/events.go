package order

import (
	"ordering/eventing"
)

// OrderCreatedEventType 订单创建事件类型
const OrderCreatedEventType = "OrderCreatedEvent"

// OrderCreatedEvent 订单创建事件
type OrderCreatedEvent struct {
	*eventing.DomainEvent
}

// NewOrderCreatedEvent 创建订单创建事件
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{DomainEvent: eventing.NewDomainEvent(OrderCreatedEventType, o)}
}

// Order 产生事件的订单；未经 DecodeOrderCreatedEvent 还原的事件为 nil
func (e *OrderCreatedEvent) Order() *Order {
	o, _ := e.GetEventData().(*Order)
	return o
}
