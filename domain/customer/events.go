package customer

import (
	"ordering/eventing"
)

// CustomerCreatedEventType 客户创建事件类型
const CustomerCreatedEventType = "CustomerCreatedEvent"

// CustomerCreatedEvent 客户创建事件
type CustomerCreatedEvent struct {
	*eventing.DomainEvent
}

func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{DomainEvent: eventing.NewDomainEvent(CustomerCreatedEventType, c)}
}

// Customer 产生事件的客户；未经 DecodeCustomerCreatedEvent 还原的事件为 nil
func (e *CustomerCreatedEvent) Customer() *Customer {
	c, _ := e.GetEventData().(*Customer)
	return c
}
