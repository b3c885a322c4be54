package order

import (
	"ordering/eventing"
)

// DecodeOrderCreatedEvent 由传输还原的事件重建 OrderCreatedEvent，订单取自 payload
func DecodeOrderCreatedEvent(evt *eventing.DomainEvent) (eventing.IEvent, error) {
	r := FromMap(evt.Payload())
	if r.IsFailure() {
		return nil, r.Err()
	}
	return &OrderCreatedEvent{DomainEvent: evt.WithEventData(r.Value())}, nil
}
