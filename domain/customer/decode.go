package customer

import (
	"ordering/eventing"
)

// DecodeCustomerCreatedEvent 由传输还原的事件重建 CustomerCreatedEvent
func DecodeCustomerCreatedEvent(evt *eventing.DomainEvent) (eventing.IEvent, error) {
	r := FromMap(evt.Payload())
	if r.IsFailure() {
		return nil, r.Err()
	}
	return &CustomerCreatedEvent{DomainEvent: evt.WithEventData(r.Value())}, nil
}
