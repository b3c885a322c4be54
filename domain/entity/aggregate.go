package entity

import (
	"ordering/eventing"
)

// IAggregate 聚合根接口
type IAggregate interface {
	IEntity
	AddDomainEvent(evt eventing.IEvent)
	GetEvents() []eventing.IEvent
	ClearEvents()
}

// Aggregate 基础聚合根
//
// 示例:
//
//	type Order struct {
//	    entity.Aggregate
//	    total float64
//	}
type Aggregate struct {
	Entity
	events []eventing.IEvent
}

// NewAggregate 创建新聚合根
func NewAggregate() Aggregate {
	return Aggregate{Entity: NewEntity()}
}

// RestoreAggregate 以已有实体字段构造聚合根，事件列表为空
func RestoreAggregate(e Entity) Aggregate {
	return Aggregate{Entity: e}
}

// AddDomainEvent 追加领域事件
func (a *Aggregate) AddDomainEvent(evt eventing.IEvent) {
	if evt == nil {
		return
	}
	a.events = append(a.events, evt)
}

// GetEvents 返回待发布事件，ClearEvents 之后不应再依赖其返回的切片
func (a *Aggregate) GetEvents() []eventing.IEvent {
	return a.events
}

func (a *Aggregate) HasEvents() bool {
	return len(a.events) > 0
}

// ClearEvents 清空待发布事件
func (a *Aggregate) ClearEvents() {
	a.events = nil
}
