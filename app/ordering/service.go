// Package ordering 订单与客户的应用服务（用例层）
//
// 每个用例返回 result.Result：领域校验失败为 validation.ValidationError，
// 找不到聚合为 NOT_FOUND，基础设施失败为仓储返回的错误。
package ordering

import (
	"context"

	"github.com/google/uuid"

	"ordering/domain/customer"
	"ordering/domain/entity"
	"ordering/domain/order"
	"ordering/domain/repository"
	"ordering/eventing"
	"ordering/logging"
	"ordering/result"
	"ordering/validation"
)

// FieldID 路径/输入中的聚合 ID 字段名
const FieldID = "id"

// Dependencies 服务依赖
type Dependencies struct {
	Orders    repository.IRepository[*order.Order]
	Customers repository.IRepository[*customer.Customer]

	// Publisher 进程内发布器，nil 时新建一个空发布器
	Publisher *eventing.DomainEventPublisher
	// Dispatcher 主题分发器，nil 时不向外部主题分发
	Dispatcher *eventing.EventDispatcher
	Logger     logging.Logger
}

// Service 订单应用服务
type Service struct {
	orders     repository.IRepository[*order.Order]
	customers  repository.IRepository[*customer.Customer]
	publisher  *eventing.DomainEventPublisher
	dispatcher *eventing.EventDispatcher
	logger     logging.Logger
}

// NewService 创建应用服务
func NewService(deps Dependencies) *Service {
	logger := logging.ComponentLogger(deps.Logger, "app.ordering")
	publisher := deps.Publisher
	if publisher == nil {
		publisher = eventing.NewDomainEventPublisher(logger)
	}
	return &Service{
		orders:     deps.Orders,
		customers:  deps.Customers,
		publisher:  publisher,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Publisher 进程内发布器，用于登记处理器
func (s *Service) Publisher() *eventing.DomainEventPublisher {
	return s.publisher
}

// persist 保存聚合后发布其待发布事件：先进程内投递，再分发到主题。
// 分发失败只记录日志，聚合已保存，事件保留在聚合上。
func persist[T entity.IAggregate](ctx context.Context, s *Service, repo repository.IRepository[T], agg T) result.Result[result.Void] {
	if r := repo.Save(ctx, agg); r.IsFailure() {
		return r
	}

	events := agg.GetEvents()
	if len(events) == 0 {
		return result.OkVoid()
	}
	s.publisher.Publish(ctx, events)

	if s.dispatcher == nil {
		agg.ClearEvents()
		return result.OkVoid()
	}
	if r := s.dispatcher.DispatchFromEntity(ctx, agg); r.IsFailure() {
		s.logger.Warn(ctx, "事件分发失败，聚合已保存",
			logging.String("aggregate_id", agg.GetID().String()),
			logging.Error(r.Err()))
	}
	return result.OkVoid()
}

// load 按 ID 读取聚合；不存在或（includeDeleted 为 false 时）已软删除均视为 NOT_FOUND
func load[T entity.IAggregate](ctx context.Context, repo repository.IRepository[T], kind string, id uuid.UUID, includeDeleted bool) result.Result[T] {
	r := repo.GetByID(ctx, id)
	if r.IsFailure() {
		return r
	}
	agg := r.Value()
	if repository.IsNil(agg) || (agg.IsDeleted() && !includeDeleted) {
		return result.Fail[T](repository.NewNotFoundError(kind, id))
	}
	return r
}

// parseID 解析输入中的 ID，失败为 UUIDFormat 校验错误
func parseID(raw string) result.Result[uuid.UUID] {
	if err := validation.Required()(raw, FieldID); err != nil {
		return result.Fail[uuid.UUID](*err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return result.Fail[uuid.UUID](validation.UUIDFormatError(FieldID, raw))
	}
	return result.Ok(id)
}
