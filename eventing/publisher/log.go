// Package publisher 提供 eventing.EventPublisher 的实现：日志输出与消息传输
package publisher

import (
	"context"

	"ordering/eventing"
	"ordering/logging"
	"ordering/result"
)

// LogEventPublisher 仅把事件写入日志，总是成功
type LogEventPublisher struct {
	logger logging.Logger
}

// NewLogEventPublisher 创建日志发布端口
func NewLogEventPublisher(logger logging.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logging.ComponentLogger(logger, "eventing.log_publisher")}
}

func (p *LogEventPublisher) Publish(ctx context.Context, evt eventing.IEvent, topic string) result.Result[result.Void] {
	p.logger.Info(ctx, "发布事件",
		logging.String("topic", topic),
		logging.String("event_type", evt.EventType()),
		logging.String("event_id", evt.GetEventID().String()),
		logging.String("aggregate_id", evt.GetAggregateID().String()),
		logging.Any("event_data", evt.Payload()))
	return result.OkVoid()
}
