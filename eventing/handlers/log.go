// Package handlers 常用的进程内事件处理器
package handlers

import (
	"context"

	"ordering/eventing"
	"ordering/logging"
)

// LogEventHandler 把收到的事件写入日志
type LogEventHandler struct {
	logger logging.Logger
}

// NewLogEventHandler 创建日志处理器
func NewLogEventHandler(logger logging.Logger) *LogEventHandler {
	return &LogEventHandler{logger: logging.ComponentLogger(logger, "eventing.log_handler")}
}

func (h *LogEventHandler) Handle(ctx context.Context, evt eventing.IEvent) error {
	h.logger.Info(ctx, "收到事件",
		logging.String("event_type", evt.EventType()),
		logging.String("event_id", evt.GetEventID().String()),
		logging.String("aggregate_id", evt.GetAggregateID().String()),
		logging.String("occurred_on", evt.GetOccurredOn().Format("2006-01-02T15:04:05.000Z07:00")))
	return nil
}

// HandlerName 同一发布器内只登记一个日志处理器
func (h *LogEventHandler) HandlerName() string { return "log" }
