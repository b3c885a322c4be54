package messaging

import (
	"context"
	"sort"
)

// Transport 按主题投递消息的传输层。消息的 Type 即主题名。
type Transport interface {
	Publish(ctx context.Context, message IMessage) error
	PublishAll(ctx context.Context, messages []IMessage) error
	Subscribe(topic string, handler IMessageHandler) error
	Unsubscribe(topic string, handler IMessageHandler) error
	Start(ctx context.Context) error
	Close() error
	Stats() TransportStats
}

// TransportStats 传输层快照
type TransportStats struct {
	Running      bool           `json:"running"`
	HandlerCount int            `json:"handler_count"`
	Topics       []string       `json:"topics"`
	PerTopic     map[string]int `json:"per_topic"`
}

// NewTransportStats 由主题→处理器表计算快照，主题按名称排序。调用方需持有读锁。
func NewTransportStats(running bool, handlers map[string][]IMessageHandler) TransportStats {
	stats := TransportStats{
		Running:  running,
		Topics:   make([]string, 0, len(handlers)),
		PerTopic: make(map[string]int, len(handlers)),
	}
	for topic, hs := range handlers {
		stats.Topics = append(stats.Topics, topic)
		stats.PerTopic[topic] = len(hs)
		stats.HandlerCount += len(hs)
	}
	sort.Strings(stats.Topics)
	return stats
}
