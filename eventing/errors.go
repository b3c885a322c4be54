package eventing

import (
	"fmt"

	"ordering/errors"
)

// TopicNotFoundError 事件类型没有配置主题
type TopicNotFoundError struct {
	EventType string
}

func (e *TopicNotFoundError) Error() string {
	return fmt.Sprintf("Topic not found for event: %s", e.EventType)
}

// NewTopicNotFoundError 创建主题缺失错误
func NewTopicNotFoundError(eventType string) *TopicNotFoundError {
	return &TopicNotFoundError{EventType: eventType}
}

// PublishError 投递到外部主题失败
type PublishError struct {
	EventType string
	Topic     string
	Cause     error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s to %s failed: %v", e.EventType, e.Topic, e.Cause)
}

func (e *PublishError) Unwrap() error { return e.Cause }

// NewPublishError 包装下层投递错误，保留 QUEUE_ERROR 错误码语义
func NewPublishError(eventType, topic string, cause error) *PublishError {
	if cause == nil {
		cause = errors.ErrQueue
	}
	return &PublishError{EventType: eventType, Topic: topic, Cause: cause}
}
