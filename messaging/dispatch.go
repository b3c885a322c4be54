package messaging

import (
	"context"
	stderrors "errors"
	"fmt"

	"ordering/errors"
)

// Wildcard 订阅该主题的处理器接收所有消息
const Wildcard = "*"

// Dispatch 依次调用处理器，全部执行后合并错误；panic 转为 QUEUE_ERROR
func Dispatch(ctx context.Context, handlers []IMessageHandler, message IMessage) error {
	var errs []error
	for _, handler := range handlers {
		if err := invoke(ctx, handler, message); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.WrapError(stderrors.Join(errs...), errors.ErrCodeQueue,
		fmt.Sprintf("message %s handled with %d errors", message.GetID(), len(errs)))
}

func invoke(ctx context.Context, handler IMessageHandler, message IMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Recovered(r, errors.ErrCodeQueue, "handler "+handler.Type()+" panicked")
		}
	}()
	return handler.Handle(ctx, message)
}

// Matching 返回精确匹配主题的处理器，其后为通配处理器
func Matching(handlers map[string][]IMessageHandler, messageType string) []IMessageHandler {
	exact := handlers[messageType]
	wildcard := handlers[Wildcard]
	out := make([]IMessageHandler, 0, len(exact)+len(wildcard))
	out = append(out, exact...)
	if messageType != Wildcard {
		out = append(out, wildcard...)
	}
	return out
}
