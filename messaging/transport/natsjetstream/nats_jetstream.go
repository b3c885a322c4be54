// Package natsjetstream 基于 NATS JetStream 的消息传输
package natsjetstream

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"ordering/errors"
	"ordering/logging"
	"ordering/messaging"
)

// 默认值
const (
	DefaultStream        = "ORDERING"
	DefaultSubjectPrefix = "ordering."
	DefaultDurablePrefix = "ordering-"
)

// ErrNotRunning 传输层未启动
var ErrNotRunning = errors.NewError(errors.ErrCodeQueue, "nats transport is not running")

// Config JetStream 传输配置
type Config struct {
	URL           string
	Stream        string
	SubjectPrefix string
	DurablePrefix string
	AckWait       time.Duration
	MaxAckPending int
	Logger        logging.Logger
	Conn          *nats.Conn

	// 流参数
	Retention         string // workqueue|limits|interest，默认 limits
	MaxBytes          int64
	Replicas          int
	MaxMsgsPerSubject int64
}

// Transport 每个主题对应一个 subject，订阅使用 durable 队列消费者
type Transport struct {
	cfg      Config
	logger   logging.Logger
	conn     *nats.Conn
	js       nats.JetStreamContext
	ownsConn bool

	handlers map[string][]messaging.IMessageHandler
	subs     map[string]*nats.Subscription

	mu      sync.RWMutex
	running bool
}

// NewTransport 创建传输，连接在 Start 时建立
func NewTransport(cfg Config) *Transport {
	if cfg.Stream == "" {
		cfg.Stream = DefaultStream
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = DefaultSubjectPrefix
	}
	if !strings.HasSuffix(cfg.SubjectPrefix, ".") {
		cfg.SubjectPrefix += "."
	}
	if cfg.DurablePrefix == "" {
		cfg.DurablePrefix = DefaultDurablePrefix
	}
	if cfg.AckWait <= 0 {
		cfg.AckWait = 30 * time.Second
	}
	if cfg.MaxAckPending <= 0 {
		cfg.MaxAckPending = 1024
	}
	return &Transport{
		cfg:      cfg,
		logger:   logging.ComponentLogger(cfg.Logger, "transport.nats"),
		handlers: make(map[string][]messaging.IMessageHandler),
		subs:     make(map[string]*nats.Subscription),
	}
}

// Publish 写入 JetStream 并等待确认
func (t *Transport) Publish(ctx context.Context, message messaging.IMessage) error {
	t.mu.RLock()
	js := t.js
	running := t.running
	t.mu.RUnlock()
	if !running || js == nil {
		return ErrNotRunning
	}
	data, err := messaging.Marshal(message)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeQueue, "encode message "+message.GetID())
	}
	if _, err := js.Publish(t.subjectName(message.GetType()), data,
		nats.Context(ctx), nats.MsgId(message.GetID())); err != nil {
		return errors.WrapError(err, errors.ErrCodeQueue, "jetstream publish "+message.GetID())
	}
	return nil
}

// PublishAll 顺序发布
func (t *Transport) PublishAll(ctx context.Context, messages []messaging.IMessage) error {
	for _, msg := range messages {
		if err := t.Publish(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe 注册处理器；运行中时立即建立订阅
func (t *Transport) Subscribe(messageType string, handler messaging.IMessageHandler) error {
	if handler == nil {
		return errors.NewError(errors.ErrCodeInvalidInput, "handler is nil")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[messageType] = append(t.handlers[messageType], handler)
	if t.running {
		return t.subscribeLocked(messageType)
	}
	return nil
}

// Unsubscribe 移除处理器；主题无处理器时排空订阅
func (t *Transport) Unsubscribe(messageType string, handler messaging.IMessageHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	handlers := t.handlers[messageType]
	for i, h := range handlers {
		if h == handler {
			t.handlers[messageType] = append(handlers[:i:i], handlers[i+1:]...)
			break
		}
	}
	if len(t.handlers[messageType]) == 0 {
		delete(t.handlers, messageType)
		if sub, ok := t.subs[messageType]; ok {
			_ = sub.Drain()
			delete(t.subs, messageType)
		}
	}
	return nil
}

// Start 建立连接、确保流存在并订阅已注册的主题
func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return nil
	}
	if err := t.ensureConnection(); err != nil {
		return errors.WrapError(err, errors.ErrCodeQueue, "connect nats "+t.cfg.URL)
	}
	if err := t.ensureStream(); err != nil {
		return errors.WrapError(err, errors.ErrCodeQueue, "ensure stream "+t.cfg.Stream)
	}
	for mt := range t.handlers {
		if err := t.subscribeLocked(mt); err != nil {
			return err
		}
	}
	t.running = true
	t.logger.Info(ctx, "nats 传输已启动",
		logging.String("stream", t.cfg.Stream),
		logging.String("subject_prefix", t.cfg.SubjectPrefix))
	return nil
}

// Close 排空订阅；仅关闭自己创建的连接
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	for mt, sub := range t.subs {
		_ = sub.Drain()
		delete(t.subs, mt)
	}
	if t.ownsConn && t.conn != nil {
		t.conn.Close()
	}
	t.conn = nil
	t.js = nil
	return nil
}

// Stats 统计信息
func (t *Transport) Stats() messaging.TransportStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return messaging.NewTransportStats(t.running, t.handlers)
}

func (t *Transport) ensureConnection() error {
	if t.conn != nil && t.js != nil {
		return nil
	}
	if t.cfg.Conn != nil {
		t.conn = t.cfg.Conn
	} else {
		if t.cfg.URL == "" {
			t.cfg.URL = nats.DefaultURL
		}
		conn, err := nats.Connect(t.cfg.URL, nats.Name("ordering"))
		if err != nil {
			return err
		}
		t.conn = conn
		t.ownsConn = true
	}
	js, err := t.conn.JetStream()
	if err != nil {
		return err
	}
	t.js = js
	return nil
}

func (t *Transport) ensureStream() error {
	_, err := t.js.StreamInfo(t.cfg.Stream)
	if err == nil {
		return nil
	}
	if !stderrors.Is(err, nats.ErrStreamNotFound) {
		return err
	}
	_, err = t.js.AddStream(t.streamConfig())
	return err
}

func (t *Transport) streamConfig() *nats.StreamConfig {
	retention := nats.LimitsPolicy
	switch strings.ToLower(t.cfg.Retention) {
	case "workqueue":
		retention = nats.WorkQueuePolicy
	case "interest":
		retention = nats.InterestPolicy
	}
	sc := &nats.StreamConfig{
		Name:              t.cfg.Stream,
		Subjects:          []string{t.cfg.SubjectPrefix + ">"},
		Retention:         retention,
		MaxMsgsPerSubject: -1,
	}
	if t.cfg.MaxMsgsPerSubject != 0 {
		sc.MaxMsgsPerSubject = t.cfg.MaxMsgsPerSubject
	}
	if t.cfg.MaxBytes > 0 {
		sc.MaxBytes = t.cfg.MaxBytes
	}
	if t.cfg.Replicas > 0 {
		sc.Replicas = t.cfg.Replicas
	}
	return sc
}

func (t *Transport) subscribeLocked(messageType string) error {
	if _, exists := t.subs[messageType]; exists {
		return nil
	}
	durable := t.durableName(messageType)
	sub, err := t.js.QueueSubscribe(t.subjectName(messageType), durable, t.handleMessage(messageType),
		nats.ManualAck(),
		nats.Durable(durable),
		nats.AckWait(t.cfg.AckWait),
		nats.MaxAckPending(t.cfg.MaxAckPending))
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeQueue, "subscribe "+messageType)
	}
	t.subs[messageType] = sub
	return nil
}

// handleMessage 处理器失败时 Nak 以便重投，无法解码的消息直接确认
func (t *Transport) handleMessage(topic string) nats.MsgHandler {
	return func(msg *nats.Msg) {
		ctx := context.Background()
		decoded, err := messaging.Unmarshal(msg.Data)
		if err != nil {
			t.logger.Warn(ctx, "nats 消息解码失败", logging.String("subject", msg.Subject), logging.Error(err))
			_ = msg.Ack()
			return
		}
		if decoded.Type == "" {
			decoded.Type = topic
		}
		if err := t.dispatch(ctx, decoded); err != nil {
			t.logger.Warn(ctx, "nats 消息处理失败",
				logging.String("message_id", decoded.ID), logging.Error(err))
			_ = msg.Nak()
			return
		}
		if err := msg.Ack(); err != nil {
			t.logger.Warn(ctx, "nats ack 失败", logging.Error(err))
		}
	}
}

func (t *Transport) dispatch(ctx context.Context, message messaging.IMessage) error {
	t.mu.RLock()
	handlers := messaging.Matching(t.handlers, message.GetType())
	t.mu.RUnlock()
	return messaging.Dispatch(ctx, handlers, message)
}

func (t *Transport) subjectName(messageType string) string {
	return t.cfg.SubjectPrefix + messageType
}

// durableName durable 名称不能包含 '.'、'*'、'>'
func (t *Transport) durableName(messageType string) string {
	r := strings.NewReplacer(".", "_", "*", "all", ">", "_")
	return r.Replace(t.cfg.DurablePrefix + messageType)
}
