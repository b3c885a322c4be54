// Package redisstreams 基于 Redis Streams 消费组的消息传输
package redisstreams

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"ordering/errors"
	"ordering/logging"
	"ordering/messaging"
)

// 默认值
const (
	DefaultStreamPrefix = "ordering:"
	DefaultGroup        = "ordering"
)

// ErrNotRunning 传输层未启动
var ErrNotRunning = errors.NewError(errors.ErrCodeQueue, "redis streams transport is not running")

// client 本传输用到的 go-redis 命令子集
type client interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	Close() error
}

// Config Redis Streams 传输配置
type Config struct {
	Client       redis.UniversalClient
	Addr         string
	Username     string
	Password     string
	DB           int
	StreamPrefix string
	GroupName    string
	ConsumerName string
	BlockTimeout time.Duration
	ReadCount    int64
	MaxLen       int64 // 0 表示不裁剪
	Logger       logging.Logger

	MaxPublishConcurrency int // 0 表示不限制
	MinReadBackoff        time.Duration
	MaxReadBackoff        time.Duration
}

// Transport 每个主题一个 Stream，每个主题一个读协程
type Transport struct {
	cfg       Config
	client    client
	ownClient bool
	logger    logging.Logger

	handlers map[string][]messaging.IMessageHandler
	readers  map[string]bool

	mu      sync.RWMutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	pubSem chan struct{}
}

// NewTransport 创建传输；未提供 Client 时按 Addr 建立连接
func NewTransport(cfg Config) (*Transport, error) {
	if cfg.Client != nil {
		return newTransport(cfg, cfg.Client, false), nil
	}
	if cfg.Addr == "" {
		return nil, errors.NewError(errors.ErrCodeConfig, "redis address not configured")
	}
	cl := redis.NewClient(&redis.Options{Addr: cfg.Addr, Username: cfg.Username, Password: cfg.Password, DB: cfg.DB})
	return newTransport(cfg, cl, true), nil
}

func newTransport(cfg Config, cl client, own bool) *Transport {
	if cfg.StreamPrefix == "" {
		cfg.StreamPrefix = DefaultStreamPrefix
	}
	if cfg.GroupName == "" {
		cfg.GroupName = DefaultGroup
	}
	if cfg.ConsumerName == "" {
		cfg.ConsumerName = "consumer-" + uuid.NewString()
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = 5 * time.Second
	}
	if cfg.ReadCount <= 0 {
		cfg.ReadCount = 10
	}
	if cfg.MinReadBackoff <= 0 {
		cfg.MinReadBackoff = 100 * time.Millisecond
	}
	if cfg.MaxReadBackoff <= 0 {
		cfg.MaxReadBackoff = 5 * time.Second
	}
	t := &Transport{
		cfg:       cfg,
		client:    cl,
		ownClient: own,
		logger:    logging.ComponentLogger(cfg.Logger, "transport.redisstreams"),
		handlers:  make(map[string][]messaging.IMessageHandler),
		readers:   make(map[string]bool),
	}
	if cfg.MaxPublishConcurrency > 0 {
		t.pubSem = make(chan struct{}, cfg.MaxPublishConcurrency)
	}
	return t
}

// Publish XADD 到主题对应的 Stream
func (t *Transport) Publish(ctx context.Context, message messaging.IMessage) error {
	t.mu.RLock()
	running := t.running
	t.mu.RUnlock()
	if !running {
		return ErrNotRunning
	}
	if t.pubSem != nil {
		select {
		case t.pubSem <- struct{}{}:
			defer func() { <-t.pubSem }()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	values, err := encodeMessage(message)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeQueue, "encode message "+message.GetID())
	}
	args := &redis.XAddArgs{Stream: t.streamName(message.GetType()), Values: values}
	if t.cfg.MaxLen > 0 {
		args.MaxLen = t.cfg.MaxLen
		args.Approx = true
	}
	if err := t.client.XAdd(ctx, args).Err(); err != nil {
		return errors.WrapError(err, errors.ErrCodeQueue, "xadd "+message.GetID())
	}
	return nil
}

// PublishAll 同一主题内按顺序发布，不同主题并发发布；返回第一个错误
func (t *Transport) PublishAll(ctx context.Context, messages []messaging.IMessage) error {
	var order []string
	byTopic := make(map[string][]messaging.IMessage)
	for _, msg := range messages {
		topic := msg.GetType()
		if _, ok := byTopic[topic]; !ok {
			order = append(order, topic)
		}
		byTopic[topic] = append(byTopic[topic], msg)
	}

	g, gctx := errgroup.WithContext(ctx)
	if t.cfg.MaxPublishConcurrency > 0 {
		g.SetLimit(t.cfg.MaxPublishConcurrency)
	}
	for _, topic := range order {
		batch := byTopic[topic]
		g.Go(func() error {
			for _, msg := range batch {
				if err := t.Publish(gctx, msg); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// Subscribe 注册处理器；运行中时启动读协程
func (t *Transport) Subscribe(messageType string, handler messaging.IMessageHandler) error {
	if handler == nil {
		return errors.NewError(errors.ErrCodeInvalidInput, "handler is nil")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[messageType] = append(t.handlers[messageType], handler)
	if t.running {
		t.startReaderLocked(messageType)
	}
	return nil
}

// Unsubscribe 移除处理器，读协程持续到 Close
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
	}
	return nil
}

// Start 为已注册主题启动读协程
func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return nil
	}
	t.ctx, t.cancel = context.WithCancel(context.WithoutCancel(ctx))
	t.running = true
	for mt := range t.handlers {
		t.startReaderLocked(mt)
	}
	return nil
}

// Close 停止读协程；仅关闭自己创建的客户端
func (t *Transport) Close() error {
	t.mu.Lock()
	wasRunning := t.running
	t.running = false
	cancel := t.cancel
	t.readers = make(map[string]bool)
	t.mu.Unlock()

	if wasRunning && cancel != nil {
		cancel()
		t.wg.Wait()
	}
	if t.ownClient {
		return t.client.Close()
	}
	return nil
}

// Stats 统计信息
func (t *Transport) Stats() messaging.TransportStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return messaging.NewTransportStats(t.running, t.handlers)
}

func (t *Transport) startReaderLocked(messageType string) {
	if t.readers[messageType] || messageType == messaging.Wildcard {
		return
	}
	t.readers[messageType] = true
	t.wg.Add(1)
	go t.readLoop(t.ctx, messageType)
}

func (t *Transport) readLoop(ctx context.Context, messageType string) {
	defer t.wg.Done()
	stream := t.streamName(messageType)
	if err := t.ensureGroup(ctx, stream); err != nil {
		t.logger.Warn(ctx, "创建消费组失败", logging.String("stream", stream), logging.Error(err))
	}
	args := &redis.XReadGroupArgs{
		Group:    t.cfg.GroupName,
		Consumer: t.cfg.ConsumerName,
		Streams:  []string{stream, ">"},
		Count:    t.cfg.ReadCount,
		Block:    t.cfg.BlockTimeout,
	}
	backoff := t.cfg.MinReadBackoff
	for ctx.Err() == nil {
		res, err := t.client.XReadGroup(ctx, args).Result()
		if err != nil {
			if stderrors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			t.logger.Warn(ctx, "xreadgroup 失败", logging.Duration("backoff", backoff), logging.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, t.cfg.MaxReadBackoff)
			continue
		}
		backoff = t.cfg.MinReadBackoff
		for _, streamRes := range res {
			for _, entry := range streamRes.Messages {
				t.handleEntry(ctx, streamRes.Stream, messageType, entry)
			}
		}
	}
}

// handleEntry 处理失败的条目不确认，留在 PEL 中等待重投
func (t *Transport) handleEntry(ctx context.Context, stream, topic string, entry redis.XMessage) {
	msg, err := decodeMessage(entry)
	if err != nil {
		t.logger.Warn(ctx, "redis stream 条目解码失败", logging.String("entry_id", entry.ID), logging.Error(err))
		t.ack(ctx, stream, entry.ID)
		return
	}
	if msg.Type == "" {
		msg.Type = topic
	}
	t.mu.RLock()
	handlers := messaging.Matching(t.handlers, msg.Type)
	t.mu.RUnlock()
	if err := messaging.Dispatch(ctx, handlers, msg); err != nil {
		t.logger.Warn(ctx, "redis stream 消息处理失败", logging.String("message_id", msg.ID), logging.Error(err))
		return
	}
	t.ack(ctx, stream, entry.ID)
}

func (t *Transport) ack(ctx context.Context, stream, id string) {
	if err := t.client.XAck(ctx, stream, t.cfg.GroupName, id).Err(); err != nil {
		t.logger.Warn(ctx, "xack 失败", logging.String("entry_id", id), logging.Error(err))
	}
}

func (t *Transport) ensureGroup(ctx context.Context, stream string) error {
	err := t.client.XGroupCreateMkStream(ctx, stream, t.cfg.GroupName, "0").Err()
	if err == nil || strings.Contains(strings.ToUpper(err.Error()), "BUSYGROUP") {
		return nil
	}
	return err
}

func (t *Transport) streamName(messageType string) string {
	return t.cfg.StreamPrefix + messageType
}

func encodeMessage(msg messaging.IMessage) (map[string]any, error) {
	payload, err := json.Marshal(msg.GetPayload())
	if err != nil {
		return nil, err
	}
	metadata, err := json.Marshal(msg.GetMetadata())
	if err != nil {
		return nil, err
	}
	ts := msg.GetTimestamp()
	if ts.IsZero() {
		ts = time.Now()
	}
	return map[string]any{
		"id":        msg.GetID(),
		"type":      msg.GetType(),
		"timestamp": strconv.FormatInt(ts.UnixNano(), 10),
		"payload":   string(payload),
		"metadata":  string(metadata),
	}, nil
}

func decodeMessage(entry redis.XMessage) (*messaging.Message, error) {
	id, _ := entry.Values["id"].(string)
	msgType, _ := entry.Values["type"].(string)
	payloadRaw, _ := entry.Values["payload"].(string)
	metadataRaw, _ := entry.Values["metadata"].(string)

	var payload any
	if payloadRaw != "" {
		if err := json.Unmarshal([]byte(payloadRaw), &payload); err != nil {
			return nil, err
		}
	}
	metadata := make(map[string]any)
	if metadataRaw != "" && metadataRaw != "null" {
		if err := json.Unmarshal([]byte(metadataRaw), &metadata); err != nil {
			return nil, err
		}
	}

	ts := time.Now()
	switch v := entry.Values["timestamp"].(type) {
	case int64:
		ts = time.Unix(0, v)
	case string:
		if ns, err := strconv.ParseInt(v, 10, 64); err == nil {
			ts = time.Unix(0, ns)
		}
	}
	if id == "" {
		id = entry.ID
	}
	return &messaging.Message{
		ID:        id,
		Type:      msgType,
		Timestamp: ts,
		Payload:   payload,
		Metadata:  metadata,
	}, nil
}
