package cli

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"ordering/app/ordering"
	"ordering/cache"
	"ordering/config"
	core "ordering/data/db"
	"ordering/data/db/basic"
	"ordering/domain/customer"
	"ordering/domain/entity"
	"ordering/domain/order"
	"ordering/domain/repository"
	"ordering/errors"
	"ordering/eventing"
	"ordering/eventing/handlers"
	"ordering/eventing/monitoring"
	"ordering/eventing/publisher"
	"ordering/eventing/registry"
	"ordering/logging"
	"ordering/messaging"
	"ordering/messaging/middleware"
	"ordering/messaging/transport/natsjetstream"
	"ordering/messaging/transport/redisstreams"
	syncx "ordering/messaging/transport/sync"
	"ordering/patterns/retry"
	"ordering/storage/cached"
	"ordering/storage/memory"
	"ordering/storage/sqlstore"

	_ "modernc.org/sqlite"
)

// App 组装完成的应用
type App struct {
	Config  config.Config
	Logger  logging.Logger
	Service *ordering.Service
	// Metrics 指标注册表，未启用时为 nil
	Metrics *prometheus.Registry

	closers []func() error
}

// Close 按创建的逆序释放资源
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// Build 按配置组装应用，日志写入 logOut
func Build(ctx context.Context, cfg config.Config, logOut io.Writer) (*App, error) {
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: logOut})
	logging.SetLogger(logger)

	app := &App{Config: cfg, Logger: logger}
	if err := app.wire(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.Config
	logger := a.Logger
	if cfg.Metrics.Enabled {
		a.Metrics = prometheus.NewRegistry()
	}

	orders, customers, err := a.buildRepositories(ctx)
	if err != nil {
		return err
	}

	local := eventing.NewDomainEventPublisher(logging.ComponentLogger(logger, "eventing.publisher"))
	logHandler := handlers.NewLogEventHandler(logger)
	local.Subscribe(order.OrderCreatedEventType, logHandler)
	local.Subscribe(customer.CustomerCreatedEventType, logHandler)

	topicPublisher, err := a.buildTopicPublisher(ctx)
	if err != nil {
		return err
	}
	if a.Metrics != nil {
		metrics := monitoring.NewMetrics(cfg.Metrics.Namespace, a.Metrics)
		topicPublisher = monitoring.NewInstrumentedPublisher(topicPublisher, metrics)
	}
	dispatcher := eventing.NewEventDispatcher(topicPublisher,
		eventing.WithTopics(cfg.Events.Topics),
		eventing.WithDispatcherLogger(logger))

	a.Service = ordering.NewService(ordering.Dependencies{
		Orders:     orders,
		Customers:  customers,
		Publisher:  local,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	return nil
}

func (a *App) buildRepositories(ctx context.Context) (repository.IRepository[*order.Order], repository.IRepository[*customer.Customer], error) {
	var (
		orders    repository.IRepository[*order.Order]
		customers repository.IRepository[*customer.Customer]
	)
	switch a.Config.Storage.Driver {
	case config.StorageSQLite:
		db, err := basic.New(core.DBConfig{Driver: "sqlite", Database: a.Config.Storage.DSN})
		if err != nil {
			return nil, nil, errors.WrapError(err, errors.ErrCodeDatabase, "open sqlite")
		}
		a.closers = append(a.closers, db.Close)
		if err := sqlstore.EnsureSchema(ctx, db); err != nil {
			return nil, nil, err
		}
		o, err := sqlstore.NewOrderRepository(db, a.Logger)
		if err != nil {
			return nil, nil, err
		}
		c, err := sqlstore.NewCustomerRepository(db, a.Logger)
		if err != nil {
			return nil, nil, err
		}
		orders, customers = o, c
	default:
		orders, customers = memory.NewOrderRepository(), memory.NewCustomerRepository()
	}

	if a.Config.Storage.CacheSize <= 0 {
		return orders, customers, nil
	}
	cachedOrders, err := withCache(a, "orders", orders)
	if err != nil {
		return nil, nil, err
	}
	cachedCustomers, err := withCache(a, "customers", customers)
	if err != nil {
		return nil, nil, err
	}
	return cachedOrders, cachedCustomers, nil
}

func withCache[T entity.IAggregate](a *App, name string, inner repository.IRepository[T]) (repository.IRepository[T], error) {
	c := cache.New(cache.Config[uuid.UUID, T]{
		Name:    name,
		MaxSize: a.Config.Storage.CacheSize,
		TTL:     a.Config.Storage.CacheTTL,
	})
	repo := cached.New(inner, c)
	if a.Metrics != nil {
		if err := monitoring.RegisterCacheStats(a.Metrics, a.Config.Metrics.Namespace, name, repo); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

// buildTopicPublisher 按配置选择外部发布端口。
// 基于传输的发布方式同时挂载 TopicSubscriber，收到的事件写日志。
func (a *App) buildTopicPublisher(ctx context.Context) (eventing.EventPublisher, error) {
	cfg := a.Config.Events
	var transport messaging.Transport
	switch cfg.Publisher {
	case config.PublisherSync:
		transport = syncx.NewSyncTransport()
	case config.PublisherNATS:
		transport = natsjetstream.NewTransport(natsjetstream.Config{
			URL:           cfg.NATS.URL,
			Stream:        cfg.NATS.Stream,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
			Logger:        a.Logger,
		})
	case config.PublisherRedis:
		t, err := redisstreams.NewTransport(redisstreams.Config{
			Addr:         cfg.Redis.Addr,
			StreamPrefix: cfg.Redis.StreamPrefix,
			Logger:       a.Logger,
		})
		if err != nil {
			return nil, err
		}
		transport = t
	default:
		return publisher.NewLogEventPublisher(a.Logger), nil
	}

	decoders := registry.NewRegistry()
	decoders.MustRegister(order.OrderCreatedEventType, order.DecodeOrderCreatedEvent)
	decoders.MustRegister(customer.CustomerCreatedEventType, customer.DecodeCustomerCreatedEvent)

	consumers := eventing.NewDomainEventPublisher(logging.ComponentLogger(a.Logger, "eventing.consumer"))
	for _, eventType := range decoders.GetRegisteredTypes() {
		consumers.Subscribe(eventType, handlers.NewLogEventHandler(a.Logger))
	}
	subscriber := publisher.NewTopicSubscriber(transport, decoders, consumers, a.Logger)
	if err := subscriber.Subscribe(topics(cfg.Topics)...); err != nil {
		return nil, err
	}

	if err := transport.Start(ctx); err != nil {
		_ = transport.Close()
		return nil, err
	}
	a.closers = append(a.closers, transport.Close)
	stats := transport.Stats()
	a.Logger.Debug(ctx, "消息传输已启动",
		logging.String("publisher", cfg.Publisher),
		logging.Int("handlers", stats.HandlerCount),
		logging.Any("topics", stats.Topics))

	bus := messaging.NewMessageBus(transport)
	bus.Use(middleware.NewCorrelationMiddleware())
	return publisher.NewTransportEventPublisher(bus,
		publisher.WithRetry(retry.Config{
			MaxAttempts:   cfg.Retry.MaxAttempts,
			InitialDelay:  cfg.Retry.InitialDelay,
			BackoffFactor: 2,
			MaxDelay:      time.Second,
		}),
		publisher.WithLogger(a.Logger)), nil
}

// topics 默认主题与配置主题的去重集合
func topics(extra map[string]string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(topic string) {
		if !seen[topic] {
			seen[topic] = true
			out = append(out, topic)
		}
	}
	add(eventing.TopicOrderEvents)
	add(eventing.TopicCustomerEvents)
	for _, topic := range extra {
		add(topic)
	}
	return out
}
