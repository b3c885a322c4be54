// Package monitoring 为事件发布与缓存提供 Prometheus 指标
package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ordering/cache"
	"ordering/eventing"
	"ordering/result"
)

// 发布结果标签值
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics 事件发布指标
type Metrics struct {
	PublishedTotal  *prometheus.CounterVec
	PublishDuration *prometheus.HistogramVec
}

// NewMetrics 在 reg 上注册指标；reg 为 nil 时使用默认注册表
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		PublishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Total number of domain events published to topics",
			},
			[]string{"event_type", "topic", "outcome"},
		),
		PublishDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "event_publish_duration_seconds",
				Help:      "Latency of publishing a domain event to a topic",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"topic"},
		),
	}
}

// InstrumentedPublisher 记录被包装发布端口的调用次数与耗时
type InstrumentedPublisher struct {
	next    eventing.EventPublisher
	metrics *Metrics
}

// NewInstrumentedPublisher 包装 next
func NewInstrumentedPublisher(next eventing.EventPublisher, metrics *Metrics) *InstrumentedPublisher {
	return &InstrumentedPublisher{next: next, metrics: metrics}
}

func (p *InstrumentedPublisher) Publish(ctx context.Context, evt eventing.IEvent, topic string) result.Result[result.Void] {
	start := time.Now()
	r := p.next.Publish(ctx, evt, topic)
	p.metrics.PublishDuration.WithLabelValues(topic).Observe(time.Since(start).Seconds())

	outcome := OutcomeSuccess
	if r.IsFailure() {
		outcome = OutcomeFailure
	}
	p.metrics.PublishedTotal.WithLabelValues(evt.EventType(), topic, outcome).Inc()
	return r
}

// StatsSource 提供缓存统计
type StatsSource interface {
	Stats() cache.Stats
}

// RegisterCacheStats 以 GaugeFunc 暴露缓存统计，name 作为 cache 标签
func RegisterCacheStats(reg prometheus.Registerer, namespace, name string, src StatsSource) error {
	labels := prometheus.Labels{"cache": name}
	gauges := map[string]func(cache.Stats) float64{
		"cache_hits":      func(s cache.Stats) float64 { return float64(s.Hits) },
		"cache_misses":    func(s cache.Stats) float64 { return float64(s.Misses) },
		"cache_evictions": func(s cache.Stats) float64 { return float64(s.Evictions) },
		"cache_size":      func(s cache.Stats) float64 { return float64(s.Size) },
	}
	for metric, read := range gauges {
		read := read // per-iteration copy: go directive lowered to 1.21 for the local toolchain
		g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        metric,
			Help:        "Repository cache statistic " + metric,
			ConstLabels: labels,
		}, func() float64 { return read(src.Stats()) })
		if err := reg.Register(g); err != nil {
			return err
		}
	}
	return nil
}
