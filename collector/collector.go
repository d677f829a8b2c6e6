// Package collector aggregates per-call usage and function logs.
//
// Collectors receive opaque notifications from the bridge; they never
// influence call behavior. Counters are also exported through a
// per-collector Prometheus registry.
package collector

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Usage is the aggregate cost of the calls a collector has seen.
type Usage struct {
	Calls        int64   `json:"calls"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	Cost         float64 `json:"cost"`
}

// Add accumulates another usage into u.
func (u *Usage) Add(other Usage) {
	u.Calls += other.Calls
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.Cost += other.Cost
}

// FunctionLog records one function invocation.
type FunctionLog struct {
	Function string        `json:"function"`
	TraceID  string        `json:"trace_id"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
	Stream   bool          `json:"stream"`
	Partials int           `json:"partials"`
	Error    string        `json:"error,omitempty"`
	Usage    Usage         `json:"usage"`
}

// Collector accumulates usage and function logs across calls. Safe for
// concurrent notification.
type Collector struct {
	name   string
	logger *zap.Logger

	mu    sync.Mutex
	usage Usage
	logs  []FunctionLog

	registry      *prometheus.Registry
	callsTotal    *prometheus.CounterVec
	callDuration  *prometheus.HistogramVec
	partialsTotal *prometheus.CounterVec
	tokensTotal   *prometheus.CounterVec
}

// New creates a named collector. A nil logger disables logging.
func New(name string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	c := &Collector{
		name:     name,
		logger:   logger.With(zap.String("component", "collector"), zap.String("collector", name)),
		registry: reg,
	}
	c.callsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "typebridge",
			Name:      "calls_total",
			Help:      "Total number of function calls",
		},
		[]string{"function", "status"},
	)
	c.callDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "typebridge",
			Name:      "call_duration_seconds",
			Help:      "Function call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"function"},
	)
	c.partialsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "typebridge",
			Name:      "stream_partials_total",
			Help:      "Total number of streamed partial results delivered",
		},
		[]string{"function"},
	)
	c.tokensTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "typebridge",
			Name:      "tokens_total",
			Help:      "Total tokens reported by the engine",
		},
		[]string{"function", "direction"},
	)
	return c
}

// Name returns the collector name.
func (c *Collector) Name() string { return c.name }

// Gatherer exposes the collector's Prometheus registry for scraping.
func (c *Collector) Gatherer() prometheus.Gatherer { return c.registry }

// Record notes one completed function invocation.
func (c *Collector) Record(log FunctionLog) {
	status := "ok"
	if log.Error != "" {
		status = "error"
	}
	c.callsTotal.WithLabelValues(log.Function, status).Inc()
	c.callDuration.WithLabelValues(log.Function).Observe(log.Duration.Seconds())
	if log.Partials > 0 {
		c.partialsTotal.WithLabelValues(log.Function).Add(float64(log.Partials))
	}
	if log.Usage.InputTokens > 0 {
		c.tokensTotal.WithLabelValues(log.Function, "input").Add(float64(log.Usage.InputTokens))
	}
	if log.Usage.OutputTokens > 0 {
		c.tokensTotal.WithLabelValues(log.Function, "output").Add(float64(log.Usage.OutputTokens))
	}

	c.mu.Lock()
	usage := log.Usage
	usage.Calls = 1
	c.usage.Add(usage)
	c.logs = append(c.logs, log)
	c.mu.Unlock()

	c.logger.Debug("recorded function call",
		zap.String("function", log.Function),
		zap.String("trace_id", log.TraceID),
		zap.Duration("duration", log.Duration),
		zap.String("status", status),
	)
}

// Usage returns the aggregate usage across all recorded calls.
func (c *Collector) Usage() Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

// LastFunctionLog returns the most recently recorded log, or nil when the
// collector has seen no calls.
func (c *Collector) LastFunctionLog() *FunctionLog {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.logs) == 0 {
		return nil
	}
	log := c.logs[len(c.logs)-1]
	return &log
}

// FunctionLogs returns a copy of every recorded log, in call order.
func (c *Collector) FunctionLogs() []FunctionLog {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]FunctionLog, len(c.logs))
	copy(out, c.logs)
	return out
}
