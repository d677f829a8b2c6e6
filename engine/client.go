package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BaSui01/typebridge/codec"
	"github.com/BaSui01/typebridge/collector"
	"github.com/BaSui01/typebridge/schema"
	"github.com/BaSui01/typebridge/types"
)

// Client is the per-call bridge in front of an Engine. For each invocation
// it parses the caller's declaration set into a fresh registry, decodes the
// argument terms, dispatches, and re-encodes every result crossing back.
//
// Bridge errors (bad arguments, bad declarations) surface before any engine
// work begins; engine errors pass through untouched.
type Client struct {
	engine     Engine
	clients    *ClientRegistry
	collectors []*collector.Collector
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithClientRegistry routes calls through named client configs; the
// registry's primary is attached to every request.
func WithClientRegistry(r *ClientRegistry) Option {
	return func(c *Client) { c.clients = r }
}

// WithCollector attaches a usage collector. May be given multiple times.
func WithCollector(col *collector.Collector) Option {
	return func(c *Client) { c.collectors = append(c.collectors, col) }
}

// WithRateLimit bounds call dispatch to rps requests per second with the
// given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a bridge client in front of engine.
func NewClient(engine Engine, opts ...Option) *Client {
	c := &Client{engine: engine, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("component", "bridge"))
	return c
}

// Call invokes function with the given argument term and optional
// declaration set, returning the re-encoded final result. A nil decls means
// the caller extends no types and no registry is built.
func (c *Client) Call(ctx context.Context, function string, args types.Term, decls types.Term) (types.Term, error) {
	req, err := c.prepare(ctx, function, args, decls)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := c.engine.Call(ctx, req)
	if err != nil {
		c.record(req, start, false, 0, err)
		c.logger.Debug("engine call failed",
			zap.String("function", function), zap.String("trace_id", req.TraceID), zap.Error(err))
		return nil, err
	}
	encoded, err := codec.Encode(result)
	c.record(req, start, false, 0, err)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("engine call done",
		zap.String("function", function), zap.String("trace_id", req.TraceID),
		zap.Duration("duration", time.Since(start)))
	return encoded, nil
}

// Stream invokes function, delivering each re-encoded partial result to
// onPartial before returning the re-encoded final result.
//
// A partial that cannot be re-encoded (it may be structurally incomplete
// mid-stream) is silently discarded; later partials or the final result
// supersede it. A final result that cannot be re-encoded is always
// surfaced.
func (c *Client) Stream(ctx context.Context, function string, args types.Term, decls types.Term, onPartial func(types.Term)) (types.Term, error) {
	req, err := c.prepare(ctx, function, args, decls)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	partials := 0
	deliver := func(v types.Value) {
		encoded, err := codec.Encode(v)
		if err != nil {
			c.logger.Debug("dropping undecodable partial",
				zap.String("function", function), zap.String("trace_id", req.TraceID), zap.Error(err))
			return
		}
		partials++
		if onPartial != nil {
			onPartial(encoded)
		}
	}

	result, err := c.engine.Stream(ctx, req, deliver)
	if err != nil {
		c.record(req, start, true, partials, err)
		return nil, err
	}
	encoded, err := codec.Encode(result)
	c.record(req, start, true, partials, err)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("engine stream done",
		zap.String("function", function), zap.String("trace_id", req.TraceID),
		zap.Int("partials", partials), zap.Duration("duration", time.Since(start)))
	return encoded, nil
}

// prepare builds the engine request: declaration parsing and argument
// decoding happen here, before any engine work, so every bridge error
// surfaces synchronously.
func (c *Client) prepare(ctx context.Context, function string, args types.Term, decls types.Term) (*Request, error) {
	req := &Request{
		Function: function,
		TraceID:  uuid.NewString(),
		Args:     make(map[string]types.Value),
	}

	argMap, ok := args.(types.Map)
	if args != nil && !ok {
		return nil, types.InvalidShape("argument map", types.ShapeOf(args))
	}
	for name, term := range argMap {
		v, err := codec.Decode(term)
		if err != nil {
			return nil, err
		}
		req.Args[name] = v
	}

	if decls != nil {
		reg := schema.NewRegistry()
		if err := schema.ParseDeclarations(decls, reg); err != nil {
			return nil, err
		}
		req.Types = reg.Snapshot()
	}

	if c.clients != nil {
		if cfg, name, ok := c.clients.Primary(); ok {
			req.Client = &cfg
			c.logger.Debug("using primary client",
				zap.String("function", function), zap.String("client", name))
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func (c *Client) record(req *Request, start time.Time, stream bool, partials int, err error) {
	if len(c.collectors) == 0 {
		return
	}
	log := collector.FunctionLog{
		Function: req.Function,
		TraceID:  req.TraceID,
		Start:    start,
		Duration: time.Since(start),
		Stream:   stream,
		Partials: partials,
	}
	if err != nil {
		log.Error = err.Error()
	}
	if reporter, ok := c.engine.(UsageReporter); ok {
		log.Usage = reporter.LastUsage()
	}
	for _, col := range c.collectors {
		col.Record(log)
	}
}
