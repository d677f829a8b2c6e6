// Package typebridge provides a top-level convenience entry point for
// calling functions in an external typed function engine with dynamic,
// caller-native values.
//
// Usage:
//
//	import "github.com/BaSui01/typebridge"
//
//	client := typebridge.NewClient(myEngine)
//	result, err := client.Call(ctx, "ExtractResume", args, decls)
//
// This is a thin wrapper around the engine, codec, schema and types
// packages; use it when you prefer the shorter import path.
package typebridge

import (
	"github.com/BaSui01/typebridge/engine"
	"github.com/BaSui01/typebridge/types"
)

// Term is the caller-native dynamic value grammar.
type Term = types.Term

// Value is the engine's typed value tree.
type Value = types.Value

// Client is the per-call bridge client.
type Client = engine.Client

// Option configures the client created by [NewClient].
type Option = engine.Option

// NewClient creates a bridge client in front of an engine.
func NewClient(e engine.Engine, opts ...Option) *Client {
	return engine.NewClient(e, opts...)
}

// Re-export client options so callers never need to import engine/.

// WithClientRegistry routes calls through named engine client configs.
var WithClientRegistry = engine.WithClientRegistry

// WithCollector attaches a usage collector.
var WithCollector = engine.WithCollector

// WithRateLimit bounds call dispatch.
var WithRateLimit = engine.WithRateLimit

// WithLogger sets a custom zap logger.
var WithLogger = engine.WithLogger
