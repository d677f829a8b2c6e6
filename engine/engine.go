// Package engine holds the boundary to the external execution engine and
// the per-call bridge client that feeds it.
//
// The engine owns prompt construction, model invocation and response
// parsing; this package only prepares its inputs (decoded arguments, a
// populated schema snapshot) and re-encodes its outputs. Engine errors pass
// through opaquely.
package engine

import (
	"context"

	"github.com/BaSui01/typebridge/collector"
	"github.com/BaSui01/typebridge/schema"
	"github.com/BaSui01/typebridge/types"
)

// Request carries one function invocation across the engine boundary.
type Request struct {
	// Function is the name of the engine-defined function to invoke.
	Function string
	// TraceID identifies this invocation in logs and collectors.
	TraceID string
	// Args are the decoded call arguments, keyed by parameter name.
	Args map[string]types.Value
	// Types is the caller-extended type universe for this call, or nil
	// when the caller declared nothing. The engine resolves class and enum
	// references against it together with its own compiled types.
	Types *schema.Snapshot
	// Client optionally overrides which engine client config serves the
	// call.
	Client *ClientConfig
}

// Engine is the external function-execution engine.
type Engine interface {
	// Call invokes a function and returns its final typed result.
	Call(ctx context.Context, req *Request) (types.Value, error)

	// Stream invokes a function, delivering each intermediate typed
	// snapshot to onPartial before returning the final result. Partials
	// may be structurally incomplete.
	Stream(ctx context.Context, req *Request, onPartial func(types.Value)) (types.Value, error)
}

// UsageReporter is an optional engine upgrade: engines that track token
// usage expose the usage of their most recent call for collectors.
type UsageReporter interface {
	LastUsage() collector.Usage
}
