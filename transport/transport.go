/*
Package transport declares the capability the object-graph runtime depends
on to reach the remote GraphQL service, and the small amount of ambient
configuration needed to construct one. It deliberately says nothing about
how a Transport talks to the wire: that is an external collaborator's
responsibility (see the teacher's own app.Driver/LowLevelDriver split, which
this package keeps the shape of while dropping everything specific to an
HTTP-serving, datastore-backed application).
*/
package transport

import (
	"context"
)

// Event is a single message delivered over a subscription.
type Event struct {
	Operation string
	Data      map[string]interface{}
	Err       error
}

// Transport is the capability the runtime core needs from whatever speaks
// GraphQL to the remote media catalog service. Execute runs a single
// request/response operation (query or mutation); Subscribe opens a
// long-lived operation and streams Events until ctx is done or the remote
// side closes it.
type Transport interface {
	Execute(ctx context.Context, operation string, variables map[string]interface{}, out interface{}) error
	Subscribe(ctx context.Context, operation string, variables map[string]interface{}) (<-chan Event, error)
}

// Logger is the duck-typed surface a Config carries; any logger with
// compatible method signatures satisfies it. This module's logging package
// exposes package-level functions of these shapes but no type implementing
// Logger, and store calls those logging functions directly.
type Logger interface {
	Debug(ctx context.Context, message string, params ...interface{}) error
	Info(ctx context.Context, message string, params ...interface{}) error
	Warning(ctx context.Context, message string, params ...interface{}) error
	Error(ctx context.Context, message string, params ...interface{}) error
}

// noopLogger discards everything. Used when a Config is built without a
// Logger so callers in entity/store/relationship can log unconditionally.
type noopLogger struct{}

func (noopLogger) Debug(ctx context.Context, message string, params ...interface{}) error   { return nil }
func (noopLogger) Info(ctx context.Context, message string, params ...interface{}) error    { return nil }
func (noopLogger) Warning(ctx context.Context, message string, params ...interface{}) error { return nil }
func (noopLogger) Error(ctx context.Context, message string, params ...interface{}) error   { return nil }

var NoopLogger Logger = noopLogger{}
