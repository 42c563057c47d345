package logging

import (
	"context"

	"github.com/Jakan-Kink/stash-graphql-client/zerror"
)

// Format selects how a Record is rendered by a baseHandlerWriter.
type Format uint8

const (
	Human Format = iota
	JSON
	CSV
)

// Formatter renders a Record to bytes for a given handler.
type Formatter interface {
	Format(ctx context.Context, r *Record, seqId string) []byte
}

const (
	stderr = "<stderr>"
	stdout = "<stdout>"
)

var NoWriterForHandlerErr = zerror.String("logging: handler has no writer or file configured")

type ctxKey uint8

const (
	// AppContextKey, when present on a context, names the HasId value used
	// to tag every record emitted through that context.
	AppContextKey ctxKey = iota
	// CorrelationIDContextKey carries a caller-supplied correlation id,
	// used when the context does not carry an AppContextKey value.
	CorrelationIDContextKey
	detachableCtxKey
)

// WithCorrelationID returns a context tagged with id, picked up by
// every Record emitted through it (see fmtCtxId).
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDContextKey, id)
}

// WithDetachable registers d as the Detachable for async handlers to call
// when a Record logged through ctx is queued past the request's lifetime.
func WithDetachable(ctx context.Context, d Detachable) context.Context {
	return context.WithValue(ctx, detachableCtxKey, d)
}
