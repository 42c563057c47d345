package store

import (
	"context"

	"github.com/Jakan-Kink/stash-graphql-client/logging"
	"github.com/Jakan-Kink/stash-graphql-client/zerror"
)

// Get is the read-through fetch: a cache hit (positive or negative) never
// reaches the transport. A miss executes op, hoists the response at
// resultKey through the construction-interception protocol, and caches the
// result; a nil result is memoized in the negative cache (spec §4.5, §7:
// "not-found returns an empty result, never an error").
func Get[T any](ctx context.Context, s *Store, op string, variables map[string]interface{}, resultKey, id string) (*T, error) {
	if v, ok := CachedGet[T](s, id); ok {
		return v, nil
	}
	tm, err := typeMetaOf[T]()
	if err != nil {
		return nil, err
	}
	if s.negativeHit(tm.TypeName, id) {
		logging.Debug(ctx, "store: negative cache hit %s/%s", tm.TypeName, id)
		return nil, nil
	}

	var result map[string]interface{}
	if err := s.transport.Execute(ctx, op, variables, &result); err != nil {
		logging.Error2(ctx, err, "store: %s failed for %s/%s", op, tm.TypeName, id)
		return nil, &zerror.Transport{Operation: op, Cause: err}
	}
	payload, _ := result[resultKey].(map[string]interface{})
	if payload == nil {
		s.recordNegative(tm.TypeName, id)
		logging.Debug(ctx, "store: %s/%s not found, recording negative cache entry", tm.TypeName, id)
		return nil, nil
	}
	return Construct[T](s, payload)
}
