package relationship

import "github.com/Jakan-Kink/stash-graphql-client/store"

// ReadByOwner implements spec §4.6's filter_query read strategy: when a
// peer only exposes a count and a filter query (no direct list field), the
// full list is read by calling the peer's own find with an INCLUDES
// filter on the owning id, entirely against the in-memory cache.
func ReadByOwner[T any](s *store.Store, ownerField, ownerID string) ([]*T, error) {
	return store.Find[T](s, store.Filter{
		Criteria: []store.Criterion{{Field: ownerField, Modifier: store.Includes, Value: ownerID}},
	})
}
