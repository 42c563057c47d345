/*
Package store implements the identity-mapped entity cache: construction
interception (cache hit merges onto the existing instance, cache miss builds
and hoists a fresh one), field-aware populate, and the filter/find surface
that operates over the in-memory cache (spec §4.5).

Grounded in the teacher's db/datastore.go CacheGet/CachePut/CacheDelete
negative-caching shape, adapted from wall-clock/App-Engine-memcache
semantics to a monotonic time.Time-keyed, in-process map guarded by
runtimeutil.ReentrantMutex (spec §5.1, §5.2): the hoisting walk recurses
into nested construction while the caller may already hold the lock, which
a plain sync.Mutex cannot survive.

Go's reflect package cannot recover a generic type's instantiated type
argument from a reflect.Type alone (there is no supported way to ask a
reflect.Type for field.Ref[Studio]'s Studio), so the store never tries to.
Instead every field.Ref/RefList instantiation exposes its own PeerType and
SetFromPeer(s) (see field/peer.go), letting the store drive construction
and assignment purely through those methods while staying oblivious to E.
*/
package store
