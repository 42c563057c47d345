package runtimeutil

import (
	"runtime"
	"sync"
)

// ReentrantMutex is a mutex a goroutine may re-lock while it already holds
// it, unlike sync.Mutex. The store's identity-map hoist recurses into
// nested construction while "holding" the cache lock (spec §4.5), which
// needs this reentrancy; across goroutines it still serializes exactly like
// sync.Mutex.
//
// Grounded in GoroutineID, itself "culled from $GOROOT/src/net/http/
// h2_bundle.go" per this package's own goroutineLock (see goroutine.go) —
// unlike that debug-only helper (gated behind Debug()), ReentrantMutex
// always tracks the owner, since reentrancy here is a correctness
// requirement, not a debug assertion.
type ReentrantMutex struct {
	mu    sync.Mutex
	owner uint64
	depth int
}

// Lock acquires the mutex. A call from the goroutine that already holds it
// is a no-op re-entry; any other goroutine blocks until depth returns to 0.
func (m *ReentrantMutex) Lock() {
	gid := GoroutineID()
	m.mu.Lock()
	if m.depth > 0 && m.owner == gid {
		m.depth++
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.lockSlow(gid)
}

func (m *ReentrantMutex) lockSlow(gid uint64) {
	for {
		m.mu.Lock()
		if m.depth == 0 {
			m.owner = gid
			m.depth = 1
			m.mu.Unlock()
			return
		}
		if m.owner == gid {
			m.depth++
			m.mu.Unlock()
			return
		}
		m.mu.Unlock()
		runtime.Gosched()
	}
}

// Unlock releases one level of re-entry. Panics if called by a goroutine
// that does not hold the lock, the same contract sync.Mutex documents for
// an unpaired Unlock.
func (m *ReentrantMutex) Unlock() {
	gid := GoroutineID()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.depth == 0 || m.owner != gid {
		panic("runtimeutil: Unlock of unlocked or unowned ReentrantMutex")
	}
	m.depth--
}
