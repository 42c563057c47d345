package runtimeutil_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Jakan-Kink/stash-graphql-client/runtimeutil"
)

func TestReentrantMutexAllowsSameGoroutineReentry(t *testing.T) {
	var m runtimeutil.ReentrantMutex
	m.Lock()
	done := make(chan struct{})
	go func() {
		m.Lock()
		m.Unlock()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("other goroutine acquired the lock while held")
	case <-time.After(50 * time.Millisecond):
	}
	m.Lock() // reentrant from the same goroutine: must not block
	m.Unlock()
	m.Unlock()
	<-done
}

func TestReentrantMutexSerializesOtherGoroutines(t *testing.T) {
	var m runtimeutil.ReentrantMutex
	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock()
			counter++
			m.Unlock()
		}()
	}
	wg.Wait()
	require.Equal(t, 50, counter)
}
