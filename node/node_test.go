package node

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadersConcurrent(t *testing.T) {
	n := New()
	var active int32
	var maxActive int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.AcquireRead()
			cur := atomic.AddInt32(&active, 1)
			for {
				old := atomic.LoadInt32(&maxActive)
				if cur <= old || atomic.CompareAndSwapInt32(&maxActive, old, cur) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&active, -1)
			n.ReleaseRead()
		}()
	}
	wg.Wait()
	assert.Greater(t, maxActive, int32(1), "readers should run concurrently")
}

func TestWriterExclusive(t *testing.T) {
	n := New()
	var active int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.AcquireWrite()
			cur := atomic.AddInt32(&active, 1)
			assert.Equal(t, int32(1), cur, "at most one writer active")
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&active, -1)
			n.ReleaseWrite()
		}()
	}
	wg.Wait()
}

func TestWriterExcludesReaders(t *testing.T) {
	n := New()
	var readers, writers int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				n.AcquireWrite()
				atomic.AddInt32(&writers, 1)
				assert.Equal(t, int32(0), atomic.LoadInt32(&readers))
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&writers, -1)
				n.ReleaseWrite()
			} else {
				n.AcquireRead()
				atomic.AddInt32(&readers, 1)
				assert.Equal(t, int32(0), atomic.LoadInt32(&writers))
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&readers, -1)
				n.ReleaseRead()
			}
		}(i)
	}
	wg.Wait()
}

func TestAcquireMoveWaitsForDrain(t *testing.T) {
	n := New()
	n.AcquireRead()

	done := make(chan struct{})
	go func() {
		n.AcquireMove()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("move access granted while a reader is active")
	case <-time.After(20 * time.Millisecond):
	}

	n.ReleaseRead()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("move access never granted after drain")
	}
}

func TestAcquireMoveGrantedAfterWriterRelease(t *testing.T) {
	n := New()
	n.AcquireWrite()

	moveDone := make(chan struct{})
	go func() {
		n.AcquireMove()
		close(moveDone)
	}()
	time.Sleep(10 * time.Millisecond)

	n.ReleaseWrite()

	select {
	case <-moveDone:
	case <-time.After(time.Second):
		t.Fatal("move access never granted")
	}
}

// TestWriterReleasePrefersReaders exercises the release dispatch order: on
// write release, a batch of waiting readers is signalled before any
// waiting writer.
func TestWriterReleasePrefersReaders(t *testing.T) {
	n := New()
	n.AcquireWrite()

	var order []string
	var mu sync.Mutex
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		n.AcquireRead()
		record("reader")
		n.ReleaseRead()
	}()
	go func() {
		defer wg.Done()
		n.AcquireWrite()
		record("writer")
		n.ReleaseWrite()
	}()

	// Give both goroutines time to register as waiting before we release.
	time.Sleep(20 * time.Millisecond)
	n.ReleaseWrite()
	wg.Wait()

	assert.Equal(t, []string{"reader", "writer"}, order)
}
