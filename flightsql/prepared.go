package flightsql

import (
	"context"
	"sync"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/bluele/gcache"
	"github.com/google/uuid"
)

// preparedState is a prepared statement's position in the Create→Bind→
// Execute→Close lifecycle (§4.4).
type preparedState int

const (
	preparedReady preparedState = iota
	preparedBound
	preparedClosed
)

// preparedStatement is one live handle. Its mutex is the handle's
// exclusivity lease: whoever holds it owns the handle and no concurrent
// call against the same handle can proceed until it's released (§5
// "handle-busy exclusion").
type preparedStatement struct {
	mu sync.Mutex

	handle        string
	backendHandle any
	dataset       *arrow.Schema
	params        *arrow.Schema
	state         preparedState
}

// preparedStatements is the bounded, idle-expiring cache of prepared
// statement handles (§4.4, §5 "shared mutable state"). Eviction — whether
// from the LRU bound or idle-TTL expiry — closes the backend resource
// rather than leaking it, and blocks until any in-flight call against that
// handle releases it first.
type preparedStatements struct {
	backend PreparedStatementHandler
	cache   gcache.Cache
}

func newPreparedStatements(backend PreparedStatementHandler, size int, idleTTL time.Duration) *preparedStatements {
	p := &preparedStatements{backend: backend}
	p.cache = gcache.New(size).
		LRU().
		Expiration(idleTTL).
		EvictedFunc(func(_, v interface{}) {
			ps := v.(*preparedStatement)
			ps.mu.Lock()
			defer ps.mu.Unlock()
			if ps.state == preparedClosed {
				return
			}
			ps.state = preparedClosed
			_ = p.backend.Close(context.Background(), ps.backendHandle)
		}).
		Build()
	return p
}

// create prepares query against the backend and registers a fresh handle.
func (p *preparedStatements) create(ctx context.Context, query string) (*preparedStatement, error) {
	backendHandle, dataset, params, err := p.backend.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	ps := &preparedStatement{
		handle:        uuid.NewString(),
		backendHandle: backendHandle,
		dataset:       dataset,
		params:        params,
		state:         preparedReady,
	}
	if err := p.cache.Set(ps.handle, ps); err != nil {
		_ = p.backend.Close(ctx, backendHandle)
		return nil, err
	}
	return ps, nil
}

// acquire looks up handle and takes its exclusivity lease. The caller must
// call release exactly once, however the call that follows turns out.
func (p *preparedStatements) acquire(handle string) (*preparedStatement, error) {
	v, err := p.cache.Get(handle)
	if err != nil {
		return nil, &HandleNotFoundError{Handle: handle}
	}
	ps := v.(*preparedStatement)
	if !ps.mu.TryLock() {
		return nil, &HandleBusyError{Handle: handle}
	}
	if ps.state == preparedClosed {
		ps.mu.Unlock()
		return nil, &HandleNotFoundError{Handle: handle}
	}
	return ps, nil
}

func (p *preparedStatements) release(ps *preparedStatement) {
	ps.mu.Unlock()
}

// close ends handle's lifecycle and releases its backend resource. It
// blocks until the handle is not currently leased, same as eviction would.
func (p *preparedStatements) close(ctx context.Context, handle string) error {
	v, err := p.cache.Get(handle)
	if err != nil {
		// Closing an unknown handle is a no-op (§4.4, §8 "Close is
		// idempotent") rather than an error, so a handle already closed
		// by a prior call or evicted for idleness can be closed again
		// safely.
		return nil
	}
	ps := v.(*preparedStatement)
	ps.mu.Lock()
	if ps.state == preparedClosed {
		ps.mu.Unlock()
		return nil
	}
	ps.state = preparedClosed
	err = p.backend.Close(ctx, ps.backendHandle)
	ps.mu.Unlock()
	// Remove after unlocking: gcache's EvictedFunc runs inline on this
	// goroutine and re-locks ps.mu itself, so holding the lock across
	// Remove would deadlock against our own eviction hook. The state is
	// already preparedClosed by the time it runs, so it's a no-op there.
	p.cache.Remove(handle)
	return err
}
