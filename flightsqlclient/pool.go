package flightsqlclient

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/bluele/gcache"
	"google.golang.org/grpc"
)

// clientPool holds one flight.Client per Location URI a FlightInfo
// endpoint has pointed at, dialed lazily and evicted on LRU/TTL pressure
// (§4.5 multi-endpoint fan-out), grounded on the reference ADBC driver's
// per-Location gcache pool.
type clientPool struct {
	cache    gcache.Cache
	dialOpts []grpc.DialOption
}

func newClientPool(dialOpts ...grpc.DialOption) *clientPool {
	p := &clientPool{dialOpts: dialOpts}
	p.cache = gcache.New(32).LRU().
		Expiration(10 * time.Minute).
		LoaderFunc(func(key any) (any, error) {
			uri, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("flightsqlclient: pool key must be a string, got %T", key)
			}
			return flight.NewClientWithMiddleware(uri, nil, nil, p.dialOpts...)
		}).
		EvictedFunc(func(_, v any) {
			if cl, ok := v.(flight.Client); ok {
				cl.Close()
			}
		}).
		// Purge does not run EvictedFunc, so Close needs its own hook.
		PurgeVisitorFunc(func(_, v any) {
			if cl, ok := v.(flight.Client); ok {
				cl.Close()
			}
		}).
		Build()
	return p
}

func (p *clientPool) get(ctx context.Context, uri string) (flight.Client, error) {
	v, err := p.cache.Get(uri)
	if err != nil {
		return nil, fmt.Errorf("flightsqlclient: dial %s: %w", uri, err)
	}
	return v.(flight.Client), nil
}

// Close evicts and closes every pooled connection.
func (p *clientPool) Close() {
	p.cache.Purge()
}
