// Package flightsqlclient implements the client façade (§4.5): a thin
// layer over the generic Arrow Flight client that knows how to build and
// decode this engine's own command envelopes. It never imports
// arrow/flight/flightsql, the same boundary package/flightsql draws on the
// server side.
package flightsqlclient

import (
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/arrowlane/flightsql/command"
)

// Client is a Flight SQL client for this engine's own command set. It owns
// one gRPC connection to a "home" server and a pool of further connections
// to whatever Locations that server's FlightInfo responses point at (§4.5
// multi-endpoint fan-out).
type Client struct {
	home  flight.Client
	pool  *clientPool
	alloc memory.Allocator
}

// Dial connects to addr and returns a ready Client. addr is a bare
// "host:port" gRPC target; dialOpts are passed through to grpc.NewClient
// (e.g. transport credentials).
func Dial(ctx context.Context, addr string, dialOpts ...grpc.DialOption) (*Client, error) {
	home, err := flight.NewClientWithMiddleware(addr, nil, nil, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("flightsqlclient: dial %s: %w", addr, err)
	}
	return &Client{
		home:  home,
		pool:  newClientPool(dialOpts...),
		alloc: memory.NewGoAllocator(),
	}, nil
}

// Close closes the home connection and every pooled per-Location
// connection opened to satisfy multi-endpoint GetStream calls.
func (c *Client) Close() error {
	c.pool.Close()
	return c.home.Close()
}

// Execute runs query as a query and returns its FlightInfo (§4.5 Execute).
// Use GetStream to fetch each endpoint's results.
func (c *Client) Execute(ctx context.Context, query string) (*flight.FlightInfo, error) {
	desc := &flight.FlightDescriptor{
		Type: flight.DescriptorCMD,
		Cmd:  command.Pack(command.StatementQuery{Query: query}),
	}
	return c.home.GetFlightInfo(ctx, desc)
}

// ExecuteUpdate runs query as a non-query statement and returns the
// backend-reported affected row count, passed through unchanged (§9 Open
// Question: no normalization of negative "unknown" counts).
func (c *Client) ExecuteUpdate(ctx context.Context, query string) (int64, error) {
	stream, err := c.home.DoPut(ctx)
	if err != nil {
		return 0, fmt.Errorf("flightsqlclient: DoPut: %w", err)
	}
	desc := &flight.FlightDescriptor{
		Type: flight.DescriptorCMD,
		Cmd:  command.Pack(command.StatementUpdate{Query: query}),
	}
	// A schema-only stream: the server's record reader expects the
	// descriptor on a schema message, and an update carries no rows.
	w := flight.NewRecordWriter(stream, ipc.WithSchema(arrow.NewSchema(nil, nil)))
	w.SetFlightDescriptor(desc)
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("flightsqlclient: send update descriptor: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return 0, fmt.Errorf("flightsqlclient: close send: %w", err)
	}
	return readUpdateResult(stream)
}

func readUpdateResult(stream flight.FlightService_DoPutClient) (int64, error) {
	res, err := stream.Recv()
	if err != nil {
		return 0, fmt.Errorf("flightsqlclient: recv put result: %w", err)
	}
	v, err := command.UnpackVariant(res.AppMetadata)
	if err != nil {
		return 0, fmt.Errorf("flightsqlclient: decode update result: %w", err)
	}
	result, ok := v.(command.DoPutUpdateResult)
	if !ok {
		return 0, fmt.Errorf("flightsqlclient: expected DoPutUpdateResult, got %T", v)
	}
	return result.RecordCount, nil
}

// GetStream reads every endpoint of info in parallel and merges their
// batches onto a single channel (§4.5 multi-endpoint fan-out). Each
// endpoint's Location, if present, is dialed through the client's
// connection pool rather than the home connection; an endpoint with no
// Location is read from home.
func (c *Client) GetStream(ctx context.Context, info *flight.FlightInfo) (<-chan StreamResult, error) {
	out := make(chan StreamResult)
	g, gctx := errgroup.WithContext(ctx)
	for _, ep := range info.Endpoint {
		ep := ep
		g.Go(func() error {
			return c.streamEndpoint(gctx, ep, out)
		})
	}
	go func() {
		_ = g.Wait()
		close(out)
	}()
	return out, nil
}

// StreamResult is one record batch (or terminal error) from GetStream.
type StreamResult struct {
	Record arrow.Record
	Err    error
}

func (c *Client) streamEndpoint(ctx context.Context, ep *flight.FlightEndpoint, out chan<- StreamResult) error {
	cl, err := c.clientFor(ctx, ep)
	if err != nil {
		select {
		case out <- StreamResult{Err: err}:
		case <-ctx.Done():
		}
		return err
	}

	stream, err := cl.DoGet(ctx, ep.Ticket)
	if err != nil {
		err = fmt.Errorf("flightsqlclient: DoGet: %w", err)
		select {
		case out <- StreamResult{Err: err}:
		case <-ctx.Done():
		}
		return err
	}

	reader, err := flight.NewRecordReader(stream)
	if err != nil {
		err = fmt.Errorf("flightsqlclient: new record reader: %w", err)
		select {
		case out <- StreamResult{Err: err}:
		case <-ctx.Done():
		}
		return err
	}
	defer reader.Release()

	for reader.Next() {
		rec := reader.Record()
		rec.Retain()
		select {
		case out <- StreamResult{Record: rec}:
		case <-ctx.Done():
			rec.Release()
			return ctx.Err()
		}
	}
	if err := reader.Err(); err != nil && err != io.EOF {
		select {
		case out <- StreamResult{Err: err}:
		case <-ctx.Done():
		}
		return err
	}
	return nil
}

// clientFor resolves the connection an endpoint's results should be read
// from: home if it names no Location, otherwise a pooled connection to
// the first Location listed.
func (c *Client) clientFor(ctx context.Context, ep *flight.FlightEndpoint) (flight.Client, error) {
	if len(ep.Location) == 0 {
		return c.home, nil
	}
	return c.pool.get(ctx, ep.Location[0].Uri)
}

// Schema deserializes info's Arrow schema, or returns nil if info carries
// none (e.g. a prepared statement with no dataset schema yet).
func (c *Client) Schema(info *flight.FlightInfo) (*arrow.Schema, error) {
	if len(info.Schema) == 0 {
		return nil, nil
	}
	return flight.DeserializeSchema(info.Schema, c.alloc)
}
