package main

import (
	"context"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/arrowlane/flightsql/flightsql"
	"github.com/arrowlane/flightsql/flightsqlclient"
	"github.com/arrowlane/flightsql/sqlbackend/sqlite"
)

// startTestServer brings up a real TCP-loopback flight.Server wrapping a
// seeded in-memory sqlite.Backend, the same construction main.go performs,
// and returns its listen address; shutting down the server and closing the
// backend is registered with t.Cleanup.
func startTestServer(t *testing.T) string {
	t.Helper()

	backend, err := sqlite.Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	if err := backend.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	srv := flightsql.NewServer(backend, flightsql.Config{})

	flightSrv := flight.NewServerWithMiddleware(nil)
	flightSrv.RegisterFlightService(srv)
	if err := flightSrv.Init("localhost:0"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	go func() { _ = flightSrv.Serve() }()

	t.Cleanup(func() {
		flightSrv.Shutdown()
		backend.Close()
	})

	return flightSrv.Addr().String()
}

func dialTestClient(t *testing.T, addr string) *flightsqlclient.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := flightsqlclient.Dial(ctx, addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func drainClientStream(t *testing.T, ch <-chan flightsqlclient.StreamResult) []arrow.Record {
	t.Helper()
	var out []arrow.Record
	for res := range ch {
		if res.Err != nil {
			t.Fatalf("stream error: %v", res.Err)
		}
		out = append(out, res.Record)
	}
	return out
}

func TestEndToEndAdHocQueryRoundTrip(t *testing.T) {
	addr := startTestServer(t)
	client := dialTestClient(t, addr)
	ctx := context.Background()

	info, err := client.Execute(ctx, "SELECT id, keyName, value FROM intTable ORDER BY id")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	schema, err := client.Schema(info)
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	if schema.NumFields() != 3 {
		t.Fatalf("got %d fields, want 3", schema.NumFields())
	}

	stream, err := client.GetStream(ctx, info)
	if err != nil {
		t.Fatalf("GetStream: %v", err)
	}
	records := drainClientStream(t, stream)

	var total int64
	for _, rec := range records {
		total += rec.NumRows()
		rec.Release()
	}
	if total != 3 {
		t.Fatalf("got %d rows, want 3", total)
	}
}

func TestEndToEndAdHocUpdateRoundTrip(t *testing.T) {
	addr := startTestServer(t)
	client := dialTestClient(t, addr)
	ctx := context.Background()

	n, err := client.ExecuteUpdate(ctx, "UPDATE intTable SET value = value + 10 WHERE foreignId = 1")
	if err != nil {
		t.Fatalf("ExecuteUpdate: %v", err)
	}
	if n != 3 {
		t.Fatalf("got %d affected rows, want 3", n)
	}
}

func TestEndToEndPreparedStatementLifecycle(t *testing.T) {
	addr := startTestServer(t)
	client := dialTestClient(t, addr)
	ctx := context.Background()

	ps, err := client.Prepare(ctx, "SELECT keyName FROM intTable WHERE value = ?")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if ps.ParamSchema == nil || ps.ParamSchema.NumFields() != 1 {
		t.Fatalf("unexpected param schema: %v", ps.ParamSchema)
	}

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), ps.ParamSchema)
	builder.Field(0).(*array.StringBuilder).Append("1")
	params := builder.NewRecord()
	builder.Release()

	ps.SetParameters(params)
	params.Release()

	info, err := ps.Execute(ctx)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	stream, err := client.GetStream(ctx, info)
	if err != nil {
		t.Fatalf("GetStream: %v", err)
	}
	records := drainClientStream(t, stream)
	var total int64
	for _, rec := range records {
		total += rec.NumRows()
		rec.Release()
	}
	if total != 1 {
		t.Fatalf("got %d rows, want 1", total)
	}

	if err := ps.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestEndToEndCatalogsAndTablesMetadata(t *testing.T) {
	addr := startTestServer(t)
	client := dialTestClient(t, addr)
	ctx := context.Background()

	reader, err := client.GetCatalogs(ctx)
	if err != nil {
		t.Fatalf("GetCatalogs: %v", err)
	}
	if reader == nil {
		t.Fatal("expected non-nil catalogs reader")
	}
	defer reader.Release()

	tablesReader, err := client.GetTables(ctx, nil, nil, nil, nil, false)
	if err != nil {
		t.Fatalf("GetTables: %v", err)
	}
	if tablesReader == nil {
		t.Fatal("expected non-nil tables reader")
	}
	defer tablesReader.Release()

	foundTable := false
	for tablesReader.Next() {
		rec := tablesReader.Record()
		nameCol, ok := rec.Column(rec.Schema().FieldIndices("table_name")[0]).(*array.String)
		if !ok {
			continue
		}
		for i := 0; i < nameCol.Len(); i++ {
			if nameCol.Value(i) == "intTable" {
				foundTable = true
			}
		}
	}
	if !foundTable {
		t.Fatal("expected intTable to appear in GetTables results")
	}
}

func TestEndToEndConcurrentPreparedBindExclusion(t *testing.T) {
	addr := startTestServer(t)
	client := dialTestClient(t, addr)
	ctx := context.Background()

	ps, err := client.Prepare(ctx, "SELECT 1")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	defer ps.Close(ctx)

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := ps.Execute(ctx)
			done <- err
		}()
	}
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Logf("concurrent execute returned: %v", err)
		}
	}
}
