package sqlite

import (
	"context"
	"io"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
)

func newSeededBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	if err := b.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return b
}

func drainStream(t *testing.T, stream interface {
	Next() (arrow.Record, error)
	Close() error
}) []arrow.Record {
	t.Helper()
	defer stream.Close()
	var out []arrow.Record
	for {
		rec, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, rec)
	}
	return out
}

func TestExecuteQueryReturnsSeededRows(t *testing.T) {
	b := newSeededBackend(t)
	ctx := context.Background()

	schema, stream, err := b.ExecuteQuery(ctx, "SELECT id, keyName, value FROM intTable ORDER BY id")
	if err != nil {
		t.Fatalf("ExecuteQuery: %v", err)
	}
	if schema.NumFields() != 3 {
		t.Fatalf("schema has %d fields, want 3", schema.NumFields())
	}

	records := drainStream(t, stream)
	var total int64
	for _, rec := range records {
		total += rec.NumRows()
	}
	if total != 3 {
		t.Fatalf("got %d rows, want 3", total)
	}
}

func TestPrepareQuerySchemaSkipsParameterizedQueries(t *testing.T) {
	b := newSeededBackend(t)
	ctx := context.Background()

	schema, err := b.PrepareQuerySchema(ctx, "SELECT * FROM intTable WHERE id = ?")
	if err != nil {
		t.Fatalf("PrepareQuerySchema: %v", err)
	}
	if schema != nil {
		t.Fatal("expected nil schema for a parameterized query")
	}

	schema, err = b.PrepareQuerySchema(ctx, "SELECT * FROM intTable")
	if err != nil {
		t.Fatalf("PrepareQuerySchema: %v", err)
	}
	if schema == nil || schema.NumFields() != 4 {
		t.Fatalf("unexpected schema for unparameterized query: %v", schema)
	}
}

func TestExecuteUpdateReturnsAffectedRowCount(t *testing.T) {
	b := newSeededBackend(t)
	ctx := context.Background()

	n, err := b.ExecuteUpdate(ctx, "UPDATE intTable SET value = value + 1 WHERE foreignId = 1")
	if err != nil {
		t.Fatalf("ExecuteUpdate: %v", err)
	}
	if n != 3 {
		t.Fatalf("got %d affected rows, want 3", n)
	}
}

func TestPreparedStatementLifecycleQuery(t *testing.T) {
	b := newSeededBackend(t)
	ctx := context.Background()

	handle, dataset, params, err := b.Prepare(ctx, "SELECT keyName FROM intTable WHERE value = ?")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if dataset != nil {
		t.Fatal("expected nil dataset schema for a parameterized query")
	}
	if params == nil || params.NumFields() != 1 {
		t.Fatalf("unexpected param schema: %v", params)
	}

	paramRecord := buildInt64ParamRecord(t, 1)
	defer paramRecord.Release()

	if err := b.Bind(ctx, handle, paramRecord); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	schema, stream, err := b.Execute(ctx, handle)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if schema.NumFields() != 1 {
		t.Fatalf("got %d fields, want 1", schema.NumFields())
	}
	records := drainStream(t, stream)
	var total int64
	for _, rec := range records {
		total += rec.NumRows()
	}
	if total != 1 {
		t.Fatalf("got %d rows, want 1", total)
	}

	if err := b.Close(ctx, handle); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestPreparedStatementLifecycleUpdate(t *testing.T) {
	b := newSeededBackend(t)
	ctx := context.Background()

	handle, _, params, err := b.Prepare(ctx, "UPDATE intTable SET value = ? WHERE keyName = 'one'")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if params == nil || params.NumFields() != 1 {
		t.Fatalf("unexpected param schema: %v", params)
	}

	paramRecord := buildInt64ParamRecord(t, 42)
	defer paramRecord.Release()
	if err := b.Bind(ctx, handle, paramRecord); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	n, err := b.ExecuteUpdate(ctx, handle)
	if err != nil {
		t.Fatalf("ExecuteUpdate: %v", err)
	}
	if n != 1 {
		t.Fatalf("got %d affected rows, want 1", n)
	}

	if err := b.Close(ctx, handle); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
