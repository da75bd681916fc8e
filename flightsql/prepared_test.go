package flightsql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
)

type fakePreparedBackend struct {
	closed   []any
	bound    []arrow.Record
	execErr  error
	updateN  int64
}

func (f *fakePreparedBackend) PrepareQuerySchema(ctx context.Context, query string) (*arrow.Schema, error) {
	return nil, nil
}

func (f *fakePreparedBackend) ExecuteQuery(ctx context.Context, query string) (*arrow.Schema, RecordStream, error) {
	return nil, nil, nil
}

func (f *fakePreparedBackend) ExecuteUpdate(ctx context.Context, query string) (int64, error) {
	return 0, nil
}

func (f *fakePreparedBackend) Prepare(ctx context.Context, query string) (any, *arrow.Schema, *arrow.Schema, error) {
	return query, nil, nil, nil
}

func (f *fakePreparedBackend) Bind(ctx context.Context, backendHandle any, params arrow.Record) error {
	f.bound = append(f.bound, params)
	return nil
}

func (f *fakePreparedBackend) Execute(ctx context.Context, backendHandle any) (*arrow.Schema, RecordStream, error) {
	return nil, nil, f.execErr
}

func (f *fakePreparedBackend) ExecuteUpdateHandle(ctx context.Context, backendHandle any) (int64, error) {
	return f.updateN, f.execErr
}

func (f *fakePreparedBackend) Close(ctx context.Context, backendHandle any) error {
	f.closed = append(f.closed, backendHandle)
	return nil
}

func TestPreparedStatementsCreateAcquireClose(t *testing.T) {
	backend := &fakePreparedBackend{}
	p := newPreparedStatements(preparedHandlerAdapter{backend}, 10, time.Minute)

	ps, err := p.create(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	acquired, err := p.acquire(ps.handle)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if acquired != ps {
		t.Fatal("acquire returned a different statement")
	}

	if _, err := p.acquire(ps.handle); !errors.As(err, new(*HandleBusyError)) {
		t.Fatalf("expected HandleBusyError while leased, got %v", err)
	}

	p.release(acquired)

	if err := p.close(context.Background(), ps.handle); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(backend.closed) != 1 {
		t.Fatalf("expected backend Close to run once, ran %d times", len(backend.closed))
	}

	if _, err := p.acquire(ps.handle); !errors.As(err, new(*HandleNotFoundError)) {
		t.Fatalf("expected HandleNotFoundError after close, got %v", err)
	}
}

func TestPreparedStatementsUnknownHandle(t *testing.T) {
	backend := &fakePreparedBackend{}
	p := newPreparedStatements(preparedHandlerAdapter{backend}, 10, time.Minute)

	if _, err := p.acquire("nonexistent"); !errors.As(err, new(*HandleNotFoundError)) {
		t.Fatalf("expected HandleNotFoundError, got %v", err)
	}
}

func TestPreparedStatementsCloseIsIdempotent(t *testing.T) {
	backend := &fakePreparedBackend{}
	p := newPreparedStatements(preparedHandlerAdapter{backend}, 10, time.Minute)

	ps, err := p.create(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := p.close(context.Background(), ps.handle); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := p.close(context.Background(), ps.handle); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
	if err := p.close(context.Background(), "never-existed"); err != nil {
		t.Fatalf("close of an unknown handle should be a no-op, got %v", err)
	}
	if len(backend.closed) != 1 {
		t.Fatalf("expected backend Close to run once, ran %d times", len(backend.closed))
	}
}

// preparedHandlerAdapter narrows fakePreparedBackend (which also satisfies
// StatementHandler for convenience) down to PreparedStatementHandler.
type preparedHandlerAdapter struct {
	*fakePreparedBackend
}

func (a preparedHandlerAdapter) ExecuteUpdate(ctx context.Context, backendHandle any) (int64, error) {
	return a.fakePreparedBackend.ExecuteUpdateHandle(ctx, backendHandle)
}
