package flightsql

import (
	"errors"
	"testing"
	"time"
)

func TestAdHocStatementsCreateTakeConsumesOnce(t *testing.T) {
	a := newAdHocStatements(10, time.Minute)
	handle := a.create("SELECT 1")

	query, err := a.take(handle)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if query != "SELECT 1" {
		t.Fatalf("take returned %q, want %q", query, "SELECT 1")
	}

	if _, err := a.take(handle); !errors.As(err, new(*HandleNotFoundError)) {
		t.Fatalf("expected HandleNotFoundError on second take, got %v", err)
	}
}

func TestAdHocStatementsUnknownHandle(t *testing.T) {
	a := newAdHocStatements(10, time.Minute)
	if _, err := a.take([]byte("nonexistent")); !errors.As(err, new(*HandleNotFoundError)) {
		t.Fatalf("expected HandleNotFoundError, got %v", err)
	}
}

func TestAdHocStatementsDistinctHandlesPerCreate(t *testing.T) {
	a := newAdHocStatements(10, time.Minute)
	h1 := a.create("SELECT 1")
	h2 := a.create("SELECT 2")
	if string(h1) == string(h2) {
		t.Fatal("expected distinct handles for distinct create calls")
	}
}
