package sqlite

import (
	"context"
	"testing"

	"github.com/arrowlane/flightsql/resultschema"
)

func TestGetSqlInfoReturnsEverythingWhenCodesEmpty(t *testing.T) {
	b := newSeededBackend(t)
	got, err := b.GetSqlInfo(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetSqlInfo: %v", err)
	}
	if len(got) != len(resultschema.AllSqlInfoCodes) {
		t.Fatalf("got %d entries, want %d", len(got), len(resultschema.AllSqlInfoCodes))
	}
	for _, code := range resultschema.AllSqlInfoCodes {
		if _, ok := got[code]; !ok {
			t.Errorf("missing code %d", code)
		}
	}
}

func TestGetSqlInfoFiltersToRequestedCodes(t *testing.T) {
	b := newSeededBackend(t)
	got, err := b.GetSqlInfo(context.Background(), []int32{resultschema.SqlInfoServerName, 999999})
	if err != nil {
		t.Fatalf("GetSqlInfo: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	v, ok := got[resultschema.SqlInfoServerName]
	if !ok || v.Str != serverName {
		t.Fatalf("got %v, want server name %q", v, serverName)
	}
}
