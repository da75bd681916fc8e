package flightsql

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatusMapsErrorTaxonomy(t *testing.T) {
	cases := []struct {
		err  error
		want codes.Code
	}{
		{&InvalidRequestError{Reason: "bad"}, codes.InvalidArgument},
		{&NotImplementedError{Command: "x"}, codes.Unimplemented},
		{&HandleNotFoundError{Handle: "h"}, codes.NotFound},
		{&HandleBusyError{Handle: "h"}, codes.FailedPrecondition},
		{&SchemaMismatchError{Reason: "bad"}, codes.InvalidArgument},
		{&BackendError{Err: errors.New("boom")}, codes.Internal},
		{errors.New("unclassified"), codes.Internal},
	}
	for _, c := range cases {
		got := toStatus(c.err)
		st, ok := status.FromError(got)
		if !ok {
			t.Fatalf("toStatus(%v) did not produce a grpc status", c.err)
		}
		if st.Code() != c.want {
			t.Errorf("toStatus(%v) = %v, want %v", c.err, st.Code(), c.want)
		}
	}
}

func TestToStatusIdempotentOnExistingStatus(t *testing.T) {
	original := status.Error(codes.PermissionDenied, "no")
	if got := toStatus(original); got != original {
		t.Error("toStatus should pass through errors already carrying a grpc status")
	}
}
