package flightsql

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// InvalidRequestError means a command envelope decoded but its contents
// were not a request the dispatcher could act on (§7).
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string { return "invalid request: " + e.Reason }

// NotImplementedError means the backend has no handler for this command
// variant (§7, §4.3 capability-interface dispatch).
type NotImplementedError struct {
	Command string
}

func (e *NotImplementedError) Error() string { return "not implemented: " + e.Command }

// HandleNotFoundError means a prepared-statement or ad-hoc-statement handle
// did not resolve to a live entry — never prepared, already closed, or
// expired (§7).
type HandleNotFoundError struct {
	Handle string
}

func (e *HandleNotFoundError) Error() string { return fmt.Sprintf("handle not found: %q", e.Handle) }

// HandleBusyError means a concurrent call already holds the handle's
// exclusivity lease (§5, §7).
type HandleBusyError struct {
	Handle string
}

func (e *HandleBusyError) Error() string { return fmt.Sprintf("handle busy: %q", e.Handle) }

// SchemaMismatchError means an uploaded parameter batch's schema did not
// match the prepared statement's declared parameter schema (§4.4 "parameter
// schema gate").
type SchemaMismatchError struct {
	Reason string
}

func (e *SchemaMismatchError) Error() string { return "schema mismatch: " + e.Reason }

// BackendError wraps any error a SqlBackend returned while actually
// executing a statement, as opposed to an error in the protocol exchange
// around it (§7).
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string { return "backend error: " + e.Err.Error() }
func (e *BackendError) Unwrap() error { return e.Err }

// toStatus maps this package's error taxonomy onto gRPC status codes
// (§7's error-class table), the way flightsqlingress/ingress.go maps its
// own error returns to codes.Code via status.Errorf.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var (
		invalidReq     *InvalidRequestError
		notImplemented *NotImplementedError
		handleNotFound *HandleNotFoundError
		handleBusy     *HandleBusyError
		schemaMismatch *SchemaMismatchError
		backendErr     *BackendError
	)
	switch {
	case errors.As(err, &invalidReq):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &notImplemented):
		return status.Error(codes.Unimplemented, err.Error())
	case errors.As(err, &handleNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &handleBusy):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &schemaMismatch):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &backendErr):
		return status.Error(codes.Internal, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
