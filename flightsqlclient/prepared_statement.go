package flightsqlclient

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/arrowlane/flightsql/command"
)

// PreparedStatement is a handle to a server-side prepared statement (§4.4,
// §4.5). It is not safe for concurrent use: the server enforces exclusion
// per handle and returns HandleBusyError if two binds race, so callers
// should serialize their own calls rather than relying on the server to
// queue them.
type PreparedStatement struct {
	client        *Client
	handle        []byte
	DatasetSchema *arrow.Schema
	ParamSchema   *arrow.Schema

	bound arrow.Record
}

// Prepare creates a server-side prepared statement for query (§4.4 Create
// transition).
func (c *Client) Prepare(ctx context.Context, query string) (*PreparedStatement, error) {
	stream, err := c.home.DoAction(ctx, &flight.Action{
		Type: "CreatePreparedStatement",
		Body: command.Pack(command.ActionCreatePreparedStatementRequest{Query: query}),
	})
	if err != nil {
		return nil, fmt.Errorf("flightsqlclient: DoAction CreatePreparedStatement: %w", err)
	}
	res, err := stream.Recv()
	if err != nil {
		return nil, fmt.Errorf("flightsqlclient: recv CreatePreparedStatement result: %w", err)
	}
	v, err := command.UnpackVariant(res.Body)
	if err != nil {
		return nil, fmt.Errorf("flightsqlclient: decode CreatePreparedStatement result: %w", err)
	}
	result, ok := v.(command.ActionCreatePreparedStatementResult)
	if !ok {
		return nil, fmt.Errorf("flightsqlclient: expected ActionCreatePreparedStatementResult, got %T", v)
	}

	ps := &PreparedStatement{client: c, handle: result.PreparedStatementHandle}
	if len(result.DatasetSchema) > 0 {
		if ps.DatasetSchema, err = flight.DeserializeSchema(result.DatasetSchema, c.alloc); err != nil {
			return nil, fmt.Errorf("flightsqlclient: deserialize dataset schema: %w", err)
		}
	}
	if len(result.ParameterSchema) > 0 {
		if ps.ParamSchema, err = flight.DeserializeSchema(result.ParameterSchema, c.alloc); err != nil {
			return nil, fmt.Errorf("flightsqlclient: deserialize parameter schema: %w", err)
		}
	}
	return ps, nil
}

// SetParameters stages params as the parameter batch for the next Execute
// or ExecuteUpdate call. It is retained until the statement is closed or
// SetParameters is called again; callers must Release their own copy.
func (ps *PreparedStatement) SetParameters(params arrow.Record) {
	if ps.bound != nil {
		ps.bound.Release()
	}
	params.Retain()
	ps.bound = params
}

func (ps *PreparedStatement) bindAndSend(ctx context.Context, cmd command.Variant) error {
	if ps.bound == nil {
		return nil
	}
	stream, err := ps.client.home.DoPut(ctx)
	if err != nil {
		return fmt.Errorf("flightsqlclient: DoPut: %w", err)
	}
	desc := &flight.FlightDescriptor{Type: flight.DescriptorCMD, Cmd: command.Pack(cmd)}
	w := flight.NewRecordWriter(stream, ipc.WithSchema(ps.bound.Schema()))
	w.SetFlightDescriptor(desc)
	if err := w.Write(ps.bound); err != nil {
		return fmt.Errorf("flightsqlclient: write bind batch: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("flightsqlclient: close bind writer: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return fmt.Errorf("flightsqlclient: close send: %w", err)
	}
	// Wait for the server to finish the bind before the caller goes on to
	// execute against the same handle.
	for {
		if _, err := stream.Recv(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// Execute binds any staged parameters and runs the prepared query,
// returning its FlightInfo (§4.4 Bind/Execute transitions).
func (ps *PreparedStatement) Execute(ctx context.Context) (*flight.FlightInfo, error) {
	if err := ps.bindAndSend(ctx, command.PreparedStatementQuery{PreparedStatementHandle: ps.handle}); err != nil {
		return nil, err
	}
	desc := &flight.FlightDescriptor{
		Type: flight.DescriptorCMD,
		Cmd:  command.Pack(command.PreparedStatementQuery{PreparedStatementHandle: ps.handle}),
	}
	return ps.client.home.GetFlightInfo(ctx, desc)
}

// ExecuteUpdate binds any staged parameters and runs the prepared update,
// returning the affected row count (§4.4).
func (ps *PreparedStatement) ExecuteUpdate(ctx context.Context) (int64, error) {
	stream, err := ps.client.home.DoPut(ctx)
	if err != nil {
		return 0, fmt.Errorf("flightsqlclient: DoPut: %w", err)
	}
	desc := &flight.FlightDescriptor{
		Type: flight.DescriptorCMD,
		Cmd:  command.Pack(command.PreparedStatementUpdate{PreparedStatementHandle: ps.handle}),
	}
	if ps.bound != nil {
		w := flight.NewRecordWriter(stream, ipc.WithSchema(ps.bound.Schema()))
		w.SetFlightDescriptor(desc)
		if err := w.Write(ps.bound); err != nil {
			return 0, fmt.Errorf("flightsqlclient: write bind batch: %w", err)
		}
		if err := w.Close(); err != nil {
			return 0, fmt.Errorf("flightsqlclient: close bind writer: %w", err)
		}
	} else {
		// No parameters: send a schema-only stream so the server's record
		// reader still finds the descriptor on a schema message.
		w := flight.NewRecordWriter(stream, ipc.WithSchema(arrow.NewSchema(nil, nil)))
		w.SetFlightDescriptor(desc)
		if err := w.Close(); err != nil {
			return 0, fmt.Errorf("flightsqlclient: send update descriptor: %w", err)
		}
	}
	if err := stream.CloseSend(); err != nil {
		return 0, fmt.Errorf("flightsqlclient: close send: %w", err)
	}
	return readUpdateResult(stream)
}

// Close releases the staged parameter batch and tells the server to
// discard the prepared statement (§4.4 Close transition). Idempotent:
// calling it again after the handle is already closed is a no-op.
func (ps *PreparedStatement) Close(ctx context.Context) error {
	if ps.bound != nil {
		ps.bound.Release()
		ps.bound = nil
	}
	stream, err := ps.client.home.DoAction(ctx, &flight.Action{
		Type: "ClosePreparedStatement",
		Body: command.Pack(command.ActionClosePreparedStatementRequest{PreparedStatementHandle: ps.handle}),
	})
	if err != nil {
		return fmt.Errorf("flightsqlclient: DoAction ClosePreparedStatement: %w", err)
	}
	for {
		if _, err := stream.Recv(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
