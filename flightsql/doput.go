package flightsql

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/flight"

	"github.com/arrowlane/flightsql/command"
)

// DoPut accepts an uploaded batch, mirroring the authoritative acceptPut
// dispatch table (§4.4 Bind/ExecuteUpdate transitions, §6).
func (s *Server) DoPut(stream flight.FlightService_DoPutServer) error {
	ctx, span := s.tracer.Start(stream.Context(), "DoPut")
	defer span.End()
	annotatePeer(ctx, span)

	reader, err := flight.NewRecordReader(stream)
	if err != nil {
		return toStatus(&InvalidRequestError{Reason: err.Error()})
	}
	defer reader.Release()

	desc := reader.LatestFlightDescriptor()
	if desc == nil {
		return toStatus(&InvalidRequestError{Reason: "DoPut requires a FlightDescriptor on the first message"})
	}

	v, err := command.UnpackVariant(desc.Cmd)
	if err != nil {
		return toStatus(&InvalidRequestError{Reason: err.Error()})
	}

	switch cmd := v.(type) {
	case command.StatementUpdate:
		return s.doPutStatementUpdate(ctx, cmd, stream)
	case command.PreparedStatementUpdate:
		return s.doPutPreparedStatementUpdate(ctx, cmd, reader, stream)
	case command.PreparedStatementQuery:
		return s.doPutPreparedStatementQuery(ctx, cmd, reader, stream)
	default:
		return toStatus(&InvalidRequestError{Reason: "command not valid for DoPut"})
	}
}

func (s *Server) sendUpdateResult(stream flight.FlightService_DoPutServer, count int64) error {
	body := command.Pack(command.DoPutUpdateResult{RecordCount: count})
	return stream.Send(&flight.PutResult{AppMetadata: body})
}

func (s *Server) doPutStatementUpdate(ctx context.Context, cmd command.StatementUpdate, stream flight.FlightService_DoPutServer) error {
	count, err := s.backend.ExecuteUpdate(ctx, cmd.Query)
	if err != nil {
		return toStatus(&BackendError{Err: err})
	}
	return s.sendUpdateResult(stream, count)
}

func (s *Server) doPutPreparedStatementUpdate(ctx context.Context, cmd command.PreparedStatementUpdate, reader *flight.Reader, stream flight.FlightService_DoPutServer) error {
	ps, err := s.prepared.acquire(string(cmd.PreparedStatementHandle))
	if err != nil {
		return toStatus(err)
	}
	defer s.prepared.release(ps)

	if err := s.bindFromReader(ctx, ps, reader); err != nil {
		return toStatus(err)
	}

	count, err := s.backend.ExecuteUpdate(ctx, ps.backendHandle)
	if err != nil {
		return toStatus(&BackendError{Err: err})
	}
	ps.state = preparedReady
	return s.sendUpdateResult(stream, count)
}

func (s *Server) doPutPreparedStatementQuery(ctx context.Context, cmd command.PreparedStatementQuery, reader *flight.Reader, stream flight.FlightService_DoPutServer) error {
	ps, err := s.prepared.acquire(string(cmd.PreparedStatementHandle))
	if err != nil {
		return toStatus(err)
	}
	defer s.prepared.release(ps)

	if err := s.bindFromReader(ctx, ps, reader); err != nil {
		return toStatus(err)
	}
	ps.state = preparedBound
	return nil
}

// bindFromReader passes the client's uploaded batches to the backend
// verbatim, one Bind call per batch; it never substitutes placeholder
// values for the ones the client actually sent (§9 correction of the
// reference implementation's hard-coded bind bug).
func (s *Server) bindFromReader(ctx context.Context, ps *preparedStatement, reader *flight.Reader) error {
	for reader.Next() {
		rec := reader.Record()
		if ps.params == nil {
			rec.Release()
			continue
		}
		if !rec.Schema().Equal(ps.params) {
			rec.Release()
			return &SchemaMismatchError{Reason: "bound parameters do not match the prepared statement's parameter schema"}
		}
		err := s.backend.Bind(ctx, ps.backendHandle, rec)
		rec.Release()
		if err != nil {
			return &BackendError{Err: err}
		}
	}
	return reader.Err()
}
