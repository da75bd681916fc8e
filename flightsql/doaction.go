package flightsql

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/flight"

	"github.com/arrowlane/flightsql/command"
)

const (
	actionCreatePreparedStatement = "CreatePreparedStatement"
	actionClosePreparedStatement  = "ClosePreparedStatement"
)

// ListActions returns exactly the two prepared-statement actions (§4.3,
// §6, SPEC_FULL §C.2 — implemented literally, including the reference
// producer's human-readable descriptions).
func (s *Server) ListActions(_ *flight.Empty, stream flight.FlightService_ListActionsServer) error {
	actions := []*flight.ActionType{
		{Type: actionCreatePreparedStatement, Description: "Creates a reusable prepared statement resource on the server."},
		{Type: actionClosePreparedStatement, Description: "Closes a reusable prepared statement resource on the server."},
	}
	for _, a := range actions {
		if err := stream.Send(a); err != nil {
			return err
		}
	}
	return nil
}

// DoAction dispatches by action type, mirroring the authoritative doAction
// dispatch table (§4.3, §4.4).
func (s *Server) DoAction(action *flight.Action, stream flight.FlightService_DoActionServer) error {
	ctx, span := s.tracer.Start(stream.Context(), "DoAction:"+action.Type)
	defer span.End()
	annotatePeer(ctx, span)

	switch action.Type {
	case actionCreatePreparedStatement:
		return s.doCreatePreparedStatement(ctx, action, stream)
	case actionClosePreparedStatement:
		return s.doClosePreparedStatement(ctx, action, stream)
	default:
		return toStatus(&NotImplementedError{Command: action.Type})
	}
}

func (s *Server) doCreatePreparedStatement(ctx context.Context, action *flight.Action, stream flight.FlightService_DoActionServer) error {
	v, err := command.UnpackVariant(action.Body)
	if err != nil {
		return toStatus(&InvalidRequestError{Reason: err.Error()})
	}
	req, ok := v.(command.ActionCreatePreparedStatementRequest)
	if !ok {
		return toStatus(&InvalidRequestError{Reason: "expected ActionCreatePreparedStatementRequest"})
	}

	ps, err := s.prepared.create(ctx, req.Query)
	if err != nil {
		return toStatus(&BackendError{Err: err})
	}

	result := command.ActionCreatePreparedStatementResult{
		PreparedStatementHandle: []byte(ps.handle),
	}
	if ps.dataset != nil {
		result.DatasetSchema = flight.SerializeSchema(ps.dataset, s.alloc)
	}
	if ps.params != nil {
		result.ParameterSchema = flight.SerializeSchema(ps.params, s.alloc)
	}

	return stream.Send(&flight.Result{Body: command.Pack(result)})
}

func (s *Server) doClosePreparedStatement(ctx context.Context, action *flight.Action, stream flight.FlightService_DoActionServer) error {
	v, err := command.UnpackVariant(action.Body)
	if err != nil {
		return toStatus(&InvalidRequestError{Reason: err.Error()})
	}
	req, ok := v.(command.ActionClosePreparedStatementRequest)
	if !ok {
		return toStatus(&InvalidRequestError{Reason: "expected ActionClosePreparedStatementRequest"})
	}
	if err := s.prepared.close(ctx, string(req.PreparedStatementHandle)); err != nil {
		return toStatus(err)
	}
	return nil
}
