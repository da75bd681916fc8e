package flightsql

import (
	"context"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"

	"github.com/arrowlane/flightsql/command"
	"github.com/arrowlane/flightsql/resultschema"
)

// MaxGRPCMessageSize bounds the size of a single Flight gRPC message in
// either direction, passed to grpc.MaxRecvMsgSize/MaxSendMsgSize when
// constructing the server (see main.go). Record batches can be large, so
// this is generous rather than close to the protocol's framing overhead.
const MaxGRPCMessageSize = 1 << 30 // 1GB

// annotatePeer tags span with the calling peer's remote address and the
// number of incoming metadata keys, the same per-call
// inspection the teacher's Flight ingress performs for its session
// lookup, here used for tracing rather than authentication since this
// engine has no session/auth layer of its own.
func annotatePeer(ctx context.Context, span trace.Span) {
	if p, ok := peer.FromContext(ctx); ok && p != nil && p.Addr != nil {
		span.SetAttributes(attribute.String("net.peer.addr", p.Addr.String()))
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		span.SetAttributes(attribute.Int("rpc.incoming_metadata_keys", len(md)))
	}
}

// Config bounds the server's in-memory handle caches (§4.4, §B
// Configuration).
type Config struct {
	PreparedStatementCacheSize int
	PreparedStatementIdleTTL   time.Duration
	AdHocStatementCacheSize    int
	AdHocStatementIdleTTL      time.Duration
}

func (c Config) withDefaults() Config {
	if c.PreparedStatementCacheSize <= 0 {
		c.PreparedStatementCacheSize = 100
	}
	if c.PreparedStatementIdleTTL <= 0 {
		c.PreparedStatementIdleTTL = 10 * time.Minute
	}
	if c.AdHocStatementCacheSize <= 0 {
		c.AdHocStatementCacheSize = 100
	}
	if c.AdHocStatementIdleTTL <= 0 {
		c.AdHocStatementIdleTTL = time.Minute
	}
	return c
}

// Server is the Flight SQL dispatcher (§4.3): it implements the generic
// flight.FlightServiceServer interface by decoding command envelopes with
// package command and routing each one to a Backend, turning the result
// back into Arrow Flight responses.
type Server struct {
	flight.BaseFlightServer

	backend  Backend
	alloc    memory.Allocator
	prepared *preparedStatements
	adhoc    *adHocStatements
	tracer   trace.Tracer
}

// NewServer builds a dispatcher over backend. The returned *Server
// implements flight.FlightServiceServer and is ready to be passed to
// flight.NewServerWithMiddleware(...).RegisterFlightService.
func NewServer(backend Backend, cfg Config) *Server {
	cfg = cfg.withDefaults()
	return &Server{
		backend:  backend,
		alloc:    memory.NewGoAllocator(),
		prepared: newPreparedStatements(backend, cfg.PreparedStatementCacheSize, cfg.PreparedStatementIdleTTL),
		adhoc:    newAdHocStatements(cfg.AdHocStatementCacheSize, cfg.AdHocStatementIdleTTL),
		tracer:   otel.Tracer("github.com/arrowlane/flightsql"),
	}
}

func (s *Server) infoFor(desc *flight.FlightDescriptor, ticket []byte, schema *arrow.Schema) *flight.FlightInfo {
	var schemaBytes []byte
	if schema != nil {
		schemaBytes = flight.SerializeSchema(schema, s.alloc)
	}
	return &flight.FlightInfo{
		Schema:           schemaBytes,
		FlightDescriptor: desc,
		Endpoint: []*flight.FlightEndpoint{{
			Ticket: &flight.Ticket{Ticket: ticket},
		}},
		TotalRecords: -1,
		TotalBytes:   -1,
	}
}

// GetFlightInfo routes every command variant that can appear in a
// FlightDescriptor to its handler, mirroring the authoritative
// getFlightInfo dispatch table (§4.3, §6).
func (s *Server) GetFlightInfo(ctx context.Context, desc *flight.FlightDescriptor) (*flight.FlightInfo, error) {
	ctx, span := s.tracer.Start(ctx, "GetFlightInfo")
	defer span.End()
	annotatePeer(ctx, span)

	v, err := command.UnpackVariant(desc.Cmd)
	if err != nil {
		return nil, toStatus(&InvalidRequestError{Reason: err.Error()})
	}

	switch cmd := v.(type) {
	case command.StatementQuery:
		return s.getFlightInfoStatement(ctx, cmd, desc)
	case command.PreparedStatementQuery:
		return s.getFlightInfoPreparedStatement(ctx, cmd, desc)
	case command.GetCatalogs:
		return s.infoFor(desc, desc.Cmd, resultschema.Catalogs), nil
	case command.GetSchemas:
		return s.infoFor(desc, desc.Cmd, resultschema.DBSchemas), nil
	case command.GetTables:
		return s.infoFor(desc, desc.Cmd, tablesSchemaFor(cmd.IncludeSchema)), nil
	case command.GetTableTypes:
		return s.infoFor(desc, desc.Cmd, resultschema.TableTypes), nil
	case command.GetSqlInfo:
		return s.infoFor(desc, desc.Cmd, resultschema.SqlInfo), nil
	case command.GetPrimaryKeys:
		return s.infoFor(desc, desc.Cmd, resultschema.PrimaryKeys), nil
	case command.GetImportedKeys:
		return s.infoFor(desc, desc.Cmd, resultschema.ImportedKeys), nil
	case command.GetExportedKeys:
		return s.infoFor(desc, desc.Cmd, resultschema.ExportedKeys), nil
	case command.GetCrossReference:
		return s.infoFor(desc, desc.Cmd, resultschema.CrossReference), nil
	default:
		return nil, toStatus(&InvalidRequestError{Reason: "command not valid for GetFlightInfo"})
	}
}

// GetSchema answers the schema-only counterpart to GetFlightInfo
// (SPEC_FULL §C.1): same routing, but only the Arrow schema is serialized.
func (s *Server) GetSchema(ctx context.Context, desc *flight.FlightDescriptor) (*flight.SchemaResult, error) {
	info, err := s.GetFlightInfo(ctx, desc)
	if err != nil {
		return nil, err
	}
	return &flight.SchemaResult{Schema: info.Schema}, nil
}

func (s *Server) getFlightInfoStatement(ctx context.Context, cmd command.StatementQuery, desc *flight.FlightDescriptor) (*flight.FlightInfo, error) {
	schema, err := s.backend.PrepareQuerySchema(ctx, cmd.Query)
	if err != nil {
		return nil, toStatus(&BackendError{Err: err})
	}
	handle := s.adhoc.create(cmd.Query)
	ticket := command.Pack(command.TicketStatementQuery{StatementHandle: handle})
	return s.infoFor(desc, ticket, schema), nil
}

func (s *Server) getFlightInfoPreparedStatement(ctx context.Context, cmd command.PreparedStatementQuery, desc *flight.FlightDescriptor) (*flight.FlightInfo, error) {
	ps, err := s.prepared.acquire(string(cmd.PreparedStatementHandle))
	if err != nil {
		return nil, toStatus(err)
	}
	defer s.prepared.release(ps)
	if ps.params != nil && ps.params.NumFields() > 0 && ps.state != preparedBound {
		return nil, toStatus(&SchemaMismatchError{Reason: "parameters required but not bound"})
	}
	return s.infoFor(desc, command.Pack(cmd), ps.dataset), nil
}

// DoGet streams the result of whatever ticket names, mirroring the
// authoritative getStream dispatch table (§4.3, §6).
func (s *Server) DoGet(tkt *flight.Ticket, stream flight.FlightService_DoGetServer) error {
	ctx, span := s.tracer.Start(stream.Context(), "DoGet")
	defer span.End()
	annotatePeer(ctx, span)

	v, err := command.UnpackVariant(tkt.Ticket)
	if err != nil {
		return toStatus(&InvalidRequestError{Reason: err.Error()})
	}

	switch cmd := v.(type) {
	case command.TicketStatementQuery:
		return s.doGetStatement(ctx, cmd, stream)
	case command.PreparedStatementQuery:
		return s.doGetPreparedStatement(ctx, cmd, stream)
	case command.GetCatalogs:
		return s.doGetCatalogs(ctx, stream)
	case command.GetSchemas:
		return s.doGetSchemas(ctx, cmd, stream)
	case command.GetTables:
		return s.doGetTables(ctx, cmd, stream)
	case command.GetTableTypes:
		return s.doGetTableTypes(ctx, stream)
	case command.GetSqlInfo:
		return s.doGetSqlInfo(ctx, cmd, stream)
	case command.GetPrimaryKeys:
		return s.doGetPrimaryKeys(ctx, cmd, stream)
	case command.GetImportedKeys:
		return s.doGetImportedKeys(ctx, cmd, stream)
	case command.GetExportedKeys:
		return s.doGetExportedKeys(ctx, cmd, stream)
	case command.GetCrossReference:
		return s.doGetCrossReference(ctx, cmd, stream)
	default:
		return toStatus(&InvalidRequestError{Reason: "command not valid for DoGet"})
	}
}

func (s *Server) doGetStatement(ctx context.Context, cmd command.TicketStatementQuery, stream flight.FlightService_DoGetServer) error {
	query, err := s.adhoc.take(cmd.StatementHandle)
	if err != nil {
		return toStatus(err)
	}
	schema, rs, err := s.backend.ExecuteQuery(ctx, query)
	if err != nil {
		return toStatus(&BackendError{Err: err})
	}
	return s.streamRecords(stream, schema, rs)
}

func (s *Server) doGetPreparedStatement(ctx context.Context, cmd command.PreparedStatementQuery, stream flight.FlightService_DoGetServer) error {
	ps, err := s.prepared.acquire(string(cmd.PreparedStatementHandle))
	if err != nil {
		return toStatus(err)
	}
	defer s.prepared.release(ps)
	if ps.params != nil && ps.params.NumFields() > 0 && ps.state != preparedBound {
		return toStatus(&SchemaMismatchError{Reason: "parameters required but not bound"})
	}
	schema, rs, err := s.backend.Execute(ctx, ps.backendHandle)
	if err != nil {
		return toStatus(&BackendError{Err: err})
	}
	ps.dataset = schema
	return s.streamRecords(stream, schema, rs)
}

func (s *Server) doGetCatalogs(ctx context.Context, stream flight.FlightService_DoGetServer) error {
	h, ok := s.backend.(CatalogsHandler)
	if !ok {
		return toStatus(&NotImplementedError{Command: "CommandGetCatalogs"})
	}
	names, err := h.ListCatalogs(ctx)
	if err != nil {
		return toStatus(&BackendError{Err: err})
	}
	return s.streamOneRecord(stream, catalogsRecord(s.alloc, names))
}

func (s *Server) doGetSchemas(ctx context.Context, cmd command.GetSchemas, stream flight.FlightService_DoGetServer) error {
	h, ok := s.backend.(SchemasHandler)
	if !ok {
		return toStatus(&NotImplementedError{Command: "CommandGetSchemas"})
	}
	rows, err := h.ListSchemas(ctx, cmd.Catalog, cmd.SchemaFilterPattern)
	if err != nil {
		return toStatus(&BackendError{Err: err})
	}
	return s.streamOneRecord(stream, schemasRecord(s.alloc, rows))
}

func (s *Server) doGetTables(ctx context.Context, cmd command.GetTables, stream flight.FlightService_DoGetServer) error {
	h, ok := s.backend.(TablesHandler)
	if !ok {
		return toStatus(&NotImplementedError{Command: "CommandGetTables"})
	}
	rows, err := h.ListTables(ctx, cmd.Catalog, cmd.SchemaFilterPattern, cmd.TableNameFilterPattern, cmd.TableTypes, cmd.IncludeSchema)
	if err != nil {
		return toStatus(&BackendError{Err: err})
	}
	return s.streamOneRecord(stream, tablesRecord(s.alloc, rows, cmd.IncludeSchema))
}

func (s *Server) doGetTableTypes(ctx context.Context, stream flight.FlightService_DoGetServer) error {
	h, ok := s.backend.(TableTypesHandler)
	if !ok {
		return toStatus(&NotImplementedError{Command: "CommandGetTableTypes"})
	}
	types, err := h.ListTableTypes(ctx)
	if err != nil {
		return toStatus(&BackendError{Err: err})
	}
	return s.streamOneRecord(stream, tableTypesRecord(s.alloc, types))
}

func (s *Server) doGetSqlInfo(ctx context.Context, cmd command.GetSqlInfo, stream flight.FlightService_DoGetServer) error {
	h, ok := s.backend.(SqlInfoHandler)
	if !ok {
		return toStatus(&NotImplementedError{Command: "CommandGetSqlInfo"})
	}
	values, err := h.GetSqlInfo(ctx, cmd.Info)
	if err != nil {
		return toStatus(&BackendError{Err: err})
	}
	codes := cmd.Info
	if len(codes) == 0 {
		codes = resultschema.AllSqlInfoCodes
	}
	return s.streamOneRecord(stream, sqlInfoRecord(s.alloc, codes, values))
}

func (s *Server) doGetPrimaryKeys(ctx context.Context, cmd command.GetPrimaryKeys, stream flight.FlightService_DoGetServer) error {
	h, ok := s.backend.(PrimaryKeysHandler)
	if !ok {
		return toStatus(&NotImplementedError{Command: "CommandGetPrimaryKeys"})
	}
	rows, err := h.GetPrimaryKeys(ctx, cmd.Catalog, cmd.Schema, cmd.Table)
	if err != nil {
		return toStatus(&BackendError{Err: err})
	}
	return s.streamOneRecord(stream, primaryKeysRecord(s.alloc, rows))
}

func (s *Server) doGetImportedKeys(ctx context.Context, cmd command.GetImportedKeys, stream flight.FlightService_DoGetServer) error {
	h, ok := s.backend.(ImportedKeysHandler)
	if !ok {
		return toStatus(&NotImplementedError{Command: "CommandGetImportedKeys"})
	}
	rows, err := h.GetImportedKeys(ctx, cmd.Catalog, cmd.Schema, cmd.Table)
	if err != nil {
		return toStatus(&BackendError{Err: err})
	}
	return s.streamOneRecord(stream, foreignKeysRecord(s.alloc, resultschema.ImportedKeys, rows))
}

func (s *Server) doGetExportedKeys(ctx context.Context, cmd command.GetExportedKeys, stream flight.FlightService_DoGetServer) error {
	h, ok := s.backend.(ExportedKeysHandler)
	if !ok {
		return toStatus(&NotImplementedError{Command: "CommandGetExportedKeys"})
	}
	rows, err := h.GetExportedKeys(ctx, cmd.Catalog, cmd.Schema, cmd.Table)
	if err != nil {
		return toStatus(&BackendError{Err: err})
	}
	return s.streamOneRecord(stream, foreignKeysRecord(s.alloc, resultschema.ExportedKeys, rows))
}

func (s *Server) doGetCrossReference(ctx context.Context, cmd command.GetCrossReference, stream flight.FlightService_DoGetServer) error {
	h, ok := s.backend.(CrossReferenceHandler)
	if !ok {
		return toStatus(&NotImplementedError{Command: "CommandGetCrossReference"})
	}
	rows, err := h.GetCrossReference(ctx, cmd.PKCatalog, cmd.PKSchema, cmd.PKTable, cmd.FKCatalog, cmd.FKSchema, cmd.FKTable)
	if err != nil {
		return toStatus(&BackendError{Err: err})
	}
	return s.streamOneRecord(stream, foreignKeysRecord(s.alloc, resultschema.CrossReference, rows))
}

func (s *Server) streamRecords(stream flight.FlightService_DoGetServer, schema *arrow.Schema, rs RecordStream) error {
	defer rs.Close()
	w := flight.NewRecordWriter(stream, ipc.WithSchema(schema))
	defer w.Close()
	for {
		rec, err := rs.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return toStatus(&BackendError{Err: err})
		}
		werr := w.Write(rec)
		rec.Release()
		if werr != nil {
			return toStatus(&BackendError{Err: werr})
		}
	}
}

func (s *Server) streamOneRecord(stream flight.FlightService_DoGetServer, rec arrow.Record) error {
	defer rec.Release()
	w := flight.NewRecordWriter(stream, ipc.WithSchema(rec.Schema()))
	defer w.Close()
	return w.Write(rec)
}
