package sqlite

import (
	"database/sql"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

const defaultBatchSize = 1024

// rowStream adapts *sql.Rows to flightsql.RecordStream: it pulls
// defaultBatchSize rows at a time and converts each batch to Arrow
// on demand, rather than buffering the whole result set in memory.
type rowStream struct {
	rows   *sql.Rows
	schema *arrow.Schema
	alloc  memory.Allocator
}

func newRowStream(alloc memory.Allocator, rows *sql.Rows, schema *arrow.Schema) *rowStream {
	return &rowStream{rows: rows, schema: schema, alloc: alloc}
}

func (s *rowStream) Next() (arrow.Record, error) {
	rec, err := rowsToRecord(s.alloc, s.rows, s.schema, defaultBatchSize)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, io.EOF
	}
	return rec, nil
}

func (s *rowStream) Close() error {
	return s.rows.Close()
}
