package flightsql

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/arrowlane/flightsql/resultschema"
)

func appendStringOrNull(b *array.StringBuilder, s *string) {
	if s == nil {
		b.AppendNull()
		return
	}
	b.Append(*s)
}

func appendInt32OrNull(b *array.Int32Builder, v *int32) {
	if v == nil {
		b.AppendNull()
		return
	}
	b.Append(*v)
}

func catalogsRecord(mem memory.Allocator, names []string) arrow.Record {
	bldr := array.NewRecordBuilder(mem, resultschema.Catalogs)
	defer bldr.Release()
	col := bldr.Field(0).(*array.StringBuilder)
	for _, n := range names {
		col.Append(n)
	}
	return bldr.NewRecord()
}

func schemasRecord(mem memory.Allocator, rows []SchemaRow) arrow.Record {
	bldr := array.NewRecordBuilder(mem, resultschema.DBSchemas)
	defer bldr.Release()
	catalogCol := bldr.Field(0).(*array.StringBuilder)
	nameCol := bldr.Field(1).(*array.StringBuilder)
	for _, r := range rows {
		appendStringOrNull(catalogCol, r.Catalog)
		nameCol.Append(r.Name)
	}
	return bldr.NewRecord()
}

func tablesSchemaFor(includeSchema bool) *arrow.Schema {
	if includeSchema {
		return resultschema.TablesWithIncludedSchema
	}
	return resultschema.Tables
}

func tablesRecord(mem memory.Allocator, rows []TableRow, includeSchema bool) arrow.Record {
	schema := tablesSchemaFor(includeSchema)
	bldr := array.NewRecordBuilder(mem, schema)
	defer bldr.Release()
	catalogCol := bldr.Field(0).(*array.StringBuilder)
	schemaCol := bldr.Field(1).(*array.StringBuilder)
	nameCol := bldr.Field(2).(*array.StringBuilder)
	typeCol := bldr.Field(3).(*array.StringBuilder)
	var schemaBytesCol *array.BinaryBuilder
	if includeSchema {
		schemaBytesCol = bldr.Field(4).(*array.BinaryBuilder)
	}
	for _, r := range rows {
		appendStringOrNull(catalogCol, r.Catalog)
		appendStringOrNull(schemaCol, r.Schema)
		nameCol.Append(r.Name)
		typeCol.Append(r.Type)
		if includeSchema {
			var b []byte
			if r.ArrowSchema != nil {
				b = flight.SerializeSchema(r.ArrowSchema, mem)
			}
			schemaBytesCol.Append(b)
		}
	}
	return bldr.NewRecord()
}

func tableTypesRecord(mem memory.Allocator, types []string) arrow.Record {
	bldr := array.NewRecordBuilder(mem, resultschema.TableTypes)
	defer bldr.Release()
	col := bldr.Field(0).(*array.StringBuilder)
	for _, t := range types {
		col.Append(t)
	}
	return bldr.NewRecord()
}

func primaryKeysRecord(mem memory.Allocator, rows []PrimaryKeyRow) arrow.Record {
	bldr := array.NewRecordBuilder(mem, resultschema.PrimaryKeys)
	defer bldr.Release()
	catalogCol := bldr.Field(0).(*array.StringBuilder)
	schemaCol := bldr.Field(1).(*array.StringBuilder)
	tableCol := bldr.Field(2).(*array.StringBuilder)
	columnCol := bldr.Field(3).(*array.StringBuilder)
	seqCol := bldr.Field(4).(*array.Int32Builder)
	keyNameCol := bldr.Field(5).(*array.StringBuilder)
	for _, r := range rows {
		appendStringOrNull(catalogCol, r.Catalog)
		appendStringOrNull(schemaCol, r.Schema)
		tableCol.Append(r.Table)
		columnCol.Append(r.Column)
		appendInt32OrNull(seqCol, r.KeySequence)
		appendStringOrNull(keyNameCol, r.KeyName)
	}
	return bldr.NewRecord()
}

func foreignKeysRecord(mem memory.Allocator, schema *arrow.Schema, rows []ForeignKeyRow) arrow.Record {
	bldr := array.NewRecordBuilder(mem, schema)
	defer bldr.Release()
	pkCatalogCol := bldr.Field(0).(*array.StringBuilder)
	pkSchemaCol := bldr.Field(1).(*array.StringBuilder)
	pkTableCol := bldr.Field(2).(*array.StringBuilder)
	pkColumnCol := bldr.Field(3).(*array.StringBuilder)
	fkCatalogCol := bldr.Field(4).(*array.StringBuilder)
	fkSchemaCol := bldr.Field(5).(*array.StringBuilder)
	fkTableCol := bldr.Field(6).(*array.StringBuilder)
	fkColumnCol := bldr.Field(7).(*array.StringBuilder)
	seqCol := bldr.Field(8).(*array.Int32Builder)
	fkKeyNameCol := bldr.Field(9).(*array.StringBuilder)
	pkKeyNameCol := bldr.Field(10).(*array.StringBuilder)
	updateRuleCol := bldr.Field(11).(*array.Uint8Builder)
	deleteRuleCol := bldr.Field(12).(*array.Uint8Builder)
	for _, r := range rows {
		appendStringOrNull(pkCatalogCol, r.PKCatalog)
		appendStringOrNull(pkSchemaCol, r.PKSchema)
		pkTableCol.Append(r.PKTable)
		pkColumnCol.Append(r.PKColumn)
		appendStringOrNull(fkCatalogCol, r.FKCatalog)
		appendStringOrNull(fkSchemaCol, r.FKSchema)
		fkTableCol.Append(r.FKTable)
		fkColumnCol.Append(r.FKColumn)
		appendInt32OrNull(seqCol, r.KeySequence)
		appendStringOrNull(fkKeyNameCol, r.FKKeyName)
		appendStringOrNull(pkKeyNameCol, r.PKKeyName)
		updateRuleCol.Append(r.UpdateRule)
		deleteRuleCol.Append(r.DeleteRule)
	}
	return bldr.NewRecord()
}

func sqlInfoRecord(mem memory.Allocator, codes []int32, values map[int32]resultschema.SqlInfoValue) arrow.Record {
	bldr := array.NewRecordBuilder(mem, resultschema.SqlInfo)
	defer bldr.Release()
	nameCol := bldr.Field(0).(*array.Int32Builder)
	unionCol := bldr.Field(1).(*array.DenseUnionBuilder)
	for _, code := range codes {
		v, ok := values[code]
		if !ok {
			continue
		}
		nameCol.Append(code)
		unionCol.Append(arrow.UnionTypeCode(v.Child))
		switch v.Child {
		case resultschema.SqlInfoValueStringChild:
			unionCol.Child(0).(*array.StringBuilder).Append(v.Str)
		case resultschema.SqlInfoValueInt32Child:
			unionCol.Child(1).(*array.Int32Builder).Append(v.Int32)
		case resultschema.SqlInfoValueInt64Child:
			unionCol.Child(2).(*array.Int64Builder).Append(v.Int64)
		case resultschema.SqlInfoValueBitmaskChild:
			unionCol.Child(3).(*array.Int32Builder).Append(v.Int32)
		}
	}
	return bldr.NewRecord()
}
