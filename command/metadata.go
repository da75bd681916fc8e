package command

// GetCatalogs requests the catalog list; it carries no filters (§6).
type GetCatalogs struct{}

func (GetCatalogs) TypeURL() string { return typeURLPrefix + "CommandGetCatalogs" }
func (GetCatalogs) Marshal() []byte { return nil }

func unmarshalGetCatalogs(payload []byte) (Variant, error) { return GetCatalogs{}, nil }

func init() { registerDecoder(GetCatalogs{}.TypeURL(), unmarshalGetCatalogs) }

// GetSchemas requests the schema list, optionally narrowed by catalog
// and/or a schema-name filter pattern. Both fields distinguish "absent"
// (nil, no filtering) from "present but empty" (points to ""), per the
// three-valued filter semantics of §3/§6.
type GetSchemas struct {
	Catalog             *string
	SchemaFilterPattern *string
}

func (GetSchemas) TypeURL() string { return typeURLPrefix + "CommandGetSchemas" }

func (c GetSchemas) Marshal() []byte {
	var b []byte
	b = appendOptionalString(b, 1, c.Catalog)
	b = appendOptionalString(b, 2, c.SchemaFilterPattern)
	return b
}

func unmarshalGetSchemas(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	return GetSchemas{Catalog: pf.optionalString(1), SchemaFilterPattern: pf.optionalString(2)}, nil
}

func init() { registerDecoder(GetSchemas{}.TypeURL(), unmarshalGetSchemas) }

// GetTables requests table metadata, optionally narrowed by catalog,
// schema pattern, table-name pattern, and/or a set of table types (§3,
// §6). IncludeSchema selects the wider result layout that carries each
// table's serialized Arrow schema (§4.2).
type GetTables struct {
	Catalog                *string
	SchemaFilterPattern    *string
	TableNameFilterPattern *string
	TableTypes             []string
	IncludeSchema          bool
}

func (GetTables) TypeURL() string { return typeURLPrefix + "CommandGetTables" }

func (c GetTables) Marshal() []byte {
	var b []byte
	b = appendOptionalString(b, 1, c.Catalog)
	b = appendOptionalString(b, 2, c.SchemaFilterPattern)
	b = appendOptionalString(b, 3, c.TableNameFilterPattern)
	b = appendRepeatedString(b, 4, c.TableTypes)
	b = appendBool(b, 5, c.IncludeSchema)
	return b
}

func unmarshalGetTables(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	return GetTables{
		Catalog:                pf.optionalString(1),
		SchemaFilterPattern:    pf.optionalString(2),
		TableNameFilterPattern: pf.optionalString(3),
		TableTypes:             pf.repeatedStrings(4),
		IncludeSchema:          pf.bool(5),
	}, nil
}

func init() { registerDecoder(GetTables{}.TypeURL(), unmarshalGetTables) }

// GetTableTypes requests the list of distinct table types (§6).
type GetTableTypes struct{}

func (GetTableTypes) TypeURL() string { return typeURLPrefix + "CommandGetTableTypes" }
func (GetTableTypes) Marshal() []byte { return nil }

func unmarshalGetTableTypes(payload []byte) (Variant, error) { return GetTableTypes{}, nil }

func init() { registerDecoder(GetTableTypes{}.TypeURL(), unmarshalGetTableTypes) }

// GetSqlInfo requests server capability/metadata info codes. An empty Info
// slice means "return all known codes" (§6).
type GetSqlInfo struct {
	Info []int32
}

func (GetSqlInfo) TypeURL() string   { return typeURLPrefix + "CommandGetSqlInfo" }
func (c GetSqlInfo) Marshal() []byte { return appendRepeatedInt32(nil, 1, c.Info) }

func unmarshalGetSqlInfo(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	return GetSqlInfo{Info: pf.repeatedInt32(1)}, nil
}

func init() { registerDecoder(GetSqlInfo{}.TypeURL(), unmarshalGetSqlInfo) }

// GetPrimaryKeys requests the primary-key columns of one table (§6).
type GetPrimaryKeys struct {
	Catalog *string
	Schema  *string
	Table   string
}

func (GetPrimaryKeys) TypeURL() string { return typeURLPrefix + "CommandGetPrimaryKeys" }

func (c GetPrimaryKeys) Marshal() []byte {
	var b []byte
	b = appendOptionalString(b, 1, c.Catalog)
	b = appendOptionalString(b, 2, c.Schema)
	b = appendString(b, 3, c.Table)
	return b
}

func unmarshalGetPrimaryKeys(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	table, _ := pf.string(3)
	return GetPrimaryKeys{Catalog: pf.optionalString(1), Schema: pf.optionalString(2), Table: table}, nil
}

func init() { registerDecoder(GetPrimaryKeys{}.TypeURL(), unmarshalGetPrimaryKeys) }

// GetImportedKeys requests the foreign keys declared on the named table
// that reference other tables' primary keys (§6).
type GetImportedKeys struct {
	Catalog *string
	Schema  *string
	Table   string
}

func (GetImportedKeys) TypeURL() string { return typeURLPrefix + "CommandGetImportedKeys" }

func (c GetImportedKeys) Marshal() []byte {
	var b []byte
	b = appendOptionalString(b, 1, c.Catalog)
	b = appendOptionalString(b, 2, c.Schema)
	b = appendString(b, 3, c.Table)
	return b
}

func unmarshalGetImportedKeys(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	table, _ := pf.string(3)
	return GetImportedKeys{Catalog: pf.optionalString(1), Schema: pf.optionalString(2), Table: table}, nil
}

func init() { registerDecoder(GetImportedKeys{}.TypeURL(), unmarshalGetImportedKeys) }

// GetExportedKeys requests the foreign keys declared on other tables that
// reference the named table's primary key (§6).
type GetExportedKeys struct {
	Catalog *string
	Schema  *string
	Table   string
}

func (GetExportedKeys) TypeURL() string { return typeURLPrefix + "CommandGetExportedKeys" }

func (c GetExportedKeys) Marshal() []byte {
	var b []byte
	b = appendOptionalString(b, 1, c.Catalog)
	b = appendOptionalString(b, 2, c.Schema)
	b = appendString(b, 3, c.Table)
	return b
}

func unmarshalGetExportedKeys(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	table, _ := pf.string(3)
	return GetExportedKeys{Catalog: pf.optionalString(1), Schema: pf.optionalString(2), Table: table}, nil
}

func init() { registerDecoder(GetExportedKeys{}.TypeURL(), unmarshalGetExportedKeys) }

// GetCrossReference requests the foreign keys in fkTable that reference
// pkTable's primary key (§6).
type GetCrossReference struct {
	PKCatalog *string
	PKSchema  *string
	PKTable   string
	FKCatalog *string
	FKSchema  *string
	FKTable   string
}

func (GetCrossReference) TypeURL() string { return typeURLPrefix + "CommandGetCrossReference" }

func (c GetCrossReference) Marshal() []byte {
	var b []byte
	b = appendOptionalString(b, 1, c.PKCatalog)
	b = appendOptionalString(b, 2, c.PKSchema)
	b = appendString(b, 3, c.PKTable)
	b = appendOptionalString(b, 4, c.FKCatalog)
	b = appendOptionalString(b, 5, c.FKSchema)
	b = appendString(b, 6, c.FKTable)
	return b
}

func unmarshalGetCrossReference(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	pkTable, _ := pf.string(3)
	fkTable, _ := pf.string(6)
	return GetCrossReference{
		PKCatalog: pf.optionalString(1), PKSchema: pf.optionalString(2), PKTable: pkTable,
		FKCatalog: pf.optionalString(4), FKSchema: pf.optionalString(5), FKTable: fkTable,
	}, nil
}

func init() { registerDecoder(GetCrossReference{}.TypeURL(), unmarshalGetCrossReference) }
