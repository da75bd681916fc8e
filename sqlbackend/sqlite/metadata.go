package sqlite

import (
	"context"
	"strings"

	"github.com/arrowlane/flightsql/flightsql"
)

// sqliteCatalog and sqliteSchema are the only catalog/schema SQLite ever
// reports: it has no notion of either beyond the single "main" database.
const (
	sqliteCatalog = ""
	sqliteSchema  = "main"
)

// matchLikePattern reports whether name matches an SQL LIKE-style
// pattern using % (any run of characters) and _ (any single character).
// A nil pattern matches everything.
func matchLikePattern(name string, pattern *string) bool {
	if pattern == nil {
		return true
	}
	return likeMatch(strings.ToLower(name), strings.ToLower(*pattern))
}

func likeMatch(s, pattern string) bool {
	if pattern == "" {
		return s == ""
	}
	switch pattern[0] {
	case '%':
		if likeMatch(s, pattern[1:]) {
			return true
		}
		for i := 0; i < len(s); i++ {
			if likeMatch(s[i+1:], pattern[1:]) {
				return true
			}
		}
		return false
	case '_':
		if len(s) == 0 {
			return false
		}
		return likeMatch(s[1:], pattern[1:])
	default:
		if len(s) == 0 || s[0] != pattern[0] {
			return false
		}
		return likeMatch(s[1:], pattern[1:])
	}
}

// ListCatalogs always returns a single empty-string catalog: SQLite has
// no catalog concept distinct from the database connection itself.
func (b *Backend) ListCatalogs(ctx context.Context) ([]string, error) {
	return []string{sqliteCatalog}, nil
}

// ListSchemas reports the single "main" schema, filtered the same way a
// real multi-schema backend would filter a longer list.
func (b *Backend) ListSchemas(ctx context.Context, catalog, schemaFilterPattern *string) ([]flightsql.SchemaRow, error) {
	if catalog != nil && *catalog != sqliteCatalog {
		return nil, nil
	}
	if !matchLikePattern(sqliteSchema, schemaFilterPattern) {
		return nil, nil
	}
	return []flightsql.SchemaRow{{Catalog: strPtr(sqliteCatalog), Name: sqliteSchema}}, nil
}

func strPtr(s string) *string { return &s }

// ListTableTypes reports the two object kinds this backend can describe.
func (b *Backend) ListTableTypes(ctx context.Context) ([]string, error) {
	return []string{"TABLE", "VIEW"}, nil
}

// ListTables lists sqlite_master entries, applying the requested filters
// in Go since SQLite's catalog table has no notion of schema/catalog to
// filter on beyond the fixed "main" schema.
func (b *Backend) ListTables(ctx context.Context, catalog, schemaFilterPattern, tableNameFilterPattern *string, tableTypes []string, includeSchema bool) ([]flightsql.TableRow, error) {
	if catalog != nil && *catalog != sqliteCatalog {
		return nil, nil
	}
	if !matchLikePattern(sqliteSchema, schemaFilterPattern) {
		return nil, nil
	}

	rows, err := b.db.QueryContext(ctx, `
		SELECT name, type FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wantTypes := make(map[string]bool, len(tableTypes))
	for _, t := range tableTypes {
		wantTypes[strings.ToUpper(t)] = true
	}

	var out []flightsql.TableRow
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, err
		}
		if !matchLikePattern(name, tableNameFilterPattern) {
			continue
		}
		tableType := strings.ToUpper(kind)
		if len(wantTypes) > 0 && !wantTypes[tableType] {
			continue
		}
		row := flightsql.TableRow{
			Catalog: strPtr(sqliteCatalog),
			Schema:  strPtr(sqliteSchema),
			Name:    name,
			Type:    tableType,
		}
		if includeSchema {
			schema, err := querySchema(ctx, b.db, "SELECT * FROM "+quoteIdent(name))
			if err == nil {
				row.ArrowSchema = schema
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// GetPrimaryKeys reports table's primary-key columns via PRAGMA
// table_info, in declared key order.
func (b *Backend) GetPrimaryKeys(ctx context.Context, catalog, schema *string, table string) ([]flightsql.PrimaryKeyRow, error) {
	rows, err := b.db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(table)+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []flightsql.PrimaryKeyRow
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt any
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		if pk == 0 {
			continue
		}
		seq := int32(pk)
		out = append(out, flightsql.PrimaryKeyRow{
			Catalog:     strPtr(sqliteCatalog),
			Schema:      strPtr(sqliteSchema),
			Table:       table,
			Column:      name,
			KeySequence: &seq,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(out) > 0 {
		keyName, err := b.primaryKeyIndexName(ctx, table)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i].KeyName = &keyName
		}
	}
	return out, nil
}

// primaryKeyIndexName names table's primary key constraint. SQLite only
// materializes a backing index for a primary key that isn't a bare rowid
// alias, so PRAGMA index_list often has no 'pk'-origin row even though the
// table has a primary key; this falls back to a synthesized name in that
// case so GetPrimaryKeys always reports a non-null key_name.
func (b *Backend) primaryKeyIndexName(ctx context.Context, table string) (string, error) {
	rows, err := b.db.QueryContext(ctx, "PRAGMA index_list("+quoteIdent(table)+")")
	if err != nil {
		return "", err
	}
	defer rows.Close()

	for rows.Next() {
		var seq int
		var name, origin string
		var unique, partial int
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return "", err
		}
		if origin == "pk" {
			return name, rows.Err()
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return table + "_pk", nil
}

type foreignKeyListRow struct {
	id, seq                    int
	table, from, to, onUpdate  string
	onDelete, match            string
}

func (b *Backend) foreignKeyList(ctx context.Context, table string) ([]foreignKeyListRow, error) {
	rows, err := b.db.QueryContext(ctx, "PRAGMA foreign_key_list("+quoteIdent(table)+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []foreignKeyListRow
	for rows.Next() {
		var r foreignKeyListRow
		if err := rows.Scan(&r.id, &r.seq, &r.table, &r.from, &r.to, &r.onUpdate, &r.onDelete, &r.match); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func referentialRuleCode(rule string) uint8 {
	switch strings.ToUpper(rule) {
	case "CASCADE":
		return 0
	case "RESTRICT":
		return 1
	case "SET NULL":
		return 2
	case "NO ACTION":
		return 3
	case "SET DEFAULT":
		return 4
	default:
		return 3
	}
}

// GetImportedKeys reports the foreign keys table declares against other
// tables' primary keys, via PRAGMA foreign_key_list(table).
func (b *Backend) GetImportedKeys(ctx context.Context, catalog, schema *string, table string) ([]flightsql.ForeignKeyRow, error) {
	fks, err := b.foreignKeyList(ctx, table)
	if err != nil {
		return nil, err
	}
	out := make([]flightsql.ForeignKeyRow, 0, len(fks))
	for _, fk := range fks {
		seq := int32(fk.seq)
		out = append(out, flightsql.ForeignKeyRow{
			PKCatalog: strPtr(sqliteCatalog), PKSchema: strPtr(sqliteSchema), PKTable: fk.table, PKColumn: fk.to,
			FKCatalog: strPtr(sqliteCatalog), FKSchema: strPtr(sqliteSchema), FKTable: table, FKColumn: fk.from,
			KeySequence: &seq,
			UpdateRule:  referentialRuleCode(fk.onUpdate),
			DeleteRule:  referentialRuleCode(fk.onDelete),
		})
	}
	return out, nil
}

// GetExportedKeys reports the foreign keys other tables declare against
// table's primary key, found by scanning every table's foreign_key_list.
func (b *Backend) GetExportedKeys(ctx context.Context, catalog, schema *string, table string) ([]flightsql.ForeignKeyRow, error) {
	tableRows, err := b.ListTables(ctx, nil, nil, nil, []string{"TABLE"}, false)
	if err != nil {
		return nil, err
	}
	var out []flightsql.ForeignKeyRow
	for _, t := range tableRows {
		fks, err := b.foreignKeyList(ctx, t.Name)
		if err != nil {
			return nil, err
		}
		for _, fk := range fks {
			if fk.table != table {
				continue
			}
			seq := int32(fk.seq)
			out = append(out, flightsql.ForeignKeyRow{
				PKCatalog: strPtr(sqliteCatalog), PKSchema: strPtr(sqliteSchema), PKTable: table, PKColumn: fk.to,
				FKCatalog: strPtr(sqliteCatalog), FKSchema: strPtr(sqliteSchema), FKTable: t.Name, FKColumn: fk.from,
				KeySequence: &seq,
				UpdateRule:  referentialRuleCode(fk.onUpdate),
				DeleteRule:  referentialRuleCode(fk.onDelete),
			})
		}
	}
	return out, nil
}

// GetCrossReference reports the foreign keys in fkTable that reference
// pkTable's primary key.
func (b *Backend) GetCrossReference(ctx context.Context, pkCatalog, pkSchema *string, pkTable string, fkCatalog, fkSchema *string, fkTable string) ([]flightsql.ForeignKeyRow, error) {
	fks, err := b.foreignKeyList(ctx, fkTable)
	if err != nil {
		return nil, err
	}
	var out []flightsql.ForeignKeyRow
	for _, fk := range fks {
		if fk.table != pkTable {
			continue
		}
		seq := int32(fk.seq)
		out = append(out, flightsql.ForeignKeyRow{
			PKCatalog: strPtr(sqliteCatalog), PKSchema: strPtr(sqliteSchema), PKTable: pkTable, PKColumn: fk.to,
			FKCatalog: strPtr(sqliteCatalog), FKSchema: strPtr(sqliteSchema), FKTable: fkTable, FKColumn: fk.from,
			KeySequence: &seq,
			UpdateRule:  referentialRuleCode(fk.onUpdate),
			DeleteRule:  referentialRuleCode(fk.onDelete),
		})
	}
	return out, nil
}
