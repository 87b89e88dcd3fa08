package main

import "strings"

const schemaRootPage = 1
const schemaColumnCount = 5 // kind, name, table_name, root_page, sql

// Column is one column of a table definition (§3 "Table definition").
type Column struct {
	Name       string
	Type       string // declared type text, "" if absent
	PrimaryKey bool
	NotNull    bool
}

// TableDefinition is a table's name, root page, and ordered columns.
type TableDefinition struct {
	Name     string
	RootPage int
	Columns  []Column
}

// IndexDefinition is an index's name, the table it accelerates, and the
// ordered list of indexed column names (§3 "Index definition").
type IndexDefinition struct {
	Name      string
	TableName string
	RootPage  int
	Columns   []string
}

// Catalog is the parsed root schema table (§4.7): every row's kind/name/
// table_name/root_page/sql, with "table" and "index" rows materialized into
// TableDefinition/IndexDefinition. View and trigger rows are not kept as
// objects but do count toward RowCount (§6: ".dbinfo counts all schema
// rows").
type Catalog struct {
	RowCount int
	tables   map[string]TableDefinition
	order    []string
	indexes  []IndexDefinition
}

// LoadCatalog reads and parses the schema table on page 1.
func LoadCatalog(r *Reader) (*Catalog, error) {
	rows, err := r.TableScan(schemaRootPage, schemaColumnCount)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{
		RowCount: len(rows),
		tables:   make(map[string]TableDefinition),
	}

	for _, row := range rows {
		kind := row.Values[0].Text()
		name := row.Values[1].Text()
		tblName := row.Values[2].Text()
		rootPage := int(row.Values[3].Int64())
		var sql string
		if !row.Values[4].IsNull() {
			sql = row.Values[4].Text()
		}

		switch kind {
		case "table":
			var columns []Column
			if sql != "" {
				if cols, perr := parseCreateTableColumns(sql); perr == nil {
					columns = cols
				}
			}
			cat.tables[name] = TableDefinition{Name: name, RootPage: rootPage, Columns: columns}
			cat.order = append(cat.order, name)
		case "index":
			var cols []string
			if sql != "" {
				if parsed, perr := parseCreateIndexColumns(sql); perr == nil {
					cols = parsed
				}
			}
			cat.indexes = append(cat.indexes, IndexDefinition{
				Name: name, TableName: tblName, RootPage: rootPage, Columns: cols,
			})
		}
	}

	return cat, nil
}

// Tables returns user-table names in catalog order, excluding
// sqlite_sequence (§4.7, §6 ".tables").
func (c *Catalog) Tables() []string {
	names := make([]string, 0, len(c.order))
	for _, n := range c.order {
		if n == "sqlite_sequence" {
			continue
		}
		names = append(names, n)
	}
	return names
}

// Table looks up a table definition by name.
func (c *Catalog) Table(name string) (TableDefinition, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Columns is the §4.7 "columns() helper": the declared column names for a
// table, in ordinal position.
func (c *Catalog) Columns(table TableDefinition) []string {
	names := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		names[i] = col.Name
	}
	return names
}

// ColumnIndex resolves a column name to its ordinal position,
// case-insensitively.
func (c *Catalog) ColumnIndex(table TableDefinition, name string) (int, bool) {
	for i, col := range table.Columns {
		if strings.EqualFold(col.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// IndexesForTable returns every index definition whose TableName matches.
func (c *Catalog) IndexesForTable(tableName string) []IndexDefinition {
	var res []IndexDefinition
	for _, idx := range c.indexes {
		if strings.EqualFold(idx.TableName, tableName) {
			res = append(res, idx)
		}
	}
	return res
}
