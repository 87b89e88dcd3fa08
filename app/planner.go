package main

import (
	"fmt"
	"strings"
)

// Plan is the outcome of planning a SELECT (§4.9): the table and the
// resolved column indices to project.
type Plan struct {
	Table       TableDefinition
	ColumnIndex []int
}

// Execute runs a parsed SELECT against the catalog, returning rows with only
// the projected columns, in the order requested (§4.9 step 6).
func Execute(r *Reader, cat *Catalog, stmt *SelectStatement) ([][]Value, error) {
	table, ok := cat.Table(stmt.Table)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, stmt.Table)
	}

	colIdx := make([]int, len(stmt.Columns))
	for i, name := range stmt.Columns {
		idx, ok := cat.ColumnIndex(table, name)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrColumnNotFound, stmt.Table, name)
		}
		colIdx[i] = idx
	}
	if len(colIdx) == 0 {
		return nil, ErrEmptyProjection
	}

	rows, err := gatherRows(r, cat, table, stmt.Filter)
	if err != nil {
		return nil, err
	}

	out := make([][]Value, len(rows))
	for i, row := range rows {
		projected := make([]Value, len(colIdx))
		for j, idx := range colIdx {
			projected[j] = row.Values[idx]
		}
		out[i] = projected
	}
	return out, nil
}

// gatherRows implements §4.9 steps 3-5: an index-accelerated point lookup
// when the filter column has a matching index, a full scan with a post-hoc
// filter when it doesn't, or a plain full scan with no filter at all.
func gatherRows(r *Reader, cat *Catalog, table TableDefinition, filter *Filter) ([]Row, error) {
	columnCount := len(table.Columns)
	if filter == nil {
		return r.TableScan(table.RootPage, columnCount)
	}

	filterIdx, ok := cat.ColumnIndex(table, filter.Column)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table.Name, filter.Column)
	}

	if idx, ok := findUsableIndex(cat, table, filter.Column); ok {
		rowids, err := r.IndexSearch(idx.RootPage, filter.Literal.AsValue(), len(idx.Columns))
		if err != nil {
			return nil, err
		}
		return r.TablePointLookup(table.RootPage, columnCount, rowids)
	}

	all, err := r.TableScan(table.RootPage, columnCount)
	if err != nil {
		return nil, err
	}
	filterVal := filter.Literal.AsValue()
	matches := make([]Row, 0, len(all))
	for _, row := range all {
		if row.Values[filterIdx].Equal(filterVal) {
			matches = append(matches, row)
		}
	}
	return matches, nil
}

// findUsableIndex looks for an index on table whose first indexed column is
// filterColumn (§4.9 step 3).
func findUsableIndex(cat *Catalog, table TableDefinition, filterColumn string) (IndexDefinition, bool) {
	for _, idx := range cat.IndexesForTable(table.Name) {
		if len(idx.Columns) > 0 && strings.EqualFold(idx.Columns[0], filterColumn) {
			return idx, true
		}
	}
	return IndexDefinition{}, false
}

// CountRows answers `SELECT COUNT(*) FROM t` from the table's root page cell
// count only (§4.8, §9): correct when the root is a leaf, an under-count
// when it's an interior page. This is a documented limitation carried
// forward deliberately, not a bug.
func CountRows(r *Reader, table TableDefinition) (int, error) {
	page, err := r.ReadPage(table.RootPage)
	if err != nil {
		return 0, err
	}
	return int(page.Header.CellCount), nil
}
