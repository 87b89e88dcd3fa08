package main

import (
	"fmt"
	"sort"
)

// Row is one decoded row, with its rowid kept alongside every decoded
// column value (rowid aliasing in §4.5 needs it; point lookups are keyed
// by it). Projection happens later, in Execute.
type Row struct {
	Rowid  int64
	Values []Value
}

// recordToRow applies the rowid-aliasing rule from §4.5: whenever column 0
// decodes as Null, the cell's own rowid is substituted in its place. This is
// unconditional on the decoded value, not on the column's declared type;
// that is how SQLite's INTEGER PRIMARY KEY aliasing actually surfaces once
// the value has been read off disk.
func recordToRow(record *Record, rowid int64) Row {
	values := record.Values
	if len(values) > 0 && values[0].IsNull() {
		values[0] = IntegerValue(rowid)
	}
	return Row{Rowid: rowid, Values: values}
}

// TableScan performs a full scan of the table B-tree rooted at rootPage,
// decoding each row with columnCount columns (§4.5).
func (r *Reader) TableScan(rootPage int, columnCount int) ([]Row, error) {
	return r.tableScanPage(rootPage, columnCount)
}

func (r *Reader) tableScanPage(pageNum, columnCount int) ([]Row, error) {
	page, err := r.ReadPage(pageNum)
	if err != nil {
		return nil, err
	}

	switch page.Header.Kind {
	case pageKindLeafTable:
		rows := make([]Row, 0, page.Header.CellCount)
		for i := 0; i < int(page.Header.CellCount); i++ {
			offset, err := page.CellOffset(i)
			if err != nil {
				return nil, err
			}
			cell, err := decodeTableLeafCell(page, offset)
			if err != nil {
				return nil, err
			}
			record, err := parseRecord(cell.Payload, columnCount)
			if err != nil {
				return nil, err
			}
			rows = append(rows, recordToRow(record, cell.Rowid))
		}
		return rows, nil

	case pageKindInteriorTable:
		var rows []Row
		for i := 0; i < int(page.Header.CellCount); i++ {
			offset, err := page.CellOffset(i)
			if err != nil {
				return nil, err
			}
			icell, err := decodeTableInteriorCell(page, offset)
			if err != nil {
				return nil, err
			}
			childRows, err := r.tableScanPage(icell.LeftChildPage, columnCount)
			if err != nil {
				return nil, err
			}
			rows = append(rows, childRows...)
		}
		rightRows, err := r.tableScanPage(int(page.Header.RightmostPointer), columnCount)
		if err != nil {
			return nil, err
		}
		return append(rows, rightRows...), nil

	default:
		return nil, fmt.Errorf("%w: page %d (kind %d) is not a table page", ErrInvalidPageType, pageNum, page.Header.Kind)
	}
}

// TablePointLookup returns the rows for exactly the given rowids (§4.5's
// "point lookup by rowid set"), used to materialize an index probe's
// matches without a second full scan.
func (r *Reader) TablePointLookup(rootPage, columnCount int, rowids []int64) ([]Row, error) {
	keys := make(map[int64]struct{}, len(rowids))
	for _, k := range rowids {
		keys[k] = struct{}{}
	}
	return r.tablePointLookupPage(rootPage, columnCount, keys)
}

func (r *Reader) tablePointLookupPage(pageNum, columnCount int, keys map[int64]struct{}) ([]Row, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	page, err := r.ReadPage(pageNum)
	if err != nil {
		return nil, err
	}

	switch page.Header.Kind {
	case pageKindLeafTable:
		var rows []Row
		for i := 0; i < int(page.Header.CellCount); i++ {
			offset, err := page.CellOffset(i)
			if err != nil {
				return nil, err
			}
			cell, err := decodeTableLeafCell(page, offset)
			if err != nil {
				return nil, err
			}
			if _, ok := keys[cell.Rowid]; !ok {
				continue
			}
			record, err := parseRecord(cell.Payload, columnCount)
			if err != nil {
				return nil, err
			}
			rows = append(rows, recordToRow(record, cell.Rowid))
		}
		return rows, nil

	case pageKindInteriorTable:
		sortedKeys := make([]int64, 0, len(keys))
		for k := range keys {
			sortedKeys = append(sortedKeys, k)
		}
		sort.Slice(sortedKeys, func(i, j int) bool { return sortedKeys[i] < sortedKeys[j] })

		groups := make(map[int][]int64)
		var childOrder []int
		for _, k := range sortedKeys {
			child, err := tableFindChild(page, k)
			if err != nil {
				return nil, err
			}
			if _, seen := groups[child]; !seen {
				childOrder = append(childOrder, child)
			}
			groups[child] = append(groups[child], k)
		}

		var rows []Row
		for _, child := range childOrder {
			childKeys := make(map[int64]struct{}, len(groups[child]))
			for _, k := range groups[child] {
				childKeys[k] = struct{}{}
			}
			childRows, err := r.tablePointLookupPage(child, columnCount, childKeys)
			if err != nil {
				return nil, err
			}
			rows = append(rows, childRows...)
		}
		return rows, nil

	default:
		return nil, fmt.Errorf("%w: page %d (kind %d) is not a table page", ErrInvalidPageType, pageNum, page.Header.Kind)
	}
}

// tableFindChild walks an interior table page's cells in cell-pointer
// order and returns the first child whose key is >= the search key,
// falling back to the rightmost child (§4.5).
func tableFindChild(page *Page, key int64) (int, error) {
	for i := 0; i < int(page.Header.CellCount); i++ {
		offset, err := page.CellOffset(i)
		if err != nil {
			return 0, err
		}
		cell, err := decodeTableInteriorCell(page, offset)
		if err != nil {
			return 0, err
		}
		if key <= cell.Key {
			return cell.LeftChildPage, nil
		}
	}
	return int(page.Header.RightmostPointer), nil
}
