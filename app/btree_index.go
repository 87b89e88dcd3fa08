package main

import "fmt"

// IndexSearch walks the index B-tree rooted at rootPage looking for rows
// whose indexed tuple's first column equals v, returning their rowids
// (§4.6). indexedColumnCount is the number of indexed columns (c); each
// cell's record therefore has width c+1, the extra trailing column being
// the rowid.
func (r *Reader) IndexSearch(rootPage int, v Value, indexedColumnCount int) ([]int64, error) {
	return r.indexSearchPage(rootPage, v, indexedColumnCount)
}

func (r *Reader) indexSearchPage(pageNum int, v Value, indexedColumnCount int) ([]int64, error) {
	page, err := r.ReadPage(pageNum)
	if err != nil {
		return nil, err
	}
	recordWidth := indexedColumnCount + 1

	switch page.Header.Kind {
	case pageKindLeafIndex:
		var rowids []int64
		for i := 0; i < int(page.Header.CellCount); i++ {
			offset, err := page.CellOffset(i)
			if err != nil {
				return nil, err
			}
			cell, err := decodeIndexLeafCell(page, offset)
			if err != nil {
				return nil, err
			}
			record, err := parseRecord(cell.Payload, recordWidth)
			if err != nil {
				return nil, err
			}
			if record.Values[0].Equal(v) {
				rowids = append(rowids, record.Values[recordWidth-1].Int64())
			}
		}
		return rowids, nil

	case pageKindInteriorIndex:
		for i := 0; i < int(page.Header.CellCount); i++ {
			offset, err := page.CellOffset(i)
			if err != nil {
				return nil, err
			}
			icell, err := decodeIndexInteriorCell(page, offset)
			if err != nil {
				return nil, err
			}
			record, err := parseRecord(icell.Payload, recordWidth)
			if err != nil {
				return nil, err
			}
			cmp, ok := record.Values[0].Compare(v)
			if !ok || cmp < 0 {
				continue
			}
			// First cell whose key is >= v: its own payload is always taken
			// as a match, even when the key is strictly greater than v (kept
			// verbatim per §9, not narrowed to exact equality), and its left
			// child holds every remaining entry <= this key.
			rowids := []int64{record.Values[recordWidth-1].Int64()}
			childRowids, err := r.indexSearchPage(icell.LeftChildPage, v, indexedColumnCount)
			if err != nil {
				return nil, err
			}
			return append(rowids, childRowids...), nil
		}
		return r.indexSearchPage(int(page.Header.RightmostPointer), v, indexedColumnCount)

	default:
		return nil, fmt.Errorf("%w: page %d (kind %d) is not an index page", ErrInvalidPageType, pageNum, page.Header.Kind)
	}
}
