package main

import (
	"encoding/binary"
	"fmt"
)

// TableLeafCell is `varint payload_size, varint rowid, payload_bytes` (§3).
type TableLeafCell struct {
	Rowid   int64
	Payload []byte
}

// TableInteriorCell is `u32 left_child_page, varint key` where key is a
// rowid upper bound for the left subtree (§3).
type TableInteriorCell struct {
	LeftChildPage int
	Key           int64
}

// IndexLeafCell is `varint payload_size, payload_bytes` (§3).
type IndexLeafCell struct {
	Payload []byte
}

// IndexInteriorCell is `u32 left_child_page, varint payload_size,
// payload_bytes` (§3).
type IndexInteriorCell struct {
	LeftChildPage int
	Payload       []byte
}

// varintAsRowid coerces a decoded varint to a non-negative int64 rowid;
// per §7, overflowing or negative rowids are malformed-file errors.
func varintAsRowid(v uint64) (int64, error) {
	if v > (1<<63)-1 {
		return 0, fmt.Errorf("%w: rowid %d overflows int64", ErrInvalidDatabase, v)
	}
	return int64(v), nil
}

func readPayload(page *Page, offset int, size uint64) ([]byte, error) {
	end := offset + int(size)
	if size > uint64(len(page.Data)) || end > len(page.Data) || end < offset {
		return nil, NewDatabaseError("read_payload", ErrInsufficientData, map[string]interface{}{
			"page": page.Number, "offset": offset, "size": size,
		})
	}
	return page.Data[offset:end], nil
}

func decodeTableLeafCell(page *Page, offset int) (TableLeafCell, error) {
	payloadSize, n := readVarint(page.Data, offset)
	if n == 0 {
		return TableLeafCell{}, fmt.Errorf("%w: table-leaf payload size", ErrInvalidVarint)
	}
	offset += n
	rawRowid, n := readVarint(page.Data, offset)
	if n == 0 {
		return TableLeafCell{}, fmt.Errorf("%w: table-leaf rowid", ErrInvalidVarint)
	}
	offset += n
	rowid, err := varintAsRowid(rawRowid)
	if err != nil {
		return TableLeafCell{}, err
	}
	payload, err := readPayload(page, offset, payloadSize)
	if err != nil {
		return TableLeafCell{}, err
	}
	return TableLeafCell{Rowid: rowid, Payload: payload}, nil
}

func decodeTableInteriorCell(page *Page, offset int) (TableInteriorCell, error) {
	if offset+4 > len(page.Data) {
		return TableInteriorCell{}, fmt.Errorf("%w: table-interior cell truncated", ErrInsufficientData)
	}
	leftChild := int(binary.BigEndian.Uint32(page.Data[offset : offset+4]))
	rawKey, n := readVarint(page.Data, offset+4)
	if n == 0 {
		return TableInteriorCell{}, fmt.Errorf("%w: table-interior key", ErrInvalidVarint)
	}
	key, err := varintAsRowid(rawKey)
	if err != nil {
		return TableInteriorCell{}, err
	}
	return TableInteriorCell{LeftChildPage: leftChild, Key: key}, nil
}

func decodeIndexLeafCell(page *Page, offset int) (IndexLeafCell, error) {
	payloadSize, n := readVarint(page.Data, offset)
	if n == 0 {
		return IndexLeafCell{}, fmt.Errorf("%w: index-leaf payload size", ErrInvalidVarint)
	}
	offset += n
	payload, err := readPayload(page, offset, payloadSize)
	if err != nil {
		return IndexLeafCell{}, err
	}
	return IndexLeafCell{Payload: payload}, nil
}

func decodeIndexInteriorCell(page *Page, offset int) (IndexInteriorCell, error) {
	if offset+4 > len(page.Data) {
		return IndexInteriorCell{}, fmt.Errorf("%w: index-interior cell truncated", ErrInsufficientData)
	}
	leftChild := int(binary.BigEndian.Uint32(page.Data[offset : offset+4]))
	offset += 4
	payloadSize, n := readVarint(page.Data, offset)
	if n == 0 {
		return IndexInteriorCell{}, fmt.Errorf("%w: index-interior payload size", ErrInvalidVarint)
	}
	offset += n
	payload, err := readPayload(page, offset, payloadSize)
	if err != nil {
		return IndexInteriorCell{}, err
	}
	return IndexInteriorCell{LeftChildPage: leftChild, Payload: payload}, nil
}
