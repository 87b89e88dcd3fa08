package main

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Record is a decoded payload: one Value per column, in column order.
type Record struct {
	Values []Value
}

// serialTypeWidth returns the on-disk width in bytes for a serial type, per
// the table in §4.2. ok is false for a serial type this reader does not
// know how to decode.
func serialTypeWidth(serialType uint64) (width int, ok bool) {
	switch serialType {
	case 0, 8, 9:
		return 0, true
	case 1:
		return 1, true
	case 2:
		return 2, true
	case 3:
		return 3, true
	case 4:
		return 4, true
	case 5:
		return 6, true
	case 6, 7:
		return 8, true
	default:
		if serialType >= 12 && serialType%2 == 0 {
			return int((serialType - 12) / 2), true
		}
		if serialType >= 13 && serialType%2 == 1 {
			return int((serialType - 13) / 2), true
		}
		return 0, false
	}
}

// decodeColumn turns one serial type plus its raw bytes into a Value,
// reproducing the exact semantics of §4.2's table, including the
// big-endian sign extension for the 24-bit and 48-bit integer widths.
func decodeColumn(serialType uint64, data []byte) (Value, error) {
	switch serialType {
	case 0:
		return NullValue(), nil
	case 1:
		return IntegerValue(int64(int8(data[0]))), nil
	case 2:
		return IntegerValue(int64(int16(binary.BigEndian.Uint16(data)))), nil
	case 3:
		v := int32(data[0])<<16 | int32(data[1])<<8 | int32(data[2])
		if v&0x800000 != 0 {
			v |= -0x1000000 // sign-extend the top bit through bit 31
		}
		return IntegerValue(int64(v)), nil
	case 4:
		return IntegerValue(int64(int32(binary.BigEndian.Uint32(data)))), nil
	case 5:
		v := int64(data[0])<<40 | int64(data[1])<<32 | int64(data[2])<<24 |
			int64(data[3])<<16 | int64(data[4])<<8 | int64(data[5])
		if v&0x800000000000 != 0 {
			v |= -0x1000000000000
		}
		return IntegerValue(v), nil
	case 6:
		return IntegerValue(int64(binary.BigEndian.Uint64(data))), nil
	case 7:
		return FloatValue(math.Float64frombits(binary.BigEndian.Uint64(data))), nil
	case 8:
		return IntegerValue(0), nil
	case 9:
		return IntegerValue(1), nil
	default:
		if serialType >= 12 && serialType%2 == 0 {
			return BlobValue(append([]byte(nil), data...)), nil
		}
		if serialType >= 13 && serialType%2 == 1 {
			return textValueFromBytes(data), nil
		}
		return Value{}, fmt.Errorf("%w: serial type %d", ErrMalformedRecord, serialType)
	}
}

// parseRecord decodes a record payload per §4.2: read (and discard) the
// header-size varint, read exactly columnCount serial-type varints, then
// decode that many column values. The header-size varint is read only to
// advance past it: the caller already knows columnCount, and a header
// that misstates its own size is not independently detected (§9).
func parseRecord(payload []byte, columnCount int) (*Record, error) {
	_, n := readVarint(payload, 0)
	if n == 0 {
		return nil, fmt.Errorf("%w: record header varint", ErrInvalidVarint)
	}
	offset := n

	serialTypes := make([]uint64, columnCount)
	for i := 0; i < columnCount; i++ {
		st, n := readVarint(payload, offset)
		if n == 0 {
			return nil, fmt.Errorf("%w: serial type %d", ErrInvalidVarint, i)
		}
		serialTypes[i] = st
		offset += n
	}

	values := make([]Value, columnCount)
	for i, st := range serialTypes {
		width, ok := serialTypeWidth(st)
		if !ok {
			return nil, fmt.Errorf("%w: unknown serial type %d in column %d", ErrMalformedRecord, st, i)
		}
		if width == 0 {
			v, err := decodeColumn(st, nil)
			if err != nil {
				return nil, err
			}
			values[i] = v
			continue
		}
		if offset+width > len(payload) {
			return nil, NewDatabaseError("parse_record", ErrInsufficientData, map[string]interface{}{
				"column":       i,
				"needed_bytes": offset + width,
				"have_bytes":   len(payload),
			})
		}
		v, err := decodeColumn(st, payload[offset:offset+width])
		if err != nil {
			return nil, err
		}
		values[i] = v
		offset += width
	}

	return &Record{Values: values}, nil
}
