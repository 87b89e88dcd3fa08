package main

import (
	"encoding/binary"
	"fmt"
)

const databaseHeaderSize = 100

// DatabaseHeader is the relevant slice of the 100-byte file header (§3, §4
// item "Database header"). Only the page size is consumed; everything
// else in the real format (schema cookie, text encoding, vacuum settings)
// is outside this reader's scope.
type DatabaseHeader struct {
	PageSize uint32
}

// parseDatabaseHeader extracts the page size from the first 100 bytes of
// the file. A stored value of 1 means 65536, the one encoding quirk SQLite
// uses to fit a 16-bit field.
func parseDatabaseHeader(header []byte) (DatabaseHeader, error) {
	if len(header) < databaseHeaderSize {
		return DatabaseHeader{}, fmt.Errorf("%w: short database header (%d bytes)", ErrInvalidDatabase, len(header))
	}
	raw := binary.BigEndian.Uint16(header[16:18])
	size := uint32(raw)
	if raw == 1 {
		size = 65536
	}
	if size == 0 {
		return DatabaseHeader{}, fmt.Errorf("%w: zero page size", ErrInvalidDatabase)
	}
	return DatabaseHeader{PageSize: size}, nil
}
