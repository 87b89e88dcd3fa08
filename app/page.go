package main

import (
	"encoding/binary"
	"fmt"
	"io"
)

// pageKind classifies a B-tree page per §3's four values.
type pageKind uint8

const (
	pageKindInteriorIndex pageKind = 2
	pageKindInteriorTable pageKind = 5
	pageKindLeafIndex     pageKind = 10
	pageKindLeafTable     pageKind = 13
)

func (k pageKind) valid() bool {
	switch k {
	case pageKindInteriorIndex, pageKindInteriorTable, pageKindLeafIndex, pageKindLeafTable:
		return true
	default:
		return false
	}
}

func (k pageKind) isInterior() bool {
	return k == pageKindInteriorIndex || k == pageKindInteriorTable
}

// headerSize is 12 for interior pages (they carry a rightmost-child
// pointer) and 8 for leaves.
func (k pageKind) headerSize() int {
	if k.isInterior() {
		return 12
	}
	return 8
}

// PageHeader is the decoded B-tree page header (§3).
type PageHeader struct {
	Kind             pageKind
	FirstFreeblock   uint16
	CellCount        uint16
	ContentStart     uint16
	FragmentedBytes  uint8
	RightmostPointer uint32 // only meaningful when Kind.isInterior()
}

// Page is one page's raw bytes plus its parsed header.
type Page struct {
	Number int
	Data   []byte
	Header PageHeader
	// PointerArrayOffset is the in-page offset at which the cell-pointer
	// array begins: dbHeaderOffset(Number) + Header.Kind.headerSize().
	PointerArrayOffset int
}

// dbHeaderOffset returns 100 for page 1 (whose page header sits after the
// database header) and 0 for every other page.
func dbHeaderOffset(pageNumber int) int {
	if pageNumber == 1 {
		return databaseHeaderSize
	}
	return 0
}

// parsePageHeader decodes the page header embedded in a page's bytes.
// pageData must already be sliced so pageData[0] is byte 0 of the page
// (callers do not pre-skip the 100-byte database header themselves; this
// function does, via dbHeaderOffset).
func parsePageHeader(pageData []byte, pageNumber int) (PageHeader, error) {
	base := dbHeaderOffset(pageNumber)
	if base+8 > len(pageData) {
		return PageHeader{}, fmt.Errorf("%w: page %d too short for header", ErrInsufficientData, pageNumber)
	}
	kind := pageKind(pageData[base])
	if !kind.valid() {
		return PageHeader{}, fmt.Errorf("%w: page %d has kind byte 0x%02x", ErrInvalidPageType, pageNumber, pageData[base])
	}
	h := PageHeader{
		Kind:            kind,
		FirstFreeblock:  binary.BigEndian.Uint16(pageData[base+1 : base+3]),
		CellCount:       binary.BigEndian.Uint16(pageData[base+3 : base+5]),
		ContentStart:    binary.BigEndian.Uint16(pageData[base+5 : base+7]),
		FragmentedBytes: pageData[base+7],
	}
	if kind.isInterior() {
		if base+12 > len(pageData) {
			return PageHeader{}, fmt.Errorf("%w: page %d missing rightmost pointer", ErrInsufficientData, pageNumber)
		}
		h.RightmostPointer = binary.BigEndian.Uint32(pageData[base+8 : base+12])
	}
	return h, nil
}

// CellOffset returns the absolute in-page byte offset of the i-th entry of
// the cell-pointer array (§4.4). Readers must never assume this array is
// sorted; it is indexed only by cell-pointer order, not by key order.
func (p *Page) CellOffset(i int) (int, error) {
	if i < 0 || i >= int(p.Header.CellCount) {
		return 0, fmt.Errorf("%w: cell index %d out of range (count %d)", ErrInvalidCellPointer, i, p.Header.CellCount)
	}
	pos := p.PointerArrayOffset + i*2
	if pos+2 > len(p.Data) {
		return 0, fmt.Errorf("%w: cell pointer %d beyond page", ErrInvalidCellPointer, i)
	}
	off := int(binary.BigEndian.Uint16(p.Data[pos : pos+2]))
	if off <= 0 || off > len(p.Data) {
		return 0, fmt.Errorf("%w: cell pointer %d resolves to %d (page size %d)", ErrInvalidCellPointer, i, off, len(p.Data))
	}
	return off, nil
}

// Reader decodes a SQLite-format file: a paged byte layout behind random
// positional reads. It owns one file handle for its lifetime (§5);
// concurrent use is not supported.
type Reader struct {
	file     io.ReaderAt
	closer   io.Closer
	pageSize uint32
	cfg      *DatabaseConfig

	cache      map[int]*Page
	cacheOrder []int
}

// newReader wraps an already-open file plus its parsed header.
func newReader(file io.ReaderAt, closer io.Closer, pageSize uint32, cfg *DatabaseConfig) *Reader {
	r := &Reader{file: file, closer: closer, pageSize: pageSize, cfg: cfg}
	if cfg.PageCacheSize > 0 {
		r.cache = make(map[int]*Page, cfg.PageCacheSize)
	}
	return r
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// ReadPage returns page n's bytes and parsed header (§4.3). Pages are
// 1-indexed; page n occupies file bytes [(n-1)*pageSize, n*pageSize).
func (r *Reader) ReadPage(n int) (*Page, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: page number %d", ErrInvalidPageType, n)
	}
	if r.cache != nil {
		if p, ok := r.cache[n]; ok {
			return p, nil
		}
	}

	buf := make([]byte, r.pageSize)
	offset := int64(n-1) * int64(r.pageSize)
	if _, err := r.file.ReadAt(buf, offset); err != nil {
		return nil, NewDatabaseError("read_page", err, map[string]interface{}{"page": n, "offset": offset})
	}

	header, err := parsePageHeader(buf, n)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Number:             n,
		Data:               buf,
		Header:             header,
		PointerArrayOffset: dbHeaderOffset(n) + header.Kind.headerSize(),
	}

	if r.cache != nil {
		r.cachePut(n, page)
	}
	return page, nil
}

// cachePut stores a page, evicting the oldest entry (FIFO) once the
// configured capacity is exceeded.
func (r *Reader) cachePut(n int, p *Page) {
	r.cache[n] = p
	r.cacheOrder = append(r.cacheOrder, n)
	if len(r.cacheOrder) > r.cfg.PageCacheSize {
		oldest := r.cacheOrder[0]
		r.cacheOrder = r.cacheOrder[1:]
		delete(r.cache, oldest)
	}
}

// PageSize reports the database's page size.
func (r *Reader) PageSize() uint32 { return r.pageSize }
