package main

import (
	"math"
	"testing"
)

// buildRecordPayload assembles a record payload (§4.2): a header-size
// varint (value irrelevant; parseRecord reads and discards it), one
// serial-type varint per column, then the column bytes concatenated.
func buildRecordPayload(serialTypes []uint64, columnBytes [][]byte) []byte {
	var header []byte
	for _, st := range serialTypes {
		header = append(header, encodeVarint(st)...)
	}
	payload := append([]byte{}, encodeVarint(1)...)
	payload = append(payload, header...)
	for _, b := range columnBytes {
		payload = append(payload, b...)
	}
	return payload
}

func TestParseRecordBasicTypes(t *testing.T) {
	payload := buildRecordPayload(
		[]uint64{0, 1, 7, 13 + 2*5, 8, 9},
		[][]byte{
			nil,
			{0x2a},
			{0x40, 0x09, 0x21, 0xfb, 0x54, 0x44, 0x2d, 0x18}, // pi as f64
			[]byte("hello"),
			nil,
			nil,
		},
	)

	rec, err := parseRecord(payload, 6)
	if err != nil {
		t.Fatalf("parseRecord() error = %v", err)
	}
	if len(rec.Values) != 6 {
		t.Fatalf("len(Values) = %d, want 6", len(rec.Values))
	}
	if !rec.Values[0].IsNull() {
		t.Error("column 0 should be Null")
	}
	if rec.Values[1].Int64() != 42 {
		t.Errorf("column 1 = %d, want 42", rec.Values[1].Int64())
	}
	if math.Abs(rec.Values[2].Float64()-math.Pi) > 1e-9 {
		t.Errorf("column 2 = %f, want pi", rec.Values[2].Float64())
	}
	if rec.Values[3].Text() != "hello" {
		t.Errorf("column 3 = %q, want %q", rec.Values[3].Text(), "hello")
	}
	if rec.Values[4].Int64() != 0 {
		t.Errorf("column 4 (serial 8) = %d, want 0", rec.Values[4].Int64())
	}
	if rec.Values[5].Int64() != 1 {
		t.Errorf("column 5 (serial 9) = %d, want 1", rec.Values[5].Int64())
	}
}

func TestParseRecordSignExtension(t *testing.T) {
	// serial type 3: i24, -1 encoded as 0xFFFFFF.
	payload := buildRecordPayload([]uint64{3}, [][]byte{{0xff, 0xff, 0xff}})
	rec, err := parseRecord(payload, 1)
	if err != nil {
		t.Fatalf("parseRecord() error = %v", err)
	}
	if rec.Values[0].Int64() != -1 {
		t.Errorf("i24 0xFFFFFF = %d, want -1", rec.Values[0].Int64())
	}

	// serial type 5: i48, -1 encoded as 6 bytes of 0xFF.
	payload = buildRecordPayload([]uint64{5}, [][]byte{{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}})
	rec, err = parseRecord(payload, 1)
	if err != nil {
		t.Fatalf("parseRecord() error = %v", err)
	}
	if rec.Values[0].Int64() != -1 {
		t.Errorf("i48 0xFFFFFFFFFFFF = %d, want -1", rec.Values[0].Int64())
	}
}

func TestParseRecordBlob(t *testing.T) {
	blob := []byte{0x01, 0x02, 0x03}
	payload := buildRecordPayload([]uint64{12 + 2*uint64(len(blob))}, [][]byte{blob})
	rec, err := parseRecord(payload, 1)
	if err != nil {
		t.Fatalf("parseRecord() error = %v", err)
	}
	if string(rec.Values[0].Blob()) != string(blob) {
		t.Errorf("blob = %v, want %v", rec.Values[0].Blob(), blob)
	}
}

func TestParseRecordUnknownSerialType(t *testing.T) {
	payload := buildRecordPayload([]uint64{10}, [][]byte{nil})
	if _, err := parseRecord(payload, 1); err == nil {
		t.Error("parseRecord() with unknown serial type 10 should error")
	}
}

func TestParseRecordTruncated(t *testing.T) {
	payload := buildRecordPayload([]uint64{4}, [][]byte{{0x00, 0x00}}) // needs 4 bytes, has 2
	if _, err := parseRecord(payload, 1); err == nil {
		t.Error("parseRecord() with truncated column data should error")
	}
}

func TestSerialTypeWidth(t *testing.T) {
	tests := []struct {
		st        uint64
		wantWidth int
		wantOK    bool
	}{
		{0, 0, true},
		{1, 1, true},
		{6, 8, true},
		{7, 8, true},
		{12, 0, true},
		{14, 1, true},
		{13, 0, true},
		{15, 1, true},
		{10, 0, false},
		{11, 0, false},
	}
	for _, tt := range tests {
		w, ok := serialTypeWidth(tt.st)
		if w != tt.wantWidth || ok != tt.wantOK {
			t.Errorf("serialTypeWidth(%d) = (%d, %v), want (%d, %v)", tt.st, w, ok, tt.wantWidth, tt.wantOK)
		}
	}
}
