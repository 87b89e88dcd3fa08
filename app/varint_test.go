package main

import "testing"

func TestReadVarint(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		wantValue uint64
		wantLen   int
	}{
		{"single byte zero", []byte{0x00}, 0, 1},
		{"single byte small", []byte{0x7f}, 127, 1},
		{"two bytes", []byte{0x81, 0x00}, 128, 2},
		{"two bytes max", []byte{0xff, 0x7f}, 16383, 2},
		{"nine byte full width", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, 0xFFFFFFFFFFFFFFFF, 9},
		{"trailing garbage ignored", []byte{0x05, 0xAA, 0xBB}, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := readVarint(tt.data, 0)
			if got != tt.wantValue || n != tt.wantLen {
				t.Errorf("readVarint(%v) = (%d, %d), want (%d, %d)", tt.data, got, n, tt.wantValue, tt.wantLen)
			}
		})
	}
}

func TestReadVarintTruncated(t *testing.T) {
	_, n := readVarint([]byte{0x81}, 0)
	if n != 0 {
		t.Errorf("readVarint on truncated continuation byte: n = %d, want 0", n)
	}
}

func TestReadVarintAtOffset(t *testing.T) {
	data := []byte{0xAA, 0xBB, 0x00, 0x2A}
	v, n := readVarint(data, 3)
	if v != 0x2A || n != 1 {
		t.Errorf("readVarint at offset 3 = (%d, %d), want (42, 1)", v, n)
	}
}

func TestVarintLen(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"zero", []byte{0x00}, 1},
		{"one byte max", []byte{0x7f}, 1},
		{"two bytes", []byte{0x81, 0x00}, 2},
		{"truncated", []byte{0x81}, 0},
	}
	for _, tt := range tests {
		if got := varintLen(tt.data, 0); got != tt.want {
			t.Errorf("varintLen(%v) = %d, want %d", tt.data, got, tt.want)
		}
	}
}
