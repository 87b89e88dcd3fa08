package main

import "testing"

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int equals int", IntegerValue(5), IntegerValue(5), true},
		{"int equals float", IntegerValue(5), FloatValue(5.0), true},
		{"float not equal int", FloatValue(5.5), IntegerValue(5), false},
		{"null equals null", NullValue(), NullValue(), true},
		{"null not equal int", NullValue(), IntegerValue(0), false},
		{"text equals text", TextValue("abc"), TextValue("abc"), true},
		{"text not equal text", TextValue("abc"), TextValue("abd"), false},
		{"text not comparable to int", TextValue("5"), IntegerValue(5), false},
		{"blob not comparable to text", BlobValue([]byte("abc")), TextValue("abc"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestValueCompare(t *testing.T) {
	cmp, ok := IntegerValue(3).Compare(IntegerValue(5))
	if !ok || cmp >= 0 {
		t.Errorf("Compare(3, 5) = (%d, %v), want negative and ok", cmp, ok)
	}

	cmp, ok = FloatValue(2.5).Compare(IntegerValue(2))
	if !ok || cmp <= 0 {
		t.Errorf("Compare(2.5, 2) = (%d, %v), want positive and ok", cmp, ok)
	}

	cmp, ok = TextValue("apple").Compare(TextValue("banana"))
	if !ok || cmp >= 0 {
		t.Errorf("Compare(apple, banana) = (%d, %v), want negative and ok", cmp, ok)
	}

	if _, ok := NullValue().Compare(IntegerValue(0)); ok {
		t.Error("Compare(Null, 0) should be incomparable")
	}
}

func TestValueDisplay(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{NullValue(), "NULL"},
		{IntegerValue(42), "42"},
		{IntegerValue(-7), "-7"},
		{FloatValue(3.0), "3.0"},
		{TextValue("hello"), "hello"},
		{BlobValue([]byte("bytes")), "bytes"},
	}
	for _, tt := range tests {
		if got := tt.v.Display(); got != tt.want {
			t.Errorf("Display() = %q, want %q", got, tt.want)
		}
	}
}

func TestValueIsNull(t *testing.T) {
	if !NullValue().IsNull() {
		t.Error("NullValue().IsNull() should be true")
	}
	if IntegerValue(0).IsNull() {
		t.Error("IntegerValue(0).IsNull() should be false")
	}
}

func TestDecodeUTF8Lossy(t *testing.T) {
	valid := decodeUTF8Lossy([]byte("clean text"))
	if valid != "clean text" {
		t.Errorf("decodeUTF8Lossy(valid) = %q, want %q", valid, "clean text")
	}

	invalid := decodeUTF8Lossy([]byte{0xff, 0xfe, 'o', 'k'})
	if invalid == "" {
		t.Error("decodeUTF8Lossy(invalid) should not return an empty string")
	}
}
