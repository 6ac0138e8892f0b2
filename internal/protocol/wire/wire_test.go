package wire

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
)

type testKind uint32

const (
	kindA testKind = 1
	kindB testKind = 2
)

var testKindEntries = EnumEntries[testKind]{
	kindA: "A",
	kindB: "B",
}

func TestEncoderLittleEndianLayout(t *testing.T) {
	e := NewEncoder(16)
	e.PutUint16(0x0102)
	e.PutInt32(-2)
	e.PutFloat32(1.5)
	want := []byte{0x02, 0x01, 0xfe, 0xff, 0xff, 0xff, 0x00, 0x00, 0xc0, 0x3f}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("unexpected layout: % x", e.Bytes())
	}

	d := NewDecoder(e.Bytes())
	if got := d.Uint16(); got != 0x0102 {
		t.Fatalf("uint16 got=%#x", got)
	}
	if got := d.Int32(); got != -2 {
		t.Fatalf("int32 got=%d", got)
	}
	if got := d.Float32(); got != 1.5 {
		t.Fatalf("float32 got=%v", got)
	}
	if d.Remaining() != 0 {
		t.Fatalf("unexpected remaining=%d", d.Remaining())
	}
}

func TestSixtyFourBitRoundTrip(t *testing.T) {
	e := NewEncoder(24)
	e.PutUint64(math.MaxUint64 - 1)
	e.PutInt64(math.MinInt64)
	e.PutFloat64(-3.25)

	d := NewDecoder(e.Bytes())
	if got := d.Uint64(); got != math.MaxUint64-1 {
		t.Fatalf("uint64 got=%d", got)
	}
	if got := d.Int64(); got != math.MinInt64 {
		t.Fatalf("int64 got=%d", got)
	}
	if got := d.Float64(); got != -3.25 {
		t.Fatalf("float64 got=%v", got)
	}
}

func TestDecoderPastEndYieldsZero(t *testing.T) {
	d := NewDecoder([]byte{0x34})
	if got := d.Uint16(); got != 0x34 {
		t.Fatalf("partial uint16 got=%#x", got)
	}
	if got := d.Uint32(); got != 0 {
		t.Fatalf("past-end uint32 got=%d", got)
	}
	if got := d.String(4); got != "" {
		t.Fatalf("past-end string got=%q", got)
	}
}

func TestStringPadAndStop(t *testing.T) {
	e := NewEncoder(8)
	e.PutString("abc", 6)
	if !bytes.Equal(e.Bytes(), []byte{'a', 'b', 'c', 0, 0, 0}) {
		t.Fatalf("unexpected padding: % x", e.Bytes())
	}
	if got := NewDecoder(e.Bytes()).String(6); got != "abc" {
		t.Fatalf("stop at NUL got=%q", got)
	}

	full := NewEncoder(4)
	full.PutString("abcdef", 4)
	if got := NewDecoder(full.Bytes()).String(4); got != "abcd" {
		t.Fatalf("stop at length got=%q", got)
	}
}

func TestArraysBounded(t *testing.T) {
	e := NewEncoder(16)
	e.PutUint16s([]uint16{1, 2, 3}, 2)
	e.PutInt16s([]int16{-1}, 2)
	e.PutUint8s([]uint8{9}, 3)
	if e.Len() != 4+4+3 {
		t.Fatalf("unexpected length=%d", e.Len())
	}

	d := NewDecoder(e.Bytes())
	if got := d.Uint16s(2); got[0] != 1 || got[1] != 2 {
		t.Fatalf("uint16s got=%v", got)
	}
	if got := d.Int16s(2); got[0] != -1 || got[1] != 0 {
		t.Fatalf("int16s got=%v", got)
	}
	if got := d.Uint8s(3); !bytes.Equal(got, []byte{9, 0, 0}) {
		t.Fatalf("uint8s got=%v", got)
	}
}

func TestEnumPreservesUnknownValues(t *testing.T) {
	known := testKindEntries.Decode(2)
	if !known.Known || known.Entry != kindB {
		t.Fatalf("expected known entry, got %+v", known)
	}
	if name := testKindEntries.Name(known); name != "B" {
		t.Fatalf("unexpected name=%q", name)
	}

	unknown := testKindEntries.Decode(77)
	if unknown.Known || unknown.Raw != 77 {
		t.Fatalf("expected preserved unknown value, got %+v", unknown)
	}
	if name := testKindEntries.Name(unknown); name != "77" {
		t.Fatalf("unexpected name=%q", name)
	}

	e := NewEncoder(2)
	e.PutEnum(unknown.Raw, 2)
	if got := NewDecoder(e.Bytes()).Enum(2); got != 77 {
		t.Fatalf("enum round trip got=%d", got)
	}
}

func TestEnumJSONIsRawValue(t *testing.T) {
	b, err := json.Marshal(testKindEntries.Of(kindA))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "1" {
		t.Fatalf("unexpected json=%s", b)
	}
	var v Enum[testKind]
	if err := json.Unmarshal([]byte("300"), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Raw != 300 {
		t.Fatalf("unexpected raw=%d", v.Raw)
	}
}

func TestEnumJSONResolvesRegisteredTable(t *testing.T) {
	type level uint32
	entries := Register(EnumEntries[level]{1: "LOW", 2: "HIGH"})

	var v Enum[level]
	if err := json.Unmarshal([]byte("2"), &v); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if v != entries.Of(2) || !v.Known {
		t.Fatalf("number not resolved: %+v", v)
	}
	if err := json.Unmarshal([]byte(`"LOW"`), &v); err != nil {
		t.Fatalf("unmarshal name: %v", err)
	}
	if v != entries.Of(1) {
		t.Fatalf("name not resolved: %+v", v)
	}
	if err := json.Unmarshal([]byte("9"), &v); err != nil {
		t.Fatalf("unmarshal unknown: %v", err)
	}
	if v.Known || v.Raw != 9 {
		t.Fatalf("unknown value not preserved: %+v", v)
	}
	if err := json.Unmarshal([]byte(`"MEDIUM"`), &v); err == nil {
		t.Fatalf("expected error for unknown name")
	}
}

func TestTruncateExpand(t *testing.T) {
	payload := []byte{1, 0, 2, 0, 0}
	trimmed := Truncate(payload)
	if !bytes.Equal(trimmed, []byte{1, 0, 2}) {
		t.Fatalf("unexpected trimmed=% x", trimmed)
	}
	if got := Expand(trimmed, 5); !bytes.Equal(got, payload) {
		t.Fatalf("unexpected expanded=% x", got)
	}
	if got := Truncate([]byte{0, 0, 0}); len(got) != 1 {
		t.Fatalf("all-zero payload should keep one byte, got %d", len(got))
	}
	if got := Truncate(nil); len(got) != 0 {
		t.Fatalf("empty payload should stay empty")
	}
}
