package wire

import (
	"encoding/binary"
	"math"
)

// Encoder appends little-endian field values to a payload.
type Encoder struct {
	buf []byte
}

func NewEncoder(size int) *Encoder {
	return &Encoder{buf: make([]byte, 0, size)}
}

// Bytes returns the encoded payload.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

func (e *Encoder) Len() int {
	return len(e.buf)
}

func (e *Encoder) PutUint8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) PutInt8(v int8) {
	e.buf = append(e.buf, byte(v))
}

func (e *Encoder) PutUint16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *Encoder) PutInt16(v int16) {
	e.PutUint16(uint16(v))
}

func (e *Encoder) PutUint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) PutInt32(v int32) {
	e.PutUint32(uint32(v))
}

func (e *Encoder) PutUint64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

func (e *Encoder) PutInt64(v int64) {
	e.PutUint64(uint64(v))
}

func (e *Encoder) PutFloat32(v float32) {
	e.PutUint32(math.Float32bits(v))
}

func (e *Encoder) PutFloat64(v float64) {
	e.PutUint64(math.Float64bits(v))
}

// PutString writes s as a char[n] field: truncated to n bytes, NUL padded.
func (e *Encoder) PutString(s string, n int) {
	if len(s) > n {
		s = s[:n]
	}
	e.buf = append(e.buf, s...)
	e.pad(n - len(s))
}

// PutUint8s writes exactly n elements, zero filling past len(v).
func (e *Encoder) PutUint8s(v []uint8, n int) {
	if len(v) > n {
		v = v[:n]
	}
	e.buf = append(e.buf, v...)
	e.pad(n - len(v))
}

func (e *Encoder) PutInt16s(v []int16, n int) {
	for i := 0; i < n; i++ {
		var x int16
		if i < len(v) {
			x = v[i]
		}
		e.PutInt16(x)
	}
}

func (e *Encoder) PutUint16s(v []uint16, n int) {
	for i := 0; i < n; i++ {
		var x uint16
		if i < len(v) {
			x = v[i]
		}
		e.PutUint16(x)
	}
}

func (e *Encoder) PutFloat32s(v []float32, n int) {
	for i := 0; i < n; i++ {
		var x float32
		if i < len(v) {
			x = v[i]
		}
		e.PutFloat32(x)
	}
}

// PutEnum writes raw using width bytes (1, 2 or 4).
func (e *Encoder) PutEnum(raw uint32, width int) {
	switch width {
	case 1:
		e.PutUint8(uint8(raw))
	case 2:
		e.PutUint16(uint16(raw))
	default:
		e.PutUint32(raw)
	}
}

func (e *Encoder) pad(n int) {
	for ; n > 0; n-- {
		e.buf = append(e.buf, 0)
	}
}

// Decoder reads little-endian field values from a payload.
// Reads past the end of the payload yield zero values, which is how
// truncated v2 payloads are expanded.
type Decoder struct {
	buf []byte
	off int
}

func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Remaining reports unread payload bytes.
func (d *Decoder) Remaining() int {
	if d.off >= len(d.buf) {
		return 0
	}
	return len(d.buf) - d.off
}

func (d *Decoder) next(n int) []byte {
	var out [8]byte
	start := d.off
	d.off += n
	if start >= len(d.buf) {
		return out[:n]
	}
	copy(out[:n], d.buf[start:])
	return out[:n]
}

func (d *Decoder) Uint8() uint8 {
	return d.next(1)[0]
}

func (d *Decoder) Int8() int8 {
	return int8(d.Uint8())
}

func (d *Decoder) Uint16() uint16 {
	return binary.LittleEndian.Uint16(d.next(2))
}

func (d *Decoder) Int16() int16 {
	return int16(d.Uint16())
}

func (d *Decoder) Uint32() uint32 {
	return binary.LittleEndian.Uint32(d.next(4))
}

func (d *Decoder) Int32() int32 {
	return int32(d.Uint32())
}

func (d *Decoder) Uint64() uint64 {
	return binary.LittleEndian.Uint64(d.next(8))
}

func (d *Decoder) Int64() int64 {
	return int64(d.Uint64())
}

func (d *Decoder) Float32() float32 {
	return math.Float32frombits(d.Uint32())
}

func (d *Decoder) Float64() float64 {
	return math.Float64frombits(d.Uint64())
}

// String reads a char[n] field, stopping at the first NUL.
func (d *Decoder) String(n int) string {
	raw := d.Uint8s(n)
	for i, b := range raw {
		if b == 0 {
			return string(raw[:i])
		}
	}
	return string(raw)
}

func (d *Decoder) Uint8s(n int) []uint8 {
	out := make([]uint8, n)
	if d.off < len(d.buf) {
		copy(out, d.buf[d.off:])
	}
	d.off += n
	return out
}

func (d *Decoder) Int16s(n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = d.Int16()
	}
	return out
}

func (d *Decoder) Uint16s(n int) []uint16 {
	out := make([]uint16, n)
	for i := range out {
		out[i] = d.Uint16()
	}
	return out
}

func (d *Decoder) Float32s(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = d.Float32()
	}
	return out
}

// Enum reads a width byte enum value.
func (d *Decoder) Enum(width int) uint32 {
	switch width {
	case 1:
		return uint32(d.Uint8())
	case 2:
		return uint32(d.Uint16())
	default:
		return d.Uint32()
	}
}

// Truncate strips trailing zero bytes from a v2 payload. A non-empty
// payload keeps its first byte.
func Truncate(payload []byte) []byte {
	n := len(payload)
	for n > 1 && payload[n-1] == 0 {
		n--
	}
	return payload[:n]
}

// Expand zero pads payload back to size. Payloads already at or above
// size are returned unchanged.
func Expand(payload []byte, size int) []byte {
	if len(payload) >= size {
		return payload
	}
	out := make([]byte, size)
	copy(out, payload)
	return out
}
