// Package crc implements the 16-bit X25 family checksum used to protect
// link frames (CRC-16/MCRF4XX: init 0xFFFF, reflected, no final xor).
package crc

import "encoding/binary"

const (
	Size = 2
	Init = 0xffff
)

// Digest is a running checksum. The zero value is not ready for use; call New.
type Digest struct {
	sum uint16
}

func New() *Digest {
	return &Digest{sum: Init}
}

// Accumulate folds one byte into crc.
func Accumulate(crc uint16, b byte) uint16 {
	tmp := b ^ byte(crc)
	tmp ^= tmp << 4
	return (crc >> 8) ^ uint16(tmp)<<8 ^ uint16(tmp)<<3 ^ uint16(tmp)>>4
}

func (d *Digest) Write(p []byte) (int, error) {
	for _, b := range p {
		d.sum = Accumulate(d.sum, b)
	}
	return len(p), nil
}

func (d *Digest) WriteByte(b byte) error {
	d.sum = Accumulate(d.sum, b)
	return nil
}

func (d *Digest) Sum16() uint16 { return d.sum }

// Sum appends the little-endian checksum to b.
func (d *Digest) Sum(b []byte) []byte {
	return binary.LittleEndian.AppendUint16(b, d.sum)
}

func (d *Digest) Reset() { d.sum = Init }

func (d *Digest) Size() int { return Size }

func (d *Digest) BlockSize() int { return 1 }

// Checksum computes the frame checksum over data followed by the
// per-message seed byte.
func Checksum(data []byte, seed byte) uint16 {
	d := New()
	_, _ = d.Write(data)
	_ = d.WriteByte(seed)
	return d.Sum16()
}
