package crc

import (
	"bytes"
	"hash"
	"testing"
)

var _ hash.Hash = (*Digest)(nil)

func TestCheckValue(t *testing.T) {
	d := New()
	_, _ = d.Write([]byte("123456789"))
	if got := d.Sum16(); got != 0x6f91 {
		t.Fatalf("check value got=%#04x want=0x6f91", got)
	}
	if got := d.Sum(nil); !bytes.Equal(got, []byte{0x91, 0x6f}) {
		t.Fatalf("sum bytes got=% x", got)
	}
}

func TestChecksumSeedParticipates(t *testing.T) {
	data := []byte{9, 0, 1, 1, 0}
	a := Checksum(data, 50)
	b := Checksum(data, 51)
	if a == b {
		t.Fatalf("seed must change the checksum")
	}

	d := New()
	for _, by := range data {
		_ = d.WriteByte(by)
	}
	_ = d.WriteByte(50)
	if d.Sum16() != a {
		t.Fatalf("incremental=%#04x one-shot=%#04x", d.Sum16(), a)
	}
}

func TestResetRestoresInit(t *testing.T) {
	d := New()
	_, _ = d.Write([]byte{1, 2, 3})
	d.Reset()
	if d.Sum16() != Init {
		t.Fatalf("reset got=%#04x", d.Sum16())
	}
}
