package frame

import (
	"crypto/subtle"
	"time"

	sha256 "github.com/minio/sha256-simd"
)

const (
	KeyLen = 32
	MACLen = 6

	MaxTimestamp = 1<<48 - 1
)

// signingEpoch is 2015-01-01T00:00:00Z; signature timestamps count 10us
// ticks since then.
var signingEpoch = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

// SecretKey is the shared key of a signed link.
type SecretKey [KeyLen]byte

// Signing is the caller-supplied context for one signed send. The core
// does not track timestamps across sends; monotonicity is the caller's
// policy.
type Signing struct {
	Key       SecretKey
	LinkID    uint8
	Timestamp uint64
}

// Signature is the v2 signature block.
type Signature struct {
	LinkID    uint8
	Timestamp uint64
	MAC       [MACLen]byte
}

// Timestamp converts t into signature ticks.
func Timestamp(t time.Time) uint64 {
	d := t.Sub(signingEpoch)
	if d < 0 {
		return 0
	}
	return uint64(d / (10 * time.Microsecond))
}

// ValidateSignature recomputes the MAC with key. Unsigned frames never
// validate.
func (f RawFrame) ValidateSignature(key SecretKey) bool {
	if f.Signature == nil {
		return false
	}
	mac := computeMAC(key, f.unsignedBytes(), f.Signature.LinkID, f.Signature.Timestamp)
	return subtle.ConstantTimeCompare(mac[:], f.Signature.MAC[:]) == 1
}

// computeMAC digests key, the unsigned frame, the link id and the 48-bit
// timestamp, keeping the first 6 bytes.
func computeMAC(key SecretKey, unsigned []byte, linkID uint8, timestamp uint64) [MACLen]byte {
	h := sha256.New()
	h.Write(key[:])
	h.Write(unsigned)
	h.Write([]byte{linkID})
	h.Write(appendUint48(nil, timestamp))

	var mac [MACLen]byte
	copy(mac[:], h.Sum(nil))
	return mac
}
