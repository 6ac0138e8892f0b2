package frame

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/danmuck/mavlink/internal/protocol/crc"
	"github.com/danmuck/mavlink/internal/protocol/wire"
)

const (
	MarkerV1 byte = 0xFE
	MarkerV2 byte = 0xFD

	HeaderLenV1   = 6
	HeaderLenV2   = 10
	ChecksumLen   = 2
	SignatureLen  = 13
	MaxPayloadLen = 255

	// MaxFrameLen is the largest possible frame: signed v2 with a full payload.
	MaxFrameLen = HeaderLenV2 + MaxPayloadLen + ChecksumLen + SignatureLen

	MaxMessageIDV1 = 0xFF
	MaxMessageIDV2 = 0xFFFFFF

	// FlagSigned is incompat flag bit 0: a signature block follows the checksum.
	FlagSigned uint8 = 0x01
)

var (
	ErrShortFrame     = errors.New("frame: short frame")
	ErrInvalidMarker  = errors.New("frame: invalid start marker")
	ErrLengthMismatch = errors.New("frame: length does not match header")
)

// Version selects the wire layout.
type Version uint8

const (
	V1 Version = 1
	V2 Version = 2
)

func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	default:
		return fmt.Sprintf("v%d", uint8(v))
	}
}

// Header carries the per-frame routing fields chosen by the sender.
type Header struct {
	Sequence    uint8
	SystemID    uint8
	ComponentID uint8
	MessageID   uint32
}

// RawFrame is one frame as seen on the wire, before dialect decoding.
type RawFrame struct {
	Version       Version
	PayloadLength uint8
	IncompatFlags uint8
	CompatFlags   uint8
	Sequence      uint8
	SystemID      uint8
	ComponentID   uint8
	MessageID     uint32
	Payload       []byte
	Checksum      uint16
	Signature     *Signature
}

// EncodingError reports a message that cannot be framed as requested.
type EncodingError struct {
	Version   Version
	MessageID uint32
	Reason    string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("frame: cannot encode message %d as %s: %s", e.MessageID, e.Version, e.Reason)
}

// EncodeV1 builds a v1 frame. The crcExtra seed is folded into the
// checksum and not transmitted.
func EncodeV1(h Header, payload []byte, crcExtra uint8) ([]byte, error) {
	if h.MessageID > MaxMessageIDV1 {
		return nil, &EncodingError{Version: V1, MessageID: h.MessageID, Reason: "message id exceeds 8 bits"}
	}
	if len(payload) > MaxPayloadLen {
		return nil, &EncodingError{Version: V1, MessageID: h.MessageID, Reason: "payload exceeds 255 bytes"}
	}
	buf := make([]byte, 0, HeaderLenV1+len(payload)+ChecksumLen)
	buf = append(buf, MarkerV1, byte(len(payload)), h.Sequence, h.SystemID, h.ComponentID, byte(h.MessageID))
	buf = append(buf, payload...)
	return binary.LittleEndian.AppendUint16(buf, crc.Checksum(buf[1:], crcExtra)), nil
}

// EncodeUnsignedV2 builds a v2 frame with trailing payload zeros stripped.
func EncodeUnsignedV2(h Header, payload []byte, crcExtra uint8) ([]byte, error) {
	return encodeV2(h, payload, crcExtra, 0)
}

// EncodeSignedV2 builds a signed v2 frame.
func EncodeSignedV2(h Header, payload []byte, crcExtra uint8, s Signing) ([]byte, error) {
	if s.Timestamp > MaxTimestamp {
		return nil, &EncodingError{Version: V2, MessageID: h.MessageID, Reason: "timestamp exceeds 48 bits"}
	}
	buf, err := encodeV2(h, payload, crcExtra, FlagSigned)
	if err != nil {
		return nil, err
	}
	mac := computeMAC(s.Key, buf, s.LinkID, s.Timestamp)
	buf = append(buf, s.LinkID)
	buf = appendUint48(buf, s.Timestamp)
	return append(buf, mac[:]...), nil
}

func encodeV2(h Header, payload []byte, crcExtra uint8, incompat uint8) ([]byte, error) {
	if h.MessageID > MaxMessageIDV2 {
		return nil, &EncodingError{Version: V2, MessageID: h.MessageID, Reason: "message id exceeds 24 bits"}
	}
	if len(payload) > MaxPayloadLen {
		return nil, &EncodingError{Version: V2, MessageID: h.MessageID, Reason: "payload exceeds 255 bytes"}
	}
	payload = wire.Truncate(payload)
	buf := make([]byte, 0, HeaderLenV2+len(payload)+ChecksumLen+SignatureLen)
	buf = append(buf,
		MarkerV2,
		byte(len(payload)),
		incompat,
		0,
		h.Sequence,
		h.SystemID,
		h.ComponentID,
		byte(h.MessageID),
		byte(h.MessageID>>8),
		byte(h.MessageID>>16),
	)
	buf = append(buf, payload...)
	return binary.LittleEndian.AppendUint16(buf, crc.Checksum(buf[1:], crcExtra)), nil
}

// Size returns the total frame length implied by the leading bytes of b,
// which must start at a marker. It needs 2 bytes for v1 and 3 for v2.
func Size(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, ErrShortFrame
	}
	switch b[0] {
	case MarkerV1:
		if len(b) < 2 {
			return 0, ErrShortFrame
		}
		return HeaderLenV1 + int(b[1]) + ChecksumLen, nil
	case MarkerV2:
		if len(b) < 3 {
			return 0, ErrShortFrame
		}
		n := HeaderLenV2 + int(b[1]) + ChecksumLen
		if b[2]&FlagSigned != 0 {
			n += SignatureLen
		}
		return n, nil
	default:
		return 0, ErrInvalidMarker
	}
}

// Decode parses exactly one frame from b. The checksum is read but not
// verified; see ValidateCRC.
func Decode(b []byte) (RawFrame, error) {
	n, err := Size(b)
	if err != nil {
		return RawFrame{}, err
	}
	if len(b) < n {
		return RawFrame{}, ErrShortFrame
	}
	if len(b) != n {
		return RawFrame{}, ErrLengthMismatch
	}

	var f RawFrame
	var body []byte
	if b[0] == MarkerV1 {
		f = RawFrame{
			Version:       V1,
			PayloadLength: b[1],
			Sequence:      b[2],
			SystemID:      b[3],
			ComponentID:   b[4],
			MessageID:     uint32(b[5]),
		}
		body = b[HeaderLenV1:]
	} else {
		f = RawFrame{
			Version:       V2,
			PayloadLength: b[1],
			IncompatFlags: b[2],
			CompatFlags:   b[3],
			Sequence:      b[4],
			SystemID:      b[5],
			ComponentID:   b[6],
			MessageID:     uint32(b[7]) | uint32(b[8])<<8 | uint32(b[9])<<16,
		}
		body = b[HeaderLenV2:]
	}

	f.Payload = make([]byte, f.PayloadLength)
	copy(f.Payload, body)
	f.Checksum = binary.LittleEndian.Uint16(body[f.PayloadLength:])

	if f.Version == V2 && f.IncompatFlags&FlagSigned != 0 {
		sig := body[int(f.PayloadLength)+ChecksumLen:]
		f.Signature = &Signature{
			LinkID:    sig[0],
			Timestamp: uint48(sig[1:7]),
		}
		copy(f.Signature.MAC[:], sig[7:13])
	}
	return f, nil
}

// ValidateCRC recomputes the checksum with the given seed.
func (f RawFrame) ValidateCRC(crcExtra uint8) bool {
	d := crc.New()
	_, _ = d.Write(f.header()[1:])
	_, _ = d.Write(f.Payload)
	_ = d.WriteByte(crcExtra)
	return d.Sum16() == f.Checksum
}

// Bytes re-serializes the frame exactly as it was received.
func (f RawFrame) Bytes() []byte {
	b := f.unsignedBytes()
	if f.Signature != nil {
		b = append(b, f.Signature.LinkID)
		b = appendUint48(b, f.Signature.Timestamp)
		b = append(b, f.Signature.MAC[:]...)
	}
	return b
}

// Len is the on-wire frame length.
func (f RawFrame) Len() int {
	n := len(f.header()) + len(f.Payload) + ChecksumLen
	if f.Signature != nil {
		n += SignatureLen
	}
	return n
}

func (f RawFrame) header() []byte {
	if f.Version == V1 {
		return []byte{MarkerV1, f.PayloadLength, f.Sequence, f.SystemID, f.ComponentID, byte(f.MessageID)}
	}
	return []byte{
		MarkerV2,
		f.PayloadLength,
		f.IncompatFlags,
		f.CompatFlags,
		f.Sequence,
		f.SystemID,
		f.ComponentID,
		byte(f.MessageID),
		byte(f.MessageID >> 8),
		byte(f.MessageID >> 16),
	}
}

func (f RawFrame) unsignedBytes() []byte {
	b := f.header()
	b = append(b, f.Payload...)
	return binary.LittleEndian.AppendUint16(b, f.Checksum)
}

func appendUint48(b []byte, v uint64) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24), byte(v>>32), byte(v>>40))
}

func uint48(b []byte) uint64 {
	_ = b[5]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 |
		uint64(b[3])<<24 | uint64(b[4])<<32 | uint64(b[5])<<40
}
