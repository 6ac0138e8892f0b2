package session

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/mavlink/internal/logging"
	"github.com/danmuck/mavlink/internal/observability"
	"github.com/danmuck/mavlink/internal/protocol/dialect"
	"github.com/danmuck/mavlink/internal/protocol/frame"
	"github.com/danmuck/mavlink/internal/protocol/wire"
	"github.com/rs/zerolog"
)

// Drop reasons, used as the metrics label.
const (
	DropUnknownMessage    = "unknown_message"
	DropIncompatibleFlags = "incompatible_flags"
	DropBadCRC            = "bad_crc"
	DropBadSignature      = "bad_signature"
	DropUnsigned          = "unsigned"
	DropDecodeFailed      = "decode_failed"
)

// linkState is never mutated after it is published.
type linkState struct {
	open      bool
	transport io.ReadWriteCloser
	reader    *frame.Reader
	writer    *bufio.Writer
}

var closedState = &linkState{}

// Envelope is one accepted inbound message with its frame metadata.
type Envelope struct {
	Version     frame.Version    `json:"version"`
	Sequence    uint8            `json:"sequence"`
	SystemID    uint8            `json:"system_id"`
	ComponentID uint8            `json:"component_id"`
	MessageID   uint32           `json:"message_id"`
	Name        string           `json:"name"`
	Message     dialect.Message  `json:"message"`
	Signature   *frame.Signature `json:"signature,omitempty"`
	ReceivedAt  time.Time        `json:"received_at"`
	Raw         frame.RawFrame   `json:"-"`
}

// Conn is a MAVLink connection over any byte-stream transport. One
// goroutine reads with Next while any number send concurrently.
type Conn struct {
	dialect dialect.Dialect
	cfg     Config
	log     zerolog.Logger

	state atomic.Pointer[linkState]

	readMu  sync.Mutex
	writeMu sync.Mutex
	seq     uint8

	failures chan error
}

func NewConn(d dialect.Dialect, cfg Config) *Conn {
	cfg = cfg.WithDefaults()
	c := &Conn{
		dialect:  d,
		cfg:      cfg,
		log:      logging.For("session").With().Str("link", cfg.Name).Logger(),
		failures: make(chan error, 1),
	}
	c.state.Store(closedState)
	return c
}

func (c *Conn) Name() string {
	return c.cfg.Name
}

func (c *Conn) IsOpen() bool {
	return c.state.Load().open
}

// Failures reports transport failures independently of the caller that
// observed them. At most one failure is buffered.
func (c *Conn) Failures() <-chan error {
	return c.failures
}

// Connect binds transport and moves the Conn to Open.
func (c *Conn) Connect(transport io.ReadWriteCloser) error {
	cur := c.state.Load()
	if cur.open {
		return ErrAlreadyOpen
	}
	next := &linkState{
		open:      true,
		transport: transport,
		reader:    frame.NewReaderSize(transport, c.cfg.ReadBufferSize),
		writer:    bufio.NewWriterSize(transport, frame.MaxFrameLen),
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if !c.state.CompareAndSwap(cur, next) {
		return ErrAlreadyOpen
	}
	c.seq = 0
	c.log.Info().Msg("session.connect")
	return nil
}

// Close releases the transport. Closing a Closed Conn is a no-op.
func (c *Conn) Close() error {
	for {
		cur := c.state.Load()
		if !cur.open {
			return nil
		}
		if c.state.CompareAndSwap(cur, closedState) {
			c.log.Info().Msg("session.close")
			return cur.transport.Close()
		}
	}
}

// Next returns the next accepted message. Frames that are unknown,
// corrupt, badly signed or undecodable are dropped and the scan resumes
// one byte past their marker.
func (c *Conn) Next() (Envelope, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	for {
		st := c.state.Load()
		if !st.open {
			return Envelope{}, ErrConnectionClosed
		}
		f, err := st.reader.Next()
		if err != nil {
			return Envelope{}, c.fail(st, "read", err)
		}
		env, reason := c.accept(f)
		if reason != "" {
			st.reader.Drop()
			observability.RecordFrameDropped(c.cfg.Name, reason)
			c.log.Debug().
				Str("reason", reason).
				Uint32("msg_id", f.MessageID).
				Uint8("seq", f.Sequence).
				Msg("session.drop")
			continue
		}
		observability.RecordFrameReceived(c.cfg.Name, env.Version.String(), env.Name)
		return env, nil
	}
}

func (c *Conn) accept(f frame.RawFrame) (Envelope, string) {
	meta, ok := c.dialect.Resolve(f.MessageID)
	if !ok {
		return Envelope{}, DropUnknownMessage
	}
	if f.IncompatFlags&^frame.FlagSigned != 0 {
		return Envelope{}, DropIncompatibleFlags
	}
	if !f.ValidateCRC(meta.CRCExtra) {
		return Envelope{}, DropBadCRC
	}
	if key := c.cfg.SecretKey; key != nil {
		if f.Signature != nil && !f.ValidateSignature(*key) {
			return Envelope{}, DropBadSignature
		}
		if f.Signature == nil && c.cfg.RequireSigned {
			return Envelope{}, DropUnsigned
		}
	}
	msg, err := meta.Decode(wire.Expand(f.Payload, meta.Size))
	if err != nil {
		c.log.Warn().Err(err).Str("msg", meta.Name).Msg("session.decode")
		return Envelope{}, DropDecodeFailed
	}
	return Envelope{
		Version:     f.Version,
		Sequence:    f.Sequence,
		SystemID:    f.SystemID,
		ComponentID: f.ComponentID,
		MessageID:   f.MessageID,
		Name:        meta.Name,
		Message:     msg,
		Signature:   f.Signature,
		ReceivedAt:  time.Now(),
		Raw:         f,
	}, ""
}

func (c *Conn) SendV1(systemID, componentID uint8, msg dialect.Message) error {
	return c.send(frame.V1, systemID, componentID, msg, nil)
}

func (c *Conn) SendUnsignedV2(systemID, componentID uint8, msg dialect.Message) error {
	return c.send(frame.V2, systemID, componentID, msg, nil)
}

// SendSignedV2 signs with s. A zero timestamp is replaced by the current
// time.
func (c *Conn) SendSignedV2(systemID, componentID uint8, msg dialect.Message, s frame.Signing) error {
	if s.Timestamp == 0 {
		s.Timestamp = frame.Timestamp(time.Now())
	}
	return c.send(frame.V2, systemID, componentID, msg, &s)
}

func (c *Conn) send(version frame.Version, systemID, componentID uint8, msg dialect.Message, s *frame.Signing) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	st := c.state.Load()
	if !st.open {
		return ErrConnectionClosed
	}
	meta, ok := c.dialect.Resolve(msg.MessageID())
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMessage, msg.MessageID())
	}
	payload, err := meta.Encode(msg)
	if err != nil {
		return err
	}
	if len(payload) > meta.Size {
		return &frame.EncodingError{Version: version, MessageID: meta.ID, Reason: "payload exceeds declared size"}
	}

	h := frame.Header{Sequence: c.seq, SystemID: systemID, ComponentID: componentID, MessageID: meta.ID}
	var b []byte
	switch {
	case version == frame.V1:
		b, err = frame.EncodeV1(h, payload, meta.CRCExtra)
	case s != nil:
		b, err = frame.EncodeSignedV2(h, payload, meta.CRCExtra, *s)
	default:
		b, err = frame.EncodeUnsignedV2(h, payload, meta.CRCExtra)
	}
	if err != nil {
		return err
	}

	if _, err = st.writer.Write(b); err == nil {
		err = st.writer.Flush()
	}
	if err != nil {
		return c.fail(st, "write", err)
	}
	c.seq++
	observability.RecordFrameSent(c.cfg.Name, version.String(), meta.Name)
	return nil
}

// fail closes st if it is still current. A failure on a state that was
// already replaced means Close raced the I/O, which is not a transport
// failure.
func (c *Conn) fail(st *linkState, op string, err error) error {
	if !c.state.CompareAndSwap(st, closedState) {
		return ErrConnectionClosed
	}
	_ = st.transport.Close()
	terr := &TransportError{Link: c.cfg.Name, Op: op, Err: err}
	c.log.Error().Err(err).Str("op", op).Msg("session.transport_failure")
	select {
	case c.failures <- terr:
	default:
	}
	return terr
}
