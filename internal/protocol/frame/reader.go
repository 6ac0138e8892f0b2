package frame

import (
	"errors"
	"io"
)

const DefaultReadBufferSize = 4096

// ErrIncomplete means the buffered bytes end inside a frame. It is not
// corruption: more input is needed.
var ErrIncomplete = errors.New("frame: incomplete frame")

// IOError wraps a permanent transport failure or end of stream.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return "frame: read: " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Scanner recovers frames from pushed bytes. It never blocks.
//
// A frame returned by Next is consumed by the following Next call unless
// Drop is called first, in which case only its marker byte is consumed
// and scanning resumes right after it.
type Scanner struct {
	c       cursor
	pending bool
}

func NewScanner() *Scanner {
	return &Scanner{c: newCursor(DefaultReadBufferSize)}
}

// Write appends stream bytes. It never fails.
func (s *Scanner) Write(p []byte) (int, error) {
	s.c.write(p)
	return len(p), nil
}

// Buffered reports bytes held but not yet consumed.
func (s *Scanner) Buffered() int {
	return len(s.c.buffered())
}

// Next returns the next structurally complete frame, or ErrIncomplete.
func (s *Scanner) Next() (RawFrame, error) {
	if s.pending {
		s.c.commit()
		s.pending = false
	}
	for {
		if !s.seekMarker() {
			return RawFrame{}, ErrIncomplete
		}
		f, err := s.readFrame()
		if err == nil {
			s.pending = true
			return f, nil
		}
		s.c.rollback()
		if errors.Is(err, ErrIncomplete) {
			return RawFrame{}, ErrIncomplete
		}
		s.c.skip(1)
	}
}

// Drop rejects the frame returned by the last Next: one byte past its
// marker is consumed and the rest is rescanned.
func (s *Scanner) Drop() {
	if !s.pending {
		return
	}
	s.c.rollback()
	s.c.skip(1)
	s.pending = false
}

// seekMarker discards bytes up to the next v1 or v2 marker.
func (s *Scanner) seekMarker() bool {
	buf := s.c.buffered()
	for i, b := range buf {
		if b == MarkerV1 || b == MarkerV2 {
			s.c.skip(i)
			return true
		}
	}
	s.c.skip(len(buf))
	return false
}

func (s *Scanner) readFrame() (RawFrame, error) {
	head, ok := s.c.peek(3)
	if !ok {
		head = s.c.buffered()
	}
	n, err := Size(head)
	if errors.Is(err, ErrShortFrame) {
		return RawFrame{}, ErrIncomplete
	}
	if err != nil {
		return RawFrame{}, err
	}
	b, ok := s.c.read(n)
	if !ok {
		return RawFrame{}, ErrIncomplete
	}
	return Decode(b)
}

// Reader recovers frames from a blocking byte stream using a bounded
// buffer.
type Reader struct {
	r   io.Reader
	s   Scanner
	err error
}

func NewReader(r io.Reader) *Reader {
	return NewReaderSize(r, DefaultReadBufferSize)
}

// NewReaderSize returns a Reader whose buffer holds at least one maximal frame.
func NewReaderSize(r io.Reader, size int) *Reader {
	if size < MaxFrameLen {
		size = MaxFrameLen
	}
	return &Reader{r: r, s: Scanner{c: newCursor(size)}}
}

// Next blocks until a frame is available. Incomplete input is retried
// internally; the only error is an *IOError. Once the stream has failed,
// a partial frame at the front can never complete, so its marker is
// skipped and the remaining bytes are rescanned before the error is
// reported.
func (r *Reader) Next() (RawFrame, error) {
	for {
		f, err := r.s.Next()
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, ErrIncomplete) {
			return RawFrame{}, err
		}
		if r.err == nil {
			if r.err = r.s.c.fill(r.r); r.err == nil {
				continue
			}
		}
		if r.s.Buffered() == 0 {
			return RawFrame{}, &IOError{Err: r.err}
		}
		r.s.c.skip(1)
	}
}

// Drop rejects the frame returned by the last Next.
func (r *Reader) Drop() {
	r.s.Drop()
}
