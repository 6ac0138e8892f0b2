package frame

import (
	"errors"
	"io"
)

const maxEmptyReads = 100

var errBufferFull = errors.New("frame: read buffer full")

// cursor is a transactional view over buffered stream bytes.
//
//	data[:off]     consumed
//	data[off:pos]  read speculatively, returned by rollback
//	data[pos:]     unread
type cursor struct {
	data []byte
	off  int
	pos  int
}

func newCursor(size int) cursor {
	return cursor{data: make([]byte, 0, size)}
}

// buffered is every byte not yet consumed, including speculative reads.
func (c *cursor) buffered() []byte {
	return c.data[c.off:]
}

// peek returns the next n unread bytes without moving pos.
func (c *cursor) peek(n int) ([]byte, bool) {
	if len(c.data)-c.pos < n {
		return nil, false
	}
	return c.data[c.pos : c.pos+n], true
}

// read moves pos forward by n.
func (c *cursor) read(n int) ([]byte, bool) {
	b, ok := c.peek(n)
	if ok {
		c.pos += n
	}
	return b, ok
}

// rollback returns speculatively read bytes to the front.
func (c *cursor) rollback() {
	c.pos = c.off
}

// commit consumes everything read so far.
func (c *cursor) commit() {
	c.off = c.pos
}

// skip consumes n bytes from the front and discards any speculation.
func (c *cursor) skip(n int) {
	c.off += n
	if c.off > len(c.data) {
		c.off = len(c.data)
	}
	c.pos = c.off
}

func (c *cursor) compact() {
	if c.off == 0 {
		return
	}
	n := copy(c.data, c.data[c.off:])
	c.data = c.data[:n]
	c.pos -= c.off
	c.off = 0
}

// write appends p, growing the buffer when needed.
func (c *cursor) write(p []byte) {
	c.compact()
	c.data = append(c.data, p...)
}

// fill performs reads into free capacity until at least one byte arrives.
func (c *cursor) fill(r io.Reader) error {
	c.compact()
	if len(c.data) == cap(c.data) {
		return errBufferFull
	}
	for i := 0; i < maxEmptyReads; i++ {
		n, err := r.Read(c.data[len(c.data):cap(c.data)])
		c.data = c.data[:len(c.data)+n]
		if n > 0 {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return io.ErrNoProgress
}
