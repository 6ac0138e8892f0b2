package session

import (
	"context"
	"errors"
	"sync"

	"github.com/danmuck/mavlink/internal/observability"
)

const DropSlowSubscriber = "slow_subscriber"

// Stream owns a Conn's read loop and fans envelopes out to subscribers.
// Delivery is non-blocking; a full subscriber misses envelopes.
type Stream struct {
	conn   *Conn
	buffer int

	mu      sync.Mutex
	subs    map[int]chan Envelope
	nextID  int
	running bool
	closed  bool
	done    chan struct{}
	err     error
}

func NewStream(conn *Conn) *Stream {
	return &Stream{
		conn:   conn,
		buffer: conn.cfg.SubscriberBuffer,
		subs:   make(map[int]chan Envelope),
		done:   make(chan struct{}),
	}
}

// Subscribe registers a consumer. The channel is closed when the stream
// ends or cancel is called. Subscribing after the stream ended returns a
// closed channel.
func (s *Stream) Subscribe() (<-chan Envelope, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Envelope, s.buffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(sub)
			}
		})
	}
}

// Run reads until ctx is cancelled or the transport fails. Cancelling ctx
// closes the Conn, which unblocks the read. On return every subscriber
// channel is closed.
func (s *Stream) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStreamClosed
	}
	if s.running {
		s.mu.Unlock()
		return ErrStreamRunning
	}
	s.running = true
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.Close()
	})
	defer stop()

	err := s.loop(ctx)
	s.finish(err)
	return err
}

func (s *Stream) loop(ctx context.Context) error {
	for {
		env, err := s.conn.Next()
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ErrConnectionClosed) {
				return ctx.Err()
			}
			return err
		}
		s.publish(env)
	}
}

func (s *Stream) publish(env Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- env:
		default:
			observability.RecordFrameDropped(s.conn.cfg.Name, DropSlowSubscriber)
		}
	}
}

func (s *Stream) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.closed = true
	s.err = err
	close(s.done)
}

// Done is closed once Run has returned.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err is the error Run returned, valid after Done.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stream) Conn() *Conn {
	return s.conn
}
