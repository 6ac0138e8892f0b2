// Package transport acquires the byte-stream a session.Conn runs over.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/danmuck/mavlink/internal/protocol/session"
	"github.com/rs/zerolog/log"
)

const (
	NetworkTCP   = "tcp"
	NetworkUDP   = "udp"
	NetworkUDPIn = "udpin"

	maxDatagram = 65535
)

var (
	ErrUnsupportedNetwork = errors.New("transport: unsupported network")
)

type Config struct {
	Network        string
	Address        string
	ConnectTimeout time.Duration
	Backoff        session.BackoffConfig
}

// ParseEndpoint splits "tcp://host:port", "udp://host:port" or
// "udpin://:port" into network and address.
func ParseEndpoint(raw string) (network, address string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("transport: parse endpoint %q: %w", raw, err)
	}
	switch u.Scheme {
	case NetworkTCP, NetworkUDP, NetworkUDPIn:
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedNetwork, u.Scheme)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("transport: endpoint %q has no address", raw)
	}
	return u.Scheme, u.Host, nil
}

// Dial opens the endpoint, retrying with backoff until MaxAttempts is
// reached or ctx ends. MaxAttempts <= 0 retries forever.
func Dial(ctx context.Context, cfg Config) (io.ReadWriteCloser, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var attempt int
	for {
		attempt++
		rwc, err := dialOnce(ctx, cfg)
		if err == nil {
			log.Info().Str("network", cfg.Network).Str("addr", cfg.Address).Int("attempt", attempt).Msg("transport.dial")
			return rwc, nil
		}
		if errors.Is(err, ErrUnsupportedNetwork) {
			return nil, err
		}
		log.Warn().Err(err).Str("network", cfg.Network).Str("addr", cfg.Address).Int("attempt", attempt).Msg("transport.dial")
		if cfg.Backoff.Exhausted(attempt) {
			return nil, fmt.Errorf("transport: %s %s after %d attempts: %w", cfg.Network, cfg.Address, attempt, err)
		}
		if err := sleepBackoff(ctx, cfg.Backoff, attempt, rng); err != nil {
			return nil, err
		}
	}
}

func dialOnce(ctx context.Context, cfg Config) (io.ReadWriteCloser, error) {
	switch cfg.Network {
	case NetworkTCP:
		dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
		return dialer.DialContext(ctx, "tcp", cfg.Address)
	case NetworkUDP:
		dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
		conn, err := dialer.DialContext(ctx, "udp", cfg.Address)
		if err != nil {
			return nil, err
		}
		return &datagramConn{pc: conn.(net.PacketConn), conn: conn, buf: make([]byte, maxDatagram)}, nil
	case NetworkUDPIn:
		var lc net.ListenConfig
		pc, err := lc.ListenPacket(ctx, "udp", cfg.Address)
		if err != nil {
			return nil, err
		}
		return &datagramConn{pc: pc, buf: make([]byte, maxDatagram)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedNetwork, cfg.Network)
	}
}

func sleepBackoff(ctx context.Context, cfg session.BackoffConfig, attempt int, rng *rand.Rand) error {
	timer := time.NewTimer(cfg.Delay(attempt, rng))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// datagramConn presents a UDP socket as a byte stream. Each datagram is
// read whole and handed out across Read calls. A listening socket replies
// to the most recent sender and discards writes until one has been seen.
type datagramConn struct {
	pc   net.PacketConn
	conn net.Conn

	buf     []byte
	pending []byte

	mu   sync.Mutex
	peer net.Addr
}

func (d *datagramConn) Read(p []byte) (int, error) {
	if len(d.pending) == 0 {
		n, addr, err := d.pc.ReadFrom(d.buf)
		if err != nil {
			return 0, err
		}
		if d.conn == nil {
			d.mu.Lock()
			d.peer = addr
			d.mu.Unlock()
		}
		d.pending = d.buf[:n]
	}
	n := copy(p, d.pending)
	d.pending = d.pending[n:]
	return n, nil
}

func (d *datagramConn) Write(p []byte) (int, error) {
	if d.conn != nil {
		return d.conn.Write(p)
	}
	d.mu.Lock()
	peer := d.peer
	d.mu.Unlock()
	if peer == nil {
		return len(p), nil
	}
	return d.pc.WriteTo(p, peer)
}

func (d *datagramConn) Close() error {
	return d.pc.Close()
}

func (d *datagramConn) LocalAddr() net.Addr {
	return d.pc.LocalAddr()
}
