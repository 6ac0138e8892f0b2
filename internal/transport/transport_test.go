package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/danmuck/mavlink/internal/protocol/session"
	"github.com/danmuck/mavlink/internal/testutil/testlog"
	"github.com/maxatome/go-testdeep/td"
)

func TestParseEndpoint(t *testing.T) {
	testlog.Start(t)
	network, addr, err := ParseEndpoint("tcp://127.0.0.1:5760")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	td.Cmp(t, network, NetworkTCP)
	td.Cmp(t, addr, "127.0.0.1:5760")

	network, addr, err = ParseEndpoint(" udpin://:14550 ")
	if err != nil {
		t.Fatalf("parse udpin: %v", err)
	}
	td.Cmp(t, network, NetworkUDPIn)
	td.Cmp(t, addr, ":14550")

	if _, _, err := ParseEndpoint("serial:///dev/ttyUSB0"); !errors.Is(err, ErrUnsupportedNetwork) {
		t.Fatalf("expected unsupported network, got %v", err)
	}
	if _, _, err := ParseEndpoint("tcp://"); err == nil {
		t.Fatalf("expected missing address error")
	}
}

func TestDialTCP(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	rwc, err := Dial(context.Background(), Config{Network: NetworkTCP, Address: ln.Addr().String(), ConnectTimeout: time.Second})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer rwc.Close()

	server := <-accepted
	defer server.Close()
	if _, err := rwc.Write([]byte{0xfe, 0x01}); err != nil {
		t.Fatalf("write: %v", err)
	}
	buf := make([]byte, 2)
	if _, err := io.ReadFull(server, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	td.Cmp(t, buf, []byte{0xfe, 0x01})
}

func TestDialGivesUpAfterMaxAttempts(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = Dial(context.Background(), Config{
		Network:        NetworkTCP,
		Address:        addr,
		ConnectTimeout: 200 * time.Millisecond,
		Backoff:        session.BackoffConfig{InitialDelay: time.Millisecond, Multiplier: 1, MaxAttempts: 2},
	})
	if err == nil {
		t.Fatalf("expected dial failure")
	}
	td.CmpRe(t, err.Error(), "after 2 attempts", nil)
}

func TestDialHonorsContext(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Dial(ctx, Config{
		Network: NetworkTCP,
		Address: "127.0.0.1:1",
		Backoff: session.BackoffConfig{InitialDelay: time.Hour},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDialUnsupportedNetwork(t *testing.T) {
	testlog.Start(t)
	if _, err := Dial(context.Background(), Config{Network: "serial"}); !errors.Is(err, ErrUnsupportedNetwork) {
		t.Fatalf("expected unsupported network, got %v", err)
	}
}

func TestUDPInRepliesToLastPeer(t *testing.T) {
	testlog.Start(t)
	rwc, err := Dial(context.Background(), Config{Network: NetworkUDPIn, Address: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer rwc.Close()
	local := rwc.(interface{ LocalAddr() net.Addr }).LocalAddr()

	n, err := rwc.Write([]byte{1, 2, 3})
	if err != nil || n != 3 {
		t.Fatalf("write before peer: n=%d err=%v", n, err)
	}

	client, err := Dial(context.Background(), Config{Network: NetworkUDP, Address: local.String()})
	if err != nil {
		t.Fatalf("dial udp: %v", err)
	}
	defer client.Close()

	if _, err := client.Write([]byte{0xfd, 0x09, 0x00, 0x00}); err != nil {
		t.Fatalf("client write: %v", err)
	}
	// Short reads drain one datagram across calls.
	first := make([]byte, 3)
	if _, err := io.ReadFull(rwc, first); err != nil {
		t.Fatalf("read: %v", err)
	}
	td.Cmp(t, first, []byte{0xfd, 0x09, 0x00})
	last := make([]byte, 1)
	if _, err := io.ReadFull(rwc, last); err != nil {
		t.Fatalf("read rest: %v", err)
	}
	td.Cmp(t, last, []byte{0x00})

	if _, err := rwc.Write([]byte{0xfe, 0x00}); err != nil {
		t.Fatalf("reply: %v", err)
	}
	reply := make([]byte, 2)
	if _, err := io.ReadFull(client, reply); err != nil {
		t.Fatalf("client read: %v", err)
	}
	td.Cmp(t, reply, []byte{0xfe, 0x00})
}
