package relay

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/danmuck/mavlink/internal/testutil/testlog"
	"github.com/maxatome/go-testdeep/td"
	"github.com/redis/go-redis/v9"
)

func TestMemoryPeerStoreExpiresAndSorts(t *testing.T) {
	testlog.Start(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryPeerStore(10 * time.Second)
	s.now = func() time.Time { return base.Add(15 * time.Second) }

	ctx := context.Background()
	_ = s.Touch(ctx, Peer{SystemID: 2, ComponentID: 1, LastSeen: base.Add(10 * time.Second)})
	_ = s.Touch(ctx, Peer{SystemID: 1, ComponentID: 5, LastSeen: base.Add(12 * time.Second)})
	_ = s.Touch(ctx, Peer{SystemID: 1, ComponentID: 1, LastSeen: base.Add(14 * time.Second)})
	_ = s.Touch(ctx, Peer{SystemID: 3, ComponentID: 1, LastSeen: base})

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := [][2]uint8{}
	for _, p := range list {
		ids = append(ids, [2]uint8{p.SystemID, p.ComponentID})
	}
	td.Cmp(t, ids, [][2]uint8{{1, 1}, {1, 5}, {2, 1}})

	// A heartbeat replaces the previous entry for the same peer.
	_ = s.Touch(ctx, Peer{SystemID: 1, ComponentID: 1, LastSequence: 9, LastSeen: base.Add(15 * time.Second)})
	list, _ = s.List(ctx)
	td.CmpLen(t, list, 3)
	td.Cmp(t, list[0].LastSequence, uint8(9))
}

func TestPeerHashRoundTrip(t *testing.T) {
	testlog.Start(t)
	p := Peer{
		Link:         "radio0",
		SystemID:     42,
		ComponentID:  191,
		Type:         "MAV_TYPE_GCS",
		Autopilot:    "MAV_AUTOPILOT_INVALID",
		SystemStatus: "MAV_STATE_ACTIVE",
		LastSequence: 255,
		LastSeen:     time.UnixMilli(1767225600123).UTC(),
	}
	h := map[string]string{}
	for k, v := range peerFields(p) {
		h[k] = v.(string)
	}
	got, err := peerFromHash(h)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	td.Cmp(t, got, p)

	h["system_id"] = "300"
	if _, err := peerFromHash(h); err == nil {
		t.Fatalf("expected overflow error")
	}
}

func newRedisPeerStore(t *testing.T, prefix string, ttl time.Duration) (*RedisPeerStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisPeerStore(client, prefix, ttl), mr
}

func TestRedisPeerStoreTouchAndList(t *testing.T) {
	testlog.Start(t)
	s, mr := newRedisPeerStore(t, "gcs", time.Minute)
	ctx := context.Background()
	seen := time.UnixMilli(1767225600123).UTC()

	peers := []Peer{
		{Link: "radio0", SystemID: 2, ComponentID: 1, Type: "MAV_TYPE_QUADROTOR", LastSequence: 4, LastSeen: seen},
		{Link: "radio0", SystemID: 1, ComponentID: 1, Type: "MAV_TYPE_FIXED_WING", LastSequence: 8, LastSeen: seen},
	}
	for _, p := range peers {
		if err := s.Touch(ctx, p); err != nil {
			t.Fatalf("touch %d: %v", p.SystemID, err)
		}
	}
	// Another prefix shares the server but is not listed.
	otherClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer otherClient.Close()
	other := NewRedisPeerStore(otherClient, "fleet", time.Minute)
	if err := other.Touch(ctx, Peer{SystemID: 9, ComponentID: 9, LastSeen: seen}); err != nil {
		t.Fatalf("touch other: %v", err)
	}

	td.CmpTrue(t, mr.Exists("gcs:peer:1:1"))
	td.Cmp(t, mr.HGet("gcs:peer:2:1", "type"), "MAV_TYPE_QUADROTOR")
	td.Cmp(t, mr.TTL("gcs:peer:1:1"), time.Minute)

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	td.Cmp(t, list, []Peer{peers[1], peers[0]})

	// A later heartbeat overwrites fields and refreshes the TTL.
	mr.FastForward(40 * time.Second)
	peers[1].LastSequence = 9
	if err := s.Touch(ctx, peers[1]); err != nil {
		t.Fatalf("retouch: %v", err)
	}
	td.Cmp(t, mr.TTL("gcs:peer:1:1"), time.Minute)

	mr.FastForward(30 * time.Second)
	list, err = s.List(ctx)
	if err != nil {
		t.Fatalf("list after expiry: %v", err)
	}
	td.Cmp(t, list, []Peer{peers[1]})
}

func TestRedisPeerStoreReportsCorruptHash(t *testing.T) {
	testlog.Start(t)
	s, mr := newRedisPeerStore(t, "gcs", 0)
	mr.HSet("gcs:peer:1:1", "system_id", "one")

	if _, err := s.List(context.Background()); err == nil {
		t.Fatalf("expected parse error for corrupt hash")
	}
	if err := s.Touch(context.Background(), Peer{SystemID: 3, ComponentID: 1}); err != nil {
		t.Fatalf("touch without ttl: %v", err)
	}
	td.Cmp(t, mr.TTL("gcs:peer:3:1"), time.Duration(0))
}

func TestRedisPeerStoreUnreachable(t *testing.T) {
	testlog.Start(t)
	s, mr := newRedisPeerStore(t, "gcs", time.Minute)
	mr.Close()

	if err := s.Touch(context.Background(), Peer{SystemID: 1, ComponentID: 1}); err == nil {
		t.Fatalf("expected touch error with server down")
	}
	if _, err := s.List(context.Background()); err == nil {
		t.Fatalf("expected list error with server down")
	}
	td.Cmp(t, s.key(1, 190), "gcs:peer:1:190")
}
