package relay

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Peer is a system/component seen on the link, refreshed by HEARTBEAT.
type Peer struct {
	Link         string    `json:"link"`
	SystemID     uint8     `json:"system_id"`
	ComponentID  uint8     `json:"component_id"`
	Type         string    `json:"type"`
	Autopilot    string    `json:"autopilot"`
	SystemStatus string    `json:"system_status"`
	LastSequence uint8     `json:"last_sequence"`
	LastSeen     time.Time `json:"last_seen"`
}

type PeerStore interface {
	Touch(ctx context.Context, p Peer) error
	List(ctx context.Context) ([]Peer, error)
}

func sortPeers(peers []Peer) {
	sort.Slice(peers, func(i, j int) bool {
		if peers[i].SystemID != peers[j].SystemID {
			return peers[i].SystemID < peers[j].SystemID
		}
		return peers[i].ComponentID < peers[j].ComponentID
	})
}

// MemoryPeerStore keeps peers in process, for runs without Redis.
type MemoryPeerStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	peers map[uint16]Peer
}

func NewMemoryPeerStore(ttl time.Duration) *MemoryPeerStore {
	return &MemoryPeerStore{
		ttl:   ttl,
		now:   time.Now,
		peers: make(map[uint16]Peer),
	}
}

func (s *MemoryPeerStore) Touch(_ context.Context, p Peer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers[uint16(p.SystemID)<<8|uint16(p.ComponentID)] = p
	return nil
}

func (s *MemoryPeerStore) List(_ context.Context) ([]Peer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	out := make([]Peer, 0, len(s.peers))
	for _, p := range s.peers {
		if s.ttl > 0 && now.Sub(p.LastSeen) > s.ttl {
			continue
		}
		out = append(out, p)
	}
	sortPeers(out)
	return out, nil
}

// RedisPeerStore keeps one hash per peer under <prefix>:peer:<sys>:<comp>
// and lets Redis expire peers that stop sending heartbeats.
type RedisPeerStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisPeerStore(client redis.Cmdable, prefix string, ttl time.Duration) *RedisPeerStore {
	return &RedisPeerStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisPeerStore) key(systemID, componentID uint8) string {
	return fmt.Sprintf("%s:peer:%d:%d", s.prefix, systemID, componentID)
}

func (s *RedisPeerStore) Touch(ctx context.Context, p Peer) error {
	key := s.key(p.SystemID, p.ComponentID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, peerFields(p))
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("relay: touch peer %s: %w", key, err)
	}
	return nil
}

func (s *RedisPeerStore) List(ctx context.Context) ([]Peer, error) {
	var out []Peer
	iter := s.client.Scan(ctx, 0, s.prefix+":peer:*", 100).Iterator()
	for iter.Next(ctx) {
		h, err := s.client.HGetAll(ctx, iter.Val()).Result()
		if err != nil {
			return nil, fmt.Errorf("relay: read peer %s: %w", iter.Val(), err)
		}
		if len(h) == 0 {
			continue
		}
		p, err := peerFromHash(h)
		if err != nil {
			return nil, fmt.Errorf("relay: parse peer %s: %w", iter.Val(), err)
		}
		out = append(out, p)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("relay: scan peers: %w", err)
	}
	sortPeers(out)
	return out, nil
}

func peerFields(p Peer) map[string]interface{} {
	return map[string]interface{}{
		"link":          p.Link,
		"system_id":     strconv.Itoa(int(p.SystemID)),
		"component_id":  strconv.Itoa(int(p.ComponentID)),
		"type":          p.Type,
		"autopilot":     p.Autopilot,
		"system_status": p.SystemStatus,
		"last_sequence": strconv.Itoa(int(p.LastSequence)),
		"last_seen_ms":  strconv.FormatInt(p.LastSeen.UnixMilli(), 10),
	}
}

func peerFromHash(h map[string]string) (Peer, error) {
	p := Peer{
		Link:         h["link"],
		Type:         h["type"],
		Autopilot:    h["autopilot"],
		SystemStatus: h["system_status"],
	}
	ids := []struct {
		field string
		dst   *uint8
	}{
		{"system_id", &p.SystemID},
		{"component_id", &p.ComponentID},
		{"last_sequence", &p.LastSequence},
	}
	for _, id := range ids {
		v, err := strconv.ParseUint(h[id.field], 10, 8)
		if err != nil {
			return Peer{}, fmt.Errorf("%s: %w", id.field, err)
		}
		*id.dst = uint8(v)
	}
	ms, err := strconv.ParseInt(h["last_seen_ms"], 10, 64)
	if err != nil {
		return Peer{}, fmt.Errorf("last_seen_ms: %w", err)
	}
	p.LastSeen = time.UnixMilli(ms).UTC()
	return p, nil
}
