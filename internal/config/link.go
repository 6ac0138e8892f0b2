// Package config loads and renders linkctl TOML configuration.
package config

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/mavlink/internal/protocol/frame"
	"github.com/danmuck/mavlink/internal/protocol/session"
	"github.com/danmuck/mavlink/internal/transport"
	sha256 "github.com/minio/sha256-simd"
)

// Link is the resolved configuration for one linkctl process.
type Link struct {
	Endpoint          string
	Link              session.Config
	SystemID          uint8
	ComponentID       uint8
	HeartbeatInterval time.Duration
	LinkID            uint8

	AdminAddr    string
	AllowOrigins []string

	NATSURL   string
	Prefix    string
	RedisAddr string
	RedisDB   int
	PeerTTL   time.Duration
}

// File is the on-disk shape. Durations are Go duration strings.
type File struct {
	Endpoint          string   `toml:"endpoint"`
	Name              string   `toml:"name"`
	SystemID          int      `toml:"system_id"`
	ComponentID       int      `toml:"component_id"`
	Heartbeat         string   `toml:"heartbeat"`
	ReadBufferSize    int      `toml:"read_buffer_size"`
	SubscriberBuffer  int      `toml:"subscriber_buffer"`
	ConnectTimeout    string   `toml:"connect_timeout"`
	MaxDialAttempts   int      `toml:"max_dial_attempts"`
	SecretKey         string   `toml:"secret_key,omitempty"`
	SigningPassphrase string   `toml:"signing_passphrase,omitempty"`
	LinkID            int      `toml:"link_id,omitempty"`
	RequireSigned     bool     `toml:"require_signed,omitempty"`
	AdminAddr         string   `toml:"admin_addr"`
	AllowOrigins      []string `toml:"allow_origins,omitempty"`
	NATSURL           string   `toml:"nats_url,omitempty"`
	Prefix            string   `toml:"prefix"`
	RedisAddr         string   `toml:"redis_addr,omitempty"`
	RedisDB           int      `toml:"redis_db,omitempty"`
	PeerTTL           string   `toml:"peer_ttl"`
}

func Default() Link {
	return Link{
		Endpoint:          "udpin://0.0.0.0:14550",
		Link:              session.DefaultConfig(),
		SystemID:          255,
		ComponentID:       190,
		HeartbeatInterval: time.Second,
		AdminAddr:         "127.0.0.1:7080",
		Prefix:            "mavlink",
		PeerTTL:           30 * time.Second,
	}
}

// Load overlays the keys defined in path onto Default.
func Load(path string) (Link, error) {
	cfg := Default()

	var raw File
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Link{}, fmt.Errorf("load linkctl config: %w", err)
	}

	if meta.IsDefined("endpoint") {
		cfg.Endpoint = strings.TrimSpace(raw.Endpoint)
	}
	if meta.IsDefined("name") {
		if name := strings.TrimSpace(raw.Name); name != "" {
			cfg.Link.Name = name
		}
	}
	if meta.IsDefined("system_id") {
		id, err := byteID("system_id", raw.SystemID)
		if err != nil {
			return Link{}, err
		}
		cfg.SystemID = id
	}
	if meta.IsDefined("component_id") {
		id, err := byteID("component_id", raw.ComponentID)
		if err != nil {
			return Link{}, err
		}
		cfg.ComponentID = id
	}
	if meta.IsDefined("heartbeat") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Heartbeat))
		if err != nil {
			return Link{}, fmt.Errorf("parse heartbeat: %w", err)
		}
		cfg.HeartbeatInterval = d
	}
	if meta.IsDefined("read_buffer_size") {
		cfg.Link.ReadBufferSize = raw.ReadBufferSize
	}
	if meta.IsDefined("subscriber_buffer") {
		cfg.Link.SubscriberBuffer = raw.SubscriberBuffer
	}
	if meta.IsDefined("connect_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ConnectTimeout))
		if err != nil {
			return Link{}, fmt.Errorf("parse connect_timeout: %w", err)
		}
		cfg.Link.ConnectTimeout = d
	}
	if meta.IsDefined("max_dial_attempts") {
		cfg.Link.Backoff.MaxAttempts = raw.MaxDialAttempts
	}

	if meta.IsDefined("secret_key") && meta.IsDefined("signing_passphrase") {
		return Link{}, fmt.Errorf("load linkctl config: secret_key and signing_passphrase are exclusive")
	}
	if meta.IsDefined("secret_key") {
		key, err := parseSecretKey(raw.SecretKey)
		if err != nil {
			return Link{}, err
		}
		cfg.Link.SecretKey = &key
	}
	if meta.IsDefined("signing_passphrase") {
		key := frame.SecretKey(sha256.Sum256([]byte(raw.SigningPassphrase)))
		cfg.Link.SecretKey = &key
	}
	if meta.IsDefined("link_id") {
		id, err := byteID("link_id", raw.LinkID)
		if err != nil {
			return Link{}, err
		}
		cfg.LinkID = id
	}
	if meta.IsDefined("require_signed") {
		cfg.Link.RequireSigned = raw.RequireSigned
	}

	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("allow_origins") {
		cfg.AllowOrigins = normalizeList(raw.AllowOrigins)
	}
	if meta.IsDefined("nats_url") {
		cfg.NATSURL = strings.TrimSpace(raw.NATSURL)
	}
	if meta.IsDefined("prefix") {
		if p := strings.TrimSpace(raw.Prefix); p != "" {
			cfg.Prefix = p
		}
	}
	if meta.IsDefined("redis_addr") {
		cfg.RedisAddr = strings.TrimSpace(raw.RedisAddr)
	}
	if meta.IsDefined("redis_db") {
		cfg.RedisDB = raw.RedisDB
	}
	if meta.IsDefined("peer_ttl") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.PeerTTL))
		if err != nil {
			return Link{}, fmt.Errorf("parse peer_ttl: %w", err)
		}
		cfg.PeerTTL = d
	}

	if err := Validate(cfg); err != nil {
		return Link{}, err
	}
	return cfg, nil
}

// Validate rejects configurations linkctl cannot start with.
func Validate(cfg Link) error {
	if _, _, err := transport.ParseEndpoint(cfg.Endpoint); err != nil {
		return fmt.Errorf("linkctl config: %w", err)
	}
	if strings.TrimSpace(cfg.Link.Name) == "" {
		return fmt.Errorf("linkctl config: missing name")
	}
	if cfg.Link.RequireSigned && cfg.Link.SecretKey == nil {
		return fmt.Errorf("linkctl config: require_signed needs secret_key or signing_passphrase")
	}
	if cfg.PeerTTL <= 0 {
		return fmt.Errorf("linkctl config: peer_ttl must be positive")
	}
	if cfg.HeartbeatInterval < 0 {
		return fmt.Errorf("linkctl config: heartbeat must not be negative")
	}
	return nil
}

func byteID(field string, v int) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("%s out of range: %d", field, v)
	}
	return uint8(v), nil
}

func parseSecretKey(raw string) (frame.SecretKey, error) {
	var key frame.SecretKey
	b, err := hex.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return key, fmt.Errorf("parse secret_key: %w", err)
	}
	if len(b) != frame.KeyLen {
		return key, fmt.Errorf("parse secret_key: want %d bytes, got %d", frame.KeyLen, len(b))
	}
	copy(key[:], b)
	return key, nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
