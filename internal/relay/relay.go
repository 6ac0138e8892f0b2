// Package relay bridges one MAVLink link to a message bus: inbound
// traffic is published as JSON, HEARTBEATs refresh a peer registry, and
// JSON commands from the bus are encoded and sent down the link.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/mavlink/internal/logging"
	"github.com/danmuck/mavlink/internal/observability"
	"github.com/danmuck/mavlink/internal/protocol/dialect"
	"github.com/danmuck/mavlink/internal/protocol/dialect/common"
	"github.com/danmuck/mavlink/internal/protocol/frame"
	"github.com/danmuck/mavlink/internal/protocol/session"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidDownlink = errors.New("relay: invalid downlink command")
	ErrUnknownName     = errors.New("relay: unknown message name")
)

// Catalog is a dialect that can also be searched by message name.
type Catalog interface {
	dialect.Dialect
	ResolveName(name string) (dialect.Metadata, bool)
}

type Config struct {
	Prefix string
	Link   string
	// SecretKey signs downlink frames when set.
	SecretKey *frame.SecretKey
	LinkID    uint8
}

// Uplink is the JSON published for every inbound message.
type Uplink struct {
	Link        string          `json:"link"`
	Version     string          `json:"version"`
	Sequence    uint8           `json:"sequence"`
	SystemID    uint8           `json:"system_id"`
	ComponentID uint8           `json:"component_id"`
	MessageID   uint32          `json:"message_id"`
	Message     string          `json:"message"`
	Fields      dialect.Message `json:"fields"`
	Signed      bool            `json:"signed"`
	ReceivedAt  time.Time       `json:"received_at"`
}

func NewUplink(link string, env session.Envelope) Uplink {
	return Uplink{
		Link:        link,
		Version:     env.Version.String(),
		Sequence:    env.Sequence,
		SystemID:    env.SystemID,
		ComponentID: env.ComponentID,
		MessageID:   env.MessageID,
		Message:     env.Name,
		Fields:      env.Message,
		Signed:      env.Signature != nil,
		ReceivedAt:  env.ReceivedAt,
	}
}

// Downlink is the JSON command accepted on <prefix>.downlink.<link>.
type Downlink struct {
	SystemID    uint8           `json:"system_id"`
	ComponentID uint8           `json:"component_id"`
	Message     string          `json:"message"`
	Version     string          `json:"version"`
	Fields      json.RawMessage `json:"fields"`
}

type Relay struct {
	cfg     Config
	conn    *session.Conn
	catalog Catalog
	bus     Bus
	peers   PeerStore
	log     zerolog.Logger
}

func New(cfg Config, conn *session.Conn, catalog Catalog, bus Bus, peers PeerStore) *Relay {
	if cfg.Prefix == "" {
		cfg.Prefix = "mavlink"
	}
	if cfg.Link == "" {
		cfg.Link = conn.Name()
	}
	return &Relay{
		cfg:     cfg,
		conn:    conn,
		catalog: catalog,
		bus:     bus,
		peers:   peers,
		log:     logging.For("relay").With().Str("link", cfg.Link).Logger(),
	}
}

func (r *Relay) UplinkSubject(name string) string {
	return fmt.Sprintf("%s.uplink.%s", r.cfg.Prefix, name)
}

func (r *Relay) UplinkAllSubject() string {
	return r.cfg.Prefix + ".uplink.all"
}

func (r *Relay) DownlinkSubject() string {
	return fmt.Sprintf("%s.downlink.%s", r.cfg.Prefix, r.cfg.Link)
}

// Run forwards envelopes until envs is closed or ctx ends. Publish and
// peer store failures are logged, not fatal.
func (r *Relay) Run(ctx context.Context, envs <-chan session.Envelope) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-envs:
			if !ok {
				return nil
			}
			if err := r.HandleEnvelope(ctx, env); err != nil {
				r.log.Warn().Err(err).Str("msg", env.Name).Msg("relay.uplink")
			}
		}
	}
}

func (r *Relay) HandleEnvelope(ctx context.Context, env session.Envelope) error {
	data, err := json.Marshal(NewUplink(r.cfg.Link, env))
	if err != nil {
		return fmt.Errorf("relay: marshal %s: %w", env.Name, err)
	}
	err = r.bus.Publish(r.UplinkSubject(env.Name), data)
	if err == nil {
		err = r.bus.Publish(r.UplinkAllSubject(), data)
	}
	observability.RecordRelayPublish(r.cfg.Link, err == nil)
	if err != nil {
		return fmt.Errorf("relay: publish %s: %w", env.Name, err)
	}

	if r.peers == nil {
		return nil
	}
	if peer, ok := PeerFromEnvelope(r.cfg.Link, env); ok {
		if err := r.peers.Touch(ctx, peer); err != nil {
			return err
		}
	}
	return nil
}

// PeerFromEnvelope builds a registry entry from a HEARTBEAT envelope.
func PeerFromEnvelope(link string, env session.Envelope) (Peer, bool) {
	hb, ok := env.Message.(*common.Heartbeat)
	if !ok {
		return Peer{}, false
	}
	peer := Peer{
		Link:         link,
		SystemID:     env.SystemID,
		ComponentID:  env.ComponentID,
		Type:         common.MavTypeEntries.Name(hb.Type),
		Autopilot:    common.MavAutopilotEntries.Name(hb.Autopilot),
		SystemStatus: common.MavStateEntries.Name(hb.SystemStatus),
		LastSequence: env.Sequence,
		LastSeen:     env.ReceivedAt,
	}
	if peer.LastSeen.IsZero() {
		peer.LastSeen = time.Now()
	}
	return peer, true
}

// SubscribeDownlink starts consuming commands for this link.
func (r *Relay) SubscribeDownlink() (func() error, error) {
	return r.bus.Subscribe(r.DownlinkSubject(), func(data []byte) {
		if err := r.HandleDownlink(data); err != nil {
			r.log.Warn().Err(err).Msg("relay.downlink")
		}
	})
}

// HandleDownlink decodes one JSON command and sends it on the link.
func (r *Relay) HandleDownlink(data []byte) error {
	var cmd Downlink
	if err := json.Unmarshal(data, &cmd); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDownlink, err)
	}
	name := strings.ToUpper(strings.TrimSpace(cmd.Message))
	meta, ok := r.catalog.ResolveName(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownName, cmd.Message)
	}
	msg := meta.New()
	if len(cmd.Fields) > 0 {
		if err := json.Unmarshal(cmd.Fields, msg); err != nil {
			return fmt.Errorf("%w: fields of %s: %v", ErrInvalidDownlink, name, err)
		}
	}

	var err error
	switch strings.ToLower(strings.TrimSpace(cmd.Version)) {
	case "v1", "1":
		err = r.conn.SendV1(cmd.SystemID, cmd.ComponentID, msg)
	case "", "v2", "2":
		if r.cfg.SecretKey != nil {
			err = r.conn.SendSignedV2(cmd.SystemID, cmd.ComponentID, msg, frame.Signing{
				Key:    *r.cfg.SecretKey,
				LinkID: r.cfg.LinkID,
			})
		} else {
			err = r.conn.SendUnsignedV2(cmd.SystemID, cmd.ComponentID, msg)
		}
	default:
		return fmt.Errorf("%w: version %q", ErrInvalidDownlink, cmd.Version)
	}
	if err != nil {
		return err
	}
	r.log.Info().Str("msg", name).Uint8("sys", cmd.SystemID).Msg("relay.downlink")
	return nil
}
