// Command linkctl attaches one MAVLink link to NATS, a peer registry and
// an admin HTTP surface.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/danmuck/mavlink/internal/config"
	"github.com/danmuck/mavlink/internal/logging"
	"github.com/danmuck/mavlink/internal/observability"
	"github.com/danmuck/mavlink/internal/protocol/dialect/common"
	"github.com/danmuck/mavlink/internal/protocol/frame"
	"github.com/danmuck/mavlink/internal/protocol/session"
	"github.com/danmuck/mavlink/internal/relay"
	"github.com/danmuck/mavlink/internal/transport"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to linkctl TOML config")
	flag.Parse()

	logging.ConfigureRuntime()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "linkctl: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "linkctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Link) error {
	observability.RegisterMetrics()
	lg := logging.For("linkctl")

	network, addr, err := transport.ParseEndpoint(cfg.Endpoint)
	if err != nil {
		return err
	}
	rwc, err := transport.Dial(ctx, transport.Config{
		Network:        network,
		Address:        addr,
		ConnectTimeout: cfg.Link.ConnectTimeout,
		Backoff:        cfg.Link.Backoff,
	})
	if err != nil {
		return err
	}

	conn := session.NewConn(common.Dialect, cfg.Link)
	if err := conn.Connect(rwc); err != nil {
		_ = rwc.Close()
		return err
	}
	defer conn.Close()
	lg.Info().Str("link", conn.Name()).Str("network", network).Str("addr", addr).Msg("link.open")

	stream := session.NewStream(conn)
	peers, closePeers, err := openPeerStore(cfg)
	if err != nil {
		return err
	}
	defer closePeers()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errc := make(chan error, 4)
	spawn := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error().Err(err).Str("task", name).Msg("linkctl.task")
				errc <- fmt.Errorf("%s: %w", name, err)
			}
			cancel()
		}()
	}

	if cfg.NATSURL != "" {
		nc, err := relay.Connect(cfg.NATSURL, "linkctl-"+conn.Name())
		if err != nil {
			return err
		}
		defer nc.Drain()

		r := relay.New(relay.Config{
			Prefix:    cfg.Prefix,
			Link:      conn.Name(),
			SecretKey: cfg.Link.SecretKey,
			LinkID:    cfg.LinkID,
		}, conn, common.Dialect, relay.NewNATSBus(nc), peers)
		unsubscribe, err := r.SubscribeDownlink()
		if err != nil {
			return err
		}
		defer unsubscribe()

		envs, stopEnvs := stream.Subscribe()
		defer stopEnvs()
		spawn("relay", func() error { return r.Run(ctx, envs) })
	} else {
		envs, stopEnvs := stream.Subscribe()
		defer stopEnvs()
		spawn("peers", func() error { return trackPeers(ctx, conn.Name(), envs, peers) })
	}

	if cfg.AdminAddr != "" {
		admin := relay.NewAdmin(relay.AdminConfig{
			Name:         "linkctl",
			AllowOrigins: cfg.AllowOrigins,
		}, stream, peers)
		spawn("admin", func() error { return admin.Serve(ctx, cfg.AdminAddr) })
	}

	if cfg.HeartbeatInterval > 0 {
		spawn("heartbeat", func() error { return sendHeartbeats(ctx, conn, cfg) })
	}

	spawn("stream", func() error { return stream.Run(ctx) })

	wg.Wait()
	close(errc)
	return <-errc
}

func openPeerStore(cfg config.Link) (relay.PeerStore, func(), error) {
	if cfg.RedisAddr == "" {
		return relay.NewMemoryPeerStore(cfg.PeerTTL), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Link.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return relay.NewRedisPeerStore(client, cfg.Prefix, cfg.PeerTTL), func() { _ = client.Close() }, nil
}

// trackPeers keeps the peer registry fresh when no bus is configured.
func trackPeers(ctx context.Context, link string, envs <-chan session.Envelope, peers relay.PeerStore) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-envs:
			if !ok {
				return nil
			}
			p, ok := relay.PeerFromEnvelope(link, env)
			if !ok {
				continue
			}
			if err := peers.Touch(ctx, p); err != nil {
				log.Warn().Err(err).Msg("linkctl.peers")
			}
		}
	}
}

func sendHeartbeats(ctx context.Context, conn *session.Conn, cfg config.Link) error {
	hb := &common.Heartbeat{
		Type:           common.MavTypeEntries.Of(common.MavTypeGCS),
		Autopilot:      common.MavAutopilotEntries.Of(common.MavAutopilotInvalid),
		SystemStatus:   common.MavStateEntries.Of(common.MavStateActive),
		MavlinkVersion: 3,
	}
	ticker := time.NewTicker(cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		var err error
		if cfg.Link.SecretKey != nil {
			err = conn.SendSignedV2(cfg.SystemID, cfg.ComponentID, hb, frame.Signing{
				Key:    *cfg.Link.SecretKey,
				LinkID: cfg.LinkID,
			})
		} else {
			err = conn.SendUnsignedV2(cfg.SystemID, cfg.ComponentID, hb)
		}
		if err != nil {
			if errors.Is(err, session.ErrConnectionClosed) {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
