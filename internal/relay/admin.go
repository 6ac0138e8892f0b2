package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/danmuck/mavlink/internal/observability"
	"github.com/danmuck/mavlink/internal/protocol/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	upgrader = websocket.Upgrader{
		CheckOrigin:     func(r *http.Request) bool { return true },
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}

	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

type AdminConfig struct {
	Name         string
	AllowOrigins []string
}

// Admin serves the operator HTTP surface for one link.
type Admin struct {
	cfg      AdminConfig
	stream   *session.Stream
	peers    PeerStore
	appeared time.Time
	router   *gin.Engine
}

func NewAdmin(cfg AdminConfig, stream *session.Stream, peers PeerStore) *Admin {
	if cfg.Name == "" {
		cfg.Name = "linkctl"
	}
	a := &Admin{
		cfg:      cfg,
		stream:   stream,
		peers:    peers,
		appeared: time.Now(),
		router:   gin.New(),
	}
	a.router.Use(gin.Recovery())
	a.router.Use(observability.HTTPObserver(cfg.Name, log.Logger))
	if len(cfg.AllowOrigins) > 0 {
		a.router.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	a.registerRoutes()
	return a
}

func (a *Admin) Handler() http.Handler {
	return a.router
}

func (a *Admin) registerRoutes() {
	a.router.GET("/health", func(c *gin.Context) {
		conn := a.stream.Conn()
		status := "ok"
		if !conn.IsOpen() {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    status,
			"uptime":    time.Since(a.appeared).String(),
			"component": a.cfg.Name,
			"link":      conn.Name(),
			"open":      conn.IsOpen(),
		})
	})

	a.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.router.GET("/peers", func(c *gin.Context) {
		peers, err := a.peers.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"peers": peers})
	})

	a.router.GET("/stream", a.handleStream)
}

// handleStream pushes every envelope to the client as one JSON text
// message. The subscription is taken before the upgrade so nothing
// published after the handshake is missed.
func (a *Admin) handleStream(c *gin.Context) {
	envs, cancel := a.stream.Subscribe()
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		cancel()
		log.Warn().Err(err).Msg("relay.stream upgrade")
		return
	}
	link := a.stream.Conn().Name()

	go func() {
		defer cancel()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug().Err(err).Msg("relay.stream read")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		cancel()
		ws.Close()
	}()
	for {
		select {
		case env, ok := <-envs:
			_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			data, err := json.Marshal(NewUplink(link, env))
			if err != nil {
				log.Warn().Err(err).Str("msg", env.Name).Msg("relay.stream marshal")
				continue
			}
			if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Serve runs the admin server until ctx ends.
func (a *Admin) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: a.router}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	log.Info().Str("addr", addr).Msg("relay.admin listening")
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
