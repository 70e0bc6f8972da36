package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/campolink/campolink/internal/common/cnst"
	"github.com/campolink/campolink/internal/common/config"
	"github.com/campolink/campolink/internal/realtime/event"
	"github.com/campolink/campolink/internal/realtime/notifier"
	"github.com/campolink/campolink/pkg/metrics"
)

// TokenVerifier resolves a bearer token into an authenticated subject. The
// hub never mints tokens; it only consumes this capability at handshake time.
type TokenVerifier interface {
	Verify(token string) (*Subject, error)
}

// Hub owns the set of live authenticated connections and fans out every
// emitted event to all of them. Producers call Emit after their mutation has
// committed; Emit never fails from their point of view.
type Hub struct {
	id        string
	logger    *zap.Logger
	cfg       config.RealtimeConfig
	verifier  TokenVerifier
	backplane notifier.Notifier
	metrics   *metrics.Metrics
	upgrader  websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewHub creates a new broadcast hub. metrics may be nil.
func NewHub(logger *zap.Logger, cfg config.RealtimeConfig, verifier TokenVerifier, backplane notifier.Notifier, m *metrics.Metrics) *Hub {
	h := &Hub{
		id:        uuid.NewString(),
		logger:    logger.Named("realtime.hub"),
		cfg:       cfg,
		verifier:  verifier,
		backplane: backplane,
		metrics:   m,
		conns:     make(map[string]*Conn),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
		HandshakeTimeout: cfg.ConnectTimeout,
		CheckOrigin:      h.checkOrigin,
	}
	return h
}

// checkOrigin accepts every origin when no allow-list is configured. That is
// the intended default for this deployment, not an oversight.
func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// Start begins fanning out envelopes observed on the backplane. Remote
// envelopes are delivered to local connections only, never re-published.
func (h *Hub) Start(ctx context.Context) error {
	if h.backplane == nil || !h.backplane.CanReceive() {
		return nil
	}
	ch, err := h.backplane.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for env := range ch {
			if env.Source == h.id {
				// our own publication echoed back by pub/sub
				continue
			}
			frame, err := json.Marshal(event.Envelope{Event: env.Event, Data: env.Data})
			if err != nil {
				h.logger.Error("failed to encode backplane envelope",
					zap.String("event", env.Event),
					zap.Error(err))
				continue
			}
			h.fanOut(env.Event, frame)
		}
	}()
	return nil
}

// HandleWS authenticates the upgrade request and runs the connection until
// it closes. The bearer token is taken from the `token` query parameter (the
// handshake auth field) or the Authorization header; without a usable token
// the request is rejected before the upgrade, with no event payload.
func (h *Hub) HandleWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		header := c.GetHeader("Authorization")
		token = strings.TrimPrefix(header, "Bearer ")
	}
	if token == "" {
		h.logger.Info("handshake rejected",
			zap.String("remote", c.ClientIP()),
			zap.Error(cnst.ErrMissingToken))
		h.metrics.Handshake("missing_token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	subject, err := h.verifier.Verify(token)
	if err != nil {
		h.logger.Info("handshake rejected",
			zap.String("remote", c.ClientIP()),
			zap.Error(err))
		h.metrics.Handshake("rejected")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Info("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := newConn(uuid.NewString(), *subject, ws, h.cfg, h.logger)
	h.add(conn)
	h.metrics.Handshake("accepted")
	h.metrics.ConnOpened()
	h.logger.Info("client connected",
		zap.String("conn_id", conn.ID),
		zap.Uint("user_id", subject.UserID),
		zap.String("username", subject.Username))

	go conn.writePump()
	conn.readPump()

	// The connection leaves the live set before the transport close
	// completes; no event can reach it afterwards.
	h.remove(conn.ID)
	conn.close()
	h.metrics.ConnClosed()
	h.logger.Info("client disconnected",
		zap.String("conn_id", conn.ID),
		zap.Uint("user_id", subject.UserID))
}

// Emit broadcasts an event to every live authenticated connection.
// Fire-and-forget: a failure to reach one connection never surfaces to the
// producer and never affects delivery to the others.
func (h *Hub) Emit(ctx context.Context, p event.Payload) {
	frame, err := event.Encode(p)
	if err != nil {
		h.logger.Error("failed to encode event",
			zap.String("event", p.EventName()),
			zap.Error(err))
		return
	}

	h.metrics.Emitted(p.EventName())
	h.fanOut(p.EventName(), frame)

	if h.backplane != nil && h.backplane.CanSend() {
		if err := h.publish(ctx, p); err != nil {
			h.logger.Warn("backplane publish failed",
				zap.String("event", p.EventName()),
				zap.Error(err))
		}
	}
}

func (h *Hub) publish(ctx context.Context, p event.Payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return h.backplane.NotifyEmit(ctx, &event.Envelope{Event: p.EventName(), Data: data, Source: h.id})
}

func (h *Hub) fanOut(eventName string, frame []byte) {
	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.conns))
	for _, conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if conn.enqueue(frame) {
			h.metrics.Delivered(eventName)
		} else {
			h.metrics.Dropped(eventName)
			h.logger.Warn("event dropped, send queue full",
				zap.String("conn_id", conn.ID),
				zap.String("event", eventName))
		}
	}
}

// KickSubject closes every connection of the given user with a policy close
// so well-behaved clients stop auto-reconnecting with that credential.
func (h *Hub) KickSubject(userID uint, reason string) int {
	h.mu.RLock()
	var victims []*Conn
	for _, conn := range h.conns {
		if conn.Subject.UserID == userID {
			victims = append(victims, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range victims {
		conn.closeWithPolicy(reason)
	}
	return len(victims)
}

// ConnectionCount returns the number of live authenticated connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Shutdown closes every connection; in-flight writes are abandoned
func (h *Hub) Shutdown(ctx context.Context) {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[string]*Conn)
	h.mu.Unlock()

	for _, conn := range conns {
		conn.close()
	}
	h.logger.Info("hub shut down", zap.Int("closed", len(conns)))
}

func (h *Hub) add(conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn.ID] = conn
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
}
