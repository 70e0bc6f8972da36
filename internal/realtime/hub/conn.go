package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/campolink/campolink/internal/common/config"
	"github.com/campolink/campolink/internal/realtime/event"
)

// Subject is the authenticated identity bound to a connection during the
// handshake.
type Subject struct {
	UserID   uint
	Username string
	Rol      string
}

// Conn represents one live, authenticated transport session. It is owned
// exclusively by the hub; the per-connection send queue plus a single writer
// goroutine gives FIFO delivery per connection without cross-connection
// coupling.
type Conn struct {
	ID      string
	Subject Subject

	ws     *websocket.Conn
	send   chan []byte
	logger *zap.Logger
	cfg    config.RealtimeConfig

	closeOnce sync.Once
	done      chan struct{}
}

func newConn(id string, subject Subject, ws *websocket.Conn, cfg config.RealtimeConfig, logger *zap.Logger) *Conn {
	return &Conn{
		ID:      id,
		Subject: subject,
		ws:      ws,
		send:    make(chan []byte, cfg.SendBuffer),
		logger:  logger,
		cfg:     cfg,
		done:    make(chan struct{}),
	}
}

// enqueue offers a frame to the connection's send queue without blocking.
// A full queue means this connection misses the frame; the caller decides
// whether that is worth a metric.
func (c *Conn) enqueue(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// reply encodes a direct payload and queues it for this connection only
func (c *Conn) reply(p event.Payload) {
	frame, err := event.Encode(p)
	if err != nil {
		c.logger.Error("failed to encode reply",
			zap.String("event", p.EventName()),
			zap.Error(err))
		return
	}
	if !c.enqueue(frame) {
		c.logger.Warn("reply dropped, send queue full",
			zap.String("conn_id", c.ID),
			zap.String("event", p.EventName()))
	}
}

// writePump is the single writer for the connection: it drains the send
// queue and keeps the heartbeat going. Exits on write failure or close.
func (c *Conn) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case frame := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("write failed, closing connection",
					zap.String("conn_id", c.ID),
					zap.Error(err))
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("ping failed, closing connection",
					zap.String("conn_id", c.ID),
					zap.Error(err))
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// readPump consumes inbound frames until the peer goes away or the
// heartbeat deadline passes. Only the side-channel messages are meaningful;
// anything else is ignored.
func (c *Conn) readPump() {
	c.ws.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.PingTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.cfg.PingTimeout))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				c.logger.Debug("read failed",
					zap.String("conn_id", c.ID),
					zap.Error(err))
			}
			return
		}
		// Any inbound traffic counts as liveness
		_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.PingTimeout))

		var env event.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Debug("discarding malformed frame",
				zap.String("conn_id", c.ID),
				zap.Error(err))
			continue
		}

		switch env.Event {
		case event.Ping:
			c.reply(event.AckOf(event.Pong))
		case event.SolicitarActualizacionLotes:
			c.reply(event.AckOf(event.ActualizacionSolicitada))
		default:
			c.logger.Debug("ignoring inbound event",
				zap.String("conn_id", c.ID),
				zap.String("event", env.Event))
		}
	}
}

// closeWithPolicy tells the peer not to come back with the same credential.
// WriteControl is safe to call concurrently with the writer goroutine.
func (c *Conn) closeWithPolicy(reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	c.close()
}

func (c *Conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}
