package channel

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/campolink/campolink/internal/common/config"
	"github.com/campolink/campolink/internal/realtime/event"
)

// ErrReconnectExhausted is reported to disconnect observers once the
// automatic reconnection budget runs out. The next Connect call starts fresh.
var ErrReconnectExhausted = errors.New("reconnect attempts exhausted")

// Handler receives a decoded event payload
type Handler func(p event.Payload)

// Unsubscribe removes a handler registered with On. Calling it more than
// once is a no-op.
type Unsubscribe func()

type subscription struct {
	event   string
	fn      Handler
	removed bool
}

// Channel is the client side of the realtime layer: it holds a single
// authenticated connection to the hub, dispatches decoded events to
// subscribers and reconnects when the transport drops.
//
// Subscriptions belong to the channel, not to a particular connection:
// handlers registered before a disconnect keep firing after the channel
// reconnects, in registration order.
type Channel struct {
	logger *zap.Logger
	cfg    config.RealtimeConfig
	url    string

	mu        sync.Mutex
	writeMu   sync.Mutex
	token     string
	conn      *websocket.Conn
	connected bool
	closing   bool
	gen       int

	subs          []*subscription
	disconnectObs []func(err error)
}

// New creates a channel pointed at the given websocket URL (ws:// or wss://)
func New(logger *zap.Logger, cfg config.RealtimeConfig, wsURL string) *Channel {
	return &Channel{
		logger: logger.Named("realtime.channel"),
		cfg:    cfg,
		url:    wsURL,
	}
}

// Connect establishes the connection with the given credential.
//
// Calling Connect while already connected with the same token is a no-op.
// A different token tears the current connection down first, so the channel
// never holds a session authenticated with a stale credential.
func (c *Channel) Connect(token string) error {
	c.mu.Lock()
	if c.connected {
		if token == c.token {
			c.mu.Unlock()
			return nil
		}
		c.teardownLocked()
	}
	c.token = token
	c.closing = false
	c.mu.Unlock()

	return c.establish(token)
}

// Disconnect closes the connection deliberately; no reconnection follows
func (c *Channel) Disconnect() {
	c.mu.Lock()
	wasConnected := c.connected
	c.closing = true
	c.teardownLocked()
	observers := append([]func(err error){}, c.disconnectObs...)
	c.mu.Unlock()

	if wasConnected {
		for _, fn := range observers {
			fn(nil)
		}
	}
}

// Close tears the session down terminally: the connection is closed and all
// subscriptions and disconnect observers are dropped. Reusing the channel
// afterwards requires registering handlers again before Connect.
func (c *Channel) Close() {
	c.Disconnect()

	c.mu.Lock()
	c.subs = nil
	c.disconnectObs = nil
	c.mu.Unlock()
}

// IsConnected reports whether the channel currently holds a live connection
func (c *Channel) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// On registers a handler for the named event. Handlers fire in registration
// order and survive reconnections. The returned function removes the
// handler; calling it repeatedly has no further effect.
func (c *Channel) On(eventName string, fn Handler) Unsubscribe {
	sub := &subscription{event: eventName, fn: fn}

	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			sub.removed = true
			for i, s := range c.subs {
				if s == sub {
					c.subs = append(c.subs[:i], c.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// OnDisconnect registers an observer called whenever the connection is lost,
// including when reconnection attempts are exhausted.
func (c *Channel) OnDisconnect(fn func(err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnectObs = append(c.disconnectObs, fn)
}

// Emit sends a payload to the server. While disconnected the payload is
// dropped with a warning; the caller's flow is never interrupted.
func (c *Channel) Emit(p event.Payload) error {
	c.mu.Lock()
	conn := c.conn
	connected := c.connected
	c.mu.Unlock()

	if !connected || conn == nil {
		c.logger.Warn("emit while disconnected, payload dropped",
			zap.String("event", p.EventName()))
		return nil
	}

	frame, err := event.Encode(p)
	if err != nil {
		return fmt.Errorf("encode %s: %w", p.EventName(), err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, frame)
}

func (c *Channel) establish(token string) error {
	conn, err := c.dial(token)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.token != token || c.closing {
		// credential changed or channel closed while dialing
		c.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	if c.conn != nil {
		// a concurrent Connect or reconnect already holds a connection;
		// replace it, never duplicate. The generation bump below retires
		// its readLoop silently.
		_ = c.conn.Close()
	}
	c.conn = conn
	c.connected = true
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	go c.readLoop(conn, gen, token)
	return nil
}

func (c *Channel) dial(token string) (*websocket.Conn, error) {
	target := c.url
	if token != "" {
		u, err := url.Parse(c.url)
		if err != nil {
			return nil, fmt.Errorf("parse url: %w", err)
		}
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
		target = u.String()
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.ConnectTimeout}
	conn, resp, err := dialer.Dial(target, nil)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.url, err)
	}
	return conn, nil
}

func (c *Channel) readLoop(conn *websocket.Conn, gen int, token string) {
	var readErr error
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			readErr = err
			break
		}

		env, err := event.DecodeFrame(data)
		if err != nil {
			c.logger.Debug("discarding frame", zap.Error(err))
			continue
		}
		c.dispatch(env)
	}

	c.mu.Lock()
	if gen != c.gen {
		// a newer connection already took over
		c.mu.Unlock()
		return
	}
	c.connected = false
	c.conn = nil
	deliberate := c.closing
	observers := append([]func(err error){}, c.disconnectObs...)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(readErr)
	}

	if deliberate {
		return
	}
	if isPolicyClose(readErr) {
		c.logger.Warn("server closed the connection for policy reasons, not reconnecting",
			zap.Error(readErr))
		return
	}

	c.reconnect(token)
}

// reconnect retries the connection a bounded number of times with a fixed
// delay between attempts. Exhaustion is final and surfaces through the
// disconnect observers; the next Connect call starts fresh.
func (c *Channel) reconnect(token string) {
	for attempt := 1; attempt <= c.cfg.ReconnectAttempts; attempt++ {
		time.Sleep(c.cfg.ReconnectDelay)

		c.mu.Lock()
		// A deliberate close, a credential change, or a Connect call that
		// already re-established the session all retire this loop.
		stale := c.closing || c.token != token || c.connected
		c.mu.Unlock()
		if stale {
			return
		}

		if err := c.establish(token); err != nil {
			c.logger.Warn("reconnect attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.cfg.ReconnectAttempts),
				zap.Error(err))
			continue
		}
		c.logger.Info("reconnected", zap.Int("attempt", attempt))
		return
	}
	c.logger.Error("reconnect attempts exhausted",
		zap.Int("attempts", c.cfg.ReconnectAttempts))

	c.mu.Lock()
	observers := append([]func(err error){}, c.disconnectObs...)
	c.mu.Unlock()
	for _, fn := range observers {
		fn(ErrReconnectExhausted)
	}
}

func (c *Channel) dispatch(env *event.Envelope) {
	p, err := event.Decode(env.Event, env.Data)
	if err != nil {
		c.logger.Debug("discarding event",
			zap.String("event", env.Event),
			zap.Error(err))
		return
	}

	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.subs))
	for _, sub := range c.subs {
		if sub.event == env.Event && !sub.removed {
			handlers = append(handlers, sub.fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range handlers {
		fn(p)
	}
}

func (c *Channel) teardownLocked() {
	if c.conn != nil {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = c.conn.Close()
		c.conn = nil
	}
	c.connected = false
	c.gen++
}

func isPolicyClose(err error) bool {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return closeErr.Code == websocket.ClosePolicyViolation
	}
	return false
}
