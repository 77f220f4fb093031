// Package chat serves the live side of the counselor chat: a websocket per
// signed-in browser tab, fed with the conversation and any replies pushed
// while it is open.
package chat

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"therapath-portal/internal/metrics"
	"therapath-portal/internal/model"
	"therapath-portal/internal/service"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16

	// per-socket send allowance when no shared Limiter is configured
	defaultRate  = rate.Limit(1)
	defaultBurst = 5
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Session, error)
}

// Event is one frame sent to the browser.
type Event struct {
	Type    string              `json:"type"` // history, message, error
	Message *model.ChatMessage  `json:"message,omitempty"`
	History []model.ChatMessage `json:"history,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// Incoming is one frame read from the browser.
type Incoming struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Limiter is a keyed allowance, shared with the gRPC rate limit in production.
type Limiter interface {
	Allow(key string) bool
}

type Option func(*Hub)

// WithLimiter budgets chat sends per user through l instead of per socket.
func WithLimiter(l Limiter) Option {
	return func(h *Hub) { h.limiter = l }
}

type client struct {
	conn  *websocket.Conn
	send  chan Event
	s     model.Session
	token string
	lim   *rate.Limiter
	done  chan struct{} // closed when writeLoop exits
}

// allow reports whether c may send another message now.
func (h *Hub) allow(c *client) bool {
	if h.limiter != nil {
		return h.limiter.Allow("chat:" + c.s.User.ID)
	}
	return c.lim.Allow()
}

type Hub struct {
	auth     Authenticator
	chat     *service.Chat
	metrics  metrics.Recorder
	log      *zap.Logger
	upgrader websocket.Upgrader
	limiter  Limiter

	mu    sync.RWMutex
	conns map[string]map[*client]struct{}
}

func NewHub(auth Authenticator, chat *service.Chat, allowedOrigin string, rec metrics.Recorder, log *zap.Logger, opts ...Option) *Hub {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		auth:    auth,
		chat:    chat,
		metrics: rec,
		log:     log,
		conns:   make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Push implements service.Pusher. Slow clients miss the message rather than
// stall the caller.
func (h *Hub) Push(userID string, msg model.ChatMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[userID] {
		select {
		case c.send <- Event{Type: "message", Message: &msg}:
		default:
			h.log.Warn("chat push dropped", zap.String("user_id", userID))
		}
	}
}

// Connections reports how many sockets userID has open.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	set, ok := h.conns[c.s.User.ID]
	if !ok {
		set = make(map[*client]struct{})
		h.conns[c.s.User.ID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()
	h.metrics.ChatConnected()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	set := h.conns[c.s.User.ID]
	if _, ok := set[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.conns, c.s.User.ID)
	}
	close(c.send)
	h.mu.Unlock()
	h.metrics.ChatDisconnected()
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	var all []*client
	for _, set := range h.conns {
		for c := range set {
			all = append(all, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range all {
		c.conn.Close()
	}
}

// ServeHTTP authenticates the ?token= query parameter, upgrades, sends the
// history and then relays messages until the socket closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token required", http.StatusUnauthorized)
		return
	}
	s, err := h.auth.Authenticate(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	c := &client{
		conn:  conn,
		send:  make(chan Event, sendBuffer),
		s:     s,
		token: token,
		lim:   rate.NewLimiter(defaultRate, defaultBurst),
		done:  make(chan struct{}),
	}
	h.add(c)
	h.log.Info("chat connected", zap.String("user_id", s.User.ID))

	go h.writeLoop(c)

	history, err := h.chat.History(r.Context(), s)
	if err != nil {
		h.log.Error("chat history", zap.Error(err))
	}
	h.deliver(c, Event{Type: "history", History: history})

	h.readLoop(context.WithoutCancel(r.Context()), c)
}

// deliver queues ev for c unless c has gone away.
func (h *Hub) deliver(c *client, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.conns[c.s.User.ID][c]; !ok {
		return
	}
	select {
	case c.send <- ev:
	default:
	}
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	defer func() {
		h.remove(c)
		// let queued frames, such as a final error, reach the browser
		select {
		case <-c.done:
		case <-time.After(writeWait):
		}
		c.conn.Close()
		h.log.Info("chat disconnected", zap.String("user_id", c.s.User.ID))
	}()

	c.conn.SetReadLimit(64 << 10)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in Incoming
		if err := c.conn.ReadJSON(&in); err != nil {
			return
		}
		// the session may have been logged out since the upgrade
		s, err := h.auth.Authenticate(ctx, c.token)
		if err != nil || s.User.ID != c.s.User.ID {
			h.deliver(c, Event{Type: "error", Error: "Session expired, please log in again"})
			return
		}
		if !h.allow(c) {
			h.deliver(c, Event{Type: "error", Error: "Too many messages, please slow down"})
			continue
		}
		sent, reply, err := h.chat.Send(ctx, s, in.Subject, in.Text)
		if err != nil {
			h.deliver(c, Event{Type: "error", Error: errorText(err)})
			continue
		}
		h.deliver(c, Event{Type: "message", Message: &sent})
		h.deliver(c, Event{Type: "message", Message: &reply})
	}
}

func errorText(err error) string {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		for _, msg := range verr.Fields {
			return msg
		}
	}
	return "message could not be sent"
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				h.log.Debug("chat write", zap.String("user_id", c.s.User.ID), zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
