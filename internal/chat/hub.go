package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/krishyadav90/ProJobHub-IND/internal/metrics"
	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

const (
	writeWait  = 20 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Connection states reported in status frames.
const (
	StatusConnecting = "connecting"
	StatusSubscribed = "subscribed"
)

// Frame types.
const (
	FrameStatus   = "status"
	FrameHistory  = "history"
	FrameMessage  = "message"
	FramePresence = "presence"
	FrameError    = "error"
	FrameSend     = "send"
)

// Frame is the JSON envelope exchanged over the chat socket.
type Frame struct {
	Type     string               `json:"type"`
	Status   string               `json:"status,omitempty"`
	Message  *models.ChatMessage  `json:"message,omitempty"`
	Messages []models.ChatMessage `json:"messages,omitempty"`
	Users    []models.OnlineUser  `json:"users,omitempty"`
	Error    string               `json:"error,omitempty"`
	// Text carries the body of an incoming send frame.
	Text string `json:"text,omitempty"`
}

// Sender stores and publishes a message typed by a user.
type Sender interface {
	Send(ctx context.Context, userID int, userName, text string) (models.ChatMessage, error)
}

type HistoryLoader interface {
	History(ctx context.Context) ([]models.ChatMessage, error)
}

// Identity is the authenticated user behind a connection.
type Identity struct {
	UserID   int
	UserName string
}

type client struct {
	id   Identity
	conn *websocket.Conn
	log  *MessageLog

	writeMu    sync.Mutex
	mu         sync.Mutex
	subscribed bool
	closed     bool
}

type Hub struct {
	bus      Bus
	presence *Presence
	sender   Sender
	history  HistoryLoader
	logger   Logger
	logSize  int

	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(bus Bus, presence *Presence, sender Sender, history HistoryLoader, logSize int, logger Logger) *Hub {
	if logger == nil {
		logger = nopLogger{}
	}
	h := &Hub{
		bus:      bus,
		presence: presence,
		sender:   sender,
		history:  history,
		logger:   logger,
		logSize:  logSize,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
	presence.OnChange(h.broadcastPresence)
	return h
}

// ServeWS upgrades the request and runs the connection of id until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, id Identity) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorf("chat: ws upgrade failed: %v", err)
		return
	}

	c := &client{id: id, conn: conn, log: NewMessageLog(h.logSize)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	metrics.ChatConnected()
	h.logger.Infof("chat: user %d connected", id.UserID)

	h.write(c, Frame{Type: FrameStatus, Status: StatusConnecting})

	// Subscribe before loading history so nothing published in between is lost;
	// the log drops whatever shows up in both.
	live, unsubscribe := h.bus.Subscribe()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	history, err := h.history.History(ctx)
	cancel()
	if err != nil {
		h.logger.Errorf("chat: load history for user %d: %v", id.UserID, err)
		h.write(c, Frame{Type: FrameError, Error: "could not load messages"})
	}
	c.log.Load(history)
	h.write(c, Frame{Type: FrameHistory, Messages: c.log.Messages()})

	c.mu.Lock()
	c.subscribed = true
	c.mu.Unlock()
	h.write(c, Frame{Type: FrameStatus, Status: StatusSubscribed})

	joined := h.presence.Track(context.Background(), models.OnlineUser{UserID: id.UserID, UserName: id.UserName})
	if !joined {
		h.write(c, Frame{Type: FramePresence, Users: h.presence.List()})
	}

	done := make(chan struct{})
	go h.forward(c, live, done)
	go h.pingLoop(c, done)

	h.readLoop(c)

	close(done)
	unsubscribe()
	h.closeClient(c)
	h.presence.Untrack(context.Background(), id.UserID)
}

func (h *Hub) forward(c *client, live <-chan models.ChatMessage, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg, ok := <-live:
			if !ok {
				// dropped by the bus for falling behind; the client reconnects and reloads history
				h.logger.Errorf("chat: user %d fell behind, closing connection", c.id.UserID)
				_ = c.conn.Close()
				return
			}
			if c.log.Append(msg) {
				m := msg
				h.write(c, Frame{Type: FrameMessage, Message: &m})
			}
		}
	}
}

func (h *Hub) pingLoop(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			h.safeWrite(c, func(conn *websocket.Conn) error {
				return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			})
		}
	}
}

func (h *Hub) readLoop(c *client) {
	conn := c.conn
	conn.SetReadLimit(16 << 10)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		if mt != websocket.TextMessage {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(string(data)), "ping") {
			h.safeWrite(c, func(conn *websocket.Conn) error {
				return conn.WriteMessage(websocket.TextMessage, []byte("pong"))
			})
			continue
		}

		var in Frame
		if err := json.Unmarshal(data, &in); err != nil || in.Type != FrameSend {
			h.write(c, Frame{Type: FrameError, Error: "unsupported frame"})
			continue
		}
		h.handleSend(c, in.Text)
	}
}

func (h *Hub) handleSend(c *client, text string) {
	c.mu.Lock()
	subscribed := c.subscribed
	c.mu.Unlock()
	if !subscribed {
		h.write(c, Frame{Type: FrameError, Error: models.ErrNotConnected.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := h.sender.Send(ctx, c.id.UserID, c.id.UserName, text); err != nil {
		h.logger.Errorf("chat: send from user %d: %v", c.id.UserID, err)
		h.write(c, Frame{Type: FrameError, Error: sendErrorText(err)})
	}
}

func sendErrorText(err error) string {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrEmptyMessage):
		return "message is empty"
	case errors.As(err, &verr):
		return verr.Message
	default:
		return "failed to send message"
	}
}

func (h *Hub) closeClient(c *client) {
	c.mu.Lock()
	c.closed = true
	c.subscribed = false
	c.mu.Unlock()
	_ = c.conn.Close()

	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		metrics.ChatDisconnected()
	}
	h.mu.Unlock()
	h.logger.Infof("chat: user %d disconnected", c.id.UserID)
}

func (h *Hub) safeWrite(c *client, fn func(*websocket.Conn) error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := fn(c.conn); err != nil {
		h.logger.Errorf("chat: write to user %d failed: %v", c.id.UserID, err)
		_ = c.conn.Close()
	}
}

func (h *Hub) write(c *client, f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		h.logger.Errorf("chat: marshal frame failed: %v", err)
		return
	}
	h.safeWrite(c, func(conn *websocket.Conn) error {
		return conn.WriteMessage(websocket.TextMessage, data)
	})
}

func (h *Hub) broadcastPresence() {
	users := h.presence.List()
	metrics.OnlineUsers(len(users))

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		subscribed := c.subscribed
		c.mu.Unlock()
		if subscribed {
			h.write(c, Frame{Type: FramePresence, Users: users})
		}
	}
}
