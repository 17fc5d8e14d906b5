package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ottocollect/ottocollect/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendQueue  = 64
)

// Socket upgrades authenticated requests and streams the user's events.
type Socket struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      logging.Logger
}

// NewSocket builds a Socket. allowOrigin decides which browser origins may
// connect; nil allows any.
func NewSocket(hub *Hub, allowOrigin func(origin string) bool, log logging.Logger) *Socket {
	s := &Socket{hub: hub, log: log.With("module", "realtime")}
	s.upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return allowOrigin == nil || origin == "" || allowOrigin(origin)
	}
	return s
}

type client struct {
	conn *websocket.Conn
	send chan Event
	done chan struct{}
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

// Serve upgrades the connection and blocks until the client disconnects.
func (s *Socket) Serve(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan Event, sendQueue), done: make(chan struct{})}
	unsubscribe := s.hub.Subscribe(userID, func(e Event) {
		select {
		case c.send <- e:
		case <-c.done:
		}
	})

	s.log.Debug(r.Context(), "socket connected", "user_id", userID)
	go s.writePump(c)
	s.readPump(r.Context(), c)

	unsubscribe()
	c.close()
	_ = conn.Close()
	s.log.Debug(r.Context(), "socket closed", "user_id", userID)
}

// readPump consumes client frames until the connection fails. Clients may
// send {"type":"ping"} and get a pong event back.
func (s *Socket) readPump(ctx context.Context, c *client) {
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Event
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.log.Debug(ctx, "invalid socket frame", "error", err)
			continue
		}
		if msg.Type == "ping" {
			select {
			case c.send <- Event{Type: "pong"}:
			case <-c.done:
				return
			}
		}
	}
}

func (s *Socket) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case e := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(e); err != nil {
				c.close()
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				_ = c.conn.Close()
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}
