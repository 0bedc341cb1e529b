package notification

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // configure in prod
}

// FeedEvent is pushed to a connected client when a notification lands.
type FeedEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type connection struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// Feed manages live notification streams, one connection per user.
type Feed struct {
	mu          sync.RWMutex
	connections map[int64]*connection
}

func NewFeed() *Feed {
	return &Feed{
		connections: make(map[int64]*connection),
	}
}

func (f *Feed) register(c *connection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// a newer connection replaces the old one
	if prev, ok := f.connections[c.userID]; ok {
		close(prev.send)
		_ = prev.conn.Close()
	}
	f.connections[c.userID] = c
}

func (f *Feed) unregister(c *connection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.connections[c.userID]; ok && existing == c {
		delete(f.connections, c.userID)
		close(c.send)
	}
}

// Push delivers an event to the user's live connection, if any.
// Slow consumers are dropped rather than blocking the caller.
func (f *Feed) Push(userID int64, event *FeedEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	f.mu.RLock()
	c, ok := f.connections[userID]
	f.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case c.send <- data:
	default:
		f.mu.Lock()
		if existing, stillOk := f.connections[userID]; stillOk && existing == c {
			delete(f.connections, userID)
			close(c.send)
		}
		f.mu.Unlock()
		_ = c.conn.Close()
	}
}

// HandleWS upgrades the request and streams notification events until the
// client goes away. Requires JWT middleware upstream.
func (f *Feed) HandleWS(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("notification feed: upgrade failed: %v", err)
		return
	}

	conn := &connection{
		userID: userID,
		conn:   ws,
		send:   make(chan []byte, 16),
	}
	f.register(conn)

	go conn.writePump(f)
	conn.readPump(f)
}

func (c *connection) readPump(f *Feed) {
	defer func() {
		f.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// the feed is one-way; reads only service pings and close frames
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *connection) writePump(f *Feed) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
