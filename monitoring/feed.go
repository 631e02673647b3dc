package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gradesense/logging"
)

// PredictionEvent is broadcast to feed subscribers after every served
// prediction. Only non-identifying fields leave the process.
type PredictionEvent struct {
	PredictedCGPA float64   `json:"predicted_cgpa"`
	CGPARange     string    `json:"cgpa_range"`
	Course        string    `json:"course"`
	Timestamp     time.Time `json:"timestamp"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed is a websocket hub fanning prediction events out to dashboards.
type Feed struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
}

func NewFeed() *Feed {
	return &Feed{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run owns the client set. Call it in its own goroutine; Stop ends it.
func (f *Feed) Run() {
	for {
		select {
		case c := <-f.register:
			f.mu.Lock()
			f.clients[c] = true
			f.mu.Unlock()

		case c := <-f.unregister:
			f.mu.Lock()
			if _, ok := f.clients[c]; ok {
				delete(f.clients, c)
				close(c.send)
			}
			f.mu.Unlock()

		case message := <-f.broadcast:
			f.mu.RLock()
			for c := range f.clients {
				select {
				case c.send <- message:
				default:
					// Slow subscriber; drop the message rather than
					// block the hub.
				}
			}
			f.mu.RUnlock()

		case <-f.done:
			f.mu.Lock()
			for c := range f.clients {
				close(c.send)
				c.conn.Close()
			}
			f.clients = make(map[*client]bool)
			f.mu.Unlock()
			return
		}
	}
}

func (f *Feed) Stop() {
	close(f.done)
}

// Publish queues an event for all subscribers. Never blocks the caller.
func (f *Feed) Publish(event PredictionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case f.broadcast <- payload:
	default:
	}
}

// HandleWS upgrades the request and subscribes it to the feed.
func (f *Feed) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 64)}
	select {
	case f.register <- c:
	case <-f.done:
		// Hub already stopped; a blocked send here would leak the
		// goroutine and hold the connection open.
		conn.Close()
		return
	}

	go c.writePump()
	go func() {
		defer func() {
			select {
			case f.unregister <- c:
			case <-f.done:
			}
			conn.Close()
		}()
		for {
			// Subscribers only listen; reads just detect disconnects.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (c *client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
