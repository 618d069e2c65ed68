// Package websocket implements the route-calculation progress feed: a
// single hub broadcasting lifecycle events to every connected client.
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kelvin-ux/sailing-regates-route/pkg/logger"
)

// Phase names a stage of a single route-calculation attempt.
const (
	PhaseStarted  = "started"
	PhaseSampling = "sampling"
	PhaseSearching = "searching"
	PhaseDone     = "done"
	PhaseFailed   = "failed"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendBuffer = 256
)

// Event is one route-calculation lifecycle notification.
type Event struct {
	RouteID string `json:"route_id"`
	Phase   string `json:"phase"`
	Detail  string `json:"detail,omitempty"`
}

// Client is a single connected WebSocket subscriber.
type Client struct {
	conn   *websocket.Conn
	send   chan *Event
	server *Server
	mu     sync.Mutex
	closed bool
}

// Server is the progress-feed hub: one per process, started with Run
// in its own goroutine, fed by Broadcast calls from the planning
// request that triggered the events.
type Server struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event
	upgrader   websocket.Upgrader
	logger     *logger.Logger
	mu         sync.RWMutex
}

// NewServer builds a Server accepting connections from any origin.
func NewServer(log *logger.Logger) *Server {
	return &Server{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: log.Named("progress-feed"),
	}
}

// Run processes register/unregister/broadcast in an endless loop (it
// takes no context and never returns); callers run it in its own
// goroutine for the process lifetime.
func (s *Server) Run() {
	s.logger.Info("starting progress feed hub")

	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client] = true
			count := len(s.clients)
			s.mu.Unlock()
			s.logger.Debug("client registered", logger.Int("client_count", count))

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				client.mu.Lock()
				client.closed = true
				client.mu.Unlock()
				close(client.send)
			}
			count := len(s.clients)
			s.mu.Unlock()
			s.logger.Debug("client unregistered", logger.Int("client_count", count))

		case event := <-s.broadcast:
			s.mu.RLock()
			var stale []*Client
			for client := range s.clients {
				select {
				case client.send <- event:
				default:
					// Slow client: drop it rather than the event.
					stale = append(stale, client)
				}
			}
			s.mu.RUnlock()

			if len(stale) > 0 {
				s.mu.Lock()
				for _, client := range stale {
					if _, ok := s.clients[client]; ok {
						delete(s.clients, client)
						client.mu.Lock()
						if !client.closed {
							client.closed = true
							close(client.send)
						}
						client.mu.Unlock()
					}
				}
				s.mu.Unlock()
			}
		}
	}
}

// HandleConnection upgrades an HTTP request to a WebSocket connection
// and registers the resulting client with the hub.
func (s *Server) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", logger.Error(err), logger.String("remote_addr", r.RemoteAddr))
		return
	}

	client := &Client{conn: conn, send: make(chan *Event, clientSendBuffer), server: s}
	s.register <- client

	go client.writePump()
	go client.readPump()
}

// Broadcast publishes an event to every connected client, dropping it
// silently if the hub has no subscribers.
func (s *Server) Broadcast(event Event) {
	s.broadcast <- &event
}

// readPump drains and discards client messages (this feed is
// publish-only) purely to detect disconnects and service pong frames.
func (c *Client) readPump() {
	defer func() {
		c.server.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.server.logger.Warn("websocket read error", logger.Error(err))
			}
			return
		}
	}
}

// writePump serializes events to the connection and sends periodic
// pings to keep the connection alive through intermediate proxies.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				c.server.logger.Error("failed to marshal progress event", logger.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
