// internal/server/handlers/websocket.go

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"marketplace/internal/adapter/events"
	"marketplace/internal/domain/search"
	"marketplace/internal/logger"
)

// Search scopes accepted over the live search socket
const (
	ScopeManpower  = "manpower"
	ScopeJobs      = "jobs"
	ScopeEquipment = "equipment"
	ScopeAll       = "all"
)

// WebSocketClient represents a connected live search client
type WebSocketClient struct {
	conn              *websocket.Conn
	send              chan []byte
	done              chan struct{}
	closeOnce         sync.Once
	searcher          Searcher
	config            WebSocketConfig
	logger            *zap.Logger
	natsSubscriptions []*nats.Subscription
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Time allowed for one search requested over the socket
	SearchTimeout time.Duration
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 64 * 1024,
		SearchTimeout:  15 * time.Second,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origins are enforced by the CORS layer
		return true
	},
}

// searchRequest is a search sent by the client
type searchRequest struct {
	Type      string            `json:"type"`
	RequestID string            `json:"request_id,omitempty"`
	Scope     string            `json:"scope"`
	Keyword   string            `json:"keyword"`
	Location  string            `json:"location"`
	Filters   map[string]string `json:"filters,omitempty"`
}

// socketMessage is any message sent to the client
type socketMessage struct {
	Type      string      `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	Scope     string      `json:"scope,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Time      time.Time   `json:"time"`
}

// LiveSearchHandler serves searches over a WebSocket and tells the client when
// listings change so it can re-run its search. natsConn may be nil, in which
// case no change notices are sent.
func LiveSearchHandler(searcher Searcher, natsConn *nats.Conn, topic string, log *zap.Logger) http.HandlerFunc {
	log = logger.OrNop(log).Named("websocket")

	return func(w http.ResponseWriter, r *http.Request) {
		// Upgrade HTTP connection to WebSocket
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("failed to upgrade to WebSocket", zap.Error(err))
			return
		}

		client := &WebSocketClient{
			conn:     conn,
			send:     make(chan []byte, 256),
			done:     make(chan struct{}),
			searcher: searcher,
			config:   DefaultWebSocketConfig(),
			logger:   log.With(zap.String("remote", r.RemoteAddr)),
		}

		// Subscribe before the pumps start so closeConnection sees every subscription
		if natsConn != nil {
			if err := client.subscribeToListings(natsConn, topic); err != nil {
				log.Error("failed to subscribe to listing changes", zap.Error(err))
				client.closeConnection()
				return
			}
		}

		client.enqueue(socketMessage{Type: "welcome", Time: time.Now()})

		go client.writePump()
		go client.readPump()

		client.logger.Debug("live search connection opened")
	}
}

// readPump reads search requests from the WebSocket connection
func (c *WebSocketClient) readPump() {
	defer c.closeConnection()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket error", zap.Error(err))
			}
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.config.SearchTimeout)
		c.enqueue(c.processIncomingMessage(ctx, message))
		cancel()
	}
}

// writePump writes queued messages and keepalive pings to the connection
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processIncomingMessage runs one client request and returns the reply
func (c *WebSocketClient) processIncomingMessage(ctx context.Context, message []byte) socketMessage {
	var req searchRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return socketMessage{Type: "error", Error: "invalid message", Time: time.Now()}
	}

	if req.Type != "search" {
		return socketMessage{
			Type:      "error",
			RequestID: req.RequestID,
			Error:     fmt.Sprintf("unknown message type %q", req.Type),
			Time:      time.Now(),
		}
	}

	data, err := c.runSearch(ctx, req)
	if err != nil {
		c.logger.Warn("live search failed", zap.String("scope", req.Scope), zap.Error(err))
		return socketMessage{
			Type:      "error",
			RequestID: req.RequestID,
			Scope:     req.Scope,
			Error:     err.Error(),
			Time:      time.Now(),
		}
	}

	return socketMessage{
		Type:      "results",
		RequestID: req.RequestID,
		Scope:     req.Scope,
		Data:      data,
		Time:      time.Now(),
	}
}

func (c *WebSocketClient) runSearch(ctx context.Context, req searchRequest) (interface{}, error) {
	q := search.Query{Keyword: req.Keyword, Location: req.Location, Filters: req.Filters}

	switch req.Scope {
	case ScopeManpower:
		return c.searcher.SearchManpower(ctx, q)
	case ScopeJobs:
		return c.searcher.SearchJobs(ctx, q)
	case ScopeEquipment:
		return c.searcher.SearchEquipment(ctx, q)
	case ScopeAll, "":
		q.Filters = nil
		return c.searcher.SearchAll(ctx, q)
	default:
		return nil, fmt.Errorf("unknown search scope %q", req.Scope)
	}
}

// subscribeToListings forwards listing change events as stale notices
func (c *WebSocketClient) subscribeToListings(nc *nats.Conn, topic string) error {
	sub, err := nc.Subscribe(topic+".>", func(msg *nats.Msg) {
		e, err := events.DecodeEvent(topic, msg)
		if err != nil {
			return
		}
		c.enqueue(socketMessage{Type: "stale", Data: e, Time: time.Now()})
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to listing changes: %w", err)
	}
	c.natsSubscriptions = append(c.natsSubscriptions, sub)

	return nil
}

// enqueue queues a message for the write pump, dropping it if the client is
// too slow or already gone
func (c *WebSocketClient) enqueue(msg socketMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to marshal socket message", zap.Error(err))
		return
	}

	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.logger.Warn("dropping message for slow client", zap.String("type", msg.Type))
	}
}

// closeConnection closes the WebSocket connection and cleans up resources
func (c *WebSocketClient) closeConnection() {
	c.closeOnce.Do(func() {
		for _, sub := range c.natsSubscriptions {
			sub.Unsubscribe()
		}

		close(c.done)
		c.conn.Close()

		c.logger.Debug("live search connection closed")
	})
}
