package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/scythe504/charades-backend/internal"
)

// Client is one websocket connection. The read side runs in the HTTP
// handler goroutine; writes go through send and the write pump only.
type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	limiter *rate.Limiter
	log     *zap.Logger

	closeOnce sync.Once
}

func newClient(id string, conn *websocket.Conn, limiter *rate.Limiter, log *zap.Logger) *Client {
	return &Client{
		id:      id,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		limiter: limiter,
		log:     log.With(zap.String("player", id)),
	}
}

func (c *Client) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.log.Warn("send queue full, dropping frame")
	}
}

func (c *Client) sendMessage(msgType string, data any) {
	raw, err := json.Marshal(internal.Message[any]{Type: msgType, Data: data})
	if err != nil {
		c.log.Error("encode message", zap.String("type", msgType), zap.Error(err))
		return
	}
	c.enqueue(raw)
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// writePump drains the send queue and pings the peer on the heartbeat
// interval. It owns every write to conn.
func (c *Client) writePump() {
	ticker := time.NewTicker(heartbeatInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Debug("write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Debug("ping failed", zap.Error(err))
				return
			}
		}
	}
}

// readPump decodes frames and hands them to dispatch until the peer goes
// away or misses the heartbeat.
func (c *Client) readPump(dispatch func(*Client, internal.Message[json.RawMessage])) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(heartbeatTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(heartbeatTimeout))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Info("connection lost", zap.Error(err))
			}
			return
		}

		var msg internal.Message[json.RawMessage]
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Debug("dropping malformed frame", zap.Error(err))
			continue
		}
		dispatch(c, msg)
	}
}
