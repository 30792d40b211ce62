package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/brandloom/brandloom/internal/conversation/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one websocket connection scoped to a service-request room.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	principal domain.Principal
	roomID    string
	send      chan []byte
}

type inboundFrame struct {
	Text string `json:"text"`
}

type errorFrame struct {
	Error string `json:"error"`
}

// Serve upgrades the request and runs the connection until either side
// closes. Authorization against the room is already done by the HTTP layer.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, principal domain.Principal, roomID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		principal: principal,
		roomID:    roomID,
		send:      make(chan []byte, 32),
	}
	h.join(roomID, client)

	go client.writeLoop()
	go client.readLoop()
	return nil
}

// readLoop outlives the HTTP handler that upgraded the connection, so inbound
// frames must not use the request context: it is canceled the moment Serve
// returns. Persistence runs against the background context instead.
func (c *Client) readLoop() {
	defer func() {
		c.hub.leave(c.roomID, c)
		close(c.send)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("websocket closed", zap.Error(err))
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			c.sendError(err)
			continue
		}
		c.hub.handleInbound(context.Background(), c, frame.Text)
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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

func (c *Client) sendError(err error) {
	payload, marshalErr := json.Marshal(errorFrame{Error: err.Error()})
	if marshalErr != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}
