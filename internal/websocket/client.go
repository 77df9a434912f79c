package websocket

import (
	"context"
	"encoding/json"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	// Dashboards only send small control requests.
	readLimit = 512
)

// refreshRequest asks the server to resend the stats snapshot.
const refreshRequest = "refresh"

type request struct {
	Type string `json:"type"`
}

// Client is one connected dashboard.
type Client struct {
	hub  *Hub
	conn *ws.Conn
	send chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// Run registers the client and queues a stats snapshot so a reconnecting
// dashboard starts from current counts. It blocks until the connection drops.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.deliver(ctx)
	c.hub.sendSnapshot(ctx, c)
	c.listen(ctx)
}

// listen answers refresh requests and ignores anything else.
func (c *Client) listen(ctx context.Context) {
	c.conn.SetReadLimit(readLimit)
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != ws.MessageText {
			continue
		}
		var req request
		if json.Unmarshal(data, &req) != nil {
			continue
		}
		if req.Type == refreshRequest {
			c.hub.sendSnapshot(ctx, c)
		}
	}
}

// deliver writes queued messages and keeps the connection alive with pings.
// A closed send channel means the hub is shutting down.
func (c *Client) deliver(ctx context.Context) {
	keepalive := time.NewTicker(pingInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-keepalive.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case msg, open := <-c.send:
			if !open {
				c.conn.Close(ws.StatusGoingAway, "server shutting down")
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		}
	}
}
