// Package client is the interactive terminal client. It speaks the
// server's websocket protocol and renders per-viewer table snapshots
// with a bubbletea UI.
package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/feltops/holdem/holdem"
	"github.com/feltops/holdem/internal/server"
)

const (
	dialTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
)

// Client owns one websocket connection to a table server. Incoming
// envelopes are delivered on Events; writes go through a buffered send
// channel so the UI never blocks on the network.
type Client struct {
	conn   *websocket.Conn
	logger zerolog.Logger

	send   chan *server.Message
	Events chan *server.Message

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Dial connects to the server's /ws endpoint. serverURL accepts http,
// https, ws and wss schemes, or a bare host:port.
func Dial(ctx context.Context, serverURL string, logger zerolog.Logger) (*Client, error) {
	wsURL, err := websocketURL(serverURL)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("connect to %s: %w (status %s)", wsURL, err, resp.Status)
		}
		return nil, fmt.Errorf("connect to %s: %w", wsURL, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	clientCtx, cancel := context.WithCancel(context.Background())
	c := &Client{
		conn:   conn,
		logger: logger,
		send:   make(chan *server.Message, 16),
		Events: make(chan *server.Message, 16),
		ctx:    clientCtx,
		cancel: cancel,
	}

	go c.readPump()
	go c.writePump()
	return c, nil
}

// websocketURL converts an http(s) or bare address into the ws(s)
// endpoint the server listens on.
func websocketURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("server url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		// Bare host:port.
		u = &url.URL{Scheme: "ws", Host: raw}
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// Close tears the connection down. Safe to call more than once; Events
// is closed once the read pump drains.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		deadline := time.Now().Add(time.Second)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = c.conn.Close()
	})
}

// Done reports connection shutdown.
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

func (c *Client) readPump() {
	defer func() {
		c.cancel()
		close(c.Events)
	}()
	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug().Err(err).Msg("websocket read failed")
			}
			return
		}
		select {
		case c.Events <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) writePump() {
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug().Err(err).Msg("websocket write failed")
				c.Close()
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) sendMessage(messageType server.MessageType, data any) error {
	msg, err := server.NewMessage(messageType, data)
	if err != nil {
		return err
	}
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return fmt.Errorf("connection closed")
	}
}

// Join asks for a seat at the given table.
func (c *Client) Join(tableID string) error {
	return c.sendMessage(server.MessageTypeJoin, server.JoinData{TableID: tableID})
}

// Leave gives the seat back.
func (c *Client) Leave(tableID string) error {
	return c.sendMessage(server.MessageTypeLeave, server.LeaveData{TableID: tableID})
}

// ListTables requests the table directory.
func (c *Client) ListTables() error {
	return c.sendMessage(server.MessageTypeListTables, nil)
}

// StartHand asks the server to deal the next hand.
func (c *Client) StartHand(tableID string) error {
	return c.sendMessage(server.MessageTypeStartHand, server.StartHandData{TableID: tableID})
}

// Act submits a betting action for the seated player.
func (c *Client) Act(tableID string, actionType holdem.ActionType, amount int) error {
	return c.sendMessage(server.MessageTypeAction, server.ActionData{
		TableID: tableID,
		Type:    actionType,
		Amount:  amount,
	})
}
