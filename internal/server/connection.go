package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/feltops/holdem/holdem"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Connection wraps one client websocket. A connection holds at most
// one seat at one table; view updates for that seat are pushed through
// the send channel by the table subscription.
type Connection struct {
	conn    *websocket.Conn
	send    chan *Message
	service *TableService
	logger  zerolog.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu          sync.Mutex
	tableID     string
	playerID    string
	unsubscribe func()
}

func NewConnection(conn *websocket.Conn, service *TableService, logger zerolog.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:    conn,
		send:    make(chan *Message, 64),
		service: service,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close releases the seat and tears the socket down. Safe to call
// more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.releaseSeat()
		c.cancel()
		_ = c.conn.Close()
	})
}

// releaseSeat unsubscribes and leaves the table, if seated.
func (c *Connection) releaseSeat() {
	c.mu.Lock()
	tableID, playerID := c.tableID, c.playerID
	unsubscribe := c.unsubscribe
	c.tableID, c.playerID, c.unsubscribe = "", "", nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if tableID != "" && playerID != "" {
		if err := c.service.Leave(context.Background(), tableID, playerID); err != nil {
			c.logger.Debug().Err(err).Str("table", tableID).Msg("leave on close")
		}
	}
}

func (c *Connection) enqueue(msg *Message) {
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	default:
		c.logger.Warn().Msg("send buffer full, dropping connection")
		c.Close()
	}
}

func (c *Connection) sendError(code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		return
	}
	c.enqueue(msg)
}

func (c *Connection) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}
		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Connection) handleMessage(msg *Message) {
	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "malformed join payload")
			return
		}
		c.handleJoin(data)

	case MessageTypeLeave:
		c.releaseSeat()
		reply, _ := NewMessage(MessageTypeLeft, nil)
		c.enqueue(reply)

	case MessageTypeListTables:
		reply, err := NewMessage(MessageTypeTableList, TableListData{Tables: c.service.ListTables()})
		if err != nil {
			c.sendError("internal", "failed to list tables")
			return
		}
		c.enqueue(reply)

	case MessageTypeStartHand:
		var data StartHandData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "malformed start_hand payload")
			return
		}
		if err := c.service.StartHand(c.ctx, data.TableID); err != nil {
			c.sendError("start_failed", err.Error())
		}

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "malformed action payload")
			return
		}
		c.handleAction(data)

	default:
		c.sendError("unknown_message_type", "unknown message type: "+string(msg.Type))
	}
}

func (c *Connection) handleJoin(data JoinData) {
	c.mu.Lock()
	seated := c.playerID != ""
	c.mu.Unlock()
	if seated {
		c.sendError("already_seated", "leave the current table first")
		return
	}

	playerID, err := c.service.Join(data.TableID)
	if err != nil {
		c.sendError("join_failed", err.Error())
		return
	}

	unsubscribe, err := c.service.Subscribe(data.TableID, playerID, func(view holdem.PlayerGameView) {
		msg, err := NewMessage(MessageTypeView, view)
		if err != nil {
			return
		}
		c.enqueue(msg)
	})
	if err != nil {
		_ = c.service.Leave(context.Background(), data.TableID, playerID)
		c.sendError("join_failed", err.Error())
		return
	}

	c.mu.Lock()
	c.tableID, c.playerID, c.unsubscribe = data.TableID, playerID, unsubscribe
	c.mu.Unlock()

	c.logger.Info().Str("table", data.TableID).Str("player", playerID).Msg("player joined")

	reply, _ := NewMessage(MessageTypeJoined, JoinedData{TableID: data.TableID, PlayerID: playerID})
	c.enqueue(reply)

	// Initial snapshot so the client can render before any action.
	if view, err := c.service.View(data.TableID, playerID); err == nil {
		if msg, err := NewMessage(MessageTypeView, view); err == nil {
			c.enqueue(msg)
		}
	}
}

func (c *Connection) handleAction(data ActionData) {
	c.mu.Lock()
	tableID, playerID := c.tableID, c.playerID
	c.mu.Unlock()
	if playerID == "" {
		c.sendError("not_seated", "join a table first")
		return
	}
	if data.TableID != "" && data.TableID != tableID {
		c.sendError("wrong_table", "action targets a different table")
		return
	}

	action := holdem.Action{Type: data.Type, Amount: data.Amount}
	if err := c.service.Act(c.ctx, tableID, playerID, action); err != nil {
		c.sendError("action_rejected", err.Error())
	}
}
