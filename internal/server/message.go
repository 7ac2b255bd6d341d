package server

import (
	"encoding/json"
	"time"

	"github.com/feltops/holdem/holdem"
)

// MessageType identifies a wire message.
type MessageType string

const (
	// Client → server.
	MessageTypeJoin       MessageType = "join"
	MessageTypeLeave      MessageType = "leave"
	MessageTypeListTables MessageType = "list_tables"
	MessageTypeStartHand  MessageType = "start_hand"
	MessageTypeAction     MessageType = "action"

	// Server → client.
	MessageTypeJoined    MessageType = "joined"
	MessageTypeLeft      MessageType = "left"
	MessageTypeTableList MessageType = "table_list"
	MessageTypeView      MessageType = "view"
	MessageTypeError     MessageType = "error"
)

// Message is the wire envelope. Data carries the type-specific payload.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload in an envelope with the current time.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = encoded
	}
	return &Message{Type: messageType, Data: raw, Timestamp: time.Now()}, nil
}

// Client → server payloads.

type JoinData struct {
	TableID string `json:"tableId"`
}

type LeaveData struct {
	TableID string `json:"tableId"`
}

type StartHandData struct {
	TableID string `json:"tableId"`
}

type ActionData struct {
	TableID string            `json:"tableId"`
	Type    holdem.ActionType `json:"actionType"`
	Amount  int               `json:"amount,omitempty"`
}

// Server → client payloads. The table state itself is always a
// holdem.PlayerGameView redacted for the receiving player; the server
// never puts another player's hole cards or the deck on the wire.

type JoinedData struct {
	TableID  string `json:"tableId"`
	PlayerID string `json:"playerId"`
}

type TableListData struct {
	Tables []TableInfo `json:"tables"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
