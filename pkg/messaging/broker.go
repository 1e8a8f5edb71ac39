package messaging

import (
	"context"
	"encoding/json"
)

// Channel names for realtime change feeds
const (
	ChannelNotifications = "notifications"
	ChannelSOSRequests   = "sos_requests"
	ChannelOutreach      = "outreach"
)

// ChangeOp identifies the kind of row change carried by a ChangeEvent
type ChangeOp string

const (
	OpInsert ChangeOp = "insert"
	OpUpdate ChangeOp = "update"
)

// ChangeEvent is the wire form of a single row change on a subscribed table.
// Row holds the full post-change row encoded as JSON.
type ChangeEvent struct {
	Op    ChangeOp        `json:"op"`
	Table string          `json:"table"`
	Row   json.RawMessage `json:"row"`
}

// NewChangeEvent encodes row and wraps it in a ChangeEvent
func NewChangeEvent(op ChangeOp, table string, row interface{}) (*ChangeEvent, error) {
	payload, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	return &ChangeEvent{Op: op, Table: table, Row: payload}, nil
}

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
