package amqp

import (
	"encoding/json"
	"time"
)

// LedgerEventMessage is a lightweight change notification published after a
// ledger mutation. It carries identifiers only, never amounts or names:
// consumers that care about content read the store themselves.
type LedgerEventMessage struct {
	MonthKey  string    `json:"monthKey"`
	Op        string    `json:"op"`
	EntryID   string    `json:"entryId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEventMessage(monthKey, op, entryID string) *LedgerEventMessage {
	return &LedgerEventMessage{
		MonthKey:  monthKey,
		Op:        op,
		EntryID:   entryID,
		Timestamp: time.Now(),
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
