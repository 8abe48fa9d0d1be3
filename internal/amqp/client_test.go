package amqp

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
		{63, 30 * time.Second}, // shift overflow still capped
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5672: connection refused"), true},
		{"reset by peer", errors.New("read: connection reset by peer"), true},
		{"closed channel", errors.New("Exception (504) Reason: \"channel/connection is not open\""), true},
		{"unexpected EOF", errors.New("unexpected EOF"), true},
		{"auth failure", errors.New("ACCESS_REFUSED - Login was refused"), false},
		{"marshal failure", errors.New("marshal message: oops"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isConnectionError(tt.err)
			if result != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestLedgerEventMessageJSON(t *testing.T) {
	msg := NewLedgerEventMessage("2026-07", "entry_added", "abc-123")

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := LedgerEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.MonthKey != "2026-07" || got.Op != "entry_added" || got.EntryID != "abc-123" {
		t.Fatalf("round trip lost fields: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}

	if _, err := LedgerEventMessageFromJSON([]byte("{nope")); err == nil {
		t.Fatal("malformed body must error")
	}
}
