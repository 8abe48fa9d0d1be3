package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mocanunicolaemarius-del/buget/internal/amqp"
	"github.com/mocanunicolaemarius-del/buget/internal/core"
	"github.com/mocanunicolaemarius-del/buget/internal/storage/memory"
)

// fakeSource replays a fixed set of events, then blocks until cancelled.
type fakeSource struct {
	msgs []*amqp.LedgerEventMessage
}

func (f *fakeSource) ConsumeLedgerEvents(ctx context.Context, handler func(context.Context, *amqp.LedgerEventMessage) error) error {
	for _, m := range f.msgs {
		if err := handler(ctx, m); err != nil {
			return err
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestHandleEventSummarizesMonth(t *testing.T) {
	store := memory.New()
	rec := core.NewMonthRecord()
	rec.Incomes = append(rec.Incomes, core.Entry{ID: "a", Name: "x", AmountCents: 1000, DateISO: "2026-07-01"})
	if err := store.SaveMonth(context.Background(), "2026-07", rec); err != nil {
		t.Fatalf("SaveMonth: %v", err)
	}

	w := NewSummaryWorker(store, nil, time.Minute)
	msg := amqp.NewLedgerEventMessage("2026-07", "entry_added", "a")
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
}

func TestSummarizeUnknownMonth(t *testing.T) {
	w := NewSummaryWorker(memory.New(), nil, time.Minute)
	if err := w.SummarizeMonth(context.Background(), "1999-01"); err != nil {
		t.Fatalf("unknown month must summarize as empty: %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store := memory.New()
	src := &fakeSource{msgs: []*amqp.LedgerEventMessage{
		amqp.NewLedgerEventMessage("2026-07", "entry_added", "a"),
	}}
	w := NewSummaryWorker(store, src, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
