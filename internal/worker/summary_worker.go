// Package worker runs the summary worker: it follows ledger change events
// and logs the recomputed aggregates of each touched month, plus a periodic
// heartbeat summary of the current month.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mocanunicolaemarius-del/buget/internal/amqp"
	"github.com/mocanunicolaemarius-del/buget/internal/core"
	"github.com/mocanunicolaemarius-del/buget/internal/ledger"
	applog "github.com/mocanunicolaemarius-del/buget/internal/log"
)

// EventSource delivers ledger events to a handler until the context ends.
type EventSource interface {
	ConsumeLedgerEvents(ctx context.Context, handler func(context.Context, *amqp.LedgerEventMessage) error) error
}

// SummaryWorker recomputes and logs month aggregates in response to events.
type SummaryWorker struct {
	store    ledger.Store
	events   EventSource
	interval time.Duration
}

func NewSummaryWorker(store ledger.Store, events EventSource, interval time.Duration) *SummaryWorker {
	return &SummaryWorker{
		store:    store,
		events:   events,
		interval: interval,
	}
}

// Run consumes events and emits periodic summaries until the context is
// cancelled. Returns the first error from either loop.
func (w *SummaryWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.events.ConsumeLedgerEvents(ctx, w.HandleEvent)
	})

	g.Go(func() error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.SummarizeMonth(ctx, core.CurrentMonthKey()); err != nil {
					slog.ErrorContext(ctx, "Periodic summary failed", applog.FieldError, err)
				}
			}
		}
	})

	return g.Wait()
}

// HandleEvent summarizes the month named by a single ledger event.
func (w *SummaryWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		applog.FieldMonthKey, msg.MonthKey,
		applog.FieldOperation, msg.Op,
		applog.FieldEntryID, msg.EntryID)
	return w.SummarizeMonth(ctx, msg.MonthKey)
}

// SummarizeMonth loads the month and logs its aggregates. A month nobody has
// written yet summarizes as empty rather than failing.
func (w *SummaryWorker) SummarizeMonth(ctx context.Context, key string) error {
	rec, ok, err := w.store.LoadMonth(ctx, key)
	if err != nil {
		return fmt.Errorf("load month %s: %w", key, err)
	}
	if !ok {
		rec = core.NewMonthRecord()
	}

	slog.InfoContext(ctx, "Month summary",
		applog.FieldMonthKey, key,
		"total_income", core.FormatAmount(core.TotalIncome(rec)),
		"total_expense", core.FormatAmount(core.TotalExpense(rec)),
		"balance", core.FormatAmount(core.Balance(rec)),
		"spent_percent", core.SpentPercent(rec),
		"invested", core.FormatAmount(rec.Investments.InvestedCents),
		"investment_profit", core.FormatAmount(rec.Investments.ProfitCents()))

	return nil
}
