package ledger

import (
	"context"

	"github.com/mocanunicolaemarius-del/buget/internal/core"
)

// Ports for outbound adapters.
type (
	// Store persists month records and quick templates. Month records are
	// read and written whole; the last writer wins.
	Store interface {
		// LoadMonth returns the record for the key, reporting whether one
		// exists. An unreadable record is treated as absent, not an error.
		LoadMonth(ctx context.Context, key string) (*core.MonthRecord, bool, error)

		// SaveMonth replaces the record stored under the key.
		SaveMonth(ctx context.Context, key string, rec *core.MonthRecord) error

		// ListTemplates returns quick templates in their stored order.
		ListTemplates(ctx context.Context) ([]core.QuickTemplate, error)

		// UpsertTemplate inserts or overwrites the template by id.
		UpsertTemplate(ctx context.Context, tpl core.QuickTemplate) error

		// DeleteTemplate removes the template; missing ids are a no-op.
		DeleteTemplate(ctx context.Context, id string) error
	}

	// EventPublisher receives fire-and-forget change notifications after
	// each successful mutation. Publishing failures never fail the mutation.
	EventPublisher interface {
		PublishLedgerEvent(ctx context.Context, monthKey, op, entryID string) error
	}
)

// Operation names carried in ledger events.
const (
	OpEntryAdded     = "entry_added"
	OpEntryUpdated   = "entry_updated"
	OpEntryDeleted   = "entry_deleted"
	OpInvestmentsSet = "investments_set"
	OpMonthReset     = "month_reset"
	OpCarryApplied   = "carry_applied"
)
