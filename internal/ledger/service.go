// Package ledger implements the monthly ledger: get-or-create months,
// carry-over of positive balances, entry mutations, investment snapshots and
// quick templates. All operations run on one serialized timeline so the
// load-mutate-save contract of the store cannot lose updates.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mocanunicolaemarius-del/buget/internal/core"
	applog "github.com/mocanunicolaemarius-del/buget/internal/log"
)

// ErrTemplateNotFound is returned when applying a quick template whose id is
// no longer stored.
var ErrTemplateNotFound = errors.New("quick template not found")

// Service orchestrates ledger operations over a Store, optionally publishing
// change events after each successful mutation.
type Service struct {
	mu     sync.Mutex
	store  Store
	events EventPublisher

	now   func() time.Time
	newID func() string
}

func NewService(store Store, events EventPublisher) *Service {
	return &Service{
		store:  store,
		events: events,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// GetOrCreateMonth returns the record for the key, creating and persisting a
// zero-valued one when absent. Safe to call repeatedly.
func (s *Service) GetOrCreateMonth(ctx context.Context, key string) (*core.MonthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(ctx, key)
}

// ApplyCarryOverIfNeeded injects the predecessor month's strictly positive
// balance into rec as a synthetic income, exactly once per month transition.
// The transition is marked processed even when nothing is injected.
func (s *Service) ApplyCarryOverIfNeeded(ctx context.Context, key string, rec *core.MonthRecord) (*core.MonthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyCarryOverLocked(ctx, key, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// OpenMonth is the first access of a session: get-or-create plus carry-over,
// before any aggregation or rendering.
func (s *Service) OpenMonth(ctx context.Context, key string) (*core.MonthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.getOrCreateLocked(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.applyCarryOverLocked(ctx, key, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AddEntry appends a new entry with a fresh id and timestamp, persists the
// record and returns the entry.
func (s *Service) AddEntry(ctx context.Context, key string, rec *core.MonthRecord, kind core.EntryKind, name string, amountCents int64, dateISO string) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addEntryLocked(ctx, key, rec, kind, name, amountCents, dateISO)
}

// EditEntry replaces name, amount and date of the matching entry in place.
// An empty new name keeps the old one; a missing id is a silent no-op.
func (s *Service) EditEntry(ctx context.Context, key string, rec *core.MonthRecord, kind core.EntryKind, id, newName string, newAmountCents int64, newDateISO string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := kind.Validate(); err != nil {
		return err
	}
	e := rec.Find(kind, id)
	if e == nil {
		slog.DebugContext(ctx, "Edit of missing entry ignored",
			applog.FieldOperation, applog.OpEdit,
			applog.FieldMonthKey, key,
			applog.FieldEntryID, id)
		return nil
	}
	if name := strings.TrimSpace(newName); name != "" {
		e.Name = name
	}
	e.AmountCents = newAmountCents
	e.DateISO = newDateISO
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.store.SaveMonth(ctx, key, rec); err != nil {
		return fmt.Errorf("save month %s: %w", key, err)
	}
	s.publish(ctx, key, OpEntryUpdated, id)
	return nil
}

// DeleteEntry removes the matching entry. A missing id is a silent no-op and
// does not touch the store.
func (s *Service) DeleteEntry(ctx context.Context, key string, rec *core.MonthRecord, kind core.EntryKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := kind.Validate(); err != nil {
		return err
	}
	if !rec.Remove(kind, id) {
		slog.DebugContext(ctx, "Delete of missing entry ignored",
			applog.FieldOperation, applog.OpDelete,
			applog.FieldMonthKey, key,
			applog.FieldEntryID, id)
		return nil
	}
	if err := s.store.SaveMonth(ctx, key, rec); err != nil {
		return fmt.Errorf("save month %s: %w", key, err)
	}
	s.publish(ctx, key, OpEntryDeleted, id)
	return nil
}

// SetInvestmentSnapshot replaces the month's snapshot wholesale.
func (s *Service) SetInvestmentSnapshot(ctx context.Context, key string, rec *core.MonthRecord, investedCents, totalCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := core.InvestmentSnapshot{InvestedCents: investedCents, TotalCents: totalCents}
	if err := snap.Validate(); err != nil {
		return err
	}
	rec.Investments = snap
	if err := s.store.SaveMonth(ctx, key, rec); err != nil {
		return fmt.Errorf("save month %s: %w", key, err)
	}
	slog.InfoContext(ctx, "Investment snapshot updated",
		applog.FieldOperation, applog.OpInvest,
		applog.FieldMonthKey, key)
	s.publish(ctx, key, OpInvestmentsSet, "")
	return nil
}

// ResetMonth replaces the month with a fresh zero-valued record, then re-runs
// carry-over so a reset month still receives its predecessor's surplus.
func (s *Service) ResetMonth(ctx context.Context, key string) (*core.MonthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := core.NewMonthRecord()
	if err := s.store.SaveMonth(ctx, key, rec); err != nil {
		return nil, fmt.Errorf("save month %s: %w", key, err)
	}
	if err := s.applyCarryOverLocked(ctx, key, rec); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Month reset",
		applog.FieldOperation, applog.OpReset,
		applog.FieldMonthKey, key,
		applog.FieldCarryFrom, rec.CarryAppliedFrom)
	s.publish(ctx, key, OpMonthReset, "")
	return rec, nil
}

// QuickTemplates lists stored templates in order.
func (s *Service) QuickTemplates(ctx context.Context) ([]core.QuickTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListTemplates(ctx)
}

// SaveQuickTemplate stores the template under its name-derived id, so saving
// the same name again overwrites rather than duplicates.
func (s *Service) SaveQuickTemplate(ctx context.Context, name string, amountCents int64, dayOfMonth int) (core.QuickTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tpl := core.QuickTemplate{
		ID:          core.TemplateID(name),
		Name:        strings.TrimSpace(name),
		AmountCents: amountCents,
		DayOfMonth:  dayOfMonth,
	}
	if err := tpl.Validate(); err != nil {
		return core.QuickTemplate{}, err
	}
	if err := s.store.UpsertTemplate(ctx, tpl); err != nil {
		return core.QuickTemplate{}, fmt.Errorf("upsert template %s: %w", tpl.ID, err)
	}
	slog.InfoContext(ctx, "Quick template saved",
		applog.FieldOperation, applog.OpTemplate,
		applog.FieldTemplateID, tpl.ID,
		applog.FieldAmountCents, tpl.AmountCents)
	return tpl, nil
}

// DeleteQuickTemplate removes the template; missing ids are a no-op.
func (s *Service) DeleteQuickTemplate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.DeleteTemplate(ctx, id)
}

// ApplyQuickTemplate instantiates the template as a new expense in the given
// month, dated at the template's day clamped to the month length.
func (s *Service) ApplyQuickTemplate(ctx context.Context, key string, rec *core.MonthRecord, templateID string) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	templates, err := s.store.ListTemplates(ctx)
	if err != nil {
		return core.Entry{}, fmt.Errorf("list templates: %w", err)
	}
	for _, tpl := range templates {
		if tpl.ID != templateID {
			continue
		}
		dateISO, err := core.ClampDayToMonth(key, tpl.DayOfMonth)
		if err != nil {
			return core.Entry{}, err
		}
		return s.addEntryLocked(ctx, key, rec, core.Expense, tpl.Name, tpl.AmountCents, dateISO)
	}
	return core.Entry{}, ErrTemplateNotFound
}

func (s *Service) getOrCreateLocked(ctx context.Context, key string) (*core.MonthRecord, error) {
	rec, ok, err := s.store.LoadMonth(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load month %s: %w", key, err)
	}
	if ok {
		return rec, nil
	}
	rec = core.NewMonthRecord()
	if err := s.store.SaveMonth(ctx, key, rec); err != nil {
		return nil, fmt.Errorf("save month %s: %w", key, err)
	}
	return rec, nil
}

func (s *Service) applyCarryOverLocked(ctx context.Context, key string, rec *core.MonthRecord) error {
	prevKey, err := core.PreviousMonthKey(key)
	if err != nil {
		return err
	}
	if rec.CarryAppliedFrom == prevKey {
		return nil
	}
	prev, err := s.getOrCreateLocked(ctx, prevKey)
	if err != nil {
		return err
	}
	balance := core.Balance(prev)
	// Only a surplus moves forward, never a deficit.
	if balance > 0 && rec.Find(core.Income, core.CarryEntryID(prevKey)) == nil {
		rec.Incomes = append(rec.Incomes, core.Entry{
			ID:          core.CarryEntryID(prevKey),
			Name:        core.CarryEntryName,
			AmountCents: balance,
			DateISO:     key + "-01",
			CreatedAt:   s.now().UnixMilli(),
		})
		slog.InfoContext(ctx, "Carry-over applied",
			applog.FieldOperation, applog.OpCarry,
			applog.FieldMonthKey, key,
			applog.FieldCarryFrom, prevKey,
			applog.FieldAmountCents, balance)
	}
	// Mark the transition processed even with nothing injected.
	rec.CarryAppliedFrom = prevKey
	if err := s.store.SaveMonth(ctx, key, rec); err != nil {
		return fmt.Errorf("save month %s: %w", key, err)
	}
	s.publish(ctx, key, OpCarryApplied, core.CarryEntryID(prevKey))
	return nil
}

func (s *Service) addEntryLocked(ctx context.Context, key string, rec *core.MonthRecord, kind core.EntryKind, name string, amountCents int64, dateISO string) (core.Entry, error) {
	if err := kind.Validate(); err != nil {
		return core.Entry{}, err
	}
	e := core.Entry{
		ID:          s.newID(),
		Name:        strings.TrimSpace(name),
		AmountCents: amountCents,
		DateISO:     dateISO,
		CreatedAt:   s.now().UnixMilli(),
	}
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}
	rec.Append(kind, e)
	if err := s.store.SaveMonth(ctx, key, rec); err != nil {
		return core.Entry{}, fmt.Errorf("save month %s: %w", key, err)
	}
	slog.InfoContext(ctx, "Entry added",
		applog.FieldOperation, applog.OpAdd,
		applog.FieldMonthKey, key,
		applog.FieldEntryKind, string(kind),
		applog.FieldEntryID, e.ID,
		applog.FieldAmountCents, e.AmountCents)
	s.publish(ctx, key, OpEntryAdded, e.ID)
	return e, nil
}

// publish sends a change event when a publisher is configured. Failures are
// logged and swallowed: the mutation already succeeded locally.
func (s *Service) publish(ctx context.Context, key, op, entryID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, key, op, entryID); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger event",
			applog.FieldMonthKey, key,
			applog.FieldOperation, op,
			applog.FieldError, err)
	}
}
