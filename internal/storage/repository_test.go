package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mocanunicolaemarius-del/buget/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "buget.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestLoadMonthAbsent(t *testing.T) {
	repo := newTestRepo(t)
	rec, ok, err := repo.LoadMonth(context.Background(), "2026-07")
	if err != nil {
		t.Fatalf("LoadMonth: %v", err)
	}
	if ok || rec != nil {
		t.Fatalf("expected absent month, got ok=%v rec=%v", ok, rec)
	}
}

func TestSaveAndLoadMonth(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := core.NewMonthRecord()
	rec.Incomes = append(rec.Incomes, core.Entry{
		ID: "a", Name: "Salariu", AmountCents: 850000, DateISO: "2026-07-01", CreatedAt: 1234,
	})
	rec.Expenses = append(rec.Expenses, core.Entry{
		ID: "b", Name: "Chirie", AmountCents: 120000, DateISO: "2026-07-03", CreatedAt: 1235,
	})
	rec.Investments = core.InvestmentSnapshot{InvestedCents: 300000, TotalCents: 325550}
	rec.CarryAppliedFrom = "2026-06"

	if err := repo.SaveMonth(ctx, "2026-07", rec); err != nil {
		t.Fatalf("SaveMonth: %v", err)
	}

	got, ok, err := repo.LoadMonth(ctx, "2026-07")
	if err != nil || !ok {
		t.Fatalf("LoadMonth: ok=%v err=%v", ok, err)
	}
	if len(got.Incomes) != 1 || got.Incomes[0].Name != "Salariu" {
		t.Fatalf("incomes lost: %+v", got.Incomes)
	}
	if got.Investments.TotalCents != 325550 {
		t.Fatalf("investments lost: %+v", got.Investments)
	}
	if got.CarryAppliedFrom != "2026-06" {
		t.Fatalf("carry marker lost: %q", got.CarryAppliedFrom)
	}
	if got.Incomes[0].CreatedAt != 1234 {
		t.Fatalf("createdAt lost: %d", got.Incomes[0].CreatedAt)
	}
}

func TestSaveMonthLastWriterWins(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := core.NewMonthRecord()
	first.Incomes = append(first.Incomes, core.Entry{ID: "a", Name: "x", AmountCents: 1, DateISO: "2026-07-01"})
	if err := repo.SaveMonth(ctx, "2026-07", first); err != nil {
		t.Fatalf("SaveMonth: %v", err)
	}

	second := core.NewMonthRecord()
	if err := repo.SaveMonth(ctx, "2026-07", second); err != nil {
		t.Fatalf("SaveMonth: %v", err)
	}

	got, ok, err := repo.LoadMonth(ctx, "2026-07")
	if err != nil || !ok {
		t.Fatalf("LoadMonth: ok=%v err=%v", ok, err)
	}
	if len(got.Incomes) != 0 {
		t.Fatalf("second write did not replace the record: %v", got.Incomes)
	}
}

func TestCorruptMonthTreatedAsAbsent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.db.ExecContext(ctx,
		`INSERT INTO months (month_key, data) VALUES (?, ?)`,
		"2026-07", "{not json"); err != nil {
		t.Fatalf("insert corrupt blob: %v", err)
	}

	rec, ok, err := repo.LoadMonth(ctx, "2026-07")
	if err != nil {
		t.Fatalf("corrupt blob must not error: %v", err)
	}
	if ok || rec != nil {
		t.Fatalf("corrupt blob must read as absent, got ok=%v", ok)
	}
}

func TestQuickTemplateRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, tpl := range []core.QuickTemplate{
		{ID: "chirie", Name: "Chirie", AmountCents: 120000, DayOfMonth: 1},
		{ID: "sala", Name: "Sala", AmountCents: 15000, DayOfMonth: 15},
	} {
		if err := repo.UpsertTemplate(ctx, tpl); err != nil {
			t.Fatalf("UpsertTemplate(%s): %v", tpl.ID, err)
		}
	}

	// Overwrite keeps the original position.
	if err := repo.UpsertTemplate(ctx, core.QuickTemplate{
		ID: "chirie", Name: "Chirie", AmountCents: 125000, DayOfMonth: 2,
	}); err != nil {
		t.Fatalf("UpsertTemplate overwrite: %v", err)
	}

	templates, err := repo.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(templates))
	}
	if templates[0].ID != "chirie" || templates[0].AmountCents != 125000 || templates[0].DayOfMonth != 2 {
		t.Fatalf("overwrite lost data or order: %+v", templates[0])
	}
	if templates[1].ID != "sala" {
		t.Fatalf("order lost: %+v", templates)
	}

	if err := repo.DeleteTemplate(ctx, "chirie"); err != nil {
		t.Fatalf("DeleteTemplate: %v", err)
	}
	if err := repo.DeleteTemplate(ctx, "chirie"); err != nil {
		t.Fatalf("repeated delete must be a no-op: %v", err)
	}
	templates, _ = repo.ListTemplates(ctx)
	if len(templates) != 1 || templates[0].ID != "sala" {
		t.Fatalf("delete result: %+v", templates)
	}
}
