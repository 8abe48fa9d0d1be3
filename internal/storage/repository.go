// Package storage persists the ledger in SQLite. Month records are stored as
// whole JSON blobs keyed by month, matching the read-modify-write contract of
// the ledger; quick templates get a small ordered table of their own.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mocanunicolaemarius-del/buget/internal/core"
	applog "github.com/mocanunicolaemarius-del/buget/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadMonth implements ledger.Store. A corrupt blob is logged and treated as
// absent so the caller starts fresh instead of failing.
func (r *SQLiteRepository) LoadMonth(ctx context.Context, key string) (*core.MonthRecord, bool, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM months WHERE month_key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select month %s: %w", key, err)
	}

	var rec core.MonthRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		slog.WarnContext(ctx, "Unreadable month record, treating as absent",
			applog.FieldMonthKey, key, applog.FieldError, err)
		return nil, false, nil
	}
	if rec.Incomes == nil {
		rec.Incomes = []core.Entry{}
	}
	if rec.Expenses == nil {
		rec.Expenses = []core.Entry{}
	}
	return &rec, true, nil
}

// SaveMonth implements ledger.Store with last-writer-wins semantics.
func (r *SQLiteRepository) SaveMonth(ctx context.Context, key string, rec *core.MonthRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal month %s: %w", key, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO months (month_key, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(month_key) DO UPDATE SET
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP`,
		key, string(data))
	if err != nil {
		return fmt.Errorf("upsert month %s: %w", key, err)
	}
	return nil
}

// ListTemplates implements ledger.Store, ordered by insertion position.
func (r *SQLiteRepository) ListTemplates(ctx context.Context) ([]core.QuickTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, amount_cents, day_of_month
		FROM quick_templates
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("select templates: %w", err)
	}
	defer rows.Close()

	var out []core.QuickTemplate
	for rows.Next() {
		var t core.QuickTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.AmountCents, &t.DayOfMonth); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return out, nil
}

// UpsertTemplate implements ledger.Store. Overwriting keeps the original
// position so re-saving a template does not reorder the quick buttons.
func (r *SQLiteRepository) UpsertTemplate(ctx context.Context, tpl core.QuickTemplate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quick_templates (id, name, amount_cents, day_of_month, position)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM quick_templates))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			amount_cents = excluded.amount_cents,
			day_of_month = excluded.day_of_month`,
		tpl.ID, tpl.Name, tpl.AmountCents, tpl.DayOfMonth)
	if err != nil {
		return fmt.Errorf("upsert template %s: %w", tpl.ID, err)
	}
	return nil
}

// DeleteTemplate implements ledger.Store; missing ids are a no-op.
func (r *SQLiteRepository) DeleteTemplate(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM quick_templates WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	return nil
}
