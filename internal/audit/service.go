// Package audit keeps the trail of mutating operations.
package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"inventario-backend/internal/models"
	"inventario-backend/internal/search"
	"inventario-backend/internal/store"

	"go.uber.org/zap"
)

// Sink receives a copy of every entry, e.g. a database table.
type Sink interface {
	Append(entry models.AuditEntry) error
}

type LogOptions struct {
	UserID      int
	UserName    string
	EntityType  string
	EntityKey   string
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

type Trail struct {
	entries *store.Collection[int, models.AuditEntry]
	sink    Sink
	log     *zap.Logger
	now     func() time.Time
}

func NewTrail(sink Sink, log *zap.Logger) *Trail {
	if log == nil {
		log = zap.NewNop()
	}
	return &Trail{
		entries: store.New("audit", func(e models.AuditEntry) int { return e.ID }).
			WithSequence(
				func(e *models.AuditEntry, n int) { e.ID = n },
				func(e models.AuditEntry) int { return e.ID },
			),
		sink: sink,
		log:  log,
		now:  time.Now,
	}
}

// Restore loads previously stored entries, oldest first.
func (t *Trail) Restore(entries []models.AuditEntry) {
	t.entries.Seed(entries)
}

// WriteLog appends an entry. Before and After are stored as JSON, "null"
// when absent. A failing sink is logged; the in-memory entry is kept.
func (t *Trail) WriteLog(opts LogOptions) (models.AuditEntry, error) {
	entry, err := t.entries.Create(models.AuditEntry{
		CreatedAt:   t.now(),
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityKey:   opts.EntityKey,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  encode(opts.Before),
		AfterData:   encode(opts.After),
	})
	if err != nil {
		return models.AuditEntry{}, fmt.Errorf("write audit entry: %w", err)
	}
	if t.sink != nil {
		if err := t.sink.Append(entry); err != nil {
			t.log.Warn("audit entry not stored", zap.Int("id", entry.ID), zap.Error(err))
		}
	}
	return entry, nil
}

func encode(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func (t *Trail) Entries() []models.AuditEntry { return t.entries.List() }

// HistoryFilter selects entries. Empty fields, and "Todos" for Action, match
// everything. Date is a YYYY-MM-DD day in the entry's own time zone.
type HistoryFilter struct {
	Date       string
	Action     string
	EntityType string
	EntityKey  string
	UserID     int
	Query      string
}

const AllActions = "Todos"

func (t *Trail) History(f HistoryFilter) []models.AuditEntry {
	out := []models.AuditEntry{}
	for _, e := range t.entries.List() {
		if f.Date != "" && e.CreatedAt.Format(models.DateLayout) != f.Date {
			continue
		}
		if f.Action != "" && f.Action != AllActions && string(e.Action) != f.Action {
			continue
		}
		if f.EntityType != "" && e.EntityType != f.EntityType {
			continue
		}
		if f.EntityKey != "" && e.EntityKey != f.EntityKey {
			continue
		}
		if f.UserID != 0 && e.UserID != f.UserID {
			continue
		}
		out = append(out, e)
	}
	return search.Filter(out, f.Query, models.AuditEntry.SearchFields)
}
