package dataset

import (
	"time"

	"github.com/google/uuid"

	"bizlens/internal/models"
)

// Table is an immutable, ordered collection of transactions plus the set
// of columns that were actually present in the source. Analysis routines
// consult HasColumns before touching a field; uploads may carry a subset
// of the canonical schema.
type Table struct {
	id      string
	columns map[string]bool
	rows    []models.Transaction
	loaded  time.Time
}

// NewTable builds a table over rows with the given present columns.
// Each table gets a fresh identity; caches keyed on Fingerprint are
// implicitly invalidated when the table is replaced wholesale.
func NewTable(rows []models.Transaction, columns []string) *Table {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	return &Table{
		id:      uuid.NewString(),
		columns: set,
		rows:    rows,
		loaded:  time.Now(),
	}
}

func (t *Table) Rows() []models.Transaction { return t.rows }

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) LoadedAt() time.Time { return t.loaded }

// Fingerprint identifies this table instance. A new upload produces a new
// fingerprint, so cache entries keyed on it can never serve stale results.
func (t *Table) Fingerprint() string { return t.id }

func (t *Table) HasColumns(cols ...string) bool {
	for _, c := range cols {
		if !t.columns[c] {
			return false
		}
	}
	return true
}

// Columns returns the present columns in canonical header order.
func (t *Table) Columns() []string {
	out := make([]string, 0, len(t.columns))
	for _, c := range models.Columns {
		if t.columns[c] {
			out = append(out, c)
		}
	}
	return out
}

// DateRange returns the earliest and latest non-null dates.
func (t *Table) DateRange() (min, max time.Time, ok bool) {
	for _, r := range t.rows {
		if r.Date == nil {
			continue
		}
		d := *r.Date
		if !ok {
			min, max, ok = d, d, true
			continue
		}
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min, max, ok
}
