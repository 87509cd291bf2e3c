package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"bizlens/internal/analysis"
	"bizlens/internal/dataset"
	"bizlens/internal/metrics"
	"bizlens/internal/models"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in the conversation transcript. Chart and Table are
// only populated on the most recent assistant turn; older turns keep
// their text but lose the payloads.
type Turn struct {
	ID    string              `json:"id"`
	Role  Role                `json:"role"`
	Text  string              `json:"text"`
	Chart *analysis.ChartSpec `json:"chart,omitempty"`
	Table *analysis.TableData `json:"table,omitempty"`
	At    time.Time           `json:"at"`
}

// Session holds the loaded table and the conversation transcript for one
// user. The table is replaced wholesale on upload; queries are read-only
// passes over it, so a single RWMutex suffices.
type Session struct {
	mu         sync.RWMutex
	table      *dataset.Table
	transcript []Turn
	analyzer   *analysis.Analyzer
	cache      *analysis.ResultCache
	logger     *slog.Logger
	questions  int64
}

func New(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		analyzer: analysis.NewAnalyzer(logger),
		cache:    analysis.NewResultCache(),
		logger:   logger,
	}
}

var ErrNoTable = fmt.Errorf("no table loaded")

// Load parses a CSV table from r and swaps it in. On failure the previous
// table stays untouched. Success clears the result cache, resets the
// transcript and seeds it with a greeting naming the record count.
func (s *Session) Load(ctx context.Context, r io.Reader) (*dataset.Table, error) {
	table, err := dataset.Load(ctx, r)
	if err != nil {
		return nil, err
	}
	s.install(table)
	return table, nil
}

// LoadFile is Load over a file path.
func (s *Session) LoadFile(ctx context.Context, path string) (*dataset.Table, error) {
	table, err := dataset.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	s.install(table)
	return table, nil
}

// SetTable installs an already-built table (e.g. freshly generated rows).
func (s *Session) SetTable(table *dataset.Table) {
	s.install(table)
}

func (s *Session) install(table *dataset.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table = table
	s.cache.Clear()
	metrics.TableLoadsTotal.Inc()
	s.transcript = []Turn{{
		ID:   uuid.NewString(),
		Role: RoleAssistant,
		Text: fmt.Sprintf("Great! I've loaded your data with %d records. What would you like to analyze? "+
			"You can use the quick questions or ask me anything about your business performance data!", table.Len()),
		At: time.Now(),
	}}

	s.logger.Info("table installed",
		"records", table.Len(),
		"columns", len(table.Columns()),
		"fingerprint", table.Fingerprint(),
	)
}

// Ask classifies the question, runs the matching analysis routine and
// appends both turns to the transcript. Identical questions against the
// same table are served from the cache.
func (s *Session) Ask(question string) (analysis.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return analysis.Result{}, ErrNoTable
	}

	result, cached := s.cache.Get(question, s.table.Fingerprint())
	if cached {
		metrics.CacheHitsTotal.Inc()
	} else {
		result = s.analyzer.Ask(question, s.table)
		s.cache.Set(question, s.table.Fingerprint(), result)
	}
	s.questions++
	metrics.QuestionsTotal.WithLabelValues(string(analysis.Classify(question))).Inc()

	s.appendTurn(Turn{
		ID:   uuid.NewString(),
		Role: RoleUser,
		Text: question,
		At:   time.Now(),
	})
	s.appendTurn(Turn{
		ID:    uuid.NewString(),
		Role:  RoleAssistant,
		Text:  result.Text,
		Chart: result.Chart,
		Table: result.Table,
		At:    time.Now(),
	})

	s.logger.Info("question answered",
		"intent", string(analysis.Classify(question)),
		"cached", cached,
		"has_chart", result.Chart != nil,
	)
	return result, nil
}

// appendTurn enforces the transcript integrity rule: before a new
// assistant turn lands, every earlier assistant turn is stripped of its
// chart/table payload. At most one turn holds a live chart.
func (s *Session) appendTurn(turn Turn) {
	if turn.Role == RoleAssistant {
		for i := range s.transcript {
			s.transcript[i].Chart = nil
			s.transcript[i].Table = nil
		}
	}
	s.transcript = append(s.transcript, turn)
}

// Transcript returns a copy of the turn list.
func (s *Session) Transcript() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Latest returns the most recent assistant turn, if any.
func (s *Session) Latest() (Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.transcript) - 1; i >= 0; i-- {
		if s.transcript[i].Role == RoleAssistant {
			return s.transcript[i], true
		}
	}
	return Turn{}, false
}

func (s *Session) Table() *dataset.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Overview is the at-a-glance dataset summary shown next to the
// conversation.
type Overview struct {
	Records      int      `json:"records"`
	TotalRevenue float64  `json:"total_revenue"`
	DateRange    string   `json:"date_range,omitempty"`
	Regions      int      `json:"regions"`
	TopRegion    string   `json:"top_region,omitempty"`
	TopCategory  string   `json:"top_category,omitempty"`
	Columns      []string `json:"columns"`
}

func (s *Session) Overview() (Overview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.table == nil {
		return Overview{}, ErrNoTable
	}

	ov := Overview{
		Records: s.table.Len(),
		Columns: s.table.Columns(),
	}

	regions := make(map[string]bool)
	for _, tx := range s.table.Rows() {
		if tx.Revenue != nil {
			ov.TotalRevenue += *tx.Revenue
		}
		if tx.Region != "" {
			regions[tx.Region] = true
		}
	}
	ov.Regions = len(regions)

	if min, max, ok := s.table.DateRange(); ok {
		ov.DateRange = fmt.Sprintf("%s to %s", min.Format("2006-01-02"), max.Format("2006-01-02"))
	}

	if s.table.HasColumns(models.ColRegion, models.ColRevenue) {
		ov.TopRegion = topByRevenue(s.table, func(tx models.Transaction) string { return tx.Region })
	}
	if s.table.HasColumns(models.ColCategory, models.ColRevenue) {
		ov.TopCategory = topByRevenue(s.table, func(tx models.Transaction) string { return tx.Category })
	}
	return ov, nil
}

func topByRevenue(t *dataset.Table, key func(models.Transaction) string) string {
	sums := make(map[string]float64)
	for _, tx := range t.Rows() {
		k := key(tx)
		if k == "" || tx.Revenue == nil {
			continue
		}
		sums[k] += *tx.Revenue
	}
	best, bestV := "", -1.0
	for k, v := range sums {
		if v > bestV || (v == bestV && k < best) {
			best, bestV = k, v
		}
	}
	return best
}

// QuickQuestion is a canned prompt offered only when the columns it needs
// are present.
type QuickQuestion struct {
	Label    string `json:"label"`
	Question string `json:"question"`
}

var quickQuestions = []struct {
	label    string
	question string
	needs    []string
}{
	{"Regional Performance", "Show me revenue performance by region", []string{models.ColRegion, models.ColRevenue}},
	{"Monthly Trends", "Show me monthly revenue trends", []string{models.ColDate, models.ColRevenue}},
	{"Profit Analysis", "Which products have the highest profit margins?", []string{models.ColProfit, models.ColRevenue}},
	{"Campaign Performance", "How do different campaigns perform?", []string{models.ColCampaignName, models.ColRevenue}},
	{"Customer Satisfaction", "Show customer satisfaction analysis", []string{models.ColSatisfaction}},
	{"Inventory Analysis", "Show inventory levels by category", []string{models.ColInventoryLevel, models.ColCategory}},
}

// Questions returns the quick questions applicable to the loaded table.
func (s *Session) Questions() []QuickQuestion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.table == nil {
		return nil
	}
	var out []QuickQuestion
	for _, q := range quickQuestions {
		if s.table.HasColumns(q.needs...) {
			out = append(out, QuickQuestion{Label: q.label, Question: q.question})
		}
	}
	return out
}

// Stats reports monitoring counters for /admin/stats.
func (s *Session) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"questions_served": s.questions,
		"cache_entries":    s.cache.Len(),
		"transcript_turns": len(s.transcript),
		"table_loaded":     s.table != nil,
	}
	if s.table != nil {
		stats["record_count"] = s.table.Len()
		stats["loaded_at"] = s.table.LoadedAt()
	}
	return stats
}
