package session

import (
	"context"
	"strings"
	"testing"

	"bizlens/internal/dataset"
	"bizlens/internal/models"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func regionalTable() *dataset.Table {
	return dataset.NewTable([]models.Transaction{
		{Region: "North", Revenue: fptr(300), Profit: fptr(60)},
		{Region: "South", Revenue: fptr(100), Profit: fptr(20)},
	}, []string{models.ColRegion, models.ColRevenue, models.ColProfit})
}

func TestAskWithoutTable(t *testing.T) {
	s := New(nil)
	if _, err := s.Ask("show regions"); err != ErrNoTable {
		t.Fatalf("expected ErrNoTable, got %v", err)
	}
}

func TestSetTableSeedsGreeting(t *testing.T) {
	s := New(nil)
	s.SetTable(regionalTable())

	transcript := s.Transcript()
	if len(transcript) != 1 {
		t.Fatalf("expected 1 greeting turn, got %d", len(transcript))
	}
	greeting := transcript[0]
	if greeting.Role != RoleAssistant {
		t.Errorf("greeting should be an assistant turn, got %q", greeting.Role)
	}
	if !strings.Contains(greeting.Text, "2 records") {
		t.Errorf("greeting should name the record count, got %q", greeting.Text)
	}
}

func TestAskAppendsTurns(t *testing.T) {
	s := New(nil)
	s.SetTable(regionalTable())

	result, err := s.Ask("Show me revenue performance by region")
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if result.Chart == nil {
		t.Fatal("regional answer should carry a chart")
	}

	transcript := s.Transcript()
	if len(transcript) != 3 {
		t.Fatalf("expected greeting + user + assistant, got %d turns", len(transcript))
	}
	if transcript[1].Role != RoleUser || transcript[1].Text != "Show me revenue performance by region" {
		t.Errorf("unexpected user turn: %+v", transcript[1])
	}
	if transcript[2].Role != RoleAssistant || transcript[2].Chart == nil {
		t.Errorf("assistant turn should carry the chart: %+v", transcript[2])
	}
}

// Only the most recent assistant turn may hold a chart or table; earlier
// turns are stripped down to their text.
func TestTranscriptStripsOldPayloads(t *testing.T) {
	s := New(nil)
	s.SetTable(regionalTable())

	if _, err := s.Ask("Show me revenue performance by region"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Ask("Which products have the highest profit margins?"); err != nil {
		t.Fatal(err)
	}

	transcript := s.Transcript()
	withPayload := 0
	for _, turn := range transcript {
		if turn.Chart != nil || turn.Table != nil {
			withPayload++
		}
	}
	if withPayload != 1 {
		t.Errorf("expected exactly 1 turn with a payload, got %d", withPayload)
	}
	last := transcript[len(transcript)-1]
	if last.Chart == nil && last.Table == nil {
		t.Error("the latest assistant turn should keep its payload")
	}
}

func TestAskCachesRepeatQuestions(t *testing.T) {
	s := New(nil)
	s.SetTable(regionalTable())

	first, err := s.Ask("show regions")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Ask("show regions")
	if err != nil {
		t.Fatal(err)
	}
	if first.Text != second.Text {
		t.Error("repeated question should return the identical answer")
	}

	stats := s.Stats()
	if stats["cache_entries"] != 1 {
		t.Errorf("expected 1 cache entry, got %v", stats["cache_entries"])
	}
	if stats["questions_served"] != int64(2) {
		t.Errorf("expected 2 questions served, got %v", stats["questions_served"])
	}
}

func TestNewTableResetsCacheAndTranscript(t *testing.T) {
	s := New(nil)
	s.SetTable(regionalTable())
	if _, err := s.Ask("show regions"); err != nil {
		t.Fatal(err)
	}

	s.SetTable(regionalTable())

	if got := s.Stats()["cache_entries"]; got != 0 {
		t.Errorf("table swap should clear the cache, got %v entries", got)
	}
	if turns := s.Transcript(); len(turns) != 1 {
		t.Errorf("table swap should reset the transcript to the greeting, got %d turns", len(turns))
	}
}

func TestLoadFromCSV(t *testing.T) {
	csvData := "Region,Revenue\nNorth,100.00\nSouth,200.00\n"

	s := New(nil)
	table, err := s.Load(context.Background(), strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", table.Len())
	}

	// Bad input must not disturb the installed table.
	if _, err := s.Load(context.Background(), strings.NewReader("Foo\nbar\n")); err == nil {
		t.Fatal("expected error for unrecognized header")
	}
	if s.Table() == nil || s.Table().Len() != 2 {
		t.Error("failed load should leave the previous table in place")
	}
}

func TestOverview(t *testing.T) {
	s := New(nil)
	if _, err := s.Overview(); err != ErrNoTable {
		t.Fatalf("expected ErrNoTable, got %v", err)
	}

	s.SetTable(regionalTable())
	ov, err := s.Overview()
	if err != nil {
		t.Fatal(err)
	}
	if ov.Records != 2 {
		t.Errorf("expected 2 records, got %d", ov.Records)
	}
	if ov.TotalRevenue != 400 {
		t.Errorf("expected revenue 400, got %f", ov.TotalRevenue)
	}
	if ov.Regions != 2 {
		t.Errorf("expected 2 regions, got %d", ov.Regions)
	}
	if ov.TopRegion != "North" {
		t.Errorf("expected top region North, got %q", ov.TopRegion)
	}
	if ov.TopCategory != "" {
		t.Errorf("no category column, expected empty top category, got %q", ov.TopCategory)
	}
}

func TestQuestionsGatedByColumns(t *testing.T) {
	s := New(nil)
	if qs := s.Questions(); qs != nil {
		t.Errorf("no table loaded, expected nil questions, got %v", qs)
	}

	s.SetTable(regionalTable())
	qs := s.Questions()
	if len(qs) != 2 {
		t.Fatalf("expected regional and profit questions only, got %d: %v", len(qs), qs)
	}
	if qs[0].Label != "Regional Performance" || qs[1].Label != "Profit Analysis" {
		t.Errorf("unexpected questions: %v", qs)
	}
}
