package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bizlens/internal/models"
)

const (
	loadBatchSize = 10000
	loadWorkers   = 10
)

// Load reads a CSV table from r. The header may be any subset or superset
// of the canonical schema; unknown columns are ignored and recorded nowhere.
// Typed cells that fail coercion become nil rather than failing the load —
// only a structurally unreadable file is an error.
func Load(ctx context.Context, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	var present []string
	known := make(map[string]bool, len(models.Columns))
	for _, c := range models.Columns {
		known[c] = true
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if known[name] {
			idx[name] = i
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return nil, fmt.Errorf("no recognized columns in header")
	}

	var rows []models.Transaction
	batch := make([][]string, 0, loadBatchSize)

	flush := func() error {
		parsed, err := parseBatch(ctx, batch, idx)
		if err != nil {
			return err
		}
		rows = append(rows, parsed...)
		batch = batch[:0]
		return nil
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		batch = append(batch, record)
		if len(batch) >= loadBatchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return nil, err
		}
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows")
	}
	return NewTable(rows, present), nil
}

// LoadFile is Load over a file on disk.
func LoadFile(ctx context.Context, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Load(ctx, f)
}

func parseBatch(ctx context.Context, batch [][]string, idx map[string]int) ([]models.Transaction, error) {
	out := make([]models.Transaction, len(batch))

	var eg errgroup.Group
	eg.SetLimit(loadWorkers)
	for i, record := range batch {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			out[i] = parseRow(record, idx)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseRow(record []string, idx map[string]int) models.Transaction {
	cell := func(col string) (string, bool) {
		i, ok := idx[col]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}
	str := func(col string) string {
		v, _ := cell(col)
		return v
	}

	tx := models.Transaction{
		Region:          str(models.ColRegion),
		ProductName:     str(models.ColProductName),
		Category:        str(models.ColCategory),
		OrderID:         str(models.ColOrderID),
		CustomerID:      str(models.ColCustomerID),
		CustomerSegment: str(models.ColCustomerSegment),
		CampaignName:    str(models.ColCampaignName),
		Month:           str(models.ColMonth),
		Quarter:         str(models.ColQuarter),
	}

	if v, ok := cell(models.ColDate); ok {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			tx.Date = &d
		}
	}
	tx.Revenue = parseFloatCell(cell, models.ColRevenue)
	tx.Cost = parseFloatCell(cell, models.ColCost)
	tx.Profit = parseFloatCell(cell, models.ColProfit)
	tx.UnitsSold = parseIntCell(cell, models.ColUnitsSold)
	tx.InventoryLevel = parseIntCell(cell, models.ColInventoryLevel)
	tx.SatisfactionScore = parseIntCell(cell, models.ColSatisfaction)

	if v := parseFloatCell(cell, models.ColProfitMargin); v != nil {
		tx.ProfitMarginPct = *v
	}
	if v := parseFloatCell(cell, models.ColReturnRate); v != nil {
		tx.ReturnRatePct = *v
	}
	if v := parseFloatCell(cell, models.ColConversionRate); v != nil {
		tx.ConversionRatePct = *v
	}
	if v := parseFloatCell(cell, models.ColAvgOrderValue); v != nil {
		tx.AvgOrderValue = *v
	}
	if v := parseIntCell(cell, models.ColYear); v != nil {
		tx.Year = *v
	}
	if v := parseIntCell(cell, models.ColWeekNumber); v != nil {
		tx.WeekNumber = *v
	}

	// Calendar columns missing from the upload are derived from Date.
	if tx.Date != nil && (tx.Month == "" || tx.Quarter == "") {
		tx.DeriveCalendar()
	}
	return tx
}

func parseFloatCell(cell func(string) (string, bool), col string) *float64 {
	v, ok := cell(col)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseIntCell(cell func(string) (string, bool), col string) *int {
	v, ok := cell(col)
	if !ok || v == "" {
		return nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return &n
	}
	// Numeric exports sometimes carry integers as floats ("4200.0").
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		n := int(f)
		return &n
	}
	return nil
}
