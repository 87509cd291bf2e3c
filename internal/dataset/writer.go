package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"bizlens/internal/models"
)

// WriteCSV serializes transactions with the canonical header, one row per
// record. Nil cells (inventory for non-physical goods, coercion failures)
// are written as empty fields.
func WriteCSV(w io.Writer, rows []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, tx := range rows {
		if err := cw.Write(encodeRow(tx)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the rows to path, truncating any existing file.
func SaveCSV(path string, rows []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, rows); err != nil {
		return err
	}
	return f.Sync()
}

func encodeRow(tx models.Transaction) []string {
	return []string{
		encodeDate(tx.Date),
		tx.Region,
		tx.ProductName,
		tx.Category,
		encodeMoney(tx.Revenue),
		encodeMoney(tx.Cost),
		encodeMoney(tx.Profit),
		strconv.FormatFloat(tx.ProfitMarginPct, 'f', 2, 64),
		encodeInt(tx.UnitsSold),
		encodeInt(tx.InventoryLevel),
		strconv.FormatFloat(tx.ReturnRatePct, 'f', 3, 64),
		tx.OrderID,
		tx.CustomerID,
		tx.CustomerSegment,
		tx.CampaignName,
		strconv.FormatFloat(tx.ConversionRatePct, 'f', 3, 64),
		encodeInt(tx.SatisfactionScore),
		strconv.FormatFloat(tx.AvgOrderValue, 'f', 2, 64),
		tx.Month,
		tx.Quarter,
		strconv.Itoa(tx.Year),
		strconv.Itoa(tx.WeekNumber),
	}
}

func encodeDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format("2006-01-02")
}

func encodeMoney(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func encodeInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
