package analysis

import (
	"fmt"
	"strings"

	"bizlens/internal/dataset"
	"bizlens/internal/models"
)

// Inventory reports stock levels per category for rows that carry
// inventory, flagging everything at or below the 25th-percentile level
// as low-stock risk.
func (a *Analyzer) Inventory(t *dataset.Table) Result {
	if !t.HasColumns(models.ColInventoryLevel, models.ColCategory) {
		return Result{Text: "Inventory analysis requires 'Inventory_Level' and 'Category_Department' columns in your data."}
	}

	var levels []float64
	for _, tx := range t.Rows() {
		if tx.InventoryLevel != nil {
			levels = append(levels, float64(*tx.InventoryLevel))
		}
	}
	if len(levels) == 0 {
		return Result{Text: "No inventory data available for analysis."}
	}

	threshold := percentile(levels, 0.25)
	lowStock := 0
	var levelSum float64
	for _, v := range levels {
		levelSum += v
		if v <= threshold {
			lowStock++
		}
	}
	avgLevel := levelSum / float64(len(levels))

	buckets := accumulate(t.Rows(), func(tx models.Transaction) (string, bool) {
		return tx.Category, tx.Category != "" && tx.InventoryLevel != nil
	})
	sortBucketsDesc(buckets, func(b *bucket) float64 { return b.invSum })

	var sb strings.Builder
	sb.WriteString("## Inventory Analysis\n\n")
	sb.WriteString("**Overall Insights:**\n")
	fmt.Fprintf(&sb, "- **Total Products with Inventory:** %s\n", formatCount(int64(len(levels))))
	fmt.Fprintf(&sb, "- **Average Inventory Level:** **%s** units\n", formatCount(int64(avgLevel+0.5)))
	fmt.Fprintf(&sb, "- **Low Stock Risk:** %s items are below the 25th percentile threshold of **%.0f units**.\n\n",
		formatCount(int64(lowStock)), threshold)
	sb.WriteString("**By Category:**\n")
	for _, b := range buckets {
		avg := 0.0
		if b.invN > 0 {
			avg = b.invSum / float64(b.invN)
		}
		fmt.Fprintf(&sb, "- **%s:** %s total units, %s avg per product (%d products)\n",
			b.key, formatCount(int64(b.invSum+0.5)), formatCount(int64(avg+0.5)), b.invN)
	}

	chart := &ChartSpec{
		Kind:       ChartBar,
		Title:      "Total Inventory by Category",
		XAxis:      "Category",
		YAxis:      "Total Inventory Units",
		ColorBy:    "Total_Inventory",
		ColorScale: "Blues",
		Series:     []Series{{Name: "Total Inventory", Points: bucketPoints(buckets, func(b *bucket) float64 { return b.invSum })}},
	}

	table := &TableData{
		Title:   "Inventory by Category",
		Columns: []string{models.ColCategory, "Avg_Inventory", "Total_Inventory", "Product_Count"},
		Rows:    make([][]string, 0, len(buckets)),
	}
	for _, b := range buckets {
		avg := 0.0
		if b.invN > 0 {
			avg = b.invSum / float64(b.invN)
		}
		table.Rows = append(table.Rows, []string{
			b.key,
			fmt.Sprintf("%.0f", avg),
			fmt.Sprintf("%.0f", b.invSum),
			fmt.Sprintf("%d", b.invN),
		})
	}

	return Result{Text: sb.String(), Chart: chart, Table: table}
}
