package analysis

import (
	"fmt"
	"strings"

	"bizlens/internal/dataset"
	"bizlens/internal/models"
)

// Categories compares category revenue against margin in a bubble-style
// scatter. The highest-revenue and highest-margin categories are reported
// separately since they often differ.
func (a *Analyzer) Categories(t *dataset.Table) Result {
	if !t.HasColumns(models.ColCategory, models.ColRevenue, models.ColProfit) {
		return Result{Text: "Category analysis requires 'Category_Department', 'Revenue', and 'Profit' columns in your data."}
	}

	buckets := accumulate(t.Rows(), func(tx models.Transaction) (string, bool) {
		return tx.Category, tx.Category != ""
	})
	if len(buckets) == 0 {
		return Result{Text: "No category data available for analysis."}
	}
	sortBucketsDesc(buckets, func(b *bucket) float64 { return b.revenue })

	topRevenue := buckets[0]
	topMargin := buckets[0]
	for _, b := range buckets[1:] {
		if b.margin() > topMargin.margin() ||
			(b.margin() == topMargin.margin() && b.key < topMargin.key) {
			topMargin = b
		}
	}

	unitPrice := func(b *bucket) float64 {
		if b.units == 0 {
			return 0
		}
		return round2(b.revenue / float64(b.units))
	}

	var sb strings.Builder
	sb.WriteString("## Category Performance Analysis\n\n")
	sb.WriteString("**Key Insights:**\n")
	fmt.Fprintf(&sb, "- **Highest Revenue:** **%s** (%s)\n", topRevenue.key, formatMoney(topRevenue.revenue))
	fmt.Fprintf(&sb, "- **Highest Margin:** **%s** (%s%%)\n", topMargin.key, formatPct(topMargin.margin()))
	fmt.Fprintf(&sb, "- **Total Categories:** %d\n\n", len(buckets))
	sb.WriteString("**Category Breakdown:**\n")
	for _, b := range buckets {
		fmt.Fprintf(&sb, "- **%s:** %s revenue, %s%% margin, %s units sold\n",
			b.key, formatMoney(b.revenue), formatPct(b.margin()), formatCount(int64(b.units)))
	}

	points := make([]Point, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, Point{
			Label: b.key,
			Value: round2(b.revenue),
			Y:     b.margin(),
			Size:  float64(b.units),
		})
	}

	chart := &ChartSpec{
		Kind:       ChartScatter,
		Title:      "Category Performance: Revenue vs Profit Margin (Bubble size = Units Sold)",
		XAxis:      "Revenue ($)",
		YAxis:      "Profit Margin (%)",
		SizeBy:     models.ColUnitsSold,
		ColorBy:    "Profit_Margin",
		ColorScale: "Agsunset",
		Series:     []Series{{Name: "Categories", Points: points}},
	}

	table := &TableData{
		Title:   "Category Performance",
		Columns: []string{models.ColCategory, "Revenue", "Profit", "Units_Sold", "Profit_Margin", "Avg_Unit_Price"},
		Rows:    make([][]string, 0, len(buckets)),
	}
	for _, b := range buckets {
		table.Rows = append(table.Rows, []string{
			b.key,
			fmt.Sprintf("%.2f", b.revenue),
			fmt.Sprintf("%.2f", b.profit),
			fmt.Sprintf("%d", b.units),
			formatMargin(b.margin()),
			fmt.Sprintf("%.2f", unitPrice(b)),
		})
	}

	return Result{Text: sb.String(), Chart: chart, Table: table}
}
