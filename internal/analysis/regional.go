package analysis

import (
	"fmt"
	"strings"

	"bizlens/internal/dataset"
	"bizlens/internal/models"
)

// Regional reports revenue, profit and margin per region, ranked by
// revenue.
func (a *Analyzer) Regional(t *dataset.Table) Result {
	if !t.HasColumns(models.ColRegion, models.ColRevenue) {
		return Result{Text: "Regional analysis requires 'Region' and 'Revenue' columns in your data."}
	}

	buckets := accumulate(t.Rows(), func(tx models.Transaction) (string, bool) {
		return tx.Region, tx.Region != ""
	})
	if len(buckets) == 0 {
		return Result{Text: "No regional data available for analysis."}
	}
	sortBucketsDesc(buckets, func(b *bucket) float64 { return b.revenue })

	top := buckets[0]
	total := totalRevenue(buckets)
	topShare := 0.0
	if total > 0 {
		topShare = top.revenue / total * 100
	}

	var sb strings.Builder
	sb.WriteString("## Regional Performance Analysis\n\n")
	sb.WriteString("**Key Insights:**\n")
	fmt.Fprintf(&sb, "- **Top Performing Region:** **%s** (%s - %s%% of total revenue)\n",
		top.key, formatMoney(top.revenue), formatPct(topShare))
	fmt.Fprintf(&sb, "- **Total Revenue Across All Regions:** %s\n\n", formatMoney(total))
	sb.WriteString("**Detailed Breakdown:**\n")
	for _, b := range buckets {
		fmt.Fprintf(&sb, "- **%s:** %s revenue, %s%% profit margin\n",
			b.key, formatMoney(b.revenue), formatMargin(b.margin()))
	}

	chart := &ChartSpec{
		Kind:       ChartBar,
		Title:      "Revenue by Region",
		XAxis:      "Region",
		YAxis:      "Revenue ($)",
		ColorBy:    models.ColRevenue,
		ColorScale: "Blues",
		Hover:      []string{models.ColProfit, "Profit_Margin"},
		Series:     []Series{{Name: "Revenue", Points: bucketPoints(buckets, func(b *bucket) float64 { return round2(b.revenue) })}},
	}

	table := &TableData{
		Title:   "Revenue by Region",
		Columns: []string{"Region", "Revenue", "Profit", "Units_Sold", "Profit_Margin"},
		Rows:    make([][]string, 0, len(buckets)),
	}
	for _, b := range buckets {
		table.Rows = append(table.Rows, []string{
			b.key,
			fmt.Sprintf("%.2f", b.revenue),
			fmt.Sprintf("%.2f", b.profit),
			fmt.Sprintf("%d", b.units),
			formatMargin(b.margin()),
		})
	}

	return Result{Text: sb.String(), Chart: chart, Table: table}
}

func bucketPoints(buckets []*bucket, value func(*bucket) float64) []Point {
	points := make([]Point, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, Point{Label: b.key, Value: value(b)})
	}
	return points
}
