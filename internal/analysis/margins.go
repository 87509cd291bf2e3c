package analysis

import (
	"fmt"
	"strings"

	"bizlens/internal/dataset"
	"bizlens/internal/models"
)

const marginTopN = 10

// Margins ranks products (or categories when no product column exists) by
// profit margin, not by revenue.
func (a *Analyzer) Margins(t *dataset.Table) Result {
	if !t.HasColumns(models.ColProfit, models.ColRevenue) {
		return Result{Text: "Profit analysis requires 'Profit' and 'Revenue' columns in your data."}
	}

	groupCol := models.ColProductName
	keyFn := func(tx models.Transaction) (string, bool) { return tx.ProductName, tx.ProductName != "" }
	if !t.HasColumns(models.ColProductName) {
		groupCol = models.ColCategory
		keyFn = func(tx models.Transaction) (string, bool) { return tx.Category, tx.Category != "" }
		if !t.HasColumns(models.ColCategory) {
			return Result{Text: "Profit analysis requires a 'Product_Service_Name' or 'Category_Department' column in your data."}
		}
	}

	buckets := accumulate(t.Rows(), keyFn)
	if len(buckets) == 0 {
		return Result{Text: "No profit data available for analysis."}
	}
	sortBucketsDesc(buckets, func(b *bucket) float64 { return b.margin() })

	top := buckets[0]
	var marginSum float64
	for _, b := range buckets {
		marginSum += b.margin()
	}
	avgMargin := marginSum / float64(len(buckets))

	groupLabel := strings.ReplaceAll(groupCol, "_", " ")

	var sb strings.Builder
	sb.WriteString("## Profit Margin Analysis\n\n")
	sb.WriteString("**Key Insights:**\n")
	fmt.Fprintf(&sb, "- **Highest Margin:** **%s** (%s%%)\n", top.key, formatMargin(top.margin()))
	fmt.Fprintf(&sb, "- **Average Margin:** %s%%\n", formatPct(avgMargin))
	sb.WriteString("- **Focus:** Analyze high-margin products to understand cost structures and pricing strategies.\n\n")
	sb.WriteString("**Top 5 Performers:**\n")
	for i, b := range buckets {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&sb, "%d. **%s:** %s%% margin (%s revenue)\n",
			i+1, b.key, formatMargin(b.margin()), formatMoney(b.revenue))
	}

	ranked := buckets
	if len(ranked) > marginTopN {
		ranked = ranked[:marginTopN]
	}

	chart := &ChartSpec{
		Kind:       ChartBar,
		Title:      fmt.Sprintf("Top %d %s by Profit Margin", marginTopN, groupLabel),
		XAxis:      "Profit Margin (%)",
		YAxis:      groupLabel,
		Horizontal: true,
		ColorBy:    "Profit_Margin",
		ColorScale: "Greens",
		Series:     []Series{{Name: "Profit Margin", Points: bucketPoints(ranked, func(b *bucket) float64 { return b.margin() })}},
	}

	table := &TableData{
		Title:   fmt.Sprintf("Profit Margin by %s", groupLabel),
		Columns: []string{groupCol, "Revenue", "Profit", "Units_Sold", "Profit_Margin"},
		Rows:    make([][]string, 0, len(ranked)),
	}
	for _, b := range ranked {
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
