package analysis

import (
	"fmt"
	"strings"

	"bizlens/internal/dataset"
	"bizlens/internal/models"
)

// Summary reports dataset-wide totals plus the single best region and
// category by revenue. It never attaches a chart.
func (a *Analyzer) Summary(t *dataset.Table) Result {
	var totalRevenue, totalProfit float64
	var totalUnits int64
	for _, tx := range t.Rows() {
		if tx.Revenue != nil {
			totalRevenue += *tx.Revenue
		}
		if tx.Profit != nil {
			totalProfit += *tx.Profit
		}
		if tx.UnitsSold != nil {
			totalUnits += int64(*tx.UnitsSold)
		}
	}

	overallMargin := 0.0
	if totalRevenue > 0 {
		overallMargin = totalProfit / totalRevenue * 100
	}

	dateRange := "Date information not available"
	if t.HasColumns(models.ColDate) {
		if min, max, ok := t.DateRange(); ok {
			dateRange = fmt.Sprintf("%s to %s", min.Format("2006-01-02"), max.Format("2006-01-02"))
		}
	}

	topRegion := "N/A"
	if t.HasColumns(models.ColRegion, models.ColRevenue) {
		if key, ok := topRevenueKey(t, func(tx models.Transaction) (string, bool) {
			return tx.Region, tx.Region != ""
		}); ok {
			topRegion = key
		}
	}

	topCategory := "N/A"
	if t.HasColumns(models.ColCategory, models.ColRevenue) {
		if key, ok := topRevenueKey(t, func(tx models.Transaction) (string, bool) {
			return tx.Category, tx.Category != ""
		}); ok {
			topCategory = key
		}
	}

	var sb strings.Builder
	sb.WriteString("## Business Performance Summary\n\n")
	sb.WriteString("**Overall Performance:**\n")
	fmt.Fprintf(&sb, "- **Total Revenue:** **%s**\n", formatMoney(totalRevenue))
	fmt.Fprintf(&sb, "- **Total Profit:** **%s**\n", formatMoney(totalProfit))
	fmt.Fprintf(&sb, "- **Overall Profit Margin:** **%s%%**\n", formatPct(overallMargin))
	fmt.Fprintf(&sb, "- **Total Units Sold:** %s\n", formatCount(totalUnits))
	fmt.Fprintf(&sb, "- **Total Records:** %s\n", formatCount(int64(t.Len())))
	fmt.Fprintf(&sb, "- **Date Range:** %s\n\n", dateRange)
	sb.WriteString("**Top Performers:**\n")
	fmt.Fprintf(&sb, "- **Best Revenue-Generating Region:** %s\n", topRegion)
	fmt.Fprintf(&sb, "- **Best Revenue-Generating Category:** %s\n\n", topCategory)
	sb.WriteString("**Next Steps:**\n")
	sb.WriteString("Ask me specific questions about regional performance, monthly trends, profit margins, " +
		"campaign effectiveness, customer satisfaction, or inventory levels for deeper insights!\n")

	return Result{Text: sb.String()}
}

// topRevenueKey returns the group key with the highest revenue sum, ties
// broken by key ascending.
func topRevenueKey(t *dataset.Table, keyFn func(models.Transaction) (string, bool)) (string, bool) {
	buckets := accumulate(t.Rows(), keyFn)
	if len(buckets) == 0 {
		return "", false
	}
	sortBucketsDesc(buckets, func(b *bucket) float64 { return b.revenue })
	return buckets[0].key, true
}
