package analysis

import (
	"fmt"
	"sort"
	"strings"

	"bizlens/internal/dataset"
	"bizlens/internal/models"
)

// Monthly reports the revenue trend by calendar month, including
// month-over-month growth for every month with a predecessor.
func (a *Analyzer) Monthly(t *dataset.Table) Result {
	if !t.HasColumns(models.ColDate, models.ColRevenue) {
		return Result{Text: "Monthly trend analysis requires 'Date' (datetime format) and 'Revenue' columns in your data."}
	}

	buckets := accumulate(t.Rows(), func(tx models.Transaction) (string, bool) {
		if tx.Date == nil {
			return "", false
		}
		return tx.Date.Format("2006-01"), true
	})
	if len(buckets) == 0 {
		return Result{Text: "No dated records available for monthly trend analysis."}
	}

	// Chronological: "YYYY-MM" keys sort lexically.
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].key < buckets[j].key })

	growth := make([]float64, len(buckets))
	hasGrowth := make([]bool, len(buckets))
	for i := 1; i < len(buckets); i++ {
		prev := buckets[i-1].revenue
		if prev != 0 {
			growth[i] = (buckets[i].revenue - prev) / prev * 100
			hasGrowth[i] = true
		}
	}

	latest := buckets[len(buckets)-1]
	latestGrowth := growth[len(buckets)-1]

	best := buckets[0]
	for _, b := range buckets[1:] {
		if b.revenue > best.revenue {
			best = b
		}
	}

	var total float64
	for _, b := range buckets {
		total += b.revenue
	}
	avg := total / float64(len(buckets))

	var sb strings.Builder
	sb.WriteString("## Monthly Revenue Trends Analysis\n\n")
	sb.WriteString("**Key Insights:**\n")
	fmt.Fprintf(&sb, "- **Latest Month (%s):** **%s**\n", latest.key, formatMoney(latest.revenue))
	fmt.Fprintf(&sb, "- **Month-over-Month Growth:** %s%%\n", formatPct(latestGrowth))
	fmt.Fprintf(&sb, "- **Best Performing Month:** %s (%s)\n", best.key, formatMoney(best.revenue))
	fmt.Fprintf(&sb, "- **Average Monthly Revenue:** %s\n\n", formatMoney(avg))
	sb.WriteString("**Trend Analysis:**\n")
	sb.WriteString("The chart shows your revenue progression over time. Look for seasonal patterns and growth opportunities.\n")

	chart := &ChartSpec{
		Kind:   ChartLine,
		Title:  "Monthly Revenue Trends",
		XAxis:  "Month",
		YAxis:  "Revenue ($)",
		Series: []Series{{Name: "Revenue", Points: bucketPoints(buckets, func(b *bucket) float64 { return round2(b.revenue) })}},
	}

	table := &TableData{
		Title:   "Monthly Revenue",
		Columns: []string{"Month", "Revenue", "Units_Sold", "Profit", "Revenue_Growth"},
		Rows:    make([][]string, 0, len(buckets)),
	}
	for i, b := range buckets {
		g := ""
		if hasGrowth[i] {
			g = formatPct(growth[i])
		}
		table.Rows = append(table.Rows, []string{
			b.key,
			fmt.Sprintf("%.2f", b.revenue),
			fmt.Sprintf("%d", b.units),
			fmt.Sprintf("%.2f", b.profit),
			g,
		})
	}

	return Result{Text: sb.String(), Chart: chart, Table: table}
}
