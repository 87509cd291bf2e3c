package analysis

import (
	"fmt"
	"strings"

	"bizlens/internal/dataset"
	"bizlens/internal/models"
)

// Campaigns reports revenue distribution across marketing campaigns.
func (a *Analyzer) Campaigns(t *dataset.Table) Result {
	if !t.HasColumns(models.ColCampaignName, models.ColRevenue) {
		return Result{Text: "Campaign analysis requires 'Campaign_Name' and 'Revenue' columns in your data."}
	}

	buckets := accumulate(t.Rows(), func(tx models.Transaction) (string, bool) {
		return tx.CampaignName, tx.CampaignName != ""
	})
	if len(buckets) == 0 {
		return Result{Text: "No campaign data available for analysis."}
	}
	sortBucketsDesc(buckets, func(b *bucket) float64 { return b.revenue })

	best := buckets[0]
	total := totalRevenue(buckets)
	bestShare := 0.0
	if total > 0 {
		bestShare = best.revenue / total * 100
	}

	// Average order value per campaign: campaign revenue over its
	// transaction count.
	aov := func(b *bucket) float64 {
		if b.count == 0 {
			return 0
		}
		return round2(b.revenue / float64(b.count))
	}

	var sb strings.Builder
	sb.WriteString("## Campaign Performance Analysis\n\n")
	sb.WriteString("**Key Insights:**\n")
	fmt.Fprintf(&sb, "- **Top Campaign:** **%s** (%s - %s%% of total revenue)\n",
		best.key, formatMoney(best.revenue), formatPct(bestShare))
	fmt.Fprintf(&sb, "- **Total Campaigns:** %d\n", len(buckets))
	fmt.Fprintf(&sb, "- **Total Campaign Revenue:** %s\n\n", formatMoney(total))
	sb.WriteString("**Campaign Breakdown:**\n")
	for _, b := range buckets {
		fmt.Fprintf(&sb, "- **%s:** %s revenue, **%s** avg order value\n",
			b.key, formatMoney(b.revenue), formatMoney(aov(b)))
	}

	chart := &ChartSpec{
		Kind:   ChartPie,
		Title:  "Revenue Distribution by Campaign",
		Series: []Series{{Name: "Revenue", Points: bucketPoints(buckets, func(b *bucket) float64 { return round2(b.revenue) })}},
	}

	table := &TableData{
		Title:   "Campaign Performance",
		Columns: []string{models.ColCampaignName, "Revenue", "Units_Sold", "Profit", "Avg_Order_Value"},
		Rows:    make([][]string, 0, len(buckets)),
	}
	for _, b := range buckets {
		table.Rows = append(table.Rows, []string{
			b.key,
			fmt.Sprintf("%.2f", b.revenue),
			fmt.Sprintf("%d", b.units),
			fmt.Sprintf("%.2f", b.profit),
			fmt.Sprintf("%.2f", aov(b)),
		})
	}

	return Result{Text: sb.String(), Chart: chart, Table: table}
}
