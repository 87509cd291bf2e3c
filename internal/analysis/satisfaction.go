package analysis

import (
	"fmt"
	"strings"

	"bizlens/internal/dataset"
	"bizlens/internal/models"
)

// Satisfaction reports average customer satisfaction, broken down by
// region when a region column exists, otherwise as a score histogram.
func (a *Analyzer) Satisfaction(t *dataset.Table) Result {
	if !t.HasColumns(models.ColSatisfaction) {
		return Result{Text: "Customer satisfaction analysis requires a 'Customer_Satisfaction_Score' column (0-5 scale) in your data."}
	}

	var scoreSum float64
	var scoreN int
	for _, tx := range t.Rows() {
		if tx.SatisfactionScore != nil {
			scoreSum += float64(*tx.SatisfactionScore)
			scoreN++
		}
	}
	if scoreN == 0 {
		return Result{Text: "No satisfaction scores available for analysis."}
	}
	overallAvg := scoreSum / float64(scoreN)

	if t.HasColumns(models.ColRegion) {
		return a.satisfactionByRegion(t, overallAvg)
	}
	return a.satisfactionHistogram(t, overallAvg, scoreN)
}

func (a *Analyzer) satisfactionByRegion(t *dataset.Table, overallAvg float64) Result {
	buckets := accumulate(t.Rows(), func(tx models.Transaction) (string, bool) {
		return tx.Region, tx.Region != "" && tx.SatisfactionScore != nil
	})
	avgScore := func(b *bucket) float64 {
		if b.scoreN == 0 {
			return 0
		}
		return round2(b.scoreSum / float64(b.scoreN))
	}
	sortBucketsDesc(buckets, avgScore)

	var sb strings.Builder
	sb.WriteString("## Customer Satisfaction Analysis\n\n")
	sb.WriteString("**Overall Insights:**\n")
	fmt.Fprintf(&sb, "- **Average Satisfaction:** **%.2f/5.0**\n", overallAvg)
	fmt.Fprintf(&sb, "- **Total Responses:** %s\n\n", formatCount(int64(t.Len())))
	sb.WriteString("**By Region:**\n")
	for _, b := range buckets {
		score := avgScore(b)
		tag := "🔴"
		switch {
		case score >= 4:
			tag = "🟢"
		case score >= 3:
			tag = "🟡"
		}
		fmt.Fprintf(&sb, "%s **%s:** %.2f/5.0\n", tag, b.key, score)
	}

	chart := &ChartSpec{
		Kind:       ChartBar,
		Title:      "Average Customer Satisfaction by Region",
		XAxis:      "Region",
		YAxis:      "Average Satisfaction Score",
		ColorBy:    models.ColSatisfaction,
		ColorScale: "RdYlGn",
		ValueRange: []float64{0, 5},
		Series:     []Series{{Name: "Avg Satisfaction", Points: bucketPoints(buckets, avgScore)}},
	}

	table := &TableData{
		Title:   "Average Satisfaction by Region",
		Columns: []string{"Region", "Avg_Satisfaction"},
		Rows:    make([][]string, 0, len(buckets)),
	}
	for _, b := range buckets {
		table.Rows = append(table.Rows, []string{b.key, fmt.Sprintf("%.2f", avgScore(b))})
	}

	return Result{Text: sb.String(), Chart: chart, Table: table}
}

func (a *Analyzer) satisfactionHistogram(t *dataset.Table, overallAvg float64, scoreN int) Result {
	counts := make(map[int]int)
	for _, tx := range t.Rows() {
		if tx.SatisfactionScore != nil {
			counts[*tx.SatisfactionScore]++
		}
	}

	var sb strings.Builder
	sb.WriteString("## Customer Satisfaction Analysis\n\n")
	sb.WriteString("**Overall Insights:**\n")
	fmt.Fprintf(&sb, "- **Average Satisfaction:** **%.2f/5.0**\n", overallAvg)
	fmt.Fprintf(&sb, "- **Total Responses:** %s\n\n", formatCount(int64(scoreN)))
	sb.WriteString("**Score Distribution:**\n")

	points := make([]Point, 0, 5)
	for score := 1; score <= 5; score++ {
		n, ok := counts[score]
		if !ok {
			continue
		}
		pct := float64(n) / float64(scoreN) * 100
		fmt.Fprintf(&sb, "- **%d stars:** %s responses (%s%%)\n", score, formatCount(int64(n)), formatPct(pct))
		points = append(points, Point{Label: fmt.Sprintf("%d", score), Value: float64(n)})
	}

	chart := &ChartSpec{
		Kind:       ChartBar,
		Title:      "Customer Satisfaction Score Distribution",
		XAxis:      "Satisfaction Score",
		YAxis:      "Number of Responses",
		ColorBy:    "Score",
		ColorScale: "Viridis",
		Series:     []Series{{Name: "Responses", Points: points}},
	}

	return Result{Text: sb.String(), Chart: chart}
}
