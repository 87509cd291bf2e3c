package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"bizlens/internal/models"
)

// bucket accumulates the metric sums for one group key.
type bucket struct {
	key      string
	revenue  float64
	cost     float64
	profit   float64
	units    int
	count    int
	scoreSum float64
	scoreN   int
	invSum   float64
	invN     int
}

// margin is the derived ratio 100·Σprofit/Σrevenue, rounded to 2dp.
// Zero revenue resolves to 0, never NaN.
func (b *bucket) margin() float64 {
	return safeMargin(b.profit, b.revenue)
}

func safeMargin(profit, revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	return round2(profit / revenue * 100)
}

// accumulate groups rows by keyFn, summing revenue/cost/profit/units and
// the satisfaction and inventory tallies. Rows where keyFn reports no key
// are skipped. Buckets come back in key encounter order.
func accumulate(rows []models.Transaction, keyFn func(models.Transaction) (string, bool)) []*bucket {
	byKey := make(map[string]*bucket)
	var order []*bucket

	for _, tx := range rows {
		key, ok := keyFn(tx)
		if !ok {
			continue
		}
		b := byKey[key]
		if b == nil {
			b = &bucket{key: key}
			byKey[key] = b
			order = append(order, b)
		}
		b.count++
		if tx.Revenue != nil {
			b.revenue += *tx.Revenue
		}
		if tx.Cost != nil {
			b.cost += *tx.Cost
		}
		if tx.Profit != nil {
			b.profit += *tx.Profit
		}
		if tx.UnitsSold != nil {
			b.units += *tx.UnitsSold
		}
		if tx.SatisfactionScore != nil {
			b.scoreSum += float64(*tx.SatisfactionScore)
			b.scoreN++
		}
		if tx.InventoryLevel != nil {
			b.invSum += float64(*tx.InventoryLevel)
			b.invN++
		}
	}
	return order
}

// sortBucketsDesc orders buckets by metric descending. Equal metrics break
// by group key ascending so rankings are deterministic regardless of
// encounter order.
func sortBucketsDesc(buckets []*bucket, metric func(*bucket) float64) {
	sort.Slice(buckets, func(i, j int) bool {
		mi, mj := metric(buckets[i]), metric(buckets[j])
		if mi != mj {
			return mi > mj
		}
		return buckets[i].key < buckets[j].key
	})
}

func totalRevenue(buckets []*bucket) float64 {
	var total float64
	for _, b := range buckets {
		total += b.revenue
	}
	return total
}

// percentile computes the q-th percentile (0..1) with linear interpolation
// between closest ranks: [100,200,300,400] at q=0.25 gives 175.
func percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// formatMoney renders a dollar amount with thousands separators and no
// decimals: 1234567.89 → "$1,234,568".
func formatMoney(v float64) string {
	return "$" + formatCount(int64(math.Round(v)))
}

func formatCount(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return sign + s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return sign + strings.Join(parts, ",")
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func formatMargin(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
