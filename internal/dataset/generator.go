package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"bizlens/internal/models"
)

// Trailing window the generator draws transaction dates from: 18 months.
const windowDays = 540

var (
	regions    = []string{"North", "South", "East", "West"}
	categories = []string{"Electronics", "Services", "Software", "Apparel"}
	// Category draw weights: Electronics .3, Services .2, Software .3, Apparel .2.
	categoryWeights = []float64{0.3, 0.2, 0.3, 0.2}

	productNames = map[string][]string{
		"Electronics": {"Deluxe Widget", "Smart Monitor", "E-Reader", "Wireless Headphones"},
		"Services":    {"Consulting Hour", "Maintenance Contract", "Premium Support", "Installation Service"},
		"Software":    {"Cloud Subscription", "Data Analytics Tool", "ERP Module", "CRM Suite"},
		"Apparel":     {"T-Shirt", "Polo Shirt", "Jacket", "Hoodie"},
	}

	// Base unit price ranges per category.
	priceRanges = map[string][2]float64{
		"Electronics": {150, 800},
		"Software":    {500, 2500},
		"Services":    {100, 600},
		"Apparel":     {20, 150},
	}

	customerSegments = []string{"Retail", "Wholesale", "Online"}
	segmentWeights   = []float64{0.4, 0.1, 0.5}

	campaignNames = []string{"Spring Promo", "Summer Sale", "Holiday Sale", "Back-to-School", "Q1 Launch"}

	satisfactionScores  = []int{1, 2, 3, 4, 5}
	satisfactionWeights = []float64{0.05, 0.1, 0.2, 0.4, 0.25}
)

// Generator produces schema-valid synthetic transactions. All randomness
// flows through a single seeded source so runs are reproducible.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now(),
	}
}

// Generate returns count transactions drawn from the trailing 540-day window.
func (g *Generator) Generate(count int) []models.Transaction {
	out := make([]models.Transaction, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, g.record())
	}
	return out
}

func (g *Generator) record() models.Transaction {
	start := g.now.AddDate(0, 0, -windowDays)
	date := start.AddDate(0, 0, g.rng.Intn(windowDays+1))
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	region := regions[g.rng.Intn(len(regions))]
	category := weightedString(g.rng, categories, categoryWeights)
	names := productNames[category]
	product := names[g.rng.Intn(len(names))]

	segment := weightedString(g.rng, customerSegments, segmentWeights)
	campaign := campaignNames[g.rng.Intn(len(campaignNames))]
	unitsSold := 10 + g.rng.Intn(290) // [10, 300)

	pr := priceRanges[category]
	basePrice := uniform(g.rng, pr[0], pr[1])

	revenue := float64(unitsSold) * basePrice

	// Regional and campaign biases compose multiplicatively.
	if region == "North" && category == "Electronics" {
		revenue *= 1.15
	}
	if region == "South" && category == "Apparel" {
		revenue *= 1.2
	}
	if containsHoliday(campaign) {
		revenue *= 1.25
	}
	if containsSummer(campaign) {
		revenue *= 1.1
	}

	cost := revenue * uniform(g.rng, 0.5, 0.75)
	profit := revenue - cost
	margin := round2(profit / revenue * 100)

	var inventory *int
	returnRate := 0.0
	if models.PhysicalCategories[category] {
		lvl := 100 + g.rng.Intn(4900) // [100, 5000)
		inventory = &lvl
		returnRate = uniform(g.rng, 0.01, 0.1)
	}

	orderID := fmt.Sprintf("ORD-%06d", 100000+g.rng.Intn(900000))
	customerID := fmt.Sprintf("CUST-%05d", 10000+g.rng.Intn(89999))
	conversion := uniform(g.rng, 0.02, 0.15)
	score := weightedInt(g.rng, satisfactionScores, satisfactionWeights)

	revenue = round2(revenue)
	cost = round2(cost)
	profit = round2(profit)
	aov := round2(revenue / float64(unitsSold))

	tx := models.Transaction{
		Date:              &date,
		Region:            region,
		ProductName:       product,
		Category:          category,
		Revenue:           &revenue,
		Cost:              &cost,
		Profit:            &profit,
		ProfitMarginPct:   margin,
		UnitsSold:         &unitsSold,
		InventoryLevel:    inventory,
		ReturnRatePct:     round3(returnRate),
		OrderID:           orderID,
		CustomerID:        customerID,
		CustomerSegment:   segment,
		CampaignName:      campaign,
		ConversionRatePct: round3(conversion),
		SatisfactionScore: &score,
		AvgOrderValue:     aov,
	}
	tx.DeriveCalendar()
	return tx
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func weightedString(rng *rand.Rand, values []string, weights []float64) string {
	return values[weightedIndex(rng, weights)]
}

func weightedInt(rng *rand.Rand, values []int, weights []float64) int {
	return values[weightedIndex(rng, weights)]
}

func weightedIndex(rng *rand.Rand, weights []float64) int {
	r := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}

func containsHoliday(campaign string) bool { return strings.Contains(campaign, "Holiday") }
func containsSummer(campaign string) bool  { return strings.Contains(campaign, "Summer") }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
