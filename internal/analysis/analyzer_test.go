package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizlens/internal/dataset"
	"bizlens/internal/models"
)

func dptr(s string) *time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(nil)
}

func TestRegional(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{Region: "North", Revenue: fptr(200), Profit: fptr(50), UnitsSold: iptr(4)},
		{Region: "North", Revenue: fptr(100), Profit: fptr(30), UnitsSold: iptr(2)},
		{Region: "South", Revenue: fptr(300), Profit: fptr(60), UnitsSold: iptr(6)},
	}, []string{models.ColRegion, models.ColRevenue, models.ColProfit, models.ColUnitsSold})

	r := a.Regional(table)

	// North and South tie at 300; the key ascending tie-break ranks North first.
	assert.Contains(t, r.Text, "**Top Performing Region:** **North**")
	assert.Contains(t, r.Text, "50.0% of total revenue")
	assert.Contains(t, r.Text, "- **South:** $300 revenue, 20.00% profit margin")

	require.NotNil(t, r.Chart)
	assert.Equal(t, ChartBar, r.Chart.Kind)
	require.Len(t, r.Chart.Series, 1)
	require.Len(t, r.Chart.Series[0].Points, 2)
	assert.Equal(t, "North", r.Chart.Series[0].Points[0].Label)
	assert.Equal(t, 300.0, r.Chart.Series[0].Points[0].Value)

	require.NotNil(t, r.Table)
	assert.Equal(t, []string{"Region", "Revenue", "Profit", "Units_Sold", "Profit_Margin"}, r.Table.Columns)
	require.Len(t, r.Table.Rows, 2)
	assert.Equal(t, []string{"North", "300.00", "80.00", "6", "26.67"}, r.Table.Rows[0])
}

func TestRegionalMissingColumns(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{{Revenue: fptr(10)}}, []string{models.ColRevenue})

	r := a.Regional(table)

	assert.Equal(t, "Regional analysis requires 'Region' and 'Revenue' columns in your data.", r.Text)
	assert.Nil(t, r.Chart)
	assert.Nil(t, r.Table)
}

func TestMonthly(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{Date: dptr("2024-02-10"), Revenue: fptr(150), Profit: fptr(30), UnitsSold: iptr(3)},
		{Date: dptr("2024-01-05"), Revenue: fptr(100), Profit: fptr(20), UnitsSold: iptr(2)},
		{Date: dptr("2024-01-20"), Revenue: fptr(50), Profit: fptr(10), UnitsSold: iptr(1)},
	}, []string{models.ColDate, models.ColRevenue, models.ColProfit, models.ColUnitsSold})

	r := a.Monthly(table)

	assert.Contains(t, r.Text, "**Latest Month (2024-02):** **$150**")
	assert.Contains(t, r.Text, "**Month-over-Month Growth:** 0.0%")
	assert.Contains(t, r.Text, "**Best Performing Month:** 2024-01 ($150)")

	require.NotNil(t, r.Chart)
	assert.Equal(t, ChartLine, r.Chart.Kind)
	require.Len(t, r.Chart.Series[0].Points, 2)
	assert.Equal(t, "2024-01", r.Chart.Series[0].Points[0].Label)

	require.NotNil(t, r.Table)
	require.Len(t, r.Table.Rows, 2)
	// The first month has no predecessor, so its growth cell is empty.
	assert.Equal(t, "", r.Table.Rows[0][4])
	assert.Equal(t, "0.0", r.Table.Rows[1][4])
}

func TestMonthlyGrowth(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{Date: dptr("2024-01-05"), Revenue: fptr(100)},
		{Date: dptr("2024-02-05"), Revenue: fptr(150)},
	}, []string{models.ColDate, models.ColRevenue})

	r := a.Monthly(table)
	assert.Contains(t, r.Text, "**Month-over-Month Growth:** 50.0%")
}

func TestMargins(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{ProductName: "Widget", Revenue: fptr(200), Profit: fptr(50), UnitsSold: iptr(4)},
		{ProductName: "Gadget", Revenue: fptr(100), Profit: fptr(40), UnitsSold: iptr(2)},
	}, []string{models.ColProductName, models.ColRevenue, models.ColProfit, models.ColUnitsSold})

	r := a.Margins(table)

	// Gadget has the higher margin even though Widget has more revenue.
	assert.Contains(t, r.Text, "**Highest Margin:** **Gadget** (40.00%)")
	require.NotNil(t, r.Chart)
	assert.True(t, r.Chart.Horizontal)
	assert.Equal(t, "Gadget", r.Chart.Series[0].Points[0].Label)
}

func TestMarginsFallsBackToCategory(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{Category: "Electronics", Revenue: fptr(200), Profit: fptr(50)},
	}, []string{models.ColCategory, models.ColRevenue, models.ColProfit})

	r := a.Margins(table)

	assert.Contains(t, r.Text, "**Highest Margin:** **Electronics** (25.00%)")
	require.NotNil(t, r.Table)
	assert.Equal(t, models.ColCategory, r.Table.Columns[0])
}

func TestMarginsMissingColumns(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{{Revenue: fptr(10)}}, []string{models.ColRevenue})

	r := a.Margins(table)
	assert.Equal(t, "Profit analysis requires 'Profit' and 'Revenue' columns in your data.", r.Text)
	assert.Nil(t, r.Chart)
}

func TestCampaigns(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{CampaignName: "Holiday Sale", Revenue: fptr(300), UnitsSold: iptr(3)},
		{CampaignName: "Holiday Sale", Revenue: fptr(100), UnitsSold: iptr(1)},
		{CampaignName: "Spring Promo", Revenue: fptr(100), UnitsSold: iptr(2)},
	}, []string{models.ColCampaignName, models.ColRevenue, models.ColUnitsSold})

	r := a.Campaigns(table)

	assert.Contains(t, r.Text, "**Top Campaign:** **Holiday Sale** ($400 - 80.0% of total revenue)")
	assert.Contains(t, r.Text, "- **Holiday Sale:** $400 revenue, **$200** avg order value")

	require.NotNil(t, r.Chart)
	assert.Equal(t, ChartPie, r.Chart.Kind)
	require.NotNil(t, r.Table)
	assert.Equal(t, "200.00", r.Table.Rows[0][4])
}

func TestSatisfactionByRegion(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{Region: "North", SatisfactionScore: iptr(5)},
		{Region: "North", SatisfactionScore: iptr(4)},
		{Region: "South", SatisfactionScore: iptr(2)},
	}, []string{models.ColRegion, models.ColSatisfaction})

	r := a.Satisfaction(table)

	assert.Contains(t, r.Text, "**Average Satisfaction:** **3.67/5.0**")
	assert.Contains(t, r.Text, "🟢 **North:** 4.50/5.0")
	assert.Contains(t, r.Text, "🔴 **South:** 2.00/5.0")

	require.NotNil(t, r.Chart)
	assert.Equal(t, []float64{0, 5}, r.Chart.ValueRange)
	require.NotNil(t, r.Table)
}

func TestSatisfactionHistogram(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{SatisfactionScore: iptr(5)},
		{SatisfactionScore: iptr(5)},
		{SatisfactionScore: iptr(3)},
		{SatisfactionScore: iptr(1)},
	}, []string{models.ColSatisfaction})

	r := a.Satisfaction(table)

	assert.Contains(t, r.Text, "**Score Distribution:**")
	assert.Contains(t, r.Text, "- **5 stars:** 2 responses (50.0%)")
	require.NotNil(t, r.Chart)
	// Histogram answers carry no table.
	assert.Nil(t, r.Table)
}

func TestSatisfactionMissingColumn(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{{Revenue: fptr(10)}}, []string{models.ColRevenue})

	r := a.Satisfaction(table)
	assert.Contains(t, r.Text, "(0-5 scale)")
	assert.Nil(t, r.Chart)
}

func TestInventory(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{Category: "Electronics", InventoryLevel: iptr(100)},
		{Category: "Electronics", InventoryLevel: iptr(200)},
		{Category: "Apparel", InventoryLevel: iptr(300)},
		{Category: "Apparel", InventoryLevel: iptr(400)},
	}, []string{models.ColCategory, models.ColInventoryLevel})

	r := a.Inventory(table)

	// 25th percentile of [100,200,300,400] is 175; only the 100 falls at or below it.
	assert.Contains(t, r.Text, "**Low Stock Risk:** 1 items are below the 25th percentile threshold of **175 units**.")
	assert.Contains(t, r.Text, "- **Apparel:** 700 total units, 350 avg per product (2 products)")

	require.NotNil(t, r.Chart)
	require.NotNil(t, r.Table)
	assert.Equal(t, []string{"Apparel", "350", "700", "2"}, r.Table.Rows[0])
}

func TestInventoryNoData(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{Category: "Services"},
	}, []string{models.ColCategory, models.ColInventoryLevel})

	r := a.Inventory(table)
	assert.Equal(t, "No inventory data available for analysis.", r.Text)
}

func TestCategories(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{Category: "Electronics", Revenue: fptr(1000), Profit: fptr(100), UnitsSold: iptr(10)},
		{Category: "Software", Revenue: fptr(500), Profit: fptr(250), UnitsSold: iptr(2)},
	}, []string{models.ColCategory, models.ColRevenue, models.ColProfit, models.ColUnitsSold})

	r := a.Categories(table)

	// Highest revenue and highest margin are different categories here.
	assert.Contains(t, r.Text, "**Highest Revenue:** **Electronics** ($1,000)")
	assert.Contains(t, r.Text, "**Highest Margin:** **Software** (50.0%)")

	require.NotNil(t, r.Chart)
	assert.Equal(t, ChartScatter, r.Chart.Kind)
	require.Len(t, r.Chart.Series[0].Points, 2)
	p := r.Chart.Series[0].Points[0]
	assert.Equal(t, "Electronics", p.Label)
	assert.Equal(t, 1000.0, p.Value)
	assert.Equal(t, 10.0, p.Y)
	assert.Equal(t, 10.0, p.Size)
}

func TestSummary(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{Date: dptr("2024-01-05"), Region: "North", Category: "Electronics", Revenue: fptr(1000), Profit: fptr(200), UnitsSold: iptr(10)},
		{Date: dptr("2024-03-05"), Region: "South", Category: "Apparel", Revenue: fptr(500), Profit: fptr(150), UnitsSold: iptr(5)},
	}, []string{models.ColDate, models.ColRegion, models.ColCategory, models.ColRevenue, models.ColProfit, models.ColUnitsSold})

	r := a.Summary(table)

	assert.Contains(t, r.Text, "**Total Revenue:** **$1,500**")
	assert.Contains(t, r.Text, "**Overall Profit Margin:** **23.3%**")
	assert.Contains(t, r.Text, "**Date Range:** 2024-01-05 to 2024-03-05")
	assert.Contains(t, r.Text, "**Best Revenue-Generating Region:** North")
	assert.Contains(t, r.Text, "**Best Revenue-Generating Category:** Electronics")
	assert.Nil(t, r.Chart)
	assert.Nil(t, r.Table)
}

func TestSummaryMissingColumns(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{Revenue: fptr(100)},
	}, []string{models.ColRevenue})

	r := a.Summary(table)

	assert.Contains(t, r.Text, "**Date Range:** Date information not available")
	assert.Contains(t, r.Text, "**Best Revenue-Generating Region:** N/A")
	assert.Contains(t, r.Text, "**Best Revenue-Generating Category:** N/A")
}

func TestRunDispatch(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{Region: "North", Revenue: fptr(100)},
	}, []string{models.ColRegion, models.ColRevenue})

	intents := []Intent{
		IntentRegional, IntentMonthly, IntentMargin, IntentCampaign,
		IntentSatisfaction, IntentInventory, IntentCategory, IntentSummary,
	}
	for _, intent := range intents {
		r := a.Run(intent, table)
		if r.Text == "" {
			t.Errorf("Run(%q) returned empty text", intent)
		}
	}

	if got := a.Run(IntentUnknown, table); !strings.Contains(got.Text, "I can help you analyze") {
		t.Errorf("unknown intent should return help text, got %q", got.Text)
	}
}

func TestAsk(t *testing.T) {
	a := newTestAnalyzer()
	table := dataset.NewTable([]models.Transaction{
		{Region: "North", Revenue: fptr(100), Profit: fptr(20)},
	}, []string{models.ColRegion, models.ColRevenue, models.ColProfit})

	r := a.Ask("How is each region performing?", table)
	assert.Contains(t, r.Text, "Regional Performance Analysis")
}
