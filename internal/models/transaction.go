package models

import (
	"fmt"
	"time"
)

// Canonical column names as they appear in the generated CSV header.
const (
	ColDate            = "Date"
	ColRegion          = "Region"
	ColProductName     = "Product_Service_Name"
	ColCategory        = "Category_Department"
	ColRevenue         = "Revenue"
	ColCost            = "Cost"
	ColProfit          = "Profit"
	ColProfitMargin    = "Profit_Margin_pct"
	ColUnitsSold       = "Units_Sold"
	ColInventoryLevel  = "Inventory_Level"
	ColReturnRate      = "Return_Rate_pct"
	ColOrderID         = "Order_ID"
	ColCustomerID      = "Customer_ID"
	ColCustomerSegment = "Customer_Segment"
	ColCampaignName    = "Campaign_Name"
	ColConversionRate  = "Conversion_Rate_pct"
	ColSatisfaction    = "Customer_Satisfaction_Score"
	ColAvgOrderValue   = "Average_Order_Value"
	ColMonth           = "Month"
	ColQuarter         = "Quarter"
	ColYear            = "Year"
	ColWeekNumber      = "Week_Number"
)

// Columns is the full schema in CSV header order.
var Columns = []string{
	ColDate, ColRegion, ColProductName, ColCategory,
	ColRevenue, ColCost, ColProfit, ColProfitMargin,
	ColUnitsSold, ColInventoryLevel, ColReturnRate, ColOrderID,
	ColCustomerID, ColCustomerSegment, ColCampaignName, ColConversionRate,
	ColSatisfaction, ColAvgOrderValue, ColMonth, ColQuarter, ColYear, ColWeekNumber,
}

// Transaction is one row of the business performance table.
// Pointer fields are nullable: they stay nil when the source column is
// absent or a cell fails numeric/date coercion. Inventory_Level is nil by
// design for non-physical categories (Services, Software).
type Transaction struct {
	Date              *time.Time `json:"date"`
	Region            string     `json:"region"`
	ProductName       string     `json:"product_name"`
	Category          string     `json:"category"`
	Revenue           *float64   `json:"revenue"`
	Cost              *float64   `json:"cost"`
	Profit            *float64   `json:"profit"`
	ProfitMarginPct   float64    `json:"profit_margin_pct"`
	UnitsSold         *int       `json:"units_sold"`
	InventoryLevel    *int       `json:"inventory_level"`
	ReturnRatePct     float64    `json:"return_rate_pct"`
	OrderID           string     `json:"order_id"`
	CustomerID        string     `json:"customer_id"`
	CustomerSegment   string     `json:"customer_segment"`
	CampaignName      string     `json:"campaign_name"`
	ConversionRatePct float64    `json:"conversion_rate_pct"`
	SatisfactionScore *int       `json:"customer_satisfaction_score"`
	AvgOrderValue     float64    `json:"average_order_value"`
	Month             string     `json:"month"`
	Quarter           string     `json:"quarter"`
	Year              int        `json:"year"`
	WeekNumber        int        `json:"week_number"`
}

// DeriveCalendar fills Month, Quarter, Year and WeekNumber from Date.
// Formats match the generated file contract: Month "2006-01",
// Quarter "2006-Q1".
func (t *Transaction) DeriveCalendar() {
	if t.Date == nil {
		return
	}
	d := *t.Date
	t.Month = d.Format("2006-01")
	t.Quarter = Quarter(d)
	t.Year = d.Year()
	_, t.WeekNumber = d.ISOWeek()
}

// Quarter formats a date as "YYYY-Qn".
func Quarter(d time.Time) string {
	q := (int(d.Month())-1)/3 + 1
	return fmt.Sprintf("%d-Q%d", d.Year(), q)
}

// PhysicalCategories are the categories that carry inventory and returns.
var PhysicalCategories = map[string]bool{
	"Electronics": true,
	"Apparel":     true,
}
