package analysis

import "strings"

// Intent is one of the fixed analysis categories a question routes to.
type Intent string

const (
	IntentRegional     Intent = "regional"
	IntentMonthly      Intent = "monthly"
	IntentMargin       Intent = "margin"
	IntentCampaign     Intent = "campaign"
	IntentSatisfaction Intent = "satisfaction"
	IntentInventory    Intent = "inventory"
	IntentCategory     Intent = "category"
	IntentSummary      Intent = "summary"
	IntentUnknown      Intent = "unknown"
)

type intentRule struct {
	intent   Intent
	keywords []string
}

// Rules are evaluated top to bottom; the first rule with any keyword
// contained in the lower-cased question wins. Order is part of the
// contract: "regional profit breakdown" is regional, not margin.
var intentRules = []intentRule{
	{IntentRegional, []string{"region", "regional", "geography", "location"}},
	{IntentMonthly, []string{"monthly", "trend", "time", "month", "over time"}},
	{IntentMargin, []string{"profit", "margin", "profitability", "cost"}},
	{IntentCampaign, []string{"campaign", "marketing", "promotion", "channel"}},
	{IntentSatisfaction, []string{"satisfaction", "customer", "rating", "score"}},
	{IntentInventory, []string{"inventory", "stock", "warehouse", "levels"}},
	{IntentCategory, []string{"category", "product", "department", "service"}},
	{IntentSummary, []string{"summary", "overview", "general", "what is the data showing"}},
}

// Classify maps a free-text question to an intent by ordered substring
// matching. No scoring, no NLP.
func Classify(question string) Intent {
	q := strings.ToLower(question)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.intent
			}
		}
	}
	return IntentUnknown
}

const helpText = "I can help you analyze various aspects of your business data. " +
	"Try asking about regional performance, monthly trends, profit margins, " +
	"campaign effectiveness, customer satisfaction, or inventory levels."

// HelpResult is returned when no intent matches.
func HelpResult() Result {
	return Result{Text: helpText}
}
