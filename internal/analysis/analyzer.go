package analysis

import (
	"log/slog"

	"bizlens/internal/dataset"
)

// Analyzer runs canned aggregations over a loaded table. Routines are
// pure reads: they never mutate the table and always return a Result,
// never an error — schema problems become explanatory text.
type Analyzer struct {
	logger *slog.Logger
}

func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Run dispatches an intent to its routine.
func (a *Analyzer) Run(intent Intent, t *dataset.Table) Result {
	switch intent {
	case IntentRegional:
		return a.Regional(t)
	case IntentMonthly:
		return a.Monthly(t)
	case IntentMargin:
		return a.Margins(t)
	case IntentCampaign:
		return a.Campaigns(t)
	case IntentSatisfaction:
		return a.Satisfaction(t)
	case IntentInventory:
		return a.Inventory(t)
	case IntentCategory:
		return a.Categories(t)
	case IntentSummary:
		return a.Summary(t)
	default:
		return HelpResult()
	}
}

// Ask classifies the question and runs the matching routine.
func (a *Analyzer) Ask(question string, t *dataset.Table) Result {
	intent := Classify(question)
	a.logger.Debug("question classified", "intent", string(intent))
	return a.Run(intent, t)
}
