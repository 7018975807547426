package domain

import "strings"

// Action labels a SKU with the purchasing decision derived from its latest
// forecast snapshot. The three labels partition every snapshot: each SKU
// carries exactly one.
type Action string

const (
	ActionSufficientStock Action = "Sufficient Stock"
	ActionStockoutRisk    Action = "StockOut Risk"
	ActionReorderNow      Action = "Reorder Now"
)

var actionLabels = map[string]Action{
	"sufficient stock": ActionSufficientStock,
	"stockout risk":    ActionStockoutRisk,
	"reorder now":      ActionReorderNow,
}

// ParseAction returns the action for a label (case-insensitive).
func ParseAction(label string) (Action, bool) {
	a, ok := actionLabels[strings.ToLower(strings.TrimSpace(label))]

	return a, ok
}
