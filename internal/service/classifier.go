// backend-go/internal/service/classifier.go
package service

import (
	"fmt"
	"strings"

	"github.com/shoplens/backend-go/internal/domain"
	"github.com/shoplens/backend-go/internal/normalize"
)

// Policy names a stockout classification rule. The historical handlers
// drifted between two materially different thresholds; here both exist as
// explicit variants and exactly one is selected at startup, shared by every
// report endpoint. Which one matches the intended business rule is still a
// stakeholder question; binary is the default because it is what the primary
// reorder report applied.
type Policy string

const (
	// PolicyBinary flags a SKU as stockout risk whenever total
	// availability falls below the 30-day forecast.
	PolicyBinary Policy = "binary"
	// PolicyThreeTier adds a middle "reorder now" band: risk at or below a
	// third of the 30-day forecast, reorder at or below half.
	PolicyThreeTier Policy = "three_tier"
)

// ParsePolicy resolves a config string to a policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyBinary:
		return PolicyBinary, nil
	case PolicyThreeTier:
		return PolicyThreeTier, nil
	}
	return "", fmt.Errorf("unknown classifier policy %q", s)
}

// Classification is the decision for one SKU.
type Classification struct {
	Action          domain.Action
	ReorderQuantity int
}

// Classifier turns a forecast row plus on-order availability into an action
// label and a reorder quantity. It is pure: no I/O, never fails, missing
// numeric fields default to zero.
type Classifier struct {
	policy Policy
}

func NewClassifier(policy Policy) *Classifier {
	return &Classifier{policy: policy}
}

func (c *Classifier) Policy() Policy {
	return c.policy
}

// Classify labels one SKU. Live inventory is clamped at zero before it
// counts toward availability: a negative or sentinel snapshot means "no
// usable stock", never negative demand.
func (c *Classifier) Classify(rec *domain.ForecastRecord, onOrder int) Classification {
	forecast30 := normalize.IntOrZero(rec.PredictedSales30)
	forecast60 := normalize.IntOrZero(rec.PredictedSales60)
	live := normalize.ClampNonNegative(normalize.IntOrZero(rec.LiveInventory))
	totalAvailable := live + onOrder

	var action domain.Action
	switch c.policy {
	case PolicyThreeTier:
		switch {
		case float64(totalAvailable) <= float64(forecast30)/3:
			action = domain.ActionStockoutRisk
		case float64(totalAvailable) <= float64(forecast30)/2:
			action = domain.ActionReorderNow
		default:
			action = domain.ActionSufficientStock
		}
	default: // PolicyBinary
		if forecast30 == 0 {
			if totalAvailable > 0 {
				action = domain.ActionSufficientStock
			} else {
				action = domain.ActionStockoutRisk
			}
		} else if totalAvailable < forecast30 {
			action = domain.ActionStockoutRisk
		} else {
			action = domain.ActionSufficientStock
		}
	}

	reorder := forecast30 + forecast60 - totalAvailable
	if reorder < 0 {
		reorder = 0
	}

	return Classification{Action: action, ReorderQuantity: reorder}
}

// NonRiskActions lists the labels carried by the need-reordering report
// under the active policy.
func (c *Classifier) NonRiskActions() []domain.Action {
	if c.policy == PolicyThreeTier {
		return []domain.Action{domain.ActionReorderNow, domain.ActionSufficientStock}
	}
	return []domain.Action{domain.ActionSufficientStock}
}
