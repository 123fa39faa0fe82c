package services

import "strings"

// RefineIntent is the enumerated refinement objective inferred from
// free-form user feedback.
type RefineIntent string

const (
	IntentReduceCost      RefineIntent = "reduce-cost"
	IntentBalanceRoutes   RefineIntent = "balance-routes"
	IntentReduceVehicles  RefineIntent = "reduce-vehicles"
	IntentRespectTime     RefineIntent = "respect-time"
	IntentAllowUnassigned RefineIntent = "allow-unassigned"
)

// intentKeywords is the documented keyword table; matching is best-effort
// and first-match-wins in this order.
var intentKeywords = []struct {
	intent   RefineIntent
	keywords []string
}{
	{IntentBalanceRoutes, []string{"balance", "fair", "even", "equal", "spread"}},
	{IntentReduceVehicles, []string{"fewer vehicle", "less vehicle", "fewer driver", "less driver", "reduce vehicle"}},
	{IntentRespectTime, []string{"time window", "late", "on time", "deadline", "punctual"}},
	{IntentAllowUnassigned, []string{"unassigned", "drop order", "skip order", "leave out"}},
	{IntentReduceCost, []string{"cost", "cheaper", "distance", "shorter", "fuel"}},
}

// ClassifyIntent maps feedback text onto a refinement intent. Unmatched
// feedback falls back to IntentReduceCost rather than erroring.
func ClassifyIntent(feedback string) RefineIntent {
	text := strings.ToLower(feedback)
	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entry.intent
			}
		}
	}
	return IntentReduceCost
}
