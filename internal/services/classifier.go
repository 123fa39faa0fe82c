package services

import "route-optimizer-mcp/internal/domain"

// Classification size thresholds. These are deliberately distinct from the
// solver-endpoint thresholds in orchestrator.go: a "large problem" here only
// raises the fallback time limit, while the endpoint thresholds pick sync vs
// async transport and the large-size/unassigned option defaults.
const (
	largeProblemOrderCount  = 1000
	largeProblemDriverCount = 50
)

// Classify derives the VRP variant and constraint flags from the current
// driver/order data. Explicit overrides beat auto-detection. Pure function
// of its inputs; recomputed fresh on every optimization request.
func Classify(drivers []domain.Driver, orders []domain.Order, overrides domain.ConstraintOverrides) domain.Classification {
	cls := domain.Classification{}

	if overrides.Capacity != nil {
		cls.HasCapacity = *overrides.Capacity
	} else {
		for _, d := range drivers {
			if d.CapacityWeight > 0 {
				cls.HasCapacity = true
				break
			}
		}
		if !cls.HasCapacity {
			for _, o := range orders {
				if o.Weight > 0 || o.Volume > 0 {
					cls.HasCapacity = true
					break
				}
			}
		}
	}

	if overrides.TimeWindows != nil {
		cls.HasTimeWindows = *overrides.TimeWindows
	} else {
		for _, o := range orders {
			if o.HasTimeWindow() {
				cls.HasTimeWindows = true
				break
			}
		}
	}

	vehicleTypes := map[string]struct{}{}
	for _, d := range drivers {
		if d.HasWorkingHours() {
			cls.HasWorkingHours = true
		}
		if len(d.Preferences) > 0 {
			cls.HasPreferences = true
		}
		if d.HasMultiObjectiveCosts() {
			cls.HasMultiObjective = true
		}
		if d.VehicleType != "" {
			vehicleTypes[d.VehicleType] = struct{}{}
		}
	}
	cls.HasDiverseVehicleTypes = len(vehicleTypes) > 1

	cls.IsLargeProblem = len(orders) > largeProblemOrderCount || len(drivers) > largeProblemDriverCount

	cls.Variant = variantOf(len(drivers), cls)
	return cls
}

// variantOf walks the variant priority list; the first matching rule wins.
// This is a priority list, not an exclusive partition: a problem with both
// time windows and preferences classifies as CVRPTW because the time-window
// rule ranks higher.
func variantOf(driverCount int, cls domain.Classification) domain.ProblemVariant {
	switch {
	case driverCount == 1 && !cls.HasCapacity && !cls.HasTimeWindows:
		return domain.VariantTSP
	case cls.HasCapacity && !cls.HasTimeWindows && !cls.HasWorkingHours &&
		!cls.HasPreferences && !cls.HasMultiObjective && !cls.HasDiverseVehicleTypes:
		return domain.VariantCVRP
	case cls.HasCapacity && cls.HasTimeWindows:
		return domain.VariantCVRPTW
	case cls.HasCapacity && cls.HasWorkingHours:
		return domain.VariantDriverShifts
	case cls.HasPreferences || cls.HasDiverseVehicleTypes:
		return domain.VariantPreferences
	case cls.HasMultiObjective:
		return domain.VariantMultiObjective
	default:
		return domain.VariantCVRP
	}
}
