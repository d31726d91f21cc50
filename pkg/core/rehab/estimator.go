package rehab

import (
	"fmt"
	"sort"

	"property_underwriting/pkg/models"
)

// Per-category variance bands. Structural work has the widest spread;
// systems quotes are the most predictable.
var varianceBands = map[models.LineItemCategory][2]float64{
	models.CategoryStructural: {-0.20, 0.40},
	models.CategorySystems:    {-0.10, 0.20},
}

// defaultBand covers interior, exterior and soft costs.
var defaultBand = [2]float64{-0.15, 0.25}

// Contingency bounds, in percentage points.
const (
	contingencyLowBase  = 10.0
	contingencyHighBase = 20.0
	contingencyLowCap   = 15.0
	contingencyHighCap  = 45.0

	maxRankedDrivers      = 5
	maxUncertaintyFactors = 5

	oldRoofYears = 30
)

var confidenceByCategory = map[models.LineItemCategory]models.ConfidenceLevel{
	models.CategoryStructural: models.ConfidenceLow,
	models.CategorySystems:    models.ConfidenceHigh,
	models.CategoryInterior:   models.ConfidenceMedium,
	models.CategoryExterior:   models.ConfidenceMedium,
	models.CategorySoft:       models.ConfidenceMedium,
}

// EstimateRange turns priced line items into a low/mid/high estimate with
// ranked cost drivers. The assessment supplies the risk context that sets
// the contingency percentage: more unknowns, wider band.
func EstimateRange(items []models.LineItem, a models.ConditionAssessment) models.CostRangeResult {
	type bucket struct {
		low, high float64
		count     int
	}
	buckets := make(map[models.LineItemCategory]*bucket)

	var lowSubtotal, highSubtotal float64
	for _, it := range items {
		band, ok := varianceBands[it.Category]
		if !ok {
			band = defaultBand
		}
		lo := it.Cost * (1 + band[0])
		hi := it.Cost * (1 + band[1])
		lowSubtotal += lo
		highSubtotal += hi

		b := buckets[it.Category]
		if b == nil {
			b = &bucket{}
			buckets[it.Category] = b
		}
		b.low += lo
		b.high += hi
		b.count++
	}

	lowPct, highPct, factors := contingency(a)

	low := lowSubtotal * (1 + lowPct/100)
	high := highSubtotal * (1 + highPct/100)
	mid := (low + high) / 2

	// Rank categories by their high-cost contribution.
	drivers := make([]models.CostDriver, 0, len(buckets)+1)
	for cat, b := range buckets {
		conf, ok := confidenceByCategory[cat]
		if !ok {
			conf = models.ConfidenceMedium
		}
		drivers = append(drivers, models.CostDriver{
			Category:    cat,
			LowCost:     b.low,
			HighCost:    b.high,
			Confidence:  conf,
			Description: fmt.Sprintf("%d %s item(s)", b.count, cat),
		})
	}
	sort.Slice(drivers, func(i, j int) bool {
		if drivers[i].HighCost != drivers[j].HighCost {
			return drivers[i].HighCost > drivers[j].HighCost
		}
		return drivers[i].Category < drivers[j].Category // stable order for ties
	})
	if len(drivers) > maxRankedDrivers {
		drivers = drivers[:maxRankedDrivers]
	}
	if highSubtotal > 0 {
		drivers = append(drivers, models.CostDriver{
			Category:    models.CategoryContingency,
			LowCost:     lowSubtotal * lowPct / 100,
			HighCost:    highSubtotal * highPct / 100,
			Confidence:  models.ConfidenceLow,
			Description: fmt.Sprintf("Contingency %.0f-%.0f%%", lowPct, highPct),
		})
	}

	return models.CostRangeResult{
		Low:                low,
		Mid:                mid,
		High:               high,
		ContingencyLowPct:  lowPct,
		ContingencyHighPct: highPct,
		Drivers:            drivers,
		UncertaintyFactors: factors,
	}
}

// contingency derives the low/high contingency percentages from the risk
// profile of the assessment, recording a human-readable factor for each
// trigger in evaluation order.
func contingency(a models.ConditionAssessment) (lowPct, highPct float64, factors []string) {
	lowPct = contingencyLowBase
	highPct = contingencyHighBase

	raise := func(pp float64, highOnly bool, factor string) {
		highPct += pp
		if !highOnly {
			lowPct += pp
		}
		factors = append(factors, factor)
	}

	if a.StructuralIssues.Present {
		raise(10, true, "Structural issues flagged; scope unknown until engineering review")
	}
	if a.Mold.Present {
		raise(15, false, "Mold present; remediation scope can expand once walls are opened")
	}
	if a.Termites.Present {
		raise(15, false, "Termite activity; hidden member damage is common")
	}
	if a.WaterDamage.Present {
		raise(15, false, "Water damage; subsurface extent unverified")
	}
	if a.FireDamage.Present {
		raise(15, false, "Fire damage; structural and smoke remediation varies widely")
	}
	if a.Overall == models.GradeUnset {
		raise(5, false, "No overall condition assessment recorded")
	}
	if a.Roof == nil {
		raise(5, false, "Roof not assessed")
	}
	if a.HVAC == nil {
		raise(5, false, "HVAC not assessed")
	}
	if a.Roof != nil && a.Roof.AgeYears > oldRoofYears {
		raise(5, false, "Roof beyond 30 years; replacement likely regardless of grade")
	}
	if a.FloodZone {
		raise(5, false, "Property in a flood zone")
	}
	if a.Plumbing == nil || a.Plumbing.PipeMaterial == models.PipeUnknown {
		raise(3, false, "Plumbing pipe material unknown")
	}

	if lowPct > contingencyLowCap {
		lowPct = contingencyLowCap
	}
	if highPct > contingencyHighCap {
		highPct = contingencyHighCap
	}
	if len(factors) > maxUncertaintyFactors {
		factors = factors[:maxUncertaintyFactors]
	}
	return lowPct, highPct, factors
}
