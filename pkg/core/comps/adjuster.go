// Package comps implements the comparable-sales valuation: each comp's sold
// price is adjusted toward the subject through nine weighted feature deltas,
// scored for similarity, and the comp set is collapsed into a single
// weighted after-repair value.
package comps

import (
	"math"
	"time"

	"property_underwriting/pkg/models"
)

// Adjustment weights. Price adjustments are additive; similarity starts at
// 100 and loses points per component.
const (
	sqftPenaltyMax = 35.0

	bedroomAdjPct  = 0.11
	bedroomPenalty = 12.0

	bathroomAdjPct  = 0.07
	bathroomPenalty = 6.0

	agePctPerYear  = 0.008
	codeYear       = 2001 // construction-code threshold
	codeCrossPct   = 0.05
	ageGapFree     = 10 // years of age gap with no penalty
	agePenaltyMax  = 20.0
	agePenaltyRate = 2.0 // points per year beyond the free gap

	lotAdjPerSqft    = 20.0
	lotRelFree       = 0.20
	lotPenaltyMax    = 8.0
	lotPenaltySlope  = 40.0
	poolAdjPct       = 0.05
	poolPenalty      = 8.0
	parkingAdjPer    = 12500.0
	parkingPenalty   = 4.0
	multiFamilyBonus = 12.0
	typeMatchBonus   = 8.0
	condoMismatchPen = 15.0
	condoMismatchPct = 0.10

	marketApprPerYear = 0.03
	staleSaleFree     = 3.0 // months before timing adjustments kick in
	staleSalePenMax   = 10.0

	domSlowThreshold = 90
	domSlowPenMax    = 8.0
	domSlowPenSlope  = 30.0 // days per penalty point
	domFastThreshold = 30
	domFastBonus     = 3.0

	daysPerMonth = 30.44
)

// Adjust computes the adjusted price, similarity score and component
// breakdown for one comp against the subject. asOf anchors the
// market-timing component; a zero asOf or sold date skips it.
func Adjust(subject models.SubjectProperty, comp models.ComparableProperty, asOf time.Time) models.ARVAdjustment {
	price := comp.SoldPrice
	var b models.AdjustmentBreakdown
	similarity := 100.0

	// Square footage: price-per-sqft of the comp times the sqft delta.
	if comp.Sqft > 0 && subject.Sqft > 0 {
		delta := subject.Sqft - comp.Sqft
		b.Sqft = price / comp.Sqft * delta
		pctDiff := math.Abs(delta) / comp.Sqft
		similarity -= math.Min(sqftPenaltyMax, pctDiff*sqftPenaltyMax)
	}

	// Bedrooms
	if bedDelta := float64(subject.Beds - comp.Beds); bedDelta != 0 {
		b.Bedrooms = price * bedroomAdjPct * bedDelta
		similarity -= bedroomPenalty * math.Abs(bedDelta)
	}

	// Bathrooms
	if bathDelta := subject.Baths - comp.Baths; bathDelta != 0 {
		b.Bathrooms = price * bathroomAdjPct * bathDelta
		similarity -= bathroomPenalty * math.Abs(bathDelta)
	}

	// Age, with a step across the construction-code threshold year.
	if subject.YearBuilt > 0 && comp.YearBuilt > 0 {
		yearDelta := float64(subject.YearBuilt - comp.YearBuilt)
		b.Age = price * agePctPerYear * yearDelta
		if subject.YearBuilt >= codeYear && comp.YearBuilt < codeYear {
			b.Age += price * codeCrossPct
		} else if comp.YearBuilt >= codeYear && subject.YearBuilt < codeYear {
			b.Age -= price * codeCrossPct
		}
		if gap := math.Abs(yearDelta); gap > ageGapFree {
			similarity -= math.Min(agePenaltyMax, (gap-ageGapFree)*agePenaltyRate)
		}
	}

	// Lot size
	if comp.LotSqft > 0 && subject.LotSqft > 0 {
		delta := subject.LotSqft - comp.LotSqft
		b.LotSize = lotAdjPerSqft * delta
		if rel := math.Abs(delta) / comp.LotSqft; rel > lotRelFree {
			similarity -= math.Min(lotPenaltyMax, (rel-lotRelFree)*lotPenaltySlope)
		}
	}

	// Pool mismatch
	if subject.HasPool != comp.HasPool {
		if subject.HasPool {
			b.Pool = price * poolAdjPct
		} else {
			b.Pool = -price * poolAdjPct
		}
		similarity -= poolPenalty
	}

	// Parking
	if parkDelta := float64(subject.ParkingSpaces - comp.ParkingSpaces); parkDelta != 0 {
		b.Parking = parkingAdjPer * parkDelta
		similarity -= parkingPenalty * math.Abs(parkDelta)
	}

	// Property type
	if subject.PropertyType != models.TypeUnknown && comp.PropertyType != models.TypeUnknown {
		switch {
		case subject.PropertyType.IsMultiFamily() && comp.PropertyType.IsMultiFamily():
			similarity += multiFamilyBonus
		case subject.PropertyType == comp.PropertyType:
			similarity += typeMatchBonus
		case isCondoHouseMismatch(subject.PropertyType, comp.PropertyType):
			similarity -= condoMismatchPen
			if comp.PropertyType == models.TypeCondo {
				b.PropertyType = price * condoMismatchPct
			} else {
				b.PropertyType = -price * condoMismatchPct
			}
		}
	}

	// Market timing: stale sales get appreciated forward at 3%/year,
	// pro-rated by months since the sale.
	if !asOf.IsZero() && !comp.SoldDate.IsZero() {
		months := asOf.Sub(comp.SoldDate).Hours() / 24 / daysPerMonth
		if months > staleSaleFree {
			b.MarketTiming = price * marketApprPerYear * (months / 12.0)
			similarity -= math.Min(staleSalePenMax, months-staleSaleFree)
		}
	}

	// Days on market affects similarity only. Zero means unreported.
	if comp.DaysOnMarket > domSlowThreshold {
		similarity -= math.Min(domSlowPenMax, float64(comp.DaysOnMarket-domSlowThreshold)/domSlowPenSlope)
	} else if comp.DaysOnMarket > 0 && comp.DaysOnMarket < domFastThreshold {
		similarity += domFastBonus
	}

	adjusted := price + b.Sqft + b.Bedrooms + b.Bathrooms + b.Age +
		b.LotSize + b.Pool + b.Parking + b.PropertyType + b.MarketTiming

	return models.ARVAdjustment{
		Comp:          comp,
		AdjustedPrice: adjusted,
		Similarity:    clamp(similarity, 0, 100),
		Breakdown:     b,
	}
}

func isCondoHouseMismatch(a, b models.PropertyType) bool {
	house := func(t models.PropertyType) bool {
		return t == models.TypeSingleFamily || t == models.TypeTownhouse
	}
	return (a == models.TypeCondo && house(b)) || (b == models.TypeCondo && house(a))
}

// WeightedARV adjusts every comp and aggregates them into one value,
// weighting each adjusted price by its similarity. An empty comp set is a
// defined degenerate case: ARV 0 with an empty adjustment list. If every
// similarity is zero the comps still carry information, so the fallback is a
// plain arithmetic mean rather than an error.
func WeightedARV(subject models.SubjectProperty, list []models.ComparableProperty, asOf time.Time) models.ARVResult {
	adjustments := make([]models.ARVAdjustment, 0, len(list))
	if len(list) == 0 {
		return models.ARVResult{ARV: 0, Adjustments: adjustments}
	}

	var weightedSum, totalWeight, plainSum float64
	for _, comp := range list {
		adj := Adjust(subject, comp, asOf)
		adjustments = append(adjustments, adj)

		w := adj.Similarity / 100.0
		weightedSum += adj.AdjustedPrice * w
		totalWeight += w
		plainSum += adj.AdjustedPrice
	}

	arv := plainSum / float64(len(list))
	if totalWeight > 0 {
		arv = weightedSum / totalWeight
	}
	return models.ARVResult{ARV: arv, Adjustments: adjustments}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
