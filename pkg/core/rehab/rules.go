// Package rehab turns a structured property-condition assessment into priced
// repair line items and a three-point cost range. Rule evaluation is pure
// and total: every condition value either matches one table entry or is a
// no-op, and a missing sub-assessment means "unknown", never an error.
package rehab

import (
	"fmt"

	"property_underwriting/pkg/models"
)

// GenerateLineItems evaluates every rule table against the assessment and
// returns the priced items in a fixed order: structural, systems, interior,
// exterior, flagged issues, then soft costs. Equal inputs always produce the
// identical list.
func GenerateLineItems(a models.ConditionAssessment, sqft float64, units int) []models.LineItem {
	um := unitMultiplier(units)
	sm := sizeMultiplier(sqft)
	items := make([]models.LineItem, 0, 16)

	add := func(rule costRule, descOverride string) {
		cost := rule.base
		if rule.perSqft > 0 {
			if sqft <= 0 {
				return // sqft-linear item with unknown size prices nothing
			}
			cost = rule.perSqft * sqft
		}
		if rule.unitScaled {
			cost *= um
		}
		if rule.sizeScaled {
			cost *= sm
		}
		desc := rule.desc
		if descOverride != "" {
			desc = descOverride
		}
		items = append(items, models.LineItem{
			Category:    rule.category,
			Description: desc,
			Cost:        cost,
		})
	}

	addGrade := func(table gradeTable, g models.Grade) {
		if rule, ok := table[g]; ok {
			add(rule, "")
		}
	}

	// Structural
	if a.Foundation != nil {
		addGrade(foundationTable, a.Foundation.Grade)
	}

	// Systems
	if a.HVAC != nil {
		addGrade(hvacTable, a.HVAC.Grade)
	}
	if a.Plumbing != nil {
		addGrade(plumbingTable, a.Plumbing.Grade)
		if a.Plumbing.PipeMaterial == models.PipeGalvanized || a.Plumbing.PipeMaterial == models.PipePolybutylene {
			add(repipeRule, "")
		}
	}
	if a.Electrical != nil {
		addGrade(electricalTable, a.Electrical.Grade)
	}

	// Interior
	if a.Kitchen != nil {
		addGrade(kitchenTable, a.Kitchen.Grade)
	}
	for i, g := range a.Bathrooms {
		if rule, ok := bathroomTable[g]; ok {
			add(rule, fmt.Sprintf("Bathroom %d: %s", i+1, rule.desc))
		}
	}
	for i, g := range a.Bedrooms {
		if rule, ok := bedroomTable[g]; ok {
			add(rule, fmt.Sprintf("Bedroom %d: %s", i+1, rule.desc))
		}
	}
	if a.Interior != nil {
		addGrade(interiorTable, a.Interior.Grade)
	}

	// Exterior
	if a.Roof != nil {
		addGrade(roofTable, a.Roof.Grade)
	}
	if a.Exterior != nil {
		addGrade(sidingTable, a.Exterior.Siding)
		addGrade(exteriorPaintTable, a.Exterior.Paint)
		addGrade(windowTable, a.Exterior.Windows)
	}
	if a.Pool != nil && a.Pool.Present {
		addGrade(poolTable, a.Pool.Grade)
	}

	// Flagged issues: scale by both multipliers, fold any free-text detail
	// into the description.
	for _, f := range flagRules {
		flag := f.pick(&a)
		if !flag.Present {
			continue
		}
		desc := f.rule.desc
		if flag.Detail != "" {
			desc = fmt.Sprintf("%s (%s)", desc, truncate(flag.Detail, detailMaxLen))
		}
		items = append(items, models.LineItem{
			Category:    f.rule.category,
			Description: desc,
			Cost:        f.rule.base * um * sm,
		})
	}

	// Soft costs apply only when rule-driven hard costs exist.
	var hardTotal float64
	for _, it := range items {
		hardTotal += it.Cost
	}
	if hardTotal > 0 {
		items = append(items,
			models.LineItem{Category: models.CategorySoft, Description: "Permits and inspections", Cost: hardTotal * permitPct},
			models.LineItem{Category: models.CategorySoft, Description: "Contingency reserve", Cost: hardTotal * contingencyPct},
		)
	}

	return items
}

// MergeLineItems reconciles a freshly generated list with an existing one.
// Edited items keep their user-set cost; items the rules did not generate
// (custom additions) are preserved verbatim at the end.
func MergeLineItems(generated, existing []models.LineItem) []models.LineItem {
	merged := make([]models.LineItem, 0, len(generated)+len(existing))
	matched := make([]bool, len(existing))

	for _, gen := range generated {
		kept := gen
		for i, old := range existing {
			if matched[i] || old.Category != gen.Category || old.Description != gen.Description {
				continue
			}
			matched[i] = true
			if old.Edited {
				kept = old
			}
			break
		}
		merged = append(merged, kept)
	}
	for i, old := range existing {
		if !matched[i] {
			merged = append(merged, old)
		}
	}
	return merged
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
