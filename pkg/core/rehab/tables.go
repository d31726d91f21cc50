package rehab

import "property_underwriting/pkg/models"

// Scaling thresholds shared by the rule tables.
const (
	unitScaleStep = 0.7 // extra share of base cost per additional unit

	smallSqft      = 1200
	largeSqft      = 2500
	smallSizeScale = 0.85
	largeSizeScale = 1.15

	permitPct      = 0.05
	contingencyPct = 0.10

	detailMaxLen = 60
)

// costRule is one declarative pricing entry: a flat base or a per-sqft rate,
// plus which scaling functions apply. Keeping the tables data-only lets the
// scaling logic be tested independently.
type costRule struct {
	category   models.LineItemCategory
	desc       string
	base       float64 // flat cost
	perSqft    float64 // when > 0, cost = perSqft * sqft instead of base
	unitScaled bool    // apply the unit multiplier
	sizeScaled bool    // apply the size multiplier
}

// gradeTable maps a condition grade to its rule. Grades at or above "good",
// and the unset grade, have no entry: absence means no action.
type gradeTable map[models.Grade]costRule

var roofTable = gradeTable{
	models.GradeFailed: {category: models.CategoryExterior, desc: "Full roof replacement", perSqft: 6.50},
	models.GradePoor:   {category: models.CategoryExterior, desc: "Roof replacement", perSqft: 5.50},
	models.GradeFair:   {category: models.CategoryExterior, desc: "Roof repairs and flashing", base: 1800},
}

var foundationTable = gradeTable{
	models.GradeFailed: {category: models.CategoryStructural, desc: "Foundation stabilization and repair", base: 25000, sizeScaled: true},
	models.GradePoor:   {category: models.CategoryStructural, desc: "Foundation repair", base: 12000, sizeScaled: true},
	models.GradeFair:   {category: models.CategoryStructural, desc: "Foundation crack sealing", base: 4000, sizeScaled: true},
}

var hvacTable = gradeTable{
	models.GradeFailed: {category: models.CategorySystems, desc: "HVAC system replacement", base: 7500, unitScaled: true},
	models.GradePoor:   {category: models.CategorySystems, desc: "HVAC replacement", base: 5500, unitScaled: true},
	models.GradeFair:   {category: models.CategorySystems, desc: "HVAC service and minor repairs", base: 1200, unitScaled: true},
}

var plumbingTable = gradeTable{
	models.GradeFailed: {category: models.CategorySystems, desc: "Full repipe", base: 12000, unitScaled: true, sizeScaled: true},
	models.GradePoor:   {category: models.CategorySystems, desc: "Major plumbing repairs", base: 6000, unitScaled: true, sizeScaled: true},
	models.GradeFair:   {category: models.CategorySystems, desc: "Plumbing fixture repairs", base: 1500, unitScaled: true},
}

// repipeRule fires on hazardous pipe material regardless of plumbing grade.
var repipeRule = costRule{category: models.CategorySystems, desc: "Repipe (hazardous supply lines)", base: 8000, unitScaled: true, sizeScaled: true}

var electricalTable = gradeTable{
	models.GradeFailed: {category: models.CategorySystems, desc: "Full rewire", base: 9500, unitScaled: true, sizeScaled: true},
	models.GradePoor:   {category: models.CategorySystems, desc: "Panel upgrade and circuit repairs", base: 4500, unitScaled: true},
	models.GradeFair:   {category: models.CategorySystems, desc: "Electrical repairs", base: 1200, unitScaled: true},
}

var kitchenTable = gradeTable{
	models.GradeFailed: {category: models.CategoryInterior, desc: "Full kitchen remodel", base: 18000, unitScaled: true},
	models.GradePoor:   {category: models.CategoryInterior, desc: "Kitchen renovation", base: 9500, unitScaled: true},
	models.GradeFair:   {category: models.CategoryInterior, desc: "Kitchen refresh", base: 3500, unitScaled: true},
}

var bathroomTable = gradeTable{
	models.GradeFailed: {category: models.CategoryInterior, desc: "Bathroom gut renovation", base: 9000},
	models.GradePoor:   {category: models.CategoryInterior, desc: "Bathroom renovation", base: 5000},
	models.GradeFair:   {category: models.CategoryInterior, desc: "Bathroom refresh", base: 1800},
}

var bedroomTable = gradeTable{
	models.GradeFailed: {category: models.CategoryInterior, desc: "Bedroom rebuild", base: 2500},
	models.GradePoor:   {category: models.CategoryInterior, desc: "Bedroom renovation", base: 1400},
	models.GradeFair:   {category: models.CategoryInterior, desc: "Bedroom refresh", base: 700},
}

var interiorTable = gradeTable{
	models.GradeFailed: {category: models.CategoryInterior, desc: "Full interior paint and flooring", base: 12000, unitScaled: true, sizeScaled: true},
	models.GradePoor:   {category: models.CategoryInterior, desc: "Interior paint and flooring", base: 7000, unitScaled: true, sizeScaled: true},
	models.GradeFair:   {category: models.CategoryInterior, desc: "Interior touch-up", base: 3000, unitScaled: true, sizeScaled: true},
}

var sidingTable = gradeTable{
	models.GradeFailed: {category: models.CategoryExterior, desc: "Siding replacement", perSqft: 6.00},
	models.GradePoor:   {category: models.CategoryExterior, desc: "Siding repair and replacement", perSqft: 4.00},
	models.GradeFair:   {category: models.CategoryExterior, desc: "Siding repairs", base: 2000},
}

var exteriorPaintTable = gradeTable{
	models.GradeFailed: {category: models.CategoryExterior, desc: "Exterior paint", perSqft: 3.00},
	models.GradePoor:   {category: models.CategoryExterior, desc: "Exterior paint", perSqft: 3.00},
	models.GradeFair:   {category: models.CategoryExterior, desc: "Exterior paint touch-up", perSqft: 1.50},
}

var windowTable = gradeTable{
	models.GradeFailed: {category: models.CategoryExterior, desc: "Window replacement", perSqft: 3.00},
	models.GradePoor:   {category: models.CategoryExterior, desc: "Partial window replacement", perSqft: 1.80},
}

var poolTable = gradeTable{
	models.GradeFailed: {category: models.CategoryExterior, desc: "Pool resurfacing and equipment", base: 15000},
	models.GradePoor:   {category: models.CategoryExterior, desc: "Pool equipment replacement", base: 8000},
	models.GradeFair:   {category: models.CategoryExterior, desc: "Pool service and minor repairs", base: 4000},
}

// flagRule prices a flagged issue. Flag items scale by both multipliers.
type flagRule struct {
	category models.LineItemCategory
	desc     string
	base     float64
}

var flagRules = []struct {
	pick func(a *models.ConditionAssessment) models.IssueFlag
	rule flagRule
}{
	{func(a *models.ConditionAssessment) models.IssueFlag { return a.Mold },
		flagRule{models.CategoryInterior, "Mold remediation", 6000}},
	{func(a *models.ConditionAssessment) models.IssueFlag { return a.Termites },
		flagRule{models.CategoryStructural, "Termite treatment and damage repair", 4500}},
	{func(a *models.ConditionAssessment) models.IssueFlag { return a.WaterDamage },
		flagRule{models.CategoryInterior, "Water damage restoration", 7500}},
	{func(a *models.ConditionAssessment) models.IssueFlag { return a.FireDamage },
		flagRule{models.CategoryStructural, "Fire damage restoration", 25000}},
	{func(a *models.ConditionAssessment) models.IssueFlag { return a.StructuralIssues },
		flagRule{models.CategoryStructural, "Structural repairs", 20000}},
	{func(a *models.ConditionAssessment) models.IssueFlag { return a.CodeViolations },
		flagRule{models.CategorySystems, "Code violation remediation", 8000}},
}

// unitMultiplier scales systems/interior work that repeats per rental unit.
// Additional units cost 70% of the first.
func unitMultiplier(units int) float64 {
	if units < 1 {
		units = 1
	}
	return 1 + float64(units-1)*unitScaleStep
}

// sizeMultiplier nudges flat base costs for unusually small or large
// buildings. Unknown size (0) leaves costs unscaled.
func sizeMultiplier(sqft float64) float64 {
	switch {
	case sqft <= 0:
		return 1.0
	case sqft < smallSqft:
		return smallSizeScale
	case sqft > largeSqft:
		return largeSizeScale
	default:
		return 1.0
	}
}
