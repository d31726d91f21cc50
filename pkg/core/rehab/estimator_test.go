package rehab

import (
	"math"
	"strings"
	"testing"

	"property_underwriting/pkg/models"
)

func cleanAssessment() models.ConditionAssessment {
	return models.ConditionAssessment{
		Overall:  models.GradeFair,
		Roof:     &models.RoofAssessment{Grade: models.GradeGood, AgeYears: 10},
		HVAC:     &models.SystemAssessment{Grade: models.GradeGood},
		Plumbing: &models.PlumbingAssessment{Grade: models.GradeGood, PipeMaterial: models.PipeCopper},
	}
}

func TestEstimateOrdering(t *testing.T) {
	items := []models.LineItem{
		{Category: models.CategoryStructural, Description: "Foundation repair", Cost: 12000},
		{Category: models.CategorySystems, Description: "HVAC replacement", Cost: 5500},
		{Category: models.CategoryInterior, Description: "Kitchen renovation", Cost: 9500},
	}
	r := EstimateRange(items, cleanAssessment())
	if !(r.Low <= r.Mid && r.Mid <= r.High) {
		t.Errorf("estimates out of order: low=%.2f mid=%.2f high=%.2f", r.Low, r.Mid, r.High)
	}
	if r.Low <= 0 {
		t.Errorf("expected a positive low estimate, got %.2f", r.Low)
	}
}

func TestVarianceBandsByCategory(t *testing.T) {
	a := cleanAssessment()
	items := []models.LineItem{{Category: models.CategoryStructural, Description: "Structural repairs", Cost: 10000}}
	r := EstimateRange(items, a)

	// Structural band is -20%/+40%, base contingency 10%/20%.
	wantLow := 10000 * 0.80 * 1.10
	wantHigh := 10000 * 1.40 * 1.20
	if math.Abs(r.Low-wantLow) > 1e-6 {
		t.Errorf("low: expected %.2f, got %.2f", wantLow, r.Low)
	}
	if math.Abs(r.High-wantHigh) > 1e-6 {
		t.Errorf("high: expected %.2f, got %.2f", wantHigh, r.High)
	}
	if math.Abs(r.Mid-(wantLow+wantHigh)/2) > 1e-6 {
		t.Errorf("mid should be the midpoint, got %.2f", r.Mid)
	}
}

func TestBaseContingencyOnCleanAssessment(t *testing.T) {
	r := EstimateRange([]models.LineItem{{Category: models.CategorySystems, Cost: 1000}}, cleanAssessment())
	if r.ContingencyLowPct != 10 || r.ContingencyHighPct != 20 {
		t.Errorf("clean assessment should keep base contingency, got %.0f/%.0f",
			r.ContingencyLowPct, r.ContingencyHighPct)
	}
	if len(r.UncertaintyFactors) != 0 {
		t.Errorf("clean assessment should record no factors, got %v", r.UncertaintyFactors)
	}
}

func TestContingencyCaps(t *testing.T) {
	// Every risk trigger at once must still respect the 15/45 caps.
	a := models.ConditionAssessment{
		Mold:             models.IssueFlag{Present: true},
		Termites:         models.IssueFlag{Present: true},
		WaterDamage:      models.IssueFlag{Present: true},
		FireDamage:       models.IssueFlag{Present: true},
		StructuralIssues: models.IssueFlag{Present: true},
		FloodZone:        true,
	}
	r := EstimateRange([]models.LineItem{{Category: models.CategoryInterior, Cost: 1000}}, a)
	if r.ContingencyLowPct != 15 {
		t.Errorf("low contingency should cap at 15, got %.0f", r.ContingencyLowPct)
	}
	if r.ContingencyHighPct != 45 {
		t.Errorf("high contingency should cap at 45, got %.0f", r.ContingencyHighPct)
	}
	if len(r.UncertaintyFactors) > 5 {
		t.Errorf("at most 5 factors should be reported, got %d", len(r.UncertaintyFactors))
	}
}

func TestStructuralFlagWidensHighOnly(t *testing.T) {
	a := cleanAssessment()
	a.StructuralIssues = models.IssueFlag{Present: true}
	r := EstimateRange([]models.LineItem{{Category: models.CategorySystems, Cost: 1000}}, a)
	if r.ContingencyLowPct != 10 {
		t.Errorf("structural flag should leave the low band alone, got %.0f", r.ContingencyLowPct)
	}
	if r.ContingencyHighPct != 30 {
		t.Errorf("structural flag should add 10 points to the high band, got %.0f", r.ContingencyHighPct)
	}
}

func TestUncertaintyFactorOrder(t *testing.T) {
	// Triggers are recorded in evaluation order: mold before the missing
	// roof assessment, which comes before flood zone.
	a := models.ConditionAssessment{
		Overall:   models.GradeFair,
		Mold:      models.IssueFlag{Present: true},
		FloodZone: true,
		HVAC:      &models.SystemAssessment{Grade: models.GradeGood},
		Plumbing:  &models.PlumbingAssessment{PipeMaterial: models.PipeCopper},
	}
	r := EstimateRange([]models.LineItem{{Category: models.CategoryInterior, Cost: 1000}}, a)
	if len(r.UncertaintyFactors) != 3 {
		t.Fatalf("expected 3 factors, got %v", r.UncertaintyFactors)
	}
	if !strings.Contains(r.UncertaintyFactors[0], "Mold") {
		t.Errorf("first factor should be mold, got %q", r.UncertaintyFactors[0])
	}
	if !strings.Contains(r.UncertaintyFactors[1], "Roof") {
		t.Errorf("second factor should be the unassessed roof, got %q", r.UncertaintyFactors[1])
	}
	if !strings.Contains(r.UncertaintyFactors[2], "flood") {
		t.Errorf("third factor should be the flood zone, got %q", r.UncertaintyFactors[2])
	}
}

func TestDriverRanking(t *testing.T) {
	items := []models.LineItem{
		{Category: models.CategoryInterior, Cost: 2000},
		{Category: models.CategoryStructural, Cost: 30000},
		{Category: models.CategorySystems, Cost: 8000},
	}
	r := EstimateRange(items, cleanAssessment())

	if len(r.Drivers) != 4 { // 3 categories + contingency row
		t.Fatalf("expected 4 drivers, got %d", len(r.Drivers))
	}
	if r.Drivers[0].Category != models.CategoryStructural {
		t.Errorf("largest high-cost bucket should rank first, got %s", r.Drivers[0].Category)
	}
	if r.Drivers[0].Confidence != models.ConfidenceLow {
		t.Errorf("structural drivers carry low confidence, got %s", r.Drivers[0].Confidence)
	}
	last := r.Drivers[len(r.Drivers)-1]
	if last.Category != models.CategoryContingency {
		t.Errorf("contingency row should come last, got %s", last.Category)
	}
	if last.HighCost <= 0 {
		t.Errorf("contingency high cost should be positive, got %.2f", last.HighCost)
	}
}

func TestDriverListCapped(t *testing.T) {
	items := []models.LineItem{
		{Category: models.CategoryStructural, Cost: 10000},
		{Category: models.CategorySystems, Cost: 9000},
		{Category: models.CategoryInterior, Cost: 8000},
		{Category: models.CategoryExterior, Cost: 7000},
		{Category: models.CategorySoft, Cost: 6000},
		{Category: "landscaping", Cost: 5000},
	}
	r := EstimateRange(items, cleanAssessment())
	if len(r.Drivers) != 6 { // 5 ranked + contingency row
		t.Errorf("ranked drivers should cap at 5, got %d total", len(r.Drivers))
	}
}

func TestEmptyItemsGiveZeroRange(t *testing.T) {
	r := EstimateRange(nil, models.ConditionAssessment{})
	if r.Low != 0 || r.Mid != 0 || r.High != 0 {
		t.Errorf("no items should estimate zero, got %.2f/%.2f/%.2f", r.Low, r.Mid, r.High)
	}
	if len(r.Drivers) != 0 {
		t.Errorf("no items should produce no drivers, got %d", len(r.Drivers))
	}
}
