package rehab

import (
	"math"
	"strings"
	"testing"

	"property_underwriting/pkg/models"
)

func TestEmptyAssessmentProducesNoItems(t *testing.T) {
	// Rules must be total: an assessment with every field unset yields no
	// items and no error.
	items := GenerateLineItems(models.ConditionAssessment{}, 1800, 2)
	if len(items) != 0 {
		t.Errorf("expected no items for an empty assessment, got %d", len(items))
	}
}

func TestGoodConditionsGenerateNoCost(t *testing.T) {
	a := models.ConditionAssessment{
		Overall:    models.GradeGood,
		Roof:       &models.RoofAssessment{Grade: models.GradeExcellent},
		Foundation: &models.GradeAssessment{Grade: models.GradeGood},
		HVAC:       &models.SystemAssessment{Grade: models.GradeGood},
		Kitchen:    &models.GradeAssessment{Grade: models.GradeExcellent},
		Bathrooms:  []models.Grade{models.GradeGood, models.GradeGood},
	}
	items := GenerateLineItems(a, 1800, 1)
	if len(items) != 0 {
		t.Errorf("at/above-good conditions must price nothing, got %d items", len(items))
	}
}

func TestUnitMultiplier(t *testing.T) {
	cases := []struct {
		units int
		want  float64
	}{
		{0, 1.0}, // guarded up to 1
		{1, 1.0},
		{2, 1.7},
		{4, 3.1},
	}
	for _, tc := range cases {
		if got := unitMultiplier(tc.units); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("unitMultiplier(%d): expected %.2f, got %.2f", tc.units, tc.want, got)
		}
	}
}

func TestSizeMultiplier(t *testing.T) {
	cases := []struct {
		sqft float64
		want float64
	}{
		{0, 1.0}, // unknown size: no scaling
		{900, 0.85},
		{1200, 1.0},
		{2000, 1.0},
		{2500, 1.0},
		{3200, 1.15},
	}
	for _, tc := range cases {
		if got := sizeMultiplier(tc.sqft); got != tc.want {
			t.Errorf("sizeMultiplier(%.0f): expected %.2f, got %.2f", tc.sqft, tc.want, got)
		}
	}
}

func TestRoofScalesWithSqft(t *testing.T) {
	a := models.ConditionAssessment{Roof: &models.RoofAssessment{Grade: models.GradePoor}}
	items := GenerateLineItems(a, 2000, 1)

	var roof *models.LineItem
	for i := range items {
		if strings.Contains(items[i].Description, "Roof") {
			roof = &items[i]
		}
	}
	if roof == nil {
		t.Fatalf("expected a roof item")
	}
	// 2000 sqft at $5.50/sqft, no multipliers for sqft-linear items.
	if math.Abs(roof.Cost-2000*5.50) > 1e-9 {
		t.Errorf("roof cost: expected %.2f, got %.2f", 2000*5.50, roof.Cost)
	}
}

func TestSystemsScaleWithUnits(t *testing.T) {
	a := models.ConditionAssessment{HVAC: &models.SystemAssessment{Grade: models.GradeFailed}}
	single := GenerateLineItems(a, 1800, 1)
	duplex := GenerateLineItems(a, 1800, 2)

	if len(single) == 0 || len(duplex) == 0 {
		t.Fatalf("expected HVAC items")
	}
	// Duplex HVAC = base * 1.7
	if math.Abs(duplex[0].Cost-single[0].Cost*1.7) > 1e-9 {
		t.Errorf("2-unit HVAC should cost 1.7x: %.2f vs %.2f", duplex[0].Cost, single[0].Cost)
	}
}

func TestHazardousPipesForceRepipe(t *testing.T) {
	a := models.ConditionAssessment{
		Plumbing: &models.PlumbingAssessment{Grade: models.GradeGood, PipeMaterial: models.PipeGalvanized},
	}
	items := GenerateLineItems(a, 1800, 1)
	found := false
	for _, it := range items {
		if strings.Contains(it.Description, "Repipe") {
			found = true
		}
	}
	if !found {
		t.Errorf("galvanized pipes must trigger a repipe item even at a good grade")
	}
}

func TestPerBathroomItems(t *testing.T) {
	a := models.ConditionAssessment{
		Bathrooms: []models.Grade{models.GradeGood, models.GradePoor, models.GradeFailed},
	}
	items := GenerateLineItems(a, 1800, 1)

	var bathItems []models.LineItem
	for _, it := range items {
		if strings.HasPrefix(it.Description, "Bathroom") {
			bathItems = append(bathItems, it)
		}
	}
	if len(bathItems) != 2 {
		t.Fatalf("expected 2 bathroom items (good one skipped), got %d", len(bathItems))
	}
	if !strings.HasPrefix(bathItems[0].Description, "Bathroom 2:") {
		t.Errorf("bathroom items should be indexed, got %q", bathItems[0].Description)
	}
}

func TestFlaggedIssueDetailTruncated(t *testing.T) {
	long := strings.Repeat("severe mold behind drywall in the northeast corner ", 3)
	a := models.ConditionAssessment{
		Mold: models.IssueFlag{Present: true, Detail: long},
	}
	items := GenerateLineItems(a, 1800, 1)
	if len(items) == 0 {
		t.Fatalf("expected a mold item")
	}
	if !strings.Contains(items[0].Description, "...") {
		t.Errorf("long detail should be truncated: %q", items[0].Description)
	}
}

func TestFlaggedIssueScalesByBothMultipliers(t *testing.T) {
	a := models.ConditionAssessment{StructuralIssues: models.IssueFlag{Present: true}}
	items := GenerateLineItems(a, 3000, 3) // size 1.15, units 1 + 2*0.7 = 2.4
	if len(items) < 1 {
		t.Fatalf("expected a structural item")
	}
	want := 20000 * 2.4 * 1.15
	if math.Abs(items[0].Cost-want) > 1e-9 {
		t.Errorf("structural flag cost: expected %.2f, got %.2f", want, items[0].Cost)
	}
}

func TestSoftCostsAppended(t *testing.T) {
	a := models.ConditionAssessment{Kitchen: &models.GradeAssessment{Grade: models.GradePoor}}
	items := GenerateLineItems(a, 1800, 1)

	if len(items) != 3 {
		t.Fatalf("expected kitchen + 2 soft items, got %d", len(items))
	}
	kitchen := items[0].Cost
	permits := items[1]
	reserve := items[2]
	if permits.Category != models.CategorySoft || reserve.Category != models.CategorySoft {
		t.Errorf("soft items should carry the soft category")
	}
	if math.Abs(permits.Cost-kitchen*0.05) > 1e-9 {
		t.Errorf("permits should be 5%% of hard costs: %.2f", permits.Cost)
	}
	if math.Abs(reserve.Cost-kitchen*0.10) > 1e-9 {
		t.Errorf("reserve should be 10%% of hard costs: %.2f", reserve.Cost)
	}
}

func TestGenerateDeterminism(t *testing.T) {
	a := models.ConditionAssessment{
		Roof:      &models.RoofAssessment{Grade: models.GradePoor},
		HVAC:      &models.SystemAssessment{Grade: models.GradeFailed},
		Kitchen:   &models.GradeAssessment{Grade: models.GradeFair},
		Bathrooms: []models.Grade{models.GradePoor},
		Mold:      models.IssueFlag{Present: true},
	}
	x := GenerateLineItems(a, 1800, 2)
	y := GenerateLineItems(a, 1800, 2)
	if len(x) != len(y) {
		t.Fatalf("non-deterministic item count")
	}
	for i := range x {
		if x[i] != y[i] {
			t.Errorf("item %d differs between identical runs", i)
		}
	}
}

func TestMergePreservesEditedAndCustomItems(t *testing.T) {
	a := models.ConditionAssessment{Kitchen: &models.GradeAssessment{Grade: models.GradePoor}}
	generated := GenerateLineItems(a, 1800, 1)

	edited := generated[0]
	edited.Cost = 12345
	edited.Edited = true
	custom := models.LineItem{Category: models.CategoryInterior, Description: "Custom cabinetry", Cost: 4000}

	merged := MergeLineItems(generated, []models.LineItem{edited, custom})

	if merged[0].Cost != 12345 || !merged[0].Edited {
		t.Errorf("edited item should survive regeneration, got %+v", merged[0])
	}
	last := merged[len(merged)-1]
	if last.Description != "Custom cabinetry" {
		t.Errorf("custom item should be preserved, got %+v", last)
	}
}
