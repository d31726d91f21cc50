package comps

import (
	"math"
	"testing"
	"time"

	"property_underwriting/pkg/models"
)

var asOf = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func subject() models.SubjectProperty {
	return models.SubjectProperty{
		Sqft:          1500,
		Beds:          3,
		Baths:         2,
		YearBuilt:     2005,
		LotSqft:       6000,
		ParkingSpaces: 2,
		PropertyType:  models.TypeSingleFamily,
	}
}

func identicalComp() models.ComparableProperty {
	return models.ComparableProperty{
		SoldPrice:     300000,
		Sqft:          1500,
		Beds:          3,
		Baths:         2,
		YearBuilt:     2005,
		LotSqft:       6000,
		ParkingSpaces: 2,
		PropertyType:  models.TypeSingleFamily,
		DaysOnMarket:  45,
		SoldDate:      asOf.AddDate(0, -1, 0),
	}
}

func TestIdenticalCompNoAdjustment(t *testing.T) {
	adj := Adjust(subject(), identicalComp(), asOf)
	if math.Abs(adj.AdjustedPrice-300000) > 1e-9 {
		t.Errorf("identical comp should not be adjusted, got %.2f", adj.AdjustedPrice)
	}
	// Exact type match earns a bonus, clamped at 100.
	if adj.Similarity != 100 {
		t.Errorf("expected similarity 100, got %.2f", adj.Similarity)
	}
}

func TestSqftAdjustment(t *testing.T) {
	comp := identicalComp()
	comp.Sqft = 1200
	comp.SoldPrice = 240000 // $200/sqft
	adj := Adjust(subject(), comp, asOf)

	// delta = 300 sqft at $200/sqft => +60,000
	if math.Abs(adj.Breakdown.Sqft-60000) > 1e-9 {
		t.Errorf("sqft adjustment: expected 60000, got %.2f", adj.Breakdown.Sqft)
	}
	// 25% size difference => 8.75 point penalty, plus the +8 match bonus.
	want := 100.0 - 8.75 + 8
	if math.Abs(adj.Similarity-want) > 1e-9 {
		t.Errorf("similarity: expected %.2f, got %.2f", want, adj.Similarity)
	}
}

func TestBedroomBathroomAdjustments(t *testing.T) {
	comp := identicalComp()
	comp.Beds = 2
	comp.Baths = 1
	adj := Adjust(subject(), comp, asOf)

	if math.Abs(adj.Breakdown.Bedrooms-0.11*300000) > 1e-9 {
		t.Errorf("bedroom adjustment: got %.2f", adj.Breakdown.Bedrooms)
	}
	if math.Abs(adj.Breakdown.Bathrooms-0.07*300000) > 1e-9 {
		t.Errorf("bathroom adjustment: got %.2f", adj.Breakdown.Bathrooms)
	}
	// 100 - 12 (bed) - 6 (bath) + 8 (type match) = 90
	if math.Abs(adj.Similarity-90) > 1e-9 {
		t.Errorf("similarity: expected 90, got %.2f", adj.Similarity)
	}
}

func TestAgeCodeThresholdCrossing(t *testing.T) {
	comp := identicalComp()
	comp.YearBuilt = 1995 // subject 2005: crosses the 2001 threshold
	adj := Adjust(subject(), comp, asOf)

	// 10 years at 0.8%/yr plus the 5% code-crossing bonus.
	want := 300000 * (0.008*10 + 0.05)
	if math.Abs(adj.Breakdown.Age-want) > 1e-9 {
		t.Errorf("age adjustment: expected %.2f, got %.2f", want, adj.Breakdown.Age)
	}
	// Gap of exactly 10 years stays inside the penalty-free window.
	if math.Abs(adj.Similarity-100) > 1e-9 {
		t.Errorf("no age penalty expected at 10-year gap, got %.2f", adj.Similarity)
	}
}

func TestPoolAndParkingMismatch(t *testing.T) {
	comp := identicalComp()
	comp.HasPool = true // subject has none: comp adjusted down
	comp.ParkingSpaces = 0
	adj := Adjust(subject(), comp, asOf)

	if math.Abs(adj.Breakdown.Pool+0.05*300000) > 1e-9 {
		t.Errorf("pool adjustment: expected %.2f, got %.2f", -0.05*300000, adj.Breakdown.Pool)
	}
	if math.Abs(adj.Breakdown.Parking-2*12500) > 1e-9 {
		t.Errorf("parking adjustment: expected 25000, got %.2f", adj.Breakdown.Parking)
	}
}

func TestCondoMismatch(t *testing.T) {
	comp := identicalComp()
	comp.PropertyType = models.TypeCondo
	adj := Adjust(subject(), comp, asOf)

	if math.Abs(adj.Breakdown.PropertyType-0.10*300000) > 1e-9 {
		t.Errorf("condo comp should be adjusted up 10%%, got %.2f", adj.Breakdown.PropertyType)
	}
	// 100 - 15, no match bonus.
	if math.Abs(adj.Similarity-85) > 1e-9 {
		t.Errorf("similarity: expected 85, got %.2f", adj.Similarity)
	}
}

func TestMarketTimingStaleSale(t *testing.T) {
	comp := identicalComp()
	comp.SoldDate = asOf.AddDate(-1, 0, 0) // ~12 months ago
	adj := Adjust(subject(), comp, asOf)

	months := asOf.Sub(comp.SoldDate).Hours() / 24 / daysPerMonth
	want := 300000 * 0.03 * (months / 12.0)
	if math.Abs(adj.Breakdown.MarketTiming-want) > 1e-6 {
		t.Errorf("timing adjustment: expected %.2f, got %.2f", want, adj.Breakdown.MarketTiming)
	}
	if adj.Breakdown.MarketTiming < 8500 || adj.Breakdown.MarketTiming > 9200 {
		t.Errorf("year-old sale on 300k should appreciate ~9000, got %.2f", adj.Breakdown.MarketTiming)
	}
}

func TestSimilarityBounds(t *testing.T) {
	// Every generated score must stay inside [0, 100] no matter how
	// dissimilar the comp is.
	comps := []models.ComparableProperty{
		identicalComp(),
		{SoldPrice: 100000, Sqft: 400, Beds: 0, Baths: 0, YearBuilt: 1950,
			PropertyType: models.TypeCondo, DaysOnMarket: 400,
			SoldDate: asOf.AddDate(-3, 0, 0)},
		{SoldPrice: 900000, Sqft: 5000, Beds: 8, Baths: 6, YearBuilt: 2024,
			LotSqft: 40000, HasPool: true, ParkingSpaces: 6},
	}
	for i, c := range comps {
		adj := Adjust(subject(), c, asOf)
		if adj.Similarity < 0 || adj.Similarity > 100 {
			t.Errorf("comp %d: similarity %.2f out of bounds", i, adj.Similarity)
		}
	}
}

func TestWeightedARVEmptySet(t *testing.T) {
	res := WeightedARV(subject(), nil, asOf)
	if res.ARV != 0 {
		t.Errorf("empty comp set must yield ARV 0, got %.2f", res.ARV)
	}
	if res.Adjustments == nil || len(res.Adjustments) != 0 {
		t.Errorf("empty comp set must yield an empty, non-nil adjustment list")
	}
}

func TestWeightedARVWeighting(t *testing.T) {
	// One perfect comp at 300k and one heavily penalized comp at 100k: the
	// weighted ARV must sit far closer to the perfect comp.
	far := models.ComparableProperty{
		SoldPrice: 100000, Sqft: 3000, Beds: 6, Baths: 5, YearBuilt: 1950,
		PropertyType: models.TypeCondo,
	}
	res := WeightedARV(subject(), []models.ComparableProperty{identicalComp(), far}, asOf)
	if len(res.Adjustments) != 2 {
		t.Fatalf("expected 2 adjustments")
	}
	mean := (res.Adjustments[0].AdjustedPrice + res.Adjustments[1].AdjustedPrice) / 2
	distWeighted := math.Abs(res.ARV - 300000)
	distMean := math.Abs(mean - 300000)
	if distWeighted >= distMean {
		t.Errorf("weighted ARV (%.2f) should beat the plain mean (%.2f)", res.ARV, mean)
	}
}

func TestWeightedARVZeroWeightFallback(t *testing.T) {
	// Comps engineered to score zero similarity: fallback is the plain
	// arithmetic mean, not an error or a zero.
	hopeless := models.ComparableProperty{
		SoldPrice: 200000, Sqft: 200, Beds: 9, Baths: 8, YearBuilt: 1940,
		PropertyType: models.TypeCondo, DaysOnMarket: 500,
		SoldDate: asOf.AddDate(-5, 0, 0),
	}
	list := []models.ComparableProperty{hopeless, hopeless}
	res := WeightedARV(subject(), list, asOf)
	for i, a := range res.Adjustments {
		if a.Similarity != 0 {
			t.Fatalf("comp %d: expected similarity 0, got %.2f", i, a.Similarity)
		}
	}
	want := (res.Adjustments[0].AdjustedPrice + res.Adjustments[1].AdjustedPrice) / 2
	if math.Abs(res.ARV-want) > 1e-9 {
		t.Errorf("zero-weight fallback should be the mean %.2f, got %.2f", want, res.ARV)
	}
}
