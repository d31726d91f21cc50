package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"property_underwriting/pkg/core/proforma"
	"property_underwriting/pkg/core/store"
	"property_underwriting/pkg/models"
)

type memorySaver struct {
	saved []*store.DealRecord
}

func (m *memorySaver) Save(_ context.Context, rec *store.DealRecord) error {
	m.saved = append(m.saved, rec)
	return nil
}

func fullInput() Input {
	return Input{
		Name: "123 Main St duplex",
		Deal: models.DealInputs{
			PurchasePrice:        200000,
			Sqft:                 1800,
			Units:                []models.UnitInput{{MarketRent: 1100, VoucherRent: 1200}, {MarketRent: 1100, VoucherRent: 1200}},
			InterestRate:         0.06,
			LoanTermYears:        30,
			DownPaymentPct:       0.25,
			AcquisitionCostPct:   0.03,
			PropertyTaxes:        2400,
			Insurance:            1200,
			RehabMonths:          6,
			RehabFinancingRate:   0.12,
			BridgeLTCPct:         0.90,
			BridgeRehabBudgetPct: 1.0,
			SellingCostPct:       0.08,
			ExitRefiLTVPct:       0.75,
			ExitRefiRate:         0.07,
		},
		Subject: &models.SubjectProperty{Sqft: 1800, Beds: 4, Baths: 2, YearBuilt: 1995},
		Comps: []models.ComparableProperty{
			{SoldPrice: 310000, Sqft: 1800, Beds: 4, Baths: 2, YearBuilt: 1995},
			{SoldPrice: 330000, Sqft: 1900, Beds: 4, Baths: 2, YearBuilt: 1998},
		},
		Assessment: &models.ConditionAssessment{
			Overall: models.GradeFair,
			Kitchen: &models.GradeAssessment{Grade: models.GradePoor},
			HVAC:    &models.SystemAssessment{Grade: models.GradeFailed},
		},
		AsOf: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestRunBackfillsARVAndRehab(t *testing.T) {
	u := NewUnderwriter(models.DefaultAssumptions())
	out, err := u.Run(context.Background(), fullInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.ARV == nil || out.ARV.ARV <= 0 {
		t.Fatalf("expected a computed ARV")
	}
	if out.Deal.ARV != out.ARV.ARV {
		t.Errorf("computed ARV should backfill the deal: %.2f vs %.2f", out.Deal.ARV, out.ARV.ARV)
	}
	if out.CostRange == nil || out.CostRange.Mid <= 0 {
		t.Fatalf("expected a rehab estimate")
	}
	if out.Deal.RehabCost != out.CostRange.Mid {
		t.Errorf("mid estimate should backfill the rehab budget")
	}
}

func TestRunProjectsAllStrategiesWithARV(t *testing.T) {
	u := NewUnderwriter(models.DefaultAssumptions())
	out, err := u.Run(context.Background(), fullInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Projections) != 4 {
		t.Fatalf("expected 4 strategies with an ARV present, got %d", len(out.Projections))
	}
	last := out.Projections[3]
	if last.Strategy != proforma.StrategyRefi {
		t.Errorf("refi strategy should run last, got %s", last.Strategy)
	}
	if out.Sell == nil || out.Refi == nil {
		t.Errorf("bridge terms present, expected both exit branches")
	}
	if !strings.Contains(out.Markdown, "# 123 Main St duplex") {
		t.Errorf("markdown report should carry the deal name")
	}
}

func TestRunWithoutOptionalSections(t *testing.T) {
	in := fullInput()
	in.Subject = nil
	in.Comps = nil
	in.Assessment = nil
	in.Deal.BridgeLTCPct = 0

	u := NewUnderwriter(models.DefaultAssumptions())
	out, err := u.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ARV != nil || out.CostRange != nil || out.Sell != nil || out.Refi != nil {
		t.Errorf("skipped stages should produce no output")
	}
	if len(out.Projections) != 3 {
		t.Errorf("without an ARV only 3 strategies run, got %d", len(out.Projections))
	}
}

func TestRunPersistsSnapshot(t *testing.T) {
	saver := &memorySaver{}
	u := NewUnderwriter(models.DefaultAssumptions())
	u.Saver = saver

	if _, err := u.Run(context.Background(), fullInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saver.saved) != 1 {
		t.Fatalf("expected 1 saved record, got %d", len(saver.saved))
	}
	rec := saver.saved[0]
	if rec.Name != "123 Main St duplex" || len(rec.Analysis) == 0 {
		t.Errorf("saved record incomplete: %+v", rec)
	}
	if rec.Deal.ARV <= 0 {
		t.Errorf("saved deal should carry the backfilled ARV")
	}
}

func TestRunDeterministicWithPinnedAsOf(t *testing.T) {
	u := NewUnderwriter(models.DefaultAssumptions())
	a, err := u.Run(context.Background(), fullInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := u.Run(context.Background(), fullInput())
	if a.Markdown != b.Markdown {
		t.Errorf("pinned as-of date must make the full run reproducible")
	}
	if a.ARV.ARV != b.ARV.ARV {
		t.Errorf("ARV differs between identical runs")
	}
}
