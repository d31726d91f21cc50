// Package pipeline orchestrates a full underwriting run: valuation feeds the
// deal's ARV, the rehab estimate feeds the rehab budget, then every strategy
// is projected and the exit paths compared. The stages are the pure engines;
// the orchestrator only routes data between them and optionally persists the
// outcome.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"property_underwriting/pkg/core/comps"
	"property_underwriting/pkg/core/exit"
	"property_underwriting/pkg/core/proforma"
	"property_underwriting/pkg/core/rehab"
	"property_underwriting/pkg/core/report"
	"property_underwriting/pkg/core/store"
	"property_underwriting/pkg/models"
)

// DealSaver persists a finished run. *store.DealRepo implements it; tests
// inject their own.
type DealSaver interface {
	Save(ctx context.Context, rec *store.DealRecord) error
}

// Input is one complete underwriting request. Everything but Deal is
// optional; absent sections skip their stage.
type Input struct {
	Name        string                      `json:"name,omitempty"`
	Deal        models.DealInputs           `json:"deal"`
	Assumptions *models.GlobalAssumptions   `json:"assumptions,omitempty"`
	Subject     *models.SubjectProperty     `json:"subject,omitempty"`
	Comps       []models.ComparableProperty `json:"comps,omitempty"`
	Assessment  *models.ConditionAssessment `json:"assessment,omitempty"`

	// AsOf anchors the comp market-timing adjustment. Zero means now; pin it
	// for reproducible output.
	AsOf time.Time `json:"as_of,omitempty"`
}

// Output is everything the run produced. Deal echoes the effective inputs
// after ARV/rehab backfill.
type Output struct {
	Deal        models.DealInputs         `json:"deal"`
	Projections []*proforma.Result        `json:"projections"`
	ARV         *models.ARVResult         `json:"arv,omitempty"`
	LineItems   []models.LineItem         `json:"line_items,omitempty"`
	CostRange   *models.CostRangeResult   `json:"cost_range,omitempty"`
	Sell        *models.RehabExitScenario `json:"sell,omitempty"`
	Refi        *models.RehabExitScenario `json:"refi,omitempty"`
	Markdown    string                    `json:"markdown"`
}

// Underwriter runs the pipeline. The zero value works; set Saver to persist
// results and DefaultAssumptions to back requests that carry none.
type Underwriter struct {
	Saver              DealSaver
	DefaultAssumptions models.GlobalAssumptions
}

func NewUnderwriter(assumptions models.GlobalAssumptions) *Underwriter {
	return &Underwriter{DefaultAssumptions: assumptions}
}

// Run executes every applicable stage for one deal.
func (u *Underwriter) Run(ctx context.Context, in Input) (*Output, error) {
	a := u.DefaultAssumptions
	if in.Assumptions != nil {
		a = *in.Assumptions
	}
	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	out := &Output{}
	deal := in.Deal

	// 1. Valuation. A computed ARV backfills the deal when the caller gave
	// none, so the refi projection and exit comparison see it.
	if in.Subject != nil && len(in.Comps) > 0 {
		arv := comps.WeightedARV(*in.Subject, in.Comps, asOf)
		out.ARV = &arv
		if deal.ARV == 0 {
			deal.ARV = arv.ARV
		}
	}

	// 2. Rehab estimate. The mid estimate backfills the rehab budget.
	if in.Assessment != nil {
		items := rehab.GenerateLineItems(*in.Assessment, deal.Sqft, deal.UnitCount())
		cr := rehab.EstimateRange(items, *in.Assessment)
		out.LineItems = items
		out.CostRange = &cr
		if deal.RehabCost == 0 {
			deal.RehabCost = cr.Mid
		}
	}

	// 3. Projections. The refi strategy only makes sense with an ARV.
	strategies := []proforma.Strategy{proforma.StrategyLTR, proforma.StrategySection8, proforma.StrategySTR}
	if deal.ARV > 0 {
		strategies = append(strategies, proforma.StrategyRefi)
	}
	for _, s := range strategies {
		res, err := proforma.Project(proforma.Input{Deal: deal, Assumptions: a, Strategy: s})
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", s, err)
		}
		out.Projections = append(out.Projections, res)
	}

	// 4. Exit comparison, when the deal carries bridge terms.
	if deal.ARV > 0 && deal.BridgeLTCPct > 0 {
		sell, refi, err := exit.CompareBoth(deal)
		if err != nil {
			return nil, fmt.Errorf("exit comparison: %w", err)
		}
		out.Sell = sell
		out.Refi = refi
	}

	out.Deal = deal
	out.Markdown = report.BuildMarkdown(report.Data{
		Name:        in.Name,
		Deal:        deal,
		Assumptions: a,
		Projections: out.Projections,
		ARV:         out.ARV,
		CostRange:   out.CostRange,
		Sell:        out.Sell,
		Refi:        out.Refi,
	})

	if u.Saver != nil {
		if err := u.persist(ctx, in, out); err != nil {
			// Persistence failure does not invalidate the computation.
			slog.Warn("failed to persist underwriting run", "name", in.Name, "error", err)
		}
	}
	return out, nil
}

func (u *Underwriter) persist(ctx context.Context, in Input, out *Output) error {
	snapshot, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return u.Saver.Save(ctx, &store.DealRecord{
		ID:       uuid.New(),
		Name:     in.Name,
		Deal:     out.Deal,
		Analysis: snapshot,
	})
}
