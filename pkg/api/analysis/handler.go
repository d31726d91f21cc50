// Package analysis exposes the underwriting computations over HTTP. Handlers
// decode plain-data requests, run the pure engines, and encode plain-data
// responses; persistence and caching are optional wiring.
package analysis

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"property_underwriting/pkg/core/comps"
	"property_underwriting/pkg/core/exit"
	"property_underwriting/pkg/core/pipeline"
	"property_underwriting/pkg/core/proforma"
	"property_underwriting/pkg/core/rehab"
	"property_underwriting/pkg/core/store"
	"property_underwriting/pkg/models"
)

var (
	resultCache        store.ResultCache
	defaultAssumptions models.GlobalAssumptions
	underwriter        *pipeline.Underwriter
)

// InitHandler wires the optional result cache and the fallback assumptions
// used when a request carries none.
func InitHandler(cache store.ResultCache, assumptions models.GlobalAssumptions) {
	resultCache = cache
	defaultAssumptions = assumptions
	underwriter = pipeline.NewUnderwriter(assumptions)
}

// SetDealSaver makes the full-run endpoint persist each result.
func SetDealSaver(s pipeline.DealSaver) {
	if underwriter != nil {
		underwriter.Saver = s
	}
}

func cors(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// cached runs compute through the result cache when one is configured. The
// engines are deterministic, so the key fully identifies the result.
func cached(ctx context.Context, kind string, req any, compute func() (any, error)) (json.RawMessage, error) {
	if resultCache == nil {
		v, err := compute()
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	}

	key, err := store.CacheKey(kind, req)
	if err == nil {
		if hit, ok := resultCache.Get(ctx, key); ok {
			slog.Debug("result cache hit", "kind", kind)
			return json.RawMessage(hit), nil
		}
	}

	v, err := compute()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if key != "" {
		if err := resultCache.Set(ctx, key, string(data)); err != nil {
			slog.Warn("result cache write failed", "kind", kind, "error", err)
		}
	}
	return data, nil
}

// ---------------------------------------------------------------------------
// Proforma
// ---------------------------------------------------------------------------

type ProformaRequest struct {
	Deal           models.DealInputs         `json:"deal"`
	Assumptions    *models.GlobalAssumptions `json:"assumptions,omitempty"`
	Strategies     []proforma.Strategy       `json:"strategies,omitempty"`
	Years          int                       `json:"years,omitempty"`
	ExcludeVacancy bool                      `json:"exclude_vacancy,omitempty"`
}

func HandleProforma(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	var req ProformaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a := defaultAssumptions
	if req.Assumptions != nil {
		a = *req.Assumptions
	}

	data, err := cached(r.Context(), "proforma", req, func() (any, error) {
		strategies := req.Strategies
		if len(strategies) == 0 {
			strategies = proforma.AllStrategies
		}
		results := make([]*proforma.Result, 0, len(strategies))
		for _, s := range strategies {
			res, err := proforma.Project(proforma.Input{
				Deal:           req.Deal,
				Assumptions:    a,
				Strategy:       s,
				Years:          req.Years,
				ExcludeVacancy: req.ExcludeVacancy,
			})
			if err != nil {
				return nil, err
			}
			results = append(results, res)
		}
		return results, nil
	})
	if err != nil {
		slog.Warn("proforma request failed", "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeRaw(w, data)
}

// ---------------------------------------------------------------------------
// ARV
// ---------------------------------------------------------------------------

type ARVRequest struct {
	Subject models.SubjectProperty      `json:"subject"`
	Comps   []models.ComparableProperty `json:"comps"`
	// AsOf anchors the market-timing adjustment; zero means today. Callers
	// wanting reproducible output must pin it.
	AsOf time.Time `json:"as_of,omitempty"`
}

func HandleARV(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	var req ARVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.AsOf.IsZero() {
		req.AsOf = time.Now()
	}
	result := comps.WeightedARV(req.Subject, req.Comps, req.AsOf)
	writeJSON(w, result)
}

// ---------------------------------------------------------------------------
// Rehab
// ---------------------------------------------------------------------------

type RehabRequest struct {
	Assessment models.ConditionAssessment `json:"assessment"`
	Sqft       float64                    `json:"sqft"`
	Units      int                        `json:"units"`
	// ExistingItems carries the caller's current list so user edits and
	// custom items survive regeneration.
	ExistingItems []models.LineItem `json:"existing_items,omitempty"`
}

type RehabResponse struct {
	LineItems []models.LineItem      `json:"line_items"`
	CostRange models.CostRangeResult `json:"cost_range"`
}

func HandleRehab(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	var req RehabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	items := rehab.GenerateLineItems(req.Assessment, req.Sqft, req.Units)
	if len(req.ExistingItems) > 0 {
		items = rehab.MergeLineItems(items, req.ExistingItems)
	}
	writeJSON(w, RehabResponse{
		LineItems: items,
		CostRange: rehab.EstimateRange(items, req.Assessment),
	})
}

// ---------------------------------------------------------------------------
// Exit
// ---------------------------------------------------------------------------

type ExitRequest struct {
	Deal models.DealInputs `json:"deal"`
}

type ExitResponse struct {
	Sell *models.RehabExitScenario `json:"sell"`
	Refi *models.RehabExitScenario `json:"refi"`
}

func HandleExit(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	var req ExitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sell, refi, err := exit.CompareBoth(req.Deal)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, ExitResponse{Sell: sell, Refi: refi})
}

// ---------------------------------------------------------------------------
// Full underwriting run
// ---------------------------------------------------------------------------

// HandleFull runs the whole pipeline for one deal: the valuation feeds the
// deal's ARV when it has none, the rehab estimate feeds the rehab budget,
// and the exit comparison runs when bridge terms are present.
func HandleFull(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	var req pipeline.Input
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out, err := underwriter.Run(r.Context(), req)
	if err != nil {
		slog.Warn("full underwriting run failed", "name", req.Name, "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, out)
}

func writeRaw(w http.ResponseWriter, data json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
