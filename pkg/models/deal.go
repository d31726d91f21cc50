// Package models defines the plain data records exchanged between the
// underwriting core and its collaborators (deal store, API handlers, CLI).
// Records are value types: the core never mutates its inputs.
package models

// ExitStrategy selects how a rehab project is unwound.
type ExitStrategy string

const (
	ExitSell ExitStrategy = "sell"
	ExitRefi ExitStrategy = "refi"
)

// UnitInput carries the income profile of one rental unit.
// Rent fields are mutually exclusive fallbacks: an explicit MarketRent wins
// over the voucher-derived value (VoucherRent / 1.1). STR units are modeled
// with annual revenue/expense pairs, never a monthly rent.
type UnitInput struct {
	Beds  int     `json:"beds"`
	Baths float64 `json:"baths"`

	MarketRent    float64 `json:"market_rent"`     // monthly
	VoucherRent   float64 `json:"voucher_rent"`    // monthly Section 8 payment standard
	PostRehabRent float64 `json:"post_rehab_rent"` // monthly, after renovation

	STRAnnualRevenue float64 `json:"str_annual_revenue"`
	STRAnnualExpense float64 `json:"str_annual_expense"`
}

// DealInputs is the immutable per-calculation acquisition record.
type DealInputs struct {
	PurchasePrice float64     `json:"purchase_price"`
	Sqft          float64     `json:"sqft"`
	Units         []UnitInput `json:"units"`

	// Acquisition loan terms
	InterestRate       float64 `json:"interest_rate"` // annual, decimal (0.07 = 7%)
	LoanTermYears      int     `json:"loan_term_years"`
	DownPaymentPct     float64 `json:"down_payment_pct"`
	AcquisitionCostPct float64 `json:"acquisition_cost_pct"`
	// AcquisitionCostOverride, when > 0, replaces the percentage estimate.
	AcquisitionCostOverride float64 `json:"acquisition_cost_override"`

	// Operating costs (annual)
	PropertyTaxes      float64 `json:"property_taxes"`
	Insurance          float64 `json:"insurance"`
	PostRehabTaxes     float64 `json:"post_rehab_taxes"`
	PostRehabInsurance float64 `json:"post_rehab_insurance"`

	// Rehab / bridge financing
	RehabCost               float64 `json:"rehab_cost"`
	RehabMonths             int     `json:"rehab_months"`
	RehabFinancingRate      float64 `json:"rehab_financing_rate"` // annual, decimal
	BridgeLTCPct            float64 `json:"bridge_ltc_pct"`       // loan-to-cost on purchase
	BridgeRehabBudgetPct    float64 `json:"bridge_rehab_budget_pct"`
	BridgeMaxARVLTVPct      float64 `json:"bridge_max_arv_ltv_pct"`
	BridgeEntryCostOverride float64 `json:"bridge_entry_cost_override"`

	// Exit
	ExitStrategy         ExitStrategy `json:"exit_strategy"`
	ExitRefiLTVPct       float64      `json:"exit_refi_ltv_pct"`
	ExitRefiRate         float64      `json:"exit_refi_rate"`
	ExitRefiTermYears    int          `json:"exit_refi_term_years"`
	DSCRAcquisitionCosts float64      `json:"dscr_acquisition_costs"` // override; 0 = 5% of ARV
	ARV                  float64      `json:"arv"`
	SellingCostPct       float64      `json:"selling_cost_pct"`
}

// UnitCount returns the number of rental units, never less than 1 so that
// per-unit scaling stays defined for single-family records with no unit rows.
func (d *DealInputs) UnitCount() int {
	if len(d.Units) == 0 {
		return 1
	}
	return len(d.Units)
}

// GlobalAssumptions is the shared, read-only escalation record applied to
// every projection run. One active record is assumed by convention.
type GlobalAssumptions struct {
	VacancyMonthsLTR      float64 `json:"vacancy_months_ltr" yaml:"vacancy_months_ltr"`
	VacancyMonthsSection8 float64 `json:"vacancy_months_section8" yaml:"vacancy_months_section8"`
	MaintenancePct        float64 `json:"maintenance_pct" yaml:"maintenance_pct"`
	RentGrowthPct         float64 `json:"rent_growth_pct" yaml:"rent_growth_pct"`
	AppreciationPct       float64 `json:"appreciation_pct" yaml:"appreciation_pct"`
	TaxGrowthPct          float64 `json:"tax_growth_pct" yaml:"tax_growth_pct"`
	InsuranceGrowthPct    float64 `json:"insurance_growth_pct" yaml:"insurance_growth_pct"`
}

// DefaultAssumptions mirrors the values seeded into a fresh install.
func DefaultAssumptions() GlobalAssumptions {
	return GlobalAssumptions{
		VacancyMonthsLTR:      1.0,
		VacancyMonthsSection8: 0.5,
		MaintenancePct:        0.08,
		RentGrowthPct:         0.03,
		AppreciationPct:       0.03,
		TaxGrowthPct:          0.02,
		InsuranceGrowthPct:    0.03,
	}
}
