package models

// LineItemCategory buckets repair items for variance banding and reporting.
type LineItemCategory string

const (
	CategoryStructural LineItemCategory = "structural"
	CategorySystems    LineItemCategory = "systems"
	CategoryInterior   LineItemCategory = "interior"
	CategoryExterior   LineItemCategory = "exterior"
	// CategorySoft holds the permit and contingency-reserve items appended
	// after the rule-driven hard costs.
	CategorySoft LineItemCategory = "soft"
	// CategoryContingency only appears in CostDriver rankings, never on a
	// line item: it is the estimator's risk-derived percentage, distinct
	// from the flat contingency-reserve line.
	CategoryContingency LineItemCategory = "contingency"
)

// LineItem is one priced repair or replacement entry. Edited marks items a
// user has touched; regeneration must preserve those verbatim.
type LineItem struct {
	Category    LineItemCategory `json:"category"`
	Description string           `json:"description"`
	Cost        float64          `json:"cost"`
	Edited      bool             `json:"edited"`
}

// ConfidenceLevel labels how tight a cost driver's variance band is.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// CostDriver is one ranked row of the cost-range output.
type CostDriver struct {
	Category    LineItemCategory `json:"category"`
	LowCost     float64          `json:"low_cost"`
	HighCost    float64          `json:"high_cost"`
	Confidence  ConfidenceLevel  `json:"confidence"`
	Description string           `json:"description"`
}

// CostRangeResult is the three-point rehab estimate with its risk context.
type CostRangeResult struct {
	Low                float64      `json:"low"`
	Mid                float64      `json:"mid"`
	High               float64      `json:"high"`
	ContingencyLowPct  float64      `json:"contingency_low_pct"`
	ContingencyHighPct float64      `json:"contingency_high_pct"`
	Drivers            []CostDriver `json:"drivers"`
	UncertaintyFactors []string     `json:"uncertainty_factors"`
}

// SellOutcome is the outright-sale branch of a rehab exit.
type SellOutcome struct {
	SaleProceeds float64 `json:"sale_proceeds"`
	SellingCosts float64 `json:"selling_costs"`
	NetProfit    float64 `json:"net_profit"`
}

// RefiOutcome is the cash-out refinance (BRRRR) branch.
type RefiOutcome struct {
	NewLoanAmount     float64 `json:"new_loan_amount"`
	CashOut           float64 `json:"cash_out"`
	CapitalLeftInDeal float64 `json:"capital_left_in_deal"` // the funds gap: positive = shortfall
	EquityRetained    float64 `json:"equity_retained"`
	AnnualDebtService float64 `json:"annual_debt_service"`
}

// RehabExitScenario is one evaluated exit path. Exactly one of Sell/Refi is
// populated according to Exit.
type RehabExitScenario struct {
	Exit              ExitStrategy `json:"exit"`
	BridgeLoanAmount  float64      `json:"bridge_loan_amount"`
	EntryCost         float64      `json:"entry_cost"`
	ExitCost          float64      `json:"exit_cost"`
	CarryingCosts     float64      `json:"carrying_costs"`
	TotalCashInvested float64      `json:"total_cash_invested"`

	Sell *SellOutcome `json:"sell,omitempty"`
	Refi *RefiOutcome `json:"refi,omitempty"`
}
