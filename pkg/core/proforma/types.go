package proforma

import "property_underwriting/pkg/models"

// Strategy identifies one of the four income models a deal can be run under.
type Strategy string

const (
	StrategyLTR      Strategy = "ltr"
	StrategySection8 Strategy = "section8"
	StrategySTR      Strategy = "str"
	StrategyRefi     Strategy = "rehab_refi"
)

// AllStrategies lists the supported strategies in presentation order.
var AllStrategies = []Strategy{StrategyLTR, StrategySection8, StrategySTR, StrategyRefi}

// Input is everything one projection run consumes. The deal and assumptions
// records are read, never written.
type Input struct {
	Deal        models.DealInputs        `json:"deal"`
	Assumptions models.GlobalAssumptions `json:"assumptions"`
	Strategy    Strategy                 `json:"strategy"`

	// Years defaults to 30 when zero.
	Years int `json:"years,omitempty"`

	// ExcludeVacancy drops the vacancy deduction entirely (stress-testing
	// mode). STR runs never deduct vacancy regardless of this flag.
	ExcludeVacancy bool `json:"exclude_vacancy,omitempty"`

	// CashInvestedOverride replaces the computed cash basis when > 0. The
	// rehab/refi variant uses this to carry the funds gap from the exit
	// comparison instead of the nominal down payment.
	CashInvestedOverride float64 `json:"cash_invested_override,omitempty"`
}

// YearProjection is one immutable row of the 30-year pro forma.
type YearProjection struct {
	Year         int     `json:"year"`
	GrossIncome  float64 `json:"gross_income"`
	VacancyLoss  float64 `json:"vacancy_loss"`
	Maintenance  float64 `json:"maintenance"`
	Taxes        float64 `json:"taxes"`
	Insurance    float64 `json:"insurance"`
	NOI          float64 `json:"noi"`
	DebtService  float64 `json:"debt_service"`
	CashFlow     float64 `json:"cash_flow"`
	Appreciation float64 `json:"appreciation"`

	PropertyValue float64 `json:"property_value"`
	LoanBalance   float64 `json:"loan_balance"`
	Equity        float64 `json:"equity"`

	AnnualReturn       float64 `json:"annual_return"`
	CumulativeCashFlow float64 `json:"cumulative_cash_flow"`
	CumulativeReturn   float64 `json:"cumulative_return"`
}

// Summary carries the year-1 ratios an underwriter screens on.
type Summary struct {
	CapRate        float64 `json:"cap_rate"`
	DSCR           float64 `json:"dscr"`
	CashOnCash     float64 `json:"cash_on_cash"`
	LoanAmount     float64 `json:"loan_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
	CashInvested   float64 `json:"cash_invested"`
	BasisValue     float64 `json:"basis_value"`
}

// Result is the full output of one strategy run.
type Result struct {
	Strategy Strategy         `json:"strategy"`
	Years    []YearProjection `json:"years"`
	Summary  Summary          `json:"summary"`
}
