package proforma

import (
	"fmt"
	"math"

	"property_underwriting/pkg/core/loan"
	"property_underwriting/pkg/models"
)

// DefaultYears is the projection horizon when the caller does not choose one.
const DefaultYears = 30

// InvalidProjectionInputError reports a structurally impossible projection
// input, e.g. a non-positive value basis or cash investment that a ratio
// would divide by.
type InvalidProjectionInputError struct {
	Field  string
	Reason string
}

func (e *InvalidProjectionInputError) Error() string {
	return fmt.Sprintf("invalid projection input: %s %s", e.Field, e.Reason)
}

// carried is the explicit state tuple folded from one year into the next.
// Nothing else survives between iterations.
type carried struct {
	balance   float64
	income    float64
	taxes     float64
	insurance float64
	value     float64
}

// Project runs one strategy over the full horizon and returns the year rows
// plus the year-1 summary ratios. It is a pure function of its input: equal
// inputs produce byte-identical results on every call.
func Project(in Input) (*Result, error) {
	model := modelFor(in.Strategy)
	d := in.Deal

	years := in.Years
	if years <= 0 {
		years = DefaultYears
	}

	basis := model.BasisValue(&d)
	if basis <= 0 {
		return nil, &InvalidProjectionInputError{"basis value", "must be positive"}
	}

	principal, rate, termYears := model.LoanTerms(&d)
	var sched *loan.Schedule
	if principal > 0 {
		var err error
		sched, err = loan.NewSchedule(principal, rate, termYears)
		if err != nil {
			return nil, err
		}
	}

	cashInvested := in.CashInvestedOverride
	if cashInvested == 0 {
		cashInvested = d.PurchasePrice*d.DownPaymentPct + AcquisitionCosts(&d)
	}
	if cashInvested <= 0 {
		return nil, &InvalidProjectionInputError{"cash invested", "must be positive"}
	}

	vacancyMonths := model.VacancyMonths(in.Assumptions)
	if in.ExcludeVacancy {
		vacancyMonths = 0
	}

	taxes, insurance := model.OperatingCosts(&d)
	state := carried{
		balance:   principal,
		income:    model.AnnualGrossIncome(d.Units),
		taxes:     taxes,
		insurance: insurance,
		value:     basis,
	}

	rows := make([]YearProjection, 0, years)
	var cumulativeCF float64

	for year := 1; year <= years; year++ {
		gross := state.income
		vacancyLoss := gross * vacancyMonths / 12.0
		effective := gross - vacancyLoss
		maintenance := effective * in.Assumptions.MaintenancePct

		// The tax estimate is rounded to whole dollars before entering NOI;
		// this intermediate rounding is part of the reference output.
		taxesThisYear := math.Round(state.taxes)

		noi := effective - maintenance - taxesThisYear - state.insurance

		var debtService, newBalance float64
		if sched != nil {
			interest, principalPaid, b := sched.StepYear(state.balance)
			debtService = interest + principalPaid
			newBalance = b
		}

		cashFlow := noi - debtService

		newValue := state.value * (1 + in.Assumptions.AppreciationPct)
		appreciation := newValue - state.value
		equity := newValue - newBalance

		cumulativeCF += cashFlow

		rows = append(rows, YearProjection{
			Year:               year,
			GrossIncome:        gross,
			VacancyLoss:        vacancyLoss,
			Maintenance:        maintenance,
			Taxes:              taxesThisYear,
			Insurance:          state.insurance,
			NOI:                noi,
			DebtService:        debtService,
			CashFlow:           cashFlow,
			Appreciation:       appreciation,
			PropertyValue:      newValue,
			LoanBalance:        newBalance,
			Equity:             equity,
			AnnualReturn:       (cashFlow + appreciation) / cashInvested,
			CumulativeCashFlow: cumulativeCF,
			CumulativeReturn:   (cumulativeCF + newValue - basis) / cashInvested,
		})

		state = carried{
			balance:   newBalance,
			income:    state.income * (1 + in.Assumptions.RentGrowthPct),
			taxes:     state.taxes * (1 + in.Assumptions.TaxGrowthPct),
			insurance: state.insurance * (1 + in.Assumptions.InsuranceGrowthPct),
			value:     newValue,
		}
	}

	summary := Summary{
		CapRate:      rows[0].NOI / basis,
		CashOnCash:   rows[0].CashFlow / cashInvested,
		LoanAmount:   principal,
		CashInvested: cashInvested,
		BasisValue:   basis,
	}
	if sched != nil {
		summary.MonthlyPayment = sched.MonthlyPayment()
	}
	if rows[0].DebtService > 0 {
		summary.DSCR = rows[0].NOI / rows[0].DebtService
	}

	return &Result{Strategy: model.Name(), Years: rows, Summary: summary}, nil
}

// ProjectAll runs every requested strategy against the same deal and
// assumptions. Strategies are independent; a failure in one aborts the set
// so callers never see partial numeric output.
func ProjectAll(deal models.DealInputs, a models.GlobalAssumptions, strategies []Strategy) ([]*Result, error) {
	if len(strategies) == 0 {
		strategies = AllStrategies
	}
	results := make([]*Result, 0, len(strategies))
	for _, s := range strategies {
		r, err := Project(Input{Deal: deal, Assumptions: a, Strategy: s})
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", s, err)
		}
		results = append(results, r)
	}
	return results, nil
}
