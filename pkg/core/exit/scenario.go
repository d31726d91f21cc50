// Package exit compares the two ways out of a bridge-financed rehab project:
// an outright sale, or a cash-out refinance onto long-term debt (BRRRR).
// Both paths share the bridge sizing and carrying-cost math; only the
// disposition differs.
package exit

import (
	"fmt"

	"property_underwriting/pkg/core/loan"
	"property_underwriting/pkg/models"
)

const (
	defaultEntryCostPct = 0.06 // of purchase price
	defaultDSCRCostPct  = 0.05 // of ARV
	defaultRefiTerm     = 30
)

// InvalidExitInputError reports a deal record that cannot be compared, e.g.
// a missing ARV.
type InvalidExitInputError struct {
	Field  string
	Reason string
}

func (e *InvalidExitInputError) Error() string {
	return fmt.Sprintf("invalid exit input: %s %s", e.Field, e.Reason)
}

// Compare evaluates the exit strategy selected on the deal. Callers wanting
// both branches side by side use CompareBoth.
func Compare(d models.DealInputs) (*models.RehabExitScenario, error) {
	switch d.ExitStrategy {
	case models.ExitRefi:
		return compareOne(d, models.ExitRefi)
	default:
		return compareOne(d, models.ExitSell)
	}
}

// CompareBoth evaluates the sale and refinance branches of the same deal.
func CompareBoth(d models.DealInputs) (sell, refi *models.RehabExitScenario, err error) {
	if sell, err = compareOne(d, models.ExitSell); err != nil {
		return nil, nil, err
	}
	if refi, err = compareOne(d, models.ExitRefi); err != nil {
		return nil, nil, err
	}
	return sell, refi, nil
}

func compareOne(d models.DealInputs, strategy models.ExitStrategy) (*models.RehabExitScenario, error) {
	if d.ARV <= 0 {
		return nil, &InvalidExitInputError{"arv", "must be positive"}
	}
	if d.PurchasePrice <= 0 {
		return nil, &InvalidExitInputError{"purchase price", "must be positive"}
	}

	bridgeLoan := d.PurchasePrice*d.BridgeLTCPct + d.RehabCost*d.BridgeRehabBudgetPct
	if d.BridgeMaxARVLTVPct > 0 {
		if maxLoan := d.ARV * d.BridgeMaxARVLTVPct; bridgeLoan > maxLoan {
			bridgeLoan = maxLoan
		}
	}

	// Entry points are netted out of the loan proceeds by the bridge lender,
	// so they are reported but never added to the cash requirement.
	entryCost := d.BridgeEntryCostOverride
	if entryCost == 0 {
		entryCost = d.PurchasePrice * defaultEntryCostPct
	}

	// Carrying costs run off the purchase-price tax and insurance figures;
	// the ARV-scaled ones only apply after the refinance.
	monthlyInterest := bridgeLoan * d.RehabFinancingRate / 12.0
	monthlyTaxIns := (d.PropertyTaxes + d.Insurance) / 12.0
	carryingCosts := (monthlyInterest + monthlyTaxIns) * float64(d.RehabMonths)

	// The rehab budget itself is financed, so cash in is just the bridge
	// down payment plus the carry.
	downPayment := d.PurchasePrice * (1 - d.BridgeLTCPct)
	cashInvested := downPayment + carryingCosts

	s := &models.RehabExitScenario{
		Exit:              strategy,
		BridgeLoanAmount:  bridgeLoan,
		EntryCost:         entryCost,
		CarryingCosts:     carryingCosts,
		TotalCashInvested: cashInvested,
	}

	if strategy == models.ExitSell {
		sellingCosts := d.ARV * d.SellingCostPct
		proceeds := d.ARV - sellingCosts - bridgeLoan
		s.Sell = &models.SellOutcome{
			SaleProceeds: proceeds,
			SellingCosts: sellingCosts,
			NetProfit:    proceeds - cashInvested,
		}
		return s, nil
	}

	newLoan := d.ARV * d.ExitRefiLTVPct
	if newLoan <= 0 {
		return nil, &InvalidExitInputError{"exit refi ltv", "must be positive"}
	}

	dscrCosts := d.DSCRAcquisitionCosts
	if dscrCosts == 0 {
		dscrCosts = d.ARV * defaultDSCRCostPct
	}
	s.ExitCost = dscrCosts

	term := d.ExitRefiTermYears
	if term == 0 {
		term = d.LoanTermYears
	}
	if term == 0 {
		term = defaultRefiTerm
	}
	sched, err := loan.NewSchedule(newLoan, d.ExitRefiRate, term)
	if err != nil {
		return nil, err
	}

	cashOut := newLoan - bridgeLoan - dscrCosts
	s.Refi = &models.RefiOutcome{
		NewLoanAmount:     newLoan,
		CashOut:           cashOut,
		CapitalLeftInDeal: cashInvested - cashOut,
		EquityRetained:    d.ARV - newLoan,
		AnnualDebtService: sched.AnnualDebtService(),
	}
	return s, nil
}
