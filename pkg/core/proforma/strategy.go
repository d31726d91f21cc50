// Package proforma produces multi-year cash-flow projections for a deal
// under one of four income strategies. The projection is a pure fold over
// year index: each step folds the prior year's ending state (loan balance,
// escalated rents, taxes, insurance, property value) into the next row.
package proforma

import (
	"property_underwriting/pkg/models"
)

// voucherFallbackDivisor derives a market-rent guess from a Section 8
// payment standard when no explicit market rent is recorded.
const voucherFallbackDivisor = 1.1

// IncomeModel is the pluggable strategy behind a projection run. Each
// implementation answers the handful of questions that differ between
// strategies; the engine owns the year loop.
type IncomeModel interface {
	// Name returns the strategy identifier.
	Name() Strategy

	// AnnualGrossIncome returns the year-1 gross income across all units.
	AnnualGrossIncome(units []models.UnitInput) float64

	// VacancyMonths returns the vacancy assumption, in months per year.
	// Zero means no vacancy deduction at all.
	VacancyMonths(a models.GlobalAssumptions) float64

	// BasisValue returns the property-value basis the run appreciates
	// from (purchase price, or ARV for the post-rehab variant).
	BasisValue(d *models.DealInputs) float64

	// OperatingCosts returns the year-1 annual taxes and insurance.
	OperatingCosts(d *models.DealInputs) (taxes, insurance float64)

	// LoanTerms returns principal, annual rate and term for the strategy's
	// permanent financing.
	LoanTerms(d *models.DealInputs) (principal, rate float64, termYears int)
}

// modelFor resolves a Strategy tag to its IncomeModel.
func modelFor(s Strategy) IncomeModel {
	switch s {
	case StrategySection8:
		return section8Rental{}
	case StrategySTR:
		return shortTermRental{}
	case StrategyRefi:
		return rehabRefinance{}
	default:
		return longTermRental{}
	}
}

// marketRent resolves one unit's monthly long-term rent. An explicit market
// rent wins; otherwise the voucher payment standard is discounted back to a
// market estimate.
func marketRent(u models.UnitInput) float64 {
	if u.MarketRent > 0 {
		return u.MarketRent
	}
	if u.VoucherRent > 0 {
		return u.VoucherRent / voucherFallbackDivisor
	}
	return 0
}

// -----------------------------------------------------------------------------
// Long-term rental
// -----------------------------------------------------------------------------

type longTermRental struct{}

func (longTermRental) Name() Strategy { return StrategyLTR }

func (longTermRental) AnnualGrossIncome(units []models.UnitInput) float64 {
	var total float64
	for _, u := range units {
		total += marketRent(u) * 12
	}
	return total
}

func (longTermRental) VacancyMonths(a models.GlobalAssumptions) float64 {
	return a.VacancyMonthsLTR
}

func (longTermRental) BasisValue(d *models.DealInputs) float64 { return d.PurchasePrice }

func (longTermRental) OperatingCosts(d *models.DealInputs) (float64, float64) {
	return d.PropertyTaxes, d.Insurance
}

func (longTermRental) LoanTerms(d *models.DealInputs) (float64, float64, int) {
	return acquisitionLoan(d)
}

// -----------------------------------------------------------------------------
// Section 8 (voucher) rental
// -----------------------------------------------------------------------------

// section8Rental is the LTR algorithm fed with the literal voucher rent and
// the voucher program's own (typically lower) vacancy assumption. The
// voucher amount is used as-is: no /1.1 conversion applies here.
type section8Rental struct{}

func (section8Rental) Name() Strategy { return StrategySection8 }

func (section8Rental) AnnualGrossIncome(units []models.UnitInput) float64 {
	var total float64
	for _, u := range units {
		rent := u.VoucherRent
		if rent == 0 {
			rent = u.MarketRent
		}
		total += rent * 12
	}
	return total
}

func (section8Rental) VacancyMonths(a models.GlobalAssumptions) float64 {
	return a.VacancyMonthsSection8
}

func (section8Rental) BasisValue(d *models.DealInputs) float64 { return d.PurchasePrice }

func (section8Rental) OperatingCosts(d *models.DealInputs) (float64, float64) {
	return d.PropertyTaxes, d.Insurance
}

func (section8Rental) LoanTerms(d *models.DealInputs) (float64, float64, int) {
	return acquisitionLoan(d)
}

// -----------------------------------------------------------------------------
// Short-term rental
// -----------------------------------------------------------------------------

// shortTermRental sums each unit's annual revenue net of annual operating
// expenses. Vacancy is already baked into the revenue projection the data
// provider supplies, so no separate vacancy deduction is applied. Changing
// that would silently skew strategy comparisons.
type shortTermRental struct{}

func (shortTermRental) Name() Strategy { return StrategySTR }

func (shortTermRental) AnnualGrossIncome(units []models.UnitInput) float64 {
	var total float64
	for _, u := range units {
		total += u.STRAnnualRevenue - u.STRAnnualExpense
	}
	return total
}

func (shortTermRental) VacancyMonths(models.GlobalAssumptions) float64 { return 0 }

func (shortTermRental) BasisValue(d *models.DealInputs) float64 { return d.PurchasePrice }

func (shortTermRental) OperatingCosts(d *models.DealInputs) (float64, float64) {
	return d.PropertyTaxes, d.Insurance
}

func (shortTermRental) LoanTerms(d *models.DealInputs) (float64, float64, int) {
	return acquisitionLoan(d)
}

// -----------------------------------------------------------------------------
// Post-rehab refinance rental
// -----------------------------------------------------------------------------

// rehabRefinance projects the stabilized property after a BRRRR cycle: ARV
// as the value basis, post-rehab market rents, post-rehab tax/insurance, and
// the long-term refinance loan in place of the acquisition loan.
type rehabRefinance struct{}

func (rehabRefinance) Name() Strategy { return StrategyRefi }

func (rehabRefinance) AnnualGrossIncome(units []models.UnitInput) float64 {
	var total float64
	for _, u := range units {
		rent := u.PostRehabRent
		if rent == 0 {
			rent = marketRent(u)
		}
		total += rent * 12
	}
	return total
}

func (rehabRefinance) VacancyMonths(a models.GlobalAssumptions) float64 {
	return a.VacancyMonthsLTR
}

func (rehabRefinance) BasisValue(d *models.DealInputs) float64 { return d.ARV }

func (rehabRefinance) OperatingCosts(d *models.DealInputs) (float64, float64) {
	taxes := d.PostRehabTaxes
	insurance := d.PostRehabInsurance
	// Scale current figures up to the ARV when post-rehab estimates are
	// missing. The tax estimate is rounded to whole dollars before it feeds
	// NOI; downstream totals depend on that exact rounding.
	if taxes == 0 && d.PurchasePrice > 0 {
		taxes = d.PropertyTaxes * d.ARV / d.PurchasePrice
	}
	if insurance == 0 && d.PurchasePrice > 0 {
		insurance = d.Insurance * d.ARV / d.PurchasePrice
	}
	return taxes, insurance
}

func (rehabRefinance) LoanTerms(d *models.DealInputs) (float64, float64, int) {
	term := d.ExitRefiTermYears
	if term == 0 {
		term = d.LoanTermYears
	}
	if term == 0 {
		term = 30
	}
	return d.ARV * d.ExitRefiLTVPct, d.ExitRefiRate, term
}

// acquisitionLoan derives the purchase financing shared by the three
// buy-and-hold strategies.
func acquisitionLoan(d *models.DealInputs) (float64, float64, int) {
	term := d.LoanTermYears
	if term == 0 {
		term = 30
	}
	return d.PurchasePrice * (1 - d.DownPaymentPct), d.InterestRate, term
}

// AcquisitionCosts returns the closing-cost estimate: an absolute override
// when present, otherwise the percentage of purchase price.
func AcquisitionCosts(d *models.DealInputs) float64 {
	if d.AcquisitionCostOverride > 0 {
		return d.AcquisitionCostOverride
	}
	return d.PurchasePrice * d.AcquisitionCostPct
}
