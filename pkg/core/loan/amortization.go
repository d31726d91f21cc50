// Package loan implements fixed-rate amortization math. It is the leaf
// dependency of every projector: callers build a Schedule once and step it
// month by month.
package loan

import (
	"fmt"
	"math"
)

// InvalidLoanTermsError reports loan parameters that cannot produce a finite
// payment (non-positive principal or term, or a degenerate rate).
type InvalidLoanTermsError struct {
	Principal float64
	Rate      float64
	TermYears int
	Reason    string
}

func (e *InvalidLoanTermsError) Error() string {
	return fmt.Sprintf("invalid loan terms (principal=%.2f rate=%.4f term=%dy): %s",
		e.Principal, e.Rate, e.TermYears, e.Reason)
}

// Schedule is an immutable fixed-rate, fixed-term loan description.
type Schedule struct {
	Principal   float64
	AnnualRate  float64
	TermYears   int
	monthlyRate float64
	payment     float64
}

// NewSchedule validates the terms and precomputes the constant monthly
// payment via the standard annuity formula P*r(1+r)^n / ((1+r)^n - 1).
// A zero rate degenerates to straight-line principal / n.
func NewSchedule(principal, annualRate float64, termYears int) (*Schedule, error) {
	if principal <= 0 {
		return nil, &InvalidLoanTermsError{principal, annualRate, termYears, "principal must be positive"}
	}
	if termYears <= 0 {
		return nil, &InvalidLoanTermsError{principal, annualRate, termYears, "term must be positive"}
	}

	r := annualRate / 12.0
	n := float64(termYears * 12)

	var payment float64
	if r == 0 {
		payment = principal / n
	} else {
		pow := math.Pow(1+r, n)
		payment = principal * (r * pow) / (pow - 1)
	}

	if math.IsNaN(payment) || math.IsInf(payment, 0) || payment <= 0 {
		return nil, &InvalidLoanTermsError{principal, annualRate, termYears, "rate produces a non-finite payment"}
	}

	return &Schedule{
		Principal:   principal,
		AnnualRate:  annualRate,
		TermYears:   termYears,
		monthlyRate: r,
		payment:     payment,
	}, nil
}

// MonthlyPayment returns the constant monthly payment.
func (s *Schedule) MonthlyPayment() float64 { return s.payment }

// AnnualDebtService returns twelve months of payments.
func (s *Schedule) AnnualDebtService() float64 { return s.payment * 12 }

// Step advances one period: given the remaining balance it returns the
// interest portion, the principal portion, and the new balance. The final
// payment is truncated so the balance never goes negative.
func (s *Schedule) Step(balance float64) (interest, principal, newBalance float64) {
	if balance <= 0 {
		return 0, 0, 0
	}
	interest = balance * s.monthlyRate
	principal = s.payment - interest
	if principal > balance {
		principal = balance
	}
	return interest, principal, balance - principal
}

// StepYear advances twelve periods and returns the totals actually paid plus
// the ending balance. Once the loan is retired the totals stay at zero, so a
// projection past the term carries no phantom debt service.
func (s *Schedule) StepYear(balance float64) (interestPaid, principalPaid, newBalance float64) {
	for m := 0; m < 12; m++ {
		if balance <= 0 {
			break
		}
		i, p, b := s.Step(balance)
		interestPaid += i
		principalPaid += p
		balance = b
	}
	return interestPaid, principalPaid, balance
}
