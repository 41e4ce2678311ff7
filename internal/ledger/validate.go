// Package ledger implements the expense-splitting math: entry validation,
// per-participant balances, greedy settlement instructions, and the per-day
// and whole-group aggregations built on top of them.
//
// All money math is plain float64 with explicit tolerances: amounts and shares are rounded to 2 decimals at entry,
// a custom split may be off by up to 0.02 absolute before it is rejected, and
// a balance within 0.01 of zero counts as settled.
package ledger

import (
	"errors"
	"fmt"
	"math"

	"github.com/santoshphuyala/multimanager/internal/models"
)

const (
	// SplitTolerance is the maximum absolute difference allowed between the
	// sum of custom shares and the expense amount (one cent of rounding per
	// person on a typical group).
	SplitTolerance = 0.02

	// ZeroTolerance classifies a balance as settled; smaller residues are
	// floating-point noise.
	ZeroTolerance = 0.01
)

var (
	// ErrInvalidAmount marks an amount that is not a positive finite number.
	ErrInvalidAmount = errors.New("amount must be a positive number")

	// ErrInvalidSplitAmount marks a custom share that is missing, not a
	// finite number, or negative.
	ErrInvalidSplitAmount = errors.New("split amounts must be non-negative numbers")
)

// SplitMismatchError reports custom shares that do not reconcile to the
// expense amount within SplitTolerance.
type SplitMismatchError struct {
	Amount float64 // rounded expense amount
	Sum    float64 // rounded sum of shares
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("split total (%.2f) must equal expense amount (%.2f), difference: %.2f",
		e.Sum, e.Amount, math.Abs(e.Sum-e.Amount))
}

// ValidatedExpense is the normalized result of ValidateExpenseInput. Amount
// is rounded to 2 decimals; for custom splits the shares sum exactly to
// Amount, for equal splits Splits is empty and per-person shares are derived
// wherever needed.
type ValidatedExpense struct {
	Amount    float64
	SplitType models.SplitType
	Splits    map[string]float64
}

// RoundToTwo rounds to 2 decimal places, half away from zero.
func RoundToTwo(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValidateExpenseInput validates an expense amount and, for custom splits,
// reconciles per-participant shares against it. It is a pure function; the
// caller persists the result.
//
// A residual difference of at most SplitTolerance is absorbed into the
// participant holding the largest share, so stored shares always sum exactly
// to the rounded amount.
func ValidateExpenseInput(amount float64, splitType models.SplitType, shares map[string]float64, participants []string) (*ValidatedExpense, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, ErrInvalidAmount
	}
	amount = RoundToTwo(amount)

	if splitType != models.SplitCustom {
		return &ValidatedExpense{
			Amount:    amount,
			SplitType: models.SplitEqual,
			Splits:    map[string]float64{},
		}, nil
	}

	splits := make(map[string]float64, len(participants))
	sum := 0.0
	for _, p := range participants {
		share, ok := shares[p]
		if !ok || math.IsNaN(share) || math.IsInf(share, 0) || share < 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSplitAmount, p)
		}
		splits[p] = RoundToTwo(share)
		sum += splits[p]
	}
	sum = RoundToTwo(sum)

	if diff := math.Abs(sum - amount); diff > SplitTolerance {
		return nil, &SplitMismatchError{Amount: amount, Sum: sum}
	}

	// Absorb any residual rounding difference into the largest share so the
	// stored shares sum exactly to the amount.
	if sum != amount {
		largest := ""
		for _, p := range participants {
			if largest == "" || splits[p] >= splits[largest] {
				largest = p
			}
		}
		splits[largest] = RoundToTwo(splits[largest] + (amount - sum))
	}

	return &ValidatedExpense{
		Amount:    amount,
		SplitType: models.SplitCustom,
		Splits:    splits,
	}, nil
}
