package ledger

import "github.com/santoshphuyala/multimanager/internal/models"

// Balance holds one participant's totals across a set of expenses.
type Balance struct {
	Paid float64 `json:"paid"`
	Owed float64 `json:"owed"`
	Net  float64 `json:"balance"` // Paid - Owed; positive = owed money
}

// Settled reports whether the net balance is within ZeroTolerance of zero.
func (b Balance) Settled() bool {
	return b.Net > -ZeroTolerance && b.Net < ZeroTolerance
}

// Debtor reports whether the participant owes money.
func (b Balance) Debtor() bool { return b.Net < -ZeroTolerance }

// Creditor reports whether the participant is owed money.
func (b Balance) Creditor() bool { return b.Net > ZeroTolerance }

// ComputeBalances computes paid, owed, and net per participant across the
// given expenses.
//
// Every participant appears in the result, zero-valued if referenced by no
// expense. An expense paid by someone outside the participant list (data
// corruption) contributes nothing for that payer; split keys for unknown
// names are likewise never summed.
func ComputeBalances(expenses []models.Expense, participants []string) map[string]Balance {
	balances := make(map[string]Balance, len(participants))
	for _, p := range participants {
		balances[p] = Balance{}
	}

	for _, exp := range expenses {
		perPerson := 0.0
		if exp.SplitType != models.SplitCustom && len(participants) > 0 {
			perPerson = exp.Amount / float64(len(participants))
		}

		for _, p := range participants {
			owed := perPerson
			if exp.SplitType == models.SplitCustom {
				owed = exp.Splits[p]
			}

			paid := 0.0
			if exp.PaidBy == p {
				paid = exp.Amount
			}

			b := balances[p]
			b.Paid += paid
			b.Owed += owed
			b.Net += paid - owed
			balances[p] = b
		}
	}

	return balances
}
