package ledger

import "sort"

// Transfer is one pairwise payment instruction.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type party struct {
	name   string
	amount float64
}

// ComputeSettlements produces an ordered list of transfers that brings every
// balance to within ZeroTolerance of zero, matching the largest debtor with
// the largest creditor greedily.
//
// The result is deterministic for a given balance set: both sides are fully
// ordered (amount descending, then name) before matching, since map
// iteration order would otherwise vary between runs. The instruction count
// is at most debtors + creditors - 1. The heuristic is not provably minimal
// in every case, but it is stable, which reproducible reports need more.
func ComputeSettlements(balances map[string]Balance) []Transfer {
	var debtors, creditors []party
	for name, b := range balances {
		switch {
		case b.Debtor():
			debtors = append(debtors, party{name: name, amount: -b.Net})
		case b.Creditor():
			creditors = append(creditors, party{name: name, amount: b.Net})
		}
	}

	byAmountDesc := func(parties []party) func(i, j int) bool {
		return func(i, j int) bool {
			if parties[i].amount != parties[j].amount {
				return parties[i].amount > parties[j].amount
			}
			return parties[i].name < parties[j].name
		}
	}
	sort.Slice(debtors, byAmountDesc(debtors))
	sort.Slice(creditors, byAmountDesc(creditors))

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount < amount {
			amount = creditors[j].amount
		}

		transfers = append(transfers, Transfer{
			From:   debtors[i].name,
			To:     creditors[j].name,
			Amount: amount,
		})

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		if debtors[i].amount < ZeroTolerance {
			i++
		}
		if creditors[j].amount < ZeroTolerance {
			j++
		}
	}

	// Any leftover on one side is below tolerance by construction (balances
	// sum to ~0) and is dropped.
	return transfers
}
