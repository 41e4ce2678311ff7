package ledger

import (
	"sort"

	"github.com/santoshphuyala/multimanager/internal/models"
)

// GroupSummary is the authoritative cross-period view of a group: balances
// and settlement instructions over all expenses.
type GroupSummary struct {
	TotalAmount float64            `json:"totalAmount"`
	Balances    map[string]Balance `json:"balances"`
	Settlements []Transfer         `json:"settlements"`
}

// DaySummary is a local, same-day view: one date's expenses settled in
// isolation. It is a suggestion for people who square up daily, distinct
// from the group-level settlement.
type DaySummary struct {
	Date        string             `json:"date"`
	Total       float64            `json:"total"`
	Expenses    []models.Expense   `json:"expenses"`
	Balances    map[string]Balance `json:"balances"`
	Settlements []Transfer         `json:"settlements"`
}

// Summarize computes the whole-group settlement summary. An empty expense
// list yields all-zero balances and no instructions.
func Summarize(group *models.ExpenseGroup) *GroupSummary {
	balances := ComputeBalances(group.Expenses, group.Participants)

	total := 0.0
	for _, exp := range group.Expenses {
		total += exp.Amount
	}

	return &GroupSummary{
		TotalAmount: total,
		Balances:    balances,
		Settlements: ComputeSettlements(balances),
	}
}

// SummarizeByDay partitions the group's expenses by exact date string and
// settles each day independently. Days come back in ascending lexical order,
// which is chronological for ISO dates.
func SummarizeByDay(group *models.ExpenseGroup) []DaySummary {
	byDate := make(map[string][]models.Expense)
	for _, exp := range group.Expenses {
		byDate[exp.Date] = append(byDate[exp.Date], exp)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	summaries := make([]DaySummary, 0, len(dates))
	for _, date := range dates {
		expenses := byDate[date]

		total := 0.0
		for _, exp := range expenses {
			total += exp.Amount
		}

		balances := ComputeBalances(expenses, group.Participants)
		summaries = append(summaries, DaySummary{
			Date:        date,
			Total:       total,
			Expenses:    expenses,
			Balances:    balances,
			Settlements: ComputeSettlements(balances),
		})
	}

	return summaries
}
