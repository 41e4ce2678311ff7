package models

// SplitType describes how an expense is divided among the group participants.
type SplitType string

const (
	// SplitEqual divides the amount evenly; per-person shares are derived,
	// never persisted.
	SplitEqual SplitType = "equal"

	// SplitCustom uses explicit per-participant shares from the Splits map.
	SplitCustom SplitType = "custom"
)

// ExpenseGroup represents a shared-expense ledger for one trip or activity.
type ExpenseGroup struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Pokhara Trip").
	Name string `json:"name"`

	// Description is optional free text about the group's purpose.
	Description string `json:"description,omitempty"`

	// Currency is the code all amounts in the group are denominated in.
	// The core never formats amounts; clients combine code and value.
	Currency string `json:"currency"`

	// StartDate and EndDate bound the group's activity period as ISO date
	// strings (YYYY-MM-DD). EndDate >= StartDate is enforced on create/edit.
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	// Participants is the ordered list of unique display names.
	// At least 2 are required at creation.
	Participants []string `json:"participants"`

	// Expenses is the insertion-ordered list of expenses. Date grouping is a
	// derived view, the slice itself is never sorted.
	Expenses []Expense `json:"expenses"`

	// Settled is a purely informational flag toggled by the user; it does
	// not affect balance computation.
	Settled bool `json:"settled"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// Expense is a single entry embedded in an ExpenseGroup.
type Expense struct {
	// ID is unique within the owning group (base-36 timestamp plus a random
	// suffix, collision-negligible).
	ID string `json:"id"`

	// Description is non-empty free text.
	Description string `json:"description"`

	// Amount is the expense total, rounded to 2 decimal places at entry.
	Amount float64 `json:"amount"`

	// Date is an ISO date string, expected (not enforced) to fall within the
	// owning group's period.
	Date string `json:"date"`

	// PaidBy is the participant who paid; must be one of the group's
	// participants.
	PaidBy string `json:"paidBy"`

	// SplitType selects equal or custom division.
	SplitType SplitType `json:"splitType"`

	// Splits maps participant name to share. Populated only for custom
	// splits; shares sum exactly to Amount after validation.
	Splits map[string]float64 `json:"splits,omitempty"`

	// Notes is optional free text.
	Notes string `json:"notes,omitempty"`
}
