package models

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the ISO date format used by every record in the store.
const DateLayout = "2006-01-02"

// daysUntil returns the number of whole days from now until the given ISO
// date, rounding up so "later today or tomorrow morning" counts as 1.
// Returns 0 and false when the date is missing or unparseable.
func daysUntil(date string, now time.Time) (int, bool) {
	if date == "" {
		return 0, false
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, false
	}
	return int(math.Ceil(d.Sub(now).Hours() / 24)), true
}

// Medicine tracks a medication schedule.
type Medicine struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Active    bool   `json:"active"`
}

// Subscription tracks a recurring service charge.
type Subscription struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Cost            float64 `json:"cost"`
	Currency        string  `json:"currency"`
	BillingCycle    string  `json:"billingCycle"`
	NextBillingDate string  `json:"nextBillingDate"`
	Category        string  `json:"category,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	Active          bool    `json:"active"`
}

// DaysUntilBilling returns whole days until the next billing date.
func (s Subscription) DaysUntilBilling(now time.Time) (int, bool) {
	return daysUntil(s.NextBillingDate, now)
}

// DueSoon reports whether an active subscription bills within 7 days.
func (s Subscription) DueSoon(now time.Time) bool {
	days, ok := s.DaysUntilBilling(now)
	return ok && s.Active && days >= 0 && days <= 7
}

// BillStatus classifies a bill relative to its due date.
type BillStatus string

const (
	BillPaid    BillStatus = "paid"
	BillOverdue BillStatus = "overdue"
	BillPending BillStatus = "pending"
)

// Bill tracks a recurring payable.
type Bill struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Amount        float64  `json:"amount"`
	Currency      string   `json:"currency"`
	Category      string   `json:"category,omitempty"`
	NextDueDate   string   `json:"nextDueDate"`
	Frequency     string   `json:"frequency"`
	PaymentMethod string   `json:"paymentMethod,omitempty"`
	AutoDebit     bool     `json:"autoDebit"`
	Notes         string   `json:"notes,omitempty"`
	Active        bool     `json:"active"`
	PaidMonths    []string `json:"paidMonths,omitempty"` // YYYY-MM entries
}

// DaysUntilDue returns whole days until the next due date.
func (b Bill) DaysUntilDue(now time.Time) (int, bool) {
	return daysUntil(b.NextDueDate, now)
}

// Status reports paid (current month already marked), overdue, or pending.
func (b Bill) Status(now time.Time) BillStatus {
	month := now.Format("2006-01")
	for _, m := range b.PaidMonths {
		if m == month {
			return BillPaid
		}
	}
	if days, ok := b.DaysUntilDue(now); ok && days < 0 {
		return BillOverdue
	}
	return BillPending
}

// Insurance tracks a policy and its renewal.
type Insurance struct {
	ID               string  `json:"id"`
	PolicyName       string  `json:"policyName"`
	Provider         string  `json:"provider"`
	Type             string  `json:"type"`
	PolicyNumber     string  `json:"policyNumber,omitempty"`
	Premium          float64 `json:"premium"`
	PaymentFrequency string  `json:"paymentFrequency"`
	Coverage         float64 `json:"coverage"`
	Currency         string  `json:"currency"`
	RenewalDate      string  `json:"renewalDate"`
	Beneficiary      string  `json:"beneficiary,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

// DaysUntilRenewal returns whole days until the renewal date.
func (i Insurance) DaysUntilRenewal(now time.Time) (int, bool) {
	return daysUntil(i.RenewalDate, now)
}

// Expired reports whether the renewal date has passed.
func (i Insurance) Expired(now time.Time) bool {
	days, ok := i.DaysUntilRenewal(now)
	return ok && days < 0
}

// RenewalSoon reports whether the policy renews within 30 days.
func (i Insurance) RenewalSoon(now time.Time) bool {
	days, ok := i.DaysUntilRenewal(now)
	return ok && days >= 0 && days <= 30
}

// Vehicle tracks a vehicle and its paperwork deadlines.
type Vehicle struct {
	ID                 string  `json:"id"`
	Type               string  `json:"type"`
	Make               string  `json:"make"`
	Model              string  `json:"model"`
	Year               int     `json:"year"`
	LicensePlate       string  `json:"licensePlate,omitempty"`
	VIN                string  `json:"vin,omitempty"`
	CurrentOdometer    float64 `json:"currentOdometer"`
	Unit               string  `json:"unit,omitempty"`
	Currency           string  `json:"currency,omitempty"`
	InsuranceExpiry    string  `json:"insuranceExpiry,omitempty"`
	RegistrationExpiry string  `json:"registrationExpiry,omitempty"`
	Notes              string  `json:"notes,omitempty"`
}

// Pet tracks a pet's profile.
type Pet struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Species      string  `json:"species"`
	Breed        string  `json:"breed,omitempty"`
	Gender       string  `json:"gender,omitempty"`
	BirthDate    string  `json:"birthDate,omitempty"`
	AdoptionDate string  `json:"adoptionDate,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
	WeightUnit   string  `json:"weightUnit,omitempty"`
	Color        string  `json:"color,omitempty"`
	MicrochipID  string  `json:"microchipId,omitempty"`
	Veterinarian string  `json:"veterinarian,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// Travel tracks a planned trip.
type Travel struct {
	ID             string  `json:"id"`
	Destination    string  `json:"destination"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	Accommodation  string  `json:"accommodation,omitempty"`
	Transportation string  `json:"transportation,omitempty"`
	Budget         float64 `json:"budget"`
	Currency       string  `json:"currency,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

// FieldKind enumerates the value kinds a custom category field can hold.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldNumber   FieldKind = "number"
	FieldDate     FieldKind = "date"
	FieldLongText FieldKind = "longtext"
	FieldBoolean  FieldKind = "boolean"
)

// CustomField declares one field in a user-defined category schema.
type CustomField struct {
	Name string    `json:"name"`
	Kind FieldKind `json:"type"`
}

// Validate checks a raw JSON-decoded value against the field's kind.
func (f CustomField) Validate(value any) error {
	if value == nil {
		return nil
	}
	switch f.Kind {
	case FieldText, FieldLongText:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("field %q must be text", f.Name)
		}
	case FieldNumber:
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("field %q must be a number", f.Name)
		}
	case FieldDate:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %q must be a date string", f.Name)
		}
		if _, err := time.Parse(DateLayout, s); err != nil {
			return fmt.Errorf("field %q must be a YYYY-MM-DD date", f.Name)
		}
	case FieldBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("field %q must be a boolean", f.Name)
		}
	default:
		return fmt.Errorf("field %q has unknown type %q", f.Name, f.Kind)
	}
	return nil
}

// CustomCategory is a user-defined record schema.
type CustomCategory struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Icon        string        `json:"icon,omitempty"`
	Description string        `json:"description,omitempty"`
	Fields      []CustomField `json:"fields"`
}

// ValidateValues checks an item's values against the category schema.
func (c CustomCategory) ValidateValues(values map[string]any) error {
	known := make(map[string]CustomField, len(c.Fields))
	for _, f := range c.Fields {
		known[f.Name] = f
	}
	for name, value := range values {
		f, ok := known[name]
		if !ok {
			return fmt.Errorf("unknown field %q for category %q", name, c.Name)
		}
		if err := f.Validate(value); err != nil {
			return err
		}
	}
	return nil
}

// CustomItem is one record under a custom category.
type CustomItem struct {
	ID         string         `json:"id"`
	CategoryID string         `json:"categoryId"`
	Values     map[string]any `json:"values"`
}
