// Package service implements the application services on top of the record
// store: the expense-group lifecycle manager and the generic tracker CRUD.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/santoshphuyala/multimanager/internal/ledger"
	"github.com/santoshphuyala/multimanager/internal/models"
	"github.com/santoshphuyala/multimanager/internal/storage"
)

var (
	ErrEmptyGroupName       = errors.New("group name is required")
	ErrTooFewParticipants   = errors.New("at least 2 participants are required")
	ErrDuplicateParticipant = errors.New("participant names must be unique")
	ErrInvalidDateRange     = errors.New("end date must not be before start date")
	ErrEmptyDescription     = errors.New("expense description is required")
	ErrUnknownPayer         = errors.New("payer must be one of the group participants")
)

const defaultCurrency = "NRs"

// GroupService owns creation, mutation, and deletion of expense groups and
// their embedded expense lists. Every mutation reads the whole group,
// modifies it in memory, and writes the whole group back in one store call,
// so a failed operation leaves the persisted state untouched.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// GroupInput carries the user-editable group metadata.
type GroupInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Currency     string   `json:"currency"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Participants []string `json:"participants"`
}

// ExpenseInput carries the user-editable expense fields.
type ExpenseInput struct {
	Description string             `json:"description"`
	Amount      float64            `json:"amount"`
	Date        string             `json:"date"`
	PaidBy      string             `json:"paidBy"`
	SplitType   models.SplitType   `json:"splitType"`
	Splits      map[string]float64 `json:"splits"`
	Notes       string             `json:"notes"`
}

func validateGroupInput(in GroupInput) ([]string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrEmptyGroupName
	}

	participants := make([]string, 0, len(in.Participants))
	seen := make(map[string]bool, len(in.Participants))
	for _, p := range in.Participants {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if seen[p] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, p)
		}
		seen[p] = true
		participants = append(participants, p)
	}
	if len(participants) < 2 {
		return nil, ErrTooFewParticipants
	}

	if in.EndDate < in.StartDate {
		return nil, ErrInvalidDateRange
	}

	return participants, nil
}

// CreateGroup validates and persists a new group with an empty expense list.
func (s *GroupService) CreateGroup(ctx context.Context, in GroupInput) (*models.ExpenseGroup, error) {
	participants, err := validateGroupInput(in)
	if err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	group := &models.ExpenseGroup{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Currency:     currency,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Participants: participants,
		Expenses:     []models.Expense{},
		Settled:      false,
		CreatedAt:    time.Now().Unix(),
	}

	if err := s.persist(ctx, group, true); err != nil {
		return nil, err
	}

	slog.Info("Expense group created", "group_id", group.ID, "participants", len(participants))
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, id string) (*models.ExpenseGroup, error) {
	rec, err := s.store.Get(ctx, storage.CollectionExpenseGroups, id)
	if err != nil {
		return nil, err
	}
	return decodeGroup(rec)
}

// ListGroups returns every group in insertion order.
func (s *GroupService) ListGroups(ctx context.Context) ([]*models.ExpenseGroup, error) {
	records, err := s.store.GetAll(ctx, storage.CollectionExpenseGroups)
	if err != nil {
		return nil, err
	}

	groups := make([]*models.ExpenseGroup, 0, len(records))
	for _, rec := range records {
		group, err := decodeGroup(&rec)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// UpdateGroup replaces a group's metadata. The stored expense list is always
// carried over: a metadata edit must never drop expenses, so expenses mutate
// only through the expense operations below. Blank currency and dates keep
// their stored values; the date-range check runs on the merged result.
func (s *GroupService) UpdateGroup(ctx context.Context, id string, in GroupInput) (*models.ExpenseGroup, error) {
	group, err := s.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Currency == "" {
		in.Currency = group.Currency
	}
	if in.StartDate == "" {
		in.StartDate = group.StartDate
	}
	if in.EndDate == "" {
		in.EndDate = group.EndDate
	}

	participants, err := validateGroupInput(in)
	if err != nil {
		return nil, err
	}

	group.Name = strings.TrimSpace(in.Name)
	group.Description = in.Description
	group.Currency = in.Currency
	group.StartDate = in.StartDate
	group.EndDate = in.EndDate
	group.Participants = participants

	if err := s.persist(ctx, group, false); err != nil {
		return nil, err
	}

	slog.Info("Expense group updated", "group_id", group.ID)
	return group, nil
}

// DeleteGroup removes a group and all embedded expenses in one record
// deletion.
func (s *GroupService) DeleteGroup(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, storage.CollectionExpenseGroups, id); err != nil {
		return err
	}
	slog.Info("Expense group deleted", "group_id", id)
	return nil
}

// ToggleSettled flips the informational settled flag and returns the new
// value. Balances are unaffected.
func (s *GroupService) ToggleSettled(ctx context.Context, id string) (bool, error) {
	group, err := s.GetGroup(ctx, id)
	if err != nil {
		return false, err
	}

	group.Settled = !group.Settled
	if err := s.persist(ctx, group, false); err != nil {
		return false, err
	}

	return group.Settled, nil
}

// AddExpense validates the input and appends a new expense to the group.
func (s *GroupService) AddExpense(ctx context.Context, groupID string, in ExpenseInput) (*models.Expense, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expense, err := buildExpense(group, in)
	if err != nil {
		return nil, err
	}
	expense.ID = newExpenseID()

	group.Expenses = append(group.Expenses, *expense)
	if err := s.persist(ctx, group, false); err != nil {
		return nil, err
	}

	slog.Info("Expense added", "group_id", groupID, "expense_id", expense.ID, "amount", expense.Amount)
	return expense, nil
}

// UpdateExpense validates the input and replaces the expense with the given
// ID, keeping its identity.
func (s *GroupService) UpdateExpense(ctx context.Context, groupID, expenseID string, in ExpenseInput) (*models.Expense, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range group.Expenses {
		if group.Expenses[i].ID == expenseID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}

	expense, err := buildExpense(group, in)
	if err != nil {
		return nil, err
	}
	expense.ID = expenseID

	group.Expenses[idx] = *expense
	if err := s.persist(ctx, group, false); err != nil {
		return nil, err
	}

	slog.Info("Expense updated", "group_id", groupID, "expense_id", expenseID)
	return expense, nil
}

// DeleteExpense removes an expense from the group by ID.
func (s *GroupService) DeleteExpense(ctx context.Context, groupID, expenseID string) error {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}

	kept := group.Expenses[:0]
	found := false
	for _, exp := range group.Expenses {
		if exp.ID == expenseID {
			found = true
			continue
		}
		kept = append(kept, exp)
	}
	if !found {
		return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}

	group.Expenses = kept
	if err := s.persist(ctx, group, false); err != nil {
		return err
	}

	slog.Info("Expense deleted", "group_id", groupID, "expense_id", expenseID)
	return nil
}

// Summary computes the authoritative whole-group settlement view.
func (s *GroupService) Summary(ctx context.Context, groupID string) (*ledger.GroupSummary, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return ledger.Summarize(group), nil
}

// DaySummaries computes the per-day local settlement views.
func (s *GroupService) DaySummaries(ctx context.Context, groupID string) ([]ledger.DaySummary, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return ledger.SummarizeByDay(group), nil
}

// buildExpense runs validation and assembles an expense, without an ID.
func buildExpense(group *models.ExpenseGroup, in ExpenseInput) (*models.Expense, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, ErrEmptyDescription
	}

	payerKnown := false
	for _, p := range group.Participants {
		if p == in.PaidBy {
			payerKnown = true
			break
		}
	}
	if !payerKnown {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPayer, in.PaidBy)
	}

	validated, err := ledger.ValidateExpenseInput(in.Amount, in.SplitType, in.Splits, group.Participants)
	if err != nil {
		return nil, err
	}

	// A date outside the group period is allowed, just logged.
	if in.Date < group.StartDate || in.Date > group.EndDate {
		slog.Warn("Expense date outside group period",
			"group_id", group.ID, "date", in.Date,
			"start", group.StartDate, "end", group.EndDate)
	}

	return &models.Expense{
		Description: strings.TrimSpace(in.Description),
		Amount:      validated.Amount,
		Date:        in.Date,
		PaidBy:      in.PaidBy,
		SplitType:   validated.SplitType,
		Splits:      validated.Splits,
		Notes:       strings.TrimSpace(in.Notes),
	}, nil
}

// persist writes the whole group back as one record.
func (s *GroupService) persist(ctx context.Context, group *models.ExpenseGroup, create bool) error {
	data, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("failed to encode group: %w", err)
	}

	rec := &storage.Record{ID: group.ID, Data: data}
	if create {
		if err := s.store.Add(ctx, storage.CollectionExpenseGroups, rec); err != nil {
			return fmt.Errorf("failed to save group: %w", err)
		}
		return nil
	}
	if err := s.store.Update(ctx, storage.CollectionExpenseGroups, rec); err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}
	return nil
}

func decodeGroup(rec *storage.Record) (*models.ExpenseGroup, error) {
	group := &models.ExpenseGroup{}
	if err := json.Unmarshal(rec.Data, group); err != nil {
		return nil, fmt.Errorf("failed to decode group %s: %w", rec.ID, err)
	}
	if group.Participants == nil {
		group.Participants = []string{}
	}
	if group.Expenses == nil {
		group.Expenses = []models.Expense{}
	}
	return group, nil
}

// newExpenseID generates an ID unique within a group: base-36 timestamp plus
// a random suffix.
func newExpenseID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + strconv.FormatUint(rand.Uint64(), 36)
}
