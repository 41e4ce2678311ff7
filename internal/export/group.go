// Package export renders expense groups as JSON, CSV, and XLSX documents and
// implements whole-database backup and restore.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/santoshphuyala/multimanager/internal/ledger"
	"github.com/santoshphuyala/multimanager/internal/models"
)

// GroupExport is the pure-data JSON view of a group: metadata, expenses, and
// the computed settlement summary.
type GroupExport struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description,omitempty"`
	Currency     string               `json:"currency"`
	StartDate    string               `json:"startDate"`
	EndDate      string               `json:"endDate"`
	Participants []string             `json:"participants"`
	Settled      bool                 `json:"settled"`
	Expenses     []ExpenseExport      `json:"expenses"`
	Summary      *ledger.GroupSummary `json:"summary"`
}

// ExpenseExport mirrors models.Expense but includes custom splits only when
// they apply.
type ExpenseExport struct {
	Description  string             `json:"description"`
	Amount       float64            `json:"amount"`
	Date         string             `json:"date"`
	PaidBy       string             `json:"paidBy"`
	SplitType    models.SplitType   `json:"splitType"`
	CustomSplits map[string]float64 `json:"customSplits,omitempty"`
	Notes        string             `json:"notes,omitempty"`
}

// GroupJSON builds the exportable view of a group.
func GroupJSON(group *models.ExpenseGroup) *GroupExport {
	expenses := make([]ExpenseExport, 0, len(group.Expenses))
	for _, exp := range group.Expenses {
		e := ExpenseExport{
			Description: exp.Description,
			Amount:      exp.Amount,
			Date:        exp.Date,
			PaidBy:      exp.PaidBy,
			SplitType:   exp.SplitType,
			Notes:       exp.Notes,
		}
		if exp.SplitType == models.SplitCustom {
			e.CustomSplits = exp.Splits
		}
		expenses = append(expenses, e)
	}

	return &GroupExport{
		ID:           group.ID,
		Name:         group.Name,
		Description:  group.Description,
		Currency:     group.Currency,
		StartDate:    group.StartDate,
		EndDate:      group.EndDate,
		Participants: group.Participants,
		Settled:      group.Settled,
		Expenses:     expenses,
		Summary:      ledger.Summarize(group),
	}
}

// GroupCSV renders a group as CSV: a metadata header, the expense table, and
// the settlement instructions.
func GroupCSV(group *models.ExpenseGroup) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	summary := ledger.Summarize(group)

	meta := [][]string{
		{"Group", group.Name},
		{"Period", group.StartDate + " to " + group.EndDate},
		{"Currency", group.Currency},
		{"Participants", strings.Join(group.Participants, ", ")},
		{"Total", fmt.Sprintf("%.2f", summary.TotalAmount)},
		{},
	}
	for _, row := range meta {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV: %w", err)
		}
	}

	w.Write([]string{"Date", "Description", "Amount", "Paid By", "Split", "Notes"})
	for _, exp := range group.Expenses {
		w.Write([]string{
			exp.Date,
			exp.Description,
			fmt.Sprintf("%.2f", exp.Amount),
			exp.PaidBy,
			string(exp.SplitType),
			exp.Notes,
		})
	}

	w.Write(nil)
	w.Write([]string{"Settlements"})
	for _, tr := range summary.Settlements {
		w.Write([]string{tr.From, "pays", tr.To, fmt.Sprintf("%.2f", tr.Amount)})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// GroupXLSX renders a group as a workbook with Expenses, Summary, and
// Settlements sheets.
func GroupXLSX(group *models.ExpenseGroup) ([]byte, error) {
	summary := ledger.Summarize(group)

	f := excelize.NewFile()
	defer f.Close()

	const expensesSheet = "Expenses"
	index, err := f.NewSheet(expensesSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Description", "Amount", "Paid By", "Split", "Notes"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(expensesSheet, cell, h)
	}
	for i, exp := range group.Expenses {
		row := i + 2
		f.SetCellValue(expensesSheet, fmt.Sprintf("A%d", row), exp.Date)
		f.SetCellValue(expensesSheet, fmt.Sprintf("B%d", row), exp.Description)
		f.SetCellValue(expensesSheet, fmt.Sprintf("C%d", row), exp.Amount)
		f.SetCellValue(expensesSheet, fmt.Sprintf("D%d", row), exp.PaidBy)
		f.SetCellValue(expensesSheet, fmt.Sprintf("E%d", row), string(exp.SplitType))
		f.SetCellValue(expensesSheet, fmt.Sprintf("F%d", row), exp.Notes)
	}

	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	for i, h := range []string{"Participant", "Paid", "Owed", "Balance"} {
		f.SetCellValue(summarySheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	// Participant order follows the group definition so the sheet is stable.
	for i, p := range group.Participants {
		row := i + 2
		b := summary.Balances[p]
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), p)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), b.Paid)
		f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), b.Owed)
		f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), b.Net)
	}

	const settlementsSheet = "Settlements"
	if _, err := f.NewSheet(settlementsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	for i, h := range []string{"From", "To", "Amount"} {
		f.SetCellValue(settlementsSheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	for i, tr := range summary.Settlements {
		row := i + 2
		f.SetCellValue(settlementsSheet, fmt.Sprintf("A%d", row), tr.From)
		f.SetCellValue(settlementsSheet, fmt.Sprintf("B%d", row), tr.To)
		f.SetCellValue(settlementsSheet, fmt.Sprintf("C%d", row), tr.Amount)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
