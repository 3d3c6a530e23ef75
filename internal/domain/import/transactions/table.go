// Package transactions mines normalized transactions out of extracted
// statement tables and, when no table yields anything, out of raw text.
package transactions

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/normalizer"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
)

// SourceTable marks transactions recovered by the table tier.
const SourceTable = "table"

// Role is the meaning of a statement column.
type Role string

const (
	RoleDate        Role = "date"
	RoleIncome      Role = "income"
	RoleExpense     Role = "expense"
	RoleDescription Role = "description"
	RoleBalance     Role = "balance"
)

// headerKeywords mark a row as the table header.
var headerKeywords = []string{
	"огноо", "date",
	"орлого", "зарлага", "дебит", "кредит",
	"income", "expense", "debit", "credit",
}

// roleKeywords are checked per header cell in this order; the first role
// with a matching keyword claims the cell.
var roleKeywords = []struct {
	role     Role
	keywords []string
}{
	{RoleDate, []string{"огноо", "date"}},
	{RoleIncome, []string{"орлого", "credit", "кредит", "income"}},
	{RoleExpense, []string{"зарлага", "debit", "дебит", "expense"}},
	{RoleDescription, []string{"утга", "description", "тайлбар", "гүйлгээний утга"}},
	{RoleBalance, []string{"үлдэгдэл", "balance"}},
}

var summaryKeywords = []string{"нийт", "total", "дүн", "sum"}

// RoleMap maps each role to a column index, -1 when absent.
type RoleMap map[Role]int

// Col returns the column for role or -1.
func (m RoleMap) Col(role Role) int {
	if i, ok := m[role]; ok {
		return i
	}
	return -1
}

// Usable reports whether the map has a date column and at least one amount column.
func (m RoleMap) Usable() bool {
	return m.Col(RoleDate) >= 0 && (m.Col(RoleIncome) >= 0 || m.Col(RoleExpense) >= 0)
}

func (m RoleMap) used(col int) bool {
	for _, i := range m {
		if i == col {
			return true
		}
	}
	return false
}

// FindHeader returns the index of the first row that looks like a header.
func FindHeader(table statement.Table) (int, bool) {
	for i, row := range table {
		if len(row) == 0 {
			continue
		}
		joined := strings.ToLower(strings.Join(row, " "))
		if containsAny(joined, headerKeywords) {
			return i, true
		}
	}
	return -1, false
}

// MapRoles assigns roles to header cells. A later cell with the same role
// replaces an earlier one.
func MapRoles(header []string) RoleMap {
	roles := RoleMap{}
	for i, cell := range header {
		cell = strings.ToLower(strings.TrimSpace(cell))
		if cell == "" {
			continue
		}
		for _, rk := range roleKeywords {
			if containsAny(cell, rk.keywords) {
				roles[rk.role] = i
				break
			}
		}
	}
	return roles
}

// Resolve applies the direction policy to a pair of column values. When
// both are positive the income side wins.
func Resolve(income, expense decimal.Decimal) (decimal.Decimal, statement.Direction, bool) {
	switch {
	case income.IsPositive():
		return income, statement.Credit, true
	case expense.IsPositive():
		return expense, statement.Debit, true
	default:
		return decimal.Zero, "", false
	}
}

// FromTable extracts transactions from one table. Tables without a
// recognizable header or without date and amount columns yield nothing.
// placeholder is used when no description can be found.
func FromTable(table statement.Table, placeholder string) []statement.Transaction {
	if len(table) < 2 {
		return nil
	}

	headerIdx, ok := FindHeader(table)
	if !ok {
		return nil
	}
	roles := MapRoles(table[headerIdx])
	if !roles.Usable() {
		return nil
	}

	var out []statement.Transaction
	for _, row := range table[headerIdx+1:] {
		if tx, ok := fromRow(row, roles, placeholder); ok {
			out = append(out, tx)
		}
	}
	return out
}

func fromRow(row []string, roles RoleMap, placeholder string) (statement.Transaction, bool) {
	if len(row) == 0 {
		return statement.Transaction{}, false
	}
	if containsAny(strings.ToLower(row[0]), summaryKeywords) {
		return statement.Transaction{}, false
	}

	date, err := normalizer.ParseDate(cell(row, roles.Col(RoleDate)))
	if err != nil {
		return statement.Transaction{}, false
	}

	income := normalizer.ParseAmount(cell(row, roles.Col(RoleIncome)))
	expense := normalizer.ParseAmount(cell(row, roles.Col(RoleExpense)))
	amount, dir, ok := Resolve(income, expense)
	if !ok {
		return statement.Transaction{}, false
	}

	tx := statement.Transaction{
		Date:        normalizer.DateOnly(date),
		Description: describe(row, roles, placeholder),
		Amount:      amount,
		Direction:   dir,
		RawSource:   joinRow(row),
		Source:      SourceTable,
	}
	if col := roles.Col(RoleBalance); col >= 0 {
		if b, err := normalizer.ParseAmountStrict(cell(row, col)); err == nil {
			tx.Balance = &b
		}
	}
	return tx, true
}

func describe(row []string, roles RoleMap, placeholder string) string {
	if desc := normalizer.CleanDescription(cell(row, roles.Col(RoleDescription))); desc != "" {
		return desc
	}

	var parts []string
	for i, c := range row {
		c = strings.TrimSpace(c)
		if c == "" || roles.used(i) || normalizer.IsNumeric(c) {
			continue
		}
		parts = append(parts, c)
	}
	desc := statement.TruncateRunes(normalizer.CleanDescription(strings.Join(parts, " ")), normalizer.MaxDescriptionRunes)
	if desc == "" {
		return placeholder
	}
	return desc
}

// cell returns the trimmed value at col, or "" when out of range.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func joinRow(row []string) string {
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = strings.TrimSpace(c)
	}
	return strings.Join(cells, "\t")
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
