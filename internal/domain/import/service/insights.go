package service

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

// Issue types reported by Summarize
const (
	IssueNoTransactions = "no_transactions"
	IssueDuplicates     = "duplicates"
	IssueTruncated      = "truncated"
	IssueMissingBalance = "missing_balance"
)

// Insights contains quality metrics computed from a parse result
type Insights struct {
	ParseID       string       `json:"parse_id,omitempty"`
	BankName      string       `json:"bank_name,omitempty"`
	Currency      string       `json:"currency"`
	Transactions  int          `json:"transactions"`
	Credits       int          `json:"credits"`
	Debits        int          `json:"debits"`
	EarliestDate  *time.Time   `json:"earliest_date,omitempty"`
	LatestDate    *time.Time   `json:"latest_date,omitempty"`
	TotalIncome   *money.Money `json:"total_income"`
	TotalExpenses *money.Money `json:"total_expenses"`
	Net           *money.Money `json:"net"`
	Duplicates    int          `json:"duplicates"`
	Issues        []Issue      `json:"issues,omitempty"`
}

// Issue represents a data quality issue found in a parsed statement
type Issue struct {
	Type         string `json:"type"`
	AffectedRows int    `json:"affected_rows"`
	SampleValue  string `json:"sample_value,omitempty"`
	Suggestion   string `json:"suggestion"`
}

// Summarize computes totals and quality issues for a successful result.
// An empty currency is detected from the raw text, falling back to MNT.
func Summarize(res statement.Result, currency string) *Insights {
	if currency == "" {
		currency = DetectCurrency(res.RawText)
	}

	insights := &Insights{
		ParseID:      res.Metadata.ParseID,
		BankName:     res.Metadata.BankName,
		Currency:     currency,
		Transactions: len(res.Transactions),
	}

	var income, expenses []decimal.Decimal
	seen := make(map[string]int, len(res.Transactions))
	missingBalance := 0
	var sampleDuplicate string

	for _, tx := range res.Transactions {
		switch tx.Direction {
		case statement.Credit:
			insights.Credits++
			income = append(income, tx.Amount)
		case statement.Debit:
			insights.Debits++
			expenses = append(expenses, tx.Amount)
		}

		if !tx.Date.IsZero() {
			d := tx.Date
			if insights.EarliestDate == nil || d.Before(*insights.EarliestDate) {
				insights.EarliestDate = &d
			}
			if insights.LatestDate == nil || d.After(*insights.LatestDate) {
				insights.LatestDate = &d
			}
		}

		key := tx.DedupKey()
		seen[key]++
		if seen[key] == 2 {
			insights.Duplicates++
			if sampleDuplicate == "" {
				sampleDuplicate = key
			}
		}
		if tx.Balance == nil {
			missingBalance++
		}
	}

	insights.TotalIncome = money.Sum(currency, income...)
	insights.TotalExpenses = money.Sum(currency, expenses...)
	insights.Net = money.New(insights.TotalIncome.Amount()-insights.TotalExpenses.Amount(), currency)

	if res.Success && len(res.Transactions) == 0 {
		insights.Issues = append(insights.Issues, Issue{
			Type:       IssueNoTransactions,
			Suggestion: "The layout was not recognized; check the raw text or add a heuristic for this bank",
		})
	}
	if insights.Duplicates > 0 {
		insights.Issues = append(insights.Issues, Issue{
			Type:         IssueDuplicates,
			AffectedRows: insights.Duplicates,
			SampleValue:  sampleDuplicate,
			Suggestion:   "Same date, amount and direction appear more than once; confirm they are separate movements",
		})
	}
	if res.Metadata.Truncated {
		insights.Issues = append(insights.Issues, Issue{
			Type:       IssueTruncated,
			Suggestion: "Raw text hit the character budget; raise PARSER_MAX_CHARS to keep the full text",
		})
	}
	if missingBalance > 0 && missingBalance < len(res.Transactions) {
		insights.Issues = append(insights.Issues, Issue{
			Type:         IssueMissingBalance,
			AffectedRows: missingBalance,
			Suggestion:   "Some rows carry a running balance and some do not; the table may have been split",
		})
	}

	return insights
}

// DetectCurrency guesses the statement currency from symbols and ISO codes
// in text. Exactly one distinct code must appear; otherwise MNT is assumed.
func DetectCurrency(text string) string {
	if code, ok := currencyFromSymbols(text); ok {
		return code
	}

	codes := make(map[string]struct{})
	for _, token := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if isCurrencyCode(token) {
			codes[token] = struct{}{}
		}
	}
	if len(codes) == 1 {
		for code := range codes {
			return code
		}
	}
	return money.DefaultCurrency
}

func currencyFromSymbols(value string) (string, bool) {
	switch {
	case strings.Contains(value, "₮"):
		return money.MNT, true
	case strings.Contains(value, "€"):
		return money.EUR, true
	case strings.Contains(value, "¥") || strings.Contains(value, "￥"):
		return money.JPY, true
	case strings.Contains(value, "$"):
		return money.USD, true
	}
	return "", false
}

// isCurrencyCode accepts upper-case three letter ISO codes only, so words
// like "Fee" or "the" never count.
func isCurrencyCode(value string) bool {
	if len(value) != 3 {
		return false
	}
	for _, r := range value {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return money.Known(value)
}
