// Package statement defines the normalized model produced by statement parsing:
// transactions, extracted tables, the result envelope and the error taxonomy.
package statement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supported statement formats, keyed by lowercase file extension.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatXLS  = "xls"
	FormatCSV  = "csv"
)

// Direction tells whether money entered or left the account.
type Direction string

const (
	Credit Direction = "credit" // money in
	Debit  Direction = "debit"  // money out
)

// Document is one uploaded statement. The caller owns the bytes; parsers never mutate them.
type Document struct {
	Content  []byte
	Filename string
}

// Transaction is a single normalized movement. Amount is always the magnitude;
// Direction carries the sign.
type Transaction struct {
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Direction   Direction        `json:"direction"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
	Reference   string           `json:"reference,omitempty"`
	RawSource   string           `json:"raw_source"`
	Source      string           `json:"source"`
}

// Signed returns the amount with a negative sign for debits.
func (t Transaction) Signed() decimal.Decimal {
	if t.Direction == Debit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// DedupKey identifies a movement independently of the strategy that found it.
func (t Transaction) DedupKey() string {
	return t.Date.Format("2006-01-02") + "|" + t.Amount.StringFixed(2) + "|" + string(t.Direction)
}

// Table is an ordered list of rows recovered from a structured source.
// An empty string stands for a null cell.
type Table [][]string

// Metadata describes where a result came from. HeaderFingerprints holds one
// sniffer fingerprint per tabular header found, so an unseen bank layout can
// be told apart from a known one.
type Metadata struct {
	ParseID               string   `json:"parse_id,omitempty"`
	BankName              string   `json:"bank_name,omitempty"`
	Format                string   `json:"format"`
	Filename              string   `json:"filename"`
	Pages                 int      `json:"pages,omitempty"`
	Rows                  int      `json:"rows,omitempty"`
	Sheets                int      `json:"sheets,omitempty"`
	SheetNames            []string `json:"sheet_names,omitempty"`
	Encoding              string   `json:"encoding,omitempty"`
	Delimiter             string   `json:"delimiter,omitempty"`
	Strategies            []string `json:"strategies,omitempty"`
	HeaderFingerprints    []string `json:"header_fingerprints,omitempty"`
	Truncated             bool     `json:"truncated"`
	TransactionsExtracted int      `json:"transactions_extracted"`
}

// Result is the uniform envelope every extractor returns. Exactly one of
// Success (with non-empty RawText) or Error is populated.
type Result struct {
	Success      bool          `json:"success"`
	RawText      string        `json:"raw_text"`
	Transactions []Transaction `json:"transactions"`
	Metadata     Metadata      `json:"metadata"`
	Error        string        `json:"error,omitempty"`
	Kind         ErrorKind     `json:"error_kind,omitempty"`
	Err          error         `json:"-"`
}

// Succeeded builds a successful result.
func Succeeded(rawText string, txs []Transaction, meta Metadata) Result {
	if txs == nil {
		txs = []Transaction{}
	}
	meta.TransactionsExtracted = len(txs)
	return Result{
		Success:      true,
		RawText:      rawText,
		Transactions: txs,
		Metadata:     meta,
	}
}

// Failed builds a failed result carrying a localized message and the typed cause.
func Failed(kind ErrorKind, message string, cause error, meta Metadata) Result {
	return Result{
		Success:      false,
		Transactions: []Transaction{},
		Metadata:     meta,
		Error:        message,
		Kind:         kind,
		Err:          &ExtractionError{Kind: kind, Format: meta.Format, Cause: cause},
	}
}
