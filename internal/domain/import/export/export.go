// Package export writes parsed transactions as CSV for spreadsheets and
// downstream importers.
package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

const dateLayout = "2006-01-02"

// Row is one exported transaction.
type Row struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Direction   string `csv:"direction"`
	Amount      string `csv:"amount"`
	Signed      string `csv:"signed_amount"`
	Display     string `csv:"display"`
	Balance     string `csv:"balance"`
	Reference   string `csv:"reference"`
	Source      string `csv:"source"`
}

// Rows converts transactions to export rows with amounts in currency.
func Rows(txs []statement.Transaction, currency string) []*Row {
	rows := make([]*Row, 0, len(txs))
	for _, tx := range txs {
		amount := money.NewFromDecimal(tx.Amount, currency)
		signed := money.NewFromDecimal(tx.Signed(), currency)

		row := &Row{
			Date:        tx.Date.Format(dateLayout),
			Description: tx.Description,
			Direction:   string(tx.Direction),
			Amount:      amount.String(),
			Signed:      signed.String(),
			Display:     signed.Display(),
			Reference:   tx.Reference,
			Source:      tx.Source,
		}
		if tx.Balance != nil {
			row.Balance = money.NewFromDecimal(*tx.Balance, currency).String()
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes a header and one line per transaction to w.
func WriteCSV(w io.Writer, txs []statement.Transaction, currency string) error {
	return WriteRows(w, Rows(txs, currency))
}

// WriteRows writes already converted rows, so statements in different
// currencies can share one file.
func WriteRows(w io.Writer, rows []*Row) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
