package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/export"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/service"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
)

// report is one parsed file as printed by the CLI.
type report struct {
	Result   statement.Result  `json:"result"`
	Insights *service.Insights `json:"insights,omitempty"`
}

func writeReports(w io.Writer, format string, reports []report, summary bool) error {
	switch format {
	case outputCSV:
		return writeCSV(w, reports)
	case outputText:
		return writeText(w, reports, summary)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// writeCSV exports the transactions of all successful reports in one table.
func writeCSV(w io.Writer, reports []report) error {
	var rows []*export.Row
	for _, r := range reports {
		if !r.Result.Success || r.Insights == nil {
			continue
		}
		rows = append(rows, export.Rows(r.Result.Transactions, r.Insights.Currency)...)
	}
	if rows == nil {
		rows = []*export.Row{}
	}
	return export.WriteRows(w, rows)
}

func writeText(w io.Writer, reports []report, summary bool) error {
	var b strings.Builder
	for i, r := range reports {
		if i > 0 {
			b.WriteString("\n")
		}
		meta := r.Result.Metadata
		fmt.Fprintf(&b, "=== %s ===\n", meta.Filename)

		if !r.Result.Success {
			fmt.Fprintf(&b, "error (%s): %s\n", r.Result.Kind, r.Result.Error)
			continue
		}

		if meta.BankName != "" {
			fmt.Fprintf(&b, "bank: %s\n", meta.BankName)
		}
		fmt.Fprintf(&b, "transactions: %d\n", len(r.Result.Transactions))
		if summary && r.Insights != nil {
			writeInsights(&b, r.Insights)
		}
		b.WriteString("\n")
		b.WriteString(r.Result.RawText)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeInsights(b *strings.Builder, in *service.Insights) {
	if in.EarliestDate != nil && in.LatestDate != nil {
		fmt.Fprintf(b, "period: %s to %s\n", in.EarliestDate.Format("2006-01-02"), in.LatestDate.Format("2006-01-02"))
	}
	fmt.Fprintf(b, "income: %s (%d)\n", in.TotalIncome.Display(), in.Credits)
	fmt.Fprintf(b, "expenses: %s (%d)\n", in.TotalExpenses.Display(), in.Debits)
	fmt.Fprintf(b, "net: %s\n", in.Net.Display())
	for _, issue := range in.Issues {
		fmt.Fprintf(b, "issue: %s: %s\n", issue.Type, issue.Suggestion)
	}
}
