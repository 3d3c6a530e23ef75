package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/locale"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/transactions"
)

// errNoXLSReader is returned by readXLS in builds without the legacy reader.
var errNoXLSReader = errors.New("xls reader not compiled in")

// sheet is one worksheet's cell values in row order.
type sheet struct {
	name string
	rows [][]string
}

// ExcelExtractor reads XLSX workbooks with excelize and legacy XLS workbooks
// with extrame/xls. Every sheet becomes its own table.
type ExcelExtractor struct {
	opts Options
}

// NewExcelExtractor creates an Excel extractor.
func NewExcelExtractor(opts Options) *ExcelExtractor {
	return &ExcelExtractor{opts: opts.withDefaults()}
}

func (e *ExcelExtractor) Extract(doc statement.Document, maxChars int) (res statement.Result) {
	ext := Extension(doc.Filename)
	meta := statement.Metadata{Format: ext, Filename: doc.Filename}
	defer func() {
		if r := recover(); r != nil {
			err := panicError(r)
			res = e.opts.fail(statement.KindInternal, e.opts.Messages.Text(locale.ReadErrorExcel, "error", err.Error()), err, meta)
		}
	}()

	var (
		sheets []sheet
		err    error
	)
	switch ext {
	case statement.FormatXLSX:
		sheets, err = readXLSX(doc.Content)
	case statement.FormatXLS:
		sheets, err = readXLS(doc.Content)
	default:
		return e.opts.fail(statement.KindUnsupportedFormat, e.opts.Messages.Text(locale.UnsupportedExcel, "ext", ext),
			fmt.Errorf("excel sub-format %q", ext), meta)
	}
	if errors.Is(err, errNoXLSReader) {
		return e.opts.fail(statement.KindMissingCapability, e.opts.Messages.Text(locale.MissingCapability, "reader", "xls"), err, meta)
	}
	if err != nil {
		return e.opts.fail(statement.KindInternal, e.opts.Messages.Text(locale.ReadErrorExcel, "error", err.Error()), err, meta)
	}

	display := statement.NewTextBuffer(maxChars, e.opts.marker())
	var (
		tables []statement.Table
		pool   []string
		rows   int
	)
	for _, sh := range sheets {
		meta.SheetNames = append(meta.SheetNames, sh.name)
		e.opts.writeDisplay(display, meta.Format, e.opts.Messages.Text(locale.SheetSeparator, "sheet", sh.name))

		var table statement.Table
		for _, raw := range sh.rows {
			row, ok := trimRow(raw)
			if !ok {
				continue
			}
			table = append(table, row)
			line := joinNonEmpty(row)
			pool = append(pool, line)
			e.opts.writeDisplay(display, meta.Format, line)
		}
		rows += len(table)
		if len(table) > 0 {
			tables = append(tables, table)
		}
	}

	meta.Sheets = len(sheets)
	if rows == 0 {
		return e.opts.fail(statement.KindEmptyExtraction, e.opts.Messages.Text(locale.EmptyExcel), statement.ErrEmptyExtraction, meta)
	}

	fullText := strings.Join(pool, "\n")
	meta.Rows = rows
	meta.HeaderFingerprints = headerFingerprints(tables)
	meta.Truncated = display.Truncated()
	meta.BankName = e.opts.identifyBank(meta.Format, fullText)

	txs := e.opts.miner(meta.Format, transactions.TablesOnly()).Mine(tables, fullText)
	return statement.Succeeded(display.String(), txs, meta)
}

func readXLSX(content []byte) ([]sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content), excelize.Options{
		ShortDatePattern: "yyyy-mm-dd",
		LongTimePattern:  "hh:mm:ss",
	})
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var out []sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.Rows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}

		sh := sheet{name: name}
		for rows.Next() {
			cols, err := rows.Columns()
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("read sheet %s: %w", name, err)
			}
			sh.rows = append(sh.rows, cols)
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("close sheet %s: %w", name, err)
		}
		out = append(out, sh)
	}
	return out, nil
}

// joinNonEmpty tab-joins the non-empty cells of a row.
func joinNonEmpty(row []string) string {
	cells := make([]string, 0, len(row))
	for _, c := range row {
		if c != "" {
			cells = append(cells, c)
		}
	}
	return strings.Join(cells, "\t")
}
