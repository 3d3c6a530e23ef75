package parser

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/locale"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/sniffer"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/transactions"
)

var errUndecodable = errors.New("no readable characters after decoding")

// CSVExtractor reads delimited text exports. The whole file is treated as a
// single table.
type CSVExtractor struct {
	opts Options
}

// NewCSVExtractor creates a CSV extractor.
func NewCSVExtractor(opts Options) *CSVExtractor {
	return &CSVExtractor{opts: opts.withDefaults()}
}

func (e *CSVExtractor) Extract(doc statement.Document, maxChars int) (res statement.Result) {
	meta := statement.Metadata{Format: statement.FormatCSV, Filename: doc.Filename}
	defer func() {
		if r := recover(); r != nil {
			err := panicError(r)
			res = e.opts.fail(statement.KindInternal, e.opts.Messages.Text(locale.ReadErrorCSV, "error", err.Error()), err, meta)
		}
	}()

	decoded := sniffer.DecodeText(doc.Content)
	meta.Encoding = decoded.Encoding
	e.opts.Observer.Observe(statement.Event{Kind: statement.EventEncoding, Format: meta.Format, Detail: decoded.Encoding})
	if decoded.Lossy && strings.Trim(decoded.Text, "\uFFFD \t\r\n") == "" {
		return e.opts.fail(statement.KindDecodeFailure, e.opts.Messages.Text(locale.DecodeFailure), errUndecodable, meta)
	}

	text := sniffer.StripBOM(decoded.Text)
	delim := sniffer.DetectDelimiter(text)
	meta.Delimiter = delim.String()

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim.Rune
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	display := statement.NewTextBuffer(maxChars, e.opts.marker())
	var (
		table statement.Table
		pool  []string
	)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return e.opts.fail(statement.KindInternal, e.opts.Messages.Text(locale.ReadErrorCSV, "error", err.Error()), err, meta)
		}

		row, ok := trimRow(record)
		if !ok {
			continue
		}
		line := strings.Join(row, "\t")
		table = append(table, row)
		pool = append(pool, line)
		e.opts.writeDisplay(display, meta.Format, line)
	}

	if len(table) == 0 {
		return e.opts.fail(statement.KindEmptyExtraction, e.opts.Messages.Text(locale.EmptyCSV), statement.ErrEmptyExtraction, meta)
	}

	fullText := strings.Join(pool, "\n")
	meta.Rows = len(table)
	meta.HeaderFingerprints = headerFingerprints([]statement.Table{table})
	meta.Truncated = display.Truncated()
	meta.BankName = e.opts.identifyBank(meta.Format, fullText)

	txs := e.opts.miner(meta.Format, transactions.TablesOnly()).Mine([]statement.Table{table}, fullText)
	return statement.Succeeded(display.String(), txs, meta)
}

// headerFingerprints fingerprints the header row of every table that has one.
func headerFingerprints(tables []statement.Table) []string {
	var out []string
	for _, t := range tables {
		idx, ok := transactions.FindHeader(t)
		if !ok {
			continue
		}
		if fp := sniffer.Fingerprint(t[idx]); fp != "" {
			out = append(out, fp)
		}
	}
	return out
}

// trimRow trims every cell and reports false when all of them are blank.
func trimRow(cells []string) ([]string, bool) {
	out := make([]string, len(cells))
	blank := true
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
		if out[i] != "" {
			blank = false
		}
	}
	return out, !blank
}
