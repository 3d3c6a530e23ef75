package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/locale"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
)

// Per-page strategy names recorded in metadata when no table strategy wins.
const (
	strategyLayout = "layout"
	strategyNone   = "none"
)

// PDFExtractor reads text-based PDF statements. Each page is tried against
// the table strategies in order and falls back to positional layout text.
type PDFExtractor struct {
	opts       Options
	strategies []Strategy
}

// NewPDFExtractor creates a PDF extractor using DefaultStrategies.
func NewPDFExtractor(opts Options) *PDFExtractor {
	return &PDFExtractor{opts: opts.withDefaults(), strategies: DefaultStrategies}
}

// pageResult is what one page contributes to the document.
type pageResult struct {
	strategy string
	table    statement.Table
	lines    []string
}

func (e *PDFExtractor) Extract(doc statement.Document, maxChars int) (res statement.Result) {
	meta := statement.Metadata{Format: statement.FormatPDF, Filename: doc.Filename}
	defer func() {
		if r := recover(); r != nil {
			err := panicError(r)
			res = e.opts.fail(statement.KindInternal, e.opts.Messages.Text(locale.ReadErrorPDF, "error", err.Error()), err, meta)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
	if err != nil {
		return e.opts.fail(statement.KindInternal, e.opts.Messages.Text(locale.ReadErrorPDF, "error", err.Error()),
			fmt.Errorf("open pdf: %w", err), meta)
	}

	display := statement.NewTextBuffer(maxChars, e.opts.marker())
	var (
		tables []statement.Table
		pool   []string
	)
	meta.Pages = reader.NumPage()
	for i := 1; i <= meta.Pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			meta.Strategies = append(meta.Strategies, strategyNone)
			continue
		}

		pr := e.page(i, page.Content())
		meta.Strategies = append(meta.Strategies, pr.strategy)
		if pr.table != nil {
			tables = append(tables, pr.table)
		}
		for _, line := range pr.lines {
			pool = append(pool, line)
			e.opts.writeDisplay(display, meta.Format, line)
		}
	}

	if len(pool) == 0 {
		return e.opts.fail(statement.KindEmptyExtraction, e.opts.Messages.Text(locale.EmptyPDF), statement.ErrEmptyExtraction, meta)
	}

	fullText := strings.Join(pool, "\n")
	meta.Truncated = display.Truncated()
	meta.BankName = e.opts.identifyBank(meta.Format, fullText)

	txs := e.opts.miner(meta.Format).Mine(tables, fullText)
	return statement.Succeeded(display.String(), txs, meta)
}

func (e *PDFExtractor) page(num int, content pdf.Content) pageResult {
	observe := func(kind statement.EventKind, strategy string, count int) {
		e.opts.Observer.Observe(statement.Event{Kind: kind, Format: statement.FormatPDF, Page: num, Strategy: strategy, Count: count})
	}

	words := pageWords(content.Text)
	if len(words) == 0 {
		observe(statement.EventPageEmpty, "", 0)
		return pageResult{strategy: strategyNone}
	}

	years := recentYears(e.opts.Now())
	for _, s := range e.strategies {
		table := s.Table(words, content.Rect)
		lines := tableLines(table)
		if validLines(lines, years) {
			observe(statement.EventStrategyAccepted, s.Name, len(lines))
			return pageResult{strategy: s.Name, table: table, lines: lines}
		}
		observe(statement.EventStrategyRejected, s.Name, len(lines))
	}

	lines := layoutLines(words)
	observe(statement.EventLayoutFallback, strategyLayout, len(lines))
	return pageResult{strategy: strategyLayout, lines: lines}
}
