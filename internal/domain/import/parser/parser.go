// Package parser turns uploaded statement files into normalized results.
// Each format has an Extractor; the Dispatcher picks one from the file
// extension and never sniffs content.
package parser

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/bank"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/locale"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/transactions"
)

// Extractor converts one document into a Result. Implementations never panic
// past Extract and hold no per-call state, so one value can serve concurrent calls.
type Extractor interface {
	Extract(doc statement.Document, maxChars int) statement.Result
}

// Options carries the read-only collaborators shared by all extractors. Now
// anchors the window of statement years a PDF table must mention.
type Options struct {
	Messages   *locale.Table
	Observer   statement.Observer
	Banks      *bank.Identifier
	Heuristics []transactions.Heuristic
	Now        func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Messages == nil {
		o.Messages = locale.Default()
	}
	o.Observer = statement.OrNop(o.Observer)
	if o.Banks == nil {
		o.Banks = bank.Default()
	}
	if o.Heuristics == nil {
		o.Heuristics = transactions.DefaultHeuristics
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (o Options) miner(format string, extra ...transactions.Option) *transactions.Miner {
	opts := []transactions.Option{
		transactions.WithHeuristics(o.Heuristics...),
		transactions.WithObserver(o.Observer),
		transactions.WithFormat(format),
	}
	return transactions.NewMiner(o.Messages.Text(locale.DefaultDescription), append(opts, extra...)...)
}

func (o Options) marker() string {
	return o.Messages.Text(locale.TruncationMarker)
}

// identifyBank looks the issuing bank up in text and reports it.
func (o Options) identifyBank(format, text string) string {
	name, ok := o.Banks.Identify(text)
	if ok {
		o.Observer.Observe(statement.Event{Kind: statement.EventBankDetected, Format: format, Detail: name})
	}
	return name
}

// writeDisplay appends line to the display buffer and reports the write that
// exhausts the budget. Later writes are dropped silently.
func (o Options) writeDisplay(buf *statement.TextBuffer, format, line string) {
	if buf.Truncated() {
		return
	}
	if !buf.WriteLine(line) {
		o.Observer.Observe(statement.Event{Kind: statement.EventTruncated, Format: format, Count: buf.Lines()})
	}
}

func (o Options) fail(kind statement.ErrorKind, message string, cause error, meta statement.Metadata) statement.Result {
	o.Observer.Observe(statement.Event{Kind: statement.EventFailed, Format: meta.Format, Detail: string(kind)})
	return statement.Failed(kind, message, cause, meta)
}

// Extension returns the lowercase text after the last dot of filename, or ""
// when there is none.
func Extension(filename string) string {
	ext := path.Ext(strings.ReplaceAll(filename, `\`, "/"))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// panicError wraps a recovered panic value.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("recovered: %w", err)
	}
	return fmt.Errorf("recovered: %v", r)
}
