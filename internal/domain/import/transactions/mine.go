package transactions

import (
	"strconv"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
)

// Miner runs the two extraction tiers: every table first, then the text
// heuristics over the untruncated text pool when the tables produced nothing.
type Miner struct {
	placeholder string
	heuristics  []Heuristic
	observer    statement.Observer
	format      string
	tablesOnly  bool
}

// Option configures a Miner.
type Option func(*Miner)

// WithHeuristics replaces the text-tier heuristic list.
func WithHeuristics(h ...Heuristic) Option {
	return func(m *Miner) { m.heuristics = h }
}

// WithObserver reports tier and heuristic counts to o.
func WithObserver(o statement.Observer) Option {
	return func(m *Miner) { m.observer = statement.OrNop(o) }
}

// WithFormat tags emitted events with the source format.
func WithFormat(format string) Option {
	return func(m *Miner) { m.format = format }
}

// TablesOnly disables the text tier. Tabular sources whose header is not
// recognized yield no transactions instead of being mined as raw text.
func TablesOnly() Option {
	return func(m *Miner) { m.tablesOnly = true }
}

// NewMiner creates a miner. placeholder is the description used when a table
// row or text record carries none.
func NewMiner(placeholder string, opts ...Option) *Miner {
	m := &Miner{
		placeholder: placeholder,
		heuristics:  DefaultHeuristics,
		observer:    statement.NopObserver{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mine returns the table-tier transactions of all tables in order, or the
// deduplicated text-tier transactions of pool when there are none.
func (m *Miner) Mine(tables []statement.Table, pool string) []statement.Transaction {
	var out []statement.Transaction
	for _, t := range tables {
		out = append(out, FromTable(t, m.placeholder)...)
	}
	m.observer.Observe(statement.Event{Kind: statement.EventTableTier, Format: m.format, Count: len(out), Detail: "tables=" + strconv.Itoa(len(tables))})
	if len(out) > 0 || m.tablesOnly {
		return out
	}

	out = union(pool, m.heuristics, func(name string, found int) {
		m.observer.Observe(statement.Event{Kind: statement.EventHeuristic, Format: m.format, Strategy: name, Count: found})
	})
	for i := range out {
		if out[i].Description == "" {
			out[i].Description = m.placeholder
		}
	}
	m.observer.Observe(statement.Event{Kind: statement.EventTextTier, Format: m.format, Count: len(out)})
	return out
}
