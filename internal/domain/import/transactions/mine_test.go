package transactions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
)

type recorder struct {
	events []statement.Event
}

func (r *recorder) Observe(e statement.Event) { r.events = append(r.events, e) }

func (r *recorder) kinds() []statement.EventKind {
	out := make([]statement.EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func TestMiner_TableTierWins(t *testing.T) {
	rec := &recorder{}
	m := NewMiner(placeholder, WithObserver(rec), WithFormat(statement.FormatPDF))

	tables := []statement.Table{
		{{"Огноо", "Орлого", "Зарлага", "Утга"}, {"2025.01.10", "50000.00", "0.00", "Salary"}},
		{{"Огноо", "Зарлага"}, {"2025.01.11", "100.00"}},
	}
	pool := "2025.01.12 Ignored 10.00 0.00"

	txs := m.Mine(tables, pool)
	require.Len(t, txs, 2)
	assert.Equal(t, "Salary", txs[0].Description)
	assert.Equal(t, placeholder, txs[1].Description)

	assert.Equal(t, []statement.EventKind{statement.EventTableTier}, rec.kinds())
	assert.Equal(t, 2, rec.events[0].Count)
	assert.Equal(t, statement.FormatPDF, rec.events[0].Format)
}

func TestMiner_FallsBackToText(t *testing.T) {
	rec := &recorder{}
	m := NewMiner(placeholder, WithObserver(rec))

	tables := []statement.Table{{{"A", "B"}, {"1", "2"}}}
	pool := "2025.01.12 10.00 0.00\n2025.01.13 Rent 0.00 800.00"

	txs := m.Mine(tables, pool)
	require.Len(t, txs, 2)
	assert.Equal(t, placeholder, txs[0].Description, "missing text description gets the placeholder")
	assert.Equal(t, "Rent", txs[1].Description)

	assert.Equal(t, []statement.EventKind{
		statement.EventTableTier,
		statement.EventHeuristic,
		statement.EventHeuristic,
		statement.EventHeuristic,
		statement.EventTextTier,
	}, rec.kinds())
	assert.Equal(t, "line-based", rec.events[3].Strategy)
	assert.Equal(t, 2, rec.events[3].Count)
	assert.Equal(t, 2, rec.events[4].Count)
}

func TestMiner_CustomHeuristics(t *testing.T) {
	m := NewMiner("Transaction", WithHeuristics(TabRun))
	txs := m.Mine(nil, "2025.01.12 Shop 0.00 5.00")
	assert.Empty(t, txs)
}

func TestMiner_NilObserver(t *testing.T) {
	m := NewMiner(placeholder, WithObserver(nil))
	assert.NotPanics(t, func() { m.Mine(nil, "") })
}

func TestMiner_TablesOnly(t *testing.T) {
	rec := &recorder{}
	m := NewMiner(placeholder, WithObserver(rec), TablesOnly())

	tables := []statement.Table{{{"Posted", "Memo", "In", "Out"}, {"2025.01.10", "Salary", "50000.00", "0.00"}}}
	txs := m.Mine(tables, "2025.01.10 Salary 50000.00 0.00")

	assert.Empty(t, txs)
	assert.Equal(t, []statement.EventKind{statement.EventTableTier}, rec.kinds())

	tables = append(tables, statement.Table{{"Огноо", "Орлого"}, {"2025.01.11", "700.00"}})
	txs = m.Mine(tables, "")
	require.Len(t, txs, 1)
	assert.Equal(t, statement.Credit, txs[0].Direction)
}
