package statement

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marker = "\n\n[truncated]"

func TestTextBuffer(t *testing.T) {
	t.Run("keeps everything under budget", func(t *testing.T) {
		buf := NewTextBuffer(100, marker)
		assert.True(t, buf.WriteLine("first"))
		assert.True(t, buf.WriteLine("second"))

		assert.False(t, buf.Truncated())
		assert.Equal(t, "first\nsecond", buf.String())
		assert.Equal(t, 2, buf.Lines())
	})

	t.Run("cuts the overflowing line and appends marker", func(t *testing.T) {
		buf := NewTextBuffer(8, marker)
		assert.True(t, buf.WriteLine("abcd"))
		assert.False(t, buf.WriteLine("efghij"))
		assert.False(t, buf.WriteLine("never"))

		assert.True(t, buf.Truncated())
		assert.Equal(t, "abcd\nefg"+strings.TrimRight(marker, " "), buf.String())
		assert.NotContains(t, buf.String(), "never")
	})

	t.Run("exact fit is not truncation", func(t *testing.T) {
		buf := NewTextBuffer(9, marker)
		assert.True(t, buf.WriteLine("abcd"))
		assert.True(t, buf.WriteLine("efgh"))

		assert.False(t, buf.Truncated())
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		buf := NewTextBuffer(5, marker)
		assert.True(t, buf.WriteLine("Огноо"))
		assert.False(t, buf.Truncated())
	})

	t.Run("zero budget uses default", func(t *testing.T) {
		buf := NewTextBuffer(0, marker)
		assert.True(t, buf.WriteLine(strings.Repeat("x", 1000)))
		assert.False(t, buf.Truncated())
	})
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "Хаа", TruncateRunes("Хаан", 3))
	assert.Equal(t, "abc", TruncateRunes("abc", 10))
	assert.Equal(t, "", TruncateRunes("abc", 0))
}

func TestTransaction(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	credit := Transaction{Date: date, Amount: decimal.RequireFromString("50000"), Direction: Credit}
	debit := Transaction{Date: date, Amount: decimal.RequireFromString("50000.00"), Direction: Debit}

	t.Run("signed amount", func(t *testing.T) {
		assert.True(t, credit.Signed().Equal(decimal.NewFromInt(50000)))
		assert.True(t, debit.Signed().Equal(decimal.NewFromInt(-50000)))
	})

	t.Run("dedup key ignores scale and source", func(t *testing.T) {
		other := credit
		other.Amount = decimal.RequireFromString("50000.000")
		other.Source = "line-based"
		other.Description = "different"

		assert.Equal(t, credit.DedupKey(), other.DedupKey())
		assert.NotEqual(t, credit.DedupKey(), debit.DedupKey())
		assert.Equal(t, "2025-01-10|50000.00|credit", credit.DedupKey())
	})
}

func TestResultConstructors(t *testing.T) {
	t.Run("succeeded counts transactions", func(t *testing.T) {
		res := Succeeded("text", []Transaction{{}, {}}, Metadata{Format: FormatCSV})
		assert.True(t, res.Success)
		assert.Equal(t, 2, res.Metadata.TransactionsExtracted)
		assert.Empty(t, res.Error)
		assert.NoError(t, res.Err)
	})

	t.Run("succeeded never returns nil transactions", func(t *testing.T) {
		res := Succeeded("text", nil, Metadata{})
		assert.NotNil(t, res.Transactions)
	})

	t.Run("failed wraps kind and cause", func(t *testing.T) {
		cause := errors.New("zip: not a valid zip file")
		res := Failed(KindInternal, "Excel файл уншихад алдаа гарлаа", cause, Metadata{Format: FormatXLSX})

		assert.False(t, res.Success)
		assert.Empty(t, res.RawText)
		assert.Equal(t, KindInternal, res.Kind)
		require.Error(t, res.Err)
		assert.ErrorIs(t, res.Err, ErrInternal)
		assert.ErrorIs(t, res.Err, cause)
		assert.Contains(t, res.Err.Error(), "xlsx")
	})
}

func TestObservers(t *testing.T) {
	t.Run("multi observer fans out and skips nil", func(t *testing.T) {
		var got []EventKind
		rec := ObserverFunc(func(e Event) { got = append(got, e.Kind) })

		MultiObserver{rec, nil, rec}.Observe(Event{Kind: EventParsed})
		assert.Equal(t, []EventKind{EventParsed, EventParsed}, got)
	})

	t.Run("slog observer writes structured attrs", func(t *testing.T) {
		var out bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

		NewSlogObserver(logger).Observe(Event{Kind: EventStrategyAccepted, Format: FormatPDF, Page: 2, Strategy: "lines"})

		assert.Contains(t, out.String(), `"event":"strategy_accepted"`)
		assert.Contains(t, out.String(), `"page":2`)
		assert.Contains(t, out.String(), `"strategy":"lines"`)
		assert.NotContains(t, out.String(), `"count"`)
	})

	t.Run("failures log at warn", func(t *testing.T) {
		var out bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&out, &slog.HandlerOptions{Level: slog.LevelWarn}))

		obs := NewSlogObserver(logger)
		obs.Observe(Event{Kind: EventParsed})
		assert.Empty(t, out.String())

		obs.Observe(Event{Kind: EventFailed, Detail: "empty"})
		assert.Contains(t, out.String(), `"level":"WARN"`)
	})

	t.Run("OrNop", func(t *testing.T) {
		assert.IsType(t, NopObserver{}, OrNop(nil))
	})
}
