package statement

import (
	"context"
	"log/slog"
)

// EventKind names a diagnostic emitted while a statement is parsed.
type EventKind string

const (
	EventStrategyAccepted EventKind = "strategy_accepted"
	EventStrategyRejected EventKind = "strategy_rejected"
	EventLayoutFallback   EventKind = "layout_fallback"
	EventPageEmpty        EventKind = "page_empty"
	EventTruncated        EventKind = "truncated"
	EventTableTier        EventKind = "table_tier"
	EventTextTier         EventKind = "text_tier"
	EventHeuristic        EventKind = "heuristic"
	EventEncoding         EventKind = "encoding_detected"
	EventBankDetected     EventKind = "bank_detected"
	EventParsed           EventKind = "parsed"
	EventFailed           EventKind = "failed"
)

// Event is one structured diagnostic. Zero fields are omitted by sinks.
type Event struct {
	Kind     EventKind
	Format   string
	Page     int
	Strategy string
	Count    int
	Detail   string
}

// Observer receives diagnostics. Implementations must be safe for concurrent use
// when a single observer is shared between parses.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) Observe(Event) {}

// MultiObserver fans an event out to several sinks in order.
type MultiObserver []Observer

func (m MultiObserver) Observe(e Event) {
	for _, o := range m {
		if o != nil {
			o.Observe(e)
		}
	}
}

// SlogObserver writes events as structured log records.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates an observer backed by logger. A nil logger uses slog.Default().
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) Observe(e Event) {
	level := slog.LevelDebug
	if e.Kind == EventFailed {
		level = slog.LevelWarn
	}

	attrs := make([]slog.Attr, 0, 6)
	attrs = append(attrs, slog.String("event", string(e.Kind)))
	if e.Format != "" {
		attrs = append(attrs, slog.String("format", e.Format))
	}
	if e.Page > 0 {
		attrs = append(attrs, slog.Int("page", e.Page))
	}
	if e.Strategy != "" {
		attrs = append(attrs, slog.String("strategy", e.Strategy))
	}
	if e.Count > 0 {
		attrs = append(attrs, slog.Int("count", e.Count))
	}
	if e.Detail != "" {
		attrs = append(attrs, slog.String("detail", e.Detail))
	}
	o.logger.LogAttrs(context.Background(), level, "statement parse event", attrs...)
}

// OrNop returns o, or a NopObserver when o is nil.
func OrNop(o Observer) Observer {
	if o == nil {
		return NopObserver{}
	}
	return o
}
