// Package service is the caller-facing entry point for statement parsing. It
// wraps the format dispatcher with tracing, logging and batch concurrency.
package service

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/parser"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
)

const tracerName = "github.com/FACorreiaa/statement-ingest/internal/domain/import/service"

// DurationObserver records how long a parse took per format.
type DurationObserver interface {
	ObserveDuration(format string, d time.Duration)
}

// ImportService orchestrates statement parsing
type ImportService struct {
	dispatcher *parser.Dispatcher
	logger     *slog.Logger
	tracer     trace.Tracer
	durations  DurationObserver // Optional: nil if metrics are disabled
	workers    int
}

type parseJob struct {
	index int
	doc   statement.Document
}

type parseResult struct {
	index  int
	result statement.Result
}

// NewImportService creates a new import service
func NewImportService(dispatcher *parser.Dispatcher, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{
		dispatcher: dispatcher,
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
	}
}

// WithDurationObserver reports parse durations to d
func (s *ImportService) WithDurationObserver(d DurationObserver) *ImportService {
	s.durations = d
	return s
}

// WithWorkers caps batch concurrency. n <= 0 uses GOMAXPROCS.
func (s *ImportService) WithWorkers(n int) *ImportService {
	s.workers = n
	return s
}

// WithTracer replaces the global tracer
func (s *ImportService) WithTracer(t trace.Tracer) *ImportService {
	s.tracer = t
	return s
}

// ParseFile parses one statement. The returned error is only ever the
// context's; parse failures are reported inside the Result.
func (s *ImportService) ParseFile(ctx context.Context, content []byte, filename string, maxChars int) (statement.Result, error) {
	return s.Parse(ctx, statement.Document{Content: content, Filename: filename}, maxChars)
}

// Parse is ParseFile over a Document.
func (s *ImportService) Parse(ctx context.Context, doc statement.Document, maxChars int) (statement.Result, error) {
	if err := ctx.Err(); err != nil {
		return statement.Result{}, err
	}

	parseID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "ImportService.Parse", trace.WithAttributes(
		attribute.String("statement.parse_id", parseID),
		attribute.String("statement.filename", doc.Filename),
		attribute.Int("statement.size", len(doc.Content)),
		attribute.Int("statement.max_chars", maxChars),
	))
	defer span.End()

	started := time.Now()
	res := s.dispatcher.Parse(doc, maxChars)
	elapsed := time.Since(started)
	res.Metadata.ParseID = parseID

	if s.durations != nil {
		s.durations.ObserveDuration(res.Metadata.Format, elapsed)
	}

	span.SetAttributes(
		attribute.String("statement.format", res.Metadata.Format),
		attribute.Bool("statement.success", res.Success),
		attribute.Int("statement.transactions", len(res.Transactions)),
	)
	if !res.Success {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, string(res.Kind))
		s.logger.WarnContext(ctx, "statement parse failed",
			"parse_id", parseID,
			"filename", doc.Filename,
			"format", res.Metadata.Format,
			"kind", res.Kind,
			"error", res.Err,
			"duration", elapsed,
		)
		return res, nil
	}

	span.SetStatus(codes.Ok, "")
	s.logger.InfoContext(ctx, "statement parsed",
		"parse_id", parseID,
		"filename", doc.Filename,
		"format", res.Metadata.Format,
		"bank", res.Metadata.BankName,
		"transactions", len(res.Transactions),
		"truncated", res.Metadata.Truncated,
		"duration", elapsed,
	)
	return res, nil
}

// ParseBatch parses documents concurrently and returns results in input
// order. Cancelling ctx stops dispatching new documents and returns the
// context's error.
func (s *ImportService) ParseBatch(ctx context.Context, docs []statement.Document, maxChars int) ([]statement.Result, error) {
	if len(docs) == 0 {
		return []statement.Result{}, ctx.Err()
	}

	workerCount := s.workers
	if workerCount <= 0 {
		workerCount = runtime.GOMAXPROCS(0)
	}
	if workerCount > len(docs) {
		workerCount = len(docs)
	}

	jobs := make(chan parseJob, workerCount*4)
	results := make(chan parseResult, workerCount*4)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				res, err := s.Parse(ctx, job.doc, maxChars)
				if err != nil {
					return
				}
				select {
				case results <- parseResult{index: job.index, result: res}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, doc := range docs {
			select {
			case jobs <- parseJob{index: i, doc: doc}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]statement.Result, len(docs))
	done := 0
	for r := range results {
		out[r.index] = r.result
		done++
	}

	if done < len(docs) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	s.logger.DebugContext(ctx, "statement batch parsed", "documents", len(docs), "workers", workerCount)
	return out, nil
}
