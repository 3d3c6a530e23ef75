package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/locale"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/parser"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
	"github.com/FACorreiaa/statement-ingest/pkg/logger"
)

const khanCSV = "Хаан банк,,,,\n" +
	"Огноо,Орлого,Зарлага,Гүйлгээний утга,Үлдэгдэл\n" +
	"2025.01.10,\"50,000.00\",0.00,Цалин,150000.00\n" +
	"2025.01.11,0.00,1200.00,Coffee,148800.00\n"

type durationRecorder struct {
	mu      sync.Mutex
	formats []string
}

func (d *durationRecorder) ObserveDuration(format string, _ time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.formats = append(d.formats, format)
}

func newTestService() *ImportService {
	dispatcher := parser.New(parser.Options{Messages: locale.MustLoad("en")})
	return NewImportService(dispatcher, logger.Discard()).WithTracer(noop.NewTracerProvider().Tracer("test"))
}

func TestImportService_ParseFile(t *testing.T) {
	durations := &durationRecorder{}
	svc := newTestService().WithDurationObserver(durations)

	t.Run("success", func(t *testing.T) {
		res, err := svc.ParseFile(context.Background(), []byte(khanCSV), "jan.csv", 0)
		require.NoError(t, err)
		require.True(t, res.Success, res.Error)
		assert.Len(t, res.Transactions, 2)
		assert.Equal(t, "Хаан Банк", res.Metadata.BankName)

		_, parseErr := uuid.Parse(res.Metadata.ParseID)
		assert.NoError(t, parseErr)
	})

	t.Run("failure stays inside the result", func(t *testing.T) {
		res, err := svc.ParseFile(context.Background(), []byte("x"), "notes.docx", 0)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, statement.KindUnsupportedFormat, res.Kind)
		assert.ErrorIs(t, res.Err, statement.ErrUnsupportedFormat)
		assert.NotEmpty(t, res.Metadata.ParseID)
	})

	t.Run("each call gets its own parse id", func(t *testing.T) {
		a, err := svc.ParseFile(context.Background(), []byte(khanCSV), "a.csv", 0)
		require.NoError(t, err)
		b, err := svc.ParseFile(context.Background(), []byte(khanCSV), "a.csv", 0)
		require.NoError(t, err)
		assert.NotEqual(t, a.Metadata.ParseID, b.Metadata.ParseID)
		a.Metadata.ParseID, b.Metadata.ParseID = "", ""
		assert.Equal(t, a, b)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.ParseFile(ctx, []byte(khanCSV), "jan.csv", 0)
		assert.ErrorIs(t, err, context.Canceled)
	})

	assert.Contains(t, durations.formats, statement.FormatCSV)
	assert.Contains(t, durations.formats, "docx")
}

func TestImportService_ParseBatch(t *testing.T) {
	svc := newTestService().WithWorkers(3)

	var docs []statement.Document
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("statement-%02d.csv", i)
		if i%5 == 0 {
			name = fmt.Sprintf("statement-%02d.txt", i)
		}
		docs = append(docs, statement.Document{Content: []byte(khanCSV), Filename: name})
	}

	results, err := svc.ParseBatch(context.Background(), docs, 0)
	require.NoError(t, err)
	require.Len(t, results, len(docs))

	for i, res := range results {
		assert.Equal(t, docs[i].Filename, res.Metadata.Filename)
		if i%5 == 0 {
			assert.Equal(t, statement.KindUnsupportedFormat, res.Kind)
			continue
		}
		assert.True(t, res.Success)
		assert.Len(t, res.Transactions, 2)
	}
}

func TestImportService_ParseBatchEdges(t *testing.T) {
	svc := newTestService()

	t.Run("empty batch", func(t *testing.T) {
		results, err := svc.ParseBatch(context.Background(), nil, 0)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		docs := []statement.Document{{Content: []byte(khanCSV), Filename: "a.csv"}}
		_, err := svc.ParseBatch(ctx, docs, 0)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("more workers than documents", func(t *testing.T) {
		docs := []statement.Document{{Content: []byte(khanCSV), Filename: "a.csv"}}
		results, err := svc.WithWorkers(16).ParseBatch(context.Background(), docs, 0)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, results[0].Success)
	})
}
