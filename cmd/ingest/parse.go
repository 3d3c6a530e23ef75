package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/parser"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/service"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
	"github.com/FACorreiaa/statement-ingest/pkg/logger"
	"github.com/FACorreiaa/statement-ingest/pkg/storage"
)

// Output formats for the parse command
const (
	outputJSON = "json"
	outputCSV  = "csv"
	outputText = "text"
)

var errParseFailures = errors.New("some statements could not be parsed")

type parseFlags struct {
	output   string
	maxChars int
	locale   string
	currency string
	archive  bool
	summary  bool
}

func newParseCmd(a *app) *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Extract text and transactions from statement files",
		Long: `Parse one or more statement files. Glob patterns are expanded.

Examples:
  # Print a single statement as JSON
  ingest parse ~/Downloads/khan_2025_01.pdf

  # Export all transactions from a folder of exports as CSV
  ingest parse --format csv ~/Downloads/statements/*.xlsx > transactions.csv

  # Keep a copy of each statement with its parse outcome
  ingest parse --archive --summary jan.csv feb.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "format", "f", outputJSON, "output format (json, csv, text)")
	cmd.Flags().IntVar(&flags.maxChars, "max-chars", 0, "raw text budget in characters; overrides PARSER_MAX_CHARS")
	cmd.Flags().StringVar(&flags.locale, "locale", "", "message locale (mn, en); overrides PARSER_LOCALE")
	cmd.Flags().StringVar(&flags.currency, "currency", "", "ISO currency for amounts; detected from the statement when empty")
	cmd.Flags().BoolVar(&flags.archive, "archive", false, "store each statement and its parse outcome under STORAGE_LOCAL_PATH")
	cmd.Flags().BoolVarP(&flags.summary, "summary", "s", false, "include totals and quality issues")

	return cmd
}

func (a *app) runParse(cmd *cobra.Command, args []string, flags *parseFlags) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	switch flags.output {
	case outputJSON, outputCSV, outputText:
	default:
		return fmt.Errorf("unknown output format %q (want json, csv or text)", flags.output)
	}

	cfg := a.cfg
	if flags.locale != "" {
		cfg.Parser.Locale = flags.locale
	}
	if flags.maxChars > 0 {
		cfg.Parser.MaxChars = flags.maxChars
	}
	if flags.currency != "" {
		cfg.Parser.Currency = strings.ToUpper(flags.currency)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	deps, err := InitDependencies(cfg, log, flags.archive)
	if err != nil {
		return err
	}

	docs := make([]statement.Document, 0, len(files))
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		docs = append(docs, statement.Document{Content: content, Filename: filepath.Base(path)})
	}

	results, err := deps.ImportService.ParseBatch(ctx, docs, cfg.Parser.MaxChars)
	if err != nil {
		return err
	}

	if deps.FileStorage != nil {
		archiveAll(ctx, deps, docs, results)
	}

	reports := make([]report, len(results))
	failed := 0
	for i, res := range results {
		reports[i] = report{Result: res}
		if !res.Success {
			failed++
			continue
		}
		if flags.summary || flags.output == outputCSV {
			reports[i].Insights = service.Summarize(res, cfg.Parser.Currency)
		}
	}

	if err := writeReports(cmd.OutOrStdout(), flags.output, reports, flags.summary); err != nil {
		return err
	}

	if err := deps.FlushMetrics(); err != nil {
		log.Warn("metrics not written", "error", err)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errParseFailures, failed, len(results))
	}
	return nil
}

// expandFiles resolves glob patterns; literal paths that match nothing must exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err != nil {
				return nil, fmt.Errorf("no files found matching %s", pattern)
			}
			matches = []string{pattern}
		}
		files = append(files, matches...)
	}
	return files, nil
}

// archiveAll stores every document and records its outcome. Archive errors
// are logged and never fail the run.
func archiveAll(ctx context.Context, deps *Dependencies, docs []statement.Document, results []statement.Result) {
	for i, doc := range docs {
		res := results[i]
		contentType := parser.MIMEType(parser.Extension(doc.Filename))

		info, err := deps.FileStorage.Upload(ctx, doc.Filename, contentType, bytes.NewReader(doc.Content))
		if errors.Is(err, storage.ErrDuplicate) {
			deps.Logger.Info("statement already archived", "filename", doc.Filename, "id", info.ID)
		} else if err != nil {
			deps.Logger.Error("failed to archive statement", "filename", doc.Filename, "error", err)
			continue
		}

		record := storage.ParseRecord{
			ParseID:      res.Metadata.ParseID,
			Success:      res.Success,
			ErrorKind:    string(res.Kind),
			BankName:     res.Metadata.BankName,
			Transactions: len(res.Transactions),
		}
		if err := deps.FileStorage.Annotate(ctx, info.ID, record); err != nil {
			deps.Logger.Error("failed to record parse outcome", "id", info.ID, "error", err)
		}
	}
}
