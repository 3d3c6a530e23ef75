// Command ingest parses bank statements (PDF, XLSX, XLS, CSV) into
// normalized transactions.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/statement-ingest/pkg/config"
	"github.com/FACorreiaa/statement-ingest/pkg/logger"
)

var version = "dev"

// app carries state resolved before any subcommand runs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ingest",
		Short: "Parse bank statements into normalized transactions",
		Long: `ingest reads PDF, Excel (xlsx, xls) and CSV bank statements and prints the
extracted text and transactions.

Configuration comes from the environment (and an optional .env file):
PARSER_MAX_CHARS, PARSER_LOCALE, PARSER_LOCALE_FILE, PARSER_CURRENCY,
PARSER_WORKERS, LOG_LEVEL, LOG_FORMAT, METRICS_ENABLED, METRICS_TEXTFILE,
STORAGE_LOCAL_PATH.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	root.PersistentFlags().String("log-format", "", "log format (text, json); overrides LOG_FORMAT")

	root.AddCommand(newParseCmd(a))
	root.AddCommand(newFormatsCmd())
	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.Log.Format = format
	}

	log, err := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	a.cfg = cfg
	a.logger = log
	cmd.SetContext(logger.WithLogger(cmd.Context(), log))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
