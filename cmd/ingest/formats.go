package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/parser"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported statement formats and upload MIME types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Extensions:")
			for _, ext := range parser.SupportedExtensions() {
				note := ""
				if ext == statement.FormatXLS && !parser.XLSAvailable {
					note = " (not available in this build)"
				}
				fmt.Fprintf(out, "  .%s%s\n", ext, note)
			}

			fmt.Fprintln(out, "MIME types:")
			for _, mt := range parser.SupportedMIMETypes() {
				f, _ := parser.FormatForMIME(mt)
				fmt.Fprintf(out, "  %-70s %s\n", mt, strings.ToUpper(f))
			}
			return nil
		},
	}
}
