package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"effcost/adapters/excel"
	"effcost/adapters/render"
	"effcost/app"
	"effcost/internal/config"
)

func main() {
	rootCmd := newRootCmd(os.Stdout)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	format        string
	strictColumns bool
	sheet         string
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "effcost <input-file>",
		Short: "Compute per-entry efficiency loss and overall efficiency from a cost table",
		Long: `Compute per-entry efficiency loss and overall efficiency from a table of
entry, ideal and actual values.

The input is comma-separated text (or an .xlsx workbook) whose header names the
columns entry, ideal and actual in any order. ideal and actual may be numbers or
arithmetic expressions using + - * / and parentheses. Other columns are ignored
unless --strict-columns is set.

The report is written to standard output as JSON: one object per entry in input
order, followed by the aggregate under "RESULT".

Example: effcost costs.csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("strict-columns") {
				cfg.Input.StrictColumns = opts.strictColumns
			}
			if cmd.Flags().Changed("sheet") {
				cfg.Input.Sheet = opts.sheet
			}
			return runReport(cmd.Context(), cfg, args[0], opts.format, stdout)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", render.FormatJSON, "Output format: json|markdown|html")
	cmd.Flags().BoolVar(&opts.strictColumns, "strict-columns", false, "Reject columns other than entry, ideal, actual")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Sheet to read from an .xlsx workbook (default: first sheet)")

	return cmd
}

func runReport(ctx context.Context, cfg *config.Config, path, format string, stdout io.Writer) error {
	renderer, err := render.ForFormat(format)
	if err != nil {
		return err
	}

	logger := cfg.Logger()
	svc := app.NewReportService(app.NewCalculator(), logger)
	result, err := svc.Generate(ctx, app.ReportRequest{
		Source:   excel.NewDataReader(path, cfg.ReaderConfig(), logger),
		Renderer: renderer,
	})
	if err != nil {
		return err
	}

	if _, err := stdout.Write(result.Output); err != nil && !isBrokenPipe(err) {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// downstream consumers like `head` may close early
func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}
