package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	"github.com/SscSPs/ledger_integrity/internal/core/services"
	"github.com/spf13/cobra"
)

type exportFlags struct {
	start      string
	end        string
	taxID      string
	fiscalYear int
	dir        string
}

var exportOpts exportFlags

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the regulatory export file for a period",
	Long: `Generates the pipe-delimited export of every validated entry between --start and
--end and writes it into --dir. Nothing is written when a validation rule fails;
the violations are printed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := exportOpts.request()
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		dir := exportOpts.dir
		if dir == "" {
			dir = a.cfg.ExportDir
		}

		path, file, err := a.services.Export.WriteExport(cmd.Context(), req, dir, cliActor())
		if err != nil {
			var verr *services.ExportValidationError
			if errors.As(err, &verr) {
				printViolations(cmd, verr.Violations)
				return failedf("export rejected with %d violation(s)", len(verr.Violations))
			}
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, map[string]any{"path": path, "file": file})
		}
		fmt.Fprintf(out, "wrote %s: %d rows, %d entries, debit %s, credit %s\n",
			path, file.RowCount, file.EntryCount, domain.FormatMoney(file.TotalDebit), domain.FormatMoney(file.TotalCredit))
		for _, w := range file.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		return nil
	},
}

func (f exportFlags) request() (domain.ExportRequest, error) {
	start, err := time.Parse(domain.DateLayout, f.start)
	if err != nil {
		return domain.ExportRequest{}, fmt.Errorf("invalid --start %q: want YYYY-MM-DD", f.start)
	}
	end, err := time.Parse(domain.DateLayout, f.end)
	if err != nil {
		return domain.ExportRequest{}, fmt.Errorf("invalid --end %q: want YYYY-MM-DD", f.end)
	}
	if end.Before(start) {
		return domain.ExportRequest{}, fmt.Errorf("--end %s is before --start %s", f.end, f.start)
	}
	if f.taxID == "" {
		return domain.ExportRequest{}, errors.New("--tax-id is required")
	}
	req := domain.ExportRequest{PeriodStart: start, PeriodEnd: end, TaxID: f.taxID}
	if f.fiscalYear != 0 {
		year := f.fiscalYear
		req.FiscalYear = &year
	}
	return req, nil
}

func printViolations(cmd *cobra.Command, violations []domain.ExportViolation) {
	if asJSON {
		_ = printJSON(cmd.OutOrStdout(), violations)
		return
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tENTRY\tFIELD\tRULE\tMESSAGE")
	for _, v := range violations {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", v.Row, v.Entry, v.Field, v.Rule, v.Message)
	}
	_ = tw.Flush()
}

func init() {
	exportCmd.Flags().StringVar(&exportOpts.start, "start", "", "first day of the period (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportOpts.end, "end", "", "last day of the period (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportOpts.taxID, "tax-id", "", "company tax identifier used in the file name")
	exportCmd.Flags().IntVar(&exportOpts.fiscalYear, "fiscal-year", 0, "restrict to one fiscal year")
	exportCmd.Flags().StringVar(&exportOpts.dir, "dir", "", "output directory (defaults to EXPORT_DIR)")
	_ = exportCmd.MarkFlagRequired("start")
	_ = exportCmd.MarkFlagRequired("end")
	_ = exportCmd.MarkFlagRequired("tax-id")
	rootCmd.AddCommand(exportCmd)
}
