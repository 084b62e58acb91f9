package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/core/services"
	"github.com/spf13/cobra"
)

var (
	auditLimit int
	auditSince string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit trail",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Recompute the hashes of the latest audit records",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		report, err := a.services.Audit.VerifyChain(cmd.Context(), auditLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			if err := printJSON(out, report); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "checked %d records (sequence %d to %d)\n", report.Checked, report.FirstSequence, report.LastSequence)
			for _, d := range report.Discrepancies {
				fmt.Fprintf(out, "  #%d %s: expected %q, got %q\n", d.Sequence, d.Kind, d.Expected, d.Actual)
			}
		}
		if !report.Valid {
			return failedf("audit chain has %d discrepancies", len(report.Discrepancies))
		}
		return nil
	},
}

var auditSuspiciousCmd = &cobra.Command{
	Use:   "suspicious",
	Short: "List off-hours activity and bulk deletions",
	RunE: func(cmd *cobra.Command, args []string) error {
		since, err := parseSince(auditSince, time.Now())
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		activities, err := a.services.Audit.DetectSuspiciousActivity(cmd.Context(), since)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, activities)
		}
		if len(activities) == 0 {
			fmt.Fprintf(out, "nothing suspicious since %s\n", since.Format(time.RFC3339))
			return nil
		}
		for _, act := range activities {
			fmt.Fprintf(out, "%s %s %s: %s\n", act.WindowStart.Format(time.RFC3339), act.Kind, act.ActorID, act.Description)
		}
		return nil
	},
}

// parseSince accepts an RFC 3339 timestamp, a date, or a duration counted back from now.
func parseSince(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return now.Add(-d), nil
	}
	return time.Time{}, fmt.Errorf("invalid --since %q: want RFC 3339, YYYY-MM-DD or a duration such as 24h", raw)
}

func init() {
	auditVerifyCmd.Flags().IntVar(&auditLimit, "limit", services.DefaultAuditVerifyLimit, "number of latest records to check")
	auditSuspiciousCmd.Flags().StringVar(&auditSince, "since", "24h", "start of the window")
	auditCmd.AddCommand(auditVerifyCmd, auditSuspiciousCmd)
	rootCmd.AddCommand(auditCmd)
}
