package cli

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	"github.com/spf13/cobra"
)

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "Work with the per-document-type integrity chains",
}

var chainsVerifyCmd = &cobra.Command{
	Use:   "verify [document-type]",
	Short: "Walk one integrity chain, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		var results []domain.ChainVerification
		if len(args) == 1 {
			res, err := a.services.Integrity.VerifyChain(cmd.Context(), domain.DocumentType(args[0]))
			if err != nil {
				return err
			}
			results = append(results, *res)
		} else {
			results, err = a.services.Integrity.VerifyAllChains(cmd.Context())
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if asJSON {
			if err := printJSON(out, results); err != nil {
				return err
			}
		} else {
			for _, r := range results {
				status := "ok"
				if !r.Valid {
					status = "BROKEN"
				}
				fmt.Fprintf(out, "%-14s %6d records  %s\n", r.DocumentType, r.RecordCount, status)
				for _, b := range r.Breaks {
					fmt.Fprintf(out, "  position %d (%s): %s\n", b.ChainPosition, b.DocumentID, strings.Join(b.FailedChecks, ", "))
				}
			}
		}

		var broken []string
		for _, r := range results {
			if !r.Valid {
				broken = append(broken, string(r.DocumentType))
			}
		}
		if len(broken) > 0 {
			return failedf("broken chains: %s", strings.Join(broken, ", "))
		}
		return nil
	},
}

func init() {
	chainsCmd.AddCommand(chainsVerifyCmd)
	rootCmd.AddCommand(chainsCmd)
}
