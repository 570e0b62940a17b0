package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func failuresCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "failures",
		Short: "Show recent notification delivery failures",
		Example: `  stctl failures
  stctl failures --limit 10 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			failures, err := c.Failures(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), failures)
			}
			if len(failures) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No delivery failures.")
				return nil
			}
			return printFailuresTable(cmd.OutOrStdout(), failures)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of failures")

	return cmd
}

func quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show Steam API call budget usage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			q, err := c.Quota(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), q)
			}
			tw := newTabWriter(cmd.OutOrStdout())
			tw.writef("Used:\t%d/%d\n", q.WindowUsed, q.WindowLimit)
			tw.writef("Remaining:\t%d\n", q.Remaining)
			if !q.ResetAt.IsZero() {
				tw.writef("Resets:\t%s (in %s)\n",
					q.ResetAt.Local().Format(timeLayout),
					time.Until(q.ResetAt).Round(time.Second))
			}
			return tw.finish()
		},
	}
}
