package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

func productsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List every tracked product with its scheduler state",
		Example: `  stctl products
  stctl products --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			products, err := c.Products(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), products)
			}
			if len(products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tracked products.")
				return nil
			}
			return printProductsTable(cmd.OutOrStdout(), products)
		},
	}
}

func searchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the Steam store by name",
		Example: `  stctl search "portal"
  stctl search "hollow knight" --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			results, err := c.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), results)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches.")
				return nil
			}
			tw := newTabWriter(cmd.OutOrStdout())
			tw.writef("ID\tNAME\n")
			for _, r := range results {
				tw.writef("%s\t%s\n", r.ID, r.Name)
			}
			return tw.finish()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")

	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [product-id]",
		Short: "Check products now",
		Long: "Without arguments, run a full tick over every tracked product.\n" +
			"With a product id, check only that product.",
		Example: `  stctl check
  stctl check 620`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				res, err := c.CheckProduct(cmd.Context(), domain.ProductID(args[0]))
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(out, res)
				}
				fmt.Fprintf(out, "%s: %s\n", res.ProductID, res.Outcome)
				for _, k := range res.Events {
					fmt.Fprintf(out, "  event: %s\n", k)
				}
				if res.Report != nil {
					for _, o := range res.Report.Outcomes {
						fmt.Fprintf(out, "  %s: %s\n", o.Destination.Key(), o.Status)
					}
				}
				if res.Error != "" {
					fmt.Fprintf(out, "  error: %s\n", res.Error)
				}
				return nil
			}

			sum, err := c.RunTick(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(out, sum)
			}
			fmt.Fprintf(out, "Checked %d product(s) in %dms, %d event(s).\n",
				sum.Products, sum.DurationMS, sum.Events)
			tw := newTabWriter(out)
			for _, outcome := range slices.Sorted(maps.Keys(sum.Outcomes)) {
				tw.writef("  %s\t%d\n", outcome, sum.Outcomes[outcome])
			}
			return tw.finish()
		},
	}
}
