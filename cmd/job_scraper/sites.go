package main

import (
	"github.com/spf13/cobra"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/observability"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the job boards the selector catalog knows",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		observability.NewPrinter(cmd.OutOrStdout()).PrintSites(a.catalog)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}
