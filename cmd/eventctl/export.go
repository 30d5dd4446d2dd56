package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lalith-99/eventboard/internal/importer"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the guest list from the store",
		Long: `Export prints the stored guest list.

  --format overview  folded guests and tables as JSON (default)
  --format rows      import rows as JSON, readable by "eventctl import"
  --format csv       import rows as a CSV sheet, readable by "eventctl import"

The rows and csv formats round-trip: importing their output into an empty
store rebuilds the same guests and seating.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "overview", "rows", "csv":
			default:
				return fmt.Errorf("unknown format %q: want overview, rows or csv", format)
			}

			svc, closeStore, err := openPlanner(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer closeStore()

			if format == "overview" {
				ov, err := svc.Overview(cmd.Context())
				if err != nil {
					return fmt.Errorf("load overview: %w", err)
				}
				return writeJSON(cmd.OutOrStdout(), ov)
			}

			guests, err := svc.ListGuestsDeduped(cmd.Context())
			if err != nil {
				return fmt.Errorf("list guests: %w", err)
			}
			rows := importer.ExportRows(guests)
			if format == "csv" {
				return importer.WriteCSV(cmd.OutOrStdout(), rows)
			}
			return writeJSON(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVar(&format, "format", "overview", "Output format: overview, rows or csv")
	return cmd
}
