package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/importer"
)

type importOptions struct {
	file   string
	format string
	apply  bool
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import guest rows from a JSON or CSV file",
		Long: `Import reads a JSON array of rows shaped like
  {"name": "...", "instagram": "...", "table": "...", "status": "Confirmed", "gender": "...", "age": 31}
or a CSV sheet with a Name,Instagram,Table,Status,Gender,Age header, and adds
each guest, creating tables that do not exist yet. Without --apply the rows
are only validated.

The format follows the file extension unless --format is given. Stdin is
read as JSON by default.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readRows(cmd.InOrStdin(), opts.file, opts.format)
			if err != nil {
				return err
			}

			svc, closeStore, err := openPlanner(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer closeStore()

			res, err := importer.New(svc, root.logger).
				Import(cmd.Context(), rows, importer.Options{DryRun: !opts.apply})
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			root.logger.Info("import finished",
				zap.Bool("applied", opts.apply),
				zap.Int("rows", len(rows)),
				zap.Int("created", res.Created),
				zap.Int("tables_created", res.TablesCreated),
				zap.Int("rejected", len(res.Errors)),
			)
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.OK() {
				return fmt.Errorf("%d of %d rows rejected", len(res.Errors), len(rows))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", `Rows file, "-" for stdin (required)`)
	cmd.Flags().StringVar(&opts.format, "format", "", "Rows format: json or csv (default: from the file extension)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Write to the store (default is dry-run)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readRows(stdin io.Reader, file, format string) ([]importer.Row, error) {
	if format == "" {
		format = "json"
		if strings.EqualFold(filepath.Ext(file), ".csv") {
			format = "csv"
		}
	}
	if format != "json" && format != "csv" {
		return nil, fmt.Errorf("unknown format %q: want json or csv", format)
	}

	r := stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open rows: %w", err)
		}
		defer f.Close()
		r = f
	}

	if format == "csv" {
		rows, err := importer.ReadCSV(r)
		if err != nil {
			return nil, fmt.Errorf("read rows from %s: %w", file, err)
		}
		return rows, nil
	}

	var rows []importer.Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rows from %s: %w", file, err)
	}
	return rows, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
