package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lalith-99/eventboard/internal/models"
)

// csvHeader is the column order of exported sheets. ReadCSV accepts the
// columns in any order and ignores ones it does not know.
var csvHeader = []string{"Name", "Instagram", "Table", "Status", "Gender", "Age"}

// ExportRows turns stored guests into import rows, the inverse of Import.
//
// Why rows and not the guest records themselves?
//   - The sheet is what planners edit between events. Whatever leaves here
//     must come back through Import without a single row error.
//   - Rows carry only what the importer reads. Contact numbers and ids stay
//     in the store.
//
// A guest without a table gets the "Unassigned" label, which Import reads
// back as "no table".
func ExportRows(guests []models.Guest) []Row {
	rows := make([]Row, 0, len(guests))
	for _, g := range guests {
		table := g.Table
		if table == "" {
			table = unassignedLabel
		}
		rows = append(rows, Row{
			Name:      g.Name,
			Instagram: g.Instagram,
			Table:     table,
			Status:    string(g.Status),
			Gender:    g.Gender,
			Age:       Cell(models.AgeFromPtr(g.Age).String()),
		})
	}
	return rows
}

// WriteCSV writes rows as a sheet with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		rec := []string{r.Name, r.Instagram, r.Table, r.Status, r.Gender, string(r.Age)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a sheet whose first line names the columns. Header names
// match case-insensitively; a Name column is required.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty sheet: missing header line")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	if _, ok := cols["name"]; !ok {
		return nil, errors.New("sheet has no Name column")
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		rows = append(rows, Row{
			Name:      cell("name"),
			Instagram: cell("instagram"),
			Table:     cell("table"),
			Status:    cell("status"),
			Gender:    cell("gender"),
			Age:       Cell(cell("age")),
		})
	}
	return rows, nil
}
