package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lalith-99/eventboard/internal/models"
)

// Row is one normalized spreadsheet line. Column mapping happens before
// rows reach the importer.
type Row struct {
	Name      string `json:"name"`
	Instagram string `json:"instagram"`
	Table     string `json:"table"`
	Status    string `json:"status"`
	Gender    string `json:"gender"`
	Age       Cell   `json:"age"`
}

// Cell holds a raw spreadsheet value that may arrive as a JSON number,
// a string or null. Validation happens per row, so a bad cell rejects only
// its own row instead of the whole request body.
type Cell string

func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Cell(s)
	default:
		*c = Cell(data)
	}
	return nil
}

type normalizedRow struct {
	name      string
	instagram string
	table     string
	status    models.GuestStatus
	gender    string
	age       models.Age
}

func (r Row) normalize() (*normalizedRow, error) {
	n := &normalizedRow{
		name:      strings.TrimSpace(r.Name),
		instagram: strings.TrimSpace(r.Instagram),
		table:     strings.TrimSpace(r.Table),
		gender:    strings.TrimSpace(r.Gender),
	}
	if n.name == "" {
		return nil, errors.New("name is required")
	}

	status, err := parseStatus(r.Status)
	if err != nil {
		return nil, err
	}
	n.status = status

	age, err := parseAge(string(r.Age))
	if err != nil {
		return nil, err
	}
	n.age = age
	return n, nil
}

func parseStatus(raw string) (models.GuestStatus, error) {
	s := strings.TrimSpace(raw)
	for _, status := range []models.GuestStatus{models.StatusConfirmed, models.StatusTentative} {
		if strings.EqualFold(s, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid status %q: must be Confirmed or Tentative", raw)
}

// parseAge accepts an empty cell (no age) or a non-negative number. A
// fractional age such as "31.5" is truncated to 31, the same way the
// dashboard forms treat it.
func parseAge(raw string) (models.Age, error) {
	age, err := models.ParseAge(raw)
	if err != nil {
		return models.Age{}, err
	}
	if age.Valid && age.Value < 0 {
		return models.Age{}, fmt.Errorf("invalid age %q: must not be negative", raw)
	}
	return age, nil
}
