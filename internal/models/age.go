package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Age is a guest's age as clients actually send it.
//
// Why not a plain int?
//   - The dashboard's edit form writes input values back as strings, so an
//     age the user touched arrives as "31", and a cleared one as "".
//   - Spreadsheet exports write whole numbers as "31.0".
//   - A strict int would reject the whole request over one form field.
//
// A number, a numeric string, "" and null are all accepted. "" and null mean
// "no age" (Valid is false). Fractions are truncated toward zero. Negative
// values decode fine; callers reject them with a proper validation error.
type Age struct {
	Value int
	Valid bool
}

// AgeOf returns a valid Age.
func AgeOf(v int) Age {
	return Age{Value: v, Valid: true}
}

// AgeFromPtr converts the stored form.
func AgeFromPtr(p *int) Age {
	if p == nil {
		return Age{}
	}
	return AgeOf(*p)
}

// Ptr returns the stored form: nil when there is no age.
func (a Age) Ptr() *int {
	if !a.Valid {
		return nil
	}
	v := a.Value
	return &v
}

// String renders the age the way a sheet cell holds it, "" for no age.
func (a Age) String() string {
	if !a.Valid {
		return ""
	}
	return strconv.Itoa(a.Value)
}

// ParseAge reads a textual age. Surrounding space is ignored.
func ParseAge(raw string) (Age, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Age{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Age{}, fmt.Errorf("invalid age %q: must be a number", raw)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return Age{}, fmt.Errorf("invalid age %q: out of range", raw)
	}
	return AgeOf(int(f)), nil
}

func (a *Age) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Age{}
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	parsed, err := ParseAge(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Age) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(a.Value)), nil
}
