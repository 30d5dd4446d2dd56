package models

import (
	"encoding/json"
	"testing"
)

func TestAge_UnmarshalJSON(t *testing.T) {
	tt := []struct {
		name      string
		body      string
		wantValid bool
		wantValue int
		wantErr   bool
	}{
		{name: "number", body: `31`, wantValid: true, wantValue: 31},
		{name: "zero", body: `0`, wantValid: true},
		{name: "numeric string", body: `"31"`, wantValid: true, wantValue: 31},
		{name: "padded string", body: `" 31 "`, wantValid: true, wantValue: 31},
		{name: "sheet float", body: `"31.0"`, wantValid: true, wantValue: 31},
		{name: "fraction truncates", body: `31.5`, wantValid: true, wantValue: 31},
		{name: "fraction string truncates", body: `"27.9"`, wantValid: true, wantValue: 27},
		{name: "negative kept for validation", body: `"-4"`, wantValid: true, wantValue: -4},
		{name: "empty string", body: `""`},
		{name: "blank string", body: `"  "`},
		{name: "null", body: `null`},
		{name: "words", body: `"thirty"`, wantErr: true},
		{name: "nan", body: `"NaN"`, wantErr: true},
		{name: "huge", body: `1e30`, wantErr: true},
		{name: "bool", body: `true`, wantErr: true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var a Age
			err := json.Unmarshal([]byte(tc.body), &a)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", a)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if a.Valid != tc.wantValid || a.Value != tc.wantValue {
				t.Errorf("Age = %+v, want valid=%v value=%d", a, tc.wantValid, tc.wantValue)
			}
		})
	}
}

// Inside a patch, "" must read as a present value that clears, not as absent.
func TestAge_InField(t *testing.T) {
	var p struct {
		Age Field[Age] `json:"age"`
	}
	if err := json.Unmarshal([]byte(`{"age":""}`), &p); err != nil {
		t.Fatal(err)
	}
	if !p.Age.Set || p.Age.Value.Valid {
		t.Errorf("Age = %+v, want set and cleared", p.Age)
	}
	if p.Age.Value.Ptr() != nil {
		t.Error("Ptr should be nil for a cleared age")
	}
}

func TestAge_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Age `json:"a"`
		B Age `json:"b"`
	}{A: AgeOf(40)})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":40,"b":null}` {
		t.Errorf("got %s", out)
	}
	if AgeOf(7).String() != "7" || (Age{}).String() != "" {
		t.Error("String mismatch")
	}
}
