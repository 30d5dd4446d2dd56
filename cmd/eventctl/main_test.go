package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lalith-99/eventboard/internal/importer"
)

func writeRows(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func chdirTemp(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
}

func TestImport_DryRunReportsRejectedRows(t *testing.T) {
	chdirTemp(t)
	rows := writeRows(t, `[
		{"name": "Ana", "table": "VIP-1", "status": "confirmed", "age": 30},
		{"name": "Bo", "table": "VIP-1", "status": "Maybe"}
	]`)

	out, err := runCLI(t, "import", "--store", "memory://", "--file", rows)
	if err == nil {
		t.Fatal("expected an error for the rejected row")
	}

	var res importer.Result
	if jerr := json.Unmarshal([]byte(out), &res); jerr != nil {
		t.Fatalf("decode output %q: %v", out, jerr)
	}
	if res.Created != 0 || res.TablesCreated != 0 {
		t.Errorf("dry run wrote: %+v", res)
	}
	if len(res.Errors) != 1 || res.Errors[0].Row != 2 {
		t.Errorf("Errors = %+v, want row 2 only", res.Errors)
	}
}

func TestImport_ApplyWritesToFileStore(t *testing.T) {
	chdirTemp(t)
	dir := t.TempDir()
	store := "file://" + filepath.Join(dir, "data.json")
	rows := writeRows(t, `[
		{"name": "Ana", "table": "VIP-1", "status": "Confirmed"},
		{"name": "Bo", "table": "vip-1", "status": "Tentative"}
	]`)

	if _, err := runCLI(t, "import", "--store", store, "--file", rows, "--apply"); err != nil {
		t.Fatalf("import: %v", err)
	}

	out, err := runCLI(t, "export", "--store", store)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var ov struct {
		Guests []struct{ Name, Table string }
		Tables []struct {
			Name   string
			Guests []string
		}
	}
	if err := json.Unmarshal([]byte(out), &ov); err != nil {
		t.Fatalf("decode export %q: %v", out, err)
	}
	if len(ov.Tables) != 1 || len(ov.Tables[0].Guests) != 2 {
		t.Fatalf("tables = %+v, want one table with two guests", ov.Tables)
	}
	for _, g := range ov.Guests {
		if g.Table != "VIP-1" {
			t.Errorf("guest %s seated at %q, want VIP-1", g.Name, g.Table)
		}
	}
}

func TestImport_RequiresFile(t *testing.T) {
	chdirTemp(t)
	if _, err := runCLI(t, "import", "--store", "memory://"); err == nil {
		t.Fatal("expected missing --file to fail")
	}
}

func TestExport_CSVImportsIntoFreshStore(t *testing.T) {
	chdirTemp(t)
	dir := t.TempDir()
	src := "file://" + filepath.Join(dir, "src.json")
	dst := "file://" + filepath.Join(dir, "dst.json")
	rows := writeRows(t, `[
		{"name": "Ana", "table": "Garden", "status": "Confirmed", "age": "31.0"},
		{"name": "Bo", "status": "Tentative", "gender": "M"}
	]`)
	if _, err := runCLI(t, "import", "--store", src, "--file", rows, "--apply"); err != nil {
		t.Fatalf("import: %v", err)
	}

	sheet, err := runCLI(t, "export", "--store", src, "--format", "csv")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	sheetPath := filepath.Join(dir, "guests.csv")
	if err := os.WriteFile(sheetPath, []byte(sheet), 0o600); err != nil {
		t.Fatal(err)
	}

	// The .csv extension selects the CSV reader.
	if _, err := runCLI(t, "import", "--store", dst, "--file", sheetPath, "--apply"); err != nil {
		t.Fatalf("re-import: %v\n%s", err, sheet)
	}

	want, err := runCLI(t, "export", "--store", src, "--format", "rows")
	if err != nil {
		t.Fatal(err)
	}
	got, err := runCLI(t, "export", "--store", dst, "--format", "rows")
	if err != nil {
		t.Fatal(err)
	}
	var wantRows, gotRows []importer.Row
	if err := json.Unmarshal([]byte(want), &wantRows); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(got), &gotRows); err != nil {
		t.Fatal(err)
	}
	if len(gotRows) != 2 || len(wantRows) != 2 {
		t.Fatalf("rows: got %+v, want %+v", gotRows, wantRows)
	}
	for i := range wantRows {
		if gotRows[i] != wantRows[i] {
			t.Errorf("row %d = %+v, want %+v", i, gotRows[i], wantRows[i])
		}
	}
	if wantRows[0].Age != "31" || wantRows[1].Table != "Unassigned" {
		t.Errorf("rows = %+v", wantRows)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	chdirTemp(t)
	if _, err := runCLI(t, "export", "--store", "memory://", "--format", "xlsx"); err == nil {
		t.Fatal("expected an unknown format to fail")
	}
}
