package data

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/chartlayout/pkg/errors"
)

func TestIteratorWalk(t *testing.T) {
	tbl := NewTable(Row{"value": 1.0}, Row{"value": 2.0}, Row{"value": 3.0})
	it := tbl.Iterator()

	if it.Index() != -1 {
		t.Errorf("Index() before Advance = %d, want -1", it.Index())
	}
	var sum float64
	for it.Advance() {
		sum += Float(it.Get("value"))
		it.SetMeta("double", Float(it.Get("value"))*2)
	}
	if sum != 6 {
		t.Errorf("sum = %v, want 6", sum)
	}
	if it.Get("value") != nil {
		t.Error("Get after the last row should be nil")
	}

	it.Reset()
	if !it.Advance() || it.Meta("double") != 2.0 {
		t.Errorf("Meta(double) of row 0 = %v, want 2", it.Meta("double"))
	}
	if !it.Select(2) || it.Index() != 2 {
		t.Errorf("Select(2) index = %d, want 2", it.Index())
	}
	if it.Select(3) {
		t.Error("Select out of range should fail")
	}
	if got := it.MetaAt(1, "double"); got != 4.0 {
		t.Errorf("MetaAt(1) = %v, want 4", got)
	}
	if it.RowsCount() != 3 {
		t.Errorf("RowsCount() = %d, want 3", it.RowsCount())
	}
}

func TestIteratorMetaIsPerCursor(t *testing.T) {
	tbl := NewTable(Row{"v": 1.0})
	a, b := tbl.Iterator(), tbl.Iterator()
	a.Advance()
	b.Advance()
	a.SetMeta("k", "a")
	if b.Meta("k") != nil {
		t.Error("meta leaked between cursors")
	}
}

func TestFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{10.5, 10.5},
		{3, 3},
		{"42", 42},
		{" 7.5 ", 7.5},
		{true, 1},
	}
	for _, tt := range tests {
		if got := Float(tt.in); got != tt.want {
			t.Errorf("Float(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, in := range []any{nil, "abc", "", []int{1}} {
		if got := Float(in); !math.IsNaN(got) {
			t.Errorf("Float(%v) = %v, want NaN", in, got)
		}
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{"1970-01-02", 86400000},
		{"1970-01-01T00:00:01Z", 1000},
		{"1970-01-01 00:01", 60000},
		{1500.0, 1500},
	}
	for _, tt := range tests {
		if got := Timestamp(tt.in); got != tt.want {
			t.Errorf("Timestamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := Timestamp("not a date"); !math.IsNaN(got) {
		t.Errorf("Timestamp(bad) = %v, want NaN", got)
	}
}

func TestBool(t *testing.T) {
	if b := Bool("false"); b == nil || *b {
		t.Errorf("Bool(false) = %v", b)
	}
	if b := Bool(true); b == nil || !*b {
		t.Errorf("Bool(true) = %v", b)
	}
	if Bool("maybe") != nil || Bool(nil) != nil {
		t.Error("unrecognized values should be nil")
	}
}

func TestLoadCSV(t *testing.T) {
	in := "name,value\nVisits,100\nLeads, 60\nEmpty,\n,\n"
	tbl, err := LoadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if got := strings.Join(tbl.Columns, ","); got != "name,value" {
		t.Errorf("Columns = %s, want name,value", got)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}
	if tbl.Rows[1]["value"] != 60.0 {
		t.Errorf("Rows[1][value] = %v, want 60", tbl.Rows[1]["value"])
	}
	if _, ok := tbl.Rows[2]["value"]; ok {
		t.Error("empty cells should be left out")
	}
}

func TestLoadCSVEmptyHeader(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("name,\nA,1\n"))
	if !errors.Is(err, errors.ErrCodeInvalidData) {
		t.Errorf("err = %v, want %v", err, errors.ErrCodeInvalidData)
	}
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		ext string
		raw string
	}{
		{".json", `[{"name":"A","value":10},{"name":"B","value":5}]`},
		{".yaml", "- name: A\n  value: 10\n- name: B\n  value: 5\n"},
		{".csv", "name,value\nA,10\nB,5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			tbl, err := Decode([]byte(tt.raw), tt.ext)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if tbl.Len() != 2 {
				t.Fatalf("Len() = %d, want 2", tbl.Len())
			}
			if got := Float(tbl.Rows[0]["value"]); got != 10 {
				t.Errorf("value = %v, want 10", got)
			}
			if got := String(tbl.Rows[1]["name"]); got != "B" {
				t.Errorf("name = %v, want B", got)
			}
		})
	}

	if _, err := Decode(nil, ".parquet"); !errors.Is(err, errors.ErrCodeUnsupportedInput) {
		t.Errorf("Decode(.parquet) err = %v, want %v", err, errors.ErrCodeUnsupportedInput)
	}
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	f.SetCellValue(sheet, "A1", "name")
	f.SetCellValue(sheet, "B1", "value")
	f.SetCellValue(sheet, "A2", "Visits")
	f.SetCellValue(sheet, "B2", 100)
	f.SetCellValue(sheet, "A3", "Leads")
	f.SetCellValue(sheet, "B3", 60.5)

	path := filepath.Join(t.TempDir(), "funnel.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	f.Close()

	tbl, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if got := Float(tbl.Rows[1]["value"]); got != 60.5 {
		t.Errorf("value = %v, want 60.5", got)
	}

	if _, err := LoadXLSX(path, "Missing"); !errors.Is(err, errors.ErrCodeInvalidData) {
		t.Errorf("missing sheet err = %v, want %v", err, errors.ErrCodeInvalidData)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), "")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want %v", err, errors.ErrCodeNotFound)
	}
}
