package data

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/chartlayout/pkg/errors"
)

// Load reads a table from path, choosing the decoder by file extension:
// .csv, .json, .yaml/.yml or .xlsx. For workbooks the first sheet is used
// unless sheet is set.
func Load(path, sheet string) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		return LoadXLSX(path, sheet)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "data file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "read %s", path)
	}
	return Decode(raw, ext)
}

// Decode parses raw table data in the format named by ext
// (".csv", ".json", ".yaml", ".yml").
func Decode(raw []byte, ext string) (*Table, error) {
	switch strings.ToLower(ext) {
	case ".csv":
		return LoadCSV(bytes.NewReader(raw))
	case ".json":
		return LoadJSON(bytes.NewReader(raw))
	case ".yaml", ".yml":
		return LoadYAML(bytes.NewReader(raw))
	}
	return nil, errors.New(errors.ErrCodeUnsupportedInput, "unsupported data format %q", ext)
}

// LoadCSV reads a header row followed by records. Numeric cells become
// float64, empty cells are left out of the row.
func LoadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "parse csv")
	}
	return fromRecords(records)
}

// LoadJSON reads an array of objects.
func LoadJSON(r io.Reader) (*Table, error) {
	var rows []Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "parse json rows")
	}
	return NewTable(rows...), nil
}

// LoadYAML reads a sequence of mappings.
func LoadYAML(r io.Reader) (*Table, error) {
	var rows []Row
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "parse yaml rows")
	}
	return NewTable(rows...), nil
}

// LoadXLSX reads a worksheet whose first row is the header.
func LoadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "workbook %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "open workbook %s", path)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidData, "workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "read sheet %q", sheet)
	}
	return fromRecords(records)
}

func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return &Table{}, nil
	}
	header := records[0]
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
		if columns[i] == "" {
			return nil, errors.New(errors.ErrCodeInvalidData, "column %d has an empty header", i+1)
		}
	}

	t := &Table{Columns: columns}
	for _, rec := range records[1:] {
		row := make(Row, len(columns))
		empty := true
		for i, cell := range rec {
			if i >= len(columns) {
				break
			}
			if v := parseCell(cell); v != nil {
				row[columns[i]] = v
				empty = false
			}
		}
		if !empty {
			t.Rows = append(t.Rows, row)
		}
	}
	return t, nil
}
