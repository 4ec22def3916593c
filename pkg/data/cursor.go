// Package data provides tabular input for the layout engines.
//
// A [Table] is an ordered list of rows keyed by column name. Engines never
// touch tables directly: they walk a [Cursor], which also lets them attach
// transient per-row values ("meta") computed during a layout pass, such as
// a point's height or corner coordinates.
//
// Tables can be loaded from CSV, JSON, YAML and XLSX files (see Load).
package data

// Cursor iterates over the rows of a table.
//
// A fresh cursor is positioned before the first row; call Advance to move
// onto it. Meta values belong to the cursor, not the table, so two cursors
// over the same table do not see each other's meta.
type Cursor interface {
	// Advance moves to the next row and reports whether one exists.
	Advance() bool
	// Select moves directly to row i and reports whether it exists.
	Select(i int) bool
	// Reset moves back before the first row.
	Reset()
	// Index returns the current row index, or -1 before the first row.
	Index() int
	// Get returns the value of a column in the current row, or nil.
	Get(column string) any
	// Meta returns a value previously attached to the current row, or nil.
	Meta(key string) any
	// SetMeta attaches a value to the current row.
	SetMeta(key string, value any)
	// RowsCount returns the number of rows.
	RowsCount() int
}

// Row is one record.
type Row map[string]any

// Table is an ordered set of rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable builds a table from rows, collecting columns in first-seen
// order of sorted keys per row.
func NewTable(rows ...Row) *Table {
	t := &Table{}
	seen := map[string]bool{}
	for _, r := range rows {
		for _, k := range sortedKeys(r) {
			if !seen[k] {
				seen[k] = true
				t.Columns = append(t.Columns, k)
			}
		}
	}
	t.Rows = rows
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Iterator returns a new cursor over t.
func (t *Table) Iterator() *Iterator {
	return &Iterator{table: t, index: -1, meta: make([]map[string]any, t.Len())}
}

// Iterator is the Cursor over a Table.
type Iterator struct {
	table *Table
	index int
	meta  []map[string]any
}

func (it *Iterator) Advance() bool {
	if it.index+1 >= it.table.Len() {
		it.index = it.table.Len()
		return false
	}
	it.index++
	return true
}

func (it *Iterator) Select(i int) bool {
	if i < 0 || i >= it.table.Len() {
		return false
	}
	it.index = i
	return true
}

func (it *Iterator) Reset() { it.index = -1 }

func (it *Iterator) Index() int {
	if it.index >= it.table.Len() {
		return -1
	}
	return it.index
}

func (it *Iterator) Get(column string) any {
	if !it.valid() {
		return nil
	}
	return it.table.Rows[it.index][column]
}

func (it *Iterator) Meta(key string) any {
	if !it.valid() || it.meta[it.index] == nil {
		return nil
	}
	return it.meta[it.index][key]
}

func (it *Iterator) SetMeta(key string, value any) {
	if !it.valid() {
		return
	}
	if it.meta[it.index] == nil {
		it.meta[it.index] = make(map[string]any)
	}
	it.meta[it.index][key] = value
}

func (it *Iterator) RowsCount() int { return it.table.Len() }

// MetaAt returns meta of row i without moving the cursor.
func (it *Iterator) MetaAt(i int, key string) any {
	if i < 0 || i >= len(it.meta) || it.meta[i] == nil {
		return nil
	}
	return it.meta[i][key]
}

func (it *Iterator) valid() bool {
	return it.index >= 0 && it.index < it.table.Len()
}

var _ Cursor = (*Iterator)(nil)
