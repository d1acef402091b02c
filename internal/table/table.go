// Package table holds the in-memory rows both pipelines produce: records
// with ordered columns, and tables whose header is the union of their
// records' columns in order of first appearance.
package table

import "strconv"

// Record maps column names to cell values and remembers column order.
type Record struct {
	columns []string
	values  map[string]string
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Get returns the value of a column, or "" if the record has no such column.
func (r *Record) Get(column string) string {
	return r.values[column]
}

// Has reports whether the column is set on the record.
func (r *Record) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// Set assigns a value, appending the column if it is new.
func (r *Record) Set(column, value string) {
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Append adds value to an existing column separated by sep, or sets it if
// the column is new.
func (r *Record) Append(column, value, sep string) {
	if cur, ok := r.values[column]; ok {
		r.values[column] = cur + sep + value
		return
	}
	r.Set(column, value)
}

// Columns returns the column names in insertion order.
func (r *Record) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Map applies fn to every value in place.
func (r *Record) Map(fn func(string) string) {
	for _, c := range r.columns {
		r.values[c] = fn(r.values[c])
	}
}

// Table is an ordered list of records.
type Table struct {
	Records []*Record
}

// Add appends a record.
func (t *Table) Add(r *Record) {
	t.Records = append(t.Records, r)
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.Records)
}

// Columns returns the union of all record columns in order of first appearance.
func (t *Table) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range t.Records {
		for _, c := range r.columns {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}

// Rows renders the table as a header row followed by one row per record.
// Columns a record lacks are empty.
func (t *Table) Rows() [][]string {
	cols := t.Columns()
	rows := make([][]string, 0, len(t.Records)+1)
	rows = append(rows, cols)
	for _, r := range t.Records {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = r.values[c]
		}
		rows = append(rows, row)
	}
	return rows
}

// FromRows builds a table from a header row and data rows, the shape
// spreadsheet readers return. Short rows are padded with empty values. The
// header is as wide as the longest row: a blank or missing header cell is
// named "Unnamed: <index>" and a repeated one gets a ".1", ".2", ... suffix.
func FromRows(rows [][]string) *Table {
	t := &Table{}
	if len(rows) == 0 {
		return t
	}
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	header := make([]string, width)
	count := make(map[string]int)
	for i := range header {
		h := ""
		if i < len(rows[0]) {
			h = rows[0][i]
		}
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		if n := count[h]; n > 0 {
			count[h]++
			h = h + "." + strconv.Itoa(n)
		} else {
			count[h] = 1
		}
		header[i] = h
	}
	for _, row := range rows[1:] {
		r := NewRecord()
		for i, c := range header {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			r.Set(c, v)
		}
		t.Add(r)
	}
	return t
}
