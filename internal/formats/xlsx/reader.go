// Package xlsx reads and writes .xlsx workbooks with excelize.
package xlsx

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/contentkit/internal/errors"
	"github.com/klytics/contentkit/internal/table"
)

// Sheet is one worksheet as rows of cell text. Rows may be ragged.
type Sheet struct {
	Name string
	Rows [][]string
}

// Workbook holds every sheet of a file, in workbook order.
type Workbook struct {
	Sheets []Sheet
}

// ReadFile loads all sheets of an .xlsx file. Any failure to open the file
// is reported as an *errors.IOError.
func ReadFile(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsPermission(err) {
			err = fmt.Errorf("%w (close the workbook if it is open in Excel)", err)
		}
		return nil, errors.NewIOError("read", path, err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("%s: sheet %q: %w", path, name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: trimBlankRows(rows)})
	}
	return wb, nil
}

// trimBlankRows drops trailing rows without any text. Excel keeps rows
// that only carry formatting, which would otherwise become empty records.
func trimBlankRows(rows [][]string) [][]string {
	n := len(rows)
	for n > 0 && blank(rows[n-1]) {
		n--
	}
	return rows[:n]
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// SheetNames lists the sheet names in workbook order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns a sheet by name, or a NotFoundError listing the sheets
// the workbook does have.
func (wb *Workbook) Sheet(name string) (*Sheet, error) {
	for i := range wb.Sheets {
		if wb.Sheets[i].Name == name {
			return &wb.Sheets[i], nil
		}
	}
	return nil, errors.NewNotFoundError("sheet", name, wb.SheetNames()...)
}

// Table interprets the first row as the header and the rest as records.
func (s *Sheet) Table() *table.Table {
	return table.FromRows(s.Rows)
}

// SheetFromTable renders a table as a sheet with a header row.
func SheetFromTable(name string, t *table.Table) Sheet {
	return Sheet{Name: name, Rows: t.Rows()}
}
