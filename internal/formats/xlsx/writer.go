package xlsx

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/contentkit/internal/errors"
)

// pixelsPerWidthUnit converts pixels to Excel column width units.
const pixelsPerWidthUnit = 7.0

// WriteOptions controls the styling applied by WriteFile.
type WriteOptions struct {
	// WrapColumn is the header of the column to widen and wrap. Empty
	// disables it. Only the first sheet is styled.
	WrapColumn string
	// WrapWidthPx is the width given to WrapColumn, in pixels.
	WrapWidthPx float64
	// BoldHeader renders the first row in bold.
	BoldHeader bool
}

// WriteFile creates a new .xlsx file from the given workbook data.
func WriteFile(wb *Workbook, path string, opts WriteOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range wb.Sheets {
		sheetName := sheet.Name
		if sheetName == "" {
			sheetName = fmt.Sprintf("Sheet%d", i+1)
		}

		if i == 0 {
			defaultSheet := f.GetSheetName(0)
			if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
				return fmt.Errorf("could not rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheetName); err != nil {
				return fmt.Errorf("could not create sheet %q: %w", sheetName, err)
			}
		}

		for rowIdx, row := range sheet.Rows {
			cellName, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("invalid cell coordinates: %w", err)
			}
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			if err := f.SetSheetRow(sheetName, cellName, &values); err != nil {
				return fmt.Errorf("could not write row %d of %q: %w", rowIdx+1, sheetName, err)
			}
		}

		if opts.BoldHeader && len(sheet.Rows) > 0 {
			if err := boldHeader(f, sheetName, len(sheet.Rows[0])); err != nil {
				return err
			}
		}

		if i == 0 && opts.WrapColumn != "" {
			if err := wrapColumn(f, sheetName, sheet.Rows, opts); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		if os.IsPermission(err) {
			err = fmt.Errorf("%w (close the workbook if it is open in Excel)", err)
		}
		return errors.NewIOError("write", path, err)
	}

	return nil
}

func boldHeader(f *excelize.File, sheet string, cols int) error {
	if cols == 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("could not create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

// wrapColumn sets the width of the column whose header equals
// opts.WrapColumn and enables wrap text on all of its cells, header included.
// A missing column is not an error.
func wrapColumn(f *excelize.File, sheet string, rows [][]string, opts WriteOptions) error {
	if len(rows) == 0 {
		return nil
	}
	col := -1
	for i, h := range rows[0] {
		if h == opts.WrapColumn {
			col = i + 1
			break
		}
	}
	if col < 0 {
		return nil
	}

	letter, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, letter, letter, opts.WrapWidthPx/pixelsPerWidthUnit); err != nil {
		return fmt.Errorf("could not set width of column %s: %w", letter, err)
	}

	wrap := &excelize.Alignment{WrapText: true}
	header, err := f.NewStyle(&excelize.Style{Alignment: wrap, Font: &excelize.Font{Bold: opts.BoldHeader}})
	if err != nil {
		return fmt.Errorf("could not create wrap style: %w", err)
	}
	if err := f.SetCellStyle(sheet, letter+"1", letter+"1", header); err != nil {
		return err
	}
	if len(rows) < 2 {
		return nil
	}
	body, err := f.NewStyle(&excelize.Style{Alignment: wrap})
	if err != nil {
		return fmt.Errorf("could not create wrap style: %w", err)
	}
	return f.SetCellStyle(sheet, letter+"2", fmt.Sprintf("%s%d", letter, len(rows)), body)
}
