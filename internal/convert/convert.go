// Package convert turns a Word document of two-column tables into a
// spreadsheet: one row per table, one column per field.
package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/klytics/contentkit/internal/errors"
	"github.com/klytics/contentkit/internal/formats/docx"
	"github.com/klytics/contentkit/internal/formats/xlsx"
	"github.com/klytics/contentkit/internal/markup"
	"github.com/klytics/contentkit/internal/table"
)

// FieldSeparator joins the values of a field name repeated within a table.
const FieldSeparator = "<br>"

// Converter converts .docx content sheets to .xlsx.
type Converter struct {
	// SheetName is the name of the output worksheet.
	SheetName string
	// WrapColumn is widened to WrapWidthPx and wrapped in the output.
	WrapColumn  string
	WrapWidthPx float64
	Logger      zerolog.Logger
}

// Result describes one converted file.
type Result struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Tables int    `json:"tables"`
	Fields int    `json:"fields"`
}

// OutputPath returns {outputDir}/{basename of input without extension}.xlsx.
func OutputPath(input, outputDir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(outputDir, base+".xlsx")
}

// ConvertFile reads input and writes its converted table to outputDir,
// creating the directory if needed.
func (c *Converter) ConvertFile(ctx context.Context, input, outputDir string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := docx.ParseFile(input)
	if err != nil {
		return nil, err
	}

	t := c.ConvertDocument(doc)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.NewIOError("create", outputDir, err)
	}
	output := OutputPath(input, outputDir)

	sheet := c.SheetName
	if sheet == "" {
		sheet = "Sheet1"
	}
	wb := &xlsx.Workbook{Sheets: []xlsx.Sheet{xlsx.SheetFromTable(sheet, t)}}
	opts := xlsx.WriteOptions{
		WrapColumn:  c.WrapColumn,
		WrapWidthPx: c.WrapWidthPx,
		BoldHeader:  true,
	}
	if err := xlsx.WriteFile(wb, output, opts); err != nil {
		return nil, err
	}

	c.Logger.Debug().Str("input", input).Str("output", output).Int("tables", t.Len()).Msg("converted document")

	return &Result{
		Input:  input,
		Output: output,
		Tables: t.Len(),
		Fields: len(t.Columns()),
	}, nil
}

// ConvertDocument builds one record per body table. The first cell of each
// row names the field and the second cell holds its value; further cells are
// ignored. Typography rules are applied to every value once the record is
// complete.
func (c *Converter) ConvertDocument(doc *docx.Document) *table.Table {
	out := &table.Table{}
	for ti, dt := range doc.Tables {
		r := table.NewRecord()
		for ri, row := range dt.Rows {
			if len(row.Cells) < 2 {
				c.Logger.Debug().Int("table", ti).Int("row", ri).Int("cells", len(row.Cells)).Msg("skipping row without a value cell")
				continue
			}
			field := strings.TrimSpace(row.Cells[0].Text())
			r.Append(field, markup.RenderCell(paragraphs(row.Cells[1])), FieldSeparator)
		}
		r.Map(markup.Typography)
		out.Add(r)
	}
	return out
}

func paragraphs(cell docx.Cell) []markup.Paragraph {
	out := make([]markup.Paragraph, len(cell.Paragraphs))
	for i, p := range cell.Paragraphs {
		runs := make([]markup.Run, len(p.Runs))
		for j, r := range p.Runs {
			runs[j] = markup.Run{Text: r.Text, Italic: r.Italic, Superscript: r.IsSuperscript()}
		}
		out[i] = markup.Paragraph{Style: p.Style, Runs: runs}
	}
	return out
}
