package convert

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klytics/contentkit/internal/formats/docx"
	"github.com/klytics/contentkit/internal/formats/xlsx"
)

func para(style string, runs ...docx.Run) docx.Paragraph {
	return docx.Paragraph{Style: style, Runs: runs}
}

func text(s string) docx.Run { return docx.Run{Text: s} }

func row(field string, value ...docx.Paragraph) docx.Row {
	return docx.Row{Cells: []docx.Cell{
		{Paragraphs: []docx.Paragraph{para("Normal", text(field))}},
		{Paragraphs: value},
	}}
}

func sampleDocument() *docx.Document {
	return &docx.Document{Tables: []docx.Table{
		{Rows: []docx.Row{
			row(" Titel ", para("Normal", text("Die große Welle"))),
			row("Fliesstext",
				para("Normal", text("Ein Blatt aus dem "), text("XIXe siècle"), text(" mit 20 km Weite.")),
				para("List Bullet", text("eins")),
				para("List Bullet", text("zwei")),
				para("Normal", text("Schluss")),
			),
			row("Fliesstext", para("Normal", docx.Run{Text: "Nachtrag", Italic: true})),
			{Cells: []docx.Cell{{Paragraphs: []docx.Paragraph{para("Normal", text("lonely"))}}}},
		}},
		{Rows: []docx.Row{
			row("Titel", para("Normal", text("Zweites Blatt"))),
			row("Creditline", para("Normal", text("Schenkung "), docx.Run{Text: "2", VertAlign: "superscript"})),
		}},
	}}
}

func TestConvertDocument(t *testing.T) {
	c := &Converter{Logger: zerolog.Nop()}
	tbl := c.ConvertDocument(sampleDocument())

	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"Titel", "Fliesstext", "Creditline"}, tbl.Columns())

	first := tbl.Records[0]
	assert.Equal(t, "Die große Welle", first.Get("Titel"))
	assert.Equal(t,
		"Ein Blatt aus dem XIX<sup>e</sup>&nbsp;siècle mit 20&nbsp;km Weite.<br><ul><li>eins</li><li>zwei</li></ul>Schluss<br><em>Nachtrag</em>",
		first.Get("Fliesstext"))
	assert.False(t, first.Has("lonely"))

	second := tbl.Records[1]
	assert.Equal(t, "Zweites Blatt", second.Get("Titel"))
	assert.Equal(t, "Schenkung <sup>2</sup>", second.Get("Creditline"))
	assert.False(t, second.Has("Fliesstext"))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("output", "Raum 1.xlsx"), OutputPath(filepath.Join("textSources", "Raum 1.docx"), "output"))
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Raum 1.docx")
	require.NoError(t, docx.WriteFile(sampleDocument(), input))

	c := &Converter{SheetName: "Sheet1", WrapColumn: "Fliesstext", WrapWidthPx: 400, Logger: zerolog.Nop()}
	outDir := filepath.Join(dir, "output")
	res, err := c.ConvertFile(context.Background(), input, outDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outDir, "Raum 1.xlsx"), res.Output)
	assert.Equal(t, 2, res.Tables)
	assert.Equal(t, 3, res.Fields)

	wb, err := xlsx.ReadFile(res.Output)
	require.NoError(t, err)
	sheet, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	tbl := sheet.Table()
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Die große Welle", tbl.Records[0].Get("Titel"))
	assert.Contains(t, tbl.Records[0].Get("Fliesstext"), "<ul><li>eins</li><li>zwei</li></ul>")
}

func TestConvertFileMissingInput(t *testing.T) {
	c := &Converter{Logger: zerolog.Nop()}
	_, err := c.ConvertFile(context.Background(), filepath.Join(t.TempDir(), "missing.docx"), t.TempDir())
	require.Error(t, err)
}

func TestConvertFileCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &Converter{Logger: zerolog.Nop()}
	_, err := c.ConvertFile(ctx, "any.docx", t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
