package docx

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klytics/contentkit/internal/errors"
)

func textCell(style, text string) Cell {
	return Cell{Paragraphs: []Paragraph{{Style: style, Runs: []Run{{Text: text}}}}}
}

func TestParseAndRoundTrip(t *testing.T) {
	original := &Document{
		Metadata: Metadata{Title: "Japan de Luxe", Creator: "Redaktion"},
		Tables: []Table{
			{Rows: []Row{
				{Cells: []Cell{textCell("Normal", "Titel"), textCell("Normal", "Die große Welle")}},
				{Cells: []Cell{textCell("Normal", "Fliesstext"), {Paragraphs: []Paragraph{
					{Style: "Normal", Runs: []Run{{Text: "Ein "}, {Text: "ukiyo-e", Italic: true}, {Text: " aus dem XIX"}, {Text: "e", VertAlign: "superscript"}}},
					{Style: "List Bullet", Runs: []Run{{Text: "erster Punkt"}}},
					{Style: "List Number", Runs: []Run{{Text: "zweiter\nPunkt"}}},
				}}}},
			}},
			{Rows: []Row{
				{Cells: []Cell{textCell("Normal", "Titel"), textCell("Normal", "Fuji")}},
			}},
		},
	}

	data, err := WriteDocument(original)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "Japan de Luxe", parsed.Metadata.Title)
	require.Len(t, parsed.Tables, 2)
	require.Len(t, parsed.Tables[0].Rows, 2)

	label := parsed.Tables[0].Rows[1].Cells[0]
	assert.Equal(t, "Fliesstext", label.Text())

	value := parsed.Tables[0].Rows[1].Cells[1]
	require.Len(t, value.Paragraphs, 3)

	first := value.Paragraphs[0]
	assert.Equal(t, "Normal", first.Style)
	require.Len(t, first.Runs, 4)
	assert.True(t, first.Runs[1].Italic)
	assert.False(t, first.Runs[0].Italic)
	assert.True(t, first.Runs[3].IsSuperscript())
	assert.Equal(t, "Ein ukiyo-e aus dem XIXe", first.Text())

	assert.Equal(t, "List Bullet", value.Paragraphs[1].Style)
	assert.Equal(t, "ListBullet", value.Paragraphs[1].StyleID)
	assert.Equal(t, "List Number", value.Paragraphs[2].Style)
	assert.Equal(t, "zweiter\nPunkt", value.Paragraphs[2].Text())

	assert.Equal(t, "erster Punkt\nzweiter\nPunkt", Cell{Paragraphs: value.Paragraphs[1:]}.Text())
	assert.Equal(t, "Fuji", parsed.Tables[1].Rows[0].Cells[1].Text())
}

// buildDocx packs hand-written parts into a .docx archive.
func buildDocx(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const wNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func TestParseRunDetails(t *testing.T) {
	body := `<w:document ` + wNS + `><w:body>
<w:p><w:r><w:t>Body paragraphs are ignored</w:t></w:r></w:p>
<w:tbl><w:tr>
  <w:tc><w:p><w:r><w:t>Fliesstext</w:t></w:r></w:p></w:tc>
  <w:tc><w:p><w:pPr><w:pStyle w:val="Aufzhlungszeichen"/></w:pPr>
    <w:r><w:rPr><w:i w:val="0"/></w:rPr><w:t>not italic</w:t></w:r>
    <w:r><w:rPr><w:i w:val="true"/></w:rPr><w:t xml:space="preserve"> italic</w:t></w:r>
    <w:hyperlink><w:r><w:t> link</w:t></w:r></w:hyperlink>
    <w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t><w:br w:type="page"/><w:t>d</w:t><w:cr/></w:r>
    <w:del><w:r><w:delText>deleted</w:delText></w:r></w:del>
  </w:p></w:tc>
</w:tr></w:tbl>
</w:body></w:document>`
	styles := `<w:styles ` + wNS + `>
<w:style w:type="paragraph" w:default="1" w:styleId="Standard"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Aufzhlungszeichen"><w:name w:val="List Bullet"/></w:style>
<w:style w:type="character" w:styleId="Hyperlink"><w:name w:val="Hyperlink"/></w:style>
</w:styles>`

	doc, err := Parse(buildDocx(t, map[string]string{
		"word/document.xml": body,
		"word/styles.xml":   styles,
	}))
	require.NoError(t, err)
	require.Len(t, doc.Tables, 1)

	row := doc.Tables[0].Rows[0]
	require.Len(t, row.Cells, 2)
	assert.Equal(t, "Normal", row.Cells[0].Paragraphs[0].Style)

	p := row.Cells[1].Paragraphs[0]
	assert.Equal(t, "List Bullet", p.Style)
	require.Len(t, p.Runs, 4)
	assert.False(t, p.Runs[0].Italic)
	assert.True(t, p.Runs[1].Italic)
	assert.Equal(t, " link", p.Runs[2].Text)
	assert.Equal(t, "a\tb\ncd\n", p.Runs[3].Text)
}

func TestParseStyleFallbacks(t *testing.T) {
	body := `<w:document ` + wNS + `><w:body><w:tbl><w:tr>
  <w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr><w:p><w:pPr><w:pStyle w:val="Unknown"/></w:pPr><w:r><w:t>wide</w:t></w:r></w:p></w:tc>
</w:tr></w:tbl></w:body></w:document>`

	doc, err := Parse(buildDocx(t, map[string]string{"word/document.xml": body}))
	require.NoError(t, err)

	row := doc.Tables[0].Rows[0]
	require.Len(t, row.Cells, 2, "a cell spanning two grid columns appears twice")
	assert.Equal(t, "wide", row.Cells[1].Text())
	assert.Equal(t, "Normal", row.Cells[0].Paragraphs[0].Style)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Heading 2", displayName("heading 2"))
	assert.Equal(t, "Caption", displayName("caption"))
	assert.Equal(t, "List Bullet", displayName("List Bullet"))
}

func TestParseInvalidData(t *testing.T) {
	_, err := Parse([]byte("not a zip file"))
	require.Error(t, err)

	_, err = Parse(buildDocx(t, map[string]string{"word/other.xml": "<x/>"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing word/document.xml")
}

func TestParseFile(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.docx"))
	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read", ioErr.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "doc.docx")
	require.NoError(t, WriteFile(&Document{Tables: []Table{{Rows: []Row{{Cells: []Cell{textCell("Normal", "x")}}}}}}, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	doc, err := ParseReader(f)
	require.NoError(t, err)
	assert.Equal(t, "x", doc.Tables[0].Rows[0].Cells[0].Text())
}

func TestParseFileNotADocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Raum 1.docx")
	require.NoError(t, os.WriteFile(path, []byte("plain text saved as .docx"), 0644))

	_, err := ParseFile(path)
	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read", ioErr.Op)
	assert.Equal(t, path, ioErr.Path)
	assert.Contains(t, err.Error(), "not a ZIP archive")
}
