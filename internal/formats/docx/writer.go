package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strings"
)

// WriteFile writes the document to path.
func WriteFile(doc *Document, path string) error {
	data, err := WriteDocument(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}

// WriteDocument generates a .docx file from a Document, returning the raw
// bytes. Paragraph styles are declared in styles.xml under their StyleID
// (or the name with spaces removed) and Style name.
func WriteDocument(doc *Document) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	parts := []struct {
		name  string
		write func(*strings.Builder)
	}{
		{"[Content_Types].xml", writeContentTypes},
		{"_rels/.rels", writeRels},
		{"word/_rels/document.xml.rels", writeDocRels},
		{"docProps/core.xml", func(b *strings.Builder) { writeCoreXML(b, doc.Metadata) }},
		{"word/styles.xml", func(b *strings.Builder) { writeStylesXML(b, doc) }},
		{"word/document.xml", func(b *strings.Builder) { writeDocumentXML(b, doc) }},
	}

	for _, p := range parts {
		var b strings.Builder
		b.WriteString(xml.Header)
		p.write(&b)

		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("could not create %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(b.String())); err != nil {
			return nil, fmt.Errorf("could not write %s: %w", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("could not finalize .docx archive: %w", err)
	}

	return buf.Bytes(), nil
}

func writeContentTypes(b *strings.Builder) {
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
  <Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`)
}

func writeRels(b *strings.Builder) {
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`)
}

func writeDocRels(b *strings.Builder) {
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`)
}

func writeCoreXML(b *strings.Builder, m Metadata) {
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">`)
	b.WriteString(`<dc:title>` + xmlEscape(m.Title) + `</dc:title>`)
	b.WriteString(`<dc:creator>` + xmlEscape(m.Creator) + `</dc:creator>`)
	b.WriteString(`</cp:coreProperties>`)
}

// styleID returns the id a paragraph is written with.
func styleID(p Paragraph) string {
	if p.StyleID != "" {
		return p.StyleID
	}
	return strings.ReplaceAll(p.Style, " ", "")
}

func writeStylesXML(b *strings.Builder, doc *Document) {
	styles := map[string]string{"Normal": "Normal"}
	for _, t := range doc.Tables {
		for _, r := range t.Rows {
			for _, c := range r.Cells {
				for _, p := range c.Paragraphs {
					if id := styleID(p); id != "" {
						styles[id] = p.Style
					}
				}
			}
		}
	}

	ids := make([]string, 0, len(styles))
	for id := range styles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	b.WriteString(`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	for _, id := range ids {
		def := ""
		if id == "Normal" {
			def = ` w:default="1"`
		}
		b.WriteString(fmt.Sprintf(`<w:style w:type="paragraph"%s w:styleId="%s"><w:name w:val="%s"/></w:style>`,
			def, xmlEscape(id), xmlEscape(styles[id])))
	}
	b.WriteString(`</w:styles>`)
}

func writeDocumentXML(b *strings.Builder, doc *Document) {
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	b.WriteString(`<w:body>`)

	for _, t := range doc.Tables {
		b.WriteString(`<w:tbl>`)
		for _, row := range t.Rows {
			b.WriteString(`<w:tr>`)
			for _, cell := range row.Cells {
				b.WriteString(`<w:tc>`)
				if len(cell.Paragraphs) == 0 {
					b.WriteString(`<w:p/>`)
				}
				for _, p := range cell.Paragraphs {
					writeParagraphXML(b, p)
				}
				b.WriteString(`</w:tc>`)
			}
			b.WriteString(`</w:tr>`)
		}
		b.WriteString(`</w:tbl>`)
		// Word requires a paragraph between adjacent tables.
		b.WriteString(`<w:p/>`)
	}

	b.WriteString(`</w:body>`)
	b.WriteString(`</w:document>`)
}

func writeParagraphXML(b *strings.Builder, p Paragraph) {
	b.WriteString(`<w:p>`)
	if id := styleID(p); id != "" {
		b.WriteString(`<w:pPr><w:pStyle w:val="` + xmlEscape(id) + `"/></w:pPr>`)
	}
	for _, r := range p.Runs {
		writeRunXML(b, r)
	}
	b.WriteString(`</w:p>`)
}

func writeRunXML(b *strings.Builder, r Run) {
	b.WriteString(`<w:r>`)
	if r.Bold || r.Italic || r.VertAlign != "" {
		b.WriteString(`<w:rPr>`)
		if r.Bold {
			b.WriteString(`<w:b/>`)
		}
		if r.Italic {
			b.WriteString(`<w:i/>`)
		}
		if r.VertAlign != "" {
			b.WriteString(`<w:vertAlign w:val="` + xmlEscape(r.VertAlign) + `"/>`)
		}
		b.WriteString(`</w:rPr>`)
	}

	// Newlines and tabs are separate elements in OOXML.
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			b.WriteString(`<w:t xml:space="preserve">` + xmlEscape(text.String()) + `</w:t>`)
			text.Reset()
		}
	}
	for _, ch := range r.Text {
		switch ch {
		case '\n':
			flush()
			b.WriteString(`<w:br/>`)
		case '\t':
			flush()
			b.WriteString(`<w:tab/>`)
		default:
			text.WriteRune(ch)
		}
	}
	flush()
	b.WriteString(`</w:r>`)
}

func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
