// Package docx reads and writes the part of the .docx (OOXML) format that the
// content sheets are authored in: body tables whose cells hold styled
// paragraphs made of formatted runs.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klytics/contentkit/internal/errors"
)

// Run represents a contiguous run of text with consistent formatting.
type Run struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
	// VertAlign is the explicit vertical alignment: "superscript",
	// "subscript", "baseline" or empty.
	VertAlign string `json:"vertAlign,omitempty"`
}

// IsSuperscript reports whether the run carries an explicit superscript
// vertical alignment.
func (r Run) IsSuperscript() bool {
	return r.VertAlign == "superscript"
}

// Paragraph is a paragraph with its resolved style.
type Paragraph struct {
	// StyleID is the w:pStyle value, empty for the default style.
	StyleID string `json:"styleId,omitempty"`
	// Style is the style name as Word displays it, e.g. "List Bullet".
	Style string `json:"style"`
	Runs  []Run  `json:"runs,omitempty"`
}

// Text returns the concatenated run text.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Cell is a table cell.
type Cell struct {
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Text returns the paragraph texts joined by newlines.
func (c Cell) Text() string {
	texts := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n")
}

// Row is a table row. A cell spanning several grid columns appears once per
// column it spans.
type Row struct {
	Cells []Cell `json:"cells"`
}

// Table is a top-level body table.
type Table struct {
	Rows []Row `json:"rows"`
}

// Metadata holds document-level metadata extracted from core.xml.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Description string `json:"description,omitempty"`
	Created     string `json:"created,omitempty"`
	Modified    string `json:"modified,omitempty"`
}

// Document is the parsed representation of a .docx file.
type Document struct {
	Tables   []Table  `json:"tables"`
	Metadata Metadata `json:"metadata"`
}

// OOXML internal types for unmarshalling

type xmlVal struct {
	Val string `xml:"val,attr"`
}

// xmlOnOff is a toggle property such as <w:i/> or <w:i w:val="0"/>.
type xmlOnOff struct {
	Val string `xml:"val,attr"`
}

func (o *xmlOnOff) on() bool {
	if o == nil {
		return false
	}
	switch strings.ToLower(o.Val) {
	case "0", "false", "off":
		return false
	}
	return true
}

type xmlParagraphProps struct {
	Style xmlVal `xml:"pStyle"`
}

type xmlRunProps struct {
	Bold      *xmlOnOff `xml:"b"`
	Italic    *xmlOnOff `xml:"i"`
	VertAlign *xmlVal   `xml:"vertAlign"`
}

type xmlRun struct {
	Properties xmlRunProps
	Text       string
}

// UnmarshalXML reads the run children in order so tabs and breaks land in
// the right place of the text.
func (r *xmlRun) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				if err := d.DecodeElement(&r.Properties, &t); err != nil {
					return err
				}
				continue
			case "t":
				var s string
				if err := d.DecodeElement(&s, &t); err != nil {
					return err
				}
				b.WriteString(s)
				continue
			case "tab", "ptab":
				b.WriteByte('\t')
			case "cr":
				b.WriteByte('\n')
			case "br":
				if breakType(t) == "" || breakType(t) == "textWrapping" {
					b.WriteByte('\n')
				}
			case "noBreakHyphen":
				b.WriteByte('-')
			}
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			r.Text = b.String()
			return nil
		}
	}
}

func breakType(se xml.StartElement) string {
	for _, a := range se.Attr {
		if a.Name.Local == "type" {
			return a.Value
		}
	}
	return ""
}

type xmlParagraph struct {
	Properties xmlParagraphProps
	Runs       []xmlRun
}

// runContainers hold runs one level down and are flattened into the
// paragraph in document order.
var runContainers = map[string]bool{
	"hyperlink": true,
	"smartTag":  true,
	"ins":       true,
	"fldSimple": true,
}

// UnmarshalXML collects runs in document order, including runs nested in
// hyperlinks and tracked insertions.
func (p *xmlParagraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "pPr" && depth == 0:
				if err := d.DecodeElement(&p.Properties, &t); err != nil {
					return err
				}
			case t.Name.Local == "r":
				var r xmlRun
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, r)
			case runContainers[t.Name.Local]:
				depth++
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

type xmlTable struct {
	Rows []xmlTableRow `xml:"tr"`
}

type xmlTableRow struct {
	Cells []xmlTableCell `xml:"tc"`
}

type xmlTableCell struct {
	Properties struct {
		GridSpan xmlVal `xml:"gridSpan"`
	} `xml:"tcPr"`
	Paragraphs []xmlParagraph `xml:"p"`
}

func (c xmlTableCell) span() int {
	n := 0
	for _, ch := range c.Properties.GridSpan.Val {
		if ch < '0' || ch > '9' {
			return 1
		}
		n = n*10 + int(ch-'0')
	}
	if n < 1 {
		return 1
	}
	return n
}

// Core properties XML types
type xmlCoreProperties struct {
	Title       string `xml:"title"`
	Creator     string `xml:"creator"`
	Description string `xml:"description"`
	Created     string `xml:"created"`
	Modified    string `xml:"modified"`
}

// ParseFile reads and parses a .docx file from the given path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, errors.NewIOError("read", path, fmt.Errorf("%w (close the file if it is open in Word)", err))
		}
		return nil, errors.NewIOError("read", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.NewIOError("read", path, err)
	}
	return doc, nil
}

// ParseReader reads and parses a .docx file from a reader.
func ParseReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read input: %w", err)
	}
	return Parse(data)
}

// Parse reads and parses a .docx file from the given byte slice.
func Parse(data []byte) (*Document, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid .docx file, not a ZIP archive: %w", err)
	}

	doc := &Document{}

	// Metadata is optional
	_ = parseCoreProperties(reader, doc)

	styles, err := parseStyles(reader)
	if err != nil {
		return nil, err
	}

	body, err := readPart(reader, "word/document.xml")
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("invalid .docx file: missing word/document.xml")
	}

	if err := parseXMLBody(body, styles, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("could not open %s inside .docx archive: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, nil
}

func parseCoreProperties(reader *zip.Reader, doc *Document) error {
	data, err := readPart(reader, "docProps/core.xml")
	if err != nil || data == nil {
		return err
	}
	var props xmlCoreProperties
	if err := xml.Unmarshal(data, &props); err != nil {
		return err
	}
	doc.Metadata = Metadata(props)
	return nil
}

func parseXMLBody(data []byte, styles *styleSheet, doc *Document) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	// Find the body element
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return fmt.Errorf("invalid .docx file: no body element found in document.xml")
		}
		if err != nil {
			return fmt.Errorf("XML parse error in document.xml: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "body" {
			break
		}
	}

	// Only top-level tables carry content; body paragraphs are skipped.
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("XML parse error: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if se.Name.Local != "tbl" {
			if err := decoder.Skip(); err != nil {
				return err
			}
			continue
		}

		var t xmlTable
		if err := decoder.DecodeElement(&t, &se); err != nil {
			return fmt.Errorf("could not parse table %d: %w", len(doc.Tables)+1, err)
		}
		doc.Tables = append(doc.Tables, convertTable(t, styles))
	}

	return nil
}

func convertTable(t xmlTable, styles *styleSheet) Table {
	table := Table{Rows: make([]Row, 0, len(t.Rows))}
	for _, xr := range t.Rows {
		row := Row{Cells: make([]Cell, 0, len(xr.Cells))}
		for _, xc := range xr.Cells {
			cell := Cell{Paragraphs: make([]Paragraph, 0, len(xc.Paragraphs))}
			for _, xp := range xc.Paragraphs {
				cell.Paragraphs = append(cell.Paragraphs, convertParagraph(xp, styles))
			}
			for i := 0; i < xc.span(); i++ {
				row.Cells = append(row.Cells, cell)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func convertParagraph(xp xmlParagraph, styles *styleSheet) Paragraph {
	p := Paragraph{
		StyleID: xp.Properties.Style.Val,
		Style:   styles.name(xp.Properties.Style.Val),
		Runs:    make([]Run, 0, len(xp.Runs)),
	}
	for _, xr := range xp.Runs {
		run := Run{
			Text:   xr.Text,
			Bold:   xr.Properties.Bold.on(),
			Italic: xr.Properties.Italic.on(),
		}
		if xr.Properties.VertAlign != nil {
			run.VertAlign = xr.Properties.VertAlign.Val
		}
		p.Runs = append(p.Runs, run)
	}
	return p
}
