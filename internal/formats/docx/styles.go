package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"
)

// defaultParagraphStyle is used when the document has no styles part or no
// default paragraph style.
const defaultParagraphStyle = "Normal"

type xmlStyles struct {
	Styles []xmlStyle `xml:"style"`
}

type xmlStyle struct {
	Type    string `xml:"type,attr"`
	ID      string `xml:"styleId,attr"`
	Default string `xml:"default,attr"`
	Name    xmlVal `xml:"name"`
}

// styleSheet resolves paragraph style ids to display names.
type styleSheet struct {
	names map[string]string
	def   string
}

// builtinNames maps the lowercase names Word stores for some built-in styles
// to the names it displays.
var builtinNames = map[string]string{
	"caption": "Caption",
	"footer":  "Footer",
	"header":  "Header",
}

func displayName(name string) string {
	if ui, ok := builtinNames[name]; ok {
		return ui
	}
	if strings.HasPrefix(name, "heading ") {
		return "Heading " + strings.TrimPrefix(name, "heading ")
	}
	return name
}

func parseStyles(reader *zip.Reader) (*styleSheet, error) {
	s := &styleSheet{names: make(map[string]string), def: defaultParagraphStyle}

	data, err := readPart(reader, "word/styles.xml")
	if err != nil {
		return nil, err
	}
	if data == nil {
		return s, nil
	}

	var xs xmlStyles
	if err := xml.Unmarshal(data, &xs); err != nil {
		return nil, fmt.Errorf("XML parse error in styles.xml: %w", err)
	}

	for _, st := range xs.Styles {
		if st.Type != "paragraph" {
			continue
		}
		name := displayName(st.Name.Val)
		if name == "" {
			name = st.ID
		}
		s.names[st.ID] = name
		if st.Default == "1" || st.Default == "true" {
			s.def = name
		}
	}
	return s, nil
}

// name returns the display name for a paragraph style id. Unknown and empty
// ids fall back to the default paragraph style, as Word does.
func (s *styleSheet) name(id string) string {
	if n, ok := s.names[id]; ok && id != "" {
		return n
	}
	return s.def
}
