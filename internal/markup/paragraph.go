package markup

import "strings"

// Run is a span of paragraph text with one set of formatting attributes.
type Run struct {
	Text        string
	Italic      bool
	Superscript bool
}

// Paragraph is one paragraph of a value cell.
type Paragraph struct {
	// Style is the paragraph style name as shown in Word, e.g. "List Bullet".
	Style string
	Runs  []Run
}

// Convert concatenates runs into markup. Italic takes precedence over an
// explicit superscript on the same run. Automatic superscripts are applied to
// the joined text, then newlines become <br>.
func Convert(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		switch {
		case r.Italic:
			b.WriteString("<em>")
			b.WriteString(r.Text)
			b.WriteString("</em>")
		case r.Superscript:
			b.WriteString("<sup>")
			b.WriteString(r.Text)
			b.WriteString("</sup>")
		default:
			b.WriteString(r.Text)
		}
	}
	out := Superscripts(b.String())
	return strings.ReplaceAll(out, "\n", "<br>")
}
