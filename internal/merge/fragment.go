package merge

import (
	"strings"

	"github.com/klytics/contentkit/internal/table"
)

// Columns of the language content sheets.
const (
	ColTitle      = "Titel"
	ColSubtitle   = "Untertitel"
	ColSequence   = "Laufnummer"
	ColBody       = "Fliesstext"
	ColCreator    = "Urheber*in"
	ColDate       = "Datierung"
	ColTechnique  = "Material/Technik"
	ColCreditLine = "Creditline"
)

// Fragment renders a content record as a markup block:
//
//	<h1>{Laufnummer} | {Titel}</h1><h2>{Untertitel}</h2>
//	<small>{Urheber*in}<br>{Datierung}<br>{Material/Technik}<br>{Creditline}</small>
//	<br>{Fliesstext}<br>
//
// Missing fields render as empty strings. Values are not HTML-escaped.
func Fragment(r *table.Record) string {
	var b strings.Builder
	b.WriteString("<h1>")
	b.WriteString(r.Get(ColSequence))
	b.WriteString(" | ")
	b.WriteString(r.Get(ColTitle))
	b.WriteString("</h1><h2>")
	b.WriteString(r.Get(ColSubtitle))
	b.WriteString("</h2><small>")
	b.WriteString(r.Get(ColCreator))
	b.WriteString("<br>")
	b.WriteString(r.Get(ColDate))
	b.WriteString("<br>")
	b.WriteString(r.Get(ColTechnique))
	b.WriteString("<br>")
	b.WriteString(r.Get(ColCreditLine))
	b.WriteString("</small><br>")
	b.WriteString(r.Get(ColBody))
	b.WriteString("<br>")
	return b.String()
}
