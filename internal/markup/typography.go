package markup

import "regexp"

// NBSP is the non-breaking space entity inserted by Typography.
const NBSP = "&nbsp;"

// ws is one whitespace character, including the Unicode spaces Word
// documents are full of (no-break space, thin space, narrow no-break space).
const ws = `[\s\v\x1c-\x1f\x{85}\p{Z}]`

const (
	lengthUnits = `(km|m|cm|mm|ha|mètres?|meters?|Meter|Metern)`
	timeUnits   = `(h|min|s|Uhr|heures?|hours?|Stunden?)`
)

// typographyRules are applied in order. Each replaces whitespace with NBSP
// or inserts NBSP; none of them matches its own output.
var typographyRules = []rewrite{
	{regexp.MustCompile(`«` + ws + `+`), `«` + NBSP, false},
	{regexp.MustCompile(ws + `+»`), NBSP + `»`, false},
	{regexp.MustCompile(ws + `+([;:–])`), NBSP + `${1}`, false},
	{regexp.MustCompile(`<sup>(e|er|ère|th|st|nd|rd)</sup>` + ws + `+`), `<sup>${1}</sup>` + NBSP, false},
	{regexp.MustCompile(`(\d+)` + ws + `+` + lengthUnits + wordEnd), `${1}` + NBSP + `${2}${3}`, false},
	{re: regexp.MustCompile(`(\d+)` + ws + `*([×x])` + ws + `*(\d+)`), repl: `${1}` + NBSP + `${2}` + NBSP + `${3}`, untilStable: true},
	{regexp.MustCompile(`(\d+)` + ws + `*([°%€$£])`), `${1}` + NBSP + `${2}`, false},
	{regexp.MustCompile(`(\d+)` + ws + `*(EUR|CHF|USD)` + wordEnd), `${1}` + NBSP + `${2}${3}`, false},
	{regexp.MustCompile(`(\d+)` + ws + `+` + timeUnits + wordEnd), `${1}` + NBSP + `${2}${3}`, false},
	{regexp.MustCompile(`\b(z\.` + ws + `*B\.|d\.` + ws + `*h\.|i\.` + ws + `*e\.|e\.` + ws + `*g\.|etc\.)` + ws + `+`), `${1}` + NBSP, false},
}

// Typography applies the micro-typographic spacing rules: non-breaking
// spaces inside guillemets, before ; : and en dashes, after ordinal
// superscripts, between numbers and their units, symbols or currencies,
// around dimension signs and after common abbreviations.
// The rules are not gated by language.
func Typography(s string) string {
	for _, r := range typographyRules {
		s = r.apply(s)
	}
	return s
}
