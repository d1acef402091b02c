// Package markup renders Word run and paragraph content into the small HTML
// subset used by the audio-guide content sheets (<h1> <h2> <small> <br> <em>
// <sup> <ul> <ol> <li> and &nbsp;). Output is generated only, never parsed back.
//
// Source text is inserted verbatim. Nothing is HTML-escaped, so a literal "<"
// in a document ends up in the markup as is.
package markup

import "regexp"

// wordEnd matches the end of a word: a character that is neither a letter, a
// digit nor an underscore, or the end of the text. RE2 has no lookahead and its
// \b is ASCII-only, so the character is captured and written back.
const wordEnd = `([^\p{L}\p{N}_]|$)`

type rewrite struct {
	re   *regexp.Regexp
	repl string
	// untilStable re-applies the rule while it changes the text. Matches do
	// not overlap, so a rule whose match ends on the operand the next match
	// starts with ("2 x 3 x 4") needs more than one pass.
	untilStable bool
}

func (r rewrite) apply(s string) string {
	for {
		out := r.re.ReplaceAllString(s, r.repl)
		if !r.untilStable || out == s {
			return out
		}
		s = out
	}
}

// superscriptRules run in order, each over the output of the previous one.
var superscriptRules = []rewrite{
	// French centuries: XIXe -> XIX<sup>e</sup>
	{regexp.MustCompile(`([IVX]+)e` + wordEnd), `${1}<sup>e</sup>${2}`, false},
	// English ordinals: 19th -> 19<sup>th</sup>
	{regexp.MustCompile(`(\d+)(st|nd|rd|th)` + wordEnd), `${1}<sup>${2}</sup>${3}`, false},
	// Exponents: km2 -> km<sup>2</sup>. Also hits any letters-then-digits
	// token such as room2.
	{regexp.MustCompile(`([a-zA-Z]+)(\d+)` + wordEnd), `${1}<sup>${2}</sup>${3}`, false},
}

// Superscripts wraps century suffixes, ordinal suffixes and trailing exponents
// in <sup> tags.
func Superscripts(s string) string {
	for _, r := range superscriptRules {
		s = r.apply(s)
	}
	return s
}
