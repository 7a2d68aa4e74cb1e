package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent decomposes to NFD, drops combining marks, and recomposes,
// so "Pós-Café" becomes "Pos-Cafe".
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// punctToSpace lists characters that separate words in clinician headers.
// Dots and colons show up in abbreviations like "D.U.M:" and must not
// survive into the comparison key.
const punctToSpace = "-_–—.,:;()[]{}!?'\"*"

// Key produces the canonical comparison form of header and label text:
// lower-cased, accents stripped, punctuation and runs of whitespace
// collapsed to single spaces.
func Key(s string) string {
	out, _, err := transform.String(deaccent, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)

	var b strings.Builder
	b.Grow(len(out))
	space := false
	for _, r := range out {
		if unicode.IsSpace(r) || strings.ContainsRune(punctToSpace, r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// CleanSpaces trims a raw cell and replaces non-breaking and other
// exotic whitespace with plain spaces, leaving everything else intact.
// Value parsers use it so "  95  mg/dl " and "95 mg/dl" read the same.
func CleanSpaces(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
