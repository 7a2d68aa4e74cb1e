package normalize

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var trailingCopyNum = regexp.MustCompile(`[\s_\-]*\(?[0-9]+\)?$`)

// titlePT builds a fresh caser per call; cases.Caser values are stateful
// and must not be shared across goroutines.
func titlePT(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(s)
}

// PatientNameFromFile derives a presentable patient name from a workbook
// file name, the usual fallback when the sheet itself never states one:
// "_maria_da_silva_2.xlsx" becomes "Maria Da Silva".
func PatientNameFromFile(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimLeft(base, "_ ")
	base = trailingCopyNum.ReplaceAllString(base, "")
	base = strings.ReplaceAll(base, "_", " ")
	base = CleanSpaces(base)
	if base == "" {
		return ""
	}
	return titlePT(base)
}

// PatientName tidies a name scavenged from a metadata cell, collapsing
// whitespace and title-casing shouty all-caps entries.
func PatientName(raw string) string {
	s := CleanSpaces(raw)
	if s == "" {
		return ""
	}
	if s == strings.ToUpper(s) || s == strings.ToLower(s) {
		return titlePT(s)
	}
	return s
}
