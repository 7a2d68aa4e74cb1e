package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Gestational ages are encoded Brazilian-style: the fraction is a day
// count, so "32.4" reads 32 weeks and 4 days, never 32.4 weeks.
const (
	// GestWeeksMin is the lowest plausible gestational week.
	GestWeeksMin = 1
	// GestWeeksLimit is the exclusive upper bound; no pregnancy reaches 45 weeks.
	GestWeeksLimit = 45
	// DUMSpanMaxDays caps the distance between a last-menstrual-period date
	// and a measurement date (45 weeks).
	DUMSpanMaxDays = 315
)

var (
	plusDays  = regexp.MustCompile(`^([0-9]{1,2})\s*[+/]\s*([0-9])$`)
	sepDay    = regexp.MustCompile(`^([0-9]{1,2})[.,]([0-9])$`)
	bareWeeks = regexp.MustCompile(`^([0-9]{1,2})\s*(?:semanas?|sem|wks?|weeks?|s|w)?$`)
	looseNum  = regexp.MustCompile(`[0-9]{1,3}(?:[.,][0-9]+)?`)
)

// gestParsers are tried in order against string cells. Explicit
// week-plus-day forms outrank the loose numeric fallback so "32+4" is
// never read as the number 32. A parser that recognizes the shape owns
// the cell: "32+7" is an out-of-range day count, not 32 even weeks.
var gestParsers = []func(string, int) (float64, bool){
	parsePlusDays,
	parseSepDay,
	parseBareWeeks,
	parseLooseNumber,
}

// GestationalWeeks interprets a raw cell as a gestational age and returns
// it as decimal weeks (days mapped onto sevenths), or 0 when the cell
// holds nothing usable. weeksLimit is the exclusive upper bound on weeks.
func GestationalWeeks(cell any, weeksLimit int) float64 {
	switch v := cell.(type) {
	case nil:
		return 0
	case int:
		w, _ := weeksFromNumber(float64(v), weeksLimit)
		return w
	case int64:
		w, _ := weeksFromNumber(float64(v), weeksLimit)
		return w
	case float64:
		w, _ := weeksFromNumber(v, weeksLimit)
		return w
	case string:
		s := strings.ToLower(CleanSpaces(v))
		if s == "" {
			return 0
		}
		for _, parse := range gestParsers {
			if w, matched := parse(s, weeksLimit); matched {
				return w
			}
		}
	}
	return 0
}

// WeeksFromDUM derives gestational age at a measurement date from the
// last-menstrual-period date. Negative spans and spans beyond
// maxSpanDays yield 0.
func WeeksFromDUM(measurement, dum time.Time, maxSpanDays int) float64 {
	days := int(midnightUTC(measurement).Sub(midnightUTC(dum)).Hours() / 24)
	if days < 0 || days > maxSpanDays {
		return 0
	}
	return float64(days) / 7
}

// weeksFromNumber reads a numeric value under the weeks-point-days
// convention: 32.4 is 32 weeks 4 days. Fractions that do not name a
// weekday count (32.75) are rejected.
func weeksFromNumber(v float64, weeksLimit int) (float64, bool) {
	weeks := int(v)
	days := int(math.Round((v - float64(weeks)) * 10))
	if math.Abs((v-float64(weeks))*10-float64(days)) > 1e-6 {
		return 0, false
	}
	return validGestAge(weeks, days, weeksLimit)
}

func validGestAge(weeks, days, weeksLimit int) (float64, bool) {
	if weeks < GestWeeksMin || weeks >= weeksLimit || days < 0 || days > 6 {
		return 0, false
	}
	return float64(weeks) + float64(days)/7, true
}

// Each parser reports matched=true when the cell has its shape; the
// returned weeks value is 0 if the matched values were out of range.

func parsePlusDays(s string, weeksLimit int) (float64, bool) {
	m := plusDays.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	weeks, _ := strconv.Atoi(m[1])
	days, _ := strconv.Atoi(m[2])
	w, _ := validGestAge(weeks, days, weeksLimit)
	return w, true
}

func parseSepDay(s string, weeksLimit int) (float64, bool) {
	m := sepDay.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	weeks, _ := strconv.Atoi(m[1])
	days, _ := strconv.Atoi(m[2])
	w, _ := validGestAge(weeks, days, weeksLimit)
	return w, true
}

func parseBareWeeks(s string, weeksLimit int) (float64, bool) {
	m := bareWeeks.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	weeks, _ := strconv.Atoi(m[1])
	w, _ := validGestAge(weeks, 0, weeksLimit)
	return w, true
}

// parseLooseNumber scavenges the first numeric token from free text such
// as "IG: 28,3 (USG)".
func parseLooseNumber(s string, weeksLimit int) (float64, bool) {
	tok := looseNum.FindString(s)
	if tok == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	w, _ := weeksFromNumber(f, weeksLimit)
	return w, true
}
