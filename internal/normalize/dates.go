package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// excelEpoch is day zero of the 1900 date system used by .xls and .xlsx
// files. Serial 1 is 1899-12-31; the off-by-two relative to 1900-01-01
// absorbs the fictitious 1900 leap day.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serial numbers below 1000 are almost always stray integers (ages, room
// numbers), and five digits already reaches the year 2173.
const (
	serialMin = 1000
	serialMax = 99999
)

// dateParsers are tried in order against string cells. Earlier entries
// are stricter; the slash form with a four-digit year outranks the
// two-digit form so "5/3/1998" never lands in 2098.
var dateParsers = []func(string) (time.Time, bool){
	parseISOTimestamp,
	parseVerboseDate,
	parseSerialString,
	parseSlashDate4,
	parseSlashDate2,
	parseISODate,
}

// Date interprets a raw cell as a calendar day. Native time cells pass
// through, numeric cells are read as spreadsheet serials, and strings run
// the parser chain. The returned time is midnight UTC of the wall-clock
// date; ok=false means the cell holds no recognizable date.
func Date(cell any) (time.Time, bool) {
	switch v := cell.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return midnightUTC(v), true
	case float64:
		return fromSerial(v)
	case int:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	case string:
		s := CleanSpaces(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, parse := range dateParsers {
			if t, ok := parse(s); ok {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// makeDate builds a UTC date and verifies the components survived, which
// rejects rollovers like February 31 turning into March 2.
func makeDate(year, month, day int) (time.Time, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func fromSerial(serial float64) (time.Time, bool) {
	days := int(serial)
	if days < serialMin || days > serialMax {
		return time.Time{}, false
	}
	return excelEpoch.AddDate(0, 0, days), true
}

var isoTimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// parseISOTimestamp handles exported JS dates like
// "2024-03-05T00:00:00.000Z". The wall-clock date is kept as written
// rather than shifted between zones.
func parseISOTimestamp(s string) (time.Time, bool) {
	if !strings.ContainsRune(s, 'T') {
		return time.Time{}, false
	}
	for _, layout := range isoTimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return midnightUTC(t), true
		}
	}
	return time.Time{}, false
}

// parseVerboseDate handles Date.toString() output such as
// "Tue Mar 05 2024 00:00:00 GMT-0300 (...)" by reading its leading fields.
func parseVerboseDate(s string) (time.Time, bool) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return time.Time{}, false
	}
	head := strings.Join(fields[:4], " ")
	for _, layout := range []string{"Mon Jan 02 2006", "Mon Jan 2 2006"} {
		if t, err := time.Parse(layout, head); err == nil {
			return midnightUTC(t), true
		}
	}
	return time.Time{}, false
}

var allDigits = regexp.MustCompile(`^[0-9]+$`)

func parseSerialString(s string) (time.Time, bool) {
	if !allDigits.MatchString(s) {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return time.Time{}, false
	}
	return fromSerial(float64(n))
}

var (
	slashDate4 = regexp.MustCompile(`^([0-9]{1,2})[/.\-]([0-9]{1,2})[/.\-]([0-9]{4})$`)
	slashDate2 = regexp.MustCompile(`^([0-9]{1,2})[/.\-]([0-9]{1,2})[/.\-]([0-9]{2})$`)
)

// parseSlashDate4 reads day-first dates with a four-digit year, the form
// clinicians type by hand: "05/03/2024", "5.3.2024", "05-03-2024".
func parseSlashDate4(s string) (time.Time, bool) {
	m := slashDate4.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return makeDate(year, month, day)
}

// parseSlashDate2 reads day-first dates with a two-digit year. Years 00-50
// land in the 2000s, 51-99 in the 1900s.
func parseSlashDate2(s string) (time.Time, bool) {
	m := slashDate2.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year <= 50 {
		year += 2000
	} else {
		year += 1900
	}
	return makeDate(year, month, day)
}

var isoDate = regexp.MustCompile(`^([0-9]{4})-([0-9]{1,2})-([0-9]{1,2})$`)

func parseISODate(s string) (time.Time, bool) {
	m := isoDate.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return makeDate(year, month, day)
}
