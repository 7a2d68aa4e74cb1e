package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Physiological bounds for a capillary glucose reading in mg/dL.
// Values outside the window are treated as absent, not as errors.
const (
	GlucoseMin = 20
	GlucoseMax = 600
)

// leadingNumber matches a numeric token at the start of a cell, tolerating
// a decimal comma, so "95,5 mg/dL" and "110 jejum" both yield a value.
var leadingNumber = regexp.MustCompile(`^[0-9]+(?:[.,][0-9]+)?`)

// Glucose interprets a raw cell as a glucose measurement in mg/dL.
// Trailing unit text is ignored. Values outside [min, max] and cells
// that do not start with a number report ok=false.
func Glucose(cell any, min, max int) (int, bool) {
	switch v := cell.(type) {
	case nil:
		return 0, false
	case int:
		return boundGlucose(float64(v), min, max)
	case int64:
		return boundGlucose(float64(v), min, max)
	case float64:
		return boundGlucose(v, min, max)
	case string:
		s := CleanSpaces(v)
		tok := leadingNumber.FindString(s)
		if tok == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", "."), 64)
		if err != nil {
			return 0, false
		}
		return boundGlucose(f, min, max)
	default:
		return 0, false
	}
}

func boundGlucose(f float64, min, max int) (int, bool) {
	if f < float64(min) || f > float64(max) {
		return 0, false
	}
	return int(math.Round(f)), true
}
