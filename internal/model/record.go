package model

import (
	"fmt"
	"math"
)

// Cell is a single worksheet cell as loaded: a string, a float64, a
// time.Time, or nil when empty.
type Cell any

// RawGrid is the worksheet contents, row-major and 0-indexed, immutable
// once loaded.
type RawGrid [][]Cell

// AgeSource records how a gestational age was obtained.
type AgeSource string

const (
	// AgeExplicit means the age was read directly from a dedicated column.
	AgeExplicit AgeSource = "explicit"
	// AgeCalculated means the age was derived from the measurement date and
	// the last-menstrual-period (DUM) date.
	AgeCalculated AgeSource = "calculated"
	// AgePropagated means the row had no age of its own and the most recent
	// known value was carried forward.
	AgePropagated AgeSource = "propagated"
)

// GestationalAge is a fetal age in completed weeks plus days, together with
// the provenance of the value. The zero value means "unknown".
type GestationalAge struct {
	Weeks  int       `json:"weeks"`
	Days   int       `json:"days"`
	Source AgeSource `json:"source,omitempty"`
}

// AgeFromWeeks converts a decimal week count (e.g. 21.2857) into a
// GestationalAge with the given provenance. Non-positive input yields the
// zero value.
func AgeFromWeeks(weeks float64, source AgeSource) GestationalAge {
	if weeks <= 0 {
		return GestationalAge{}
	}
	w := int(weeks)
	d := int(math.Round((weeks - float64(w)) * 7))
	if d > 6 {
		w++
		d = 0
	}
	return GestationalAge{Weeks: w, Days: d, Source: source}
}

// DecimalWeeks returns the age as a fractional week count.
func (g GestationalAge) DecimalWeeks() float64 {
	return float64(g.Weeks) + float64(g.Days)/7
}

// IsZero reports whether the age is unknown.
func (g GestationalAge) IsZero() bool {
	return g.Weeks == 0 && g.Days == 0
}

// String renders the age in the clinical "weeks+days" notation, e.g. "32+4".
func (g GestationalAge) String() string {
	return fmt.Sprintf("%d+%d", g.Weeks, g.Days)
}

// Reading holds the glucose values accepted from one spreadsheet row, in
// mg/dL keyed by slot. Slots whose cells were missing, unparsable, or out of
// bounds are simply absent. Age is the gestational age attributed to the row.
type Reading struct {
	Row    int            `json:"row"`
	Values map[Slot]int   `json:"values"`
	Age    GestationalAge `json:"age"`
}

// Has reports whether the reading carries a value for the slot.
func (r Reading) Has(slot Slot) bool {
	_, ok := r.Values[slot]
	return ok
}

// ParseStatus is the terminal state of a per-file parse.
type ParseStatus string

const (
	StatusPending ParseStatus = "pending"
	StatusSuccess ParseStatus = "success"
	StatusError   ParseStatus = "error"
)

// FailureCategory buckets terminal per-file parse failures for reporting.
type FailureCategory string

const (
	// FailureStructure: no header row could be detected.
	FailureStructure FailureCategory = "structure"
	// FailureData: a header was found but no row yielded a usable value.
	FailureData FailureCategory = "data"
	// FailureFormat: the workbook could not be opened or decoded.
	FailureFormat FailureCategory = "format"
)

// Label returns the user-facing group heading for the category.
func (c FailureCategory) Label() string {
	switch c {
	case FailureStructure:
		return "spreadsheet structure"
	case FailureData:
		return "glucose data"
	case FailureFormat:
		return "file format"
	}
	return string(c)
}

// PatientRecord is the normalized outcome of parsing one spreadsheet.
// It is mutated only while the file is being parsed and is treated as
// immutable once handed to the caller.
type PatientRecord struct {
	SourceFile  string         `json:"source_file"`
	PatientName string         `json:"patient_name"`
	Age         GestationalAge `json:"gestational_age"`
	Readings    []Reading      `json:"readings"`
	UsesInsulin bool           `json:"uses_insulin"`
	Status      ParseStatus    `json:"status"`
	ErrorDetail string         `json:"error_detail,omitempty"`
	Warnings    []string       `json:"warnings,omitempty"`
}

// InsulinRows counts readings that carry at least one insulin-protocol slot.
func (p *PatientRecord) InsulinRows() int {
	n := 0
	for _, r := range p.Readings {
		for slot := range r.Values {
			if slot.InsulinOnly() {
				n++
				break
			}
		}
	}
	return n
}
