package parse

import (
	"fmt"

	"github.com/rmfonseca/glicolog/internal/normalize"
)

// Policy collects the tunable heuristics of the extraction. The clinical
// bounds are a product decision, so they live in configuration rather
// than in the parsers.
type Policy struct {
	// GlucoseMin and GlucoseMax bound accepted readings in mg/dL.
	GlucoseMin int `yaml:"glucose_min"`
	GlucoseMax int `yaml:"glucose_max"`

	// HeaderScanRows bounds the prefix searched for a header row.
	HeaderScanRows int `yaml:"header_scan_rows"`

	// MetadataScanRows bounds the prefix searched for name and DUM cues.
	MetadataScanRows int `yaml:"metadata_scan_rows"`

	// MaxBlankRows is how many consecutive rows without an accepted
	// glucose value end the row walk.
	MaxBlankRows int `yaml:"max_blank_rows"`

	// GestWeeksLimit is the exclusive upper bound a gestational-age cell
	// may state.
	GestWeeksLimit int `yaml:"gest_weeks_limit"`

	// DUMSpanMaxDays caps the DUM-to-measurement distance.
	DUMSpanMaxDays int `yaml:"dum_span_max_days"`

	// FinalWeeksMax invalidates a file-level age above it.
	FinalWeeksMax int `yaml:"final_weeks_max"`

	// FinalWeeksWarn flags a file-level age below it as suspect.
	FinalWeeksWarn int `yaml:"final_weeks_warn"`
}

// DefaultPolicy returns the bounds used in production.
func DefaultPolicy() Policy {
	return Policy{
		GlucoseMin:       normalize.GlucoseMin,
		GlucoseMax:       normalize.GlucoseMax,
		HeaderScanRows:   20,
		MetadataScanRows: 10,
		MaxBlankRows:     3,
		GestWeeksLimit:   normalize.GestWeeksLimit,
		DUMSpanMaxDays:   normalize.DUMSpanMaxDays,
		FinalWeeksMax:    42,
		FinalWeeksWarn:   12,
	}
}

// Validate rejects policies that would hang or accept nothing.
func (p Policy) Validate() error {
	if p.GlucoseMin < 0 || p.GlucoseMax <= p.GlucoseMin {
		return fmt.Errorf("glucose bounds [%d, %d] are not a valid window", p.GlucoseMin, p.GlucoseMax)
	}
	if p.HeaderScanRows < 1 {
		return fmt.Errorf("header_scan_rows must be at least 1, got %d", p.HeaderScanRows)
	}
	if p.MetadataScanRows < 0 {
		return fmt.Errorf("metadata_scan_rows must not be negative, got %d", p.MetadataScanRows)
	}
	if p.MaxBlankRows < 1 {
		return fmt.Errorf("max_blank_rows must be at least 1, got %d", p.MaxBlankRows)
	}
	if p.GestWeeksLimit < 2 {
		return fmt.Errorf("gest_weeks_limit must exceed 1, got %d", p.GestWeeksLimit)
	}
	if p.DUMSpanMaxDays < 1 {
		return fmt.Errorf("dum_span_max_days must be at least 1, got %d", p.DUMSpanMaxDays)
	}
	if p.FinalWeeksMax < 1 || p.FinalWeeksWarn < 0 {
		return fmt.Errorf("final age bounds (max %d, warn %d) are invalid", p.FinalWeeksMax, p.FinalWeeksWarn)
	}
	return nil
}
