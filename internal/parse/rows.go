package parse

import (
	"time"

	"github.com/rmfonseca/glicolog/internal/model"
	"github.com/rmfonseca/glicolog/internal/normalize"
)

// ageState threads the "last known" gestational age through the row
// walk. Only explicit and calculated ages update it; propagated rows
// merely replay it.
type ageState struct {
	last model.GestationalAge
	ok   bool
}

func (s *ageState) set(age model.GestationalAge) {
	s.last = age
	s.ok = true
}

// propagate returns the last known age retagged as carried-forward.
func (s *ageState) propagate() (model.GestationalAge, bool) {
	if !s.ok {
		return model.GestationalAge{}, false
	}
	age := s.last
	age.Source = model.AgePropagated
	return age, true
}

// walkResult carries the readings plus the bookkeeping the aggregator
// needs to settle the file-level age.
type walkResult struct {
	readings []model.Reading

	// strongOnData is the age of the latest accepted row whose age was
	// explicit or calculated; propOnData the latest accepted row that
	// only had a carried-forward age. Kept apart so a propagated copy
	// never outranks a measured value.
	strongOnData model.GestationalAge
	propOnData   model.GestationalAge

	// lastKnown is the final explicit-or-calculated age seen on any row,
	// accepted or not.
	lastKnown    model.GestationalAge
	hasLastKnown bool
}

// extractRows walks the grid strictly below the header row, emitting one
// reading per row that yields at least one glucose value. The walk ends
// after pol.MaxBlankRows consecutive rows without an accepted value;
// missing or empty rows count toward that limit rather than ending the
// walk at once, which tolerates single separator rows.
func extractRows(grid model.RawGrid, hdr headerResult, dum time.Time, haveDUM bool, pol Policy) walkResult {
	var res walkResult
	var state ageState

	blanks := 0
	for i := hdr.row + 1; blanks < pol.MaxBlankRows; i++ {
		if i >= len(grid) || len(grid[i]) == 0 {
			blanks++
			continue
		}
		row := grid[i]

		age := rowAge(row, hdr, dum, haveDUM, &state, pol)
		values := rowValues(row, hdr.columns, pol)
		if len(values) == 0 {
			blanks++
			continue
		}
		blanks = 0

		res.readings = append(res.readings, model.Reading{Row: i, Values: values, Age: age})
		if !age.IsZero() {
			if age.Source == model.AgePropagated {
				res.propOnData = age
			} else {
				res.strongOnData = age
			}
		}
	}

	res.lastKnown, res.hasLastKnown = state.last, state.ok
	return res
}

// rowAge resolves the gestational age for one row through the priority
// chain: explicit cell, then DUM arithmetic over the row's date, then
// carry-forward.
func rowAge(row []model.Cell, hdr headerResult, dum time.Time, haveDUM bool, state *ageState, pol Policy) model.GestationalAge {
	if hdr.gestCol >= 0 {
		if w := normalize.GestationalWeeks(cellAt(row, hdr.gestCol), pol.GestWeeksLimit); w > 0 {
			age := model.AgeFromWeeks(w, model.AgeExplicit)
			state.set(age)
			return age
		}
	}
	if haveDUM && hdr.dateCol >= 0 {
		if date, ok := normalize.Date(cellAt(row, hdr.dateCol)); ok {
			if w := normalize.WeeksFromDUM(date, dum, pol.DUMSpanMaxDays); w > 0 {
				age := model.AgeFromWeeks(w, model.AgeCalculated)
				state.set(age)
				return age
			}
		}
	}
	if age, ok := state.propagate(); ok {
		return age
	}
	return model.GestationalAge{}
}

// rowValues maps every configured glucose column independently. Cells
// that fail shape or bounds checks are simply absent.
func rowValues(row []model.Cell, columns map[int]model.Slot, pol Policy) map[model.Slot]int {
	var values map[model.Slot]int
	for col, slot := range columns {
		v, ok := normalize.Glucose(cellAt(row, col), pol.GlucoseMin, pol.GlucoseMax)
		if !ok {
			continue
		}
		if values == nil {
			values = make(map[model.Slot]int, len(columns))
		}
		values[slot] = v
	}
	return values
}

func cellAt(row []model.Cell, idx int) model.Cell {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}
