package parse

import "github.com/rmfonseca/glicolog/internal/model"

// headerResult describes the detected header block. gestCol and dateCol
// are -1 when no such column exists.
type headerResult struct {
	row     int
	columns map[int]model.Slot
	gestCol int
	dateCol int
	score   int
}

// detectHeader folds over a bounded prefix of the grid and keeps the
// candidate with the strictly highest score, so an equal later score
// never displaces an earlier row. Score is the number of distinct
// glucose slots the row maps. ok=false means no row mapped anything.
func detectHeader(grid model.RawGrid, pol Policy) (headerResult, bool) {
	best := headerResult{row: -1, gestCol: -1, dateCol: -1}
	limit := len(grid)
	if limit > pol.HeaderScanRows {
		limit = pol.HeaderScanRows
	}
	for i := 0; i < limit; i++ {
		cand := mapHeaderRow(grid[i], i)
		if cand.score > best.score {
			best = cand
		}
	}
	if best.score < 1 {
		return best, false
	}
	if best.dateCol < 0 {
		// Layout convention: the date sits just left of the gestational-age
		// column; sheets with neither start their dates in column 0.
		if best.gestCol >= 0 {
			best.dateCol = best.gestCol - 1
		} else {
			best.dateCol = 0
		}
	}
	return best, true
}

// mapHeaderRow builds the column map for one candidate row. Each slot is
// assigned at most once; the leftmost claim wins. Gestational-age and
// date columns are flagged independently of slot mapping.
func mapHeaderRow(row []model.Cell, idx int) headerResult {
	res := headerResult{row: idx, columns: make(map[int]model.Slot), gestCol: -1, dateCol: -1}
	used := make(map[model.Slot]bool)
	for j, cell := range row {
		key := headerKey(cell)
		if key == "" {
			continue
		}
		if slot, ok := MatchSlot(key); ok {
			if !used[slot] {
				res.columns[j] = slot
				used[slot] = true
			}
			continue
		}
		if res.gestCol < 0 && isGestAgeHeader(key) {
			res.gestCol = j
			continue
		}
		if res.dateCol < 0 && isDateHeader(key) {
			res.dateCol = j
		}
	}
	res.score = len(res.columns)
	return res
}
