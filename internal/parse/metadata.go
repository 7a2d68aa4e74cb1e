package parse

import (
	"strings"
	"unicode/utf8"

	"github.com/rmfonseca/glicolog/internal/model"
	"github.com/rmfonseca/glicolog/internal/normalize"
)

// metadata holds what the prefix scan scavenged. dumRaw stays untyped:
// the cell may be a date string, a serial, or garbage, and the date
// normalizer sorts that out later.
type metadata struct {
	name   string
	dumRaw model.Cell
}

// scanMetadata walks a bounded prefix looking for name and DUM cues.
// The two signals are independent: either, both, or neither may appear,
// in any order. The first usable hit wins for each.
func scanMetadata(grid model.RawGrid, pol Policy) metadata {
	limit := len(grid)
	if limit > pol.MetadataScanRows {
		limit = pol.MetadataScanRows
	}
	var md metadata
	for i := 0; i < limit; i++ {
		row := grid[i]
		for j, cell := range row {
			key := headerKey(cell)
			if key == "" || j+1 >= len(row) {
				continue
			}
			next := normalize.CellText(row[j+1])
			if md.name == "" && isNameCue(key) && utf8.RuneCountInString(next) > 2 {
				md.name = normalize.PatientName(next)
			}
			if md.dumRaw == nil && isDUMCue(key) && next != "" {
				md.dumRaw = row[j+1]
			}
		}
		if md.name != "" && md.dumRaw != nil {
			break
		}
	}
	return md
}

func isNameCue(key string) bool {
	return strings.Contains(key, "nome") || strings.Contains(key, "paciente")
}

func isDUMCue(key string) bool {
	// Compact the key so dotted abbreviations ("D.U.M:", keyed as
	// "d u m") still match.
	compact := strings.ReplaceAll(key, " ", "")
	return strings.Contains(compact, "dum") || strings.Contains(key, "ultima menstruacao")
}
