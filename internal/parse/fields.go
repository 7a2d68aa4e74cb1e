package parse

import (
	"strings"

	"github.com/rmfonseca/glicolog/internal/model"
	"github.com/rmfonseca/glicolog/internal/normalize"
)

// slotPattern pairs a normalized header substring with its glucose slot.
type slotPattern struct {
	substr string
	slot   model.Slot
}

// slotPatterns is ordered: specific pre/post forms come before the bare
// meal words they contain, so "pre almoco" is never swallowed by the
// generic "almoco" entry. Matching runs over normalize.Key output, so
// accents and hyphens are already gone.
var slotPatterns = []slotPattern{
	{"jejum", model.SlotFasting},
	{"fasting", model.SlotFasting},
	{"pre cafe", model.SlotFasting},
	{"antes do cafe", model.SlotFasting},

	{"pos cafe", model.SlotPostBreakfast},
	{"apos cafe", model.SlotPostBreakfast},
	{"depois do cafe", model.SlotPostBreakfast},
	{"pos desjejum", model.SlotPostBreakfast},
	{"after breakfast", model.SlotPostBreakfast},

	{"pre almoco", model.SlotPreLunch},
	{"antes do almoco", model.SlotPreLunch},
	{"pre lunch", model.SlotPreLunch},

	{"pos almoco", model.SlotPostLunch},
	{"apos almoco", model.SlotPostLunch},
	{"depois do almoco", model.SlotPostLunch},
	{"after lunch", model.SlotPostLunch},

	{"pre jantar", model.SlotPreDinner},
	{"antes do jantar", model.SlotPreDinner},
	{"pre dinner", model.SlotPreDinner},

	{"pos jantar", model.SlotPostDinner},
	{"apos jantar", model.SlotPostDinner},
	{"depois do jantar", model.SlotPostDinner},
	{"after dinner", model.SlotPostDinner},

	{"madrugada", model.SlotOvernight},
	{"ceia", model.SlotOvernight},
	{"overnight", model.SlotOvernight},
	{"bedtime", model.SlotOvernight},

	{"cafe", model.SlotPostBreakfast},
	{"breakfast", model.SlotPostBreakfast},
	{"almoco", model.SlotPostLunch},
	{"lunch", model.SlotPostLunch},
	{"jantar", model.SlotPostDinner},
	{"dinner", model.SlotPostDinner},
}

// MatchSlot maps a normalized header key to a glucose slot. First match
// in dictionary order wins; ok=false means the header is not a glucose
// column.
func MatchSlot(key string) (model.Slot, bool) {
	for _, p := range slotPatterns {
		if strings.Contains(key, p.substr) {
			return p.slot, true
		}
	}
	return "", false
}

// isGestAgeHeader recognizes the gestational-age column: a spelled-out
// label, the bare "IG" abbreviation, or a weeks label.
func isGestAgeHeader(key string) bool {
	if strings.Contains(key, "idade gestacional") || strings.Contains(key, "semanas") {
		return true
	}
	for _, tok := range strings.Fields(key) {
		if tok == "ig" {
			return true
		}
	}
	return false
}

// isDateHeader recognizes the measurement-date column. Bare labels must
// match exactly so "data de nascimento" style columns never win, while
// "data da consulta" forms are accepted by prefix.
func isDateHeader(key string) bool {
	switch key {
	case "data", "dia", "date":
		return true
	}
	return strings.HasPrefix(key, "data da") || strings.HasPrefix(key, "data do")
}

// headerKey renders a raw cell into its comparison key.
func headerKey(cell model.Cell) string {
	return normalize.Key(normalize.CellText(cell))
}
