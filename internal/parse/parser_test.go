package parse

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rmfonseca/glicolog/internal/model"
)

var fullHeader = row("Data", "IG", "Jejum", "Pós Café", "Pré Almoço", "Pós Almoço", "Pré Jantar", "Pós Jantar", "Madrugada")

// Scenario: DUM metadata plus dated rows, empty IG column. Every row's
// age must come from DUM arithmetic.
func TestGrid_AgesCalculatedFromDUM(t *testing.T) {
	t.Parallel()

	grid := model.RawGrid{
		row("Nome:", "Maria da Silva"),
		row("DUM", "01/01/2024"),
		fullHeader,
		row("04/03/2024", "", "95", "120"),
		row("05/03/2024", "", "98", "135"),
		row("06/03/2024", "", "92", "128"),
		row("07/03/2024", "", "90", "122"),
		row("08/03/2024", "", "99", "140"),
	}
	rec, err := Grid(grid, "maria.xlsx", DefaultPolicy())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if len(rec.Readings) != 5 {
		t.Fatalf("readings = %d", len(rec.Readings))
	}
	for i, r := range rec.Readings {
		if r.Age.Source != model.AgeCalculated {
			t.Errorf("row %d age source = %q, want calculated", i, r.Age.Source)
		}
	}
	// Last data row: 2024-03-08 is 67 days past DUM, 9 weeks 4 days.
	if rec.Age.Weeks != 9 || rec.Age.Days != 4 || rec.Age.Source != model.AgeCalculated {
		t.Fatalf("final age = %+v", rec.Age)
	}
	if rec.PatientName != "Maria da Silva" {
		t.Fatalf("name = %q", rec.PatientName)
	}
	// A first-trimester age is kept but flagged.
	if len(rec.Warnings) != 1 {
		t.Fatalf("warnings = %v", rec.Warnings)
	}
}

// Scenario: populated IG column, no DUM. Every row's age must be explicit.
func TestGrid_ExplicitAgesOverrideDates(t *testing.T) {
	t.Parallel()

	grid := model.RawGrid{
		fullHeader,
		row("04/03/2024", "30+0", "95", "120"),
		row("05/03/2024", "30+1", "98", "135"),
		row("06/03/2024", "30+2", "92", "128"),
	}
	rec, err := Grid(grid, "ana.xlsx", DefaultPolicy())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	for i, r := range rec.Readings {
		if r.Age.Source != model.AgeExplicit {
			t.Errorf("row %d age source = %q, want explicit", i, r.Age.Source)
		}
	}
	if rec.Age.Weeks != 30 || rec.Age.Days != 2 || rec.Age.Source != model.AgeExplicit {
		t.Fatalf("final age = %+v", rec.Age)
	}
	if len(rec.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", rec.Warnings)
	}
}

// Scenario: trailing blank rows end the walk after the third.
func TestGrid_TrailingBlanksStopTheWalk(t *testing.T) {
	t.Parallel()

	grid := model.RawGrid{
		fullHeader,
		row("", "28+0", "95"),
		row("", "28+1", "98"),
		row("", "28+2", "92"),
		row(), row(), row(), row(),
	}
	rec, err := Grid(grid, "b.xlsx", DefaultPolicy())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if len(rec.Readings) != 3 {
		t.Fatalf("readings = %d, want 3", len(rec.Readings))
	}
}

// Scenario: nothing in the scan window looks like a header.
func TestGrid_NoHeaderIsStructuralFailure(t *testing.T) {
	t.Parallel()

	grid := model.RawGrid{
		row("relatório de acompanhamento"),
		row("paciente", "Maria"),
	}
	rec, err := Grid(grid, "c.xlsx", DefaultPolicy())
	if rec != nil {
		t.Fatalf("no partial record expected, got %+v", rec)
	}
	fe, ok := AsFileError(err)
	if !ok {
		t.Fatalf("error type: %v", err)
	}
	if fe.Category != model.FailureStructure || fe.File != "c.xlsx" {
		t.Fatalf("failure = %+v", fe)
	}
}

func TestGrid_HeaderButNoValuesIsDataFailure(t *testing.T) {
	t.Parallel()

	grid := model.RawGrid{
		fullHeader,
		row("04/03/2024", "30+0", "alto", "ruim"),
	}
	_, err := Grid(grid, "d.xlsx", DefaultPolicy())
	fe, ok := AsFileError(err)
	if !ok {
		t.Fatalf("error type: %v", err)
	}
	if fe.Category != model.FailureData {
		t.Fatalf("category = %q", fe.Category)
	}
}

func TestGrid_PatientNameDefaultsFromFileName(t *testing.T) {
	t.Parallel()

	grid := model.RawGrid{
		fullHeader,
		row("", "30+0", "95"),
	}
	rec, err := Grid(grid, "_joana_santos_2.xlsx", DefaultPolicy())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if rec.PatientName != "Joana Santos" {
		t.Fatalf("name = %q", rec.PatientName)
	}
}

func TestGrid_InsulinInference(t *testing.T) {
	t.Parallel()

	build := func(total, withPreLunch int) model.RawGrid {
		grid := model.RawGrid{fullHeader}
		for i := 0; i < total; i++ {
			pl := ""
			if i < withPreLunch {
				pl = "110"
			}
			grid = append(grid, row("", "30+0", fmt.Sprint(90+i), "", pl))
		}
		return grid
	}

	rec, err := Grid(build(5, 3), "e.xlsx", DefaultPolicy())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if !rec.UsesInsulin {
		t.Error("3 of 5 insulin-slot rows should infer insulin use")
	}

	rec, err = Grid(build(20, 1), "f.xlsx", DefaultPolicy())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if rec.UsesInsulin {
		t.Error("1 of 20 insulin-slot rows should not infer insulin use")
	}
}

func TestGrid_FinalAgePastCapResets(t *testing.T) {
	t.Parallel()

	grid := model.RawGrid{
		fullHeader,
		row("", "44+0", "95"),
	}
	rec, err := Grid(grid, "g.xlsx", DefaultPolicy())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if !rec.Age.IsZero() {
		t.Fatalf("age past the cap should reset to zero, got %+v", rec.Age)
	}
	if len(rec.Readings) != 1 {
		t.Fatalf("readings survive the reset: %d", len(rec.Readings))
	}
}

func TestGrid_FallbackAgeFromNonDataRow(t *testing.T) {
	t.Parallel()

	// The only measured age sits on a row without glucose; the file-level
	// age falls back to it, demoted to propagated.
	grid := model.RawGrid{
		row("Data", "IG", "Jejum"),
		row("", "29+3", ""),
		row("", "", "95"),
	}
	rec, err := Grid(grid, "h.xlsx", DefaultPolicy())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if rec.Age.Weeks != 29 || rec.Age.Days != 3 || rec.Age.Source != model.AgePropagated {
		t.Fatalf("final age = %+v", rec.Age)
	}
}

func TestGrid_WarningMentionsDUM(t *testing.T) {
	t.Parallel()

	grid := model.RawGrid{
		row("DUM", "01/01/2024"),
		fullHeader,
		row("15/01/2024", "", "95"),
	}
	rec, err := Grid(grid, "i.xlsx", DefaultPolicy())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if len(rec.Warnings) != 1 || !strings.Contains(rec.Warnings[0], "DUM") {
		t.Fatalf("warnings = %v", rec.Warnings)
	}
}
