package parse

import (
	"testing"

	"github.com/rmfonseca/glicolog/internal/model"
)

func TestScanMetadata_NameAndDUM(t *testing.T) {
	t.Parallel()

	grid := model.RawGrid{
		row("Nome:", "MARIA DA SILVA"),
		row("D.U.M:", "01/01/2024"),
		row("Data", "Jejum"),
	}
	md := scanMetadata(grid, DefaultPolicy())
	if md.name != "Maria Da Silva" {
		t.Fatalf("name = %q", md.name)
	}
	if md.dumRaw != "01/01/2024" {
		t.Fatalf("dumRaw = %v", md.dumRaw)
	}
}

func TestScanMetadata_PacienteCueAndOrder(t *testing.T) {
	t.Parallel()

	// Cues are order-insensitive and may sit on the same row.
	grid := model.RawGrid{
		row("Última menstruação", "15/02/2024", "Paciente", "Ana Costa"),
	}
	md := scanMetadata(grid, DefaultPolicy())
	if md.name != "Ana Costa" {
		t.Fatalf("name = %q", md.name)
	}
	if md.dumRaw != "15/02/2024" {
		t.Fatalf("dumRaw = %v", md.dumRaw)
	}
}

func TestScanMetadata_ShortNextCellIgnored(t *testing.T) {
	t.Parallel()

	grid := model.RawGrid{
		row("Nome", "-"),
		row("Nome da paciente", "Joana Santos"),
	}
	md := scanMetadata(grid, DefaultPolicy())
	if md.name != "Joana Santos" {
		t.Fatalf("short candidate should be skipped, name = %q", md.name)
	}
}

func TestScanMetadata_Bounded(t *testing.T) {
	t.Parallel()

	grid := make(model.RawGrid, 0, 12)
	for i := 0; i < 11; i++ {
		grid = append(grid, row("x"))
	}
	grid = append(grid, row("Nome", "Maria Oliveira"))
	md := scanMetadata(grid, DefaultPolicy())
	if md.name != "" {
		t.Fatalf("cue beyond the scan window should be ignored, got %q", md.name)
	}
}

func TestScanMetadata_Absent(t *testing.T) {
	t.Parallel()

	md := scanMetadata(model.RawGrid{row("Data", "Jejum"), row("01/03/2024", "95")}, DefaultPolicy())
	if md.name != "" || md.dumRaw != nil {
		t.Fatalf("unexpected metadata: %+v", md)
	}
}
