package xlsxread

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, build func(f *excelize.File)) string {
	t.Helper()
	f := excelize.NewFile()
	build(f)
	path := filepath.Join(t.TempDir(), "wb.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestOpen_PicksGlucoseSheet(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "notas")
		f.NewSheet("Controle Glicêmico")
		f.SetCellValue("Controle Glicêmico", "A1", "Data")
		f.SetCellValue("Controle Glicêmico", "B1", "Jejum")
	})

	wb, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer wb.Close()

	if wb.Sheet() != "Controle Glicêmico" {
		t.Fatalf("picked sheet %q", wb.Sheet())
	}
	grid, err := wb.Grid()
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if len(grid) != 1 || len(grid[0]) != 2 {
		t.Fatalf("unexpected grid shape: %v", grid)
	}
	if grid[0][0] != "Data" || grid[0][1] != "Jejum" {
		t.Errorf("unexpected header cells: %v", grid[0])
	}
}

func TestOpen_FallsBackToFirstSheet(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "Jejum")
	})

	wb, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer wb.Close()

	if wb.Sheet() != "Sheet1" {
		t.Fatalf("picked sheet %q", wb.Sheet())
	}
}

func TestOpen_NotASpreadsheet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "junk.xlsx")
	if err := os.WriteFile(path, []byte("this is not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected error for non-spreadsheet payload")
	}
}

func TestOpenReader(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", 95)
	})
	fh, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()

	wb, err := OpenReader(fh)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer wb.Close()

	grid, err := wb.Grid()
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if len(grid) != 1 || grid[0][0] != "95" {
		t.Fatalf("unexpected grid: %v", grid)
	}
}

func TestGrid_RaggedRows(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "a")
		f.SetCellValue("Sheet1", "C1", "c")
		f.SetCellValue("Sheet1", "A2", "x")
	})

	wb, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer wb.Close()

	grid, err := wb.Grid()
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if len(grid) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(grid))
	}
	if len(grid[0]) != 3 || grid[0][1] != "" {
		t.Errorf("row 0 should have an empty middle cell: %v", grid[0])
	}
	if len(grid[1]) != 1 {
		t.Errorf("row 1 should be ragged: %v", grid[1])
	}
}
