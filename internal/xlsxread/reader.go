package xlsxread

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rmfonseca/glicolog/internal/model"
	"github.com/rmfonseca/glicolog/internal/normalize"
)

// sheetCues mark the sheet that carries glucose rows when a workbook has
// several. Matched against normalized sheet names.
var sheetCues = []string{"controle", "glicemi"}

// Workbook wraps an open spreadsheet and the sheet chosen for extraction.
type Workbook struct {
	file  *excelize.File
	sheet string
}

// Open opens an .xlsx/.xlsm workbook from disk and selects its data sheet.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return wrap(f)
}

// OpenReader opens a workbook from a stream, the path taken by uploads.
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return wrap(f)
}

func wrap(f *excelize.File) (*Workbook, error) {
	names := f.GetSheetList()
	if len(names) == 0 {
		f.Close()
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return &Workbook{file: f, sheet: pickSheet(names)}, nil
}

// pickSheet prefers the sheet whose name mentions glucose control, the
// convention in clinic workbooks that also carry notes or charts sheets.
// Falls back to the first sheet.
func pickSheet(names []string) string {
	for _, name := range names {
		key := normalize.Key(name)
		for _, cue := range sheetCues {
			if strings.Contains(key, cue) {
				return name
			}
		}
	}
	return names[0]
}

// Sheet reports the name of the selected data sheet.
func (w *Workbook) Sheet() string {
	return w.sheet
}

// Grid loads the selected sheet as raw cells. Rows are ragged: trailing
// empty cells are absent, so callers index defensively.
func (w *Workbook) Grid() (model.RawGrid, error) {
	rows, err := w.file.GetRows(w.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", w.sheet, err)
	}
	grid := make(model.RawGrid, len(rows))
	for i, row := range rows {
		cells := make([]model.Cell, len(row))
		for j, v := range row {
			cells[j] = v
		}
		grid[i] = cells
	}
	return grid, nil
}

// Close releases the underlying file resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}
