package parse

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rmfonseca/glicolog/internal/model"
	"github.com/rmfonseca/glicolog/internal/normalize"
	"github.com/rmfonseca/glicolog/internal/xlsxread"
)

// File parses one workbook from disk into a patient record. A returned
// error is always a *FileError carrying the failure category; there is
// no partial record on failure.
func File(path string, pol Policy) (*model.PatientRecord, error) {
	wb, err := xlsxread.Open(path)
	if err != nil {
		return nil, &FileError{File: filepath.Base(path), Category: model.FailureFormat, Err: err}
	}
	defer wb.Close()
	return fromWorkbook(wb, filepath.Base(path), pol)
}

// Reader parses a workbook from a stream, as handed over by uploads.
// name is the client-side file name used for defaults and reporting.
func Reader(r io.Reader, name string, pol Policy) (*model.PatientRecord, error) {
	wb, err := xlsxread.OpenReader(r)
	if err != nil {
		return nil, &FileError{File: name, Category: model.FailureFormat, Err: err}
	}
	defer wb.Close()
	return fromWorkbook(wb, name, pol)
}

func fromWorkbook(wb *xlsxread.Workbook, name string, pol Policy) (*model.PatientRecord, error) {
	grid, err := wb.Grid()
	if err != nil {
		return nil, &FileError{File: name, Category: model.FailureFormat, Err: err}
	}
	return Grid(grid, name, pol)
}

// Grid runs detection, metadata scavenging, and the row walk over an
// already-loaded grid, then settles the file-level record.
func Grid(grid model.RawGrid, fileName string, pol Policy) (*model.PatientRecord, error) {
	hdr, ok := detectHeader(grid, pol)
	if !ok {
		return nil, failf(fileName, model.FailureStructure,
			"no header row recognized in the first %d rows", pol.HeaderScanRows)
	}

	md := scanMetadata(grid, pol)
	var dum time.Time
	var haveDUM bool
	if md.dumRaw != nil {
		dum, haveDUM = normalize.Date(md.dumRaw)
	}

	res := extractRows(grid, hdr, dum, haveDUM, pol)
	if len(res.readings) == 0 {
		return nil, failf(fileName, model.FailureData,
			"header found at row %d but no glucose values below it", hdr.row+1)
	}

	name := md.name
	if name == "" {
		name = normalize.PatientNameFromFile(fileName)
	}

	age, warnings := settleAge(res, pol)

	rec := &model.PatientRecord{
		SourceFile:  fileName,
		PatientName: name,
		Age:         age,
		Readings:    res.readings,
		Status:      model.StatusSuccess,
		Warnings:    warnings,
	}
	rec.UsesInsulin = inferInsulin(rec)
	return rec, nil
}

// settleAge picks the file-level gestational age. Measured ages on data
// rows outrank carried-forward ones; with neither, the last measured age
// seen anywhere is used, demoted to propagated. Ages past the validity
// cap reset to zero, and early ages are kept but flagged.
func settleAge(res walkResult, pol Policy) (model.GestationalAge, []string) {
	var age model.GestationalAge
	switch {
	case !res.strongOnData.IsZero():
		age = res.strongOnData
	case !res.propOnData.IsZero():
		age = res.propOnData
	case res.hasLastKnown:
		age = res.lastKnown
		age.Source = model.AgePropagated
	}

	if age.IsZero() {
		return age, nil
	}
	if age.DecimalWeeks() > float64(pol.FinalWeeksMax) {
		return model.GestationalAge{}, nil
	}
	var warnings []string
	if age.DecimalWeeks() < float64(pol.FinalWeeksWarn) {
		warnings = append(warnings, fmt.Sprintf(
			"gestational age %s is before week %d; the DUM may be wrong", age, pol.FinalWeeksWarn))
	}
	return age, warnings
}

// inferInsulin applies the statistical heuristic over accepted rows:
// enough rows carrying an insulin-only slot mean the patient takes
// insulin, since sheets rarely state it outright.
func inferInsulin(rec *model.PatientRecord) bool {
	total := len(rec.Readings)
	if total == 0 {
		return false
	}
	n := rec.InsulinRows()
	return n >= 3 || float64(n) >= 0.3*float64(total)
}
