// Package export flattens parsed patient records into Parquet files
// for downstream analytics tools.
package export

import (
	"fmt"
	"io"
	"os"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/rmfonseca/glicolog/internal/model"
)

// Row is one accepted glucose value, denormalized with its patient and
// provenance so the file is queryable on its own.
type Row struct {
	PatientName string  `parquet:"patient_name"`
	SourceFile  string  `parquet:"source_file"`
	RowSeq      int32   `parquet:"row_seq"`
	SheetRow    int32   `parquet:"sheet_row"`
	Slot        string  `parquet:"slot"`
	ValueMgdl   int32   `parquet:"value_mgdl"`
	GestWeeks   *int32  `parquet:"gest_weeks,optional"`
	GestDays    *int32  `parquet:"gest_days,optional"`
	AgeSource   *string `parquet:"age_source,optional"`
	UsesInsulin bool    `parquet:"uses_insulin"`
}

// Flatten explodes records into one Row per accepted value, keeping
// record order and day order inside each reading. Readings without a
// gestational age leave the age columns null.
func Flatten(records []*model.PatientRecord) []Row {
	var rows []Row
	for _, rec := range records {
		for seq, rd := range rec.Readings {
			for _, slot := range model.AllSlots {
				v, ok := rd.Values[slot]
				if !ok {
					continue
				}
				row := Row{
					PatientName: rec.PatientName,
					SourceFile:  rec.SourceFile,
					RowSeq:      int32(seq),
					SheetRow:    int32(rd.Row),
					Slot:        string(slot),
					ValueMgdl:   int32(v),
					UsesInsulin: rec.UsesInsulin,
				}
				if !rd.Age.IsZero() {
					w, d := int32(rd.Age.Weeks), int32(rd.Age.Days)
					src := string(rd.Age.Source)
					row.GestWeeks, row.GestDays, row.AgeSource = &w, &d, &src
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// WriteParquet flattens the records into w and returns the row count.
func WriteParquet(w io.Writer, records []*model.PatientRecord) (int, error) {
	rows := Flatten(records)
	pw := goparquet.NewGenericWriter[Row](w)
	if len(rows) > 0 {
		if _, err := pw.Write(rows); err != nil {
			return 0, fmt.Errorf("write parquet rows: %w", err)
		}
	}
	if err := pw.Close(); err != nil {
		return 0, fmt.Errorf("close parquet writer: %w", err)
	}
	return len(rows), nil
}

// WriteParquetFile writes the records to a new file at path.
func WriteParquetFile(path string, records []*model.PatientRecord) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := WriteParquet(f, records)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}
