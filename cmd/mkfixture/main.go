// mkfixture generates synthetic glycemic-control workbooks in the shapes
// clinicians actually produce: metadata rows, mixed age notations, noise.
// Usage: go run ./cmd/mkfixture --out testdata --files 5 --rows 40
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/xuri/excelize/v2"
)

func main() {
	out := flag.String("out", "testdata", "output directory")
	files := flag.Int("files", 3, "workbooks to generate")
	rows := flag.Int("rows", 30, "data rows per workbook")
	seed := flag.Int64("seed", 0, "faker seed (0 = random)")
	messy := flag.Bool("messy", true, "inject blank rows, unit suffixes, and junk cells")
	flag.Parse()

	faker := gofakeit.New(*seed)

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", *out, err)
		os.Exit(1)
	}

	for i := 0; i < *files; i++ {
		patient := faker.FirstName() + " " + faker.LastName()
		fileName := strings.ToLower(strings.ReplaceAll(patient, " ", "_")) + ".xlsx"
		path := filepath.Join(*out, fileName)

		// Alternate between insulin-protocol and diet-only layouts so
		// the inference heuristic sees both.
		insulin := i%2 == 0
		if err := writeWorkbook(path, patient, *rows, insulin, *messy, faker); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", fileName, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
	}
}

func writeWorkbook(path, patient string, rows int, insulin, messy bool, faker *gofakeit.Faker) error {
	f := excelize.NewFile()
	sheet := "Controle Glicêmico"
	f.SetSheetName("Sheet1", sheet)

	// DUM far enough back that the walk starts mid-pregnancy.
	startOffset := faker.Number(100, 180)
	dum := time.Now().AddDate(0, 0, -(startOffset + rows))

	f.SetCellValue(sheet, "A1", "Paciente:")
	f.SetCellValue(sheet, "B1", patient)
	f.SetCellValue(sheet, "A2", "DUM:")
	f.SetCellValue(sheet, "B2", dum.Format("02/01/2006"))

	headers := []any{"Data", "IG", "Jejum", "Pós café", "Pós almoço", "Pós jantar"}
	if insulin {
		headers = []any{"Data", "IG", "Jejum", "Pós café", "Pré almoço", "Pós almoço", "Pré jantar", "Pós jantar", "Madrugada"}
	}
	if err := f.SetSheetRow(sheet, "A4", &headers); err != nil {
		return err
	}

	r := 5
	day := dum.AddDate(0, 0, startOffset)
	for i := 0; i < rows; i++ {
		if messy && faker.Number(0, 11) == 0 {
			r++ // clinicians leave separator rows
		}

		row := make([]any, len(headers))
		row[0] = dateCell(day, messy, faker)
		row[1] = ageCell(day, dum, messy, faker)
		for col := 2; col < len(headers); col++ {
			row[col] = glucoseCell(messy, faker)
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", r), &row); err != nil {
			return err
		}
		r++
		day = day.AddDate(0, 0, 1)
	}

	return f.SaveAs(path)
}

// dateCell usually writes dd/mm/yyyy text; messy sheets sometimes hold
// real date cells, which surface as raw serials.
func dateCell(day time.Time, messy bool, faker *gofakeit.Faker) any {
	if messy && faker.Number(0, 4) == 0 {
		return day
	}
	return day.Format("02/01/2006")
}

// ageCell mixes the notations seen in the wild: "32+4", "32,4", or blank
// (the reader falls back to the date and DUM).
func ageCell(day, dum time.Time, messy bool, faker *gofakeit.Faker) any {
	totalDays := int(day.Sub(dum).Hours() / 24)
	weeks, days := totalDays/7, totalDays%7

	switch faker.Number(0, 9) {
	case 0, 1, 2:
		return ""
	case 3:
		return fmt.Sprintf("%d,%d", weeks, days)
	default:
		if messy && faker.Number(0, 14) == 0 {
			return "?"
		}
		return fmt.Sprintf("%d+%d", weeks, days)
	}
}

func glucoseCell(messy bool, faker *gofakeit.Faker) any {
	if faker.Number(0, 4) == 0 {
		return "" // skipped check
	}
	v := faker.Number(62, 195)
	if messy {
		switch faker.Number(0, 14) {
		case 0:
			return fmt.Sprintf("%d mg/dL", v)
		case 1:
			return faker.RandomString([]string{"não mediu", "x", "-"})
		case 2:
			return float64(v) + 0.5
		}
	}
	return v
}
