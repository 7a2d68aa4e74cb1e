package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/rmfonseca/glicolog/internal/model"
	"github.com/rmfonseca/glicolog/internal/parse"
)

// workbookBytes builds a parseable workbook in memory.
func workbookBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "Paciente:")
	f.SetCellValue("Sheet1", "B1", "Ana Souza")
	f.SetSheetRow("Sheet1", "A3", &[]any{"Data", "IG", "Jejum", "Pós almoço"})
	f.SetSheetRow("Sheet1", "A4", &[]any{"01/03/2024", "30+1", 88, 132})
	f.SetSheetRow("Sheet1", "A5", &[]any{"02/03/2024", "30+2", 91, 140})
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	return buf.Bytes()
}

type upload struct {
	name string
	data []byte
}

func multipartBody(t *testing.T, uploads []upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, u := range uploads {
		fw, err := w.CreateFormFile("file", u.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(u.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func postImports(t *testing.T, uploads []upload) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, uploads)
	req := httptest.NewRequest(http.MethodPost, "/api/imports", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	Router(zerolog.Nop(), parse.DefaultPolicy()).ServeHTTP(w, req)
	return w
}

func TestImport_MixedBatch(t *testing.T) {
	w := postImports(t, []upload{
		{name: "ana_souza.xlsx", data: workbookBytes(t)},
		{name: "broken.xlsx", data: []byte("not a workbook")},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	var reply struct {
		Parsed   int                            `json:"parsed"`
		Failed   int                            `json:"failed"`
		Records  []*model.PatientRecord         `json:"records"`
		Failures map[string][]model.FileFailure `json:"failures"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.Parsed != 1 || reply.Failed != 1 {
		t.Fatalf("parsed=%d failed=%d", reply.Parsed, reply.Failed)
	}
	if reply.Records[0].PatientName != "Ana Souza" || len(reply.Records[0].Readings) != 2 {
		t.Errorf("record: %+v", reply.Records[0])
	}
	bucket := reply.Failures[model.FailureFormat.Label()]
	if len(bucket) != 1 || bucket[0].FileName != "broken.xlsx" {
		t.Errorf("failures: %v", reply.Failures)
	}
}

func TestImport_AllRejected(t *testing.T) {
	w := postImports(t, []upload{{name: "junk.xlsx", data: []byte("junk")}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", w.Code)
	}
}

func TestImport_NoFiles(t *testing.T) {
	w := postImports(t, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	Router(zerolog.Nop(), parse.DefaultPolicy()).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
}
