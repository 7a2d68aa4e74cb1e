package recommend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rmfonseca/glicolog/internal/model"
)

func testRecord() *model.PatientRecord {
	return &model.PatientRecord{
		SourceFile:  "ana.xlsx",
		PatientName: "Ana Souza",
		Age:         model.GestationalAge{Weeks: 31, Days: 2, Source: model.AgeExplicit},
		UsesInsulin: true,
		Readings: []model.Reading{
			{Row: 4, Values: map[model.Slot]int{model.SlotFasting: 88}},
			{Row: 5},
		},
	}
}

func TestPayloadFor(t *testing.T) {
	t.Parallel()

	p := PayloadFor(testRecord())
	if p.PatientName != "Ana Souza" || p.GestWeeks != 31 || p.GestDays != 2 {
		t.Fatalf("payload header: %+v", p)
	}
	if p.AgeSource != string(model.AgeExplicit) {
		t.Errorf("age source %q", p.AgeSource)
	}
	if !p.UsesInsulin || !p.DietCompliant {
		t.Errorf("flags: insulin=%v diet=%v", p.UsesInsulin, p.DietCompliant)
	}
	if p.WeightKg != nil {
		t.Error("weight is not derivable from import; must stay nil")
	}
	if p.InsulinRegimen == nil || len(p.InsulinRegimen) != 0 {
		t.Errorf("regimen must be present and empty, got %v", p.InsulinRegimen)
	}
	if len(p.Readings) != 1 || p.Readings[0].Row != 4 {
		t.Errorf("valueless readings must be filtered: %v", p.Readings)
	}
}

func TestRecommend_PostsAndReturnsRawReply(t *testing.T) {
	t.Parallel()

	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/recommendations" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"recommendation":"keep current plan","review_in_days":14}`))
	}))
	defer srv.Close()

	raw, err := NewClient(srv.URL).Recommend(context.Background(), testRecord())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	var reply struct {
		Recommendation string `json:"recommendation"`
		ReviewInDays   int    `json:"review_in_days"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		t.Fatalf("reply not passed through: %v", err)
	}
	if reply.Recommendation != "keep current plan" || reply.ReviewInDays != 14 {
		t.Errorf("reply: %+v", reply)
	}
	if got.PatientName != "Ana Souza" {
		t.Errorf("server saw payload %+v", got)
	}
}

func TestRecommend_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Recommend(context.Background(), testRecord()); err == nil {
		t.Fatal("expected error on 503")
	}
}
