// Package recommend posts normalized patient payloads to the treatment
// recommendation service and hands the reply back untouched.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rmfonseca/glicolog/internal/model"
)

// Payload is the per-patient request body. Weight and the insulin
// regimen are not derivable from spreadsheet import; callers fill them
// in when they know better.
type Payload struct {
	PatientName    string          `json:"patient_name"`
	WeightKg       *float64        `json:"weight_kg"`
	GestWeeks      int             `json:"gestational_weeks"`
	GestDays       int             `json:"gestational_days"`
	AgeSource      string          `json:"age_source,omitempty"`
	UsesInsulin    bool            `json:"uses_insulin"`
	InsulinRegimen []string        `json:"insulin_regimen"`
	DietCompliant  bool            `json:"diet_compliant"`
	Readings       []model.Reading `json:"readings"`
}

// PayloadFor assembles the request body for one parsed record, dropping
// readings that carry no numeric value.
func PayloadFor(rec *model.PatientRecord) Payload {
	readings := make([]model.Reading, 0, len(rec.Readings))
	for _, r := range rec.Readings {
		if len(r.Values) == 0 {
			continue
		}
		readings = append(readings, r)
	}
	return Payload{
		PatientName:    rec.PatientName,
		GestWeeks:      rec.Age.Weeks,
		GestDays:       rec.Age.Days,
		AgeSource:      string(rec.Age.Source),
		UsesInsulin:    rec.UsesInsulin,
		InsulinRegimen: []string{},
		DietCompliant:  true,
		Readings:       readings,
	}
}

// Client talks to the recommendation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Recommend posts the record's payload and returns the reply verbatim.
// The caller persists it; nothing here depends on its shape.
func (c *Client) Recommend(ctx context.Context, rec *model.PatientRecord) (json.RawMessage, error) {
	body, err := json.Marshal(PayloadFor(rec))
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recommendations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post recommendation: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recommendation service returned %d: %s", resp.StatusCode, raw)
	}
	return json.RawMessage(raw), nil
}
