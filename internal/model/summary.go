package model

import "time"

// FileFailure is the per-file failure surface handed back to callers.
type FileFailure struct {
	FileName string          `json:"file_name"`
	Category FailureCategory `json:"category"`
	Message  string          `json:"message"`
}

// BatchSummary captures metrics from a single batch run.
type BatchSummary struct {
	BatchID         string
	FilesSeen       int
	FilesParsed     int
	FilesFailed     int
	RowsAccepted    int
	RecordsSaved    int
	DurationParse   time.Duration
	DurationPersist time.Duration
	DurationTotal   time.Duration
}
