package entity

import "time"

// Row failure reasons reported back per batch
const (
	ReasonMissingName = "missing required field: name"
)

// RowFailure records why a single spreadsheet row was not persisted.
// Row is the 1-based data row number (header row excluded).
type RowFailure struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// IngestReport summarizes one bulk ingestion. Inserted + SkippedInvalid +
// Failed always equals TotalRows; row-level problems never abort the batch.
type IngestReport struct {
	BatchID        string        `json:"batchId"`
	TotalRows      int           `json:"totalRows"`
	Inserted       int           `json:"inserted"`
	SkippedInvalid int           `json:"skipped"`
	Failed         int           `json:"failed"`
	Failures       []RowFailure  `json:"details,omitempty"`
	Duration       time.Duration `json:"-"`
}

// UploadLog is the audit trail entry for one ingestion batch, kept in
// Postgres separately from the voter store.
type UploadLog struct {
	ID             uint      `json:"id"`
	BatchID        string    `json:"batchId"`
	Filename       string    `json:"filename"`
	SizeBytes      int64     `json:"sizeBytes"`
	TotalRows      int       `json:"totalRows"`
	Inserted       int       `json:"inserted"`
	SkippedInvalid int       `json:"skipped"`
	Failed         int       `json:"failed"`
	DurationMs     int64     `json:"durationMs"`
	CreatedAt      time.Time `json:"createdAt"`
}
