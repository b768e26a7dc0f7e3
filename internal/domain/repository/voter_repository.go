package repository

import (
	"context"

	"voterdata-service/internal/domain/entity"
)

// BulkOutcome reports a bulk insert: how many documents landed plus the
// per-row failures the store returned. Failures carry the 0-based offset
// into the submitted slice.
type BulkOutcome struct {
	Inserted int
	Failures []BulkFailure
}

// BulkFailure is one rejected document from an unordered bulk write.
type BulkFailure struct {
	Index   int
	Message string
}

// VoterRepository defines the interface for voter record persistence
type VoterRepository interface {
	// BulkInsert persists records as one unordered batch; an individual
	// document's rejection never blocks its siblings.
	BulkInsert(ctx context.Context, records []*entity.VoterRecord) (*BulkOutcome, error)
	FindByID(ctx context.Context, id string) (*entity.VoterRecord, error)
	FindAll(ctx context.Context, page, limit int) ([]*entity.VoterRecord, error)
	Search(ctx context.Context, query string) ([]*entity.VoterRecord, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// UploadLogRepository defines the interface for the ingestion audit trail
type UploadLogRepository interface {
	Save(ctx context.Context, log *entity.UploadLog) error
	FindRecent(ctx context.Context, limit int) ([]*entity.UploadLog, error)
}
