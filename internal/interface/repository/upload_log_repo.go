package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"voterdata-service/internal/domain/entity"
	"voterdata-service/internal/domain/repository"
)

// GormUploadLogRepository implements the UploadLogRepository interface
type GormUploadLogRepository struct {
	db *gorm.DB
}

// UploadLogs GORM model for database mapping
type UploadLogs struct {
	ID             uint   `gorm:"primaryKey"`
	BatchID        string `gorm:"column:batch_id;index"`
	Filename       string `gorm:"column:filename"`
	SizeBytes      int64  `gorm:"column:size_bytes"`
	TotalRows      int    `gorm:"column:total_rows"`
	Inserted       int    `gorm:"column:inserted"`
	SkippedInvalid int    `gorm:"column:skipped_invalid"`
	Failed         int    `gorm:"column:failed"`
	DurationMs     int64  `gorm:"column:duration_ms"`
	CreatedAt      time.Time
}

// TableName overrides the default table name
func (UploadLogs) TableName() string {
	return "upload_logs"
}

// NewGormUploadLogRepository creates a new GORM upload log repository
func NewGormUploadLogRepository(db *gorm.DB) repository.UploadLogRepository {
	return &GormUploadLogRepository{
		db: db,
	}
}

// Save persists one audit entry
func (r *GormUploadLogRepository) Save(ctx context.Context, log *entity.UploadLog) error {
	row := UploadLogs{
		BatchID:        log.BatchID,
		Filename:       log.Filename,
		SizeBytes:      log.SizeBytes,
		TotalRows:      log.TotalRows,
		Inserted:       log.Inserted,
		SkippedInvalid: log.SkippedInvalid,
		Failed:         log.Failed,
		DurationMs:     log.DurationMs,
	}
	result := r.db.WithContext(ctx).Create(&row)
	if result.Error != nil {
		return result.Error
	}
	log.ID = row.ID
	log.CreatedAt = row.CreatedAt
	return nil
}

// FindRecent lists the newest audit entries
func (r *GormUploadLogRepository) FindRecent(ctx context.Context, limit int) ([]*entity.UploadLog, error) {
	if limit < 1 {
		limit = 20
	}

	var rows []UploadLogs
	result := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	logs := make([]*entity.UploadLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, &entity.UploadLog{
			ID:             row.ID,
			BatchID:        row.BatchID,
			Filename:       row.Filename,
			SizeBytes:      row.SizeBytes,
			TotalRows:      row.TotalRows,
			Inserted:       row.Inserted,
			SkippedInvalid: row.SkippedInvalid,
			Failed:         row.Failed,
			DurationMs:     row.DurationMs,
			CreatedAt:      row.CreatedAt,
		})
	}
	return logs, nil
}
