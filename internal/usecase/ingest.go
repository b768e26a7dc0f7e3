package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"voterdata-service/internal/domain/entity"
	"voterdata-service/internal/domain/repository"
	"voterdata-service/pkg/logger"
	"voterdata-service/pkg/metrics"
	"voterdata-service/pkg/spreadsheet"
)

// IngestService runs the bulk ingestion pipeline: decode the workbook, map
// rows onto canonical records, bulk write, aggregate per-row outcomes.
type IngestService struct {
	voterRepo     repository.VoterRepository
	uploadLogRepo repository.UploadLogRepository // nil when the audit trail is disabled
	parser        *spreadsheet.Parser
	mapper        *FieldMapper
	logger        logger.Logger
	metrics       *metrics.Metrics
}

// NewIngestService creates a new ingest service
func NewIngestService(
	voterRepo repository.VoterRepository,
	uploadLogRepo repository.UploadLogRepository,
	parser *spreadsheet.Parser,
	mapper *FieldMapper,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *IngestService {
	return &IngestService{
		voterRepo:     voterRepo,
		uploadLogRepo: uploadLogRepo,
		parser:        parser,
		mapper:        mapper,
		logger:        logger,
		metrics:       metrics,
	}
}

// Ingest processes one uploaded spreadsheet. Row-level problems land in the
// report; only request-level failures (unparseable file, store unreachable)
// return an error. Inserted + SkippedInvalid + Failed == TotalRows.
func (s *IngestService) Ingest(ctx context.Context, data []byte, filename string) (*entity.IngestReport, error) {
	started := time.Now()
	batchID := uuid.New().String()
	log := s.logger.With("batchId", batchID, "filename", filename)

	rows, err := s.parser.Parse(data)
	if err != nil {
		s.metrics.ErrorsCount.WithLabelValues("parse").Inc()
		return nil, err
	}

	report := &entity.IngestReport{
		BatchID:   batchID,
		TotalRows: len(rows),
	}

	records := make([]*entity.VoterRecord, 0, len(rows))
	sheetRow := make([]int, 0, len(rows)) // batch offset -> sheet row
	for _, row := range rows {
		record, failure := s.mapper.MapRow(row)
		if failure != nil {
			report.SkippedInvalid++
			report.Failures = append(report.Failures, *failure)
			continue
		}
		records = append(records, record)
		sheetRow = append(sheetRow, row.Index)
	}

	if len(records) > 0 {
		outcome, err := s.voterRepo.BulkInsert(ctx, records)
		if err != nil {
			s.metrics.ErrorsCount.WithLabelValues("bulk_write").Inc()
			return nil, fmt.Errorf("bulk write: %w", err)
		}
		report.Inserted = outcome.Inserted
		report.Failed = len(outcome.Failures)
		for _, f := range outcome.Failures {
			row := f.Index
			if f.Index < len(sheetRow) {
				row = sheetRow[f.Index]
			}
			report.Failures = append(report.Failures, entity.RowFailure{Row: row, Reason: f.Message})
		}
	}

	report.Duration = time.Since(started)

	s.metrics.UploadsTotal.Inc()
	s.metrics.UploadBytes.Observe(float64(len(data)))
	s.metrics.RowsInserted.Add(float64(report.Inserted))
	s.metrics.RowsSkipped.Add(float64(report.SkippedInvalid))
	s.metrics.RowsFailed.Add(float64(report.Failed))
	s.metrics.IngestDuration.Observe(report.Duration.Seconds())

	s.auditBatch(ctx, log, filename, int64(len(data)), report)

	log.Info("Ingestion finished",
		"totalRows", report.TotalRows,
		"inserted", report.Inserted,
		"skipped", report.SkippedInvalid,
		"failed", report.Failed,
		"duration", report.Duration)

	return report, nil
}

// auditBatch records the batch in the upload audit trail. Audit problems are
// logged and swallowed; they must not fail an ingestion that already wrote.
func (s *IngestService) auditBatch(ctx context.Context, log logger.Logger, filename string, size int64, report *entity.IngestReport) {
	if s.uploadLogRepo == nil {
		return
	}
	entry := &entity.UploadLog{
		BatchID:        report.BatchID,
		Filename:       filename,
		SizeBytes:      size,
		TotalRows:      report.TotalRows,
		Inserted:       report.Inserted,
		SkippedInvalid: report.SkippedInvalid,
		Failed:         report.Failed,
		DurationMs:     report.Duration.Milliseconds(),
	}
	if err := s.uploadLogRepo.Save(ctx, entry); err != nil {
		s.metrics.ErrorsCount.WithLabelValues("audit_log").Inc()
		log.Warn("Failed to record upload audit entry", "error", err)
	}
}
