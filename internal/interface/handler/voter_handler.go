package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"voterdata-service/internal/domain/entity"
	"voterdata-service/internal/domain/repository"
	"voterdata-service/internal/infrastructure/config"
	"voterdata-service/pkg/logger"
)

// Ingestor runs the bulk ingestion pipeline for one uploaded spreadsheet
type Ingestor interface {
	Ingest(ctx context.Context, data []byte, filename string) (*entity.IngestReport, error)
}

// VoterHandler serves the voter HTTP surface
type VoterHandler struct {
	ingest  Ingestor
	voters  repository.VoterRepository
	uploads repository.UploadLogRepository // nil when the audit trail is disabled
	cfg     *config.Config
	logger  logger.Logger
}

// NewVoterHandler creates a new voter handler
func NewVoterHandler(
	ingest Ingestor,
	voters repository.VoterRepository,
	uploads repository.UploadLogRepository,
	cfg *config.Config,
	logger logger.Logger,
) *VoterHandler {
	return &VoterHandler{
		ingest:  ingest,
		voters:  voters,
		uploads: uploads,
		cfg:     cfg,
		logger:  logger,
	}
}

// Routes wires the voter endpoints. The static paths must be registered
// before the {id} parameter route so /search and /uploads never match as
// ids.
func (h *VoterHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/upload", h.UploadSpreadsheet)
	r.Get("/search", h.SearchVoters)
	r.Get("/uploads", h.ListUploads)
	r.Get("/", h.ListVoters)
	r.Delete("/", h.DeleteAllVoters)
	r.Get("/{id}", h.GetVoterByID)
	return r
}

type uploadResponse struct {
	Success  bool                `json:"success"`
	BatchID  string              `json:"batchId"`
	Total    int                 `json:"totalRows"`
	Inserted int                 `json:"inserted"`
	Skipped  int                 `json:"skipped"`
	Failed   int                 `json:"failed"`
	Details  []entity.RowFailure `json:"details,omitempty"`
}

// UploadSpreadsheet accepts a multipart upload with exactly one file field
// named "file" and runs it through the ingestion pipeline. Size policy has
// two layers: a Content-Length pre-check that fails fast on obviously
// oversized requests in constrained deployments, and a stream limiter that
// bounds the bytes actually read.
func (h *VoterHandler) UploadSpreadsheet(w http.ResponseWriter, r *http.Request) {
	if h.cfg.ConstrainedDeploy && r.ContentLength > config.ConstrainedPrecheckBytes {
		h.logger.Warn("Rejected oversized upload at pre-check", "contentLength", r.ContentLength)
		writePayloadTooLarge(w, r.ContentLength, 4.5, true, "FUNCTION_PAYLOAD_TOO_LARGE")
		return
	}

	limit := h.cfg.UploadLimitBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			h.logger.Warn("Rejected upload at stream limit", "limit", limit)
			writePayloadTooLarge(w, 0, float64(limit)/(1024*1024), h.cfg.ConstrainedDeploy, "LIMIT_FILE_SIZE")
			return
		}
		writeError(w, http.StatusBadRequest, msgUploadFailed, err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	fileHeaders, ok := r.MultipartForm.File["file"]
	if !ok || len(r.MultipartForm.File) != 1 || len(fileHeaders) != 1 {
		writeError(w, http.StatusBadRequest, msgUnexpectedField, "LIMIT_UNEXPECTED_FILE")
		return
	}

	file, err := fileHeaders[0].Open()
	if err != nil {
		writeError(w, http.StatusBadRequest, msgUploadFailed, err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgUploadFailed, err.Error())
		return
	}

	report, err := h.ingest.Ingest(r.Context(), data, fileHeaders[0].Filename)
	if err != nil {
		if errors.Is(err, entity.ErrUnparseableFile) {
			writeError(w, http.StatusBadRequest, msgUnparseableFile, err.Error())
			return
		}
		h.logger.Error("Ingestion failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:  true,
		BatchID:  report.BatchID,
		Total:    report.TotalRows,
		Inserted: report.Inserted,
		Skipped:  report.SkippedInvalid,
		Failed:   report.Failed,
		Details:  report.Failures,
	})
}

type resultsResponse struct {
	Success bool                  `json:"success"`
	Results []*entity.VoterRecord `json:"results"`
}

// SearchVoters matches query text against the name text index and the
// identifier fields. An empty query is a bad request, never "match all".
func (h *VoterHandler) SearchVoters(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, msgEmptyQuery, "EMPTY_QUERY")
		return
	}

	results, err := h.voters.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, entity.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, msgEmptyQuery, err.Error())
			return
		}
		h.logger.Error("Search failed", "query", query, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal, err.Error())
		return
	}
	if results == nil {
		results = []*entity.VoterRecord{}
	}

	writeJSON(w, http.StatusOK, resultsResponse{Success: true, Results: results})
}

// ListVoters returns records newest first with page/limit pagination
func (h *VoterHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 50)
	if limit > 500 {
		limit = 500
	}

	results, err := h.voters.FindAll(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("List failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal, err.Error())
		return
	}
	if results == nil {
		results = []*entity.VoterRecord{}
	}

	writeJSON(w, http.StatusOK, resultsResponse{Success: true, Results: results})
}

// GetVoterByID serves a point lookup. A malformed id is a bad request,
// distinct from a well-formed id that matches nothing.
func (h *VoterHandler) GetVoterByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.voters.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, msgInvalidID, err.Error())
			return
		}
		if errors.Is(err, entity.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound, "NOT_FOUND")
			return
		}
		h.logger.Error("Lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  record,
	})
}

// DeleteAllVoters wipes the store. Idempotent: wiping an empty store
// reports zero deletions.
func (h *VoterHandler) DeleteAllVoters(w http.ResponseWriter, r *http.Request) {
	count, err := h.voters.DeleteAll(r.Context())
	if err != nil {
		h.logger.Error("Delete all failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal, err.Error())
		return
	}

	h.logger.Info("Wiped voter store", "deletedCount", count)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"deletedCount": count,
	})
}

// ListUploads lists recent ingestion batches from the audit trail
func (h *VoterHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		writeError(w, http.StatusServiceUnavailable, msgAuditDisabled, "AUDIT_DISABLED")
		return
	}

	logs, err := h.uploads.FindRecent(r.Context(), queryInt(r, "limit", 20))
	if err != nil {
		h.logger.Error("Upload log listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal, err.Error())
		return
	}
	if logs == nil {
		logs = []*entity.UploadLog{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": logs,
	})
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil && v > 0 {
		return v
	}
	return defaultValue
}
