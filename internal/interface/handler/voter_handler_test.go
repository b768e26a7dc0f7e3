package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voterdata-service/internal/domain/entity"
	"voterdata-service/internal/domain/repository"
	"voterdata-service/internal/infrastructure/config"
	"voterdata-service/pkg/logger"
)

type fakeIngestor struct {
	calls  int
	report *entity.IngestReport
	err    error
}

func (f *fakeIngestor) Ingest(ctx context.Context, data []byte, filename string) (*entity.IngestReport, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type fakeVoterStore struct {
	records     []*entity.VoterRecord
	searchCalls int
}

func (f *fakeVoterStore) BulkInsert(ctx context.Context, records []*entity.VoterRecord) (*repository.BulkOutcome, error) {
	f.records = append(f.records, records...)
	return &repository.BulkOutcome{Inserted: len(records)}, nil
}

func (f *fakeVoterStore) FindByID(ctx context.Context, id string) (*entity.VoterRecord, error) {
	if len(id) != 24 {
		return nil, fmt.Errorf("%w: invalid id %q", entity.ErrBadRequest, id)
	}
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (f *fakeVoterStore) FindAll(ctx context.Context, page, limit int) ([]*entity.VoterRecord, error) {
	return f.records, nil
}

func (f *fakeVoterStore) Search(ctx context.Context, query string) ([]*entity.VoterRecord, error) {
	f.searchCalls++
	return f.records, nil
}

func (f *fakeVoterStore) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(f.records))
	f.records = nil
	return n, nil
}

func testConfig(constrained bool) *config.Config {
	return &config.Config{
		ConstrainedDeploy: constrained,
		MaxFileSizeMB:     25,
	}
}

func newTestHandler(ingest Ingestor, store repository.VoterRepository, cfg *config.Config) *VoterHandler {
	return NewVoterHandler(ingest, store, nil, cfg, logger.NewLogger())
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestUpload_ConstrainedPrecheckRejectsBeforeIngestion(t *testing.T) {
	ingest := &fakeIngestor{}
	h := newTestHandler(ingest, &fakeVoterStore{}, testConfig(true))

	body, contentType := multipartBody(t, "file", "roll.xlsx", []byte("payload"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = 6 * 1024 * 1024 // declared size over the 4.5MB ceiling

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "FUNCTION_PAYLOAD_TOO_LARGE", resp["errorCode"])
	assert.Equal(t, "4.5MB", resp["maxSize"])
	assert.NotEmpty(t, resp["message_mr"])
	// the parser and store were never touched
	assert.Zero(t, ingest.calls)
}

func TestUpload_StreamLimiterRejectsOversizedBody(t *testing.T) {
	ingest := &fakeIngestor{}
	cfg := testConfig(false)
	cfg.MaxFileSizeMB = 1
	h := newTestHandler(ingest, &fakeVoterStore{}, cfg)

	body, contentType := multipartBody(t, "file", "roll.xlsx", bytes.Repeat([]byte("x"), 2*1024*1024))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "LIMIT_FILE_SIZE", resp["errorCode"])
	assert.Equal(t, "1MB", resp["maxSize"])
	assert.Zero(t, ingest.calls)
}

func TestUpload_UnexpectedFileField(t *testing.T) {
	ingest := &fakeIngestor{}
	h := newTestHandler(ingest, &fakeVoterStore{}, testConfig(false))

	body, contentType := multipartBody(t, "document", "roll.xlsx", []byte("payload"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["message"], `"file"`)
	assert.Zero(t, ingest.calls)
}

func TestUpload_Success(t *testing.T) {
	ingest := &fakeIngestor{report: &entity.IngestReport{
		BatchID:        "batch-1",
		TotalRows:      3,
		Inserted:       2,
		SkippedInvalid: 1,
		Failures:       []entity.RowFailure{{Row: 2, Reason: entity.ReasonMissingName}},
	}}
	h := newTestHandler(ingest, &fakeVoterStore{}, testConfig(false))

	body, contentType := multipartBody(t, "file", "roll.xlsx", []byte("workbook bytes"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(3), resp["totalRows"])
	assert.Equal(t, float64(2), resp["inserted"])
	assert.Equal(t, float64(1), resp["skipped"])
	assert.Equal(t, float64(0), resp["failed"])
	assert.Equal(t, 1, ingest.calls)
}

func TestUpload_UnparseableFile(t *testing.T) {
	ingest := &fakeIngestor{err: fmt.Errorf("%w: bad zip", entity.ErrUnparseableFile)}
	h := newTestHandler(ingest, &fakeVoterStore{}, testConfig(false))

	body, contentType := multipartBody(t, "file", "roll.xlsx", []byte("not a workbook"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, false, resp["success"])
}

func TestSearch_EmptyQueryIsBadRequest(t *testing.T) {
	store := &fakeVoterStore{records: []*entity.VoterRecord{{Name: "Jane Doe"}}}
	h := newTestHandler(&fakeIngestor{}, store, testConfig(false))

	for _, target := range []string{"/search", "/search?query=", "/search?query=%20%20"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "target=%s", target)
	}
	// never fell through to an unfiltered search
	assert.Zero(t, store.searchCalls)
}

func TestSearch_ReturnsResults(t *testing.T) {
	store := &fakeVoterStore{records: []*entity.VoterRecord{{Name: "Jane Doe", EpicNo: "ABC123"}}}
	h := newTestHandler(&fakeIngestor{}, store, testConfig(false))

	req := httptest.NewRequest(http.MethodGet, "/search?query=Jane", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, true, resp["success"])
	results := resp["results"].([]interface{})
	require.Len(t, results, 1)
	record := results[0].(map[string]interface{})
	assert.Equal(t, "Jane Doe", record["name"])
	assert.Equal(t, "ABC123", record["EPIC_NO"])
}

func TestGetVoterByID_MalformedVersusAbsent(t *testing.T) {
	store := &fakeVoterStore{}
	h := newTestHandler(&fakeIngestor{}, store, testConfig(false))

	// malformed id
	req := httptest.NewRequest(http.MethodGet, "/not-a-hex-id", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// well-formed but absent
	req = httptest.NewRequest(http.MethodGet, "/5f2a6c9e8d3b4a1f6e7c8d9a", nil)
	rec = httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetVoterByID_Found(t *testing.T) {
	id := "5f2a6c9e8d3b4a1f6e7c8d9a"
	store := &fakeVoterStore{records: []*entity.VoterRecord{{ID: id, Name: "Jane Doe"}}}
	h := newTestHandler(&fakeIngestor{}, store, testConfig(false))

	req := httptest.NewRequest(http.MethodGet, "/"+id, nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	result := resp["result"].(map[string]interface{})
	assert.Equal(t, "Jane Doe", result["name"])
}

func TestDeleteAll_Idempotent(t *testing.T) {
	store := &fakeVoterStore{records: []*entity.VoterRecord{{Name: "a"}, {Name: "b"}, {Name: "c"}}}
	h := newTestHandler(&fakeIngestor{}, store, testConfig(false))

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), decodeBody(t, rec)["deletedCount"])

	// second wipe reports zero, not an error
	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	rec = httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeBody(t, rec)["deletedCount"])
}

func TestListVoters(t *testing.T) {
	store := &fakeVoterStore{records: []*entity.VoterRecord{{Name: "Jane Doe"}}}
	h := newTestHandler(&fakeIngestor{}, store, testConfig(false))

	req := httptest.NewRequest(http.MethodGet, "/?page=1&limit=10", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, true, resp["success"])
	assert.Len(t, resp["results"], 1)
}

func TestListUploads_DisabledWithoutAuditStore(t *testing.T) {
	h := newTestHandler(&fakeIngestor{}, &fakeVoterStore{}, testConfig(false))

	req := httptest.NewRequest(http.MethodGet, "/uploads", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
