package api

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
)

// DatasetDependencies defines the interface for dataset upload operations.
type DatasetDependencies interface {
	IngestDataset(ctx context.Context, content []byte) (model.DatasetStatus, error)
	DatasetStatus(ctx context.Context, id string) (model.DatasetStatus, error)
}

// DatasetsHandler handles dataset upload and status requests.
type DatasetsHandler struct {
	deps           DatasetDependencies
	maxUploadBytes int64
}

// NewDatasetsHandler creates a new datasets handler.
func NewDatasetsHandler(deps DatasetDependencies, maxUploadBytes int64) *DatasetsHandler {
	return &DatasetsHandler{
		deps:           deps,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleUpload handles POST /datasets requests. The CSV can arrive as a
// raw body or as the "file" field of a multipart form.
func (h *DatasetsHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload_dataset"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	content, err := h.readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_upload", wrapOp(op, err))
		return
	}

	status, err := h.deps.IngestDataset(r.Context(), content)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}

	// A fingerprint match returns the prior dataset's status instead of
	// re-ingesting.
	if status.State != model.IngestPending {
		writeJSON(w, http.StatusOK, status)
		return
	}
	writeJSON(w, http.StatusAccepted, status)
}

func (h *DatasetsHandler) readUpload(r *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(nil, r.Body, h.maxUploadBytes)
	defer func() { _ = body.Close() }()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()
		return io.ReadAll(file)
	}

	return io.ReadAll(body)
}

// HandleStatus handles GET /datasets/{id} requests.
func (h *DatasetsHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	const op = "api.dataset_status"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/datasets/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, ErrBadRequest))
		return
	}

	status, err := h.deps.DatasetStatus(r.Context(), id)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
