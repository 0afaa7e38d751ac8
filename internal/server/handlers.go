package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"captionfix/internal/api"
	"captionfix/internal/archive"
	"captionfix/internal/caption"
	"captionfix/internal/logging"
	"captionfix/internal/services"
)

const (
	uploadField   = "file"
	batchIDHeader = "X-Batch-ID"
	// multipartMemory bounds how much of an upload is buffered in memory
	// before spilling to temp files.
	multipartMemory = 8 << 20
)

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, api.HealthResponse{Status: api.HealthMessage})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := openAPIFor(r)
	if err != nil {
		logging.ErrorWithContext(s.log(), "openapi document unavailable", "openapi_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "rebuild with a valid embedded openapi.json"),
		)
		s.writeError(w, http.StatusInternalServerError, "openapi document unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (s *Server) handleProcessCaptions(w http.ResponseWriter, r *http.Request) {
	batchID := uuid.NewString()
	ctx := services.WithBatchID(r.Context(), batchID)
	logger := logging.WithContext(ctx, s.log())
	w.Header().Set(batchIDHeader, batchID)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeUploadError(w, err)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		s.writeUploadError(w, err)
		return
	}
	defer file.Close()

	uploadName := header.Filename
	if !strings.HasSuffix(uploadName, ".txt") {
		s.writeError(w, http.StatusBadRequest, "Only .txt files are supported.")
		return
	}

	lines, err := caption.ReadLines(file)
	if err != nil {
		s.failBatch(w, r, batchID, uploadName, err)
		return
	}
	batch, err := s.processor.Process(ctx, lines)
	if err != nil {
		s.failBatch(w, r, batchID, uploadName, err)
		return
	}

	ws, err := s.workspaces.Create(batchID)
	if err != nil {
		s.failBatch(w, r, batchID, uploadName, err)
		return
	}
	defer func() { _ = ws.Release() }()

	result, err := archive.Build(ctx, ws, batch.Changes, s.logger)
	if err != nil {
		s.failBatch(w, r, batchID, uploadName, err)
		return
	}

	if s.store != nil {
		if err := s.store.RecordBatch(ctx, batchID, uploadName, batch); err != nil {
			logging.WarnWithContext(logger, "failed to record batch history", "history_record_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check data_dir permissions and disk space"),
				logging.String(logging.FieldImpact, "batch missing from history"),
			)
		}
	}

	s.sendArchive(w, result.Path, result.Size)
	logger.Info("captions processed",
		logging.String("upload", uploadName),
		logging.Int("entries", batch.Entries),
		logging.Int("changed", len(batch.Changes)),
		logging.String(logging.FieldEventType, "batch_completed"),
	)
}

func (s *Server) sendArchive(w http.ResponseWriter, path string, size int64) {
	f, err := os.Open(path)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "archive unavailable")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.FileName))
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		s.log().Warn("archive transfer interrupted",
			logging.Error(err),
			logging.String(logging.FieldEventType, "archive_send_failed"),
		)
	}
}

// failBatch records a rejected batch and writes the mapped error response.
func (s *Server) failBatch(w http.ResponseWriter, r *http.Request, batchID, uploadName string, err error) {
	ctx := services.WithBatchID(r.Context(), batchID)
	logger := logging.WithContext(ctx, s.log())
	status := services.HTTPStatus(err)

	if status >= http.StatusInternalServerError {
		logging.ErrorWithContext(logger, "caption batch failed", "batch_failed",
			logging.String("upload", uploadName),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check work_dir permissions and disk space"),
		)
	} else {
		logger.Info("caption batch rejected",
			logging.String("upload", uploadName),
			logging.Error(err),
			logging.String("kind", services.Kind(err)),
			logging.String(logging.FieldEventType, "batch_rejected"),
		)
	}

	if s.store != nil {
		if recErr := s.store.RecordFailure(ctx, batchID, uploadName, err); recErr != nil {
			logger.Debug("failed to record rejected batch", logging.Error(recErr))
		}
	}

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal error processing captions"
	}
	s.writeError(w, status, message)
}

func (s *Server) writeUploadError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large"):
		s.writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload exceeds the %d byte limit", s.cfg.Server.MaxUploadBytes))
	case errors.Is(err, http.ErrMissingFile):
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("missing %q upload field", uploadField))
	case errors.Is(err, http.ErrNotMultipart):
		s.writeError(w, http.StatusBadRequest, "request must be multipart/form-data")
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid upload: %v", err))
	}
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	limit := api.DefaultListLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	batches, err := s.historySvc.List(r.Context(), limit)
	if err != nil {
		s.writeHistoryError(w, err, "history unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, api.BatchListResponse{Batches: batches})
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		s.writeError(w, http.StatusNotFound, "batch not found")
		return
	}
	detail, err := s.historySvc.Describe(r.Context(), id)
	if err != nil {
		s.writeHistoryError(w, err, "batch not found")
		return
	}
	s.writeJSON(w, http.StatusOK, api.BatchResponse{Batch: *detail})
}

// writeHistoryError maps history lookup failures. Not-found errors use
// notFound as the message; storage failures are logged and reported generically.
func (s *Server) writeHistoryError(w http.ResponseWriter, err error, notFound string) {
	status := services.HTTPStatus(err)
	switch {
	case status == http.StatusNotFound:
		s.writeError(w, status, notFound)
	case status >= http.StatusInternalServerError:
		s.log().Error("history query failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "history_query_failed"),
			logging.String(logging.FieldErrorHint, "check the history database under data_dir"),
		)
		s.writeError(w, status, "history unavailable")
	default:
		s.writeError(w, status, err.Error())
	}
}
