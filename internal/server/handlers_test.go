package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"captionfix/internal/api"
	"captionfix/internal/config"
	"captionfix/internal/history"
	"captionfix/internal/logging"
	"captionfix/internal/testsupport"
)

func newTestServer(t *testing.T, opts ...testsupport.ConfigOption) (*Server, *history.Store, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	var store *history.Store
	if cfg.History.Enabled {
		store = testsupport.MustOpenHistory(t, cfg)
	}
	srv, err := New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv, store, cfg
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/process_captions", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

func unzip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	files := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		files[f.Name] = string(content)
	}
	return files
}

func TestHandleRoot(t *testing.T) {
	srv, _, _ := newTestServer(t, testsupport.WithAPIToken("secret"))

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp api.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "API is working!" {
		t.Fatalf("unexpected status %q", resp.Status)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected request id header")
	}
}

func TestProcessCaptionsReturnsArchive(t *testing.T) {
	srv, store, cfg := newTestServer(t)

	req := uploadRequest(t, "file", "captions.txt", testsupport.CaptionText(testsupport.SampleCaptions...))
	rec := serve(srv, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "processed_captions.zip") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	batchID := rec.Header().Get(batchIDHeader)
	if batchID == "" {
		t.Fatal("expected batch id header")
	}

	files := unzip(t, rec.Body.Bytes())
	if len(files) != 3 {
		t.Fatalf("expected 3 archive entries, got %v", files)
	}
	if files["img1.txt"] != "cat, a cat, sitting on the left" {
		t.Fatalf("unexpected img1.txt %q", files["img1.txt"])
	}
	if files["img2.txt"] != "cat, dog running in the middle" {
		t.Fatalf("unexpected img2.txt %q", files["img2.txt"])
	}
	if !strings.HasPrefix(files["updated_captions.txt"], "File: img1.txt\nOriginal: a cat, that is sitting on left\n") {
		t.Fatalf("unexpected change log:\n%s", files["updated_captions.txt"])
	}

	recorded, err := store.Get(req.Context(), batchID)
	if err != nil {
		t.Fatalf("history Get: %v", err)
	}
	if recorded.Status != history.StatusCompleted || recorded.ChangeCount != 2 || recorded.EntryCount != 4 {
		t.Fatalf("unexpected recorded batch %+v", recorded)
	}
	if recorded.UploadName != "captions.txt" || recorded.Trigger != "cat" {
		t.Fatalf("unexpected recorded metadata %+v", recorded)
	}

	entries, err := os.ReadDir(cfg.Paths.WorkDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected workspace released, found %d entries", len(entries))
	}
}

func TestProcessCaptionsAppliesConfiguredReplacements(t *testing.T) {
	srv, _, _ := newTestServer(t, testsupport.WithReplacement("branches that are growing upwards", "upward growing branches"))

	content := testsupport.CaptionText(
		"a.txt: tree, branches that are growing upwards",
		"b.txt: tree, leaves",
	)
	rec := serve(srv, uploadRequest(t, "file", "captions.txt", content))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	files := unzip(t, rec.Body.Bytes())
	if files["a.txt"] != "tree, upward growing branches" {
		t.Fatalf("unexpected a.txt %q", files["a.txt"])
	}
	if _, ok := files["b.txt"]; ok {
		t.Fatal("unchanged caption must not be archived")
	}
}

func TestProcessCaptionsRejectsUploads(t *testing.T) {
	tests := []struct {
		name    string
		req     func(t *testing.T) *http.Request
		status  int
		message string
	}{
		{
			name:    "wrong extension",
			req:     func(t *testing.T) *http.Request { return uploadRequest(t, "file", "captions.csv", "a.txt: cat, x\n") },
			status:  http.StatusBadRequest,
			message: "Only .txt files are supported.",
		},
		{
			name:    "missing field",
			req:     func(t *testing.T) *http.Request { return uploadRequest(t, "upload", "captions.txt", "a.txt: cat, x\n") },
			status:  http.StatusBadRequest,
			message: `missing "file" upload field`,
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/process_captions", strings.NewReader("a.txt: cat"))
				req.Header.Set("Content-Type", "text/plain")
				return req
			},
			status:  http.StatusBadRequest,
			message: "request must be multipart/form-data",
		},
		{
			name:    "malformed line",
			req:     func(t *testing.T) *http.Request { return uploadRequest(t, "file", "captions.txt", "a.txt: cat, x\nno_colon_here\n") },
			status:  http.StatusBadRequest,
			message: "invalid line format (line 2): no_colon_here",
		},
		{
			name:    "invalid utf-8",
			req:     func(t *testing.T) *http.Request { return uploadRequest(t, "file", "captions.txt", "a.txt: cat, \xff\xfe\n") },
			status:  http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, cfg := newTestServer(t)
			rec := serve(srv, tt.req(t))
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			msg := decodeError(t, rec)
			if tt.message != "" && msg != tt.message {
				t.Fatalf("unexpected error %q, want %q", msg, tt.message)
			}
			entries, err := os.ReadDir(cfg.Paths.WorkDir)
			if err != nil {
				t.Fatalf("read work dir: %v", err)
			}
			if len(entries) != 0 {
				t.Fatalf("rejected batch must not leave a workspace, found %d", len(entries))
			}
		})
	}
}

func TestProcessCaptionsRecordsRejectedBatch(t *testing.T) {
	srv, store, _ := newTestServer(t)
	req := uploadRequest(t, "file", "captions.txt", "no_colon_here\n")
	rec := serve(srv, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	recorded, err := store.Get(req.Context(), rec.Header().Get(batchIDHeader))
	if err != nil {
		t.Fatalf("history Get: %v", err)
	}
	if recorded.Status != history.StatusFailed || !strings.Contains(recorded.ErrorMessage, "no_colon_here") {
		t.Fatalf("unexpected failed record %+v", recorded)
	}
}

func TestProcessCaptionsMissingTriggerPolicy(t *testing.T) {
	content := testsupport.CaptionText("a.txt: dog in middle", "b.txt: bird")

	skip, _, _ := newTestServer(t)
	rec := serve(skip, uploadRequest(t, "file", "captions.txt", content))
	if rec.Code != http.StatusOK {
		t.Fatalf("skip policy: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	files := unzip(t, rec.Body.Bytes())
	if files["a.txt"] != "dog in the middle" {
		t.Fatalf("unexpected a.txt %q", files["a.txt"])
	}

	strict, _, _ := newTestServer(t, testsupport.WithMissingTrigger("error"))
	rec = serve(strict, uploadRequest(t, "file", "captions.txt", content))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("error policy: expected 400, got %d", rec.Code)
	}
}

func TestProcessCaptionsTooLarge(t *testing.T) {
	srv, _, _ := newTestServer(t, testsupport.WithMaxUploadBytes(512))
	content := strings.Repeat("a.txt: cat, a long caption line\n", 100)
	rec := serve(srv, uploadRequest(t, "file", "captions.txt", content))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthRequired(t *testing.T) {
	srv, _, _ := newTestServer(t, testsupport.WithAPIToken("secret"))

	rec := serve(srv, uploadRequest(t, "file", "captions.txt", testsupport.CaptionText(testsupport.SampleCaptions...)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := uploadRequest(t, "file", "captions.txt", testsupport.CaptionText(testsupport.SampleCaptions...))
	req.Header.Set("Authorization", "Bearer wrong")
	if rec := serve(srv, req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong token, got %d", rec.Code)
	}

	req = uploadRequest(t, "file", "captions.txt", testsupport.CaptionText(testsupport.SampleCaptions...))
	req.Header.Set("Authorization", "Bearer secret")
	if rec := serve(srv, req); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}

func TestHandleOpenAPI(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var doc struct {
		Info struct {
			Title       string `json:"title"`
			Version     string `json:"version"`
			Description string `json:"description"`
		} `json:"info"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode openapi: %v", err)
	}
	if doc.Info.Title != "Caption Editor API" || doc.Info.Version != "1.0" || doc.Info.Description != "API for processing captions" {
		t.Fatalf("unexpected info %+v", doc.Info)
	}
	for _, path := range []string{"/", "/process_captions", "/api/batches", "/api/batches/{id}"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("openapi missing path %s", path)
		}
	}
	if len(doc.Servers) != 1 || doc.Servers[0].URL != "http://example.com" {
		t.Fatalf("unexpected servers %+v", doc.Servers)
	}

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = serve(srv, req)
	if !strings.Contains(rec.Body.String(), `"url":"https://example.com"`) {
		t.Fatalf("expected forwarded scheme in servers, got %s", rec.Body.String())
	}
}

func TestBatchHistoryEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)

	first := serve(srv, uploadRequest(t, "file", "captions.txt", testsupport.CaptionText(testsupport.SampleCaptions...)))
	if first.Code != http.StatusOK {
		t.Fatalf("process: %d", first.Code)
	}
	batchID := first.Header().Get(batchIDHeader)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/batches?limit=10", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var list api.BatchListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Batches) != 1 || list.Batches[0].ID != batchID {
		t.Fatalf("unexpected list %+v", list.Batches)
	}

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/api/batches/"+batchID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	var detail api.BatchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	var files []string
	for _, c := range detail.Batch.Changes {
		files = append(files, c.FileName)
	}
	if diff := cmp.Diff([]string{"img1.txt", "img2.txt"}, files); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/api/batches/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown batch: expected 404, got %d", rec.Code)
	}

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/api/batches?limit=zero", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: expected 400, got %d", rec.Code)
	}
}

func TestBatchHistoryDisabled(t *testing.T) {
	srv, _, _ := newTestServer(t, testsupport.WithHistoryDisabled())

	if rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/batches", nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("list: expected 404, got %d", rec.Code)
	}
	if rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/batches/x", nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("get: expected 404, got %d", rec.Code)
	}
	rec := serve(srv, uploadRequest(t, "file", "captions.txt", testsupport.CaptionText(testsupport.SampleCaptions...)))
	if rec.Code != http.StatusOK {
		t.Fatalf("processing must work without history, got %d", rec.Code)
	}
}
