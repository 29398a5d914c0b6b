package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/lumihealth/lumivault/internal/llm"
	"github.com/lumihealth/lumivault/internal/pipeline"
	"github.com/lumihealth/lumivault/internal/records"
	"github.com/lumihealth/lumivault/internal/review"
	"github.com/lumihealth/lumivault/internal/storage"
)

type stubBlobStore struct{}

func (stubBlobStore) EnsureBucket(ctx context.Context) error { return nil }

func (stubBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return "https://blob/" + key, nil
}

func (stubBlobStore) ObjectKey(userID, filename string) string {
	return userID + "/" + filename
}

type stubExtractor struct {
	candidate llm.Candidate
	err       error
}

func (s stubExtractor) Extract(ctx context.Context, text string) (llm.Candidate, error) {
	return s.candidate, s.err
}

type stubPersister struct {
	calls int
}

func (s *stubPersister) Persist(ctx context.Context, userID uuid.UUID, c llm.Candidate, blobURL string) (records.Category, uuid.UUID, error) {
	s.calls++
	cat, _ := records.ParseCategory(c.RecordType)
	return cat, uuid.New(), nil
}

func newTestServer(ex llm.Extractor, ps pipeline.RecordPersister) *Service {
	proc := pipeline.NewProcessor(nil, ex, stubBlobStore{}, review.NewStore(0), ps)
	return New(Deps{Processor: proc})
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fmt.Fprint(fw, content)
	w.Close()
	return buf, w.FormDataContentType()
}

func TestUploadConfirmFlow(t *testing.T) {
	ps := &stubPersister{}
	srv := newTestServer(stubExtractor{candidate: llm.Candidate{
		RecordType: "dental",
		Title:      "Dental Cleaning",
		Date:       "2024-05-01",
	}}, ps)

	body, ctype := multipartBody(t, "visit.txt", "cleaning notes")
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body)
	}
	var up uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &up); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if up.Candidate.RecordType != "dental" {
		t.Errorf("candidate = %+v", up.Candidate)
	}

	// pending upload is visible before confirmation
	req = httptest.NewRequest(http.MethodGet, "/api/uploads/"+up.UploadID, nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get upload status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/uploads/"+up.UploadID+"/confirm", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("confirm status = %d: %s", rec.Code, rec.Body)
	}
	var conf confirmResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &conf); err != nil {
		t.Fatalf("decode confirm response: %v", err)
	}
	if conf.Destination != "dental" {
		t.Errorf("destination = %q", conf.Destination)
	}
	if ps.calls != 1 {
		t.Errorf("persist calls = %d", ps.calls)
	}

	// single-shot: confirming again is a 404
	req = httptest.NewRequest(http.MethodPost, "/api/uploads/"+up.UploadID+"/confirm", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second confirm status = %d", rec.Code)
	}
}

func TestUploadCancelFlow(t *testing.T) {
	ps := &stubPersister{}
	srv := newTestServer(stubExtractor{candidate: llm.Candidate{
		RecordType: "medical", Title: "Medical Report", Date: "2024-06-15",
	}}, ps)

	body, ctype := multipartBody(t, "note.txt", "some text")
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("upload status = %d", rec.Code)
	}
	var up uploadResponse
	json.Unmarshal(rec.Body.Bytes(), &up)

	req = httptest.NewRequest(http.MethodPost, "/api/uploads/"+up.UploadID+"/cancel", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("cancel status = %d", rec.Code)
	}
	if ps.calls != 0 {
		t.Errorf("persist calls = %d after cancel", ps.calls)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	srv := newTestServer(stubExtractor{}, &stubPersister{})

	body, ctype := multipartBody(t, "tool.exe", "MZ")
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

type failingBlobStore struct{ stubBlobStore }

func (failingBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return "", fmt.Errorf("%w: upload failed with status 500", storage.ErrGateway)
}

func TestUploadStorageFailureIs502(t *testing.T) {
	proc := pipeline.NewProcessor(nil, stubExtractor{}, failingBlobStore{}, review.NewStore(0), &stubPersister{})
	srv := New(Deps{Processor: proc})

	body, ctype := multipartBody(t, "note.txt", "text")
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestUploadMissingKeyIs503(t *testing.T) {
	srv := newTestServer(stubExtractor{err: llm.ErrMissingAPIKey}, &stubPersister{})

	body, ctype := multipartBody(t, "note.txt", "text")
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestUserIDHeader(t *testing.T) {
	srv := newTestServer(stubExtractor{candidate: llm.Candidate{
		RecordType: "medical", Title: "Medical Report", Date: "2024-06-15",
	}}, &stubPersister{})
	owner := uuid.New()

	body, ctype := multipartBody(t, "note.txt", "text")
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("X-User-ID", owner.String())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("upload status = %d", rec.Code)
	}
	var up uploadResponse
	json.Unmarshal(rec.Body.Bytes(), &up)

	// another identity cannot see the pending upload
	req = httptest.NewRequest(http.MethodGet, "/api/uploads/"+up.UploadID, nil)
	req.Header.Set("X-User-ID", uuid.NewString())
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-user get status = %d, want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/uploads/"+up.UploadID, nil)
	req.Header.Set("X-User-ID", "not-a-uuid")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad header status = %d, want 400", rec.Code)
	}
}

func TestAssistantEndpoint(t *testing.T) {
	srv := newTestServer(stubExtractor{}, &stubPersister{})

	req := httptest.NewRequest(http.MethodPost, "/api/assistant", bytes.NewReader([]byte(`{"message":"am I due for a vaccine?"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp assistantResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply == "" {
		t.Error("empty reply")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/assistant", bytes.NewReader([]byte(`{"message":""}`)))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty message status = %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(stubExtractor{}, &stubPersister{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
