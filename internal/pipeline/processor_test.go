package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumihealth/lumivault/internal/llm"
	"github.com/lumihealth/lumivault/internal/records"
	"github.com/lumihealth/lumivault/internal/review"
	"github.com/lumihealth/lumivault/internal/storage"
)

type fakeBlobStore struct {
	ensureErr error
	uploadErr error
	uploads   map[string][]byte
	deleted   []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: make(map[string][]byte)}
}

func (f *fakeBlobStore) EnsureBucket(ctx context.Context) error { return f.ensureErr }

func (f *fakeBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads[key] = data
	return "https://blob/" + key, nil
}

func (f *fakeBlobStore) ObjectKey(userID, filename string) string {
	return fmt.Sprintf("%s/%d_%s", userID, time.Now().UnixMilli(), filename)
}

type fakeExtractor struct {
	candidate llm.Candidate
	err       error
	gotText   string
}

func (f *fakeExtractor) Extract(ctx context.Context, text string) (llm.Candidate, error) {
	f.gotText = text
	return f.candidate, f.err
}

type fakePersister struct {
	calls  int
	gotCan llm.Candidate
	gotURL string
	err    error
}

func (f *fakePersister) Persist(ctx context.Context, userID uuid.UUID, c llm.Candidate, blobURL string) (records.Category, uuid.UUID, error) {
	f.calls++
	f.gotCan = c
	f.gotURL = blobURL
	if f.err != nil {
		return "", uuid.Nil, f.err
	}
	cat, _ := records.ParseCategory(c.RecordType)
	return cat, uuid.New(), nil
}

func newTestProcessor(ex *fakeExtractor, bs *fakeBlobStore, ps *fakePersister) *Processor {
	return NewProcessor(nil, ex, bs, review.NewStore(0), ps)
}

// Happy path: a text document flows through extraction, waits at the review
// gate, and one confirm writes exactly one row.
func TestUploadConfirmWritesOneRow(t *testing.T) {
	bs := newFakeBlobStore()
	ex := &fakeExtractor{candidate: llm.Candidate{
		RecordType: "dental",
		Title:      "Dental Cleaning",
		Date:       "2024-05-01",
		Provider:   "Dr. X",
	}}
	ps := &fakePersister{}
	p := newTestProcessor(ex, bs, ps)
	userID := uuid.New()

	body := "Dental cleaning performed by Dr. X on May 1, 2024."
	pending, err := p.BeginUpload(context.Background(), userID, "visit.txt", int64(len(body)), strings.NewReader(body))
	if err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}
	if ex.gotText != body {
		t.Errorf("txt content not passed verbatim: %q", ex.gotText)
	}
	if ps.calls != 0 {
		t.Fatal("persisted before confirmation")
	}
	if len(bs.uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(bs.uploads))
	}

	cat, rowID, err := p.Confirm(context.Background(), userID, pending.ID, nil)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if cat != records.Dental {
		t.Errorf("destination = %v", cat)
	}
	if rowID == uuid.Nil {
		t.Error("rowID not set")
	}
	if ps.calls != 1 {
		t.Errorf("persist calls = %d, want 1", ps.calls)
	}
	if ps.gotCan.Provider != "Dr. X" {
		t.Errorf("Provider = %q", ps.gotCan.Provider)
	}
	if ps.gotURL != pending.BlobURL {
		t.Errorf("blob URL = %q, want %q", ps.gotURL, pending.BlobURL)
	}

	// confirm is single-shot
	if _, _, err := p.Confirm(context.Background(), userID, pending.ID, nil); !errors.Is(err, ErrUploadNotFound) {
		t.Errorf("second confirm err = %v, want ErrUploadNotFound", err)
	}
}

// Cancelling discards the candidate but keeps the uploaded blob.
func TestCancelWritesNothingKeepsBlob(t *testing.T) {
	bs := newFakeBlobStore()
	ex := &fakeExtractor{candidate: llm.Candidate{
		RecordType: "medical",
		Title:      "Medical Report",
		Date:       "2024-06-15",
	}}
	ps := &fakePersister{}
	p := newTestProcessor(ex, bs, ps)
	userID := uuid.New()

	pending, err := p.BeginUpload(context.Background(), userID, "scan.pdf", 8, strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}
	if err := p.Cancel(context.Background(), userID, pending.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if ps.calls != 0 {
		t.Errorf("persist calls = %d after cancel", ps.calls)
	}
	if _, ok := bs.uploads[pending.ObjectKey]; !ok {
		t.Error("blob removed on cancel; it must stay")
	}
	if err := p.Cancel(context.Background(), userID, pending.ID); !errors.Is(err, ErrUploadNotFound) {
		t.Errorf("second cancel err = %v", err)
	}
}

// An empty record type is defaulted before the review gate, so the pending
// candidate is already normalized.
func TestUploadNormalizesCandidate(t *testing.T) {
	bs := newFakeBlobStore()
	ex := &fakeExtractor{candidate: llm.Candidate{Date: "March 3, 2023"}}
	ps := &fakePersister{}
	p := newTestProcessor(ex, bs, ps)
	userID := uuid.New()

	pending, err := p.BeginUpload(context.Background(), userID, "note.txt", 4, strings.NewReader("text"))
	if err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}
	if pending.Candidate.RecordType != "medical" {
		t.Errorf("RecordType = %q", pending.Candidate.RecordType)
	}
	if pending.Candidate.Title != "Medical Report" {
		t.Errorf("Title = %q", pending.Candidate.Title)
	}
	if pending.Candidate.Date != "2023-03-03" {
		t.Errorf("Date = %q", pending.Candidate.Date)
	}

	cat, _, err := p.Confirm(context.Background(), userID, pending.ID, nil)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if cat != records.Medical {
		t.Errorf("destination = %v, want medical default", cat)
	}
}

func TestConfirmWithEditedCandidate(t *testing.T) {
	bs := newFakeBlobStore()
	ex := &fakeExtractor{candidate: llm.Candidate{RecordType: "medical", Title: "Medical Report", Date: "2024-06-15"}}
	ps := &fakePersister{}
	p := newTestProcessor(ex, bs, ps)
	userID := uuid.New()

	pending, err := p.BeginUpload(context.Background(), userID, "note.txt", 4, strings.NewReader("text"))
	if err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}

	edited := &llm.Candidate{RecordType: "vision", Title: "Eye Exam", Date: "June 1, 2024"}
	cat, _, err := p.Confirm(context.Background(), userID, pending.ID, edited)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if cat != records.Vision {
		t.Errorf("destination = %v", cat)
	}
	// edits are re-normalized before persisting
	if ps.gotCan.Date != "2024-06-01" {
		t.Errorf("edited date not normalized: %q", ps.gotCan.Date)
	}
}

func TestUploadRejectsBadFiles(t *testing.T) {
	p := newTestProcessor(&fakeExtractor{}, newFakeBlobStore(), &fakePersister{})
	userID := uuid.New()

	if _, err := p.BeginUpload(context.Background(), userID, "tool.exe", 10, strings.NewReader("MZ")); err == nil {
		t.Error("exe accepted")
	}
}

func TestUploadConfigErrorAborts(t *testing.T) {
	bs := newFakeBlobStore()
	ex := &fakeExtractor{err: llm.ErrMissingAPIKey}
	p := newTestProcessor(ex, bs, &fakePersister{})
	userID := uuid.New()

	_, err := p.BeginUpload(context.Background(), userID, "note.txt", 4, strings.NewReader("text"))
	if !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
	if p.Review.Len() != 0 {
		t.Error("pending entry created despite config error")
	}
}

func TestUploadStorageErrorAborts(t *testing.T) {
	bs := newFakeBlobStore()
	bs.uploadErr = fmt.Errorf("%w: upload failed with status 500", storage.ErrGateway)
	p := newTestProcessor(&fakeExtractor{}, bs, &fakePersister{})
	userID := uuid.New()

	_, err := p.BeginUpload(context.Background(), userID, "note.txt", 4, strings.NewReader("text"))
	if err == nil {
		t.Fatal("storage error swallowed")
	}
	// the gateway marker must survive the pipeline's wrapping
	if !errors.Is(err, storage.ErrGateway) {
		t.Errorf("err = %v, want ErrGateway wrap", err)
	}
	if p.Review.Len() != 0 {
		t.Error("pending entry created despite storage error")
	}
}

func TestUploadBucketErrorAborts(t *testing.T) {
	bs := newFakeBlobStore()
	bs.ensureErr = fmt.Errorf("%w: bucket create failed with status 500", storage.ErrGateway)
	p := newTestProcessor(&fakeExtractor{}, bs, &fakePersister{})

	_, err := p.BeginUpload(context.Background(), uuid.New(), "note.txt", 4, strings.NewReader("text"))
	if !errors.Is(err, storage.ErrGateway) {
		t.Fatalf("err = %v, want ErrGateway wrap", err)
	}
}

// An insert failure must not consume the reviewed candidate; the user can
// retry the confirmation, edits included, without a second upload.
func TestConfirmRetryAfterPersistFailure(t *testing.T) {
	bs := newFakeBlobStore()
	ex := &fakeExtractor{candidate: llm.Candidate{RecordType: "medical", Title: "Medical Report", Date: "2024-06-15"}}
	ps := &fakePersister{err: errors.New("connection reset")}
	p := newTestProcessor(ex, bs, ps)
	userID := uuid.New()

	pending, err := p.BeginUpload(context.Background(), userID, "note.txt", 4, strings.NewReader("text"))
	if err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}

	edited := &llm.Candidate{RecordType: "dental", Title: "Checkup", Date: "2024-06-15"}
	if _, _, err := p.Confirm(context.Background(), userID, pending.ID, edited); err == nil {
		t.Fatal("expected persist failure")
	}
	if p.Review.Len() != 1 {
		t.Fatalf("pending entry lost after persist failure")
	}

	ps.err = nil
	cat, rowID, err := p.Confirm(context.Background(), userID, pending.ID, nil)
	if err != nil {
		t.Fatalf("retry confirm: %v", err)
	}
	if cat != records.Dental {
		t.Errorf("destination = %v, want dental (edits kept across retry)", cat)
	}
	if rowID == uuid.Nil {
		t.Error("rowID not set on retry")
	}
	if p.Review.Len() != 0 {
		t.Error("entry not consumed after successful retry")
	}
}

func TestConfirmOwnershipEnforced(t *testing.T) {
	bs := newFakeBlobStore()
	ex := &fakeExtractor{candidate: llm.Candidate{RecordType: "medical", Title: "Medical Report", Date: "2024-06-15"}}
	ps := &fakePersister{}
	p := newTestProcessor(ex, bs, ps)
	owner := uuid.New()

	pending, err := p.BeginUpload(context.Background(), owner, "note.txt", 4, strings.NewReader("text"))
	if err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}
	if _, _, err := p.Confirm(context.Background(), uuid.New(), pending.ID, nil); !errors.Is(err, ErrUploadNotFound) {
		t.Fatalf("stranger confirm err = %v", err)
	}
	// owner can still confirm afterwards
	if _, _, err := p.Confirm(context.Background(), owner, pending.ID, nil); err != nil {
		t.Errorf("owner confirm after stranger attempt: %v", err)
	}
}
