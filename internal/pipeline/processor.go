// Package pipeline coordinates one upload interaction: acquire text,
// extract fields, hold the candidate for review, and persist on
// confirmation. Steps within one upload are strictly ordered; concurrent
// uploads are independent and share nothing but the backing services.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lumihealth/lumivault/internal/extract"
	"github.com/lumihealth/lumivault/internal/llm"
	"github.com/lumihealth/lumivault/internal/records"
	"github.com/lumihealth/lumivault/internal/review"
)

// BlobStore is the object-store gateway contract the pipeline consumes.
type BlobStore interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	ObjectKey(userID, filename string) string
}

// RecordPersister routes a confirmed candidate to its destination table.
type RecordPersister interface {
	Persist(ctx context.Context, userID uuid.UUID, c llm.Candidate, blobURL string) (records.Category, uuid.UUID, error)
}

type Processor struct {
	Logger    *slog.Logger
	Extractor llm.Extractor
	Store     BlobStore
	Review    *review.Store
	Persister RecordPersister
}

func NewProcessor(logger *slog.Logger, extractor llm.Extractor, store BlobStore, rev *review.Store, persister RecordPersister) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger:    logger,
		Extractor: extractor,
		Store:     store,
		Review:    rev,
		Persister: persister,
	}
}

// BeginUpload validates and stores the file, extracts a candidate, and
// parks it at the review gate. A configuration error (missing model
// credential) or a storage error aborts the upload; extraction failures
// have already degraded to a defaulted candidate by the time they get here.
func (p *Processor) BeginUpload(ctx context.Context, userID uuid.UUID, filename string, size int64, r io.Reader) (*review.PendingUpload, error) {
	ext, err := extract.ValidateFile(filename, size)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, extract.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > extract.MaxFileSize {
		return nil, fmt.Errorf("%w: %d byte ceiling", extract.ErrFileTooLarge, int64(extract.MaxFileSize))
	}

	if err := p.Store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	key := p.Store.ObjectKey(userID.String(), filename)
	blobURL, err := p.Store.Upload(ctx, key, data, extract.ContentType(ext))
	if err != nil {
		return nil, err
	}

	text := extract.Text(filename, data)
	candidate, err := p.Extractor.Extract(ctx, text)
	if err != nil {
		// only configuration errors propagate from the extractor
		return nil, err
	}
	candidate = llm.Normalize(candidate)

	pending := &review.PendingUpload{
		ID:        uuid.NewString(),
		UserID:    userID,
		Candidate: candidate,
		ObjectKey: key,
		BlobURL:   blobURL,
		Filename:  filename,
		CreatedAt: time.Now(),
	}
	p.Review.Put(pending)

	p.Logger.Info("pipeline.upload.pending",
		"upload_id", pending.ID,
		"user_id", userID,
		"record_type", candidate.RecordType,
		"object_key", key,
	)
	return pending, nil
}

// Confirm is the user's approval at the review gate: the candidate becomes
// exactly one durable row and the pending entry is discarded. Confirm is
// single-shot once a row is written; if the insert fails the entry is put
// back (with any edits applied) so the user can retry without re-uploading.
func (p *Processor) Confirm(ctx context.Context, userID uuid.UUID, uploadID string, edited *llm.Candidate) (records.Category, uuid.UUID, error) {
	pending := p.Review.Take(uploadID, userID)
	if pending == nil {
		return "", uuid.Nil, ErrUploadNotFound
	}

	candidate := pending.Candidate
	if edited != nil {
		// the review step lets the user correct extracted fields
		candidate = llm.Normalize(*edited)
	}

	cat, rowID, err := p.Persister.Persist(ctx, userID, candidate, pending.BlobURL)
	if err != nil {
		pending.Candidate = candidate
		p.Review.Put(pending)
		return cat, uuid.Nil, err
	}
	p.Logger.Info("pipeline.upload.persisted", "upload_id", uploadID, "destination", cat, "row_id", rowID)
	return cat, rowID, nil
}

// Cancel discards the candidate without writing a row. The uploaded blob is
// kept; orphans are logged so a future sweep job can reclaim them.
func (p *Processor) Cancel(ctx context.Context, userID uuid.UUID, uploadID string) error {
	pending := p.Review.Take(uploadID, userID)
	if pending == nil {
		return ErrUploadNotFound
	}
	p.Logger.Info("pipeline.upload.cancelled",
		"upload_id", uploadID,
		"user_id", userID,
		"orphaned_object", pending.ObjectKey,
	)
	return nil
}
