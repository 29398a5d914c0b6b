package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumihealth/lumivault/internal/records"
)

const visionTableName = "vision_records"

var visionTableColumns = []string{
	"id",
	"user_id",
	"family_member_id",
	"title",
	"date",
	"provider",
	"record_type",
	"prescription_details",
	"contact_lens_details",
	"thumbnail_url",
	"created_at",
	"updated_at",
}

type VisionRecordRepository interface {
	Insert(ctx context.Context, rec *records.VisionRecord) error
	List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.VisionRecord, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*records.VisionRecord, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type visionRecordRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewVisionRecordRepository(pool *pgxpool.Pool, logger *slog.Logger) VisionRecordRepository {
	return &visionRecordRepo{pool: pool, logger: logger}
}

func (r *visionRecordRepo) Insert(ctx context.Context, rec *records.VisionRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	query, args, err := psql().
		Insert(visionTableName).
		Columns(visionTableColumns...).
		Values(
			rec.ID,
			rec.UserID,
			rec.FamilyMemberID,
			rec.Title,
			rec.Date,
			rec.Provider,
			rec.RecordType,
			rec.PrescriptionDetail,
			rec.ContactLensDetail,
			rec.ThumbnailURL,
			rec.CreatedAt,
			rec.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.logger.Error("failed to insert vision record", "user_id", rec.UserID, "error", err)
		return err
	}
	return nil
}

func (r *visionRecordRepo) List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.VisionRecord, error) {
	q := psql().
		Select(visionTableColumns...).
		From(visionTableName).
		Where(squirrel.Eq{"user_id": userID})
	if from != "" {
		q = q.Where(squirrel.GtOrEq{"date": from})
	}
	if to != "" {
		q = q.Where(squirrel.LtOrEq{"date": to})
	}
	query, args, err := q.OrderBy("date DESC").ToSql()
	if err != nil {
		return nil, err
	}

	var recs []records.VisionRecord
	if err := pgxscan.Select(ctx, r.pool, &recs, query, args...); err != nil {
		r.logger.Error("failed to list vision records", "user_id", userID, "error", err)
		return nil, err
	}
	return recs, nil
}

func (r *visionRecordRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*records.VisionRecord, error) {
	query, args, err := psql().
		Select(visionTableColumns...).
		From(visionTableName).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rec records.VisionRecord
	if err := pgxscan.Get(ctx, r.pool, &rec, query, args...); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *visionRecordRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query, args, err := psql().
		Delete(visionTableName).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, args...)
	return err
}
