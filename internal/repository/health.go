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

const healthTableName = "health_records"

var healthTableColumns = []string{
	"id",
	"user_id",
	"family_member_id",
	"title",
	"date",
	"provider",
	"record_type",
	"description",
	"notes",
	"document_url",
	"thumbnail_url",
	"created_at",
	"updated_at",
}

type HealthRecordRepository interface {
	Insert(ctx context.Context, rec *records.HealthRecord) error
	List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.HealthRecord, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*records.HealthRecord, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type healthRecordRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewHealthRecordRepository(pool *pgxpool.Pool, logger *slog.Logger) HealthRecordRepository {
	return &healthRecordRepo{pool: pool, logger: logger}
}

func (r *healthRecordRepo) Insert(ctx context.Context, rec *records.HealthRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	query, args, err := psql().
		Insert(healthTableName).
		Columns(healthTableColumns...).
		Values(
			rec.ID,
			rec.UserID,
			rec.FamilyMemberID,
			rec.Title,
			rec.Date,
			rec.Provider,
			rec.RecordType,
			rec.Description,
			rec.Notes,
			rec.DocumentURL,
			rec.ThumbnailURL,
			rec.CreatedAt,
			rec.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.logger.Error("failed to insert health record", "user_id", rec.UserID, "error", err)
		return err
	}
	return nil
}

func (r *healthRecordRepo) List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.HealthRecord, error) {
	q := psql().
		Select(healthTableColumns...).
		From(healthTableName).
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

	var recs []records.HealthRecord
	if err := pgxscan.Select(ctx, r.pool, &recs, query, args...); err != nil {
		r.logger.Error("failed to list health records", "user_id", userID, "error", err)
		return nil, err
	}
	return recs, nil
}

func (r *healthRecordRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*records.HealthRecord, error) {
	query, args, err := psql().
		Select(healthTableColumns...).
		From(healthTableName).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rec records.HealthRecord
	if err := pgxscan.Get(ctx, r.pool, &rec, query, args...); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *healthRecordRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query, args, err := psql().
		Delete(healthTableName).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, args...)
	return err
}
