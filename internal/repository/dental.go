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

const dentalTableName = "dental_records"

var dentalTableColumns = []string{
	"id",
	"user_id",
	"family_member_id",
	"title",
	"date",
	"provider",
	"record_type",
	"findings",
	"thumbnail_url",
	"created_at",
	"updated_at",
}

type DentalRecordRepository interface {
	Insert(ctx context.Context, rec *records.DentalRecord) error
	List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.DentalRecord, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*records.DentalRecord, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type dentalRecordRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewDentalRecordRepository(pool *pgxpool.Pool, logger *slog.Logger) DentalRecordRepository {
	return &dentalRecordRepo{pool: pool, logger: logger}
}

func (r *dentalRecordRepo) Insert(ctx context.Context, rec *records.DentalRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	query, args, err := psql().
		Insert(dentalTableName).
		Columns(dentalTableColumns...).
		Values(
			rec.ID,
			rec.UserID,
			rec.FamilyMemberID,
			rec.Title,
			rec.Date,
			rec.Provider,
			rec.RecordType,
			rec.Findings,
			rec.ThumbnailURL,
			rec.CreatedAt,
			rec.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.logger.Error("failed to insert dental record", "user_id", rec.UserID, "error", err)
		return err
	}
	return nil
}

func (r *dentalRecordRepo) List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.DentalRecord, error) {
	q := psql().
		Select(dentalTableColumns...).
		From(dentalTableName).
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

	var recs []records.DentalRecord
	if err := pgxscan.Select(ctx, r.pool, &recs, query, args...); err != nil {
		r.logger.Error("failed to list dental records", "user_id", userID, "error", err)
		return nil, err
	}
	return recs, nil
}

func (r *dentalRecordRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*records.DentalRecord, error) {
	query, args, err := psql().
		Select(dentalTableColumns...).
		From(dentalTableName).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rec records.DentalRecord
	if err := pgxscan.Get(ctx, r.pool, &rec, query, args...); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *dentalRecordRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query, args, err := psql().
		Delete(dentalTableName).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, args...)
	return err
}
