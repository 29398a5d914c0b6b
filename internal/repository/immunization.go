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

const immunizationTableName = "immunization_records"

var immunizationTableColumns = []string{
	"id",
	"user_id",
	"family_member_id",
	"title",
	"date",
	"provider",
	"vaccine",
	"vaccine_type",
	"dose_number",
	"status",
	"next_dose",
	"lot_number",
	"location",
	"notes",
	"thumbnail_url",
	"created_at",
	"updated_at",
}

type ImmunizationRecordRepository interface {
	Insert(ctx context.Context, rec *records.ImmunizationRecord) error
	List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.ImmunizationRecord, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*records.ImmunizationRecord, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type immunizationRecordRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewImmunizationRecordRepository(pool *pgxpool.Pool, logger *slog.Logger) ImmunizationRecordRepository {
	return &immunizationRecordRepo{pool: pool, logger: logger}
}

func (r *immunizationRecordRepo) Insert(ctx context.Context, rec *records.ImmunizationRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	query, args, err := psql().
		Insert(immunizationTableName).
		Columns(immunizationTableColumns...).
		Values(
			rec.ID,
			rec.UserID,
			rec.FamilyMemberID,
			rec.Title,
			rec.Date,
			rec.Provider,
			rec.Vaccine,
			rec.VaccineType,
			rec.DoseNumber,
			rec.Status,
			rec.NextDose,
			rec.LotNumber,
			rec.Location,
			rec.Notes,
			rec.ThumbnailURL,
			rec.CreatedAt,
			rec.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.logger.Error("failed to insert immunization record", "user_id", rec.UserID, "error", err)
		return err
	}
	return nil
}

func (r *immunizationRecordRepo) List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.ImmunizationRecord, error) {
	q := psql().
		Select(immunizationTableColumns...).
		From(immunizationTableName).
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

	var recs []records.ImmunizationRecord
	if err := pgxscan.Select(ctx, r.pool, &recs, query, args...); err != nil {
		r.logger.Error("failed to list immunization records", "user_id", userID, "error", err)
		return nil, err
	}
	return recs, nil
}

func (r *immunizationRecordRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*records.ImmunizationRecord, error) {
	query, args, err := psql().
		Select(immunizationTableColumns...).
		From(immunizationTableName).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rec records.ImmunizationRecord
	if err := pgxscan.Get(ctx, r.pool, &rec, query, args...); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *immunizationRecordRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query, args, err := psql().
		Delete(immunizationTableName).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, args...)
	return err
}
