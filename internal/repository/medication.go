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

const medicationTableName = "medications"

var medicationTableColumns = []string{
	"id",
	"user_id",
	"family_member_id",
	"name",
	"dosage",
	"frequency",
	"start_date",
	"end_date",
	"prescribed_by",
	"medication_type",
	"status",
	"instructions",
	"refills_remaining",
	"thumbnail_url",
	"created_at",
	"updated_at",
}

type MedicationRepository interface {
	Insert(ctx context.Context, rec *records.MedicationRecord) error
	List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.MedicationRecord, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*records.MedicationRecord, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type medicationRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewMedicationRepository(pool *pgxpool.Pool, logger *slog.Logger) MedicationRepository {
	return &medicationRepo{pool: pool, logger: logger}
}

func (r *medicationRepo) Insert(ctx context.Context, rec *records.MedicationRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	query, args, err := psql().
		Insert(medicationTableName).
		Columns(medicationTableColumns...).
		Values(
			rec.ID,
			rec.UserID,
			rec.FamilyMemberID,
			rec.Name,
			rec.Dosage,
			rec.Frequency,
			rec.StartDate,
			rec.EndDate,
			rec.PrescribedBy,
			rec.MedicationType,
			rec.Status,
			rec.Instructions,
			rec.RefillsRemaining,
			rec.ThumbnailURL,
			rec.CreatedAt,
			rec.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.logger.Error("failed to insert medication", "user_id", rec.UserID, "error", err)
		return err
	}
	return nil
}

func (r *medicationRepo) List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.MedicationRecord, error) {
	q := psql().
		Select(medicationTableColumns...).
		From(medicationTableName).
		Where(squirrel.Eq{"user_id": userID})
	if from != "" {
		q = q.Where(squirrel.GtOrEq{"start_date": from})
	}
	if to != "" {
		q = q.Where(squirrel.LtOrEq{"start_date": to})
	}
	query, args, err := q.OrderBy("start_date DESC").ToSql()
	if err != nil {
		return nil, err
	}

	var recs []records.MedicationRecord
	if err := pgxscan.Select(ctx, r.pool, &recs, query, args...); err != nil {
		r.logger.Error("failed to list medications", "user_id", userID, "error", err)
		return nil, err
	}
	return recs, nil
}

func (r *medicationRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*records.MedicationRecord, error) {
	query, args, err := psql().
		Select(medicationTableColumns...).
		From(medicationTableName).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rec records.MedicationRecord
	if err := pgxscan.Get(ctx, r.pool, &rec, query, args...); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *medicationRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query, args, err := psql().
		Delete(medicationTableName).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, args...)
	return err
}
