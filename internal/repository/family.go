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

const familyTableName = "family_members"

var familyTableColumns = []string{
	"id",
	"user_id",
	"name",
	"relationship",
	"date_of_birth",
	"gender",
	"created_at",
	"updated_at",
}

type FamilyMemberRepository interface {
	Insert(ctx context.Context, rec *records.FamilyMember) error
	List(ctx context.Context, userID uuid.UUID) ([]records.FamilyMember, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type familyMemberRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewFamilyMemberRepository(pool *pgxpool.Pool, logger *slog.Logger) FamilyMemberRepository {
	return &familyMemberRepo{pool: pool, logger: logger}
}

func (r *familyMemberRepo) Insert(ctx context.Context, rec *records.FamilyMember) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	query, args, err := psql().
		Insert(familyTableName).
		Columns(familyTableColumns...).
		Values(
			rec.ID,
			rec.UserID,
			rec.Name,
			rec.Relationship,
			rec.DateOfBirth,
			rec.Gender,
			rec.CreatedAt,
			rec.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.logger.Error("failed to insert family member", "user_id", rec.UserID, "error", err)
		return err
	}
	return nil
}

func (r *familyMemberRepo) List(ctx context.Context, userID uuid.UUID) ([]records.FamilyMember, error) {
	query, args, err := psql().
		Select(familyTableColumns...).
		From(familyTableName).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var recs []records.FamilyMember
	if err := pgxscan.Select(ctx, r.pool, &recs, query, args...); err != nil {
		r.logger.Error("failed to list family members", "user_id", userID, "error", err)
		return nil, err
	}
	return recs, nil
}

func (r *familyMemberRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query, args, err := psql().
		Delete(familyTableName).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, args...)
	return err
}
