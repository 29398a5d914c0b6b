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

const reminderTableName = "reminders"

var reminderTableColumns = []string{
	"id",
	"user_id",
	"family_member_id",
	"title",
	"description",
	"reminder_type",
	"reminder_date",
	"recurring",
	"recurrence_pattern",
	"status",
	"created_at",
	"updated_at",
}

type ReminderRepository interface {
	Insert(ctx context.Context, rec *records.Reminder) error
	List(ctx context.Context, userID uuid.UUID) ([]records.Reminder, error)
	Update(ctx context.Context, rec *records.Reminder) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type reminderRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewReminderRepository(pool *pgxpool.Pool, logger *slog.Logger) ReminderRepository {
	return &reminderRepo{pool: pool, logger: logger}
}

func (r *reminderRepo) Insert(ctx context.Context, rec *records.Reminder) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	query, args, err := psql().
		Insert(reminderTableName).
		Columns(reminderTableColumns...).
		Values(
			rec.ID,
			rec.UserID,
			rec.FamilyMemberID,
			rec.Title,
			rec.Description,
			rec.ReminderType,
			rec.ReminderDate,
			rec.Recurring,
			rec.RecurrencePattern,
			rec.Status,
			rec.CreatedAt,
			rec.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.logger.Error("failed to insert reminder", "user_id", rec.UserID, "error", err)
		return err
	}
	return nil
}

func (r *reminderRepo) List(ctx context.Context, userID uuid.UUID) ([]records.Reminder, error) {
	query, args, err := psql().
		Select(reminderTableColumns...).
		From(reminderTableName).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("reminder_date ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var recs []records.Reminder
	if err := pgxscan.Select(ctx, r.pool, &recs, query, args...); err != nil {
		r.logger.Error("failed to list reminders", "user_id", userID, "error", err)
		return nil, err
	}
	return recs, nil
}

func (r *reminderRepo) Update(ctx context.Context, rec *records.Reminder) error {
	rec.UpdatedAt = time.Now().UTC()

	query, args, err := psql().
		Update(reminderTableName).
		Set("title", rec.Title).
		Set("description", rec.Description).
		Set("reminder_type", rec.ReminderType).
		Set("reminder_date", rec.ReminderDate).
		Set("recurring", rec.Recurring).
		Set("recurrence_pattern", rec.RecurrencePattern).
		Set("status", rec.Status).
		Set("updated_at", rec.UpdatedAt).
		Where(squirrel.Eq{"id": rec.ID, "user_id": rec.UserID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, args...)
	return err
}

func (r *reminderRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query, args, err := psql().
		Delete(reminderTableName).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, args...)
	return err
}
