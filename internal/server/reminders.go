package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lumihealth/lumivault/internal/records"
)

type reminderRequest struct {
	FamilyMemberID    *uuid.UUID `json:"family_member_id,omitempty"`
	Title             string     `json:"title"`
	Description       *string    `json:"description,omitempty"`
	ReminderType      string     `json:"reminder_type"`
	ReminderDate      time.Time  `json:"reminder_date"`
	Recurring         bool       `json:"recurring"`
	RecurrencePattern *string    `json:"recurrence_pattern,omitempty"`
	Status            string     `json:"status"`
}

func (s *Service) handleListReminders(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}
	recs, err := s.reminders.List(c.Request().Context(), userID)
	if err != nil {
		return s.httpError(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}

func (s *Service) handleCreateReminder(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}
	var req reminderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if req.ReminderType == "" {
		req.ReminderType = "appointment"
	}
	if req.Status == "" {
		req.Status = "pending"
	}

	rec := records.Reminder{
		UserID:            userID,
		FamilyMemberID:    req.FamilyMemberID,
		Title:             req.Title,
		Description:       req.Description,
		ReminderType:      req.ReminderType,
		ReminderDate:      req.ReminderDate,
		Recurring:         req.Recurring,
		RecurrencePattern: req.RecurrencePattern,
		Status:            req.Status,
	}
	if err := s.reminders.Insert(c.Request().Context(), &rec); err != nil {
		return s.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (s *Service) handleUpdateReminder(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req reminderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rec := records.Reminder{
		ID:                id,
		UserID:            userID,
		FamilyMemberID:    req.FamilyMemberID,
		Title:             req.Title,
		Description:       req.Description,
		ReminderType:      req.ReminderType,
		ReminderDate:      req.ReminderDate,
		Recurring:         req.Recurring,
		RecurrencePattern: req.RecurrencePattern,
		Status:            req.Status,
	}
	if err := s.reminders.Update(c.Request().Context(), &rec); err != nil {
		return s.httpError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Service) handleDeleteReminder(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := s.reminders.Delete(c.Request().Context(), userID, id); err != nil {
		return s.httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
