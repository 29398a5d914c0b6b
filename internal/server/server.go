// Package server exposes the upload pipeline and the record CRUD surface
// over HTTP for the browser UI.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lumihealth/lumivault/internal/export"
	"github.com/lumihealth/lumivault/internal/llm"
	"github.com/lumihealth/lumivault/internal/pipeline"
	"github.com/lumihealth/lumivault/internal/repository"
	"github.com/lumihealth/lumivault/internal/storage"
)

// DemoUserID is the fallback identity when no X-User-ID header is sent.
// Resolved once at the edge; everything below receives the user explicitly.
var DemoUserID = uuid.MustParse("00000000-0000-0000-0000-000000000000")

type Service struct {
	logger    *slog.Logger
	echo      *echo.Echo
	processor *pipeline.Processor
	storage   *storage.Client
	exporter  *export.Service

	health        repository.HealthRecordRepository
	dental        repository.DentalRecordRepository
	vision        repository.VisionRecordRepository
	immunizations repository.ImmunizationRecordRepository
	medications   repository.MedicationRepository
	reminders     repository.ReminderRepository
	family        repository.FamilyMemberRepository
}

type Deps struct {
	Logger        *slog.Logger
	Processor     *pipeline.Processor
	Storage       *storage.Client
	Exporter      *export.Service
	Health        repository.HealthRecordRepository
	Dental        repository.DentalRecordRepository
	Vision        repository.VisionRecordRepository
	Immunizations repository.ImmunizationRecordRepository
	Medications   repository.MedicationRepository
	Reminders     repository.ReminderRepository
	Family        repository.FamilyMemberRepository
}

func New(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	s := &Service{
		logger:        deps.Logger,
		echo:          e,
		processor:     deps.Processor,
		storage:       deps.Storage,
		exporter:      deps.Exporter,
		health:        deps.Health,
		dental:        deps.Dental,
		vision:        deps.Vision,
		immunizations: deps.Immunizations,
		medications:   deps.Medications,
		reminders:     deps.Reminders,
		family:        deps.Family,
	}
	s.routes()
	return s
}

func (s *Service) routes() {
	e := s.echo
	e.GET("/healthz", s.handleHealthz)

	api := e.Group("/api")
	api.POST("/uploads", s.handleBeginUpload)
	api.GET("/uploads/:id", s.handleGetUpload)
	api.POST("/uploads/:id/confirm", s.handleConfirmUpload)
	api.POST("/uploads/:id/cancel", s.handleCancelUpload)

	api.GET("/records/:category", s.handleListRecords)
	api.DELETE("/records/:category/:id", s.handleDeleteRecord)

	api.GET("/reminders", s.handleListReminders)
	api.POST("/reminders", s.handleCreateReminder)
	api.PUT("/reminders/:id", s.handleUpdateReminder)
	api.DELETE("/reminders/:id", s.handleDeleteReminder)

	api.GET("/family", s.handleListFamily)
	api.POST("/family", s.handleCreateFamilyMember)
	api.DELETE("/family/:id", s.handleDeleteFamilyMember)

	api.POST("/assistant", s.handleAssistant)
	api.GET("/insights", s.handleInsights)
	api.GET("/export", s.handleExport)
}

func (s *Service) Start(port uint) error {
	return s.echo.Start(fmt.Sprintf(":%d", port))
}

func (s *Service) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Service) Handler() http.Handler {
	return s.echo
}

func (s *Service) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// userID resolves the caller's identity from the X-User-ID header, falling
// back to the demo user when absent.
func (s *Service) userID(c echo.Context) (uuid.UUID, error) {
	raw := c.Request().Header.Get("X-User-ID")
	if raw == "" {
		return DemoUserID, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid X-User-ID header")
	}
	return id, nil
}

// httpError maps pipeline failures to the error taxonomy: configuration
// errors 503, storage errors 502, unknown uploads 404, everything else 500.
func (s *Service) httpError(c echo.Context, err error) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return err
	case errors.Is(err, llm.ErrMissingAPIKey):
		s.logger.Error("request.config_error", "path", c.Path(), "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "document analysis is not configured")
	case errors.Is(err, pipeline.ErrUploadNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "upload not found")
	default:
		s.logger.Error("request.failed", "path", c.Path(), "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
