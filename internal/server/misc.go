package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lumihealth/lumivault/internal/assistant"
	"github.com/lumihealth/lumivault/internal/insights"
)

type assistantRequest struct {
	Message string `json:"message"`
}

type assistantResponse struct {
	Reply string `json:"reply"`
}

func (s *Service) handleAssistant(c echo.Context) error {
	var req assistantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}
	return c.JSON(http.StatusOK, assistantResponse{Reply: assistant.Respond(req.Message)})
}

func (s *Service) handleInsights(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	reminders, err := s.reminders.List(ctx, userID)
	if err != nil {
		return s.httpError(c, err)
	}
	medications, err := s.medications.List(ctx, userID, "", "")
	if err != nil {
		return s.httpError(c, err)
	}
	immunizations, err := s.immunizations.List(ctx, userID, "", "")
	if err != nil {
		return s.httpError(c, err)
	}
	dental, err := s.dental.List(ctx, userID, "", "")
	if err != nil {
		return s.httpError(c, err)
	}
	vision, err := s.vision.List(ctx, userID, "", "")
	if err != nil {
		return s.httpError(c, err)
	}

	out := insights.Evaluate(time.Now(), reminders, medications, immunizations, dental, vision)
	if out == nil {
		out = []insights.Insight{}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Service) handleExport(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}
	data, err := s.exporter.ExportXLSX(c.Request().Context(), userID, c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return s.httpError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="health-records.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
