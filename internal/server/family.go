package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lumihealth/lumivault/internal/records"
)

type familyMemberRequest struct {
	Name         string  `json:"name"`
	Relationship string  `json:"relationship"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"`
	Gender       *string `json:"gender,omitempty"`
}

func (s *Service) handleListFamily(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}
	recs, err := s.family.List(c.Request().Context(), userID)
	if err != nil {
		return s.httpError(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}

func (s *Service) handleCreateFamilyMember(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}
	var req familyMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Relationship == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and relationship are required")
	}

	rec := records.FamilyMember{
		UserID:       userID,
		Name:         req.Name,
		Relationship: req.Relationship,
		DateOfBirth:  req.DateOfBirth,
		Gender:       req.Gender,
	}
	if err := s.family.Insert(c.Request().Context(), &rec); err != nil {
		return s.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (s *Service) handleDeleteFamilyMember(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := s.family.Delete(c.Request().Context(), userID, id); err != nil {
		return s.httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
