package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lumihealth/lumivault/internal/extract"
	"github.com/lumihealth/lumivault/internal/llm"
	"github.com/lumihealth/lumivault/internal/review"
	"github.com/lumihealth/lumivault/internal/storage"
)

type uploadResponse struct {
	UploadID  string        `json:"upload_id"`
	Filename  string        `json:"filename"`
	BlobURL   string        `json:"blob_url"`
	Candidate llm.Candidate `json:"candidate"`
}

type confirmRequest struct {
	Candidate *llm.Candidate `json:"candidate,omitempty"`
}

type confirmResponse struct {
	Destination string `json:"destination"`
	RecordID    string `json:"record_id"`
}

// handleBeginUpload runs the pipeline up to the review gate and returns the
// extracted candidate for the user to inspect.
func (s *Service) handleBeginUpload(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart field 'file' is required")
	}
	f, err := fh.Open()
	if err != nil {
		return s.httpError(c, err)
	}
	defer f.Close()

	pending, err := s.processor.BeginUpload(c.Request().Context(), userID, fh.Filename, fh.Size, f)
	if err != nil {
		return s.uploadError(c, err)
	}
	return c.JSON(http.StatusAccepted, toUploadResponse(pending))
}

func (s *Service) handleGetUpload(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}
	pending := s.processor.Review.Get(c.Param("id"), userID)
	if pending == nil {
		return echo.NewHTTPError(http.StatusNotFound, "upload not found")
	}
	return c.JSON(http.StatusOK, toUploadResponse(pending))
}

func (s *Service) handleConfirmUpload(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}

	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	dest, rowID, err := s.processor.Confirm(c.Request().Context(), userID, c.Param("id"), req.Candidate)
	if err != nil {
		return s.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, confirmResponse{
		Destination: string(dest),
		RecordID:    rowID.String(),
	})
}

func (s *Service) handleCancelUpload(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}
	if err := s.processor.Cancel(c.Request().Context(), userID, c.Param("id")); err != nil {
		return s.httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// uploadError distinguishes client mistakes (bad extension, oversize) from
// configuration and storage failures.
func (s *Service) uploadError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFile), errors.Is(err, extract.ErrFileTooLarge):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrGateway):
		s.logger.Error("request.storage_error", "path", c.Path(), "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "document storage failed")
	default:
		return s.httpError(c, err)
	}
}

func toUploadResponse(p *review.PendingUpload) uploadResponse {
	return uploadResponse{
		UploadID:  p.ID,
		Filename:  p.Filename,
		BlobURL:   p.BlobURL,
		Candidate: p.Candidate,
	}
}
