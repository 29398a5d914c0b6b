package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lumihealth/lumivault/internal/records"
)

// handleListRecords serves /api/records/:category with optional from/to
// date bounds (inclusive, YYYY-MM-DD).
func (s *Service) handleListRecords(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}
	cat, ok := records.ParseCategory(c.Param("category"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown record category")
	}
	from := c.QueryParam("from")
	to := c.QueryParam("to")
	ctx := c.Request().Context()

	switch cat {
	case records.Dental:
		recs, err := s.dental.List(ctx, userID, from, to)
		if err != nil {
			return s.httpError(c, err)
		}
		return c.JSON(http.StatusOK, recs)
	case records.Vision:
		recs, err := s.vision.List(ctx, userID, from, to)
		if err != nil {
			return s.httpError(c, err)
		}
		return c.JSON(http.StatusOK, recs)
	case records.Immunization:
		recs, err := s.immunizations.List(ctx, userID, from, to)
		if err != nil {
			return s.httpError(c, err)
		}
		return c.JSON(http.StatusOK, recs)
	case records.Medication:
		recs, err := s.medications.List(ctx, userID, from, to)
		if err != nil {
			return s.httpError(c, err)
		}
		return c.JSON(http.StatusOK, recs)
	default:
		recs, err := s.health.List(ctx, userID, from, to)
		if err != nil {
			return s.httpError(c, err)
		}
		return c.JSON(http.StatusOK, recs)
	}
}

// handleDeleteRecord removes the row and, when the record carries a document
// URL from our bucket, the stored blob as well. A blob that fails to delete
// is logged and left behind rather than failing the request.
func (s *Service) handleDeleteRecord(c echo.Context) error {
	userID, err := s.userID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	cat, ok := records.ParseCategory(c.Param("category"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown record category")
	}
	ctx := c.Request().Context()

	var blobURL string
	switch cat {
	case records.Dental:
		rec, err := s.dental.GetByID(ctx, userID, id)
		if err != nil {
			return s.httpError(c, err)
		}
		if rec.ThumbnailURL != nil {
			blobURL = *rec.ThumbnailURL
		}
		if err := s.dental.Delete(ctx, userID, id); err != nil {
			return s.httpError(c, err)
		}
	case records.Vision:
		rec, err := s.vision.GetByID(ctx, userID, id)
		if err != nil {
			return s.httpError(c, err)
		}
		if rec.ThumbnailURL != nil {
			blobURL = *rec.ThumbnailURL
		}
		if err := s.vision.Delete(ctx, userID, id); err != nil {
			return s.httpError(c, err)
		}
	case records.Immunization:
		rec, err := s.immunizations.GetByID(ctx, userID, id)
		if err != nil {
			return s.httpError(c, err)
		}
		if rec.ThumbnailURL != nil {
			blobURL = *rec.ThumbnailURL
		}
		if err := s.immunizations.Delete(ctx, userID, id); err != nil {
			return s.httpError(c, err)
		}
	case records.Medication:
		rec, err := s.medications.GetByID(ctx, userID, id)
		if err != nil {
			return s.httpError(c, err)
		}
		if rec.ThumbnailURL != nil {
			blobURL = *rec.ThumbnailURL
		}
		if err := s.medications.Delete(ctx, userID, id); err != nil {
			return s.httpError(c, err)
		}
	default:
		rec, err := s.health.GetByID(ctx, userID, id)
		if err != nil {
			return s.httpError(c, err)
		}
		if rec.DocumentURL != nil {
			blobURL = *rec.DocumentURL
		}
		if err := s.health.Delete(ctx, userID, id); err != nil {
			return s.httpError(c, err)
		}
	}

	if blobURL != "" && s.storage != nil {
		if key, ok := s.storage.KeyFromPublicURL(blobURL); ok {
			if err := s.storage.Delete(ctx, key); err != nil {
				s.logger.Warn("record.blob_delete_failed", "record_id", id, "key", key, "error", err)
			}
		}
	}
	return c.NoContent(http.StatusNoContent)
}
