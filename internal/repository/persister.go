package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lumihealth/lumivault/internal/llm"
	"github.com/lumihealth/lumivault/internal/records"
)

// Persister routes a confirmed, normalized candidate to exactly one of the
// five category repositories. The destination is derived once from the
// candidate's record type; each branch performs a single atomic insert and
// the first error aborts with no row written.
type Persister struct {
	Health        HealthRecordRepository
	Dental        DentalRecordRepository
	Vision        VisionRecordRepository
	Immunizations ImmunizationRecordRepository
	Medications   MedicationRepository
	Logger        *slog.Logger
}

func NewPersister(
	health HealthRecordRepository,
	dental DentalRecordRepository,
	vision VisionRecordRepository,
	immunizations ImmunizationRecordRepository,
	medications MedicationRepository,
	logger *slog.Logger,
) *Persister {
	if logger == nil {
		logger = slog.Default()
	}
	return &Persister{
		Health:        health,
		Dental:        dental,
		Vision:        vision,
		Immunizations: immunizations,
		Medications:   medications,
		Logger:        logger,
	}
}

// Persist writes one row into the destination chosen from the candidate's
// record type and returns the destination and the new row's ID. The blob URL
// is attached as both the document and thumbnail reference.
func (p *Persister) Persist(ctx context.Context, userID uuid.UUID, c llm.Candidate, blobURL string) (records.Category, uuid.UUID, error) {
	cat, _ := records.ParseCategory(c.RecordType)
	provider := c.Provider
	if provider == "" {
		provider = "Unknown Provider"
	}

	var (
		rowID uuid.UUID
		err   error
	)
	switch cat {
	case records.Dental:
		rec := &records.DentalRecord{
			UserID:       userID,
			Title:        orDefault(c.Title, "Dental Record"),
			Date:         c.Date,
			Provider:     provider,
			RecordType:   "dental",
			Findings:     optional(c.Findings),
			ThumbnailURL: optional(blobURL),
		}
		if err = p.Dental.Insert(ctx, rec); err == nil {
			rowID = rec.ID
		}

	case records.Vision:
		rec := &records.VisionRecord{
			UserID:             userID,
			Title:              orDefault(c.Title, "Vision Record"),
			Date:               c.Date,
			Provider:           provider,
			RecordType:         "vision",
			PrescriptionDetail: optional(c.PrescriptionDetails),
			ContactLensDetail:  optional(c.ContactLensDetails),
			ThumbnailURL:       optional(blobURL),
		}
		if err = p.Vision.Insert(ctx, rec); err == nil {
			rowID = rec.ID
		}

	case records.Immunization:
		rec := &records.ImmunizationRecord{
			UserID:       userID,
			Title:        orDefault(c.Title, "Immunization Record"),
			Date:         c.Date,
			Provider:     provider,
			Vaccine:      orDefault(c.Vaccine, "Unknown Vaccine"),
			VaccineType:  orDefault(c.VaccineType, "Unknown Type"),
			DoseNumber:   orDefault(c.DoseNumber, "1"),
			Status:       orDefault(c.Status, "Completed"),
			Notes:        optional(c.Notes),
			ThumbnailURL: optional(blobURL),
		}
		if err = p.Immunizations.Insert(ctx, rec); err == nil {
			rowID = rec.ID
		}

	case records.Medication:
		rec := &records.MedicationRecord{
			UserID:         userID,
			Name:           orDefault(c.Name, "Unknown Medication"),
			Dosage:         orDefault(c.Dosage, "Unknown Dosage"),
			Frequency:      orDefault(c.Frequency, "Daily"),
			StartDate:      orDefault(c.StartDate, c.Date),
			EndDate:        optional(c.EndDate),
			PrescribedBy:   provider,
			MedicationType: orDefault(c.MedicationType, "Prescription"),
			Status:         orDefault(c.Status, "Active"),
			ThumbnailURL:   optional(blobURL),
		}
		if err = p.Medications.Insert(ctx, rec); err == nil {
			rowID = rec.ID
		}

	case records.Medical:
		rec := &records.HealthRecord{
			UserID:       userID,
			Title:        orDefault(c.Title, "Health Record"),
			Date:         c.Date,
			Provider:     provider,
			RecordType:   "general",
			Description:  optional(c.Description),
			Notes:        optional(c.Notes),
			DocumentURL:  optional(blobURL),
			ThumbnailURL: optional(blobURL),
		}
		if err = p.Health.Insert(ctx, rec); err == nil {
			rowID = rec.ID
		}
	}

	if err != nil {
		p.Logger.Error("persist.insert.failed", "destination", cat, "user_id", userID, "error", err)
		return cat, uuid.Nil, fmt.Errorf("insert %s record: %w", cat, err)
	}
	p.Logger.Info("persist.insert.ok", "destination", cat, "row_id", rowID, "user_id", userID)
	return cat, rowID, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
