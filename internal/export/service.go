package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/lumihealth/lumivault/internal/repository"
)

// Service is a small façade over the category repositories that produces
// XLSX bytes for exports: one worksheet per record category.
type Service struct {
	health        repository.HealthRecordRepository
	dental        repository.DentalRecordRepository
	vision        repository.VisionRecordRepository
	immunizations repository.ImmunizationRecordRepository
	medications   repository.MedicationRepository
	logger        *slog.Logger
}

func NewService(
	health repository.HealthRecordRepository,
	dental repository.DentalRecordRepository,
	vision repository.VisionRecordRepository,
	immunizations repository.ImmunizationRecordRepository,
	medications repository.MedicationRepository,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		health:        health,
		dental:        dental,
		vision:        vision,
		immunizations: immunizations,
		medications:   medications,
		logger:        logger,
	}
}

// ExportXLSX returns a workbook with every record for the user, one sheet
// per category, optionally bounded by an inclusive date window.
func (s *Service) ExportXLSX(ctx context.Context, userID uuid.UUID, from, to string) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()

	if err := s.healthSheet(ctx, f, userID, from, to); err != nil {
		return nil, err
	}
	if err := s.dentalSheet(ctx, f, userID, from, to); err != nil {
		return nil, err
	}
	if err := s.visionSheet(ctx, f, userID, from, to); err != nil {
		return nil, err
	}
	if err := s.immunizationSheet(ctx, f, userID, from, to); err != nil {
		return nil, err
	}
	if err := s.medicationSheet(ctx, f, userID, from, to); err != nil {
		return nil, err
	}

	// excelize starts with a default sheet we never write to
	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("export.ok", "user_id", userID, "bytes", buf.Len(), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func (s *Service) healthSheet(ctx context.Context, f *excelize.File, userID uuid.UUID, from, to string) error {
	recs, err := s.health.List(ctx, userID, from, to)
	if err != nil {
		return fmt.Errorf("query health records: %w", err)
	}
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = []any{r.Date, r.Title, r.Provider, r.RecordType, strOrEmpty(r.Description), strOrEmpty(r.DocumentURL)}
	}
	return writeSheet(f, "Health", []string{"Date", "Title", "Provider", "Record Type", "Description", "Document"}, rows)
}

func (s *Service) dentalSheet(ctx context.Context, f *excelize.File, userID uuid.UUID, from, to string) error {
	recs, err := s.dental.List(ctx, userID, from, to)
	if err != nil {
		return fmt.Errorf("query dental records: %w", err)
	}
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = []any{r.Date, r.Title, r.Provider, strOrEmpty(r.Findings), strOrEmpty(r.ThumbnailURL)}
	}
	return writeSheet(f, "Dental", []string{"Date", "Title", "Provider", "Findings", "Document"}, rows)
}

func (s *Service) visionSheet(ctx context.Context, f *excelize.File, userID uuid.UUID, from, to string) error {
	recs, err := s.vision.List(ctx, userID, from, to)
	if err != nil {
		return fmt.Errorf("query vision records: %w", err)
	}
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = []any{r.Date, r.Title, r.Provider, strOrEmpty(r.PrescriptionDetail), strOrEmpty(r.ContactLensDetail)}
	}
	return writeSheet(f, "Vision", []string{"Date", "Title", "Provider", "Prescription", "Contact Lenses"}, rows)
}

func (s *Service) immunizationSheet(ctx context.Context, f *excelize.File, userID uuid.UUID, from, to string) error {
	recs, err := s.immunizations.List(ctx, userID, from, to)
	if err != nil {
		return fmt.Errorf("query immunization records: %w", err)
	}
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = []any{r.Date, r.Vaccine, r.VaccineType, r.DoseNumber, r.Status, r.Provider}
	}
	return writeSheet(f, "Immunizations", []string{"Date", "Vaccine", "Type", "Dose", "Status", "Provider"}, rows)
}

func (s *Service) medicationSheet(ctx context.Context, f *excelize.File, userID uuid.UUID, from, to string) error {
	recs, err := s.medications.List(ctx, userID, from, to)
	if err != nil {
		return fmt.Errorf("query medications: %w", err)
	}
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = []any{r.StartDate, r.Name, r.Dosage, r.Frequency, r.MedicationType, r.Status, r.PrescribedBy}
	}
	return writeSheet(f, "Medications", []string{"Start Date", "Name", "Dosage", "Frequency", "Type", "Status", "Prescribed By"}, rows)
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for rowIdx, row := range rows {
		for colIdx, v := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
