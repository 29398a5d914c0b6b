package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/lumihealth/lumivault/internal/records"
	"github.com/lumihealth/lumivault/internal/repository"
)

type fakeHealth struct {
	repository.HealthRecordRepository
	recs []records.HealthRecord
}

func (f *fakeHealth) List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.HealthRecord, error) {
	return f.recs, nil
}

type fakeDental struct {
	repository.DentalRecordRepository
	recs []records.DentalRecord
}

func (f *fakeDental) List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.DentalRecord, error) {
	return f.recs, nil
}

type fakeVision struct {
	repository.VisionRecordRepository
}

func (f *fakeVision) List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.VisionRecord, error) {
	return nil, nil
}

type fakeImmunization struct {
	repository.ImmunizationRecordRepository
}

func (f *fakeImmunization) List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.ImmunizationRecord, error) {
	return nil, nil
}

type fakeMedication struct {
	repository.MedicationRepository
}

func (f *fakeMedication) List(ctx context.Context, userID uuid.UUID, from, to string) ([]records.MedicationRecord, error) {
	return nil, nil
}

func TestExportXLSX(t *testing.T) {
	desc := "Annual physical"
	svc := NewService(
		&fakeHealth{recs: []records.HealthRecord{{
			Title: "Checkup", Date: "2024-03-01", Provider: "Dr. A", RecordType: "general", Description: &desc,
		}}},
		&fakeDental{recs: []records.DentalRecord{{
			Title: "Cleaning", Date: "2024-05-01", Provider: "Dr. B",
		}}},
		&fakeVision{},
		&fakeImmunization{},
		&fakeMedication{},
		nil,
	)

	data, err := svc.ExportXLSX(context.Background(), uuid.New(), "", "")
	if err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Health", "Dental", "Vision", "Immunizations", "Medications"} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Errorf("sheet %q missing", sheet)
		}
	}

	got, err := f.GetCellValue("Health", "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "Checkup" {
		t.Errorf("Health!B2 = %q, want Checkup", got)
	}
	got, _ = f.GetCellValue("Dental", "A2")
	if got != "2024-05-01" {
		t.Errorf("Dental!A2 = %q", got)
	}
}
