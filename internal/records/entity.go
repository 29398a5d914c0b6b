package records

import (
	"time"

	"github.com/google/uuid"
)

// HealthRecord is the default destination for uploads whose record type does
// not match a more specific category.
type HealthRecord struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	FamilyMemberID *uuid.UUID `db:"family_member_id" json:"family_member_id,omitempty"`
	Title          string     `db:"title" json:"title"`
	Date           string     `db:"date" json:"date"`
	Provider       string     `db:"provider" json:"provider"`
	RecordType     string     `db:"record_type" json:"record_type"`
	Description    *string    `db:"description" json:"description,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	DocumentURL    *string    `db:"document_url" json:"document_url,omitempty"`
	ThumbnailURL   *string    `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

type DentalRecord struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	FamilyMemberID *uuid.UUID `db:"family_member_id" json:"family_member_id,omitempty"`
	Title          string     `db:"title" json:"title"`
	Date           string     `db:"date" json:"date"`
	Provider       string     `db:"provider" json:"provider"`
	RecordType     string     `db:"record_type" json:"record_type"`
	Findings       *string    `db:"findings" json:"findings,omitempty"`
	ThumbnailURL   *string    `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

type VisionRecord struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	UserID             uuid.UUID  `db:"user_id" json:"user_id"`
	FamilyMemberID     *uuid.UUID `db:"family_member_id" json:"family_member_id,omitempty"`
	Title              string     `db:"title" json:"title"`
	Date               string     `db:"date" json:"date"`
	Provider           string     `db:"provider" json:"provider"`
	RecordType         string     `db:"record_type" json:"record_type"`
	PrescriptionDetail *string    `db:"prescription_details" json:"prescription_details,omitempty"`
	ContactLensDetail  *string    `db:"contact_lens_details" json:"contact_lens_details,omitempty"`
	ThumbnailURL       *string    `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

type ImmunizationRecord struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	FamilyMemberID *uuid.UUID `db:"family_member_id" json:"family_member_id,omitempty"`
	Title          string     `db:"title" json:"title"`
	Date           string     `db:"date" json:"date"`
	Provider       string     `db:"provider" json:"provider"`
	Vaccine        string     `db:"vaccine" json:"vaccine"`
	VaccineType    string     `db:"vaccine_type" json:"vaccine_type"`
	DoseNumber     string     `db:"dose_number" json:"dose_number"`
	Status         string     `db:"status" json:"status"`
	NextDose       *string    `db:"next_dose" json:"next_dose,omitempty"`
	LotNumber      *string    `db:"lot_number" json:"lot_number,omitempty"`
	Location       *string    `db:"location" json:"location,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	ThumbnailURL   *string    `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

type MedicationRecord struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	UserID           uuid.UUID  `db:"user_id" json:"user_id"`
	FamilyMemberID   *uuid.UUID `db:"family_member_id" json:"family_member_id,omitempty"`
	Name             string     `db:"name" json:"name"`
	Dosage           string     `db:"dosage" json:"dosage"`
	Frequency        string     `db:"frequency" json:"frequency"`
	StartDate        string     `db:"start_date" json:"start_date"`
	EndDate          *string    `db:"end_date" json:"end_date,omitempty"`
	PrescribedBy     string     `db:"prescribed_by" json:"prescribed_by"`
	MedicationType   string     `db:"medication_type" json:"medication_type"`
	Status           string     `db:"status" json:"status"`
	Instructions     *string    `db:"instructions" json:"instructions,omitempty"`
	RefillsRemaining *int       `db:"refills_remaining" json:"refills_remaining,omitempty"`
	ThumbnailURL     *string    `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

type Reminder struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	UserID            uuid.UUID  `db:"user_id" json:"user_id"`
	FamilyMemberID    *uuid.UUID `db:"family_member_id" json:"family_member_id,omitempty"`
	Title             string     `db:"title" json:"title"`
	Description       *string    `db:"description" json:"description,omitempty"`
	ReminderType      string     `db:"reminder_type" json:"reminder_type"`
	ReminderDate      time.Time  `db:"reminder_date" json:"reminder_date"`
	Recurring         bool       `db:"recurring" json:"recurring"`
	RecurrencePattern *string    `db:"recurrence_pattern" json:"recurrence_pattern,omitempty"`
	Status            string     `db:"status" json:"status"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

type FamilyMember struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Name         string    `db:"name" json:"name"`
	Relationship string    `db:"relationship" json:"relationship"`
	DateOfBirth  *string   `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender       *string   `db:"gender" json:"gender,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
