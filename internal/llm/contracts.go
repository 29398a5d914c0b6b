package llm

import "context"

// Candidate is the transient extracted-field mapping produced before user
// confirmation. All fields are optional until Normalize has run; JSON tags
// match the field names the extraction prompt asks the model to emit.
type Candidate struct {
	RecordType  string `json:"recordType,omitempty"`
	Title       string `json:"title,omitempty"`
	Date        string `json:"date,omitempty"` // YYYY-MM-DD after Normalize
	Provider    string `json:"provider,omitempty"`
	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`

	// dental
	Findings string `json:"findings,omitempty"`

	// vision
	PrescriptionDetails string `json:"prescriptionDetails,omitempty"`
	ContactLensDetails  string `json:"contactLensDetails,omitempty"`

	// immunization
	Vaccine     string `json:"vaccine,omitempty"`
	VaccineType string `json:"vaccineType,omitempty"`
	DoseNumber  string `json:"doseNumber,omitempty"`
	Status      string `json:"status,omitempty"`

	// medication
	Name           string `json:"name,omitempty"`
	Dosage         string `json:"dosage,omitempty"`
	Frequency      string `json:"frequency,omitempty"`
	StartDate      string `json:"startDate,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
	MedicationType string `json:"medicationType,omitempty"`
}

// ChatClient is the transport the extraction service depends on. Both calls
// take the raw document text; Summarize returns free text and
// ExtractRecordJSON returns the model's JSON object verbatim.
type ChatClient interface {
	Summarize(ctx context.Context, text string) (string, error)
	ExtractRecordJSON(ctx context.Context, text string) ([]byte, error)
}

// Extractor is the interface the upload pipeline depends on.
type Extractor interface {
	Extract(ctx context.Context, text string) (Candidate, error)
}
