package candidate

import (
	"time"

	"github.com/google/uuid"
)

// VisaStatus is the work-authorization tag shared by all candidate records.
// The wire representation is always the tag, never the display label.
type VisaStatus string

const (
	VisaH1B     VisaStatus = "H1B"
	VisaOPT     VisaStatus = "OPT"
	VisaGC      VisaStatus = "GC"
	VisaCitizen VisaStatus = "CITIZEN"
	VisaF1      VisaStatus = "F1"
	VisaL1      VisaStatus = "L1"
	VisaOther   VisaStatus = "OTHER"
)

var visaDisplayNames = map[VisaStatus]string{
	VisaH1B:     "H1B",
	VisaOPT:     "OPT",
	VisaGC:      "Green Card",
	VisaCitizen: "US Citizen",
	VisaF1:      "F1",
	VisaL1:      "L1",
	VisaOther:   "Other",
}

func (v VisaStatus) Valid() bool { _, ok := visaDisplayNames[v]; return ok }

func (v VisaStatus) DisplayName() string { return visaDisplayNames[v] }

func ParseVisaStatus(s string) (VisaStatus, error) {
	v := VisaStatus(s)
	if !v.Valid() {
		return "", ErrValidation("unknown visa status: " + s)
	}
	return v, nil
}

// Status is the candidate lifecycle state.
type Status string

const (
	StatusBench     Status = "BENCH"
	StatusInterview Status = "INTERVIEW"
	StatusWorking   Status = "WORKING"
	StatusPlaced    Status = "PLACED"
	StatusInactive  Status = "INACTIVE"
)

var statusDisplayNames = map[Status]string{
	StatusBench:     "Bench",
	StatusInterview: "In Interview",
	StatusWorking:   "Currently Working",
	StatusPlaced:    "Placed",
	StatusInactive:  "Inactive",
}

func (s Status) Valid() bool { _, ok := statusDisplayNames[s]; return ok }

func (s Status) DisplayName() string { return statusDisplayNames[s] }

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", ErrValidation("unknown candidate status: " + s)
	}
	return st, nil
}

// Candidate is the legacy unified record covering the whole pipeline: bench
// attributes, interview sub-fields and placement sub-fields on one row.
type Candidate struct {
	ID              uuid.UUID
	FullName        string
	VisaStatus      VisaStatus
	City            string
	State           string
	PrimarySkill    string
	ExperienceYears int
	ContactInfo     string
	Notes           string
	Status          Status

	// Legacy single resume attachment.
	ResumeFilename string
	ResumeKey      string

	AssignedConsultantName string
	TotalSubmissions       int
	TargetRate             *float64

	// Interview sub-fields.
	InterviewCompany   string
	InterviewPosition  string
	FirstInterviewDate *time.Time
	VendorContactName  string
	VendorContactEmail string
	VendorContactPhone string

	// Placement sub-fields.
	ClientCompany   string
	ProjectName     string
	HourlyRate      *float64
	StartDate       *time.Time
	EndDate         *time.Time
	ConsultantNotes string

	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     uuid.UUID
	CreatedByName string
}

func (c Candidate) Location() string { return c.City + ", " + c.State }

// Upload carries the bytes and metadata of one multipart file. It is shared
// with the bench-candidate domain for document uploads.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// ErrValidation is a request-shape error; handlers map it to 400.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }
