package bench

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/consultancy/staffing/pkg/candidate"
)

// BenchCandidate is an available-for-placement worker, the newer split-table
// representation of an unplaced candidate.
type BenchCandidate struct {
	ID              uuid.UUID
	FullName        string
	VisaStatus      candidate.VisaStatus
	City            string
	State           string
	PrimarySkill    string
	ExperienceYears int
	PhoneNumber     string
	Email           string
	TargetRate      *float64

	AssignedConsultantID   *uuid.UUID
	AssignedConsultantName string

	Notes string

	// Legacy single-resume fields, mirrored from the first RESUME document.
	ResumeFilename string
	ResumeKey      string

	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     uuid.UUID
	CreatedByName string
}

func (b BenchCandidate) Location() string { return b.City + ", " + b.State }

// DocumentType classifies an uploaded attachment.
type DocumentType string

const (
	DocResume      DocumentType = "RESUME"
	DocCertificate DocumentType = "CERTIFICATE"
	DocDegree      DocumentType = "DEGREE"
	DocTranscript  DocumentType = "TRANSCRIPT"
	DocOther       DocumentType = "OTHER"
)

var documentDisplayNames = map[DocumentType]string{
	DocResume:      "Resume",
	DocCertificate: "Certificate",
	DocDegree:      "Degree",
	DocTranscript:  "Transcript",
	DocOther:       "Other",
}

func (d DocumentType) Valid() bool { _, ok := documentDisplayNames[d]; return ok }

func (d DocumentType) DisplayName() string { return documentDisplayNames[d] }

// ClassifyDocument infers the document type from the uploaded filename.
// Matching order is significant: "resume"/"cv" win over everything else.
func ClassifyDocument(originalName string) DocumentType {
	name := strings.ToLower(originalName)
	switch {
	case strings.Contains(name, "resume") || strings.Contains(name, "cv"):
		return DocResume
	case strings.Contains(name, "certificate"):
		return DocCertificate
	case strings.Contains(name, "degree"):
		return DocDegree
	case strings.Contains(name, "transcript"):
		return DocTranscript
	default:
		return DocOther
	}
}

// Document is a file attachment owned by exactly one bench candidate.
type Document struct {
	ID               uuid.UUID
	BenchCandidateID uuid.UUID
	StorageKey       string
	OriginalFilename string
	FileSize         int64
	ContentType      string
	Type             DocumentType
	UploadedAt       time.Time
	UploadedBy       uuid.UUID
	UploadedByName   string
}
