package working

import (
	"time"

	"github.com/google/uuid"

	"github.com/consultancy/staffing/pkg/candidate"
)

// WorkingCandidate is a worker currently placed at a client.
type WorkingCandidate struct {
	ID              uuid.UUID
	FullName        string
	VisaStatus      candidate.VisaStatus
	WorkingLocation string
	JobRole         string
	ExperienceYears int
	Email           string
	PhoneNumber     string
	HourlyRate      float64
	ProjectDuration string
	ClientName      string

	PlacedBy     uuid.UUID
	PlacedByName string

	Notes string

	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     uuid.UUID
	CreatedByName string
}
