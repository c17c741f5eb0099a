package activity

import (
	"time"

	"github.com/google/uuid"
)

// Type tags a pipeline event; the wire representation is the tag.
type Type string

const (
	TypeApplied            Type = "APPLIED"
	TypeSubmitted          Type = "SUBMITTED"
	TypeInterviewScheduled Type = "INTERVIEW_SCHEDULED"
	TypeInterviewCompleted Type = "INTERVIEW_COMPLETED"
	TypeFeedbackReceived   Type = "FEEDBACK_RECEIVED"
	TypeRejected           Type = "REJECTED"
	TypeOnHold             Type = "ON_HOLD"
)

var typeDisplayNames = map[Type]string{
	TypeApplied:            "Applied",
	TypeSubmitted:          "Submitted",
	TypeInterviewScheduled: "Interview Scheduled",
	TypeInterviewCompleted: "Interview Completed",
	TypeFeedbackReceived:   "Feedback Received",
	TypeRejected:           "Rejected",
	TypeOnHold:             "On Hold",
}

func (t Type) Valid() bool { _, ok := typeDisplayNames[t]; return ok }

func (t Type) DisplayName() string { return typeDisplayNames[t] }

func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", ErrValidation("unknown activity type: " + s)
	}
	return t, nil
}

// Activity is an append-style log entry in a candidate's placement pipeline.
// CandidateID is a loose reference, deliberately not a database foreign key.
type Activity struct {
	ID            uuid.UUID
	CandidateID   uuid.UUID
	Type          Type
	ClientName    string
	ContactPerson string
	ContactPhone  string
	ContactEmail  string
	SubmittedRate *float64
	Notes         string
	ActivityDate  time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     uuid.UUID
	CreatedByName string
}

// ErrValidation is a request-shape error; handlers map it to 400.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }
