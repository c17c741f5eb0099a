package employee

import (
	"time"

	"github.com/google/uuid"
)

// Role is the staff role tag; the wire representation is the tag.
type Role string

const (
	RoleConsultant Role = "CONSULTANT"
	RoleRecruiter  Role = "RECRUITER"
	RoleSales      Role = "SALES"
	RoleManager    Role = "MANAGER"
	RoleAdmin      Role = "ADMIN"
)

var roleDisplayNames = map[Role]string{
	RoleConsultant: "Consultant",
	RoleRecruiter:  "Recruiter",
	RoleSales:      "Sales",
	RoleManager:    "Manager",
	RoleAdmin:      "Admin",
}

func (r Role) Valid() bool { _, ok := roleDisplayNames[r]; return ok }

func (r Role) DisplayName() string { return roleDisplayNames[r] }

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrValidation("unknown employee role: " + s)
	}
	return r, nil
}

// Employee is an internal staffing-agency staff member. Email is globally
// unique.
type Employee struct {
	ID            uuid.UUID
	FullName      string
	Email         string
	PhoneNumber   string
	Role          Role
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     uuid.UUID
	CreatedByName string
}

// ErrValidation is a request-shape error; handlers map it to 400.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }
