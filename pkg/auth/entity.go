package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated actor. Every other entity references a user id
// as its createdBy/uploadedBy audit link.
type User struct {
	ID           uuid.UUID
	Username     string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}
