package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a provisioned back-office account. Authentication itself is
// owned by the identity platform; this record exists so provisioning can
// link a profile and issue the verification email.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
}
