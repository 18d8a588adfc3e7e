package auth

import (
	"github.com/harborline/harborline/internal/rbac"
)

// User is a back-office account. Accounts are seeded at startup; there
// is no self-service registration.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         rbac.Role `json:"role"`
	PasswordHash []byte    `json:"-"`
}
