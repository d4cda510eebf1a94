package auth

import "time"

// Role is the account's role. Stored as a small integer by the data layer but
// never handled as a raw int inside the service.
type Role int16

const (
	RoleAdmin       Role = 1
	RoleCoordinator Role = 2
	RoleInstructor  Role = 3
	RoleParticipant Role = 4
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleCoordinator:
		return "coordinator"
	case RoleInstructor:
		return "instructor"
	case RoleParticipant:
		return "participant"
	default:
		return "unknown"
	}
}

// Valid reports whether r is one of the four defined roles.
func (r Role) Valid() bool {
	return r >= RoleAdmin && r <= RoleParticipant
}

// Account is the authenticatable identity as seen by the credential store.
// PasswordHash never leaves this package.
type Account struct {
	ID           int64
	Ficha        string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
}

// Session is the authenticated context bound to one account. The ID is an
// opaque value regenerated on every privilege-relevant transition.
type Session struct {
	ID        string    `json:"id"`
	AccountID int64     `json:"account_id"`
	Role      Role      `json:"role"`
	Remember  bool      `json:"remember"`
	CreatedAt time.Time `json:"created_at"`
}

type Credential struct {
	Identifier string `json:"identifier" validate:"required"` // ficha or email
	Password   string `json:"password" validate:"required"`
	Remember   bool   `json:"remember"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
