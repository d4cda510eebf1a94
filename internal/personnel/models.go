// Package personnel implements the admin-driven account lifecycle: create,
// update with change detection, status toggling, and the forensic delete.
// Business invariants are enforced by the authoritative stored operations;
// this package shapes inputs and reconciles outcomes.
package personnel

import (
	"time"

	"PicadeBackend/internal/alerts"
)

// Action is the outcome discriminator returned by the authoritative update
// operations. NoChange is not an error: callers show different feedback.
type Action string

const (
	ActionUpdated  Action = "UPDATED"
	ActionNoChange Action = "NO_CHANGE"
	ActionChanged  Action = "CHANGED"
)

// UpdateResult is the success shape of every mutating stored operation.
type UpdateResult struct {
	Action  Action `json:"action"`
	Message string `json:"message"`
}

// LifecycleError is an authoritative-layer failure after parsing and
// classification. The raw driver error never reaches a caller.
type LifecycleError struct {
	Message  string          `json:"message"`
	Severity alerts.Severity `json:"severity"`
}

func (e *LifecycleError) Error() string {
	return e.Message
}

// PublicRegisterRequest is the self-registration payload. Role is always
// Participant; org assignment comes later through an admin.
type PublicRegisterRequest struct {
	Ficha           string `json:"ficha" validate:"required,max=20"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	Name            string `json:"name" validate:"required"`
	PaternalSurname string `json:"paternal_surname" validate:"required"`
	MaternalSurname string `json:"maternal_surname"`
	BirthDate       string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	HireDate        string `json:"hire_date" validate:"required,datetime=2006-01-02"`
}

// AdminCreateRequest is the admin-driven create. Optional organizational
// references are pointers: nil means "no selection" and maps to SQL NULL.
type AdminCreateRequest struct {
	Ficha            string  `json:"ficha" validate:"required,max=20"`
	PhotoURL         string  `json:"photo_url"`
	Name             string  `json:"name" validate:"required"`
	PaternalSurname  string  `json:"paternal_surname" validate:"required"`
	MaternalSurname  string  `json:"maternal_surname"`
	BirthDate        string  `json:"birth_date" validate:"required,datetime=2006-01-02"`
	HireDate         string  `json:"hire_date" validate:"required,datetime=2006-01-02"`
	Email            string  `json:"email" validate:"required,email"`
	Password         string  `json:"password" validate:"required,min=8"`
	RoleID           int16   `json:"role_id" validate:"required,oneof=1 2 3 4"`
	RegimeID         int64   `json:"regime_id" validate:"required"`
	PositionID       *int64  `json:"position_id"`
	WorkCenterID     *int64  `json:"work_center_id"`
	DepartmentID     *int64  `json:"department_id"`
	RegionID         int64   `json:"region_id" validate:"required"`
	ManagementUnitID *int64  `json:"management_unit_id"`
	Level            *int16  `json:"level"`
}

// AdminUpdateRequest mirrors the create, minus ficha (immutable) and with an
// optional password: nil preserves the stored hash. Email and role are
// admin-exclusive mutable fields.
type AdminUpdateRequest struct {
	Name             string  `json:"name" validate:"required"`
	PaternalSurname  string  `json:"paternal_surname" validate:"required"`
	MaternalSurname  string  `json:"maternal_surname"`
	BirthDate        string  `json:"birth_date" validate:"required,datetime=2006-01-02"`
	HireDate         string  `json:"hire_date" validate:"required,datetime=2006-01-02"`
	Email            string  `json:"email" validate:"required,email"`
	Password         *string `json:"password" validate:"omitempty,min=8"`
	RoleID           int16   `json:"role_id" validate:"required,oneof=1 2 3 4"`
	RegimeID         int64   `json:"regime_id" validate:"required"`
	PositionID       *int64  `json:"position_id"`
	WorkCenterID     *int64  `json:"work_center_id"`
	DepartmentID     *int64  `json:"department_id"`
	RegionID         int64   `json:"region_id" validate:"required"`
	ManagementUnitID *int64  `json:"management_unit_id"`
	Level            *int16  `json:"level"`
}

// SelfUpdateRequest excludes email, role and password entirely. Regime and
// region are required; the rest of the org assignment is optional.
type SelfUpdateRequest struct {
	Name             string `json:"name" validate:"required"`
	PaternalSurname  string `json:"paternal_surname" validate:"required"`
	MaternalSurname  string `json:"maternal_surname"`
	BirthDate        string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	HireDate         string `json:"hire_date" validate:"required,datetime=2006-01-02"`
	RegimeID         int64  `json:"regime_id" validate:"required"`
	PositionID       *int64 `json:"position_id"`
	WorkCenterID     *int64 `json:"work_center_id"`
	DepartmentID     *int64 `json:"department_id"`
	RegionID         int64  `json:"region_id" validate:"required"`
	ManagementUnitID *int64 `json:"management_unit_id"`
}

// CredentialsUpdateRequest changes email and/or password for the acting user.
// At least one new value must be present.
type CredentialsUpdateRequest struct {
	CurrentPassword string  `json:"current_password" validate:"required"`
	NewEmail        *string `json:"new_email" validate:"omitempty,email"`
	NewPassword     *string `json:"new_password" validate:"omitempty,min=8"`
}

// StatusRequest toggles the active flag. A pointer so false binds as an
// explicit value, not a missing field.
type StatusRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// AccountFull is the full profile read, cascade IDs included.
type AccountFull struct {
	ID               int64      `json:"id"`
	Ficha            string     `json:"ficha"`
	Email            string     `json:"email"`
	RoleID           int16      `json:"role_id"`
	Active           bool       `json:"active"`
	Name             string     `json:"name"`
	PaternalSurname  string     `json:"paternal_surname"`
	MaternalSurname  *string    `json:"maternal_surname"`
	BirthDate        time.Time  `json:"birth_date"`
	HireDate         time.Time  `json:"hire_date"`
	PhotoURL         *string    `json:"photo_url"`
	RegimeID         *int64     `json:"regime_id"`
	PositionID       *int64     `json:"position_id"`
	WorkCenterID     *int64     `json:"work_center_id"`
	DepartmentID     *int64     `json:"department_id"`
	RegionID         *int64     `json:"region_id"`
	ManagementUnitID *int64     `json:"management_unit_id"`
	Level            *int16     `json:"level"`
}

// OwnProfile is the lean self-service read, IDs only.
type OwnProfile struct {
	ID               int64     `json:"id"`
	Ficha            string    `json:"ficha"`
	Email            string    `json:"email"`
	RoleID           int16     `json:"role_id"`
	Name             string    `json:"name"`
	PaternalSurname  string    `json:"paternal_surname"`
	MaternalSurname  *string   `json:"maternal_surname"`
	BirthDate        time.Time `json:"birth_date"`
	HireDate         time.Time `json:"hire_date"`
	RegimeID         *int64    `json:"regime_id"`
	PositionID       *int64    `json:"position_id"`
	WorkCenterID     *int64    `json:"work_center_id"`
	DepartmentID     *int64    `json:"department_id"`
	RegionID         *int64    `json:"region_id"`
	ManagementUnitID *int64    `json:"management_unit_id"`
}
