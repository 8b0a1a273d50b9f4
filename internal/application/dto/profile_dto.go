package dto

import "time"

// ProfileResponse salida de un profile.
type ProfileResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Sector         string    `json:"sector,omitempty"`
	CanManageUsers bool      `json:"can_manage_users"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UpdateProfileRequest cambios de rol, sector o delegación. Sector "" quita el sector.
type UpdateProfileRequest struct {
	Name           *string `json:"name"`
	Role           *string `json:"role" validate:"omitempty,oneof=root manager collaborator"`
	Sector         *string `json:"sector"`
	CanManageUsers *bool   `json:"can_manage_users"`
}
