package transport

import "github.com/google/uuid"

// RegisterRequest contains signup data. Role-specific profile fields are
// checked by the service, not by tags, since requirements differ per role.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=professional customer"`
	Name     string `json:"name" validate:"required,min=1,max=100"`

	// Professional fields.
	ServiceType string `json:"serviceType,omitempty" validate:"omitempty,max=100"`
	Experience  int    `json:"experience,omitempty" validate:"omitempty,min=0,max=80"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`

	// Customer fields.
	Address string `json:"address,omitempty" validate:"omitempty,max=300"`

	// Shared profile fields.
	Mobile string `json:"mobile,omitempty" validate:"omitempty,max=20"`
	Pin    string `json:"pin,omitempty" validate:"omitempty,len=6,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthResponse carries the token pair plus enough identity for the client
// to route by role.
type AuthResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	UserID       uuid.UUID `json:"userId"`
	Role         string    `json:"role"`
}
