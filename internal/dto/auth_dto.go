package dto

import "github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// CreateAccountRequest creates a login. Manager accounts must name the
// Manager row they act as in ProfileID.
type CreateAccountRequest struct {
	Email     string       `json:"email"`
	Password  string       `json:"password"`
	Role      session.Role `json:"role"`
	ProfileID string       `json:"profile_id,omitempty"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	Role      session.Role `json:"role"`
	ProfileID string       `json:"profile_id,omitempty"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	DB            string `json:"db"`
	MirrorVersion uint64 `json:"mirror_version"`
	MirrorAge     string `json:"mirror_age,omitempty"`
}
