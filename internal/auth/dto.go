package auth

import "github.com/angelmondragon/storefront-admin/internal/users"

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the self-service and admin sign-up payload.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,notblank,max=255"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
}

// GoogleRequest carries the ID token obtained by the client from Google.
type GoogleRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// RefreshRequest carries the refresh token; the possibly expired access
// token travels in the Authorization header.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenResponse is returned by every flow that opens a session.
type TokenResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int            `json:"expires_in"`
	User         *users.UserDTO `json:"user"`
}
