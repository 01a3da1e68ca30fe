// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required to register a new account.
type SignupInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput defines the data required for a credential login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginInput carries the provider-issued ID token of a social login.
type GoogleLoginInput struct {
	IDToken string `json:"idToken" validate:"required"`
}

// RefreshTokenInput carries the refresh token being exchanged or revoked.
type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// --- Output DTOs ---

// SignupOutput returns the newly created user's basic information.
type SignupOutput struct {
	User *entity.User
}

// AuthOutput returns the generated tokens after a successful authentication.
type AuthOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// UserUsecase defines the interface for authentication-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	// Signup registers a new password-based account with role USER.
	Signup(ctx context.Context, input *SignupInput) (*SignupOutput, error)

	// Login verifies a password credential and issues tokens. Missing user and
	// wrong password produce the same generic failure.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// GoogleLogin trusts a verified provider identity, creating or reusing the
	// local user record, and issues tokens.
	GoogleLogin(ctx context.Context, input *GoogleLoginInput) (*AuthOutput, error)

	// Refresh exchanges a valid refresh token for a new token pair.
	Refresh(ctx context.Context, input *RefreshTokenInput) (*AuthOutput, error)

	// Logout revokes a refresh token.
	Logout(ctx context.Context, input *RefreshTokenInput) error
}
