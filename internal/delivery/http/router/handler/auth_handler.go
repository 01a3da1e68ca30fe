// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"time"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	uc usecase.UserUsecase
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.UserUsecase) *AuthHandler {
	return &AuthHandler{
		uc: uc,
	}
}

// Signup handles the account registration request.
func (h *AuthHandler) Signup(c echo.Context) error {
	var input usecase.SignupInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signup input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.Signup(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserResponse(output.User), "Account created successfully")
}

// Login handles the credential login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	h.setAuthCookies(c, output)

	return response.Success(c, http.StatusOK, toAuthResponse(output), "Login successful")
}

// GoogleLogin handles a social login carrying a provider-issued ID token.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var input usecase.GoogleLoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid Google login input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.GoogleLogin(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	h.setAuthCookies(c, output)

	return response.Success(c, http.StatusOK, toAuthResponse(output), "Login successful")
}

// Refresh exchanges a refresh token for a new token pair. Browser clients
// present the token via cookie, API clients via body.
func (h *AuthHandler) Refresh(c echo.Context) error {
	input, err := h.refreshInput(c)
	if err != nil {
		return err
	}

	output, err := h.uc.Refresh(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	h.setAuthCookies(c, output)

	return response.Success(c, http.StatusOK, toAuthResponse(output), "Token refreshed successfully")
}

// Logout revokes the presented refresh token and clears the auth cookies.
func (h *AuthHandler) Logout(c echo.Context) error {
	input, err := h.refreshInput(c)
	if err != nil {
		return err
	}

	if err := h.uc.Logout(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	h.clearAuthCookies(c)

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// refreshInput reads the refresh token from the body, falling back to the
// cookie so browser sessions work without a request body.
func (h *AuthHandler) refreshInput(c echo.Context) (*usecase.RefreshTokenInput, error) {
	var input usecase.RefreshTokenInput
	if err := c.Bind(&input); err != nil {
		return nil, response.BindingError(c, "INVALID_INPUT", "Invalid refresh token input")
	}

	if input.RefreshToken == "" {
		if cookie, err := c.Cookie(middleware.RefreshTokenCookie); err == nil && cookie != nil {
			input.RefreshToken = cookie.Value
		}
	}

	if err := c.Validate(&input); err != nil {
		return nil, err
	}

	return &input, nil
}

func (h *AuthHandler) setAuthCookies(c echo.Context, output *usecase.AuthOutput) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    output.AccessToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     middleware.RefreshTokenCookie,
		Value:    output.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
