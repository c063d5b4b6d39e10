package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "contactbook/internal/errors"
	"contactbook/internal/identity"
	"contactbook/internal/service"
)

// TokenCookieName is the cookie carrying the token for browser clients.
const TokenCookieName = "token"

// CookieOptions controls the token cookie set on register and login.
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookie      CookieOptions
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse carries a human readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.Credentials true "Registration data"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var creds service.Credentials
	if err := c.Bind(&creds); err != nil {
		return apperrors.ErrInvalidBody
	}

	token, err := h.authService.Register(c.Request().Context(), creds)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token)
	return c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.Credentials true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var creds service.Credentials
	if err := c.Bind(&creds); err != nil {
		return apperrors.ErrInvalidBody
	}

	token, err := h.authService.Login(c.Request().Context(), creds)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token)
	return c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// User godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/user [get]
func (h *AuthHandler) User(c echo.Context) error {
	profile, err := h.authService.Me(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Logout godoc
// @Summary Logout user
// @Description Revokes the presented token until it expires.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := identity.ClaimsFromContext(c.Request().Context())
	if !ok {
		return apperrors.ErrTokenMissing
	}

	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return err
	}

	c.SetCookie(h.cookieFor("", -1))
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) setTokenCookie(c echo.Context, token string) {
	maxAge := 0
	if h.cookie.TTL > 0 {
		maxAge = int(h.cookie.TTL.Seconds())
	}
	c.SetCookie(h.cookieFor(token, maxAge))
}

func (h *AuthHandler) cookieFor(value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     TokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	// Browsers drop SameSite=None cookies that are not Secure.
	if h.cookie.Secure {
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
