// Package middleware holds the echo middleware guarding and measuring the API.
package middleware

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"contactbook/internal/auth"
	apperrors "contactbook/internal/errors"
	"contactbook/internal/identity"
	"contactbook/internal/model"
	"contactbook/internal/service"
)

const (
	// UserContextKey is the echo context key holding the authenticated *model.User.
	UserContextKey = "user"

	claimsContextKey    = "claims"
	verifyErrContextKey = "claims_error"
)

// Identity rejects requests without a valid bearer token and attaches the
// token's user to the request context.
type Identity struct {
	tokens *auth.JWTService
	auth   service.AuthService
}

// NewIdentity creates the identity middleware.
func NewIdentity(tokens *auth.JWTService, authService service.AuthService) *Identity {
	return &Identity{tokens: tokens, auth: authService}
}

// Middleware verifies the bearer token, then loads its user.
func (m *Identity) Middleware() echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  claimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := m.tokens.Verify(token)
			if err != nil {
				c.Set(verifyErrContextKey, err)
				return nil, err
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if verifyErr, ok := c.Get(verifyErrContextKey).(error); ok {
				err = verifyErr
			}
			switch {
			case errors.Is(err, apperrors.ErrTokenExpired):
				return apperrors.ErrTokenExpired
			case errors.Is(err, apperrors.ErrTokenInvalid):
				return apperrors.ErrTokenInvalid
			default:
				return apperrors.ErrTokenMissing
			}
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(m.load(next))
	}
}

func (m *Identity) load(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(claimsContextKey).(*auth.Claims)
		if !ok {
			return apperrors.ErrTokenInvalid
		}

		ctx := c.Request().Context()
		user, err := m.auth.Authenticate(ctx, claims)
		if err != nil {
			return err
		}

		ctx = identity.WithClaims(identity.WithUser(ctx, user), claims)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Set(UserContextKey, user)
		return next(c)
	}
}

// CurrentUser returns the user attached by Identity.
func CurrentUser(c echo.Context) (*model.User, bool) {
	return identity.UserFromContext(c.Request().Context())
}
