package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactbook/internal/auth"
	apperrors "contactbook/internal/errors"
	"contactbook/internal/identity"
	"contactbook/internal/model"
	"contactbook/internal/repository"
	"contactbook/internal/service"
)

const testSecret = "test-secret"

type identityFixture struct {
	e       *echo.Echo
	tokens  *auth.JWTService
	revoked *auth.MemoryTokenStore
	user    *model.User
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()

	store := repository.NewMemoryStore()
	user := &model.User{Email: "ada@example.com", PasswordHash: "x"}
	require.NoError(t, store.Users().Create(context.Background(), user))

	tokens := auth.NewJWTService(testSecret, time.Hour)
	revoked := auth.NewMemoryTokenStore()
	authService := service.NewAuthService(store.Users(), tokens, auth.NewPasswordHasher(4), revoked)

	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		httpErr := apperrors.MapErrorToHTTP(err)
		_ = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	e.GET("/private", func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		claims, _ := identity.ClaimsFromContext(c.Request().Context())
		return c.JSON(http.StatusOK, map[string]string{"id": user.ID, "jti": claims.ID})
	}, NewIdentity(tokens, authService).Middleware())

	return &identityFixture{e: e, tokens: tokens, revoked: revoked, user: user}
}

func (f *identityFixture) get(authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func signed(t *testing.T, claims *auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestIdentity_Rejections(t *testing.T) {
	f := newIdentityFixture(t)

	expired := signed(t, &auth.Claims{
		UserID: f.user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	otherSecret, err := auth.NewJWTService("another-secret", time.Hour).Issue(f.user.ID)
	require.NoError(t, err)
	ghost, err := f.tokens.Issue("no-such-user")
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		wantStatus    int
		wantMessage   string
	}{
		{"no header", "", http.StatusUnauthorized, "Unauthorized: No token provided"},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized, "Unauthorized: No token provided"},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized, "Unauthorized: Invalid token"},
		{"wrong secret", "Bearer " + otherSecret, http.StatusUnauthorized, "Unauthorized: Invalid token"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "Unauthorized: Token expired"},
		{"unknown user", "Bearer " + ghost, http.StatusNotFound, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.get(tt.authorization)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMessage, messageOf(t, rec))
		})
	}
}

func TestIdentity_AttachesUser(t *testing.T) {
	f := newIdentityFixture(t)

	token, err := f.tokens.Issue(f.user.ID)
	require.NoError(t, err)

	rec := f.get("Bearer " + token)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, f.user.ID, body["id"])
	assert.NotEmpty(t, body["jti"])
}

func TestIdentity_RevokedToken(t *testing.T) {
	f := newIdentityFixture(t)

	token, err := f.tokens.Issue(f.user.ID)
	require.NoError(t, err)
	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)

	require.NoError(t, f.revoked.Revoke(context.Background(), claims.ID, time.Hour))

	rec := f.get("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized: Token revoked", messageOf(t, rec))
}
