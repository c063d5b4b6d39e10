package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"contactbook/internal/auth"
	apperrors "contactbook/internal/errors"
	"contactbook/internal/model"
	"contactbook/internal/service"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, creds service.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, creds service.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) Me(ctx context.Context) (*model.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *mockAuthService) Authenticate(ctx context.Context, claims *auth.Claims) (*model.User, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

type mockContactService struct{ mock.Mock }

func (m *mockContactService) Create(ctx context.Context, fields model.ContactFields) (*model.Contact, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *mockContactService) List(ctx context.Context, page, limit int) (*model.ContactPage, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContactPage), args.Error(1)
}

func (m *mockContactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *mockContactService) Update(ctx context.Context, id string, fields model.ContactFields) (*model.Contact, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *mockContactService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestAuthHandler_Login_InsecureCookie(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, service.Credentials{Email: "a@example.com", Password: "pw"}).Return("tok", nil)
	h := NewAuthHandler(svc, CookieOptions{Secure: false, TTL: 2 * time.Hour})

	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"pw"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"tok"}`, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.False(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 7200, cookies[0].MaxAge)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Register_MalformedBody(t *testing.T) {
	svc := new(mockAuthService)
	h := NewAuthHandler(svc, CookieOptions{})

	c, _ := newContext(http.MethodPost, "/api/auth/register", `{"email":`)
	err := h.Register(c)

	assert.ErrorIs(t, err, apperrors.ErrInvalidBody)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestAuthHandler_Register_PropagatesDomainError(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Register", mock.Anything, mock.Anything).Return("", apperrors.ErrUserExists)
	h := NewAuthHandler(svc, CookieOptions{})

	c, rec := newContext(http.MethodPost, "/api/auth/register", `{"email":"a@example.com","password":"pw"}`)
	err := h.Register(c)

	assert.ErrorIs(t, err, apperrors.ErrUserExists)
	assert.Empty(t, rec.Result().Cookies())
}

func TestContactHandler_List_Query(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantErr   error
	}{
		{name: "defaults left to service", query: "", wantPage: 0, wantLimit: 0},
		{name: "explicit", query: "?page=3&limit=25", wantPage: 3, wantLimit: 25},
		{name: "non numeric page", query: "?page=two", wantErr: apperrors.ErrInvalidPagination},
		{name: "non numeric limit", query: "?limit=lots", wantErr: apperrors.ErrInvalidPagination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockContactService)
			if tt.wantErr == nil {
				svc.On("List", mock.Anything, tt.wantPage, tt.wantLimit).
					Return(&model.ContactPage{Contacts: []model.Contact{}, CurrentPage: 1}, nil)
			}
			h := NewContactHandler(svc)

			c, rec := newContext(http.MethodGet, "/api/contacts"+tt.query, "")
			err := h.List(c)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestContactHandler_Update_UsesPathID(t *testing.T) {
	svc := new(mockContactService)
	fields := model.ContactFields{Name: "Grace", Email: "g@example.com", Phone: "1"}
	svc.On("Update", mock.Anything, "abc", fields).Return(&model.Contact{ID: "abc", Name: "Grace"}, nil)
	h := NewContactHandler(svc)

	c, rec := newContext(http.MethodPut, "/api/contacts/update/abc", `{"name":"Grace","email":"g@example.com","phone":"1"}`)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"updatedContact"`)
	assert.Contains(t, rec.Body.String(), `"Contact updated successfully"`)
	svc.AssertExpectations(t)
}

func TestContactHandler_Delete_NotFound(t *testing.T) {
	svc := new(mockContactService)
	svc.On("Delete", mock.Anything, "missing").Return(apperrors.ErrContactNotFound)
	h := NewContactHandler(svc)

	c, _ := newContext(http.MethodDelete, "/api/contacts/delete/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.Delete(c)
	assert.True(t, errors.Is(err, apperrors.ErrContactNotFound))
}
