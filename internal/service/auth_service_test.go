package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"contactbook/internal/auth"
	apperrors "contactbook/internal/errors"
	"contactbook/internal/identity"
	"contactbook/internal/model"
	"contactbook/internal/repository"
)

const testCost = 4

func newTestAuthService(repo repository.UserRepository, store auth.TokenStoreInterface) (AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	return NewAuthService(repo, jwtService, auth.NewPasswordHasher(testCost), store), jwtService
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		creds         Credentials
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			creds: Credentials{Email: "test@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, repository.ErrNotFound)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Email == "test@example.com" && u.PasswordHash != "" && u.PasswordHash != "password123"
				})).Return(nil)
			},
		},
		{
			name:          "missing password",
			creds:         Credentials{Email: "test@example.com"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrMissingCredentials,
		},
		{
			name:          "missing email",
			creds:         Credentials{Password: "password123"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrMissingCredentials,
		},
		{
			name:  "user already exists",
			creds: Credentials{Email: "existing@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrUserExists,
		},
		{
			name:  "concurrent registration hits unique index",
			creds: Credentials{Email: "race@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, repository.ErrNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(repository.ErrDuplicate)
			},
			expectedError: apperrors.ErrUserExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)
			svc, jwtService := newTestAuthService(mockRepo, new(MockTokenStore))

			token, err := svc.Register(context.Background(), tt.creds)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				claims, err := jwtService.Verify(token)
				require.NoError(t, err)
				assert.Equal(t, "generated-id", claims.UserID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, errors.New("connection refused"))
	svc, _ := newTestAuthService(mockRepo, new(MockTokenStore))

	_, err := svc.Register(context.Background(), Credentials{Email: "test@example.com", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.MapErrorToHTTP(err).StatusCode)
}

func TestAuthService_Login(t *testing.T) {
	hasher := auth.NewPasswordHasher(testCost)
	hashedPassword, err := hasher.Hash("password123")
	require.NoError(t, err)
	stored := &model.User{ID: "user-1", Email: "test@example.com", PasswordHash: hashedPassword}

	tests := []struct {
		name          string
		creds         Credentials
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful login",
			creds: Credentials{Email: "test@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
		},
		{
			name:          "missing fields",
			creds:         Credentials{Email: "test@example.com"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrMissingCredentials,
		},
		{
			name:  "user not found",
			creds: Credentials{Email: "notfound@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, repository.ErrNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:  "wrong password",
			creds: Credentials{Email: "test@example.com", Password: "wrong"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)
			svc, jwtService := newTestAuthService(mockRepo, new(MockTokenStore))

			token, err := svc.Login(context.Background(), tt.creds)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				claims, err := jwtService.Verify(token)
				require.NoError(t, err)
				assert.Equal(t, "user-1", claims.UserID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	store := repository.NewMemoryStore()
	svc, jwtService := newTestAuthService(store.Users(), auth.NewTokenStore(nil))
	ctx := context.Background()
	creds := Credentials{Email: "ada@example.com", Password: "correct horse"}

	registered, err := svc.Register(ctx, creds)
	require.NoError(t, err)
	loggedIn, err := svc.Login(ctx, creds)
	require.NoError(t, err)

	c1, err := jwtService.Verify(registered)
	require.NoError(t, err)
	c2, err := jwtService.Verify(loggedIn)
	require.NoError(t, err)
	assert.Equal(t, c1.UserID, c2.UserID)

	_, err = svc.Register(ctx, creds)
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
}

func TestAuthService_Me(t *testing.T) {
	svc, _ := newTestAuthService(new(MockUserRepository), new(MockTokenStore))

	_, err := svc.Me(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrTokenMissing)

	ctx := identity.WithUser(context.Background(), &model.User{ID: "user-1", Email: "ada@example.com"})
	profile, err := svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Profile{UserID: "user-1", Email: "ada@example.com"}, *profile)
}

func TestAuthService_Authenticate(t *testing.T) {
	user := &model.User{ID: "user-1", Email: "ada@example.com"}

	tests := []struct {
		name          string
		claims        *auth.Claims
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:   "live user",
			claims: &auth.Claims{UserID: "user-1"},
			setupMock: func(r *MockUserRepository, s *MockTokenStore) {
				r.On("FindByID", mock.Anything, "user-1").Return(user, nil)
			},
		},
		{
			name:   "user deleted after issuance",
			claims: &auth.Claims{UserID: "gone"},
			setupMock: func(r *MockUserRepository, s *MockTokenStore) {
				r.On("FindByID", mock.Anything, "gone").Return(nil, repository.ErrNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:   "revoked token",
			claims: claimsWithID("user-1", "jti-1"),
			setupMock: func(r *MockUserRepository, s *MockTokenStore) {
				s.On("IsRevoked", mock.Anything, "jti-1").Return(true, nil)
			},
			expectedError: apperrors.ErrTokenRevoked,
		},
		{
			name:   "token not revoked",
			claims: claimsWithID("user-1", "jti-2"),
			setupMock: func(r *MockUserRepository, s *MockTokenStore) {
				s.On("IsRevoked", mock.Anything, "jti-2").Return(false, nil)
				r.On("FindByID", mock.Anything, "user-1").Return(user, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockStore)
			svc, _ := newTestAuthService(mockRepo, mockStore)

			got, err := svc.Authenticate(context.Background(), tt.claims)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, user, got)
			}

			mockRepo.AssertExpectations(t)
			mockStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	mockStore := new(MockTokenStore)
	svc, jwtService := newTestAuthService(new(MockUserRepository), mockStore)

	token, err := jwtService.Issue("user-1")
	require.NoError(t, err)
	claims, err := jwtService.Verify(token)
	require.NoError(t, err)

	mockStore.On("Revoke", mock.Anything, claims.ID, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 0 && ttl <= time.Hour
	})).Return(nil)

	require.NoError(t, svc.Logout(context.Background(), claims))
	mockStore.AssertExpectations(t)
}

func claimsWithID(userID, tokenID string) *auth.Claims {
	c := &auth.Claims{UserID: userID}
	c.ID = tokenID
	return c
}
