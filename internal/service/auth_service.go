package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"contactbook/internal/auth"
	apperrors "contactbook/internal/errors"
	"contactbook/internal/identity"
	"contactbook/internal/model"
	"contactbook/internal/repository"
)

// Credentials is the register and login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, creds Credentials) (token string, err error)
	Login(ctx context.Context, creds Credentials) (token string, err error)
	Me(ctx context.Context) (*model.Profile, error)
	Authenticate(ctx context.Context, claims *auth.Claims) (*model.User, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	hasher     *auth.PasswordHasher
	tokenStore auth.TokenStoreInterface
	validate   *validator.Validate
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	tokenStore auth.TokenStoreInterface,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		hasher:     hasher,
		tokenStore: tokenStore,
		validate:   validator.New(),
		now:        time.Now,
	}
}

// Register creates a user with a hashed password and returns a fresh token.
func (s *authService) Register(ctx context.Context, creds Credentials) (string, error) {
	if err := s.validate.Struct(creds); err != nil {
		return "", apperrors.ErrMissingCredentials
	}

	existing, err := s.userRepo.FindByEmail(ctx, creds.Email)
	if err == nil && existing != nil {
		return "", apperrors.ErrUserExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        creds.Email,
		PasswordHash: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, repository.ErrDuplicate) {
			return "", apperrors.ErrUserExists
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Login verifies credentials and returns a fresh token.
func (s *authService) Login(ctx context.Context, creds Credentials) (string, error) {
	if err := s.validate.Struct(creds); err != nil {
		return "", apperrors.ErrMissingCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, creds.Password) {
		return "", apperrors.ErrInvalidPassword
	}

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Me returns the profile of the user attached to ctx.
func (s *authService) Me(ctx context.Context) (*model.Profile, error) {
	user, ok := identity.UserFromContext(ctx)
	if !ok {
		return nil, apperrors.ErrTokenMissing
	}
	profile := user.Profile()
	return &profile, nil
}

// Authenticate resolves verified claims to a live user.
func (s *authService) Authenticate(ctx context.Context, claims *auth.Claims) (*model.User, error) {
	if claims.ID != "" {
		revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, apperrors.ErrTokenRevoked
		}
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// Logout revokes the token described by claims for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims.ID == "" {
		return nil
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return nil
		}
	}

	if err := s.tokenStore.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
