package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "contactbook/internal/errors"
	"contactbook/internal/identity"
	"contactbook/internal/model"
	"contactbook/internal/repository"
)

// Pagination defaults applied when page or limit is not positive.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit caps the page size a caller may request.
	MaxLimit = 100
)

// ContactService handles contact operations for the user attached to the context.
type ContactService interface {
	Create(ctx context.Context, fields model.ContactFields) (*model.Contact, error)
	List(ctx context.Context, page, limit int) (*model.ContactPage, error)
	Get(ctx context.Context, id string) (*model.Contact, error)
	Update(ctx context.Context, id string, fields model.ContactFields) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
}

type contactService struct {
	repo     repository.ContactRepository
	validate *validator.Validate
}

// NewContactService creates a new contact service.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{
		repo:     repo,
		validate: validator.New(),
	}
}

// scope returns the owner every operation is restricted to.
func (s *contactService) scope(ctx context.Context) (string, error) {
	user, ok := identity.UserFromContext(ctx)
	if !ok {
		return "", apperrors.ErrTokenMissing
	}
	return user.ID, nil
}

func (s *contactService) notFound(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrContactNotFound
	}
	return fmt.Errorf("%s contact: %w", op, err)
}

// Create stores a new contact owned by the current user.
func (s *contactService) Create(ctx context.Context, fields model.ContactFields) (*model.Contact, error) {
	owner, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(fields); err != nil {
		return nil, apperrors.ErrMissingContactFields
	}

	contact := &model.Contact{OwnerID: owner}
	contact.Apply(fields)
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return contact, nil
}

// List returns one page of the current user's contacts, newest first.
func (s *contactService) List(ctx context.Context, page, limit int) (*model.ContactPage, error) {
	owner, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	total, err := s.repo.CountByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	contacts := []model.Contact{}
	// Pages past the last one are empty; checking before multiplying keeps
	// the offset from overflowing.
	if int64(page) <= totalPages {
		contacts, err = s.repo.ListByOwner(ctx, owner, (page-1)*limit, limit)
		if err != nil {
			return nil, fmt.Errorf("list contacts: %w", err)
		}
	}

	return &model.ContactPage{
		Contacts:      contacts,
		CurrentPage:   page,
		TotalPages:    int(totalPages),
		TotalContacts: total,
	}, nil
}

// Get returns an owned contact.
func (s *contactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	owner, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}
	contact, err := s.repo.FindByIDForOwner(ctx, owner, id)
	if err != nil {
		return nil, s.notFound(err, "get")
	}
	return contact, nil
}

// Update replaces the editable fields of an owned contact.
func (s *contactService) Update(ctx context.Context, id string, fields model.ContactFields) (*model.Contact, error) {
	owner, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(fields); err != nil {
		return nil, apperrors.ErrMissingContactFields
	}
	contact, err := s.repo.UpdateForOwner(ctx, owner, id, fields)
	if err != nil {
		return nil, s.notFound(err, "update")
	}
	return contact, nil
}

// Delete removes an owned contact.
func (s *contactService) Delete(ctx context.Context, id string) error {
	owner, err := s.scope(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteForOwner(ctx, owner, id); err != nil {
		return s.notFound(err, "delete")
	}
	return nil
}
