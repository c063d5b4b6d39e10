package repository

import (
	"context"
	"errors"

	"contactbook/internal/model"
)

var (
	// ErrNotFound is returned when no record matches the query.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// ContactRepository defines contact persistence operations. Every method
// except Create filters by owner; a record owned by someone else is
// indistinguishable from a missing one.
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]model.Contact, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	FindByIDForOwner(ctx context.Context, ownerID, id string) (*model.Contact, error)
	UpdateForOwner(ctx context.Context, ownerID, id string, fields model.ContactFields) (*model.Contact, error)
	DeleteForOwner(ctx context.Context, ownerID, id string) error
}
