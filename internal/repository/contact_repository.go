package repository

import (
	"context"

	"gorm.io/gorm"

	"contactbook/internal/model"
)

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new GORM-backed contact repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) owned(ctx context.Context, ownerID string) *gorm.DB {
	return r.db.WithContext(ctx).Where("user_id = ?", ownerID)
}

// Create creates a new contact.
func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return translate(r.db.WithContext(ctx).Create(contact).Error)
}

// ListByOwner returns a window of the owner's contacts, newest first.
func (r *contactRepository) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]model.Contact, error) {
	contacts := []model.Contact{}
	err := r.owned(ctx, ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// CountByOwner counts the owner's contacts.
func (r *contactRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var total int64
	if err := r.owned(ctx, ownerID).Model(&model.Contact{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// FindByIDForOwner finds a contact by ID among the owner's contacts.
func (r *contactRepository) FindByIDForOwner(ctx context.Context, ownerID, id string) (*model.Contact, error) {
	var contact model.Contact
	if err := r.owned(ctx, ownerID).Where("id = ?", id).First(&contact).Error; err != nil {
		return nil, translate(err)
	}
	return &contact, nil
}

// UpdateForOwner replaces the editable fields of an owned contact.
func (r *contactRepository) UpdateForOwner(ctx context.Context, ownerID, id string, fields model.ContactFields) (*model.Contact, error) {
	var contact model.Contact
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", ownerID).Where("id = ?", id).First(&contact).Error; err != nil {
			return err
		}
		contact.Apply(fields)
		return tx.Save(&contact).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &contact, nil
}

// DeleteForOwner removes an owned contact.
func (r *contactRepository) DeleteForOwner(ctx context.Context, ownerID, id string) error {
	res := r.owned(ctx, ownerID).Where("id = ?", id).Delete(&model.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
