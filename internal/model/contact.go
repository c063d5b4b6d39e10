package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is an address-book entry owned by exactly one user.
type Contact struct {
	ID        string    `json:"_id" gorm:"type:char(36);primaryKey" bson:"_id"`
	OwnerID   string    `json:"user" gorm:"column:user_id;type:char(36);not null;index:idx_contacts_owner_created,priority:1" bson:"user"`
	Name      string    `json:"name" gorm:"size:255;not null" bson:"name"`
	Email     string    `json:"email" gorm:"size:255;not null" bson:"email"`
	Phone     string    `json:"phone" gorm:"size:64;not null" bson:"phone"`
	Company   string    `json:"company" gorm:"size:255" bson:"company"`
	JobTitle  string    `json:"jobTitle" gorm:"size:255" bson:"jobTitle"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_contacts_owner_created,priority:2" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NewContactID returns a time-ordered UUIDv7, so ids sort in creation order
// within the same createdAt instant.
func NewContactID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// BeforeCreate sets the ID before creating the record.
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewContactID()
	}
	return nil
}

// ContactFields are the user-editable attributes of a contact.
type ContactFields struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Company  string `json:"company"`
	JobTitle string `json:"jobTitle"`
}

// Apply replaces every editable attribute of c with f.
func (c *Contact) Apply(f ContactFields) {
	c.Name = f.Name
	c.Email = f.Email
	c.Phone = f.Phone
	c.Company = f.Company
	c.JobTitle = f.JobTitle
}

// Fields returns the editable attributes of c.
func (c *Contact) Fields() ContactFields {
	return ContactFields{
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Company:  c.Company,
		JobTitle: c.JobTitle,
	}
}

// ContactPage is one page of a user's contacts, newest first.
type ContactPage struct {
	Contacts      []Contact `json:"contacts"`
	CurrentPage   int       `json:"currentPage"`
	TotalPages    int       `json:"totalPages"`
	TotalContacts int64     `json:"totalContacts"`
}
