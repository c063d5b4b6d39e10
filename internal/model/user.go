package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account that owns contacts. Email is compared
// case-sensitively on every backend.
type User struct {
	ID           string    `json:"id" gorm:"type:char(36);primaryKey" bson:"_id"`
	Email        string    `json:"email" gorm:"type:varchar(255) COLLATE utf8mb4_bin;uniqueIndex;not null" bson:"email"`
	PasswordHash string    `json:"-" gorm:"size:255;not null" bson:"password"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// BeforeCreate sets the ID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Profile is the public view of the authenticated user.
type Profile struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Profile returns the public view of u.
func (u *User) Profile() Profile {
	return Profile{UserID: u.ID, Email: u.Email}
}
