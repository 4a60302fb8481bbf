package model

import (
	"time"

	"gorm.io/datatypes"
)

// User is a landlord account.
type User struct {
	ID           int64   `gorm:"primaryKey"`
	Username     string  `gorm:"uniqueIndex;size:150;not null"`
	Email        string  `gorm:"size:254"`
	FirstName    string  `gorm:"size:150"`
	LastName     string  `gorm:"size:150"`
	Title        *string `gorm:"size:30"`
	ProfilePic   *string `gorm:"size:255"`
	PasswordHash string  `gorm:"size:255;not null" json:"-"`
	IsStaff      bool
	IsActive     bool `gorm:"not null;default:true"`
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Associations
	Properties []UserProperty `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	}
	return u.Username
}

// UserProperty assigns a property to a landlord. A pair may exist only once.
type UserProperty struct {
	ID             int64          `gorm:"primaryKey" json:"id"`
	UserID         int64          `gorm:"not null;uniqueIndex:idx_user_property" json:"user_id"`
	PropertyID     int64          `gorm:"not null;uniqueIndex:idx_user_property;index" json:"property_id"`
	AssignmentDate datatypes.Date `gorm:"not null" json:"assignment_date"`

	// Associations
	User     User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Property Property `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (up UserProperty) String() string {
	return up.User.Username + " - " + up.Property.Name
}
