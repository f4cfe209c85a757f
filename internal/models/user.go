package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is a store customer account kept in the document store.
type User struct {
	ID          string `json:"id" mapstructure:"-"`
	Name        string `json:"name" mapstructure:"name" validate:"required"`
	Address     string `json:"address" mapstructure:"address"`
	PhoneNumber string `json:"phoneNumber" mapstructure:"phoneNumber"`
	Role        string `json:"role" mapstructure:"role"`
}

// Normalize trims the user's text fields.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.PhoneNumber = strings.TrimSpace(u.PhoneNumber)
	u.Role = strings.TrimSpace(u.Role)
}

// Fields returns the fields an admin may edit.
func (u User) Fields() map[string]interface{} {
	return map[string]interface{}{
		"name":        u.Name,
		"address":     u.Address,
		"phoneNumber": u.PhoneNumber,
		"role":        u.Role,
	}
}

// AdminAccount is a dashboard operator allowed to sign in.
type AdminAccount struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string         `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string         `json:"password,omitempty" gorm:"type:varchar(255)" validate:"required,min=6"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
