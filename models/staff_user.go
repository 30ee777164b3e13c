package models

import (
	"time"

	"gorm.io/gorm"
)

// StaffUser is an authenticated operator of the customer app.
type StaffUser struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FullName  string         `json:"full_name"`
	Email     string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string         `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
