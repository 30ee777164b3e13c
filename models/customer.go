package models

import (
	"time"

	"gorm.io/datatypes"
)

// Nationality values stored in customers.nationality.
const (
	NationalityWNI = "wni" // domestic
	NationalityWNA = "wna" // foreign
)

type Customer struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FullName    string         `gorm:"size:255;not null;index" json:"full_name"`
	Email       string         `gorm:"size:255;not null;index" json:"email"`
	PhoneNumber string         `gorm:"size:32;not null" json:"phone_number"`
	Address     string         `gorm:"type:text;not null" json:"address"`
	BirthDate   datatypes.Date `json:"birth_date"`
	Nationality string         `gorm:"size:8;not null;index" json:"nationality"`
	CountryID   *uint          `json:"country_id"`
	// Joined country row. The JSON key matches the shape the frontend
	// already consumes.
	Country   *Country  `gorm:"foreignKey:CountryID" json:"countries,omitempty"`
	PhotoURL  *string   `gorm:"size:512" json:"photo_url,omitempty"`
	CreatedBy uint      `gorm:"not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerInput is the editable field set accepted by create and update.
// id, created_by and timestamps are owned by the server.
type CustomerInput struct {
	FullName    string  `json:"full_name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	PhoneNumber string  `json:"phone_number" validate:"required,number"`
	Address     string  `json:"address" validate:"required"`
	BirthDate   string  `json:"birth_date" validate:"required"`
	Nationality string  `json:"nationality" validate:"required,oneof=wni wna"`
	CountryID   *uint   `json:"country_id"`
	PhotoURL    *string `json:"photo_url"`
}

type CustomerStats struct {
	Total int64 `json:"total"`
	WNI   int64 `json:"wni"`
	WNA   int64 `json:"wna"`
}
