package models

type Country struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Code string `gorm:"size:2;not null" json:"code"`
}
