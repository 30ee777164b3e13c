package services

import (
	"gorm.io/gorm"

	"customer-backend/models"
)

type CountryService struct {
	DB *gorm.DB
}

func NewCountryService(db *gorm.DB) *CountryService {
	return &CountryService{DB: db}
}

// All returns every country ordered by name.
func (s *CountryService) All() ([]models.Country, error) {
	var countries []models.Country
	if err := s.DB.Order("name ASC").Find(&countries).Error; err != nil {
		return nil, err
	}
	return countries, nil
}

func (s *CountryService) GetByID(id uint) (*models.Country, error) {
	var country models.Country
	if err := s.DB.First(&country, id).Error; err != nil {
		return nil, err
	}
	return &country, nil
}
