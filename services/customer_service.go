package services

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"customer-backend/models"
)

// CustomerListParams mirrors the query string of GET /api/customers.
type CustomerListParams struct {
	Page      int
	Limit     int
	Search    string
	Filter    string // "all", "wni" or "wna"
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// Whitelist of sortable columns; anything else leaves the order unspecified.
var sortColumns = map[string]string{
	"full_name":  "full_name",
	"email":      "email",
	"created_at": "created_at",
}

type CustomerService struct {
	DB *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{DB: db}
}

func (s *CustomerService) baseQuery(p CustomerListParams) *gorm.DB {
	q := s.DB.Model(&models.Customer{})
	if p.Filter != "" && p.Filter != "all" {
		q = q.Where("nationality = ?", p.Filter)
	}
	if p.Search != "" {
		like := "%" + p.Search + "%"
		q = q.Where("full_name LIKE ? OR email LIKE ?", like, like)
	}
	return q
}

// List returns one page of customers plus the total match count.
func (s *CustomerService) List(p CustomerListParams) ([]models.Customer, int64, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}

	var total int64
	if err := s.baseQuery(p).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := s.baseQuery(p).Preload("Country")
	if col, ok := sortColumns[p.SortBy]; ok {
		dir := "ASC"
		if p.SortOrder == "desc" {
			dir = "DESC"
		}
		q = q.Order(col + " " + dir)
	}

	customers := make([]models.Customer, 0, p.Limit)
	err := q.Offset((p.Page - 1) * p.Limit).Limit(p.Limit).Find(&customers).Error
	return customers, total, err
}

func (s *CustomerService) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.DB.Preload("Country").First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// parseBirthDate accepts "2006-01-02" and full RFC3339 timestamps; the form
// sends the former, imports the latter.
func parseBirthDate(v string) (datatypes.Date, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return datatypes.Date(t), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)), nil
	}
	return datatypes.Date{}, fmt.Errorf("invalid birth_date %q", v)
}

// Create inserts a new customer owned by the given staff user.
func (s *CustomerService) Create(in models.CustomerInput, createdBy uint) (*models.Customer, error) {
	birthDate, err := parseBirthDate(in.BirthDate)
	if err != nil {
		return nil, err
	}

	customer := models.Customer{
		FullName:    in.FullName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		BirthDate:   birthDate,
		Nationality: in.Nationality,
		CountryID:   in.CountryID,
		PhotoURL:    in.PhotoURL,
		CreatedBy:   createdBy,
	}
	if err := s.DB.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// Update replaces every editable field and returns the row with its joined
// country. created_by is fixed at creation and never touched here.
func (s *CustomerService) Update(id uint, in models.CustomerInput) (*models.Customer, error) {
	var existing models.Customer
	if err := s.DB.First(&existing, id).Error; err != nil {
		return nil, err
	}

	birthDate, err := parseBirthDate(in.BirthDate)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"full_name":    in.FullName,
		"email":        in.Email,
		"phone_number": in.PhoneNumber,
		"address":      in.Address,
		"birth_date":   time.Time(birthDate),
		"nationality":  in.Nationality,
		"country_id":   in.CountryID,
		"photo_url":    in.PhotoURL,
	}
	if err := s.DB.Model(&existing).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

func (s *CustomerService) Delete(id uint) error {
	var existing models.Customer
	if err := s.DB.First(&existing, id).Error; err != nil {
		return err
	}
	return s.DB.Delete(&existing).Error
}

// Stats returns the summary counts shown on the customers dashboard.
func (s *CustomerService) Stats() (*models.CustomerStats, error) {
	var stats models.CustomerStats
	if err := s.DB.Model(&models.Customer{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Customer{}).Where("nationality = ?", models.NationalityWNI).Count(&stats.WNI).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Customer{}).Where("nationality = ?", models.NationalityWNA).Count(&stats.WNA).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
