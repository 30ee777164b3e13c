package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"customer-backend/middleware"
	"customer-backend/models"
	"customer-backend/services"
	"customer-backend/utils"
)

// CustomerStore is the slice of CustomerService the handlers need.
type CustomerStore interface {
	List(p services.CustomerListParams) ([]models.Customer, int64, error)
	GetByID(id uint) (*models.Customer, error)
	Create(in models.CustomerInput, createdBy uint) (*models.Customer, error)
	Update(id uint, in models.CustomerInput) (*models.Customer, error)
	Delete(id uint) error
	Stats() (*models.CustomerStats, error)
}

type CustomerController struct {
	Svc CustomerStore
	Log zerolog.Logger
}

func NewCustomerController(svc CustomerStore, logger zerolog.Logger) *CustomerController {
	return &CustomerController{
		Svc: svc,
		Log: logger.With().Str("component", "CustomerController").Logger(),
	}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ListCustomers handles GET /api/customers with pagination, search, filter
// and sorting.
func (ctrl *CustomerController) ListCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	params := services.CustomerListParams{
		Page:      page,
		Limit:     limit,
		Search:    c.Query("search"),
		Filter:    c.DefaultQuery("filter", "all"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.DefaultQuery("sortOrder", "asc"),
	}
	// The response echoes the params, so clamp here rather than relying on
	// the service's internal defaults.
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}

	customers, total, err := ctrl.Svc.List(params)
	if err != nil {
		ctrl.Log.Error().Err(err).Msg("Failed to fetch customers.")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch customers")
		return
	}

	totalPages := (total + int64(params.Limit) - 1) / int64(params.Limit)

	c.JSON(http.StatusOK, gin.H{
		"data":       customers,
		"page":       params.Page,
		"limit":      params.Limit,
		"total":      total,
		"totalPages": totalPages,
	})
}

// GetCustomer handles GET /api/customers/:id.
func (ctrl *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	customer, err := ctrl.Svc.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Customer not found")
			return
		}
		ctrl.Log.Error().Err(err).Uint("id", id).Msg("Failed to fetch customer.")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch customer")
		return
	}

	utils.JSONDataMessage(c, http.StatusOK, customer, "Customer retrieved successfully")
}

// CreateCustomer handles POST /api/customers.
func (ctrl *CustomerController) CreateCustomer(c *gin.Context) {
	var in models.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid customer payload: "+err.Error())
		return
	}

	if msg := utils.ValidateCustomerInput(in); msg != "" {
		utils.JSONError(c, http.StatusBadRequest, msg)
		return
	}

	customer, err := ctrl.Svc.Create(in, middleware.UserID(c))
	if err != nil {
		ctrl.Log.Error().Err(err).Msg("Failed to create customer.")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer handles PUT /api/customers/:id, replacing every editable
// field.
func (ctrl *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "Customer ID is required")
		return
	}

	var in models.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid customer payload: "+err.Error())
		return
	}

	if msg := utils.ValidateCustomerInput(in); msg != "" {
		utils.JSONError(c, http.StatusBadRequest, msg)
		return
	}

	customer, err := ctrl.Svc.Update(id, in)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Customer not found")
			return
		}
		ctrl.Log.Error().Err(err).Uint("id", id).Msg("Failed to update customer.")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	utils.JSONDataMessage(c, http.StatusOK, customer, "Customer updated successfully")
}

// DeleteCustomer handles DELETE /api/customers/:id.
func (ctrl *CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	if err := ctrl.Svc.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Customer not found")
			return
		}
		ctrl.Log.Error().Err(err).Uint("id", id).Msg("Failed to delete customer.")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}

	utils.JSONDataMessage(c, http.StatusOK, nil, "Customer deleted successfully")
}

// GetStats handles GET /api/customers/stats.
func (ctrl *CustomerController) GetStats(c *gin.Context) {
	stats, err := ctrl.Svc.Stats()
	if err != nil {
		ctrl.Log.Error().Err(err).Msg("Failed to fetch customer stats.")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch customer statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}
