package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"customer-backend/models"
	"customer-backend/utils"
)

type CountryStore interface {
	All() ([]models.Country, error)
	GetByID(id uint) (*models.Country, error)
}

type CountryController struct {
	Svc CountryStore
	Log zerolog.Logger
}

func NewCountryController(svc CountryStore, logger zerolog.Logger) *CountryController {
	return &CountryController{
		Svc: svc,
		Log: logger.With().Str("component", "CountryController").Logger(),
	}
}

// ListCountries handles GET /api/countries, sorted by name.
func (ctrl *CountryController) ListCountries(c *gin.Context) {
	countries, err := ctrl.Svc.All()
	if err != nil {
		ctrl.Log.Error().Err(err).Msg("Failed to fetch countries.")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch countries")
		return
	}
	utils.JSONDataMessage(c, http.StatusOK, countries, "Countries retrieved successfully")
}

// GetCountry handles GET /api/countries/:id.
func (ctrl *CountryController) GetCountry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "Invalid country ID")
		return
	}

	country, err := ctrl.Svc.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Country not found")
			return
		}
		ctrl.Log.Error().Err(err).Uint("id", id).Msg("Failed to fetch country.")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch country")
		return
	}

	utils.JSONDataMessage(c, http.StatusOK, country, "Country retrieved successfully")
}
