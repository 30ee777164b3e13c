package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"customer-backend/controllers"
	"customer-backend/models"
	"customer-backend/services"
)

// fakeCustomerStore is a scriptable CustomerStore.
type fakeCustomerStore struct {
	listFunc   func(p services.CustomerListParams) ([]models.Customer, int64, error)
	getFunc    func(id uint) (*models.Customer, error)
	createFunc func(in models.CustomerInput, createdBy uint) (*models.Customer, error)
	updateFunc func(id uint, in models.CustomerInput) (*models.Customer, error)
	deleteFunc func(id uint) error
	statsFunc  func() (*models.CustomerStats, error)
}

func (f *fakeCustomerStore) List(p services.CustomerListParams) ([]models.Customer, int64, error) {
	return f.listFunc(p)
}
func (f *fakeCustomerStore) GetByID(id uint) (*models.Customer, error) { return f.getFunc(id) }
func (f *fakeCustomerStore) Create(in models.CustomerInput, createdBy uint) (*models.Customer, error) {
	return f.createFunc(in, createdBy)
}
func (f *fakeCustomerStore) Update(id uint, in models.CustomerInput) (*models.Customer, error) {
	return f.updateFunc(id, in)
}
func (f *fakeCustomerStore) Delete(id uint) error { return f.deleteFunc(id) }
func (f *fakeCustomerStore) Stats() (*models.CustomerStats, error) { return f.statsFunc() }

func newRouter(store *fakeCustomerStore, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := controllers.NewCustomerController(store, zerolog.Nop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
	})
	r.GET("/api/customers", ctrl.ListCustomers)
	r.POST("/api/customers", ctrl.CreateCustomer)
	r.GET("/api/customers/stats", ctrl.GetStats)
	r.GET("/api/customers/:id", ctrl.GetCustomer)
	r.PUT("/api/customers/:id", ctrl.UpdateCustomer)
	r.DELETE("/api/customers/:id", ctrl.DeleteCustomer)
	return r
}

func TestListCustomers(t *testing.T) {
	store := &fakeCustomerStore{
		listFunc: func(p services.CustomerListParams) ([]models.Customer, int64, error) {
			assert.Equal(t, 2, p.Page)
			assert.Equal(t, 10, p.Limit)
			assert.Equal(t, "wni", p.Filter)
			assert.Equal(t, "full_name", p.SortBy)
			assert.Equal(t, "asc", p.SortOrder)
			assert.Equal(t, "jane", p.Search)
			return []models.Customer{{ID: 11, FullName: "Jane Smith"}}, 15, nil
		},
	}
	r := newRouter(store, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/customers?page=2&limit=10&filter=wni&sortBy=full_name&sortOrder=asc&search=jane", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data       []models.Customer `json:"data"`
		Page       int               `json:"page"`
		Limit      int               `json:"limit"`
		Total      int64             `json:"total"`
		TotalPages int64             `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, int64(15), body.Total)
	assert.Equal(t, int64(2), body.TotalPages)
}

func TestListCustomersClampsPage(t *testing.T) {
	store := &fakeCustomerStore{
		listFunc: func(p services.CustomerListParams) ([]models.Customer, int64, error) {
			assert.Equal(t, 1, p.Page)
			assert.Equal(t, 10, p.Limit)
			return []models.Customer{}, 0, nil
		},
	}
	r := newRouter(store, 1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers?page=0&limit=-5", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Page, "the echoed page must match the page served")
	assert.Equal(t, 10, body.Limit)
}

func TestGetCustomerNotFound(t *testing.T) {
	store := &fakeCustomerStore{
		getFunc: func(id uint) (*models.Customer, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	r := newRouter(store, 1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers/42", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Customer not found")
}

func TestCreateCustomer(t *testing.T) {
	t.Run("Valid payload returns 201 with the created record", func(t *testing.T) {
		store := &fakeCustomerStore{
			createFunc: func(in models.CustomerInput, createdBy uint) (*models.Customer, error) {
				assert.Equal(t, uint(7), createdBy)
				return &models.Customer{ID: 1, FullName: in.FullName, CreatedBy: createdBy}, nil
			},
		}
		r := newRouter(store, 7)

		payload := `{
			"full_name": "Jane Smith",
			"email": "jane@example.com",
			"phone_number": "081234567890",
			"address": "1 Example Street",
			"birth_date": "1990-05-20",
			"nationality": "wni"
		}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var created models.Customer
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, uint(1), created.ID)
		assert.Equal(t, uint(7), created.CreatedBy)
	})

	t.Run("Foreign customer without country is rejected", func(t *testing.T) {
		store := &fakeCustomerStore{
			createFunc: func(models.CustomerInput, uint) (*models.Customer, error) {
				t.Fatal("create must not be called for an invalid payload")
				return nil, nil
			},
		}
		r := newRouter(store, 7)

		payload := `{
			"full_name": "John Doe",
			"email": "john@example.com",
			"phone_number": "081234567890",
			"address": "1 Example Street",
			"birth_date": "1985-01-15",
			"nationality": "wna",
			"country_id": null
		}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Country selection is required for WNA nationality")
	})
}

func TestDeleteCustomer(t *testing.T) {
	t.Run("Existing customer", func(t *testing.T) {
		deleted := uint(0)
		store := &fakeCustomerStore{
			deleteFunc: func(id uint) error {
				deleted = id
				return nil
			},
		}
		r := newRouter(store, 1)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/customers/5", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(5), deleted)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Nil(t, body["data"])
		assert.Equal(t, "Customer deleted successfully", body["message"])
	})

	t.Run("Missing customer", func(t *testing.T) {
		store := &fakeCustomerStore{
			deleteFunc: func(uint) error { return gorm.ErrRecordNotFound },
		}
		r := newRouter(store, 1)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/customers/99", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetStats(t *testing.T) {
	store := &fakeCustomerStore{
		statsFunc: func() (*models.CustomerStats, error) {
			return &models.CustomerStats{Total: 12, WNI: 9, WNA: 3}, nil
		},
	}
	r := newRouter(store, 1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":12,"wni":9,"wna":3}`, w.Body.String())
}
