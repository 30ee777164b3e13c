package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"customer-backend/controllers"
	"customer-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controllers into the gin engine.
func SetupRouter(
	cc *controllers.CustomerController,
	coc *controllers.CountryController,
	uc *controllers.UploadController,
	ac *controllers.AuthController,
	sessionSecret string,
	logger zerolog.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Static("/uploads", "./uploads")

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", ac.Login)
		}

		countries := api.Group("/countries")
		{
			countries.GET("", coc.ListCountries)
			countries.GET("/:id", coc.GetCountry)
		}

		customers := api.Group("/customers")
		customers.Use(middleware.RequireAuth(sessionSecret))
		{
			customers.GET("", cc.ListCustomers)
			customers.POST("", cc.CreateCustomer)

			// /stats must come before /:id
			customers.GET("/stats", cc.GetStats)

			customers.GET("/:id", cc.GetCustomer)
			customers.PUT("/:id", cc.UpdateCustomer)
			customers.DELETE("/:id", cc.DeleteCustomer)
		}

		upload := api.Group("/upload")
		upload.Use(middleware.RequireAuth(sessionSecret))
		{
			upload.POST("", uc.Upload)
			upload.DELETE("", uc.Delete)
		}
	}

	return r
}
