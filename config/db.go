package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"customer-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "customer_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase inserts the baseline rows a fresh install needs: a default
// staff login and the country reference list.
func SeedDatabase() {
	var staffCount int64
	DB.Model(&models.StaffUser{}).Count(&staffCount)
	if staffCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("SEED_STAFF_PASSWORD", "staff123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default staff password: %v", err)
		} else {
			staff := models.StaffUser{
				FullName: "Staff User",
				Email:    "staff@customer.local",
				Password: string(hash),
			}
			if err := DB.Create(&staff).Error; err != nil {
				log.Printf("warning: failed to create default staff user: %v", err)
			} else {
				log.Println("Default staff user seeded")
			}
		}
	}

	var countryCount int64
	DB.Model(&models.Country{}).Count(&countryCount)
	if countryCount == 0 {
		countries := []models.Country{
			{Name: "Australia", Code: "AU"},
			{Name: "China", Code: "CN"},
			{Name: "Germany", Code: "DE"},
			{Name: "India", Code: "IN"},
			{Name: "Japan", Code: "JP"},
			{Name: "Malaysia", Code: "MY"},
			{Name: "Netherlands", Code: "NL"},
			{Name: "Singapore", Code: "SG"},
			{Name: "United Kingdom", Code: "GB"},
			{Name: "United States", Code: "US"},
		}
		if err := DB.Create(&countries).Error; err != nil {
			log.Printf("warning: failed to seed countries: %v", err)
		} else {
			log.Println("Countries seeded")
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// Parents before children so the customers FK resolves.
	if err := DB.AutoMigrate(
		&models.StaffUser{},
		&models.Country{},
		&models.Customer{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
