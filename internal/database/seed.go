package database

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"spendwise/internal/logger"
	"spendwise/internal/models"
)

// SeedAdmin describes the administrator account created on first start.
type SeedAdmin struct {
	Username string
	Password string
	Email    string
}

func strPtr(s string) *string { return &s }

// DefaultCategories is the built-in category set. These rows are flagged
// IsDefault and cannot be deleted.
var DefaultCategories = []models.Category{
	{Name: "Food", Icon: "utensils", Color: "#FF6B6B", Description: strPtr("Food and dining expenses")},
	{Name: "Transport", Icon: "car", Color: "#4ECDC4", Description: strPtr("Transportation and travel expenses")},
	{Name: "Bills", Icon: "file-text", Color: "#45B7D1", Description: strPtr("Utility bills and subscriptions")},
	{Name: "Shopping", Icon: "shopping-bag", Color: "#96CEB4", Description: strPtr("Shopping and retail purchases")},
	{Name: "Investment", Icon: "trending-up", Color: "#FFEAA7", Description: strPtr("Investments and savings")},
	{Name: "Entertainment", Icon: "film", Color: "#DDA0DD", Description: strPtr("Entertainment and leisure activities")},
	{Name: "Healthcare", Icon: "heart", Color: "#FF9FF3", Description: strPtr("Medical and healthcare expenses")},
	{Name: "Education", Icon: "book", Color: "#54A0FF", Description: strPtr("Education and learning expenses")},
	{Name: "Others", Icon: "more-horizontal", Color: "#A0A0A0", Description: strPtr("Other miscellaneous expenses")},
}

// Seed inserts the default categories and an administrator when the
// respective tables are empty. It is safe to run repeatedly.
func Seed(db *gorm.DB, admin SeedAdmin) error {
	if err := seedCategories(db); err != nil {
		return err
	}
	return seedAdmin(db, admin)
}

func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	categories := make([]models.Category, len(DefaultCategories))
	for i, c := range DefaultCategories {
		c.IsDefault = true
		c.IsActive = true
		categories[i] = c
	}
	if err := db.Create(&categories).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	logger.Get().Infow("Seeded default categories", "count", len(categories))
	return nil
}

func seedAdmin(db *gorm.DB, admin SeedAdmin) error {
	if admin.Username == "" || admin.Password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("username = ?", admin.Username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	user := &models.User{
		Username:  admin.Username,
		Email:     admin.Email,
		Password:  string(hashed),
		FirstName: "System",
		LastName:  "Administrator",
		Role:      models.UserRoleAdmin,
		IsActive:  true,
		Currency:  models.DefaultCurrency,
	}
	if err := db.Create(user).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logger.Get().Infow("Seeded administrator", "username", admin.Username)
	return nil
}
