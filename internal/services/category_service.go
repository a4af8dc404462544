package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// GetCategories returns every category ordered by name.
func (s *categoryService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetActiveCategories returns the categories users may pick for new expenses.
func (s *categoryService) GetActiveCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("is_active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(name, icon, color string, description *string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	if err := s.ensureNameAvailable(name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        name,
		Icon:        icon,
		Color:       color,
		Description: description,
		IsActive:    true,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// UpdateCategory updates a category's fields
func (s *categoryService) UpdateCategory(id string, update CategoryUpdate) (*models.Category, error) {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name != "" && !strings.EqualFold(name, category.Name) {
			if err := s.ensureNameAvailable(name, id); err != nil {
				return nil, err
			}
		}
		if name != "" {
			updates["name"] = name
		}
	}
	if update.Icon != nil && *update.Icon != "" {
		updates["icon"] = *update.Icon
	}
	if update.Color != nil && *update.Color != "" {
		updates["color"] = *update.Color
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetCategoryByID(id)
}

// DeleteCategory removes a category. Default categories are locked.
// Expenses keep their category name snapshot.
func (s *categoryService) DeleteCategory(id string) error {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return err
	}
	if category.IsDefault {
		return apperrors.ErrCategoryLocked
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ensureNameAvailable rejects names already used by another category,
// ignoring case.
func (s *categoryService) ensureNameAvailable(name, excludeID string) error {
	query := s.db.Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}
