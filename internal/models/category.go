package models

// Fallback display values used when an expense references a category that
// no longer exists.
const (
	UnknownCategoryName  = "Unknown"
	UnknownCategoryColor = "#A0A0A0"
	UnknownCategoryIcon  = "more-horizontal"
)

// Category is a global expense category shared by all users.
type Category struct {
	Base
	Name        string  `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Icon        string  `gorm:"size:50" json:"icon"`
	Color       string  `gorm:"size:7" json:"color"`
	Description *string `gorm:"size:200" json:"description,omitempty"`
	IsDefault   bool    `gorm:"default:false" json:"is_default"`
	IsActive    bool    `gorm:"default:true" json:"is_active"`
}
