// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"spendwise/internal/models"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("savings_tx_type", validateSavingsTxType)
		_ = v.RegisterValidation("user_role", validateUserRole)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateSavingsTxType(fl validator.FieldLevel) bool {
	return models.SavingsTransactionType(fl.Field().String()).Valid()
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.UserRoleAdmin, models.UserRoleUser:
		return true
	}
	return false
}

// Describe turns binding failures into a short message naming each field
// and the rule it broke.
func Describe(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "hex_color":
			parts = append(parts, fmt.Sprintf("%s must be a #RRGGBB color", fe.Field()))
		case "savings_tx_type":
			parts = append(parts, fmt.Sprintf("%s must be 'deposit' or 'withdraw'", fe.Field()))
		case "user_role":
			parts = append(parts, fmt.Sprintf("%s must be 'Admin' or 'User'", fe.Field()))
		default:
			if fe.Param() != "" {
				parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			} else {
				parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
		}
	}
	return strings.Join(parts, "; ")
}
