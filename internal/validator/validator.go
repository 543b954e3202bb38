// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("period_type", validatePeriodType)
		_ = v.RegisterValidation("video_category", validateVideoCategory)
	}
}

func validatePeriodType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "daily", "weekly", "monthly":
		return true
	}
	return false
}

func validateVideoCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "budgeting", "saving", "investing", "general":
		return true
	}
	return false
}
