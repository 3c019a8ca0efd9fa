// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"sheetfolio/internal/dates"
	"sheetfolio/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("record_action", validateRecordAction)
		_ = v.RegisterValidation("iso_date", validateISODate)
		_ = v.RegisterValidation("analysis_mode", validateAnalysisMode)
	}
}

func validateRecordAction(fl validator.FieldLevel) bool {
	return models.ValidAction(fl.Field().String())
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(dates.Format, fl.Field().String())
	return err == nil
}

func validateAnalysisMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "yearly", "monthly":
		return true
	}
	return false
}
