// Package validators adapts the model validation rules to echo's Validator hook.
package validators

import (
	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// CustomValidator runs go-playground validate tags through models.ValidateStruct,
// so c.Validate reports *models.ValidationError.
type CustomValidator struct{}

var _ echo.Validator = (*CustomValidator)(nil)

func NewValidator() *CustomValidator {
	return &CustomValidator{}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return models.ValidateStruct(i)
}
