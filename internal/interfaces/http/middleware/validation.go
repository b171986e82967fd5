package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/fieldsales/backend/internal/domain/order"
)

// RegisterValidations installs custom binding validators on gin's
// validator engine. Call once at startup.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("orderstage", validOrderStage)
}

// validOrderStage accepts only known composition stages
func validOrderStage(fl validator.FieldLevel) bool {
	return order.Stage(fl.Field().String()).IsValid()
}
