// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	minYear = 1000
	maxYear = 9999
)

// Register registers all custom validators with the Gin binding engine.
// decimal.Decimal fields validate as numbers, so tags like gt=0 apply to amounts.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("year", validateYear)
		_ = v.RegisterValidation("month", validateMonth)
		_ = v.RegisterValidation("date_only", validateDateOnly)
	}
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

func validateYear(fl validator.FieldLevel) bool {
	y := fl.Field().Int()
	return y >= minYear && y <= maxYear
}

func validateMonth(fl validator.FieldLevel) bool {
	m := fl.Field().Int()
	return m >= 1 && m <= 12
}

func validateDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}
