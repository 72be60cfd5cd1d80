package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Year   int             `binding:"year"`
	Month  int             `binding:"month"`
	Date   string          `binding:"omitempty,date_only"`
	Amount decimal.Decimal `binding:"gt=0"`
}

func TestRegister(t *testing.T) {
	Register()
	v := binding.Validator.Engine().(*validator.Validate)
	ok := decimal.RequireFromString("10.50")

	tests := []struct {
		name  string
		input sample
		valid bool
	}{
		{"valid", sample{Year: 2025, Month: 3, Date: "2025-03-01", Amount: ok}, true},
		{"no_date", sample{Year: 2025, Month: 12, Amount: ok}, true},
		{"month_zero", sample{Year: 2025, Month: 0, Amount: ok}, false},
		{"month_13", sample{Year: 2025, Month: 13, Amount: ok}, false},
		{"year_short", sample{Year: 25, Month: 1, Amount: ok}, false},
		{"bad_date", sample{Year: 2025, Month: 1, Date: "01/03/2025", Amount: ok}, false},
		{"zero_amount", sample{Year: 2025, Month: 1, Amount: decimal.Zero}, false},
		{"negative_amount", sample{Year: 2025, Month: 1, Amount: decimal.NewFromInt(-3)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
