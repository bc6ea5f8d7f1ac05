package service

import (
	"fmt"

	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// moneyPlaces is the scale of every stored amount column
const moneyPlaces = 2

func fitsMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(moneyPlaces))
}

func moneyScaleError(field, label string) apperror.FieldError {
	return apperror.FieldError{Field: field, Message: fmt.Sprintf("%s must have at most %d decimal places", label, moneyPlaces)}
}
