package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"
)

// validationMessage собирает список полей, не прошедших проверку.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "invalid request"
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", e.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of [%s]", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", e.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}

func decimalInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
