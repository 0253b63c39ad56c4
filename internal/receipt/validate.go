package receipt

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const maxAmountLength = 32

var (
	errAmountTooLong  = errors.New("is too long")
	errAmountNotPlain = errors.New("must be written as a plain decimal number")
	errAmountNaN      = errors.New("must be a decimal number")
	errAmountNegative = errors.New("must not be negative")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := parseAmount(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("registering amount validation: %v", err))
	}

	return v
}

// parseAmount parses a non-negative monetary amount such as "35.35"
func parseAmount(s string) (decimal.Decimal, error) {
	if len(s) > maxAmountLength {
		return decimal.Zero, errAmountTooLong
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errAmountNaN
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, errAmountNotPlain
	}
	if d.IsNegative() {
		return decimal.Zero, errAmountNegative
	}
	return d, nil
}

// Validate checks a receipt against the model constraints and returns a
// *ValidationError describing the first violation.
func Validate(r Receipt) error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalid("receipt", "could not be validated")
	}
	fe := fieldErrs[0]
	return invalid(fieldPath(fe.Namespace()), reason(fe))
}

// fieldPath strips the struct name from a validator namespace,
// e.g. "Receipt.items[2].price" becomes "items[2].price".
func fieldPath(namespace string) string {
	if _, path, ok := strings.Cut(namespace, "."); ok {
		return path
	}
	return namespace
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		switch fe.Param() {
		case "2006-01-02":
			return "must be a calendar date in YYYY-MM-DD form"
		case "15:04":
			return "must be a 24-hour time in HH:MM form"
		}
		return "is not a valid date or time"
	case "amount":
		if _, err := parseAmount(fmt.Sprint(fe.Value())); err != nil {
			return err.Error()
		}
	}
	return "is invalid"
}
