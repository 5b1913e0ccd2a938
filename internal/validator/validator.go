// internal/validator/validator.go
package validator

import (
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var Validate *validator.Validate

var nonSpace = regexp.MustCompile(`\S`)

// Bounds for the money tag. Amounts and percentages outside them are
// rejected before any arithmetic or formatting touches them.
const (
	MaxIntegerDigits  = 15
	MaxFractionDigits = 10
)

var moneyLimit = decimal.New(1, MaxIntegerDigits)

// InMoneyRange reports whether d has at most MaxIntegerDigits integer digits
// and MaxFractionDigits fraction digits. The exponent is checked first so a
// value like 1e1000000 is never expanded.
func InMoneyRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -MaxFractionDigits || exp > MaxIntegerDigits {
		return false
	}
	return d.Abs().LessThan(moneyLimit)
}

func init() {
	Validate = validator.New()

	// Field names in errors follow the JSON names clients send.
	Validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Decimals validate as their float value so gt/gte/lte work on them.
	// Out-of-range values become NaN, which only the money tag inspects.
	Validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
		if d, ok := v.Interface().(decimal.Decimal); ok {
			if !InMoneyRange(d) {
				return math.NaN()
			}
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// money: a decimal within InMoneyRange. Put it before gt/lt so the
	// range error is the one reported.
	_ = Validate.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.Float64 {
			return false
		}
		return !math.IsNaN(f.Float())
	})

	// notblank: the string has at least one non-space character.
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonSpace.MatchString(fl.Field().String())
	})
}
