package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

func init() {
	// Report fields by their JSON/form names instead of Go names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	// decimals validate as float64 so gt/gte/lte apply to prices
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		if d, ok := v.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// FieldErrors validates data and returns human messages keyed by field name,
// e.g. {"name": ["The name field is required."]}. Nil means valid.
func FieldErrors(data interface{}) map[string][]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string][]string{"": {err.Error()}}
	}
	out := make(map[string][]string, len(validationErrors))
	for _, fe := range validationErrors {
		key := fieldKey(fe)
		out[key] = append(out[key], message(fe))
	}
	return out
}

// fieldKey drops the root struct name and renders indexes with dots: items.0.quantity
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return indexPattern.ReplaceAllString(ns, ".$1")
}

func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	if i := strings.Index(field, "["); i >= 0 {
		field = field[:i]
	}
	isString := fe.Kind() == reflect.String
	isList := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "min":
		switch {
		case isString:
			return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
		case isList:
			return fmt.Sprintf("The %s field must have at least %s items.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "max":
		switch {
		case isString:
			return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
		case isList:
			return fmt.Sprintf("The %s field must not have more than %s items.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s field must be greater than or equal to %s.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s.", field, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s field must be less than or equal to %s.", field, fe.Param())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "len":
		return fmt.Sprintf("The %s field must be %s characters.", field, fe.Param())
	case "gtfield":
		return fmt.Sprintf("The %s field must be after %s.", field, strings.ReplaceAll(fe.Param(), "_", " "))
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
