package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ShippingInfo is the contact and address block collected at the Shipping
// step. It validates as a unit before the session may advance.
type ShippingInfo struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required,e164"`
	Address1   string `json:"address1" validate:"required"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city" validate:"required"`
	Region     string `json:"region" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required,iso3166_1_alpha2"`
}

// ValidationError carries field-level messages back to the form. It never
// propagates past the Shipping step response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return fmt.Sprintf("invalid shipping info: %s", strings.Join(keys, ", "))
}

var validate = validator.New()

// ValidateShippingInfo checks all fields and returns a *ValidationError
// with one message per failing field, or nil when the info is complete.
func ValidateShippingInfo(info ShippingInfo) error {
	err := validate.Struct(info)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	fields := make(map[string]string)
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fieldName(fe.Field())] = fieldMessage(fe)
		}
	} else {
		fields["_"] = err.Error()
	}

	return &ValidationError{Fields: fields}
}

// fieldName maps struct field names to their json names for the form.
func fieldName(structField string) string {
	switch structField {
	case "Email":
		return "email"
	case "Name":
		return "name"
	case "Phone":
		return "phone"
	case "Address1":
		return "address1"
	case "Address2":
		return "address2"
	case "City":
		return "city"
	case "Region":
		return "region"
	case "PostalCode":
		return "postal_code"
	case "Country":
		return "country"
	default:
		return strings.ToLower(structField)
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "e164":
		return "must be a valid phone number in international format"
	case "iso3166_1_alpha2":
		return "must be a two-letter country code"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
