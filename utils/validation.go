package utils

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"customer-backend/models"
)

var validate = validator.New()

// Human-readable messages per field+tag, matching what the form displays.
var customerMessages = map[string]string{
	"FullName.required":    "Full name is required",
	"Email.required":       "Email is required",
	"Email.email":          "Invalid email format",
	"PhoneNumber.required": "Phone number is required",
	"PhoneNumber.number":   "Phone number must contain only digits",
	"Address.required":     "Address is required",
	"BirthDate.required":   "Birth date is required",
	"Nationality.required": "Nationality is required",
	"Nationality.oneof":    "Nationality must be either wni or wna",
}

func parseDateField(v string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ValidateCustomerInput checks a create/update payload and returns every
// violation joined with ", ", or "" when the payload is valid.
func ValidateCustomerInput(in models.CustomerInput) string {
	var msgs []string

	if err := validate.Struct(in); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				key := fe.StructField() + "." + fe.Tag()
				if msg, ok := customerMessages[key]; ok {
					msgs = append(msgs, msg)
				} else {
					msgs = append(msgs, "Invalid value for "+fe.StructField())
				}
			}
		} else {
			msgs = append(msgs, err.Error())
		}
	}

	if in.BirthDate != "" {
		if t, ok := parseDateField(in.BirthDate); !ok {
			msgs = append(msgs, "Invalid birth date format")
		} else if t.After(time.Now()) {
			msgs = append(msgs, "Birth date cannot be in the future")
		}
	}

	// Cross-field rule: a foreign customer must be linked to a country.
	if in.Nationality == models.NationalityWNA && in.CountryID == nil {
		msgs = append(msgs, "Country selection is required for WNA nationality")
	}

	return strings.Join(msgs, ", ")
}
