package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/go-playground/validator/v10"
)

// Instagram handles, with or without the leading @.
var instagramRegex = regexp.MustCompile(`^@?[a-zA-Z0-9._]{1,30}$`)

// Brazilian phone numbers: optional area code, 4-5 digit prefix.
var phoneRegex = regexp.MustCompile(`^(\(?\d{2}\)?\s?)?(\d{4,5})-?(\d{4})$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("email_format", func(fl validator.FieldLevel) bool {
		return checkmail.ValidateFormat(fl.Field().String()) == nil
	})
	v.RegisterValidation("instagram_handle", func(fl validator.FieldLevel) bool {
		return instagramRegex.MatchString(fl.Field().String())
	})
	v.RegisterValidation("br_phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})

	return v
}

func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	// Format validation errors
	var msgs []string
	for _, err := range err.(validator.ValidationErrors) {
		field := strings.ToLower(err.Field())
		tag := err.Tag()
		param := err.Param()

		switch tag {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, field+" must be at least "+param+" characters")
		case "max":
			msgs = append(msgs, field+" must be at most "+param+" characters")
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+param)
		case "email_format":
			msgs = append(msgs, field+" must be a valid email")
		case "instagram_handle":
			msgs = append(msgs, field+" must be a valid instagram handle")
		case "br_phone":
			msgs = append(msgs, field+" must be a valid phone number")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}

	return errors.New(strings.Join(msgs, ", "))
}
