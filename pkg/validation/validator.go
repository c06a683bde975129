// Package validation is the single typed entry point for user-supplied
// fields. Every create and update request passes through UserInput before
// any external call or store mutation happens.
package validation

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Messages are part of the API contract and surface verbatim in 400 bodies.
var (
	ErrMissingBoth    = errors.New("Name and zipcode are required.")
	ErrMissingName    = errors.New("Name is required.")
	ErrMissingZipcode = errors.New("Zipcode is required.")
	ErrInvalidZipcode = errors.New("Zipcode format is not valid.")
)

// US 5-digit zipcode with optional +4 suffix.
var zipcodePattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
		return zipcodePattern.MatchString(fl.Field().String())
	})
	return v
}

// UserInput checks presence and format of the two client-supplied fields.
// Checks run in a fixed order: both missing, name missing, zipcode missing,
// then zipcode format. It has no side effects and is shared by the create
// and update paths.
func UserInput(name, zipcode string) error {
	missingName := validate.Var(name, "required") != nil
	missingZipcode := validate.Var(zipcode, "required") != nil
	switch {
	case missingName && missingZipcode:
		return ErrMissingBoth
	case missingName:
		return ErrMissingName
	case missingZipcode:
		return ErrMissingZipcode
	}
	if err := validate.Var(zipcode, "zipcode"); err != nil {
		return ErrInvalidZipcode
	}
	return nil
}

// IsViolation reports whether err came from the gate, i.e. the request is a
// client error and no side effect has happened yet.
func IsViolation(err error) bool {
	return errors.Is(err, ErrMissingBoth) ||
		errors.Is(err, ErrMissingName) ||
		errors.Is(err, ErrMissingZipcode) ||
		errors.Is(err, ErrInvalidZipcode)
}

// PayloadMessage maps JSON binding failures to a stable client message.
func PayloadMessage(err error) string {
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "Request body is not valid JSON."
	}
	return "Request body is not valid."
}
