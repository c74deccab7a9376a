package types

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrMissingData is the sentinel wrapped by every ValidationError.
var ErrMissingData = errors.New("missing data")

// FieldError names one field that failed input validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports the fields of a record that the presentation layer
// must fix before the record may be submitted to the store.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return ErrMissingData.Error() + ": " + strings.Join(names, ", ")
}

// Unwrap lets errors.Is match ErrMissingData.
func (e *ValidationError) Unwrap() error { return ErrMissingData }

var (
	validateOnce sync.Once
	recordCheck  *validator.Validate
)

// recordValidator returns the shared validator. validator.Validate caches
// struct metadata and is safe for concurrent use.
func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Whitespace-only text counts as blank.
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		v.RegisterTagNameFunc(func(sf reflect.StructField) string {
			name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return sf.Name
			}
			return name
		})
		recordCheck = v
	})
	return recordCheck
}

// ValidateGame checks the fields a game must carry before it is added or
// edited: a non-blank name and description and an image reference.
func ValidateGame(g GameRecord) error {
	return validateRecord(g)
}

// ValidateConsole applies the same checks as ValidateGame to a console.
func ValidateConsole(c ConsoleRecord) error {
	return validateRecord(c)
}

func validateRecord(rec any) error {
	err := recordValidator().Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		msg := "This field is required"
		if fe.Tag() == "notblank" {
			msg = "This field must not be blank"
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
