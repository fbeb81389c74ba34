// Package validation wraps go-playground/validator with English messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// Validator validates structs and renders failures as translated messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
	defaultErr       error
)

// Default returns a shared Validator. validator.Validate caches struct
// metadata and is safe for concurrent use.
func Default() (*Validator, error) {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = New()
	})
	return defaultValidator, defaultErr
}

// New creates a Validator that names fields after their mapstructure, yaml
// or db tag, in that order.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(fieldName)
	if err := validate.RegisterValidation("clock", isClock); err != nil {
		return nil, fmt.Errorf("failed to register clock validation: %w", err)
	}
	if err := validate.RegisterTranslation("clock", trans, func(ut ut.Translator) error {
		return ut.Add("clock", "{0} must be a time of day in HH:MM format", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("clock", fe.Field())
		return t
	}); err != nil {
		return nil, fmt.Errorf("failed to register clock translation: %w", err)
	}

	return &Validator{
		validate:   validate,
		translator: trans,
	}, nil
}

// Struct validates s. Validation failures are joined into one error whose
// message lists every translated failure.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	errorMsgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errorMsgs = append(errorMsgs, e.Translate(v.translator))
	}
	return errors.New(strings.Join(errorMsgs, ", "))
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "yaml", "db"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

const clockLayout = "15:04"

// isClock accepts "HH:MM" on a 24 hour clock.
func isClock(fl validator.FieldLevel) bool {
	_, err := time.Parse(clockLayout, fl.Field().String())
	return err == nil
}
