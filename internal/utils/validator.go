package utils

import (
	"errors"
	"html"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

const sanitizeTag = "sanitize"

// MaxPasswordBytes is the longest input bcrypt hashes.
const MaxPasswordBytes = 72

// Validator bundles the struct validator with the policies used to sanitize request fields.
type Validator struct {
	Validate  *validator.Validate
	strict    *bluemonday.Policy
	userInput *bluemonday.Policy
}

var (
	instance *Validator
	once     sync.Once
)

var errNotStructPointer = errors.New("sanitize: expected a pointer to a struct")

// GetValidator returns the process wide validator.
func GetValidator() *Validator {
	once.Do(func() {
		instance = &Validator{
			Validate:  validator.New(validator.WithRequiredStructEnabled()),
			strict:    bluemonday.StrictPolicy(),
			userInput: bluemonday.UGCPolicy(),
		}

		registerCustomValidators(instance.Validate)
	})

	return instance
}

// SanitizeData rewrites every string field tagged `sanitize:"strict"` or `sanitize:"ugc"`.
// Strict fields lose all markup and are stored as plain text, ugc fields keep safe markup only.
func (v *Validator) SanitizeData(obj interface{}) error {
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return errNotStructPointer
	}

	rv = rv.Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rv.Field(i)
		if field.Kind() != reflect.String || !field.CanSet() {
			continue
		}

		switch rt.Field(i).Tag.Get(sanitizeTag) {
		case "strict":
			field.SetString(html.UnescapeString(v.strict.Sanitize(field.String())))
		case "ugc":
			field.SetString(v.userInput.Sanitize(field.String()))
		}
	}

	return nil
}

func registerCustomValidators(v *validator.Validate) {
	err := v.RegisterValidation("content_validation", contentValidation)
	if err != nil {
		LogMessage("error", "Error registering content_validation: "+err.Error())
	}

	err = v.RegisterValidation("password_length", passwordLength)
	if err != nil {
		LogMessage("error", "Error registering password_length: "+err.Error())
	}
}

// contentValidation requires valid UTF-8 text that is not only whitespace.
func contentValidation(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return utf8.ValidString(value) && strings.TrimSpace(value) != ""
}

// passwordLength limits the encoded size, max counts runes while bcrypt counts bytes.
func passwordLength(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxPasswordBytes
}
