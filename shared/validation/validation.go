// Package validation wraps go-playground/validator with English messages and
// the account-specific rules used by request payloads.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// emailShape is the basic address shape accepted for accounts.
var emailShape = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator validates structs and renders failures as FieldErrors.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New creates a Validator with English translations and the account_email rule.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("account_email", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})

	// max_bytes bounds the encoded length; max counts runes.
	_ = v.RegisterValidation("max_bytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(v, trans)

	_ = v.RegisterTranslation("account_email", trans,
		func(ut ut.Translator) error {
			return ut.Add("account_email", "Please add a valid email", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("account_email")
			return t
		},
	)

	_ = v.RegisterTranslation("max_bytes", trans,
		func(ut ut.Translator) error {
			return ut.Add("max_bytes", "{0} must be at most {1} bytes", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("max_bytes", fe.Field(), fe.Param())
			return t
		},
	)

	return &Validator{validate: v, translator: trans}
}

// Struct validates s. It returns nil when s is valid, otherwise the list of
// offending fields. Non-validation failures (e.g. a nil pointer) are returned
// as a single entry with an empty field name.
func (v *Validator) Struct(s any) []FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(v.translator),
		})
	}

	return out
}

// IsEmail reports whether s has the basic shape of an email address.
func IsEmail(s string) bool {
	return emailShape.MatchString(s)
}
