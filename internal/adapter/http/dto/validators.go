package dto

import (
	"errors"
	"html"
	"reflect"
	"regexp"
	"strings"

	"mobile-money-gateway/internal/core/domain"
	"mobile-money-gateway/pkg/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)
	currencyRe   = regexp.MustCompile(`^[A-Za-z]{3}$`)
	msisdnRe     = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("provider", validateProvider)
		_ = v.RegisterValidation("currency", validateCurrency)
		_ = v.RegisterValidation("msisdn", validateMSISDN)
	}
}

func validateProvider(fl validator.FieldLevel) bool {
	_, ok := domain.ParseProvider(fl.Field().String())
	return ok
}

func validateCurrency(fl validator.FieldLevel) bool {
	return currencyRe.MatchString(fl.Field().String())
}

// validateMSISDN accepts international numbers with optional leading plus.
func validateMSISDN(fl validator.FieldLevel) bool {
	s := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
	return msisdnRe.MatchString(s)
}

// ValidIdempotencyKey reports whether key is usable as an Idempotency-Key.
func ValidIdempotencyKey(key string) bool {
	return len(key) <= 128 && safeStringRe.MatchString(key)
}

// BindError maps a binding failure to the error code of the offending field.
func BindError(err error) *apperror.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Provider":
			return apperror.ErrUnsupportedProvider()
		case "Currency":
			return apperror.ErrInvalidCurrency()
		}
		return apperror.Validation(verrs[0].Error())
	}
	return apperror.Validation("invalid request body")
}

// SanitizeStruct trims whitespace and HTML-escapes every exported string
// field (including *string) of a struct pointer.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(sanitize(elem.String()))
			}
		}
	}
}

func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
