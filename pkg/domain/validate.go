package domain

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// usStates lists the accepted two-letter postal codes: the fifty states, DC
// and the inhabited territories.
var usStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {}, "GA": {},
	"HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {},
	"NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {},
	"DC": {}, "PR": {}, "GU": {}, "VI": {}, "AS": {}, "MP": {},
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("email_light", validateEmailLight)
		_ = v.RegisterValidation("us_phone", validateUSPhone)
		_ = v.RegisterValidation("us_zip", validateUSZip)
		_ = v.RegisterValidation("us_state", validateUSState)
		validate = v
	})
	return validate
}

func validateEmailLight(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validateUSPhone(fl validator.FieldLevel) bool {
	return len(nonDigits.ReplaceAllString(fl.Field().String(), "")) == 10
}

func validateUSZip(fl validator.FieldLevel) bool {
	return zipPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validateUSState(fl validator.FieldLevel) bool {
	_, ok := usStates[strings.ToUpper(strings.TrimSpace(fl.Field().String()))]
	return ok
}

var tagReasons = map[string]string{
	"required":    "is required",
	"email_light": "must look like local@domain.tld",
	"us_phone":    "must contain exactly 10 digits",
	"us_zip":      "must be 5 digits, optionally followed by -NNNN",
	"us_state":    "must be a two-letter US state or territory code",
}

func checkVar(field, value, tag string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if err := fieldValidator().Var(value, tag); err != nil {
		return &ValidationError{Field: field, Value: value, Reason: tagReasons[tag]}
	}
	return nil
}

// ValidateEmail checks the local@domain.tld shape. Empty input is valid.
func ValidateEmail(value string) error { return checkVar("email", value, "email_light") }

// ValidatePhone requires exactly ten digits once formatting characters are
// removed. Empty input is valid.
func ValidatePhone(value string) error { return checkVar("phone", value, "us_phone") }

// ValidateZip accepts NNNNN or NNNNN-NNNN. Empty input is valid.
func ValidateZip(value string) error { return checkVar("zip", value, "us_zip") }

// ValidateState accepts a US state or territory postal code. Empty input is valid.
func ValidateState(value string) error { return checkVar("state", value, "us_state") }

// ValidateAddress enforces the required parish address fields and their
// formats. All failures are returned joined.
func ValidateAddress(addr Address) error {
	err := fieldValidator().Struct(addr)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		value, _ := fe.Value().(string)
		errs = append(errs, &ValidationError{
			Field:  "address." + fe.Field(),
			Value:  value,
			Reason: tagReasons[fe.Tag()],
		})
	}
	return errors.Join(errs...)
}

// RequireField returns a ValidationError when value is blank.
func RequireField(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: tagReasons["required"]}
	}
	return nil
}
