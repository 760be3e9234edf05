package profile

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-search/internal/schemas"
	"github.com/jonathan/job-search/internal/types"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance returns the shared validator, configured to report JSON field names.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("notblank", notBlank); err != nil {
			panic(fmt.Sprintf("failed to register notblank validator: %v", err))
		}
		validate = v
	})
	return validate
}

// notBlank rejects strings that are empty after trimming whitespace
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Validate checks every rule on a full configuration and reports all violations at once.
func Validate(cfg *types.JobSearchConfig) error {
	return check(cfg, "")
}

// ValidateProfile checks a profile on its own. Paths are reported relative to the profile.
func ValidateProfile(p *types.UserProfile) error {
	return check(p, "")
}

// ValidateParams checks job-search parameters on their own.
func ValidateParams(p *types.JobSearchParams) error {
	return check(p, "")
}

func check(v any, prefix string) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate %T: %w", v, err)
	}

	out := &schemas.ValidationError{}
	for _, fe := range fieldErrs {
		out.Add(prefix+fieldPath(fe), ruleMessage(fe))
	}
	return out
}

// fieldPath drops the leading struct type name from the validator namespace,
// leaving the JSON path (e.g. "user_profile.experience[0].title").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "must not be empty"
	case "email":
		return fmt.Sprintf("%q is not a valid email address", fe.Value())
	case "min":
		return fmt.Sprintf("must be at least %s (got %v)", fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("must be at most %s (got %v)", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
