package form

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"appliance-manager/internal/model"
	"appliance-manager/internal/store"
)

// NonFieldErrors is the key for errors that belong to the form as a whole.
const NonFieldErrors = "__all__"

// FieldErrors maps a form field to its validation messages.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field already failed.
func (e FieldErrors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e FieldErrors) Any() bool {
	return len(e) > 0
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// orNil returns e as an error, or nil when nothing failed.
func (e FieldErrors) orNil() error {
	if e.Any() {
		return e
	}
	return nil
}

// Lookup resolves the foreign keys submitted with a form. store.Store satisfies it.
type Lookup interface {
	GetAppliance(ctx context.Context, id int64) (*model.Appliance, error)
	GetPropertyAppliance(ctx context.Context, id int64) (*model.PropertyAppliance, error)
	GetUserProperty(ctx context.Context, id int64) (*model.UserProperty, error)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the submitted field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "int", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil
	})
	mustRegister(v, "usage", func(fl validator.FieldLevel) bool {
		return model.Usage(fl.Field().String()).Valid()
	})
	mustRegister(v, "appliance_type", func(fl validator.FieldLevel) bool {
		return model.ApplianceType(fl.Field().String()).Valid()
	})
	mustRegister(v, "efficiency", func(fl validator.FieldLevel) bool {
		return model.EfficiencyRating(fl.Field().String()).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("form: register %q: %v", tag, err))
	}
}

// check runs the struct tags of s and collects the failures.
func check(s any) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(NonFieldErrors, err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe.Tag(), fe.Param(), fe.Value()))
	}
	return errs
}

// checkVar validates a single converted value under the given field name.
func checkVar(errs FieldErrors, field string, value any, tag string) {
	err := validate.Var(value, tag)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			errs.Add(field, message(fe.Tag(), fe.Param(), fe.Value()))
		}
	}
}

func message(tag, param string, value any) string {
	switch tag {
	case "required":
		return "This field is required."
	case "int":
		return "Enter a whole number."
	case "number", "numeric":
		return "Enter a number."
	case "email":
		return "Enter a valid email address."
	case "datetime":
		return "Enter a valid date."
	case "usage":
		return "Invalid usage level"
	case "appliance_type", "efficiency":
		return fmt.Sprintf("Select a valid choice. %v is not one of the available choices.", value)
	case "min", "gte":
		return "Ensure this value is greater than or equal to " + param + "."
	case "max", "lte":
		if _, ok := value.(string); ok {
			return "Ensure this value has at most " + param + " characters."
		}
		return "Ensure this value is less than or equal to " + param + "."
	case "gt":
		return "Ensure this value is greater than " + param + "."
	}
	return "Enter a valid value."
}

// lookupError turns a failed foreign key lookup into a field error. Anything
// other than a missing row is returned unchanged.
func lookupError(errs FieldErrors, field, msg string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		errs.Add(field, msg)
		return nil
	}
	return err
}

func atoi64(raw string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return n
}

func atoi(raw string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(raw))
	return n
}

// checked decodes an HTML checkbox value.
func checked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "off", "no":
		return false
	}
	return true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
