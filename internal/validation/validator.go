// Package validation wraps go-playground/validator with taxonomy aware tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/taxonomy"
)

// Validator validates request structs
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the taxonomy tags registered:
// grade, resource_type, credit_organization, occupation, any_topic and topic_<category key>.
func New() *Validator {
	v := validator.New()

	// report json names so messages match what clients send
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	register(v, "grade", taxonomy.IsGrade)
	register(v, "resource_type", taxonomy.IsResourceType)
	register(v, "credit_organization", taxonomy.IsCreditOrganization)
	register(v, "occupation", taxonomy.IsOccupation)
	register(v, "any_topic", taxonomy.IsAnyTopic)

	for _, c := range taxonomy.TopicCategories {
		key := c.Key
		register(v, "topic_"+key, func(s string) bool {
			return taxonomy.IsTopic(key, s)
		})
	}

	return &Validator{v: v}
}

func register(v *validator.Validate, tag string, accept func(string) bool) {
	v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return accept(value)
	})
}

// Struct validates s and converts the first violation into a validation error
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return apperrors.Validation(Message(ve[0]))
	}
	return apperrors.Validation("Invalid request.")
}

// Message renders a single field error for clients
func Message(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL.", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long.", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long.", field, fe.Param())
	}
	return fmt.Sprintf("Invalid value %q for %s.", fmt.Sprint(fe.Value()), field)
}

// fieldPath strips the root struct name from the namespace ("ResourceInput.targetGrades[1]" -> "targetGrades[1]")
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
