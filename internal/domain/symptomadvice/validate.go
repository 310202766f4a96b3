package symptomadvice

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldViolation names one rejected input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every constraint a Request violated.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "invalid symptom payload"
	}
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return strings.Join(messages, "; ")
}

var violationMessages = map[string]string{
	"symptoms":  "symptoms list cannot be empty",
	"severity":  "severity must be mild, moderate, or severe",
	"cycle_day": "cycle_day must be between 1 and 40",
}

var typeMessages = map[string]string{
	"symptoms":  "symptoms must be a list of strings",
	"severity":  "severity must be mild, moderate, or severe",
	"cycle_day": "cycle_day must be between 1 and 40",
	"notes":     "notes must be a string",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a Request against the payload schema.
func Validate(req Request) (SymptomPayload, error) {
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return SymptomPayload{}, err
		}
		return SymptomPayload{}, toValidationError(fieldErrs)
	}

	return SymptomPayload{
		Symptoms: req.Symptoms,
		Severity: req.Severity,
		CycleDay: *req.CycleDay,
		Notes:    req.Notes,
	}, nil
}

func toValidationError(fieldErrs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{Violations: make([]FieldViolation, 0, len(fieldErrs))}
	seen := make(map[string]struct{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		out.Violations = append(out.Violations, FieldViolation{
			Field:   field,
			Message: violationMessage(field, fe.Tag()),
		})
	}
	return out
}

func violationMessage(field, tag string) string {
	if tag == "required" {
		return field + " is required"
	}
	if msg, ok := violationMessages[field]; ok {
		return msg
	}
	return field + " is invalid"
}

// TypeViolation reports a Request field whose JSON value has the wrong type.
// It returns nil for names that are not Request fields.
func TypeViolation(field string) *ValidationError {
	msg, ok := typeMessages[field]
	if !ok {
		return nil
	}
	return &ValidationError{Violations: []FieldViolation{{Field: field, Message: msg}}}
}
