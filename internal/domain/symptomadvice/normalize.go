package symptomadvice

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

const (
	DefaultSafetyMessage = "This is general guidance, not medical advice."

	MessageServiceFailure    = "API service temporarily unavailable"
	MessageParseFailure      = "Response parsing failed"
	MessageUnexpectedFailure = "An unexpected error occurred"

	fallbackSeverityLevel = "medium"
	fallbackDoctorAdvice  = "If symptoms persist or worsen, please consult a healthcare provider."
	fallbackSupport       = "You're doing your best. Take slow deep breaths and rest for a moment."

	safetyMessageKey = "safety_message"
)

var errNotObject = errors.New("advice response is not a JSON object")

// Fallback returns the safe advice used when generation or parsing fails.
func Fallback(message string) Advice {
	return Advice{
		Summary:           message,
		SeverityLevel:     fallbackSeverityLevel,
		FoodsToEat:        []string{},
		FoodsToAvoid:      []string{},
		HomeRemedies:      []string{},
		ActivitiesToDo:    []string{},
		ActivitiesToAvoid: []string{},
		WhenToSeeDoctor:   []string{fallbackDoctorAdvice},
		EmotionalSupport:  []string{fallbackSupport},
		SafetyMessage:     DefaultSafetyMessage,
	}
}

// Normalize parses raw model output into Advice. Keys and values are taken as
// returned; the only enforced rule is a non-empty safety_message.
func Normalize(raw string) (Advice, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields); err != nil {
		return Advice{}, err
	}
	if fields == nil {
		return Advice{}, errNotObject
	}

	advice := project(fields)
	if strings.TrimSpace(advice.SafetyMessage) == "" {
		advice.SafetyMessage = DefaultSafetyMessage
	}
	return advice, nil
}

func project(fields map[string]json.RawMessage) Advice {
	a := Advice{present: make(map[string]struct{}, len(fields))}
	for key, raw := range fields {
		var ok bool
		switch key {
		case "summary":
			ok = decodeString(raw, &a.Summary)
		case "severity_level":
			ok = decodeString(raw, &a.SeverityLevel)
		case "foods_to_eat":
			ok = decodeList(raw, &a.FoodsToEat)
		case "foods_to_avoid":
			ok = decodeList(raw, &a.FoodsToAvoid)
		case "home_remedies":
			ok = decodeList(raw, &a.HomeRemedies)
		case "activities_to_do":
			ok = decodeList(raw, &a.ActivitiesToDo)
		case "activities_to_avoid":
			ok = decodeList(raw, &a.ActivitiesToAvoid)
		case "when_to_see_doctor":
			ok = decodeList(raw, &a.WhenToSeeDoctor)
		case "emotional_support":
			ok = decodeList(raw, &a.EmotionalSupport)
		case safetyMessageKey:
			// a non-string value is replaced by the default, never passed through
			decodeString(raw, &a.SafetyMessage)
			ok = true
		}
		if !ok {
			a.keep(key, raw)
			continue
		}
		a.present[key] = struct{}{}
	}
	return a
}

// null is kept verbatim rather than decoded into a zero value.
func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeString(raw json.RawMessage, dst *string) bool {
	if isNull(raw) {
		return false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	*dst = v
	return true
}

func decodeList(raw json.RawMessage, dst *[]string) bool {
	if isNull(raw) {
		return false
	}
	var v []string
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	*dst = v
	return true
}

func (a *Advice) keep(key string, raw json.RawMessage) {
	if a.passthrough == nil {
		a.passthrough = make(map[string]json.RawMessage)
	}
	a.passthrough[key] = raw
}
