package symptomadvice

import (
	"encoding/json"

	"github.com/yanqian/hermate-ai/pkg/metrics"
)

// Request is the inbound body accepted by the symptom advice endpoint.
type Request struct {
	Symptoms []string `json:"symptoms" validate:"min=1"`
	Severity string   `json:"severity" validate:"oneof=mild moderate severe"`
	CycleDay *int     `json:"cycle_day" validate:"required,min=1,max=40"`
	Notes    *string  `json:"notes,omitempty"`
}

// SymptomPayload is a Request that passed validation.
type SymptomPayload struct {
	Symptoms []string
	Severity string
	CycleDay int
	Notes    *string
}

// Advice is serialized back to API consumers under the "advice" key.
type Advice struct {
	Summary           string   `json:"summary"`
	SeverityLevel     string   `json:"severity_level"`
	FoodsToEat        []string `json:"foods_to_eat"`
	FoodsToAvoid      []string `json:"foods_to_avoid"`
	HomeRemedies      []string `json:"home_remedies"`
	ActivitiesToDo    []string `json:"activities_to_do"`
	ActivitiesToAvoid []string `json:"activities_to_avoid"`
	WhenToSeeDoctor   []string `json:"when_to_see_doctor"`
	EmotionalSupport  []string `json:"emotional_support"`
	SafetyMessage     string   `json:"safety_message"`

	// present lists the typed keys the model returned. Nil means every
	// typed key is emitted, as for Fallback.
	present map[string]struct{}
	// passthrough holds model output that does not fit the typed fields.
	// It is written back verbatim on marshal.
	passthrough map[string]json.RawMessage
}

// MarshalJSON emits the typed fields the advice carries, safety_message
// always, and overlays any passthrough values.
func (a Advice) MarshalJSON() ([]byte, error) {
	type plain Advice
	data, err := json.Marshal(plain(a))
	if err != nil || (a.present == nil && len(a.passthrough) == 0) {
		return data, err
	}
	merged := make(map[string]json.RawMessage, 10+len(a.passthrough))
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	if a.present != nil {
		for key := range merged {
			if _, ok := a.present[key]; !ok && key != safetyMessageKey {
				delete(merged, key)
			}
		}
	}
	for key, raw := range a.passthrough {
		merged[key] = raw
	}
	return json.Marshal(merged)
}

// Completion is the raw model output for a single call.
type Completion struct {
	Text  string
	Usage metrics.TokenUsage
}

// FailureKind classifies how the advice pipeline ended.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureService
	FailureParse
	FailureUnexpected
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureService:
		return "service"
	case FailureParse:
		return "parse"
	case FailureUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// Result is the outcome of one advice generation. Advice is always well formed;
// Failure reports whether it is the fallback and why.
type Result struct {
	Advice  Advice
	Failure FailureKind
}

// Fallback reports whether the advice was substituted.
func (r Result) Fallback() bool {
	return r.Failure != FailureNone
}
