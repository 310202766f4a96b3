package symptomadvice

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SystemInstruction is sent unchanged with every advice request.
const SystemInstruction = `You are an assistant for a menstrual health app called HerMate.

Your job:
- Understand the user's symptoms, mood, flow, sleep, and energy.
- Give supportive, general advice only.
- DO NOT diagnose any condition.
- DO NOT prescribe any medicine or dosage.
- Keep tone calm, friendly, and non-judgmental.
- If symptoms are severe (fainting, chest pain, suicidal thoughts, extremely heavy bleeding), advise to seek medical care.

Output MUST be valid JSON using this schema:

{
  "summary": string,
  "severity_level": "low" | "medium" | "high",
  "foods_to_eat": string[],
  "foods_to_avoid": string[],
  "home_remedies": string[],
  "activities_to_do": string[],
  "activities_to_avoid": string[],
  "when_to_see_doctor": string[],
  "emotional_support": string[],
  "safety_message": string
}

Rules:
- summary = 2-4 lines
- severity_level = your judgement of how concerning the symptoms sound
- when_to_see_doctor must be [] when symptoms are mild
- safety_message must ALWAYS be present
- Never use markdown, ONLY pure JSON.`

const notesPlaceholder = "None provided"

// BuildPrompt renders the user prompt for a validated payload. Output depends only on the payload.
func BuildPrompt(p SymptomPayload) string {
	return fmt.Sprintf(`User symptom data:

- Symptoms list: %s
- Severity: %s
- Cycle day: %d
- Notes: %s

Output strictly JSON.`, renderSymptoms(p.Symptoms), p.Severity, p.CycleDay, renderNotes(p.Notes))
}

func renderSymptoms(symptoms []string) string {
	data, err := json.Marshal(symptoms)
	if err != nil {
		return "[" + strings.Join(symptoms, ", ") + "]"
	}
	return string(data)
}

func renderNotes(notes *string) string {
	if notes == nil || strings.TrimSpace(*notes) == "" {
		return notesPlaceholder
	}
	return strings.TrimSpace(*notes)
}
