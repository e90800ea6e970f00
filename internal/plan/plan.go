package plan

import "encoding/json"

// Severity levels reported by the model.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// DefaultMood is used whenever the model omits or invents a mood.
const DefaultMood = "overwhelmed"

// KnownMoods lists the moods the walkthrough knows how to address.
var KnownMoods = []string{"panic", "anxious", "depressed", "angry", "calm", "overwhelmed"}

// CalmingStep is a short grounding exercise shown before any action step.
type CalmingStep struct {
	Instruction     string `json:"instruction"`
	Type            string `json:"type"`
	DurationSeconds int    `json:"duration_seconds"`
}

// ActionStep is one concrete step of the crisis plan.
type ActionStep struct {
	Step                 string `json:"step"`
	Priority             string `json:"priority"`
	EstimatedTimeMinutes int    `json:"estimated_time_minutes"`
}

// Plan is the structured result of one reasoning call. It is either a
// redirect (NotFinancial set) or a fully populated crisis plan.
type Plan struct {
	NotFinancial    bool   `json:"not_financial,omitempty"`
	RedirectMessage string `json:"redirect_message,omitempty"`

	CrisisType            string            `json:"crisis_type,omitempty"`
	Severity              string            `json:"severity,omitempty"`
	Mood                  string            `json:"mood,omitempty"`
	CalmingSteps          []CalmingStep     `json:"calming_steps,omitempty"`
	ActionSteps           []ActionStep      `json:"action_steps,omitempty"`
	NeedsEmergencySupport bool              `json:"needs_emergency_support"`
	FinalAdvice           string            `json:"final_advice,omitempty"`
	EmergencyContacts     map[string]string `json:"emergency_contacts,omitempty"`

	// Response is an optional direct reply some model outputs carry.
	// The formatter prefers it over final_advice when present.
	Response string `json:"response,omitempty"`
}

// IsRedirect reports whether the plan is the non-financial redirect variant.
func (p *Plan) IsRedirect() bool {
	return p != nil && p.NotFinancial
}

// MoodOrDefault returns the detected mood, falling back to DefaultMood for
// anything outside the known set.
func (p *Plan) MoodOrDefault() string {
	for _, m := range KnownMoods {
		if p.Mood == m {
			return m
		}
	}
	return DefaultMood
}

// Decode converts a repaired output mapping into a typed Plan. Fields the
// model supplied beyond the schema are dropped here; the mapping itself is
// what callers serve when they need full fidelity.
func Decode(m map[string]any) (*Plan, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
