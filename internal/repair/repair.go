// Package repair normalizes raw model output into a well-formed plan mapping.
// Models are asked for a single JSON object but routinely wrap it in prose,
// truncate it, or skip fields; everything downstream relies on this package
// to absorb that.
package repair

import (
	"encoding/json"
	"strings"
)

// SafeParse locates the first {...} span in raw text and strictly parses it.
// On any failure it returns the diagnostic error envelope carrying the
// original text, never nil.
func SafeParse(raw string) map[string]any {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err == nil {
			return parsed
		}
	}
	return map[string]any{
		"error":      "invalid JSON from model",
		"raw_output": raw,
	}
}

// Finalize guarantees a fully populated plan mapping. A redirect passes
// through untouched; a parse failure or non-plan value is replaced wholesale
// by the default plan; an incomplete plan gets per-field defaults without
// overwriting anything the model supplied.
func Finalize(parsed map[string]any) map[string]any {
	if b, ok := parsed["not_financial"].(bool); ok && b {
		return parsed
	}
	if parsed == nil {
		return DefaultResponse()
	}
	if _, bad := parsed["error"]; bad {
		return DefaultResponse()
	}

	if _, ok := parsed["crisis_type"]; !ok {
		parsed["crisis_type"] = "Financial crisis requiring attention"
	}
	if _, ok := parsed["severity"]; !ok {
		parsed["severity"] = "medium"
	}
	if _, ok := parsed["mood"]; !ok {
		parsed["mood"] = "overwhelmed"
	}
	if _, ok := parsed["calming_steps"]; !ok {
		parsed["calming_steps"] = DefaultCalmingSteps()
	}
	if _, ok := parsed["action_steps"]; !ok {
		parsed["action_steps"] = DefaultActionSteps()
	}
	if _, ok := parsed["final_advice"]; !ok {
		parsed["final_advice"] = "Take it one step at a time."
	}
	if _, ok := parsed["needs_emergency_support"]; !ok {
		parsed["needs_emergency_support"] = false
	}
	return parsed
}

// DefaultCalmingSteps returns the canned grounding exercise used when the
// model supplies none.
func DefaultCalmingSteps() []any {
	return []any{
		map[string]any{
			"instruction":      "Take 5 deep breaths - financial stress is temporary",
			"type":             "breathing",
			"duration_seconds": 20,
		},
	}
}

// DefaultActionSteps returns the canned budget-review sequence used when the
// model supplies no action steps.
func DefaultActionSteps() []any {
	return []any{
		map[string]any{
			"step":                   "List all your monthly income sources and their amounts",
			"priority":               "high",
			"estimated_time_minutes": 15,
		},
		map[string]any{
			"step":                   "Calculate your total monthly expenses and prioritize essential ones",
			"priority":               "high",
			"estimated_time_minutes": 20,
		},
		map[string]any{
			"step":                   "Identify immediate financial obligations (bills due this week)",
			"priority":               "high",
			"estimated_time_minutes": 10,
		},
		map[string]any{
			"step":                   "Contact your creditors or service providers to discuss payment options",
			"priority":               "medium",
			"estimated_time_minutes": 30,
		},
		map[string]any{
			"step":                   "Explore emergency funding options or financial assistance programs",
			"priority":               "medium",
			"estimated_time_minutes": 25,
		},
	}
}

// DefaultResponse is the whole-plan fallback for backend failures and
// unparseable output.
func DefaultResponse() map[string]any {
	return map[string]any{
		"crisis_type":             "Financial stress requiring budget review",
		"severity":                "medium",
		"mood":                    "overwhelmed",
		"calming_steps":           DefaultCalmingSteps(),
		"action_steps":            DefaultActionSteps(),
		"needs_emergency_support": false,
		"final_advice":            "Financial challenges are temporary. Let's create a plan to work through this step by step.",
	}
}
