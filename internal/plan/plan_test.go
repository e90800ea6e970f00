package plan

import "testing"

func TestDecode(t *testing.T) {
	m := map[string]any{
		"crisis_type": "Vehicle theft",
		"severity":    "high",
		"mood":        "panic",
		"calming_steps": []any{
			map[string]any{"instruction": "Breathe", "type": "breathing", "duration_seconds": 20},
		},
		"action_steps": []any{
			map[string]any{"step": "File a report", "priority": "high", "estimated_time_minutes": 45},
		},
		"needs_emergency_support": true,
		"final_advice":            "One step at a time.",
		"emergency_contacts":      map[string]string{"Police": "100"},
	}

	p, err := Decode(m)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if p.CrisisType != "Vehicle theft" || !p.NeedsEmergencySupport {
		t.Errorf("Unexpected plan %+v", p)
	}
	if len(p.CalmingSteps) != 1 || p.CalmingSteps[0].DurationSeconds != 20 {
		t.Errorf("Unexpected calming steps %+v", p.CalmingSteps)
	}
	if len(p.ActionSteps) != 1 || p.ActionSteps[0].EstimatedTimeMinutes != 45 {
		t.Errorf("Unexpected action steps %+v", p.ActionSteps)
	}
	if p.EmergencyContacts["Police"] != "100" {
		t.Errorf("Unexpected contacts %+v", p.EmergencyContacts)
	}
}

func TestDecode_WrongFieldTypeFails(t *testing.T) {
	if _, err := Decode(map[string]any{"severity": 3}); err == nil {
		t.Error("Expected decode failure for a numeric severity")
	}
}

func TestMoodOrDefault(t *testing.T) {
	if got := (&Plan{Mood: "panic"}).MoodOrDefault(); got != "panic" {
		t.Errorf("Expected panic, got %q", got)
	}
	if got := (&Plan{Mood: "exuberant"}).MoodOrDefault(); got != DefaultMood {
		t.Errorf("Expected default mood for unknown value, got %q", got)
	}
	if got := (&Plan{}).MoodOrDefault(); got != DefaultMood {
		t.Errorf("Expected default mood when empty, got %q", got)
	}
}

func TestIsRedirect(t *testing.T) {
	if (&Plan{}).IsRedirect() {
		t.Error("Crisis plan must not report as redirect")
	}
	if !(&Plan{NotFinancial: true}).IsRedirect() {
		t.Error("Redirect variant must report as redirect")
	}
}
