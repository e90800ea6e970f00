package agent

import (
	"context"

	"github.com/Kunjal502/crisis-assitant/internal/observability"
	"github.com/Kunjal502/crisis-assitant/internal/repair"
)

// FallbackSuggestion is shown when re-evaluation fails for any reason.
const FallbackSuggestion = "Break this step into smaller parts and do them one at a time."

const reevaluationConfidenceFloor = 0.4

// Alternative is one simplified replacement for a step the user is stuck on.
type Alternative struct {
	Step                 string `json:"alternative_step"`
	Priority             string `json:"priority"`
	EstimatedTimeMinutes int    `json:"estimated_time_minutes"`
}

// Reevaluator replaces stuck steps with simpler alternatives on demand.
type Reevaluator struct {
	Backend Completer
	Logger  *observability.Logger
}

func NewReevaluator(backend Completer, logger *observability.Logger) *Reevaluator {
	return &Reevaluator{Backend: backend, Logger: logger}
}

// NeedsReevaluation reports whether an assessment's confidence signal asks
// for a step replacement. The plan generator does not emit these signals
// today; the predicate is kept for assessments that do.
func (r *Reevaluator) NeedsReevaluation(a *Assessment) bool {
	return a.ConfidenceInPreviousStep < reevaluationConfidenceFloor || a.NeedsReevaluation
}

// ReevaluateStep asks the backend for exactly one simpler alternative to the
// stuck step. Any failure degrades to the static fallback suggestion; no
// error reaches the caller.
func (r *Reevaluator) ReevaluateStep(ctx context.Context, chatID, stepText, crisisType string) Alternative {
	prompt := BuildReevaluationPrompt(stepText, crisisType)

	raw, err := r.Backend.Complete(ctx, SystemInstruction, prompt, reasoningTemperature)
	if err != nil {
		return fallbackAlternative()
	}

	parsed := repair.SafeParse(raw)
	step, ok := parsed["alternative_step"].(string)
	if !ok || step == "" {
		return fallbackAlternative()
	}

	alt := Alternative{
		Step:                 step,
		Priority:             "medium",
		EstimatedTimeMinutes: 10,
	}
	if p, ok := parsed["priority"].(string); ok && p != "" {
		alt.Priority = p
	}
	if m, ok := parsed["estimated_time_minutes"].(float64); ok && m > 0 {
		alt.EstimatedTimeMinutes = int(m)
	}

	if r.Logger != nil {
		r.Logger.LogReevaluation(chatID, stepText, alt.Step)
	}
	return alt
}

func fallbackAlternative() Alternative {
	return Alternative{
		Step:                 FallbackSuggestion,
		Priority:             "medium",
		EstimatedTimeMinutes: 10,
	}
}
