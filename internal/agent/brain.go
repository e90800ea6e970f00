package agent

import (
	"context"

	"github.com/Kunjal502/crisis-assitant/internal/emergency"
	"github.com/Kunjal502/crisis-assitant/internal/observability"
	"github.com/Kunjal502/crisis-assitant/internal/plan"
	"github.com/Kunjal502/crisis-assitant/internal/repair"
)

// Step ceilings for one reasoning call. Non-emergency sessions never receive
// more than 5 action steps; emergency sessions may receive up to 7.
const (
	MaxActionSteps          = 5
	MaxEmergencyActionSteps = 7
)

const reasoningTemperature = 0.3

// Generator is the reasoning step: it turns free-form user text into a
// validated crisis plan through a single backend call.
type Generator struct {
	Backend  Completer
	Contacts *emergency.Directory
	Region   string
	Logger   *observability.Logger
}

func NewGenerator(backend Completer, contacts *emergency.Directory, region string, logger *observability.Logger) *Generator {
	if region == "" {
		region = emergency.DefaultRegion
	}
	return &Generator{
		Backend:  backend,
		Contacts: contacts,
		Region:   region,
		Logger:   logger,
	}
}

// EffectiveSteps applies the emergency-aware ceiling to the requested
// action-step count.
func EffectiveSteps(requested int, emergencyHint bool) int {
	ceiling := MaxActionSteps
	if emergencyHint {
		ceiling = MaxEmergencyActionSteps
	}
	if requested < ceiling {
		return requested
	}
	return ceiling
}

// GeneratePlan invokes the backend exactly once and stores the repaired plan
// on the session. Backend failures and malformed output degrade to the
// default plan; no error reaches the caller. History is left untouched, that
// is the guard's job.
func (g *Generator) GeneratePlan(ctx context.Context, s *Session) *plan.Plan {
	steps := EffectiveSteps(s.RequestedSteps, s.Emergency)
	prompt := BuildReasoningPrompt(s.UserInput, steps)

	raw, err := g.Backend.Complete(ctx, SystemInstruction, prompt, reasoningTemperature)
	if g.Logger != nil {
		g.Logger.LogLLM(s.ChatID, prompt, raw)
	}

	var out map[string]any
	if err != nil {
		if g.Logger != nil {
			g.Logger.LogRepair(s.ChatID, "backend_error")
		}
		out = repair.DefaultResponse()
	} else {
		parsed := repair.SafeParse(raw)
		if redirect, ok := parsed["not_financial"].(bool); ok && redirect {
			// The redirect variant bypasses repair and the emergency overlay.
			p := decodeOrDefault(parsed)
			s.Output = p
			return p
		}
		if _, bad := parsed["error"]; bad && g.Logger != nil {
			g.Logger.LogRepair(s.ChatID, "malformed_output")
		}
		out = repair.Finalize(parsed)
	}

	contacts := g.Contacts.Contacts(s.UserInput, g.Region)
	needsSupport, _ := out["needs_emergency_support"].(bool)
	if needsSupport || len(contacts) > 0 {
		s.EmergencyTriggered = true
		if len(contacts) > 0 {
			out["emergency_contacts"] = contacts
		}
		if g.Logger != nil {
			g.Logger.LogEmergency(s.ChatID, contacts)
		}
	}

	p := decodeOrDefault(out)
	s.Output = p
	return p
}

// decodeOrDefault converts the finalized mapping into a typed plan. A model
// that supplied structurally wrong field types (a string where a number
// belongs) is treated the same as malformed output.
func decodeOrDefault(m map[string]any) *plan.Plan {
	p, err := plan.Decode(m)
	if err == nil {
		return p
	}
	fallback := repair.DefaultResponse()
	if contacts, ok := m["emergency_contacts"]; ok {
		fallback["emergency_contacts"] = contacts
	}
	p, err = plan.Decode(fallback)
	if err != nil {
		// The canned default plan always decodes.
		panic(err)
	}
	return p
}
