package agent

// Canned formatter messages.
const (
	UrgentResourcesMessage = "🚨 You may need immediate financial support. Please consider reaching verified financial support resources."
	PriorityMessage        = "Your situation seems urgent. I'm analyzing this with priority."
	GenericFallbackMessage = "I've analyzed your situation. Please check the details for guidance."
)

// Reply is the minimal user-facing message shape.
type Reply struct {
	Message   string `json:"message"`
	Emergency bool   `json:"emergency"`
	Followup  bool   `json:"followup,omitempty"`
}

// Respond converts session state into a Reply. Precedence, first match wins:
// triggered emergency, caller emergency hint, last assessment, direct
// response field, final advice, generic fallback.
func Respond(s *Session) Reply {
	if s.EmergencyTriggered {
		return Reply{Message: UrgentResourcesMessage, Emergency: true}
	}

	if s.Emergency {
		return Reply{Message: PriorityMessage}
	}

	if s.LastAssessment != nil {
		return Reply{
			Message:  s.LastAssessment.Instruction,
			Followup: s.LastAssessment.AskFollowup,
		}
	}

	if s.Output != nil {
		if s.Output.Response != "" {
			return Reply{Message: s.Output.Response}
		}
		if s.Output.FinalAdvice != "" {
			return Reply{Message: s.Output.FinalAdvice}
		}
	}

	return Reply{Message: GenericFallbackMessage}
}
