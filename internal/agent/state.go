package agent

import "github.com/Kunjal502/crisis-assitant/internal/plan"

// DefaultRequestedSteps is the action-step count used when the caller does
// not ask for a specific one.
const DefaultRequestedSteps = 5

// Session is the caller-owned mutable state for one conversation or one HTTP
// request. It is not safe for concurrent use; callers that share a session
// across goroutines must serialize access themselves.
type Session struct {
	// ChatID identifies the conversation for logging. Empty for one-shot
	// HTTP requests.
	ChatID string

	UserInput      string
	RequestedSteps int
	// Emergency is the caller-asserted hint that raises the action-step
	// ceiling from 5 to 7.
	Emergency bool

	// StepCount counts guarded reasoning rounds. It only ever grows.
	StepCount int
	// EmergencyTriggered latches once emergency conditions are detected and
	// is never cleared within the session.
	EmergencyTriggered bool

	// History is the append-only audit trail of guarded rounds.
	History        []*Assessment
	LastAssessment *Assessment

	// Output holds the most recent plan, overwritten each reasoning call.
	Output *plan.Plan
}

// NewSession creates session state for one user turn.
func NewSession(userInput string, requestedSteps int, emergency bool) *Session {
	if requestedSteps <= 0 {
		requestedSteps = DefaultRequestedSteps
	}
	return &Session{
		UserInput:      userInput,
		RequestedSteps: requestedSteps,
		Emergency:      emergency,
	}
}

// Assessment is the audit record of one guarded reasoning round.
type Assessment struct {
	Plan *plan.Plan

	// Instruction is the user-facing text for this round. The guard appends
	// the overload-pause notice here, never to the plan's final advice.
	Instruction string
	AskFollowup bool

	// ConfidenceInPreviousStep and NeedsReevaluation drive the
	// re-evaluation predicate. The plan generator's schema does not
	// populate them today; they are reserved for richer assessments.
	ConfidenceInPreviousStep float64
	NeedsReevaluation        bool
}

// NewAssessment derives the audit record for a freshly generated plan. The
// user-facing instruction starts as the first calming step, the redirect
// message for redirects, or the final advice when no calming step exists.
func NewAssessment(p *plan.Plan) *Assessment {
	a := &Assessment{Plan: p}
	switch {
	case p == nil:
	case p.IsRedirect():
		a.Instruction = p.RedirectMessage
	case len(p.CalmingSteps) > 0:
		a.Instruction = p.CalmingSteps[0].Instruction
	default:
		a.Instruction = p.FinalAdvice
	}
	return a
}
