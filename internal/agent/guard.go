package agent

import "github.com/Kunjal502/crisis-assitant/internal/observability"

// OverloadNotice is appended to the round's user-facing instruction once the
// session reaches the guarded round cap.
const OverloadNotice = "\nWe will pause here to avoid overload."

// DefaultMaxRounds caps guarded reasoning rounds per session.
const DefaultMaxRounds = 5

// Guard does per-round session bookkeeping for the multi-round walkthrough
// path. It never blocks progress, only annotates it.
type Guard struct {
	MaxRounds int
	Logger    *observability.Logger
}

func NewGuard(maxRounds int, logger *observability.Logger) *Guard {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Guard{MaxRounds: maxRounds, Logger: logger}
}

// Apply counts the reasoning round, appends the overload notice at and after
// the cap, latches the emergency flag, and records the assessment in the
// append-only history.
func (g *Guard) Apply(s *Session, a *Assessment) {
	s.StepCount++

	if s.StepCount >= g.MaxRounds {
		a.Instruction += OverloadNotice
	}

	if a.Plan != nil && a.Plan.NeedsEmergencySupport {
		s.EmergencyTriggered = true
	}

	s.LastAssessment = a
	s.History = append(s.History, a)

	if g.Logger != nil {
		g.Logger.LogGuard(s.ChatID, s.StepCount, s.EmergencyTriggered)
	}
}
