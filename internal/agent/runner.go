package agent

import (
	"context"

	"github.com/Kunjal502/crisis-assitant/internal/plan"
)

// Runner composes the reasoning, guard and response stages for the
// multi-round walkthrough path. One-shot callers invoke the Generator
// directly and skip the guard; the reasoning logic is the same either way.
type Runner struct {
	Generator *Generator
	Guard     *Guard
}

func NewRunner(generator *Generator, guard *Guard) *Runner {
	return &Runner{Generator: generator, Guard: guard}
}

// Run executes one guarded reasoning round against the session and returns
// the plan alongside the formatted reply.
func (r *Runner) Run(ctx context.Context, s *Session) (*plan.Plan, Reply) {
	p := r.Generator.GeneratePlan(ctx, s)
	r.Guard.Apply(s, NewAssessment(p))
	return p, Respond(s)
}
