package gateway

import (
	"context"
	"strings"
	"testing"

	"github.com/Kunjal502/crisis-assitant/internal/agent"
	"github.com/Kunjal502/crisis-assitant/internal/emergency"
	"github.com/microcosm-cc/bluemonday"
)

type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) Complete(ctx context.Context, systemInstruction, prompt string, temperature float64) (string, error) {
	return f.response, f.err
}

func newTestGateway(backend agent.Completer) *TelegramGateway {
	contacts := emergency.NewDirectory()
	generator := agent.NewGenerator(backend, contacts, "india", nil)
	return &TelegramGateway{
		Runner:      agent.NewRunner(generator, agent.NewGuard(5, nil)),
		Reevaluator: agent.NewReevaluator(backend, nil),
		Contacts:    contacts,
		Region:      "india",
		sanitizer:   bluemonday.StrictPolicy(),
		sessions:    make(map[int64]*walkthrough),
	}
}

const planJSON = `{
	"crisis_type": "Salary delay",
	"severity": "medium",
	"mood": "anxious",
	"calming_steps": [{"instruction": "Slow breaths for a minute", "type": "breathing", "duration_seconds": 60}],
	"action_steps": [
		{"step": "List bills due this week", "priority": "high", "estimated_time_minutes": 10},
		{"step": "Call your landlord about timing", "priority": "medium", "estimated_time_minutes": 20}
	],
	"final_advice": "You are handling this well."
}`

func TestHandle_AnalyzeShowsFirstStep(t *testing.T) {
	tg := newTestGateway(&fakeCompleter{response: planJSON})

	reply := tg.handle(1, "salary delayed, bills due")

	for _, want := range []string{"Salary delay", "anxious", "Slow breaths", "Step 1 of 2", "List bills due this week"} {
		if !strings.Contains(reply, want) {
			t.Errorf("Reply missing %q:\n%s", want, reply)
		}
	}
}

func TestHandle_NextAdvancesAndCompletes(t *testing.T) {
	tg := newTestGateway(&fakeCompleter{response: planJSON})

	tg.handle(1, "salary delayed, bills due")

	reply := tg.handle(1, "/next")
	if !strings.Contains(reply, "Step 2 of 2") || !strings.Contains(reply, "Call your landlord") {
		t.Errorf("Expected second step, got:\n%s", reply)
	}

	reply = tg.handle(1, "/next")
	if !strings.Contains(reply, "All steps complete") || !strings.Contains(reply, "You are handling this well.") {
		t.Errorf("Expected completion with final advice, got:\n%s", reply)
	}
}

func TestHandle_CommandsAfterCompletionStayOnCompletion(t *testing.T) {
	tg := newTestGateway(&fakeCompleter{response: planJSON})
	tg.handle(1, "salary delayed, bills due")
	tg.handle(1, "/next")
	tg.handle(1, "/next")

	reply := tg.handle(1, "/step")
	if !strings.Contains(reply, "All steps complete") {
		t.Errorf("Expected /step after completion to repeat the completion message, got:\n%s", reply)
	}

	reply = tg.handle(1, "/next")
	if !strings.Contains(reply, "All steps complete") {
		t.Errorf("Expected /next after completion to stay on the completion message, got:\n%s", reply)
	}

	reply = tg.handle(1, "/stuck")
	if !strings.Contains(reply, "situation") {
		t.Errorf("Expected /stuck after completion to ask for a situation, got:\n%s", reply)
	}
}

func TestHandle_AnalyzeCarriesOverloadNotice(t *testing.T) {
	backend := &fakeCompleter{response: planJSON}
	contacts := emergency.NewDirectory()
	generator := agent.NewGenerator(backend, contacts, "india", nil)
	tg := &TelegramGateway{
		Runner:      agent.NewRunner(generator, agent.NewGuard(2, nil)),
		Reevaluator: agent.NewReevaluator(backend, nil),
		Contacts:    contacts,
		Region:      "india",
		sanitizer:   bluemonday.StrictPolicy(),
		sessions:    make(map[int64]*walkthrough),
	}

	first := tg.handle(1, "salary delayed, bills due")
	if strings.Contains(first, "pause here to avoid overload") {
		t.Errorf("First round must not carry the overload notice:\n%s", first)
	}

	second := tg.handle(1, "rent is also overdue now")
	if !strings.Contains(second, "pause here to avoid overload") {
		t.Errorf("Round at the cap must surface the overload notice:\n%s", second)
	}
}

func TestHandle_StuckReturnsAlternative(t *testing.T) {
	tg := newTestGateway(&fakeCompleter{response: planJSON})
	tg.handle(1, "salary delayed, bills due")

	// Swap the backend so the re-evaluation call returns an alternative.
	tg.Reevaluator = agent.NewReevaluator(&fakeCompleter{response: `{"alternative_step": "Write down just one bill", "estimated_time_minutes": 5}`}, nil)

	reply := tg.handle(1, "/stuck")
	if !strings.Contains(reply, "Write down just one bill") || !strings.Contains(reply, "5 min") {
		t.Errorf("Expected alternative step, got:\n%s", reply)
	}
}

func TestHandle_StuckFallsBackOnBackendFailure(t *testing.T) {
	tg := newTestGateway(&fakeCompleter{response: planJSON})
	tg.handle(1, "salary delayed, bills due")

	tg.Reevaluator = agent.NewReevaluator(&fakeCompleter{response: "no json here"}, nil)

	reply := tg.handle(1, "/stuck")
	if !strings.Contains(reply, agent.FallbackSuggestion) {
		t.Errorf("Expected fallback suggestion, got:\n%s", reply)
	}
}

func TestHandle_RedirectForNonFinancial(t *testing.T) {
	tg := newTestGateway(&fakeCompleter{response: `{"not_financial": true, "redirect_message": "redirect please"}`})

	reply := tg.handle(1, "my friend and I argued")
	if reply != "redirect please" {
		t.Errorf("Expected redirect message, got %q", reply)
	}
}

func TestHandle_CommandsWithoutSession(t *testing.T) {
	tg := newTestGateway(&fakeCompleter{response: planJSON})

	for _, cmd := range []string{"/next", "/step", "/stuck"} {
		reply := tg.handle(1, cmd)
		if !strings.Contains(reply, "situation") {
			t.Errorf("Expected a prompt to describe the situation for %s, got %q", cmd, reply)
		}
	}
}

func TestHandle_ResetClearsSession(t *testing.T) {
	tg := newTestGateway(&fakeCompleter{response: planJSON})
	tg.handle(1, "salary delayed, bills due")

	tg.handle(1, "/reset")
	if _, ok := tg.sessions[1]; ok {
		t.Error("Expected session to be cleared")
	}
}

func TestHandle_ResourcesListsLinks(t *testing.T) {
	tg := newTestGateway(&fakeCompleter{response: planJSON})

	reply := tg.handle(1, "/resources")
	if !strings.Contains(reply, "https://www.nabard.org") {
		t.Errorf("Expected resource links, got:\n%s", reply)
	}
}
