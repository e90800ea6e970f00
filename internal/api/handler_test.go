package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Kunjal502/crisis-assitant/internal/agent"
	"github.com/Kunjal502/crisis-assitant/internal/emergency"
	"github.com/Kunjal502/crisis-assitant/internal/plan"
	"github.com/go-chi/chi/v5"
)

type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) Complete(ctx context.Context, systemInstruction, prompt string, temperature float64) (string, error) {
	return f.response, f.err
}

func newTestRouter(backend agent.Completer) http.Handler {
	generator := agent.NewGenerator(backend, emergency.NewDirectory(), "india", nil)
	r := chi.NewRouter()
	NewHandler(generator).RegisterRoutes(r)
	return r
}

func TestChat_ReturnsPlan(t *testing.T) {
	router := newTestRouter(&fakeCompleter{response: `{"crisis_type": "Salary delay", "severity": "low"}`})

	body := `{"user_input": "salary delayed, bills piling up", "steps": 5}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var got plan.Plan
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.CrisisType != "Salary delay" {
		t.Errorf("Expected crisis_type 'Salary delay', got %q", got.CrisisType)
	}
	if got.Mood != "overwhelmed" {
		t.Errorf("Expected defaulted mood, got %q", got.Mood)
	}
}

func TestChat_RedirectVariant(t *testing.T) {
	router := newTestRouter(&fakeCompleter{response: `{"not_financial": true, "redirect_message": "redirect"}`})

	body := `{"user_input": "My friend and I had an argument"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var got plan.Plan
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !got.NotFinancial || got.RedirectMessage != "redirect" {
		t.Errorf("Expected redirect variant, got %+v", got)
	}
}

func TestChat_EmptyInputRejected(t *testing.T) {
	router := newTestRouter(&fakeCompleter{response: `{}`})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"user_input": "  "}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestChat_MalformedBodyRejected(t *testing.T) {
	router := newTestRouter(&fakeCompleter{response: `{}`})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`not json`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestChat_ScriptTagsStripped(t *testing.T) {
	backend := &fakeCompleter{response: `{"crisis_type": "Debt"}`}
	generator := agent.NewGenerator(backend, emergency.NewDirectory(), "india", nil)
	r := chi.NewRouter()
	NewHandler(generator).RegisterRoutes(r)

	body := `{"user_input": "<script>alert(1)</script>loan trouble"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
}
