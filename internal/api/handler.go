// Package api provides the HTTP surface for single-turn plan requests.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Kunjal502/crisis-assitant/internal/agent"
	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
)

// ChatRequest is the inbound request shape.
type ChatRequest struct {
	UserInput string `json:"user_input"`
	Steps     int    `json:"steps"`
	Emergency bool   `json:"emergency"`
}

// Handler serves single-turn plan requests.
type Handler struct {
	generator *agent.Generator
	sanitizer *bluemonday.Policy
}

func NewHandler(generator *agent.Generator) *Handler {
	return &Handler{
		generator: generator,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// RegisterRoutes mounts the chat endpoint on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.Chat)
}

// Chat runs one reasoning call and returns the plan payload directly, either
// the redirect or the crisis-plan variant. The pipeline never surfaces an
// error for the reasoning path, so the only client errors here are malformed
// requests.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := strings.TrimSpace(h.sanitizer.Sanitize(req.UserInput))
	if input == "" {
		Error(w, http.StatusBadRequest, "user_input is required")
		return
	}

	session := agent.NewSession(input, req.Steps, req.Emergency)
	plan := h.generator.GeneratePlan(r.Context(), session)

	JSON(w, http.StatusOK, plan)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
