package qa

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/policyqa/policyqa-backend/internal/middleware"
	"github.com/policyqa/policyqa-backend/internal/service/answer"
	"github.com/policyqa/policyqa-backend/pkg/utils"
)

// Handler relays questions to the answering service. One synchronous
// round-trip per request; no store is touched on this path.
type Handler struct {
	answers *answer.Client
	authmw  *middleware.Authenticator
}

// New creates the question-answering handler.
func New(answers *answer.Client, authmw *middleware.Authenticator) *Handler {
	return &Handler{answers: answers, authmw: authmw}
}

// RegisterRoutes registers the ask route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(h.authmw.RequireSession).Post("/ask", h.handleAsk)
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Question) == "" {
		utils.RespondError(w, http.StatusBadRequest, "question is required")
		return
	}

	result, err := h.answers.Ask(r.Context(), payload.Question)
	if err != nil {
		log.Printf("[qa] ask failed: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "answering service unavailable, try again later")
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}
