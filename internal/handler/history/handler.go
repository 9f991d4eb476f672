package history

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/policyqa/policyqa-backend/internal/middleware"
	"github.com/policyqa/policyqa-backend/internal/model/conversation"
	historyservice "github.com/policyqa/policyqa-backend/internal/service/history"
	"github.com/policyqa/policyqa-backend/pkg/utils"
)

// Handler serves the conversation history endpoints. Every route requires a
// session; ownership checks live in the history service.
type Handler struct {
	history *historyservice.Service
	authmw  *middleware.Authenticator
}

// New creates the history handler.
func New(history *historyservice.Service, authmw *middleware.Authenticator) *Handler {
	return &Handler{history: history, authmw: authmw}
}

// RegisterRoutes registers the history routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/history", func(r chi.Router) {
		r.Use(h.authmw.RequireSession)
		r.Post("/", h.handleSave)
		r.Get("/", h.handleList)
		r.Get("/{conversationID}", h.handleGet)
		r.Delete("/{conversationID}", h.handleDelete)
	})
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var payload struct {
		Turns []conversation.Turn `json:"turns"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	convo, err := h.history.Save(r.Context(), principal, payload.Turns)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "save failed")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{"id": convo.ID})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.history.ListSummaries(r.Context(), principal))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	convo, err := h.history.Get(r.Context(), principal, chi.URLParam(r, "conversationID"))
	if err != nil {
		if errors.Is(err, historyservice.ErrConversationNotFound) {
			utils.RespondError(w, http.StatusNotFound, "not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, convo)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.history.Delete(r.Context(), principal, chi.URLParam(r, "conversationID")); err != nil {
		if errors.Is(err, historyservice.ErrConversationNotFound) {
			utils.RespondError(w, http.StatusNotFound, "not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "delete failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
