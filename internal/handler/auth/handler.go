package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/policyqa/policyqa-backend/internal/middleware"
	"github.com/policyqa/policyqa-backend/internal/model/auth"
	authservice "github.com/policyqa/policyqa-backend/internal/service/auth"
	"github.com/policyqa/policyqa-backend/pkg/utils"
)

// Handler serves the authentication endpoints.
type Handler struct {
	sessions     *authservice.Service
	authmw       *middleware.Authenticator
	cookieSecure bool
}

// New creates the auth handler.
func New(sessions *authservice.Service, authmw *middleware.Authenticator, cookieSecure bool) *Handler {
	return &Handler{
		sessions:     sessions,
		authmw:       authmw,
		cookieSecure: cookieSecure,
	}
}

// RegisterRoutes registers the auth routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/signup", h.handleSignup)
	r.Post("/auth/logout", h.handleLogout)
	r.With(h.authmw.RequireSession).Get("/auth/me", h.handleMe)
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessions.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			utils.RespondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.setSessionCookie(w, session)
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessions.Signup(r.Context(), payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrMissingField):
			utils.RespondError(w, http.StatusBadRequest, "email and password required")
		case errors.Is(err, authservice.ErrEmailTaken):
			utils.RespondError(w, http.StatusConflict, "email already registered")
		default:
			utils.RespondError(w, http.StatusInternalServerError, "signup failed")
		}
		return
	}

	h.setSessionCookie(w, session)
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	utils.RespondJSON(w, http.StatusOK, principal)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		h.sessions.Logout(r.Context(), cookie.Value)
	}
	h.clearSessionCookie(w)
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, session auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
