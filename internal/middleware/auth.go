package middleware

import (
	"context"
	"net/http"

	"github.com/policyqa/policyqa-backend/internal/model/auth"
	authservice "github.com/policyqa/policyqa-backend/internal/service/auth"
	"github.com/policyqa/policyqa-backend/pkg/utils"
)

// SessionCookie is the name of the cookie carrying the opaque session token.
const SessionCookie = "policyqa_session"

type contextKey struct{}

var principalKey contextKey

// Authenticator wires the session store into request middleware.
type Authenticator struct {
	sessions *authservice.Service
}

// NewAuthenticator creates middleware backed by the given session store.
func NewAuthenticator(sessions *authservice.Service) *Authenticator {
	return &Authenticator{sessions: sessions}
}

// RequireSession resolves the session cookie and stores the principal in the
// request context. Requests without a valid session get 401.
func (a *Authenticator) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := a.resolve(r)
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireAdmin behaves like RequireSession but additionally rejects non-admin
// principals with 403. The two failures stay distinct so callers can tell
// "log in" apart from "not allowed".
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFrom(r.Context())
		if !ok || !principal.IsAdmin() {
			utils.RespondError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (a *Authenticator) resolve(r *http.Request) (auth.Principal, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return auth.Principal{}, authservice.ErrNotAuthenticated
	}
	return a.sessions.Resolve(r.Context(), cookie.Value)
}

// WithPrincipal attaches a resolved principal to the context.
func WithPrincipal(ctx context.Context, principal auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFrom extracts the principal placed by RequireSession.
func PrincipalFrom(ctx context.Context) (auth.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(auth.Principal)
	return principal, ok
}
