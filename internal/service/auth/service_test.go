package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	model "github.com/policyqa/policyqa-backend/internal/model/auth"
	auth "github.com/policyqa/policyqa-backend/internal/service/auth"
)

func TestSignupLoginRoundTrip(t *testing.T) {
	svc := auth.NewService(0)
	ctx := context.Background()

	signupSession, err := svc.Signup(ctx, "parent@example.com", "parent123")
	if err != nil {
		t.Fatalf("Signup err: %v", err)
	}
	if signupSession.Principal.Role != model.RoleParent {
		t.Fatalf("signup role: got %s want %s", signupSession.Principal.Role, model.RoleParent)
	}

	loginSession, err := svc.Login(ctx, "parent@example.com", "parent123")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if loginSession.Token == signupSession.Token {
		t.Fatal("login should open a new session, not reuse the signup token")
	}

	principal, err := svc.Resolve(ctx, loginSession.Token)
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if principal.Email != "parent@example.com" || principal.Role != model.RoleParent {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := auth.NewService(0)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "parent@example.com", "parent123"); err != nil {
		t.Fatalf("Signup err: %v", err)
	}
	if _, err := svc.Signup(ctx, "parent@example.com", "other-password"); !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignupMissingFields(t *testing.T) {
	svc := auth.NewService(0)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "", "secret"); !errors.Is(err, auth.ErrMissingField) {
		t.Fatalf("expected ErrMissingField for empty email, got %v", err)
	}
	if _, err := svc.Signup(ctx, "parent@example.com", ""); !errors.Is(err, auth.ErrMissingField) {
		t.Fatalf("expected ErrMissingField for empty password, got %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := auth.NewService(0)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "parent@example.com", "parent123"); err != nil {
		t.Fatalf("Signup err: %v", err)
	}

	// Unknown email and wrong password must be indistinguishable.
	if _, err := svc.Login(ctx, "nobody@example.com", "parent123"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, err := svc.Login(ctx, "parent@example.com", "wrong"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
}

func TestProvisionAdmin(t *testing.T) {
	svc := auth.NewService(0)
	ctx := context.Background()

	if err := svc.ProvisionAdmin("admin@example.com", "admin123"); err != nil {
		t.Fatalf("ProvisionAdmin err: %v", err)
	}

	session, err := svc.Login(ctx, "admin@example.com", "admin123")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if session.Principal.Role != model.RoleAdmin {
		t.Fatalf("admin role: got %s", session.Principal.Role)
	}

	// Signup can never claim a provisioned admin email.
	if _, err := svc.Signup(ctx, "admin@example.com", "whatever"); !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	svc := auth.NewService(0)
	ctx := context.Background()

	session, err := svc.Signup(ctx, "parent@example.com", "parent123")
	if err != nil {
		t.Fatalf("Signup err: %v", err)
	}

	svc.Logout(ctx, session.Token)
	svc.Logout(ctx, session.Token)
	svc.Logout(ctx, "never-issued")

	if _, err := svc.Resolve(ctx, session.Token); !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated after logout, got %v", err)
	}
}

func TestResolveUnknownAndEmptyToken(t *testing.T) {
	svc := auth.NewService(0)
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, ""); !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated for empty token, got %v", err)
	}
	if _, err := svc.Resolve(ctx, "unknown-token"); !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated for unknown token, got %v", err)
	}
}

func TestResolveExpiredSession(t *testing.T) {
	svc := auth.NewService(time.Millisecond)
	ctx := context.Background()

	session, err := svc.Signup(ctx, "parent@example.com", "parent123")
	if err != nil {
		t.Fatalf("Signup err: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	if _, err := svc.Resolve(ctx, session.Token); !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated for expired session, got %v", err)
	}
}

func TestConcurrentSessionsPerPrincipal(t *testing.T) {
	svc := auth.NewService(0)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "parent@example.com", "parent123"); err != nil {
		t.Fatalf("Signup err: %v", err)
	}

	first, err := svc.Login(ctx, "parent@example.com", "parent123")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}
	second, err := svc.Login(ctx, "parent@example.com", "parent123")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}

	svc.Logout(ctx, first.Token)

	if _, err := svc.Resolve(ctx, second.Token); err != nil {
		t.Fatalf("second session should survive first logout: %v", err)
	}
}
