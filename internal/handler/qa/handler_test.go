package qa

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/policyqa/policyqa-backend/internal/middleware"
	"github.com/policyqa/policyqa-backend/internal/service/answer"
	authservice "github.com/policyqa/policyqa-backend/internal/service/auth"
)

func setupRouter(t *testing.T, upstream string) (*chi.Mux, *http.Cookie) {
	t.Helper()

	sessions := authservice.NewService(0)
	session, err := sessions.Signup(context.Background(), "parent@example.com", "parent123")
	if err != nil {
		t.Fatalf("Signup err: %v", err)
	}

	authmw := middleware.NewAuthenticator(sessions)
	handler := New(answer.NewClient(upstream, time.Second), authmw)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, &http.Cookie{Name: middleware.SessionCookie, Value: session.Token}
}

func ask(t *testing.T, r http.Handler, question string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	payload, _ := json.Marshal(map[string]string{"question": question})
	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestAskRequiresSession(t *testing.T) {
	r, _ := setupRouter(t, "http://127.0.0.1:0")

	if resp := ask(t, r, "What is the refund policy?", nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	r, cookie := setupRouter(t, "http://127.0.0.1:0")

	if resp := ask(t, r, "   ", cookie); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestAskRelaysAnswer(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Question string `json:"question"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		if payload.Question != "What is the refund policy?" {
			t.Errorf("question not relayed verbatim: %q", payload.Question)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"answer":"Within 30 days.","sources":[{"source":"refund-policy.pdf","page":2}]}`)
	}))
	defer upstream.Close()

	r, cookie := setupRouter(t, upstream.URL)
	resp := ask(t, r, "What is the refund policy?", cookie)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Answer  string `json:"answer"`
		Sources []struct {
			DocumentName string `json:"documentName"`
			Page         *int   `json:"page"`
		} `json:"sources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Answer != "Within 30 days." {
		t.Fatalf("unexpected answer: %q", body.Answer)
	}
	if len(body.Sources) != 1 || body.Sources[0].DocumentName != "refund-policy.pdf" {
		t.Fatalf("unexpected sources: %+v", body.Sources)
	}
}

func TestAskUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model offline", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	r, cookie := setupRouter(t, upstream.URL)
	if resp := ask(t, r, "anything", cookie); resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}
