package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/policyqa/policyqa-backend/internal/config"
	"github.com/policyqa/policyqa-backend/internal/handler"
	"github.com/policyqa/policyqa-backend/internal/service/answer"
	authservice "github.com/policyqa/policyqa-backend/internal/service/auth"
	historyservice "github.com/policyqa/policyqa-backend/internal/service/history"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	sessions := authservice.NewService(cfg.Auth.SessionTTL)
	if err := sessions.ProvisionAdmin(cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Fatalf("failed to provision admin account: %v", err)
	}
	log.Printf("admin account provisioned for %s", cfg.Auth.AdminEmail)

	history := historyservice.NewService()
	answers := answer.NewClient(cfg.Answering.BaseURL, cfg.Answering.Timeout)
	log.Printf("answering service at %s", cfg.Answering.BaseURL)

	router := handler.NewRouter(sessions, history, answers, handler.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		CookieSecure:   cfg.Auth.CookieSecure,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("policy QA backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
