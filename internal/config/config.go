package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Answering AnsweringConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// AuthConfig describes session issuance and the out-of-band admin account.
type AuthConfig struct {
	SessionTTL    time.Duration
	CookieSecure  bool
	AdminEmail    string
	AdminPassword string
}

// AnsweringConfig points at the external answering service.
type AnsweringConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	auth, err := loadAuthConfig()
	if err != nil {
		return nil, err
	}

	answering, err := loadAnsweringConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Auth: auth, Answering: answering}, nil
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	addr := port
	if !strings.Contains(port, ":") {
		if strings.Contains(port, " ") {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		addr = ":" + port
	}

	origins := []string{"*"}
	if raw := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); raw != "" {
		origins = origins[:0]
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	return ServerConfig{Addr: addr, AllowedOrigins: origins}, nil
}

func loadAuthConfig() (AuthConfig, error) {
	ttlHours := 7 * 24
	if override, err := parseOptionalIntEnv("SESSION_TTL_HOURS"); err != nil {
		return AuthConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return AuthConfig{}, fmt.Errorf("SESSION_TTL_HOURS must be at least 1, got %d", *override)
		}
		ttlHours = *override
	}

	secure, err := parseBoolEnv("COOKIE_SECURE", false)
	if err != nil {
		return AuthConfig{}, err
	}

	return AuthConfig{
		SessionTTL:    time.Duration(ttlHours) * time.Hour,
		CookieSecure:  secure,
		AdminEmail:    getEnvOrDefault("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnvOrDefault("ADMIN_PASSWORD", "admin123"),
	}, nil
}

func loadAnsweringConfig() (AnsweringConfig, error) {
	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("ANSWERING_SERVICE_TIMEOUT"); err != nil {
		return AnsweringConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return AnsweringConfig{}, fmt.Errorf("ANSWERING_SERVICE_TIMEOUT must be at least 1, got %d", *override)
		}
		timeoutSeconds = *override
	}

	return AnsweringConfig{
		BaseURL: getEnvOrDefault("ANSWERING_SERVICE_URL", "http://127.0.0.1:8000"),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
