package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/boshmah/HealthCommandCenter/internal/config"
	"github.com/boshmah/HealthCommandCenter/internal/userctx"
)

// Middleware installs the verified caller identity on the request context.
type Middleware struct {
	config  *config.Config
	service *Service
}

func NewMiddleware(cfg *config.Config, service *Service) *Middleware {
	return &Middleware{
		config:  cfg,
		service: service,
	}
}

// RequireAuth rejects requests without a valid Bearer token. A missing or
// invalid identity is always a 401, never silently defaulted.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.authenticateHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(userctx.WithUserID(r.Context(), userID)))
	})
}

// OptionalAuth validates the Bearer token only when one is provided.
// Requests without a token pass through without an identity; protected
// handlers still answer 401 for them.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if strings.TrimSpace(authHeader) == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.authenticateHeader(authHeader)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(userctx.WithUserID(r.Context(), userID)))
	})
}

// DefaultUser injects the shared local-dev identity. Used only when
// AUTH_MODE=none; every request acts as the "default" user.
func (m *Middleware) DefaultUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(userctx.WithUserID(r.Context(), "default")))
	})
}

func (m *Middleware) authenticateHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrInvalidToken
	}

	return m.service.VerifyToken(parts[1])
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(errorResponse{Error: "Unauthorized"})
}

func isPublicPath(path string) bool {
	return path == "/healthz" || strings.HasPrefix(path, "/v1/auth/")
}
