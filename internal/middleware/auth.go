package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mtlprog/slopmesh/internal/domain"
)

type contextKey string

const (
	// ContextKeyAgent is the key for storing the caller in request context.
	ContextKeyAgent contextKey = "agent"
)

// AgentLookup resolves a bearer token to a configured agent. The human
// operator authenticates the same way, under the reserved id "human".
type AgentLookup interface {
	GetByToken(ctx context.Context, token string) (*domain.Agent, error)
}

// AuthMiddleware handles Bearer token authentication.
type AuthMiddleware struct {
	agents AgentLookup
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(agents AgentLookup) *AuthMiddleware {
	return &AuthMiddleware{
		agents: agents,
	}
}

// Authenticate validates the Bearer token and adds the caller to the request
// context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}

		token := parts[1]
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		agent, err := m.agents.GetByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrAgentNotFound) {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyAgent, agent)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAgentFromContext retrieves the authenticated caller from request context.
func GetAgentFromContext(ctx context.Context) (*domain.Agent, error) {
	agent, ok := ctx.Value(ContextKeyAgent).(*domain.Agent)
	if !ok || agent == nil {
		return nil, domain.ErrAgentNotFound
	}
	return agent, nil
}
