package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mtlprog/slopmesh/internal/domain"
)

// AgentRegistry resolves agents configured at startup. The agent set is
// immutable for the lifetime of the process, so lookups need no locking.
type AgentRegistry struct {
	byToken map[string]*domain.Agent
	byID    map[string]*domain.Agent
}

// NewAgentRegistry creates a registry over the given agents.
func NewAgentRegistry(agents []domain.Agent) *AgentRegistry {
	r := &AgentRegistry{
		byToken: make(map[string]*domain.Agent, len(agents)),
		byID:    make(map[string]*domain.Agent, len(agents)),
	}
	for i := range agents {
		agent := agents[i]
		r.byToken[agent.Token] = &agent
		r.byID[agent.ID] = &agent
	}
	return r
}

// GetByToken finds an agent by authentication token.
func (r *AgentRegistry) GetByToken(_ context.Context, token string) (*domain.Agent, error) {
	agent, ok := r.byToken[token]
	if !ok {
		return nil, domain.ErrAgentNotFound
	}
	return agent, nil
}

// GetByID retrieves an agent by ID.
func (r *AgentRegistry) GetByID(_ context.Context, agentID string) (*domain.Agent, error) {
	agent, ok := r.byID[agentID]
	if !ok {
		return nil, domain.ErrAgentNotFound
	}
	return agent, nil
}

// List returns all agents sorted by ID.
func (r *AgentRegistry) List() []*domain.Agent {
	agents := make([]*domain.Agent, 0, len(r.byID))
	for _, agent := range r.byID {
		agents = append(agents, agent)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].ID < agents[j].ID })
	return agents
}

// ParseAgentTokens parses the AGENT_TOKENS format: comma-separated id=token
// pairs, e.g. "alice=s3cret,bob=hunter2". The id doubles as the display name.
func ParseAgentTokens(raw string) ([]domain.Agent, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var agents []domain.Agent
	seenIDs := make(map[string]bool)
	seenTokens := make(map[string]bool)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		id, token, found := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		token = strings.TrimSpace(token)
		if !found || id == "" || token == "" {
			return nil, fmt.Errorf("malformed agent token entry %q, expected id=token", pair)
		}
		if seenIDs[id] {
			return nil, fmt.Errorf("duplicate agent id %q", id)
		}
		if seenTokens[token] {
			return nil, fmt.Errorf("duplicate token for agent %q", id)
		}
		seenIDs[id] = true
		seenTokens[token] = true

		agents = append(agents, domain.Agent{ID: id, Name: id, Token: token})
	}
	return agents, nil
}
