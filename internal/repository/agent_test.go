package repository_test

import (
	"context"
	"testing"

	"github.com/mtlprog/slopmesh/internal/domain"
	"github.com/mtlprog/slopmesh/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgentTokens(t *testing.T) {
	agents, err := repository.ParseAgentTokens("alice=token-a, bob=token-b")
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, domain.Agent{ID: "alice", Name: "alice", Token: "token-a"}, agents[0])
	assert.Equal(t, domain.Agent{ID: "bob", Name: "bob", Token: "token-b"}, agents[1])
}

func TestParseAgentTokens_EmptyInput(t *testing.T) {
	agents, err := repository.ParseAgentTokens("")
	require.NoError(t, err)
	assert.Nil(t, agents)

	agents, err = repository.ParseAgentTokens("   ")
	require.NoError(t, err)
	assert.Nil(t, agents)
}

func TestParseAgentTokens_SkipsBlankEntries(t *testing.T) {
	agents, err := repository.ParseAgentTokens("alice=token-a,,bob=token-b,")
	require.NoError(t, err)
	assert.Len(t, agents, 2)
}

func TestParseAgentTokens_Malformed(t *testing.T) {
	for _, raw := range []string{"alice", "=token-a", "alice=", "alice=token-a,bob"} {
		_, err := repository.ParseAgentTokens(raw)
		require.Error(t, err, "%q", raw)
		assert.Contains(t, err.Error(), "malformed agent token entry")
	}
}

func TestParseAgentTokens_RejectsDuplicateIDs(t *testing.T) {
	_, err := repository.ParseAgentTokens("alice=token-a,alice=token-b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate agent id "alice"`)
}

func TestParseAgentTokens_RejectsDuplicateTokens(t *testing.T) {
	_, err := repository.ParseAgentTokens("alice=token-a,bob=token-a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate token for agent "bob"`)
}

func TestAgentRegistry_GetByToken(t *testing.T) {
	registry := repository.NewAgentRegistry([]domain.Agent{{ID: "alice", Name: "alice", Token: "token-a"}})

	agent, err := registry.GetByToken(context.Background(), "token-a")
	require.NoError(t, err)
	assert.Equal(t, "alice", agent.ID)

	_, err = registry.GetByToken(context.Background(), "wrong")
	assert.ErrorIs(t, err, domain.ErrAgentNotFound)
}

func TestAgentRegistry_GetByID(t *testing.T) {
	registry := repository.NewAgentRegistry([]domain.Agent{{ID: "alice", Name: "alice", Token: "token-a"}})

	agent, err := registry.GetByID(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "token-a", agent.Token)

	_, err = registry.GetByID(context.Background(), "bob")
	assert.ErrorIs(t, err, domain.ErrAgentNotFound)
}

func TestAgentRegistry_List_SortedByID(t *testing.T) {
	registry := repository.NewAgentRegistry([]domain.Agent{
		{ID: "charlie", Name: "charlie", Token: "token-c"},
		{ID: "alice", Name: "alice", Token: "token-a"},
		{ID: "bob", Name: "bob", Token: "token-b"},
	})

	agents := registry.List()
	require.Len(t, agents, 3)
	assert.Equal(t, "alice", agents[0].ID)
	assert.Equal(t, "bob", agents[1].ID)
	assert.Equal(t, "charlie", agents[2].ID)
}
