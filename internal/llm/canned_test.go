package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questline/internal/planning"
)

func TestCannedClientSelectsByPrompt(t *testing.T) {
	client := NewCannedClient()
	ctx := context.Background()

	resp, err := client.Complete(ctx, CompletionRequest{User: "Return 12-18 skill_atoms for this goal."})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "skill_atoms")

	resp, err = client.Complete(ctx, CompletionRequest{User: "Plan today's quests."})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "quests")

	resp, err = client.Complete(ctx, CompletionRequest{User: "Return the corrected quest list."})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "rationale")

	assert.Len(t, client.Calls(), 3)
}

func TestCannedPayloadsPassSchemaValidation(t *testing.T) {
	client := NewCannedClient()
	ctx := context.Background()

	sm, _, err := Structured(ctx, client, CompletionRequest{User: "skill_atoms please"}, planning.DecodeSkillMap)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(sm.SkillAtoms), 10)

	ql, _, err := Structured(ctx, client, CompletionRequest{User: "daily quests please"}, planning.DecodeQuestList)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(ql.Quests), 3)
	assert.LessOrEqual(t, len(ql.Quests), 5)

	fixed, _, err := Structured(ctx, client, CompletionRequest{User: "return the corrected quest list"}, planning.DecodeQuestList)
	require.NoError(t, err)
	assert.NotEmpty(t, fixed.Rationale)
}

func TestCannedClientErrOverride(t *testing.T) {
	client := NewCannedClient()
	client.Err = errors.New("backend down")
	_, err := client.Complete(context.Background(), CompletionRequest{User: "anything"})
	require.EqualError(t, err, "backend down")
}

func TestCannedClientHonorsContext(t *testing.T) {
	client := NewCannedClient()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Complete(ctx, CompletionRequest{User: "anything"})
	require.ErrorIs(t, err, context.Canceled)
}
