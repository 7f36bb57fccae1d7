package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	screening "github.com/amparo-health/screening"
	"github.com/amparo-health/screening/pkg/domain"
)

func newTestServer() *Server {
	return NewServer(screening.New())
}

func TestHandleStart(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	t.Run("generated session id", func(t *testing.T) {
		resp, err := s.handleStart(ctx, mcp.CallToolRequest{}, map[string]any{})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.SessionID)
		require.NotNil(t, resp.Prompt.Question)
		assert.Equal(t, "pain_now", resp.Prompt.Question.ID)
		assert.Equal(t, domain.LayerTriage, resp.Prompt.Layer)
	})

	t.Run("explicit session id", func(t *testing.T) {
		resp, err := s.handleStart(ctx, mcp.CallToolRequest{}, map[string]any{"session_id": "emp-7"})
		require.NoError(t, err)
		assert.Equal(t, "emp-7", resp.SessionID)
	})
}

func TestHandleRecordAnswer(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	_, err := s.handleStart(ctx, mcp.CallToolRequest{}, map[string]any{"session_id": "emp-1"})
	require.NoError(t, err)

	t.Run("numeric value escalates", func(t *testing.T) {
		resp, err := s.handleRecordAnswer(ctx, mcp.CallToolRequest{}, map[string]any{
			"session_id":  "emp-1",
			"question_id": "pain_now",
			"value":       "6",
		})
		require.NoError(t, err)
		assert.True(t, resp.Result.Transitioned)
		assert.Equal(t, domain.LayerTargeted, resp.Result.To)
		assert.Equal(t, domain.LayerTargeted, resp.Prompt.Layer)
	})

	t.Run("bare word accepted as select answer", func(t *testing.T) {
		_, err := s.handleStart(ctx, mcp.CallToolRequest{}, map[string]any{"session_id": "emp-2"})
		require.NoError(t, err)

		resp, err := s.handleRecordAnswer(ctx, mcp.CallToolRequest{}, map[string]any{
			"session_id":  "emp-2",
			"question_id": "sleep_quality",
			"value":       "poor",
		})
		require.NoError(t, err)
		require.Len(t, resp.Result.Effects.Actions, 1)
		assert.Equal(t, "sleep-hygiene", resp.Result.Effects.Actions[0].ID)
	})

	t.Run("json array value", func(t *testing.T) {
		resp, err := s.handleRecordAnswer(ctx, mcp.CallToolRequest{}, map[string]any{
			"session_id":  "emp-2",
			"question_id": "health_concerns",
			"value":       `["energy"]`,
		})
		require.NoError(t, err)
		require.Len(t, resp.Result.Effects.Actions, 1)
		assert.Equal(t, "energy-resources", resp.Result.Effects.Actions[0].ID)
	})

	t.Run("unknown session surfaces the error", func(t *testing.T) {
		_, err := s.handleRecordAnswer(ctx, mcp.CallToolRequest{}, map[string]any{
			"session_id":  "ghost",
			"question_id": "pain_now",
			"value":       "1",
		})
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestHandleNextQuestion(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	_, err := s.handleStart(ctx, mcp.CallToolRequest{}, map[string]any{"session_id": "emp-1"})
	require.NoError(t, err)

	resp, err := s.handleNextQuestion(ctx, mcp.CallToolRequest{}, map[string]any{"session_id": "emp-1"})
	require.NoError(t, err)
	require.NotNil(t, resp.Prompt.Question)
	assert.Equal(t, "pain_now", resp.Prompt.Question.ID)

	_, err = s.handleNextQuestion(ctx, mcp.CallToolRequest{}, map[string]any{"session_id": "ghost"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
