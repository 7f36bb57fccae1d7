package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	screening "github.com/amparo-health/screening"
	"github.com/amparo-health/screening/pkg/domain"
)

func newTestHandler() http.Handler {
	return NewHandler(screening.New())
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestGetHealth(t *testing.T) {
	rr := doJSON(t, newTestHandler(), http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetInfo(t *testing.T) {
	rr := doJSON(t, newTestHandler(), http.MethodGet, "/api/info", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "screening-http", resp["app"])
	assert.NotEmpty(t, resp["version"])
}

func TestGetCatalog(t *testing.T) {
	rr := doJSON(t, newTestHandler(), http.MethodGet, "/api/catalog", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var layers []domain.Layer
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &layers))
	require.Len(t, layers, 3)
	assert.Equal(t, domain.LayerTriage, layers[0].ID)
}

func TestCreateSession(t *testing.T) {
	handler := newTestHandler()

	t.Run("generated id", func(t *testing.T) {
		rr := doJSON(t, handler, http.MethodPost, "/api/sessions", nil)
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			State  *domain.State     `json:"state"`
			Prompt *screening.Prompt `json:"prompt"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.State.SessionID)
		assert.Equal(t, domain.LayerTriage, resp.State.CurrentLayer)
		require.NotNil(t, resp.Prompt.Question)
		assert.Equal(t, "pain_now", resp.Prompt.Question.ID)
	})

	t.Run("explicit id", func(t *testing.T) {
		rr := doJSON(t, handler, http.MethodPost, "/api/sessions", map[string]string{"session_id": "emp-42"})
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			State *domain.State `json:"state"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "emp-42", resp.State.SessionID)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewBufferString("{broken"))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetSession_NotFound(t *testing.T) {
	rr := doJSON(t, newTestHandler(), http.MethodGet, "/api/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRecordAnswer(t *testing.T) {
	handler := newTestHandler()
	rr := doJSON(t, handler, http.MethodPost, "/api/sessions", map[string]string{"session_id": "emp-1"})
	require.Equal(t, http.StatusCreated, rr.Code)

	answer := func(questionID string, value any) *httptest.ResponseRecorder {
		return doJSON(t, handler, http.MethodPost, "/api/sessions/emp-1/answers", map[string]any{
			"question_id": questionID,
			"value":       value,
		})
	}

	t.Run("escalating answer", func(t *testing.T) {
		rr := answer("pain_now", 7)
		require.Equal(t, http.StatusOK, rr.Code)

		var result screening.Result
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.True(t, result.Transitioned)
		assert.Equal(t, domain.LayerTriage, result.From)
		assert.Equal(t, domain.LayerTargeted, result.To)
	})

	t.Run("unknown question", func(t *testing.T) {
		rr := answer("shoe_size", 42)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("mistyped value", func(t *testing.T) {
		rr := answer("pain_work", "lots")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing question id", func(t *testing.T) {
		rr := doJSON(t, handler, http.MethodPost, "/api/sessions/emp-1/answers", map[string]any{"value": 1})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		rr := doJSON(t, handler, http.MethodPost, "/api/sessions/ghost/answers", map[string]any{
			"question_id": "pain_now",
			"value":       1,
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAssessmentEndToEnd(t *testing.T) {
	handler := newTestHandler()
	rr := doJSON(t, handler, http.MethodPost, "/api/sessions", map[string]string{"session_id": "e2e"})
	require.Equal(t, http.StatusCreated, rr.Code)

	answer := func(questionID string, value any) screening.Result {
		t.Helper()
		rr := doJSON(t, handler, http.MethodPost, "/api/sessions/e2e/answers", map[string]any{
			"question_id": questionID,
			"value":       value,
		})
		require.Equal(t, http.StatusOK, rr.Code, "answer %s: %s", questionID, rr.Body.String())
		var result screening.Result
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		return result
	}

	nextQuestion := func() *screening.Prompt {
		t.Helper()
		rr := doJSON(t, handler, http.MethodGet, "/api/sessions/e2e/question", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var prompt screening.Prompt
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &prompt))
		return &prompt
	}

	// Triage: high pain escalates immediately.
	result := answer("pain_now", 8)
	assert.True(t, result.Transitioned)
	assert.Equal(t, domain.LayerTargeted, result.To)

	prompt := nextQuestion()
	require.NotNil(t, prompt.Question)
	assert.Equal(t, domain.LayerTargeted, prompt.Layer)
	assert.Equal(t, "pain_work", prompt.Question.ID, "pain gate is met, PEG questions come first")

	// Targeted: severe interference plus low wellbeing.
	answer("pain_work", 8)
	answer("pain_mood", 8)
	answer("pain_sleep", 8)
	for i := 1; i <= 5; i++ {
		result = answer(fmt.Sprintf("who5_%d", i), 1)
	}

	// The layer completed on the last answer: scores fire together.
	assert.Equal(t, 20.0, result.Scores["who5_score"])
	assert.Equal(t, 8.0, result.Scores["peg_score"])
	assert.True(t, result.Transitioned)
	assert.Equal(t, domain.LayerSpecialized, result.To)

	// Accumulated actions are visible on the actions endpoint.
	rr = doJSON(t, handler, http.MethodGet, "/api/sessions/e2e/actions", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var actions []domain.FiredAction
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &actions))
	ids := make([]string, 0, len(actions))
	for _, a := range actions {
		ids = append(ids, a.ID)
	}
	assert.Contains(t, ids, "pain-sleep-education")
	assert.Contains(t, ids, "pain-consult")
	assert.Contains(t, ids, "wellbeing-followup")

	// Specialized is terminal: completing it ends the assessment.
	answer("symptom_duration", "over_3m")
	answer("prior_treatment", "yes")
	answer("daily_impact", 5)
	answer("support_network", "yes")
	result = answer("safety_concern", 0)
	assert.True(t, result.Done)

	prompt = nextQuestion()
	assert.Nil(t, prompt.Question)
	assert.True(t, prompt.Done)
}

func TestDeleteSession(t *testing.T) {
	handler := newTestHandler()
	rr := doJSON(t, handler, http.MethodPost, "/api/sessions", map[string]string{"session_id": "erase-me"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, handler, http.MethodDelete, "/api/sessions/erase-me", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, handler, http.MethodGet, "/api/sessions/erase-me", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetActions_EmptyIsArray(t *testing.T) {
	handler := newTestHandler()
	rr := doJSON(t, handler, http.MethodPost, "/api/sessions", map[string]string{"session_id": "quiet"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, handler, http.MethodGet, "/api/sessions/quiet/actions", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestCORS(t *testing.T) {
	handler := newTestHandler()
	req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
