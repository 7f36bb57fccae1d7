package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amparo-health/screening/pkg/domain"
)

// RunStateStoreContract runs a suite of tests verifying that a StateStore
// implementation adheres to the interface contract. Every adapter's test
// package calls this against its own instance.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, domain.LayerTriage)
		state.Answers["pain_now"] = 5.0
		state.Answers["health_concerns"] = []string{"pain", "sleep"}

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.CurrentLayer, loaded.CurrentLayer)
		assert.Equal(t, 5.0, loaded.Answers["pain_now"])
		// JSON persistence may come back as []any; only presence is contractual.
		assert.NotNil(t, loaded.Answers["health_concerns"])
	})

	t.Run("Save Isolation", func(t *testing.T) {
		state := domain.NewState(sessionID, domain.LayerTriage)
		state.Answers["phq2_interest"] = 1.0
		require.NoError(t, store.Save(ctx, sessionID, state))

		// Mutating after Save must not leak into the stored copy.
		state.Answers["phq2_interest"] = 3.0

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 1.0, loaded.Answers["phq2_interest"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, domain.LayerTriage))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, domain.NewState(id1, domain.LayerTriage)))
		require.NoError(t, store.Save(ctx, id2, domain.NewState(id2, domain.LayerTriage)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
