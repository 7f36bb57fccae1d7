package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amparo-health/screening/pkg/adapters/memory"
	"github.com/amparo-health/screening/pkg/domain"
	"github.com/amparo-health/screening/pkg/persistence/middleware"
	"github.com/amparo-health/screening/pkg/ports"
)

var (
	keyA = []byte("0123456789abcdef0123456789abcdef")
	keyB = []byte("fedcba9876543210fedcba9876543210")
)

func sampleState(id string) *domain.State {
	state := domain.NewState(id, domain.LayerTriage)
	state.Answers["pain_now"] = 8.0
	state.Answers["sleep_quality"] = "poor"
	return state
}

func TestEncryptionMiddleware_RoundTrip(t *testing.T) {
	inner := memory.NewStore()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: keyA,
	})(inner)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", sampleState("s1")))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 8.0, loaded.Answers["pain_now"])
	assert.Equal(t, "poor", loaded.Answers["sleep_quality"])
}

func TestEncryptionMiddleware_AtRestOpacity(t *testing.T) {
	inner := memory.NewStore()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: keyA,
	})(inner)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", sampleState("s1")))

	// The backing store must only see the envelope, never the answers.
	raw, err := inner.Load(ctx, "s1")
	require.NoError(t, err)
	assert.NotContains(t, raw.Answers, "pain_now")
	assert.NotContains(t, raw.Answers, "sleep_quality")
	assert.Contains(t, raw.Answers, "__encrypted__")
	assert.Empty(t, raw.CurrentLayer)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	inner := memory.NewStore()
	ctx := context.Background()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: keyA,
	})(inner)
	require.NoError(t, oldStore.Save(ctx, "s1", sampleState("s1")))

	// New deployment rotated to keyB; keyA rides along as fallback.
	newStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    keyB,
		FallbackKeys: [][]byte{keyA},
	})(inner)

	loaded, err := newStore.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 8.0, loaded.Answers["pain_now"])
}

func TestEncryptionMiddleware_WrongKey(t *testing.T) {
	inner := memory.NewStore()
	ctx := context.Background()

	writer := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: keyA,
	})(inner)
	require.NoError(t, writer.Save(ctx, "s1", sampleState("s1")))

	reader := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: keyB,
	})(inner)
	_, err := reader.Load(ctx, "s1")
	assert.ErrorContains(t, err, "decrypt")
}

func TestEncryptionMiddleware_RejectsPlainState(t *testing.T) {
	inner := memory.NewStore()
	ctx := context.Background()

	// A state written without encryption must not be readable through
	// the encrypting store.
	require.NoError(t, inner.Save(ctx, "s1", sampleState("s1")))

	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: keyA,
	})(inner)
	_, err := store.Load(ctx, "s1")
	assert.ErrorContains(t, err, "envelope")
}

func TestEncryptionMiddleware_BadKeyLength(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: []byte("short"),
		})
	})
}

func TestChain_Order(t *testing.T) {
	inner := memory.NewStore()
	ctx := context.Background()

	store := middleware.Chain(inner,
		middleware.NewPIIMiddleware([]string{"^sleep_"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: keyA}),
	)

	require.NoError(t, store.Save(ctx, "s1", sampleState("s1")))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, middleware.Masked, loaded.Answers["sleep_quality"], "masking applies before encryption")
	assert.Equal(t, 8.0, loaded.Answers["pain_now"])

	var _ ports.StateStore = store
}
