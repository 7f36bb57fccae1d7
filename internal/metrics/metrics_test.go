package metrics_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	screening "github.com/amparo-health/screening"
	"github.com/amparo-health/screening/internal/metrics"
	"github.com/amparo-health/screening/pkg/domain"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	engine := screening.New(screening.WithLifecycleHooks(m.Hooks()))
	ctx := context.Background()

	_, err := engine.Start(ctx, "emp-1")
	require.NoError(t, err)
	_, err = engine.RecordAnswer(ctx, "emp-1", "sleep_quality", "poor")
	require.NoError(t, err)
	_, err = engine.RecordAnswer(ctx, "emp-1", "pain_now", 8)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnswersRecorded.WithLabelValues(string(domain.LayerTriage))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("triage", "targeted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActionsFired.WithLabelValues("education", "low")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ScoresComputed.WithLabelValues("who5_score")))
}

func TestMetrics_ScoreCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	engine := screening.New(screening.WithLifecycleHooks(m.Hooks()))
	ctx := context.Background()

	_, err := engine.Start(ctx, "emp-1")
	require.NoError(t, err)

	for _, a := range []struct {
		id    string
		value any
	}{
		{"pain_now", 0},
		{"phq2_interest", 0},
		{"phq2_mood", 0},
		{"gad2_nervous", 0},
		{"gad2_worry", 0},
		{"sleep_quality", "good"},
		{"health_concerns", []string{"none"}},
	} {
		_, err := engine.RecordAnswer(ctx, "emp-1", a.id, a.value)
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScoresComputed.WithLabelValues("phq2_score")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScoresComputed.WithLabelValues("gad2_score")))
}

func TestMetrics_RegistersOnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)

	// Double registration of the same collectors must fail loudly.
	assert.Panics(t, func() { metrics.New(reg) })
}
