// Package metrics wires Prometheus collectors into the engine's lifecycle
// hooks. Counters only track catalog-level dimensions (layer, action
// type, priority) and never answer values.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/amparo-health/screening/pkg/domain"
)

// Metrics bundles the engine's Prometheus collectors.
type Metrics struct {
	AnswersRecorded *prometheus.CounterVec
	ScoresComputed  *prometheus.CounterVec
	Transitions     *prometheus.CounterVec
	ActionsFired    *prometheus.CounterVec
}

// New creates the collectors and registers them on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnswersRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screening_answers_recorded_total",
				Help: "Total number of answers recorded, by layer",
			},
			[]string{"layer"},
		),
		ScoresComputed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screening_scores_computed_total",
				Help: "Total number of derived instrument scores computed",
			},
			[]string{"score"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screening_layer_transitions_total",
				Help: "Total number of layer escalations",
			},
			[]string{"from", "to"},
		),
		ActionsFired: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screening_actions_fired_total",
				Help: "Total number of actions fired by triggers",
			},
			[]string{"type", "priority"},
		),
	}
	reg.MustRegister(m.AnswersRecorded, m.ScoresComputed, m.Transitions, m.ActionsFired)
	return m
}

// Hooks returns lifecycle hooks that record the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAnswerRecorded: func(ctx context.Context, e *domain.AnswerEvent) {
			m.AnswersRecorded.WithLabelValues(string(e.Layer)).Inc()
		},
		OnScoreComputed: func(ctx context.Context, e *domain.ScoreEvent) {
			m.ScoresComputed.WithLabelValues(e.ScoreID).Inc()
		},
		OnLayerTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.From), string(e.To)).Inc()
		},
		OnActionFired: func(ctx context.Context, e *domain.ActionEvent) {
			m.ActionsFired.WithLabelValues(string(e.Action.Type), string(e.Action.Priority)).Inc()
		},
	}
}
