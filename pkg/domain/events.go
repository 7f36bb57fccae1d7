package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventAnswerRecorded  EventType = "answer_recorded"
	EventScoreComputed   EventType = "score_computed"
	EventLayerTransition EventType = "layer_transition"
	EventActionFired     EventType = "action_fired"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// AnswerEvent is emitted after an answer is recorded.
type AnswerEvent struct {
	EventBase
	Layer      LayerID `json:"layer"`
	QuestionID string  `json:"question_id"`
	// Synthetic marks score pseudo-answers injected by the scoring phase.
	Synthetic bool `json:"synthetic,omitempty"`
}

// ScoreEvent is emitted when the scoring phase computes a derived score.
type ScoreEvent struct {
	EventBase
	Layer   LayerID `json:"layer"`
	ScoreID string  `json:"score_id"`
	Value   float64 `json:"value"`
}

// TransitionEvent is emitted when the session escalates to another layer.
type TransitionEvent struct {
	EventBase
	From LayerID `json:"from"`
	To   LayerID `json:"to"`
}

// ActionEvent is emitted when a trigger fires an action.
type ActionEvent struct {
	EventBase
	Layer      LayerID `json:"layer"`
	QuestionID string  `json:"question_id"`
	Action     Action  `json:"action"`
}

// LifecycleHooks defines callbacks for engine observability.
// All hooks are optional and must not block.
type LifecycleHooks struct {
	OnAnswerRecorded  func(context.Context, *AnswerEvent)
	OnScoreComputed   func(context.Context, *ScoreEvent)
	OnLayerTransition func(context.Context, *TransitionEvent)
	OnActionFired     func(context.Context, *ActionEvent)
}
