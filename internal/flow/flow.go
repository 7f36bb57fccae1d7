// Package flow implements the progressive screening evaluator: a pure,
// synchronous decision engine over one session's in-memory state. It
// performs no I/O and holds no persistence; callers own the State and one
// Flow instance per session.
package flow

import (
	"fmt"
	"time"

	"github.com/amparo-health/screening/pkg/catalog"
	"github.com/amparo-health/screening/pkg/domain"
)

// Flow drives one user through layered questions, deciding progression
// and side-effect actions. Not safe for concurrent use: each session must
// own its instance exclusively.
type Flow struct {
	catalog *catalog.Catalog
	state   *domain.State
	layer   *domain.Layer
}

// New binds a Flow to an existing session state.
func New(c *catalog.Catalog, state *domain.State) (*Flow, error) {
	layer, ok := c.Layer(state.CurrentLayer)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownLayer, state.CurrentLayer)
	}
	return &Flow{catalog: c, state: state, layer: layer}, nil
}

// Start creates a fresh session positioned at the catalog entry layer.
func Start(c *catalog.Catalog, sessionID string) *Flow {
	state := domain.NewState(sessionID, c.Entry())
	layer, _ := c.Layer(c.Entry())
	return &Flow{catalog: c, state: state, layer: layer}
}

// State returns the underlying session state.
func (f *Flow) State() *domain.State { return f.state }

// Layer returns the currently active layer definition.
func (f *Flow) Layer() *domain.Layer { return f.layer }

// RecordAnswer validates and stores an answer for a question of the
// current layer, then evaluates that question's triggers in declaration
// order. All matching effects are returned: every transition target (in
// order) and every fired action. The caller decides which transition to
// apply; fired actions are appended to the session as a side effect.
//
// Re-answering a question first retracts the actions it previously fired,
// then re-evaluates, so an unchanged re-submission leaves the accumulated
// action list unchanged.
func (f *Flow) RecordAnswer(questionID string, value any) (domain.Effects, error) {
	q, ok := f.layer.Question(questionID)
	if !ok {
		return domain.Effects{}, fmt.Errorf("%w: %q is not part of layer %q", domain.ErrUnknownQuestion, questionID, f.layer.ID)
	}

	normalized, err := normalizeAnswer(q, value)
	if err != nil {
		return domain.Effects{}, err
	}

	if _, answered := f.state.Answers[questionID]; answered {
		f.retract(questionID)
	}
	f.state.Answers[questionID] = normalized
	f.state.UpdatedAt = time.Now().UTC()

	return f.applyTriggers(questionID, normalized)
}

// NextQuestion returns the first question of the current layer, in
// declared order, that has no recorded answer and whose gating condition
// (if any) holds against the answers recorded so far. A condition that
// references an unanswered question makes the question unavailable.
// Returns nil when no question remains.
func (f *Flow) NextQuestion() *domain.Question {
	for i := range f.layer.Questions {
		q := &f.layer.Questions[i]
		if _, answered := f.state.Answers[q.ID]; answered {
			continue
		}
		if f.available(q) {
			return q
		}
	}
	return nil
}

// LayerComplete reports whether every available question of the current
// layer has a recorded answer. Questions whose gate is unmet are excluded
// from the completeness count, so a layer can complete without them.
func (f *Flow) LayerComplete() bool {
	for i := range f.layer.Questions {
		q := &f.layer.Questions[i]
		if !f.available(q) {
			continue
		}
		if _, answered := f.state.Answers[q.ID]; !answered {
			return false
		}
	}
	return true
}

// Terminal reports whether the current layer has no escalation triggers,
// i.e. completing it ends the assessment.
func (f *Flow) Terminal() bool {
	for _, t := range f.layer.Triggers {
		if t.IsTransition() {
			return false
		}
	}
	return true
}

// TransitionTo replaces the current layer. The target must be defined in
// the catalog: unknown ids fail with ErrUnknownLayer instead of silently
// keeping the current layer. Transitioning to the current layer is a no-op.
// Recorded answers survive the transition; gating conditions in later
// layers may reference them.
func (f *Flow) TransitionTo(id domain.LayerID) error {
	if id == f.state.CurrentLayer {
		return nil
	}
	layer, ok := f.catalog.Layer(id)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownLayer, id)
	}
	f.layer = layer
	f.state.CurrentLayer = id
	f.state.History = append(f.state.History, id)
	f.state.UpdatedAt = time.Now().UTC()
	return nil
}

// TriggeredActions returns the accumulated fired actions in trigger
// order, not deduplicated across distinct questions.
func (f *Flow) TriggeredActions() []domain.FiredAction {
	return f.state.Fired
}

// available evaluates a question's gating condition against recorded
// answers. Evaluation errors (a mistyped gate would be a catalog defect,
// caught by validation) count as unavailable.
func (f *Flow) available(q *domain.Question) bool {
	if q.Condition == nil {
		return true
	}
	answer, ok := f.state.Answers[q.Condition.QuestionID]
	if !ok {
		return false
	}
	match, err := compare(q.Condition.Operator, answer, q.Condition.Value)
	return err == nil && match
}

// applyTriggers scans the current layer's triggers for the answered
// question, in declaration order, collecting every matching effect.
func (f *Flow) applyTriggers(questionID string, value any) (domain.Effects, error) {
	var effects domain.Effects
	now := time.Now().UTC()
	for _, t := range f.layer.Triggers {
		if t.QuestionID != questionID {
			continue
		}
		match, err := compare(t.Operator, value, t.Value)
		if err != nil {
			return domain.Effects{}, fmt.Errorf("trigger on %q: %w", questionID, err)
		}
		if !match {
			continue
		}
		if t.IsTransition() {
			effects.Transitions = append(effects.Transitions, t.TargetLayer)
			continue
		}
		action, ok := f.layer.Action(t.ActionID)
		if !ok {
			// Catalog validation guarantees resolution; guard anyway.
			return domain.Effects{}, fmt.Errorf("trigger on %q references undeclared action %q", questionID, t.ActionID)
		}
		fired := domain.FiredAction{
			Action:     action,
			QuestionID: questionID,
			Layer:      f.layer.ID,
			FiredAt:    now,
		}
		f.state.Fired = append(f.state.Fired, fired)
		effects.Actions = append(effects.Actions, fired)
	}
	return effects, nil
}

// retract removes actions previously fired by the given question so that
// re-answering re-evaluates from a clean slate.
func (f *Flow) retract(questionID string) {
	kept := f.state.Fired[:0]
	for _, a := range f.state.Fired {
		if a.QuestionID != questionID {
			kept = append(kept, a)
		}
	}
	f.state.Fired = kept
}
