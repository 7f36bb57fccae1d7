// Package screening is the high-level entry point for the progressive
// health-screening engine. It binds the static catalog, the pure flow
// evaluator, and a session store into a single API for hosts (HTTP
// server, CLI, MCP) to drive one user through layered questions.
package screening

import (
	"context"
	"log/slog"
	"time"

	"github.com/amparo-health/screening/internal/flow"
	"github.com/amparo-health/screening/internal/logging"
	"github.com/amparo-health/screening/pkg/catalog"
	"github.com/amparo-health/screening/pkg/domain"
	"github.com/amparo-health/screening/pkg/ports"
	"github.com/amparo-health/screening/pkg/session"

	memorystore "github.com/amparo-health/screening/pkg/adapters/memory"
)

// Engine coordinates assessments: one session per user attempt, evaluated
// by the flow engine and persisted through the session manager.
type Engine struct {
	catalog  *catalog.Catalog
	sessions *session.Manager
	store    ports.StateStore
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog sets the layer definitions. Defaults to the builtin catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithStore sets the session persistence backend. Defaults to in-memory.
func WithStore(store ports.StateStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithSessionManager injects a preconfigured session manager (e.g. with a
// distributed locker), bypassing the default built from WithStore.
func WithSessionManager(m *session.Manager) Option {
	return func(e *Engine) {
		e.sessions = m
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a screening Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.catalog == nil {
		eng.catalog = catalog.Default()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.sessions == nil {
		if eng.store == nil {
			eng.store = memorystore.NewStore()
		}
		eng.sessions = session.NewManager(eng.store, session.WithLogger(eng.logger))
	}
	return eng
}

// Prompt describes what the host should render next for a session.
type Prompt struct {
	// Question is the next available unanswered question, or nil.
	Question *domain.Question `json:"question,omitempty"`
	Layer    domain.LayerID   `json:"layer"`
	// LayerComplete is true when every available question is answered.
	LayerComplete bool `json:"layer_complete"`
	// Done is true when the layer is complete and no further escalation
	// is possible: the assessment has ended.
	Done bool `json:"done"`
}

// Result is the outcome of recording one answer.
type Result struct {
	State *domain.State `json:"state"`
	// Effects carries every matching trigger outcome, in evaluation
	// order: all transition targets and all fired actions, from the raw
	// answer and from any derived scores computed afterwards.
	Effects domain.Effects `json:"effects"`
	// Scores lists derived scores computed by this call.
	Scores map[string]float64 `json:"scores,omitempty"`
	// Transitioned reports whether the session escalated, From -> To.
	Transitioned bool           `json:"transitioned"`
	From         domain.LayerID `json:"from,omitempty"`
	To           domain.LayerID `json:"to,omitempty"`
	// Done mirrors Prompt.Done after this answer.
	Done bool `json:"done"`
}

// Start creates (or resumes) the session with the given id.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	return e.sessions.LoadOrStart(ctx, sessionID, e.catalog.Entry())
}

// NextQuestion returns the next prompt for the session.
func (e *Engine) NextQuestion(ctx context.Context, sessionID string) (*Prompt, error) {
	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	f, err := flow.New(e.catalog, state)
	if err != nil {
		return nil, err
	}
	return promptOf(f), nil
}

// RecordAnswer validates and records an answer, runs the scoring phase
// once the layer's raw questions are complete, applies the first matching
// transition, and persists the session. All matching effects are returned
// so the host can surface action banners.
func (e *Engine) RecordAnswer(ctx context.Context, sessionID, questionID string, value any) (*Result, error) {
	var result *Result
	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := e.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}
		f, err := flow.New(e.catalog, state)
		if err != nil {
			return err
		}
		layer := state.CurrentLayer

		effects, err := f.RecordAnswer(questionID, value)
		if err != nil {
			return err
		}
		e.emitAnswer(ctx, state, layer, questionID, false)
		for _, fired := range effects.Actions {
			e.emitAction(ctx, state, fired)
		}

		// Phase 2: derived scores, once the raw questions are in.
		var scores map[string]float64
		if f.LayerComplete() {
			scoreEffects, computed, err := f.ApplyScores()
			if err != nil {
				return err
			}
			scores = computed
			for id, value := range computed {
				e.emitScore(ctx, state, layer, id, value)
			}
			for _, fired := range scoreEffects.Actions {
				e.emitAction(ctx, state, fired)
			}
			effects.Transitions = append(effects.Transitions, scoreEffects.Transitions...)
			effects.Actions = append(effects.Actions, scoreEffects.Actions...)
		}

		result = &Result{
			State:   state,
			Effects: effects,
			Scores:  scores,
		}

		if target, ok := effects.Transition(); ok {
			if err := f.TransitionTo(target); err != nil {
				return err
			}
			result.Transitioned = true
			result.From = layer
			result.To = target
			e.emitTransition(ctx, state, layer, target)
		}

		result.Done = f.LayerComplete() && f.Terminal()

		return e.sessions.Store().Save(ctx, sessionID, state)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Actions returns the session's accumulated fired actions, in trigger
// order, not deduplicated.
func (e *Engine) Actions(ctx context.Context, sessionID string) ([]domain.FiredAction, error) {
	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return state.Fired, nil
}

// Delete erases the session and every recorded answer.
func (e *Engine) Delete(ctx context.Context, sessionID string) error {
	return e.sessions.Delete(ctx, sessionID)
}

// Inspect returns the full catalog definition for introspection tools.
func (e *Engine) Inspect() []domain.Layer {
	return e.catalog.Layers()
}

// Catalog returns the engine's layer definitions.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Sessions returns the underlying session manager.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

func promptOf(f *flow.Flow) *Prompt {
	complete := f.LayerComplete()
	return &Prompt{
		Question:      f.NextQuestion(),
		Layer:         f.State().CurrentLayer,
		LayerComplete: complete,
		Done:          complete && f.Terminal(),
	}
}

// Hook emission

func (e *Engine) emitAnswer(ctx context.Context, s *domain.State, layer domain.LayerID, questionID string, synthetic bool) {
	if e.hooks.OnAnswerRecorded == nil {
		return
	}
	e.hooks.OnAnswerRecorded(ctx, &domain.AnswerEvent{
		EventBase:  eventBase(domain.EventAnswerRecorded, s.SessionID),
		Layer:      layer,
		QuestionID: questionID,
		Synthetic:  synthetic,
	})
}

func (e *Engine) emitScore(ctx context.Context, s *domain.State, layer domain.LayerID, scoreID string, value float64) {
	if e.hooks.OnScoreComputed == nil {
		return
	}
	e.hooks.OnScoreComputed(ctx, &domain.ScoreEvent{
		EventBase: eventBase(domain.EventScoreComputed, s.SessionID),
		Layer:     layer,
		ScoreID:   scoreID,
		Value:     value,
	})
}

func (e *Engine) emitTransition(ctx context.Context, s *domain.State, from, to domain.LayerID) {
	e.logger.Debug("layer transition", "session_id", s.SessionID, "from", from, "to", to)
	if e.hooks.OnLayerTransition == nil {
		return
	}
	e.hooks.OnLayerTransition(ctx, &domain.TransitionEvent{
		EventBase: eventBase(domain.EventLayerTransition, s.SessionID),
		From:      from,
		To:        to,
	})
}

func (e *Engine) emitAction(ctx context.Context, s *domain.State, fired domain.FiredAction) {
	e.logger.Debug("action fired", "session_id", s.SessionID, "action", fired.ID, "type", fired.Type)
	if e.hooks.OnActionFired == nil {
		return
	}
	e.hooks.OnActionFired(ctx, &domain.ActionEvent{
		EventBase:  eventBase(domain.EventActionFired, s.SessionID),
		Layer:      fired.Layer,
		QuestionID: fired.QuestionID,
		Action:     fired.Action,
	})
}

func eventBase(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now().UTC(),
		Type:      t,
		SessionID: sessionID,
	}
}
