package domain

import "time"

// State is the snapshot of one assessment session. One user, one attempt.
// The engine holds no persistence of its own: callers own the State and
// persist it through a StateStore if they need durability.
type State struct {
	SessionID string `json:"session_id"`

	// CurrentLayer is the active layer of the closed set.
	CurrentLayer LayerID `json:"current_layer"`

	// Answers maps question id -> recorded value. Scale answers are
	// stored as float64, selects as string, multiselects as []string.
	// Synthetic score ids appear here once the scoring phase has run.
	Answers map[string]any `json:"answers"`

	// Fired holds every action triggered so far, in trigger order,
	// not deduplicated across distinct questions.
	Fired []FiredAction `json:"fired,omitempty"`

	// History tracks the layer path taken.
	History []LayerID `json:"history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a clean state positioned at the given entry layer.
func NewState(sessionID string, entry LayerID) *State {
	now := time.Now().UTC()
	return &State{
		SessionID:    sessionID,
		CurrentLayer: entry,
		Answers:      make(map[string]any),
		History:      []LayerID{entry},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Clone returns a copy with deep-copied answers and fired actions, so the
// original can be mutated without affecting the copy.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Answers = make(map[string]any, len(s.Answers))
	for k, v := range s.Answers {
		next.Answers[k] = v
	}
	next.Fired = make([]FiredAction, len(s.Fired))
	copy(next.Fired, s.Fired)
	next.History = make([]LayerID, len(s.History))
	copy(next.History, s.History)
	return &next
}
