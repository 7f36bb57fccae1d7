package domain

// LayerID identifies one stage of the progressive questionnaire.
// The set is closed: transitions to any other value are rejected.
type LayerID string

const (
	// LayerTriage is the entry layer: short, broad screeners.
	LayerTriage LayerID = "triage"
	// LayerTargeted digs into the areas the triage answers flagged.
	LayerTargeted LayerID = "targeted"
	// LayerSpecialized is the most detailed layer. It has no outgoing
	// transitions; completion there ends the assessment.
	LayerSpecialized LayerID = "specialized"
)

// Valid reports whether id belongs to the closed layer set.
func (id LayerID) Valid() bool {
	switch id {
	case LayerTriage, LayerTargeted, LayerSpecialized:
		return true
	}
	return false
}

// Layer is one stage of the questionnaire. Layers are static data,
// defined once at startup and never mutated afterwards.
type Layer struct {
	ID   LayerID `json:"id" yaml:"id"`
	Name string  `json:"name" yaml:"name"`

	// Questions in presentation order. Order is significant: NextQuestion
	// returns the first available unanswered entry.
	Questions []Question `json:"questions" yaml:"questions"`

	// Triggers in declaration order. Order is significant: effects for an
	// answer are collected by scanning this slice top to bottom.
	Triggers []Trigger `json:"triggers" yaml:"triggers"`

	// Actions that triggers in this layer may fire, keyed by ID.
	Actions []Action `json:"actions" yaml:"actions"`
}

// Action returns the layer-local action with the given id.
func (l *Layer) Action(id string) (Action, bool) {
	for _, a := range l.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// Question returns the layer-local question with the given id.
func (l *Layer) Question(id string) (*Question, bool) {
	for i := range l.Questions {
		if l.Questions[i].ID == id {
			return &l.Questions[i], true
		}
	}
	return nil, false
}
