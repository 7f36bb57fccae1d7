package domain

// Trigger inspects one answer and produces exactly one outcome:
// a transition to another layer, or a fired action.
//
// QuestionID may reference a regular question of the layer or one of the
// synthetic score identifiers (ScoreWHO5 etc.) injected by the scoring
// phase after the layer's raw questions are complete.
type Trigger struct {
	QuestionID string   `json:"question_id" yaml:"question"`
	Operator   Operator `json:"operator" yaml:"operator"`
	Value      any      `json:"value" yaml:"value"`

	// TargetLayer, when set, makes this trigger an escalation rule.
	TargetLayer LayerID `json:"target_layer,omitempty" yaml:"target_layer,omitempty"`

	// ActionID, when set, names the layer action to fire.
	ActionID string `json:"action_id,omitempty" yaml:"action,omitempty"`
}

// IsTransition reports whether the trigger escalates to another layer.
func (t Trigger) IsTransition() bool { return t.TargetLayer != "" }

// Synthetic identifiers for derived instrument scores. These are not
// questions: the scoring phase records them as pseudo-answers so that
// score-based triggers run through the same evaluator as raw answers.
const (
	// ScoreWHO5 is the WHO-5 wellbeing percentage (0-100): 4 x raw sum.
	ScoreWHO5 = "who5_score"
	// ScorePHQ2 is the PHQ-2 depression screener sum (0-6).
	ScorePHQ2 = "phq2_score"
	// ScoreGAD2 is the GAD-2 anxiety screener sum (0-6).
	ScoreGAD2 = "gad2_score"
	// ScorePEG is the mean of the PEG pain interference items (0-10).
	ScorePEG = "peg_score"
)

// SyntheticIDs lists every reserved score identifier.
var SyntheticIDs = []string{ScoreWHO5, ScorePHQ2, ScoreGAD2, ScorePEG}

// IsSyntheticID reports whether id is a reserved score identifier.
func IsSyntheticID(id string) bool {
	for _, s := range SyntheticIDs {
		if s == id {
			return true
		}
	}
	return false
}

// Effects is the full set of outcomes produced by recording one answer.
// Every matching trigger contributes, in declaration order; the caller
// decides which transition (if any) to apply. The engine wrapper applies
// the first transition and keeps all fired actions.
type Effects struct {
	Transitions []LayerID     `json:"transitions,omitempty"`
	Actions     []FiredAction `json:"actions,omitempty"`
}

// Transition returns the first matching transition target, if any.
func (e Effects) Transition() (LayerID, bool) {
	if len(e.Transitions) == 0 {
		return "", false
	}
	return e.Transitions[0], true
}

// Empty reports whether no trigger matched.
func (e Effects) Empty() bool {
	return len(e.Transitions) == 0 && len(e.Actions) == 0
}
