package domain

// AnswerType declares the shape of the value a question accepts.
type AnswerType string

const (
	// AnswerScale is a numeric rating bounded by Min/Max (inclusive).
	AnswerScale AnswerType = "scale"
	// AnswerSelect is a single choice from Options.
	AnswerSelect AnswerType = "select"
	// AnswerMultiSelect is zero or more choices from Options.
	AnswerMultiSelect AnswerType = "multiselect"
)

// Question is a single prompt within a layer.
type Question struct {
	ID     string     `json:"id" yaml:"id"`
	Prompt string     `json:"prompt" yaml:"prompt"`
	Type   AnswerType `json:"type" yaml:"type"`

	// Instrument labels the clinical screener this question belongs to
	// (e.g. "WHO-5", "PHQ-2", "PEG"). Informational only.
	Instrument string `json:"instrument,omitempty" yaml:"instrument,omitempty"`

	// Scale bounds. Only meaningful when Type == AnswerScale.
	Min float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max float64 `json:"max,omitempty" yaml:"max,omitempty"`

	// Options for select/multiselect questions.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	// Condition gates presentation. A question with a condition is only
	// available once the referenced answer exists and the predicate holds.
	Condition *Condition `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// Condition is a single predicate over another question's recorded answer.
type Condition struct {
	QuestionID string   `json:"question_id" yaml:"question"`
	Operator   Operator `json:"operator" yaml:"operator"`
	Value      any      `json:"value" yaml:"value"`
}

// Operator is a comparison applied between a recorded answer and a literal.
type Operator string

const (
	OpGTE      Operator = "gte"
	OpGT       Operator = "gt"
	OpEQ       Operator = "eq"
	OpLTE      Operator = "lte"
	OpLT       Operator = "lt"
	OpIncludes Operator = "includes"
)

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool {
	switch op {
	case OpGTE, OpGT, OpEQ, OpLTE, OpLT, OpIncludes:
		return true
	}
	return false
}
