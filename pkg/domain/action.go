package domain

import (
	"time"

	"github.com/mitchellh/mapstructure"
)

// ActionType categorises the side-effect an action asks the host to perform.
type ActionType string

const (
	// ActionAlert notifies the occupational health team immediately.
	ActionAlert ActionType = "alert"
	// ActionSchedule asks the host to offer a consultation booking.
	ActionSchedule ActionType = "schedule"
	// ActionResource surfaces a self-help resource link.
	ActionResource ActionType = "resource"
	// ActionFollowup enqueues a follow-up contact.
	ActionFollowup ActionType = "followup"
	// ActionEducation surfaces educational content inline.
	ActionEducation ActionType = "education"
)

// Priority orders actions for the host UI.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Action is a side-effect declared on a layer and referenced by triggers.
// The engine never executes actions; it only records that they fired.
type Action struct {
	ID       string         `json:"id" yaml:"id"`
	Type     ActionType     `json:"type" yaml:"type"`
	Priority Priority       `json:"priority" yaml:"priority"`
	Title    string         `json:"title" yaml:"title"`
	Data     map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// DecodeData decodes the opaque payload into a typed struct.
func (a Action) DecodeData(out any) error {
	return mapstructure.Decode(a.Data, out)
}

// FiredAction is an Action instance recorded on the session, annotated
// with the answer that triggered it.
type FiredAction struct {
	Action
	// QuestionID is the (possibly synthetic) answer that matched the trigger.
	QuestionID string    `json:"question_id"`
	Layer      LayerID   `json:"layer"`
	FiredAt    time.Time `json:"fired_at"`
}
