// Package catalog holds the static layer/question/trigger definitions the
// engine evaluates against. Definitions are data, not code: they are built
// once at startup (from the builtin tables or a YAML file) and never
// mutated afterwards.
package catalog

import (
	"fmt"

	"github.com/amparo-health/screening/pkg/domain"
)

// Catalog is an immutable, validated set of screening layers.
type Catalog struct {
	entry  domain.LayerID
	order  []domain.LayerID
	layers map[domain.LayerID]*domain.Layer
}

// New builds a Catalog from the given layers and validates it.
func New(entry domain.LayerID, layers ...domain.Layer) (*Catalog, error) {
	c := &Catalog{
		entry:  entry,
		layers: make(map[domain.LayerID]*domain.Layer, len(layers)),
	}
	for i := range layers {
		l := layers[i]
		if _, dup := c.layers[l.ID]; dup {
			return nil, fmt.Errorf("duplicate layer %q", l.ID)
		}
		c.layers[l.ID] = &l
		c.order = append(c.order, l.ID)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Entry returns the layer a fresh session starts in.
func (c *Catalog) Entry() domain.LayerID { return c.entry }

// Layer returns the layer with the given id.
func (c *Catalog) Layer(id domain.LayerID) (*domain.Layer, bool) {
	l, ok := c.layers[id]
	return l, ok
}

// Layers returns all layers in declaration order, for introspection.
func (c *Catalog) Layers() []domain.Layer {
	out := make([]domain.Layer, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.layers[id])
	}
	return out
}

// Question looks a question up across all layers. Answers persist across
// layer transitions, so gating conditions may reference earlier layers.
func (c *Catalog) Question(id string) (*domain.Question, bool) {
	for _, lid := range c.order {
		if q, ok := c.layers[lid].Question(id); ok {
			return q, true
		}
	}
	return nil, false
}

// validate checks the internal consistency of the definitions: unique
// question ids, resolvable trigger and condition references, sane scale
// bounds, and a reachable entry layer.
func (c *Catalog) validate() error {
	if len(c.layers) == 0 {
		return fmt.Errorf("catalog has no layers")
	}
	if _, ok := c.layers[c.entry]; !ok {
		return fmt.Errorf("entry layer %q is not defined", c.entry)
	}

	seen := make(map[string]domain.LayerID)
	for _, lid := range c.order {
		l := c.layers[lid]
		if !l.ID.Valid() {
			return fmt.Errorf("layer %q is outside the closed layer set", l.ID)
		}
		for _, q := range l.Questions {
			if q.ID == "" {
				return fmt.Errorf("layer %q: question with empty id", lid)
			}
			if domain.IsSyntheticID(q.ID) {
				return fmt.Errorf("layer %q: question %q collides with a reserved score id", lid, q.ID)
			}
			if prev, dup := seen[q.ID]; dup {
				return fmt.Errorf("question %q defined in both %q and %q", q.ID, prev, lid)
			}
			seen[q.ID] = lid

			switch q.Type {
			case domain.AnswerScale:
				if q.Max <= q.Min {
					return fmt.Errorf("question %q: scale bounds [%v, %v] are invalid", q.ID, q.Min, q.Max)
				}
			case domain.AnswerSelect, domain.AnswerMultiSelect:
				if len(q.Options) == 0 {
					return fmt.Errorf("question %q: %s question needs options", q.ID, q.Type)
				}
			default:
				return fmt.Errorf("question %q: unknown answer type %q", q.ID, q.Type)
			}
			if q.Condition != nil && !q.Condition.Operator.Valid() {
				return fmt.Errorf("question %q: unknown condition operator %q", q.ID, q.Condition.Operator)
			}
		}
	}

	// Condition and trigger references resolve only after every question
	// id is known, since gates may point at earlier layers.
	for _, lid := range c.order {
		l := c.layers[lid]
		for _, q := range l.Questions {
			if q.Condition == nil {
				continue
			}
			if _, ok := seen[q.Condition.QuestionID]; !ok && !domain.IsSyntheticID(q.Condition.QuestionID) {
				return fmt.Errorf("question %q: condition references unknown question %q", q.ID, q.Condition.QuestionID)
			}
		}
		for i, t := range l.Triggers {
			if !t.Operator.Valid() {
				return fmt.Errorf("layer %q trigger %d: unknown operator %q", lid, i, t.Operator)
			}
			if _, ok := seen[t.QuestionID]; !ok && !domain.IsSyntheticID(t.QuestionID) {
				return fmt.Errorf("layer %q trigger %d: references unknown question %q", lid, i, t.QuestionID)
			}
			hasTarget := t.TargetLayer != ""
			hasAction := t.ActionID != ""
			if hasTarget == hasAction {
				return fmt.Errorf("layer %q trigger %d: must set exactly one of target_layer or action", lid, i)
			}
			if hasTarget {
				if _, ok := c.layers[t.TargetLayer]; !ok {
					return fmt.Errorf("layer %q trigger %d: target layer %q is not defined", lid, i, t.TargetLayer)
				}
			}
			if hasAction {
				if _, ok := l.Action(t.ActionID); !ok {
					return fmt.Errorf("layer %q trigger %d: action %q is not declared on the layer", lid, i, t.ActionID)
				}
			}
		}
	}
	return nil
}
