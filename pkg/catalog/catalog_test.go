package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amparo-health/screening/pkg/catalog"
	"github.com/amparo-health/screening/pkg/domain"
)

func TestDefault(t *testing.T) {
	cat := catalog.Default()

	assert.Equal(t, domain.LayerTriage, cat.Entry())

	layers := cat.Layers()
	require.Len(t, layers, 3)
	assert.Equal(t, domain.LayerTriage, layers[0].ID)
	assert.Equal(t, domain.LayerTargeted, layers[1].ID)
	assert.Equal(t, domain.LayerSpecialized, layers[2].ID)

	t.Run("layer lookup", func(t *testing.T) {
		l, ok := cat.Layer(domain.LayerTargeted)
		require.True(t, ok)
		assert.Equal(t, "Targeted assessment", l.Name)

		_, ok = cat.Layer("archived")
		assert.False(t, ok)
	})

	t.Run("cross-layer question lookup", func(t *testing.T) {
		q, ok := cat.Question("who5_3")
		require.True(t, ok)
		assert.Equal(t, "WHO-5", q.Instrument)

		_, ok = cat.Question("nope")
		assert.False(t, ok)
	})

	t.Run("specialized layer never escalates", func(t *testing.T) {
		l, ok := cat.Layer(domain.LayerSpecialized)
		require.True(t, ok)
		for _, trig := range l.Triggers {
			assert.False(t, trig.IsTransition(), "trigger on %s escalates", trig.QuestionID)
		}
	})
}

func validLayer() domain.Layer {
	return domain.Layer{
		ID:   domain.LayerTriage,
		Name: "Entry",
		Questions: []domain.Question{
			{ID: "q1", Prompt: "How are you?", Type: domain.AnswerScale, Min: 0, Max: 10},
		},
	}
}

func TestNew_Validation(t *testing.T) {
	t.Run("valid minimal catalog", func(t *testing.T) {
		_, err := catalog.New(domain.LayerTriage, validLayer())
		assert.NoError(t, err)
	})

	t.Run("no layers", func(t *testing.T) {
		_, err := catalog.New(domain.LayerTriage)
		assert.Error(t, err)
	})

	t.Run("undefined entry layer", func(t *testing.T) {
		_, err := catalog.New(domain.LayerTargeted, validLayer())
		assert.ErrorContains(t, err, "entry layer")
	})

	t.Run("layer outside the closed set", func(t *testing.T) {
		l := validLayer()
		l.ID = "bonus"
		_, err := catalog.New("bonus", l)
		assert.ErrorContains(t, err, "closed layer set")
	})

	t.Run("duplicate layer", func(t *testing.T) {
		_, err := catalog.New(domain.LayerTriage, validLayer(), validLayer())
		assert.ErrorContains(t, err, "duplicate layer")
	})

	t.Run("duplicate question id across layers", func(t *testing.T) {
		second := domain.Layer{
			ID:   domain.LayerTargeted,
			Name: "Second",
			Questions: []domain.Question{
				{ID: "q1", Prompt: "Again?", Type: domain.AnswerScale, Min: 0, Max: 10},
			},
		}
		_, err := catalog.New(domain.LayerTriage, validLayer(), second)
		assert.ErrorContains(t, err, "defined in both")
	})

	t.Run("question id collides with a score id", func(t *testing.T) {
		l := validLayer()
		l.Questions[0].ID = domain.ScoreWHO5
		_, err := catalog.New(domain.LayerTriage, l)
		assert.ErrorContains(t, err, "reserved score id")
	})

	t.Run("inverted scale bounds", func(t *testing.T) {
		l := validLayer()
		l.Questions[0].Min = 10
		l.Questions[0].Max = 0
		_, err := catalog.New(domain.LayerTriage, l)
		assert.ErrorContains(t, err, "scale bounds")
	})

	t.Run("select without options", func(t *testing.T) {
		l := validLayer()
		l.Questions[0].Type = domain.AnswerSelect
		_, err := catalog.New(domain.LayerTriage, l)
		assert.ErrorContains(t, err, "needs options")
	})

	t.Run("unknown answer type", func(t *testing.T) {
		l := validLayer()
		l.Questions[0].Type = "freetext"
		_, err := catalog.New(domain.LayerTriage, l)
		assert.ErrorContains(t, err, "unknown answer type")
	})

	t.Run("trigger references unknown question", func(t *testing.T) {
		l := validLayer()
		l.Triggers = []domain.Trigger{
			{QuestionID: "ghost", Operator: domain.OpGTE, Value: 1, TargetLayer: domain.LayerTriage},
		}
		_, err := catalog.New(domain.LayerTriage, l)
		assert.ErrorContains(t, err, "unknown question")
	})

	t.Run("trigger may reference a score id", func(t *testing.T) {
		l := validLayer()
		l.Triggers = []domain.Trigger{
			{QuestionID: domain.ScorePHQ2, Operator: domain.OpGTE, Value: 3, ActionID: "a1"},
		}
		l.Actions = []domain.Action{
			{ID: "a1", Type: domain.ActionFollowup, Priority: domain.PriorityMedium, Title: "Follow up"},
		}
		_, err := catalog.New(domain.LayerTriage, l)
		assert.NoError(t, err)
	})

	t.Run("trigger with unknown operator", func(t *testing.T) {
		l := validLayer()
		l.Triggers = []domain.Trigger{
			{QuestionID: "q1", Operator: "between", Value: 1, TargetLayer: domain.LayerTriage},
		}
		_, err := catalog.New(domain.LayerTriage, l)
		assert.ErrorContains(t, err, "unknown operator")
	})

	t.Run("trigger with neither target nor action", func(t *testing.T) {
		l := validLayer()
		l.Triggers = []domain.Trigger{
			{QuestionID: "q1", Operator: domain.OpGTE, Value: 1},
		}
		_, err := catalog.New(domain.LayerTriage, l)
		assert.ErrorContains(t, err, "exactly one")
	})

	t.Run("trigger with both target and action", func(t *testing.T) {
		l := validLayer()
		l.Triggers = []domain.Trigger{
			{QuestionID: "q1", Operator: domain.OpGTE, Value: 1, TargetLayer: domain.LayerTriage, ActionID: "a1"},
		}
		l.Actions = []domain.Action{
			{ID: "a1", Type: domain.ActionAlert, Priority: domain.PriorityHigh, Title: "Alert"},
		}
		_, err := catalog.New(domain.LayerTriage, l)
		assert.ErrorContains(t, err, "exactly one")
	})

	t.Run("trigger target layer undefined", func(t *testing.T) {
		l := validLayer()
		l.Triggers = []domain.Trigger{
			{QuestionID: "q1", Operator: domain.OpGTE, Value: 5, TargetLayer: domain.LayerSpecialized},
		}
		_, err := catalog.New(domain.LayerTriage, l)
		assert.ErrorContains(t, err, "not defined")
	})

	t.Run("trigger action undeclared", func(t *testing.T) {
		l := validLayer()
		l.Triggers = []domain.Trigger{
			{QuestionID: "q1", Operator: domain.OpGTE, Value: 5, ActionID: "ghost"},
		}
		_, err := catalog.New(domain.LayerTriage, l)
		assert.ErrorContains(t, err, "not declared")
	})

	t.Run("condition references unknown question", func(t *testing.T) {
		l := validLayer()
		l.Questions = append(l.Questions, domain.Question{
			ID: "q2", Prompt: "Follow-up?", Type: domain.AnswerScale, Min: 0, Max: 10,
			Condition: &domain.Condition{QuestionID: "ghost", Operator: domain.OpGTE, Value: 5},
		})
		_, err := catalog.New(domain.LayerTriage, l)
		assert.ErrorContains(t, err, "unknown question")
	})

	t.Run("condition may reference an earlier layer", func(t *testing.T) {
		second := domain.Layer{
			ID:   domain.LayerTargeted,
			Name: "Second",
			Questions: []domain.Question{
				{
					ID: "q2", Prompt: "Follow-up?", Type: domain.AnswerScale, Min: 0, Max: 10,
					Condition: &domain.Condition{QuestionID: "q1", Operator: domain.OpGTE, Value: 5},
				},
			},
		}
		_, err := catalog.New(domain.LayerTriage, validLayer(), second)
		assert.NoError(t, err)
	})
}
