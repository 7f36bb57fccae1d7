package flow

import (
	"time"

	"github.com/amparo-health/screening/pkg/domain"
)

// scorer computes one derived instrument score from raw answers.
type scorer struct {
	id      string
	inputs  []string
	compute func(values []float64) float64
}

// The scoring table. Each entry only produces a value once every input
// question has a numeric answer recorded.
var scorers = []scorer{
	{
		id:     domain.ScoreWHO5,
		inputs: []string{"who5_1", "who5_2", "who5_3", "who5_4", "who5_5"},
		// WHO-5 raw sum is 0-25; the reported score is a percentage.
		compute: func(values []float64) float64 { return sum(values) * 4 },
	},
	{
		id:      domain.ScorePHQ2,
		inputs:  []string{"phq2_interest", "phq2_mood"},
		compute: sum,
	},
	{
		id:      domain.ScoreGAD2,
		inputs:  []string{"gad2_nervous", "gad2_worry"},
		compute: sum,
	},
	{
		id:     domain.ScorePEG,
		inputs: []string{"pain_work", "pain_mood", "pain_sleep"},
		compute: func(values []float64) float64 {
			return sum(values) / float64(len(values))
		},
	},
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// Score computes a single derived score from the recorded answers.
// The second return is false while any input is missing.
func Score(id string, answers map[string]any) (float64, bool) {
	for _, s := range scorers {
		if s.id != id {
			continue
		}
		values, ok := collect(s.inputs, answers)
		if !ok {
			return 0, false
		}
		return s.compute(values), true
	}
	return 0, false
}

// ApplyScores runs the second evaluation phase: it computes every derived
// score whose inputs are complete, records each as a synthetic answer,
// and feeds it through the same trigger evaluator as raw answers. Scores
// whose value is unchanged since the last run are skipped, so repeated
// calls do not re-fire actions.
//
// Raw answers and derived scores live in different namespaces: synthetic
// ids are reserved, never presented as questions, and only enter the
// session through this phase.
func (f *Flow) ApplyScores() (domain.Effects, map[string]float64, error) {
	var effects domain.Effects
	computed := make(map[string]float64)

	for _, s := range scorers {
		values, ok := collect(s.inputs, f.state.Answers)
		if !ok {
			continue
		}
		value := s.compute(values)

		if prev, recorded := f.state.Answers[s.id]; recorded {
			if pf, pok := toFloat(prev); pok && pf == value {
				continue
			}
			f.retract(s.id)
		}
		f.state.Answers[s.id] = value
		f.state.UpdatedAt = time.Now().UTC()
		computed[s.id] = value

		scoreEffects, err := f.applyTriggers(s.id, value)
		if err != nil {
			return domain.Effects{}, nil, err
		}
		effects.Transitions = append(effects.Transitions, scoreEffects.Transitions...)
		effects.Actions = append(effects.Actions, scoreEffects.Actions...)
	}
	return effects, computed, nil
}

func collect(inputs []string, answers map[string]any) ([]float64, bool) {
	values := make([]float64, 0, len(inputs))
	for _, id := range inputs {
		raw, ok := answers[id]
		if !ok {
			return nil, false
		}
		f, ok := toFloat(raw)
		if !ok {
			return nil, false
		}
		values = append(values, f)
	}
	return values, true
}
