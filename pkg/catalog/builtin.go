package catalog

import "github.com/amparo-health/screening/pkg/domain"

// Default returns the builtin three-layer screening catalog used by the
// onboarding portal: a short triage pass over standard instruments, a
// targeted layer for flagged areas, and a specialized layer that only
// fires actions.
func Default() *Catalog {
	c, err := New(domain.LayerTriage, triageLayer(), targetedLayer(), specializedLayer())
	if err != nil {
		// The builtin tables are validated by tests; failing here means
		// the tables themselves were edited into an inconsistent shape.
		panic("builtin catalog invalid: " + err.Error())
	}
	return c
}

func triageLayer() domain.Layer {
	return domain.Layer{
		ID:   domain.LayerTriage,
		Name: "Initial screening",
		Questions: []domain.Question{
			{
				ID:         "pain_now",
				Prompt:     "On a scale of 0 to 10, how much pain are you in right now?",
				Type:       domain.AnswerScale,
				Instrument: "PEG",
				Min:        0, Max: 10,
			},
			{
				ID:         "phq2_interest",
				Prompt:     "Over the last two weeks, how often have you had little interest or pleasure in doing things?",
				Type:       domain.AnswerScale,
				Instrument: "PHQ-2",
				Min:        0, Max: 3,
			},
			{
				ID:         "phq2_mood",
				Prompt:     "Over the last two weeks, how often have you felt down, depressed, or hopeless?",
				Type:       domain.AnswerScale,
				Instrument: "PHQ-2",
				Min:        0, Max: 3,
			},
			{
				ID:         "gad2_nervous",
				Prompt:     "Over the last two weeks, how often have you felt nervous, anxious, or on edge?",
				Type:       domain.AnswerScale,
				Instrument: "GAD-2",
				Min:        0, Max: 3,
			},
			{
				ID:         "gad2_worry",
				Prompt:     "Over the last two weeks, how often have you not been able to stop or control worrying?",
				Type:       domain.AnswerScale,
				Instrument: "GAD-2",
				Min:        0, Max: 3,
			},
			{
				ID:      "sleep_quality",
				Prompt:  "How would you rate your sleep over the past month?",
				Type:    domain.AnswerSelect,
				Options: []string{"good", "fair", "poor"},
			},
			{
				ID:      "health_concerns",
				Prompt:  "Which of these areas concern you at the moment?",
				Type:    domain.AnswerMultiSelect,
				Options: []string{"pain", "mood", "sleep", "energy", "none"},
			},
		},
		Triggers: []domain.Trigger{
			{QuestionID: "pain_now", Operator: domain.OpGTE, Value: 4, TargetLayer: domain.LayerTargeted},
			{QuestionID: "phq2_interest", Operator: domain.OpGTE, Value: 1, TargetLayer: domain.LayerTargeted},
			{QuestionID: "phq2_mood", Operator: domain.OpGTE, Value: 1, TargetLayer: domain.LayerTargeted},
			{QuestionID: "gad2_nervous", Operator: domain.OpGTE, Value: 2, TargetLayer: domain.LayerTargeted},
			{QuestionID: "gad2_worry", Operator: domain.OpGTE, Value: 2, TargetLayer: domain.LayerTargeted},
			{QuestionID: "sleep_quality", Operator: domain.OpEQ, Value: "poor", ActionID: "sleep-hygiene"},
			{QuestionID: "health_concerns", Operator: domain.OpIncludes, Value: "energy", ActionID: "energy-resources"},
			{QuestionID: domain.ScorePHQ2, Operator: domain.OpGTE, Value: 3, ActionID: "mood-followup"},
			{QuestionID: domain.ScoreGAD2, Operator: domain.OpGTE, Value: 3, ActionID: "anxiety-followup"},
		},
		Actions: []domain.Action{
			{
				ID:       "sleep-hygiene",
				Type:     domain.ActionEducation,
				Priority: domain.PriorityLow,
				Title:    "Sleep hygiene basics",
				Data:     map[string]any{"resource_url": "/resources/sleep-hygiene"},
			},
			{
				ID:       "energy-resources",
				Type:     domain.ActionResource,
				Priority: domain.PriorityLow,
				Title:    "Managing fatigue at work",
				Data:     map[string]any{"resource_url": "/resources/fatigue"},
			},
			{
				ID:       "mood-followup",
				Type:     domain.ActionFollowup,
				Priority: domain.PriorityMedium,
				Title:    "Positive depression screen follow-up",
				Data:     map[string]any{"team": "mental-health", "within_days": 7},
			},
			{
				ID:       "anxiety-followup",
				Type:     domain.ActionFollowup,
				Priority: domain.PriorityMedium,
				Title:    "Positive anxiety screen follow-up",
				Data:     map[string]any{"team": "mental-health", "within_days": 7},
			},
		},
	}
}

func targetedLayer() domain.Layer {
	painGate := &domain.Condition{QuestionID: "pain_now", Operator: domain.OpGTE, Value: 4}
	return domain.Layer{
		ID:   domain.LayerTargeted,
		Name: "Targeted assessment",
		Questions: []domain.Question{
			{
				ID:         "pain_work",
				Prompt:     "Over the past week, how much has pain interfered with your work?",
				Type:       domain.AnswerScale,
				Instrument: "PEG",
				Min:        0, Max: 10,
				Condition: painGate,
			},
			{
				ID:         "pain_mood",
				Prompt:     "Over the past week, how much has pain interfered with your mood?",
				Type:       domain.AnswerScale,
				Instrument: "PEG",
				Min:        0, Max: 10,
				Condition: painGate,
			},
			{
				ID:         "pain_sleep",
				Prompt:     "Over the past week, how much has pain interfered with your sleep?",
				Type:       domain.AnswerScale,
				Instrument: "PEG",
				Min:        0, Max: 10,
				Condition: painGate,
			},
			{
				ID:         "who5_1",
				Prompt:     "Over the last two weeks, I have felt cheerful and in good spirits.",
				Type:       domain.AnswerScale,
				Instrument: "WHO-5",
				Min:        0, Max: 5,
			},
			{
				ID:         "who5_2",
				Prompt:     "Over the last two weeks, I have felt calm and relaxed.",
				Type:       domain.AnswerScale,
				Instrument: "WHO-5",
				Min:        0, Max: 5,
			},
			{
				ID:         "who5_3",
				Prompt:     "Over the last two weeks, I have felt active and vigorous.",
				Type:       domain.AnswerScale,
				Instrument: "WHO-5",
				Min:        0, Max: 5,
			},
			{
				ID:         "who5_4",
				Prompt:     "Over the last two weeks, I woke up feeling fresh and rested.",
				Type:       domain.AnswerScale,
				Instrument: "WHO-5",
				Min:        0, Max: 5,
			},
			{
				ID:         "who5_5",
				Prompt:     "Over the last two weeks, my daily life has been filled with things that interest me.",
				Type:       domain.AnswerScale,
				Instrument: "WHO-5",
				Min:        0, Max: 5,
			},
		},
		Triggers: []domain.Trigger{
			{QuestionID: domain.ScoreWHO5, Operator: domain.OpLTE, Value: 50, TargetLayer: domain.LayerSpecialized},
			{QuestionID: domain.ScoreWHO5, Operator: domain.OpLTE, Value: 28, ActionID: "wellbeing-followup"},
			{QuestionID: domain.ScorePEG, Operator: domain.OpGTE, Value: 7, ActionID: "pain-consult"},
			{QuestionID: "pain_sleep", Operator: domain.OpGTE, Value: 7, ActionID: "pain-sleep-education"},
		},
		Actions: []domain.Action{
			{
				ID:       "wellbeing-followup",
				Type:     domain.ActionFollowup,
				Priority: domain.PriorityHigh,
				Title:    "Low wellbeing score follow-up",
				Data:     map[string]any{"team": "mental-health", "within_days": 3},
			},
			{
				ID:       "pain-consult",
				Type:     domain.ActionSchedule,
				Priority: domain.PriorityHigh,
				Title:    "Pain management consultation",
				Data:     map[string]any{"specialty": "occupational-medicine"},
			},
			{
				ID:       "pain-sleep-education",
				Type:     domain.ActionEducation,
				Priority: domain.PriorityMedium,
				Title:    "Pain and sleep",
				Data:     map[string]any{"resource_url": "/resources/pain-and-sleep"},
			},
		},
	}
}

func specializedLayer() domain.Layer {
	return domain.Layer{
		ID:   domain.LayerSpecialized,
		Name: "Specialized assessment",
		Questions: []domain.Question{
			{
				ID:      "symptom_duration",
				Prompt:  "How long have these symptoms been present?",
				Type:    domain.AnswerSelect,
				Options: []string{"under_2w", "2w_3m", "over_3m"},
			},
			{
				ID:      "prior_treatment",
				Prompt:  "Have you received treatment for these symptoms before?",
				Type:    domain.AnswerSelect,
				Options: []string{"yes", "no"},
			},
			{
				ID:     "daily_impact",
				Prompt: "On a scale of 0 to 10, how much do these symptoms affect your daily life?",
				Type:   domain.AnswerScale,
				Min:    0, Max: 10,
			},
			{
				ID:      "support_network",
				Prompt:  "Do you have people around you that you can count on for support?",
				Type:    domain.AnswerSelect,
				Options: []string{"yes", "no"},
			},
			{
				ID:     "safety_concern",
				Prompt: "Over the last two weeks, how often have you had thoughts of hurting yourself?",
				Type:   domain.AnswerScale,
				Min:    0, Max: 3,
			},
		},
		// Terminal layer: triggers only fire actions, never escalate.
		Triggers: []domain.Trigger{
			{QuestionID: "safety_concern", Operator: domain.OpGTE, Value: 1, ActionID: "safety-alert"},
			{QuestionID: "daily_impact", Operator: domain.OpGTE, Value: 8, ActionID: "priority-consult"},
			{QuestionID: "symptom_duration", Operator: domain.OpEQ, Value: "over_3m", ActionID: "chronic-followup"},
			{QuestionID: "prior_treatment", Operator: domain.OpEQ, Value: "no", ActionID: "care-navigation"},
			{QuestionID: "support_network", Operator: domain.OpEQ, Value: "no", ActionID: "support-resources"},
		},
		Actions: []domain.Action{
			{
				ID:       "safety-alert",
				Type:     domain.ActionAlert,
				Priority: domain.PriorityCritical,
				Title:    "Safety concern reported",
				Data:     map[string]any{"team": "mental-health", "notify": "immediate"},
			},
			{
				ID:       "priority-consult",
				Type:     domain.ActionSchedule,
				Priority: domain.PriorityHigh,
				Title:    "Priority consultation",
				Data:     map[string]any{"specialty": "occupational-medicine", "slot": "next-available"},
			},
			{
				ID:       "chronic-followup",
				Type:     domain.ActionFollowup,
				Priority: domain.PriorityMedium,
				Title:    "Chronic symptom follow-up",
				Data:     map[string]any{"team": "care-coordination", "within_days": 14},
			},
			{
				ID:       "care-navigation",
				Type:     domain.ActionResource,
				Priority: domain.PriorityMedium,
				Title:    "Finding the right care",
				Data:     map[string]any{"resource_url": "/resources/care-navigation"},
			},
			{
				ID:       "support-resources",
				Type:     domain.ActionResource,
				Priority: domain.PriorityLow,
				Title:    "Support network resources",
				Data:     map[string]any{"resource_url": "/resources/support"},
			},
		},
	}
}
