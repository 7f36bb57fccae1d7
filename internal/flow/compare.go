package flow

import (
	"encoding/json"
	"fmt"

	"github.com/amparo-health/screening/pkg/domain"
)

// normalizeAnswer checks an incoming value against the question's declared
// type and returns the canonical stored form: float64 for scales, string
// for selects, []string for multiselects. JSON decoding hands numbers over
// as float64 and lists as []any, so both shapes are accepted.
func normalizeAnswer(q *domain.Question, value any) (any, error) {
	switch q.Type {
	case domain.AnswerScale:
		f, ok := toFloat(value)
		if !ok {
			return nil, fmt.Errorf("%w: question %q expects a numeric scale value, got %T", domain.ErrInvalidAnswerType, q.ID, value)
		}
		if f < q.Min || f > q.Max {
			return nil, fmt.Errorf("%w: question %q expects a value in [%v, %v], got %v", domain.ErrInvalidAnswerType, q.ID, q.Min, q.Max, f)
		}
		return f, nil

	case domain.AnswerSelect:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: question %q expects a string option, got %T", domain.ErrInvalidAnswerType, q.ID, value)
		}
		if !contains(q.Options, s) {
			return nil, fmt.Errorf("%w: %q is not an option of question %q", domain.ErrInvalidAnswerType, s, q.ID)
		}
		return s, nil

	case domain.AnswerMultiSelect:
		items, err := toStringSlice(value)
		if err != nil {
			return nil, fmt.Errorf("%w: question %q expects a list of options, got %T", domain.ErrInvalidAnswerType, q.ID, value)
		}
		for _, item := range items {
			if !contains(q.Options, item) {
				return nil, fmt.Errorf("%w: %q is not an option of question %q", domain.ErrInvalidAnswerType, item, q.ID)
			}
		}
		return items, nil
	}
	return nil, fmt.Errorf("%w: question %q has unknown type %q", domain.ErrInvalidAnswerType, q.ID, q.Type)
}

// compare applies a trigger/condition operator between a recorded answer
// and the rule's literal. There is no implicit coercion: relational
// operators demand numbers on both sides, includes demands a list answer
// and a string literal. Mismatches fail with ErrInvalidAnswerType.
func compare(op domain.Operator, answer, literal any) (bool, error) {
	switch op {
	case domain.OpIncludes:
		items, err := toStringSlice(answer)
		if err != nil {
			return false, fmt.Errorf("%w: includes needs a multiselect answer, got %T", domain.ErrInvalidAnswerType, answer)
		}
		want, ok := literal.(string)
		if !ok {
			return false, fmt.Errorf("%w: includes needs a string literal, got %T", domain.ErrInvalidAnswerType, literal)
		}
		return contains(items, want), nil

	case domain.OpEQ:
		if af, aok := toFloat(answer); aok {
			lf, lok := toFloat(literal)
			if !lok {
				return false, fmt.Errorf("%w: comparing number to %T", domain.ErrInvalidAnswerType, literal)
			}
			return af == lf, nil
		}
		as, aok := answer.(string)
		ls, lok := literal.(string)
		if aok && lok {
			return as == ls, nil
		}
		return false, fmt.Errorf("%w: eq cannot compare %T to %T", domain.ErrInvalidAnswerType, answer, literal)

	case domain.OpGTE, domain.OpGT, domain.OpLTE, domain.OpLT:
		af, aok := toFloat(answer)
		lf, lok := toFloat(literal)
		if !aok || !lok {
			return false, fmt.Errorf("%w: %s needs numeric operands, got %T and %T", domain.ErrInvalidAnswerType, op, answer, literal)
		}
		switch op {
		case domain.OpGTE:
			return af >= lf, nil
		case domain.OpGT:
			return af > lf, nil
		case domain.OpLTE:
			return af <= lf, nil
		default:
			return af < lf, nil
		}
	}
	return false, fmt.Errorf("unknown operator %q", op)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toStringSlice(v any) ([]string, error) {
	switch items := v.(type) {
	case []string:
		return items, nil
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("list contains %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a list: %T", v)
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
