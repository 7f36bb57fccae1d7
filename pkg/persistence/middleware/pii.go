package middleware

import (
	"context"
	"regexp"

	"github.com/amparo-health/screening/pkg/domain"
	"github.com/amparo-health/screening/pkg/ports"
)

// Masked replaces answer values whose question id matches a configured
// pattern.
const Masked = "***"

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks answers whose question
// id matches one of the patterns before persisting. Masking is one-way:
// loaded sessions carry the masked value. Use it for deployments that
// must not retain certain answers at rest (e.g. free-text identifiers)
// while keeping the rest of the session resumable.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	// Clone so the in-memory state used by the engine keeps real values.
	cloned := state.Clone()
	for key := range cloned.Answers {
		if m.matches(key) {
			cloned.Answers[key] = Masked
		}
	}
	return m.next.Save(ctx, sessionID, cloned)
}

func (m *piiMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
