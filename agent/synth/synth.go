// Package synth implements the final pipeline stage: turning a raw
// capability outcome into the user-facing reply.
package synth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
	promptx "github.com/rohanmehta-dev/fintalk/agent/prompt"
)

type Synthesizer struct {
	provider contractx.Provider
	template string
}

var _ contractx.Synthesizer = (*Synthesizer)(nil)

func New(provider contractx.Provider, template string) (*Synthesizer, error) {
	if provider == nil {
		return nil, errors.New("provider is required")
	}
	if strings.TrimSpace(template) == "" {
		return nil, fmt.Errorf("%w: synthesizer prompt", contractx.ErrValidation)
	}
	return &Synthesizer{provider: provider, template: template}, nil
}

// Synthesize has no fallback of its own; a failure here is the
// orchestrator's problem.
func (s *Synthesizer) Synthesize(ctx context.Context, model string, userMessage string, capability string, outcome contractx.Outcome) (string, error) {
	filled := promptx.Fill(s.template, map[string]string{
		"message": userMessage,
		"result":  outcome.Render(),
	})

	raw, err := s.provider.Generate(ctx, model, filled)
	if err != nil {
		return "", fmt.Errorf("%w: synthesize invoke: %v", contractx.ErrModelInvoke, err)
	}

	reply := strings.TrimSpace(raw)
	if reply == "" {
		return "", fmt.Errorf("%w: synthesizer returned empty reply", contractx.ErrSchemaViolation)
	}
	return reply, nil
}
