// Package router implements the intent-routing stage: one model call that
// resolves a turn into a direct answer or a delegation to a specialist.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
	promptx "github.com/rohanmehta-dev/fintalk/agent/prompt"
)

type Router struct {
	provider contractx.Provider
	template string
}

var _ contractx.Router = (*Router)(nil)

func New(provider contractx.Provider, template string) (*Router, error) {
	if provider == nil {
		return nil, errors.New("provider is required")
	}
	if strings.TrimSpace(template) == "" {
		return nil, fmt.Errorf("%w: router prompt", contractx.ErrValidation)
	}
	return &Router{provider: provider, template: template}, nil
}

type routeLLMOutput struct {
	Decision   string `json:"decision"`
	Response   string `json:"response,omitempty"`
	Specialist string `json:"specialist,omitempty"`
}

// Route asks the model for a routing decision. A response that cannot be
// parsed into the expected structure returns ErrSchemaViolation; a parseable
// decision naming an unknown action or specialist resolves to
// DecisionUnknown rather than an error.
func (r *Router) Route(ctx context.Context, model string, req contractx.TurnRequest) (contractx.RoutingDecision, error) {
	if strings.TrimSpace(req.Text) == "" {
		return contractx.RoutingDecision{}, fmt.Errorf("%w: user message is required", contractx.ErrValidation)
	}

	filled := promptx.Fill(r.template, map[string]string{
		"specialists": charters(),
		"history":     FormatHistory(req.History),
		"message":     req.Text,
	})

	raw, err := r.provider.Generate(ctx, model, filled)
	if err != nil {
		return contractx.RoutingDecision{}, fmt.Errorf("%w: routing invoke: %v", contractx.ErrModelInvoke, err)
	}

	var out routeLLMOutput
	if err := contractx.DecodeObject(raw, &out); err != nil {
		return contractx.RoutingDecision{}, fmt.Errorf("routing decision: %w", err)
	}

	switch contractx.DecisionKind(strings.TrimSpace(out.Decision)) {
	case contractx.DecisionDirect:
		response := strings.TrimSpace(out.Response)
		if response == "" {
			return contractx.RoutingDecision{}, fmt.Errorf("%w: direct answer without response", contractx.ErrSchemaViolation)
		}
		return contractx.RoutingDecision{Kind: contractx.DecisionDirect, Response: response}, nil
	case contractx.DecisionDelegate:
		specialist := contractx.Specialist(strings.TrimSpace(out.Specialist))
		if !contractx.KnownSpecialist(specialist) {
			return contractx.RoutingDecision{Kind: contractx.DecisionUnknown}, nil
		}
		return contractx.RoutingDecision{Kind: contractx.DecisionDelegate, Specialist: specialist}, nil
	default:
		return contractx.RoutingDecision{Kind: contractx.DecisionUnknown}, nil
	}
}

func charters() string {
	lines := make([]string, 0, len(contractx.SpecialistOrder))
	for _, s := range contractx.SpecialistOrder {
		lines = append(lines, fmt.Sprintf("- %s: %s", s, contractx.Charters[s]))
	}
	return strings.Join(lines, "\n")
}

// FormatHistory renders role-tagged turns the way the prompts expect.
func FormatHistory(history []contractx.Message) string {
	if len(history) == 0 {
		return "(no prior messages)"
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		role := strings.TrimSpace(m.Role)
		if role == "" {
			role = "user"
		}
		first, size := utf8.DecodeRuneInString(role)
		lines = append(lines, string(unicode.ToUpper(first))+role[size:]+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}
