// Package dispatch implements the capability-selection stage: within one
// specialist's group, one model call picks exactly one capability and its
// arguments.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
	promptx "github.com/rohanmehta-dev/fintalk/agent/prompt"
)

// CapabilitySource exposes the capability specs visible to a specialist.
type CapabilitySource interface {
	Describe(specialist contractx.Specialist) []contractx.CapabilitySpec
}

type Dispatcher struct {
	provider contractx.Provider
	source   CapabilitySource
	template string
}

var _ contractx.Dispatcher = (*Dispatcher)(nil)

func New(provider contractx.Provider, source CapabilitySource, template string) (*Dispatcher, error) {
	if provider == nil {
		return nil, errors.New("provider is required")
	}
	if source == nil {
		return nil, errors.New("capability source is required")
	}
	if strings.TrimSpace(template) == "" {
		return nil, fmt.Errorf("%w: dispatcher prompt", contractx.ErrValidation)
	}
	return &Dispatcher{provider: provider, source: source, template: template}, nil
}

type dispatchLLMOutput struct {
	Capability string         `json:"capability"`
	Arguments  map[string]any `json:"arguments,omitempty"`
}

// Dispatch selects one capability for the specialist. Only that
// specialist's capabilities are rendered into the prompt, and a decision
// naming anything outside the group is rejected with ErrUnknownCapability.
func (d *Dispatcher) Dispatch(ctx context.Context, model string, specialist contractx.Specialist, userMessage string) (contractx.Dispatch, error) {
	specs := d.source.Describe(specialist)
	if len(specs) == 0 {
		return contractx.Dispatch{}, fmt.Errorf("%w: %s has no capabilities", contractx.ErrUnknownSpecialist, specialist)
	}

	filled := promptx.Fill(d.template, map[string]string{
		"capabilities": renderSpecs(specs),
		"message":      userMessage,
	})

	raw, err := d.provider.Generate(ctx, model, filled)
	if err != nil {
		return contractx.Dispatch{}, fmt.Errorf("%w: dispatch invoke: %v", contractx.ErrModelInvoke, err)
	}

	var out dispatchLLMOutput
	if err := contractx.DecodeObject(raw, &out); err != nil {
		return contractx.Dispatch{}, fmt.Errorf("dispatch decision: %w", err)
	}

	name := strings.TrimSpace(out.Capability)
	if name == "" {
		return contractx.Dispatch{}, fmt.Errorf("%w: capability name is empty", contractx.ErrSchemaViolation)
	}
	if !inGroup(specs, name) {
		return contractx.Dispatch{}, fmt.Errorf("%w: %s is not available to specialist %s", contractx.ErrUnknownCapability, name, specialist)
	}

	args := out.Arguments
	if args == nil {
		args = map[string]any{}
	}
	return contractx.Dispatch{Capability: name, Arguments: args}, nil
}

func inGroup(specs []contractx.CapabilitySpec, name string) bool {
	for _, spec := range specs {
		if spec.Name == name {
			return true
		}
	}
	return false
}

func renderSpecs(specs []contractx.CapabilitySpec) string {
	lines := make([]string, 0, len(specs))
	for _, spec := range specs {
		if len(spec.Params) == 0 {
			lines = append(lines, fmt.Sprintf("- %s: %s (no parameters)", spec.Name, spec.Description))
			continue
		}
		params := make([]string, 0, len(spec.Params))
		for _, p := range spec.Params {
			requirement := "optional"
			if p.Required {
				requirement = "required"
			}
			params = append(params, fmt.Sprintf("%s (%s, %s)", p.Name, p.Type, requirement))
		}
		lines = append(lines, fmt.Sprintf("- %s: %s Parameters: %s", spec.Name, spec.Description, strings.Join(params, ", ")))
	}
	return strings.Join(lines, "\n")
}
