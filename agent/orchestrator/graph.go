package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
	promptx "github.com/rohanmehta-dev/fintalk/agent/prompt"
	routerx "github.com/rohanmehta-dev/fintalk/agent/router"
)

func (s *Service) compileTurnGraph(
	ctx context.Context,
) (compose.Runnable[*turnState, *turnState], error) {
	graph := compose.NewGraph[*turnState, *turnState]()

	if err := graph.AddLambdaNode("route_intent",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			return s.routeIntent(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node route_intent: %w", err)
	}

	if err := graph.AddLambdaNode("direct_reply",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			return s.directReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node direct_reply: %w", err)
	}

	if err := graph.AddLambdaNode("general_reply",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			return s.generalReply(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node general_reply: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch_capability",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			return s.dispatchCapability(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node dispatch_capability: %w", err)
	}

	if err := graph.AddLambdaNode("invoke_capability",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			return s.invokeCapability(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node invoke_capability: %w", err)
	}

	if err := graph.AddLambdaNode("synthesize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			return s.synthesizeReply(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node synthesize_reply: %w", err)
	}

	if err := graph.AddLambdaNode("settle_reply",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			return s.settleReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node settle_reply: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *turnState) (string, error) {
			if in == nil {
				return "", fmt.Errorf("%w: turn state is nil", contractx.ErrValidation)
			}
			if in.settled() {
				return "settle_reply", nil
			}
			switch in.Decision.Kind {
			case contractx.DecisionDirect:
				return "direct_reply", nil
			case contractx.DecisionDelegate:
				if in.Decision.Specialist == contractx.SpecialistGeneral {
					return "general_reply", nil
				}
				return "dispatch_capability", nil
			default:
				return "settle_reply", nil
			}
		},
		map[string]bool{
			"direct_reply":        true,
			"general_reply":       true,
			"dispatch_capability": true,
			"settle_reply":        true,
		},
	)

	if err := graph.AddBranch("route_intent", branch); err != nil {
		return nil, fmt.Errorf("add routing branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "route_intent"},
		{"dispatch_capability", "invoke_capability"},
		{"invoke_capability", "synthesize_reply"},
		{"direct_reply", compose.END},
		{"general_reply", compose.END},
		{"synthesize_reply", compose.END},
		{"settle_reply", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_turn"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}

// routeIntent asks the router for a decision. A malformed decision
// degrades the turn to the clarification reply; only model invocation
// failures abort the graph.
func (s *Service) routeIntent(ctx context.Context, in *turnState) (*turnState, error) {
	decision, err := s.router.Route(ctx, in.Model, in.Req)
	if err != nil {
		if errors.Is(err, contractx.ErrSchemaViolation) {
			log.Warn().Str("turn_id", in.TurnID).Err(err).Msg("routing decision unparseable")
			in.degrade(ReplyClarify, err.Error())
			return in, nil
		}
		return nil, fmt.Errorf("route intent: %w", err)
	}
	in.Decision = decision
	log.Info().
		Str("turn_id", in.TurnID).
		Str("decision", string(decision.Kind)).
		Str("specialist", string(decision.Specialist)).
		Msg("intent routed")
	return in, nil
}

func (s *Service) directReply(in *turnState) (*turnState, error) {
	in.FinalText = in.Decision.Response
	if in.FinalText == "" {
		in.FinalText = ReplyNoAnswer
	}
	in.Status = contractx.TurnCompleted
	return in, nil
}

// generalReply answers small talk with a single model call; the general
// specialist has no capabilities behind it.
func (s *Service) generalReply(ctx context.Context, in *turnState) (*turnState, error) {
	filled := promptx.Fill(s.generalTemplate, map[string]string{
		"history": routerx.FormatHistory(in.Req.History),
		"message": in.Req.Text,
	})
	reply, err := s.provider.Generate(ctx, in.Model, filled)
	if err != nil {
		return nil, fmt.Errorf("%w: general reply: %v", contractx.ErrModelInvoke, err)
	}
	in.FinalText = reply
	if in.FinalText == "" {
		in.FinalText = ReplyNoAnswer
	}
	in.Status = contractx.TurnCompleted
	return in, nil
}

// dispatchCapability selects a capability within the routed specialist's
// group. Parse and resolution faults degrade the turn; only model
// invocation failures abort.
func (s *Service) dispatchCapability(ctx context.Context, in *turnState) (*turnState, error) {
	dispatch, err := s.dispatcher.Dispatch(ctx, in.Model, in.Decision.Specialist, in.Req.Text)
	if err != nil {
		if errors.Is(err, contractx.ErrSchemaViolation) ||
			errors.Is(err, contractx.ErrUnknownCapability) ||
			errors.Is(err, contractx.ErrUnknownSpecialist) {
			log.Warn().Str("turn_id", in.TurnID).Err(err).Msg("capability dispatch rejected")
			in.degrade(ReplyCapabilityMiss, err.Error())
			return in, nil
		}
		return nil, fmt.Errorf("dispatch capability: %w", err)
	}
	in.Dispatch = dispatch
	log.Info().
		Str("turn_id", in.TurnID).
		Str("capability", dispatch.Capability).
		Interface("arguments", dispatch.Arguments).
		Msg("capability selected")
	return in, nil
}

// invokeCapability executes the selected capability. Handler faults come
// back inside the Outcome and flow on to the synthesizer as data.
func (s *Service) invokeCapability(ctx context.Context, in *turnState) (*turnState, error) {
	if in.settled() {
		return in, nil
	}
	outcome, err := s.registry.Invoke(ctx, in.Dispatch.Capability, in.Dispatch.Arguments)
	if err != nil {
		if errors.Is(err, contractx.ErrUnknownCapability) {
			log.Warn().Str("turn_id", in.TurnID).Err(err).Msg("capability resolution failed")
			in.degrade(ReplyCapabilityMiss, err.Error())
			return in, nil
		}
		return nil, fmt.Errorf("invoke capability: %w", err)
	}
	in.Outcome = outcome
	in.Invoked = true
	log.Info().
		Str("turn_id", in.TurnID).
		Str("capability", in.Dispatch.Capability).
		Bool("failed", outcome.Failed()).
		Msg("capability executed")
	return in, nil
}

func (s *Service) synthesizeReply(ctx context.Context, in *turnState) (*turnState, error) {
	if in.settled() {
		return in, nil
	}
	reply, err := s.synthesizer.Synthesize(ctx, in.Model, in.Req.Text, in.Dispatch.Capability, in.Outcome)
	if err != nil {
		return nil, fmt.Errorf("synthesize reply: %w", err)
	}
	in.FinalText = reply
	in.Status = contractx.TurnCompleted
	return in, nil
}

// settleReply terminates turns that degraded upstream or routed nowhere.
func (s *Service) settleReply(in *turnState) (*turnState, error) {
	if !in.settled() {
		in.degrade(ReplyUnknownDecision, "routing decision not recognized")
	}
	return in, nil
}
