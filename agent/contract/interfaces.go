package contract

import "context"

// Provider is the opaque text-completion oracle backing every stage. No
// output schema is guaranteed; structured parsing is the caller's problem.
type Provider interface {
	Generate(ctx context.Context, model string, prompt string) (string, error)
	Ready() bool
}

// Router decides whether to answer directly or delegate to a specialist.
type Router interface {
	Route(ctx context.Context, model string, req TurnRequest) (RoutingDecision, error)
}

// Dispatcher selects exactly one capability and its arguments within the
// assigned specialist's group.
type Dispatcher interface {
	Dispatch(ctx context.Context, model string, specialist Specialist, userMessage string) (Dispatch, error)
}

// Synthesizer turns a raw capability outcome into user-facing text.
type Synthesizer interface {
	Synthesize(ctx context.Context, model string, userMessage string, capability string, outcome Outcome) (string, error)
}

// Notifier receives the trace record of a completed turn. Callers treat it
// as fire-and-forget: a notify failure never affects the reply.
type Notifier interface {
	Notify(ctx context.Context, trace TraceRecord) error
}
