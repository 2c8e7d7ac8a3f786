// Package orchestrator runs one conversation turn end to end: intent
// routing, optional capability execution, synthesis, and trace emission.
package orchestrator

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
)

// Canned replies for degraded turns. The pipeline answers with these
// instead of surfacing internal faults to the user.
const (
	ReplyClarify         = "I'm having trouble understanding that request. Could you clarify what you'd like me to do?"
	ReplyUnknownDecision = "I'm not sure how to handle that request. Please try rephrasing."
	ReplyCapabilityMiss  = "I'm sorry, I couldn't complete that request with the permissions I have. Please try something else."
	ReplyNoAnswer        = "I'm sorry, I could not generate a response."
	ReplyCritical        = "I'm sorry, a critical error occurred. Our technical team has been notified."
)

const defaultModel = "gemini-1.5-flash"

// CapabilityRegistry executes a named capability with model-chosen
// arguments.
type CapabilityRegistry interface {
	Invoke(ctx context.Context, name string, args map[string]any) (contractx.Outcome, error)
}

type Config struct {
	// DefaultModel backs turns that do not name a model themselves.
	DefaultModel string
}

type Service struct {
	provider    contractx.Provider
	router      contractx.Router
	dispatcher  contractx.Dispatcher
	synthesizer contractx.Synthesizer
	registry    CapabilityRegistry
	notifier    contractx.Notifier

	generalTemplate string
	defaultModel    string

	graphRunner compose.Runnable[*turnState, *turnState]

	newTurnID func() string
}

func New(
	provider contractx.Provider,
	router contractx.Router,
	dispatcher contractx.Dispatcher,
	synthesizer contractx.Synthesizer,
	registry CapabilityRegistry,
	notifier contractx.Notifier,
	generalTemplate string,
	cfg Config,
) (*Service, error) {
	if provider == nil {
		return nil, errors.New("provider is required")
	}
	if router == nil {
		return nil, errors.New("router is required")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if synthesizer == nil {
		return nil, errors.New("synthesizer is required")
	}
	if registry == nil {
		return nil, errors.New("capability registry is required")
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if strings.TrimSpace(generalTemplate) == "" {
		return nil, fmt.Errorf("%w: general prompt", contractx.ErrValidation)
	}

	model := strings.TrimSpace(cfg.DefaultModel)
	if model == "" {
		model = defaultModel
	}

	s := &Service{
		provider:        provider,
		router:          router,
		dispatcher:      dispatcher,
		synthesizer:     synthesizer,
		registry:        registry,
		notifier:        notifier,
		generalTemplate: generalTemplate,
		defaultModel:    model,
		newTurnID:       newTurnID,
	}

	graphRunner, err := s.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// HandleTurn resolves one conversation turn into the user-facing reply.
// Empty input and an unconfigured provider are rejected before any model
// call and emit no trace; every other turn, degraded or failed included,
// emits exactly one trace record.
func (s *Service) HandleTurn(ctx context.Context, req contractx.TurnRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", fmt.Errorf("%w: message text is required", contractx.ErrEmptyMessage)
	}
	if !s.provider.Ready() {
		return "", fmt.Errorf("%w: language model credentials are not configured", contractx.ErrProviderUnavailable)
	}

	state := &turnState{
		TurnID: s.newTurnID(),
		Req:    req,
		Model:  s.model(req),
	}

	log.Info().Str("turn_id", state.TurnID).Str("model", state.Model).Msg("turn started")

	out, err := s.graphRunner.Invoke(ctx, state)
	if err != nil {
		log.Error().Str("turn_id", state.TurnID).Err(err).Msg("turn failed")
		state.FinalText = ReplyCritical
		state.Status = contractx.TurnFailed
		state.Detail = err.Error()
		s.emitTrace(state)
		return "", err
	}

	log.Info().Str("turn_id", out.TurnID).Str("status", string(out.Status)).Msg("turn finished")
	s.emitTrace(out)
	return out.FinalText, nil
}

func (s *Service) model(req contractx.TurnRequest) string {
	if m := strings.TrimSpace(req.Model); m != "" {
		return m
	}
	return s.defaultModel
}

// emitTrace forwards the turn's trace record without blocking the reply.
// Notify failures are logged and swallowed.
func (s *Service) emitTrace(state *turnState) {
	trace := state.trace()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.Notify(ctx, trace); err != nil {
			log.Warn().Str("turn_id", trace.TurnID).Err(err).Msg("trace notify failed")
		}
	}()
}

// turnState threads one turn through the graph nodes.
type turnState struct {
	TurnID string
	Req    contractx.TurnRequest
	Model  string

	Decision contractx.RoutingDecision
	Dispatch contractx.Dispatch
	Outcome  contractx.Outcome
	Invoked  bool

	FinalText string
	Status    contractx.TurnStatus
	Detail    string
}

// settled reports whether an earlier node already decided the reply.
func (st *turnState) settled() bool {
	return st.FinalText != ""
}

func (st *turnState) degrade(reply string, detail string) {
	st.FinalText = reply
	st.Status = contractx.TurnDegraded
	st.Detail = detail
}

func (st *turnState) trace() contractx.TraceRecord {
	trace := contractx.TraceRecord{
		TurnID:     st.TurnID,
		Input:      st.Req.Text,
		Decision:   st.Decision.Kind,
		Specialist: st.Decision.Specialist,
		FinalText:  st.FinalText,
		History:    st.Req.History,
		Status:     st.Status,
		Detail:     st.Detail,
	}
	if st.Invoked {
		trace.Capability = st.Dispatch.Capability
		trace.Arguments = st.Dispatch.Arguments
		trace.RawOutcome = st.Outcome.Render()
	}
	return trace
}

func newTurnID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "turn-unknown"
	}
	return hex.EncodeToString(b[:])
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, contractx.TraceRecord) error { return nil }
