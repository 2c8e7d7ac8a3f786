package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
)

type fakeProvider struct {
	ready bool
	resp  string
	err   error
	calls int
}

func (f *fakeProvider) Generate(ctx context.Context, model string, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.resp, nil
}

func (f *fakeProvider) Ready() bool { return f.ready }

type fakeRouter struct {
	decision contractx.RoutingDecision
	err      error
	calls    int
}

func (f *fakeRouter) Route(ctx context.Context, model string, req contractx.TurnRequest) (contractx.RoutingDecision, error) {
	f.calls++
	if f.err != nil {
		return contractx.RoutingDecision{}, f.err
	}
	return f.decision, nil
}

type fakeDispatcher struct {
	dispatch contractx.Dispatch
	err      error
	calls    int
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, model string, specialist contractx.Specialist, userMessage string) (contractx.Dispatch, error) {
	f.calls++
	if f.err != nil {
		return contractx.Dispatch{}, f.err
	}
	return f.dispatch, nil
}

type fakeSynthesizer struct {
	reply       string
	err         error
	calls       int
	lastOutcome contractx.Outcome
	lastCap     string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, model string, userMessage string, capability string, outcome contractx.Outcome) (string, error) {
	f.calls++
	f.lastOutcome = outcome
	f.lastCap = capability
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeRegistry struct {
	outcome  contractx.Outcome
	err      error
	calls    int
	lastName string
	lastArgs map[string]any
}

func (f *fakeRegistry) Invoke(ctx context.Context, name string, args map[string]any) (contractx.Outcome, error) {
	f.calls++
	f.lastName = name
	f.lastArgs = args
	if f.err != nil {
		return contractx.Outcome{}, f.err
	}
	return f.outcome, nil
}

type fakeNotifier struct {
	traces chan contractx.TraceRecord
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{traces: make(chan contractx.TraceRecord, 4)}
}

func (f *fakeNotifier) Notify(ctx context.Context, trace contractx.TraceRecord) error {
	f.traces <- trace
	return nil
}

func (f *fakeNotifier) wait(t *testing.T) contractx.TraceRecord {
	t.Helper()
	select {
	case trace := <-f.traces:
		return trace
	case <-time.After(2 * time.Second):
		t.Fatal("no trace emitted")
		return contractx.TraceRecord{}
	}
}

func (f *fakeNotifier) expectNone(t *testing.T) {
	t.Helper()
	select {
	case trace := <-f.traces:
		t.Fatalf("unexpected trace emitted: %+v", trace)
	case <-time.After(50 * time.Millisecond):
	}
}

type testHarness struct {
	provider    *fakeProvider
	router      *fakeRouter
	dispatcher  *fakeDispatcher
	synthesizer *fakeSynthesizer
	registry    *fakeRegistry
	notifier    *fakeNotifier
	service     *Service
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	h := &testHarness{
		provider:    &fakeProvider{ready: true, resp: "Hello there!"},
		router:      &fakeRouter{},
		dispatcher:  &fakeDispatcher{},
		synthesizer: &fakeSynthesizer{reply: "All done."},
		registry:    &fakeRegistry{outcome: contractx.Ok("raw result")},
		notifier:    newFakeNotifier(),
	}
	service, err := New(
		h.provider, h.router, h.dispatcher, h.synthesizer, h.registry, h.notifier,
		"History: {history}\nMessage: {message}",
		Config{},
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h.service = service
	return h
}

func TestHandleTurnEmptyMessage(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, err := h.service.HandleTurn(context.Background(), contractx.TurnRequest{Text: "   "})
	if !errors.Is(err, contractx.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if h.router.calls != 0 {
		t.Fatalf("router calls = %d, want 0", h.router.calls)
	}
	h.notifier.expectNone(t)
}

func TestHandleTurnProviderNotReady(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.provider.ready = false

	_, err := h.service.HandleTurn(context.Background(), contractx.TurnRequest{Text: "balance"})
	if !errors.Is(err, contractx.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if h.router.calls != 0 {
		t.Fatalf("router calls = %d, want 0", h.router.calls)
	}
	h.notifier.expectNone(t)
}

func TestHandleTurnDirectAnswer(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.router.decision = contractx.RoutingDecision{
		Kind:     contractx.DecisionDirect,
		Response: "I'm your banking assistant.",
	}

	reply, err := h.service.HandleTurn(context.Background(), contractx.TurnRequest{Text: "who are you"})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if reply != "I'm your banking assistant." {
		t.Fatalf("reply = %q", reply)
	}
	if h.dispatcher.calls != 0 {
		t.Fatalf("dispatcher calls = %d, want 0", h.dispatcher.calls)
	}

	trace := h.notifier.wait(t)
	if trace.Status != contractx.TurnCompleted {
		t.Fatalf("trace status = %q, want completed", trace.Status)
	}
	if trace.Decision != contractx.DecisionDirect {
		t.Fatalf("trace decision = %q", trace.Decision)
	}
	if trace.TurnID == "" {
		t.Fatal("trace turn id is empty")
	}
}

func TestHandleTurnDelegateFlow(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.router.decision = contractx.RoutingDecision{
		Kind:       contractx.DecisionDelegate,
		Specialist: contractx.SpecialistAccounts,
	}
	h.dispatcher.dispatch = contractx.Dispatch{
		Capability: "get_account_balance",
		Arguments:  map[string]any{"account_number": "4321"},
	}
	h.registry.outcome = contractx.Ok("The balance for account ...4321 is ₹84,250.75.")
	h.synthesizer.reply = "Your account ending in 4321 holds ₹84,250.75."

	reply, err := h.service.HandleTurn(context.Background(), contractx.TurnRequest{
		Text: "what's my balance on the account ending 4321",
	})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if reply != "Your account ending in 4321 holds ₹84,250.75." {
		t.Fatalf("reply = %q", reply)
	}
	if h.registry.lastName != "get_account_balance" {
		t.Fatalf("invoked capability = %q", h.registry.lastName)
	}
	if got := h.registry.lastArgs["account_number"]; got != "4321" {
		t.Fatalf("account_number argument = %v", got)
	}
	if h.synthesizer.lastOutcome.Render() != "The balance for account ...4321 is ₹84,250.75." {
		t.Fatalf("synthesizer outcome = %+v", h.synthesizer.lastOutcome)
	}

	trace := h.notifier.wait(t)
	if trace.Status != contractx.TurnCompleted {
		t.Fatalf("trace status = %q", trace.Status)
	}
	if trace.Capability != "get_account_balance" {
		t.Fatalf("trace capability = %q", trace.Capability)
	}
	if trace.RawOutcome != "The balance for account ...4321 is ₹84,250.75." {
		t.Fatalf("trace raw outcome = %q", trace.RawOutcome)
	}
}

func TestHandleTurnGeneralSpecialist(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.router.decision = contractx.RoutingDecision{
		Kind:       contractx.DecisionDelegate,
		Specialist: contractx.SpecialistGeneral,
	}
	h.provider.resp = "Hi! Hope you're having a great day."

	reply, err := h.service.HandleTurn(context.Background(), contractx.TurnRequest{Text: "good morning"})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if reply != "Hi! Hope you're having a great day." {
		t.Fatalf("reply = %q", reply)
	}
	if h.dispatcher.calls != 0 {
		t.Fatalf("dispatcher calls = %d, want 0", h.dispatcher.calls)
	}
	if h.provider.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", h.provider.calls)
	}
	h.notifier.wait(t)
}

func TestHandleTurnRoutingSchemaViolation(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.router.err = fmt.Errorf("%w: not a json object", contractx.ErrSchemaViolation)

	reply, err := h.service.HandleTurn(context.Background(), contractx.TurnRequest{Text: "balance"})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if reply != ReplyClarify {
		t.Fatalf("reply = %q, want clarification", reply)
	}

	trace := h.notifier.wait(t)
	if trace.Status != contractx.TurnDegraded {
		t.Fatalf("trace status = %q, want degraded", trace.Status)
	}
	if trace.Detail == "" {
		t.Fatal("trace detail should carry the parse failure")
	}
}

func TestHandleTurnUnknownRoutingTarget(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.router.decision = contractx.RoutingDecision{Kind: contractx.DecisionUnknown}

	reply, err := h.service.HandleTurn(context.Background(), contractx.TurnRequest{Text: "do the thing"})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if reply != ReplyUnknownDecision {
		t.Fatalf("reply = %q", reply)
	}

	trace := h.notifier.wait(t)
	if trace.Status != contractx.TurnDegraded {
		t.Fatalf("trace status = %q, want degraded", trace.Status)
	}
}

func TestHandleTurnDispatchRejected(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.router.decision = contractx.RoutingDecision{
		Kind:       contractx.DecisionDelegate,
		Specialist: contractx.SpecialistSecurity,
	}
	h.dispatcher.err = fmt.Errorf("%w: transfer_funds", contractx.ErrUnknownCapability)

	reply, err := h.service.HandleTurn(context.Background(), contractx.TurnRequest{Text: "wire money abroad"})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if reply != ReplyCapabilityMiss {
		t.Fatalf("reply = %q", reply)
	}
	if h.registry.calls != 0 {
		t.Fatalf("registry calls = %d, want 0", h.registry.calls)
	}
	if h.synthesizer.calls != 0 {
		t.Fatalf("synthesizer calls = %d, want 0", h.synthesizer.calls)
	}
	h.notifier.wait(t)
}

func TestHandleTurnCapabilityFaultIsData(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.router.decision = contractx.RoutingDecision{
		Kind:       contractx.DecisionDelegate,
		Specialist: contractx.SpecialistAccounts,
	}
	h.dispatcher.dispatch = contractx.Dispatch{
		Capability: "get_account_balance",
		Arguments:  map[string]any{"account_number": "99"},
	}
	h.registry.outcome = contractx.Fail("Account ending in 99 not found.")
	h.synthesizer.reply = "I'm sorry, I couldn't find an account ending in 99."

	reply, err := h.service.HandleTurn(context.Background(), contractx.TurnRequest{Text: "balance of account 99"})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if reply != "I'm sorry, I couldn't find an account ending in 99." {
		t.Fatalf("reply = %q", reply)
	}
	if !h.synthesizer.lastOutcome.Failed() {
		t.Fatal("synthesizer should receive the fault outcome")
	}

	trace := h.notifier.wait(t)
	if trace.Status != contractx.TurnCompleted {
		t.Fatalf("trace status = %q, want completed", trace.Status)
	}
	if trace.RawOutcome != "Account ending in 99 not found." {
		t.Fatalf("trace raw outcome = %q", trace.RawOutcome)
	}
}

func TestHandleTurnSynthesizerFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.router.decision = contractx.RoutingDecision{
		Kind:       contractx.DecisionDelegate,
		Specialist: contractx.SpecialistAccounts,
	}
	h.dispatcher.dispatch = contractx.Dispatch{Capability: "get_user_accounts", Arguments: map[string]any{}}
	h.synthesizer.err = fmt.Errorf("%w: upstream closed", contractx.ErrModelInvoke)

	_, err := h.service.HandleTurn(context.Background(), contractx.TurnRequest{Text: "show accounts"})
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}

	trace := h.notifier.wait(t)
	if trace.Status != contractx.TurnFailed {
		t.Fatalf("trace status = %q, want failed", trace.Status)
	}
	if trace.FinalText != ReplyCritical {
		t.Fatalf("trace final text = %q", trace.FinalText)
	}
	if trace.Detail == "" {
		t.Fatal("trace detail should carry the failure")
	}
}
