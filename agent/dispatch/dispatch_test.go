package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
)

type fakeProvider struct {
	resp    string
	err     error
	calls   int
	prompts []string
}

func (f *fakeProvider) Generate(ctx context.Context, model string, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.resp, nil
}

func (f *fakeProvider) Ready() bool { return true }

type fakeSource struct {
	specs map[contractx.Specialist][]contractx.CapabilitySpec
}

func (f *fakeSource) Describe(specialist contractx.Specialist) []contractx.CapabilitySpec {
	return f.specs[specialist]
}

func accountsSource() *fakeSource {
	return &fakeSource{specs: map[contractx.Specialist][]contractx.CapabilitySpec{
		contractx.SpecialistAccounts: {
			{
				Name:        "get_account_balance",
				Description: "Fetch the balance of one account.",
				Params: []contractx.ParamSpec{
					{Name: "account_number", Type: contractx.ParamString, Required: true},
				},
			},
			{
				Name:        "get_user_accounts",
				Description: "List every account the customer holds.",
			},
		},
		contractx.SpecialistSecurity: {
			{
				Name:        "block_credit_card",
				Description: "Permanently block a credit card.",
				Params: []contractx.ParamSpec{
					{Name: "card_number", Type: contractx.ParamString, Required: true},
					{Name: "reason", Type: contractx.ParamString, Required: true},
				},
			},
		},
	}}
}

func newTestDispatcher(t *testing.T, provider *fakeProvider, source CapabilitySource) *Dispatcher {
	t.Helper()
	d, err := New(provider, source, "Capabilities:\n{capabilities}\nMessage: {message}")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func TestDispatchSelectsCapability(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{resp: `{"capability":"get_account_balance","arguments":{"account_number":"4321"}}`}
	d := newTestDispatcher(t, fake, accountsSource())

	dispatch, err := d.Dispatch(context.Background(), "m1", contractx.SpecialistAccounts, "balance on account ending 4321")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if dispatch.Capability != "get_account_balance" {
		t.Fatalf("capability = %q", dispatch.Capability)
	}
	if got := dispatch.Arguments["account_number"]; got != "4321" {
		t.Fatalf("account_number argument = %v", got)
	}
}

func TestDispatchNoArguments(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{resp: `{"capability":"get_user_accounts"}`}
	d := newTestDispatcher(t, fake, accountsSource())

	dispatch, err := d.Dispatch(context.Background(), "m1", contractx.SpecialistAccounts, "show my accounts")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if dispatch.Arguments == nil {
		t.Fatal("arguments should never be nil")
	}
}

func TestDispatchExtraKeysTolerated(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{resp: `{"capability":"get_user_accounts","confidence":0.92}`}
	d := newTestDispatcher(t, fake, accountsSource())

	dispatch, err := d.Dispatch(context.Background(), "m1", contractx.SpecialistAccounts, "show my accounts")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if dispatch.Capability != "get_user_accounts" {
		t.Fatalf("capability = %q", dispatch.Capability)
	}
}

func TestDispatchOutsideGroup(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{resp: `{"capability":"block_credit_card","arguments":{"card_number":"7788","reason":"lost"}}`}
	d := newTestDispatcher(t, fake, accountsSource())

	_, err := d.Dispatch(context.Background(), "m1", contractx.SpecialistAccounts, "block my card")
	if !errors.Is(err, contractx.ErrUnknownCapability) {
		t.Fatalf("expected ErrUnknownCapability, got %v", err)
	}
}

func TestDispatchUnparseableOutput(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{resp: "call get_account_balance with 4321"}
	d := newTestDispatcher(t, fake, accountsSource())

	_, err := d.Dispatch(context.Background(), "m1", contractx.SpecialistAccounts, "balance")
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestDispatchEmptyCapabilityName(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{resp: `{"capability":"","arguments":{}}`}
	d := newTestDispatcher(t, fake, accountsSource())

	_, err := d.Dispatch(context.Background(), "m1", contractx.SpecialistAccounts, "balance")
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestDispatchNoCapabilities(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{resp: `{"capability":"anything"}`}
	d := newTestDispatcher(t, fake, accountsSource())

	_, err := d.Dispatch(context.Background(), "m1", contractx.SpecialistGeneral, "hello")
	if !errors.Is(err, contractx.ErrUnknownSpecialist) {
		t.Fatalf("expected ErrUnknownSpecialist, got %v", err)
	}
	if fake.calls != 0 {
		t.Fatalf("provider calls = %d, want 0", fake.calls)
	}
}

func TestDispatchModelError(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{err: errors.New("timeout")}
	d := newTestDispatcher(t, fake, accountsSource())

	_, err := d.Dispatch(context.Background(), "m1", contractx.SpecialistAccounts, "balance")
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestDispatchPromptScopedToGroup(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{resp: `{"capability":"get_user_accounts"}`}
	d := newTestDispatcher(t, fake, accountsSource())

	if _, err := d.Dispatch(context.Background(), "m1", contractx.SpecialistAccounts, "accounts"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	prompt := fake.prompts[0]
	for _, want := range []string{"get_account_balance", "get_user_accounts", "account_number (string, required)"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "block_credit_card") {
		t.Fatalf("prompt leaks another group's capability:\n%s", prompt)
	}
}
