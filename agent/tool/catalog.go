// Package tool holds the capability catalog: the fixed set of named, typed
// operations the dispatcher may invoke on behalf of a specialist.
package tool

import (
	"context"
	"fmt"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
	"github.com/rohanmehta-dev/fintalk/domain"
)

// Handler is the executable body behind one capability. Handlers never
// return a Go error: internal faults become descriptive Fail outcomes.
type Handler func(ctx context.Context, args Args) contractx.Outcome

type Capability struct {
	Spec    contractx.CapabilitySpec
	Group   contractx.Specialist
	Handler Handler
}

// Catalog is an immutable capability registry built once at process start.
type Catalog struct {
	byName map[string]Capability
	groups map[contractx.Specialist][]Capability
}

// NewCatalog registers every capability against the given gateway. Each
// capability belongs to exactly one specialist group; schemas are declared
// statically here, not derived from handler signatures at runtime.
func NewCatalog(gw domain.Gateway) *Catalog {
	h := handlers{gw: gw}

	caps := []Capability{
		{
			Group: contractx.SpecialistAccounts,
			Spec: contractx.CapabilitySpec{
				Name:        "get_user_accounts",
				Description: "Get a list of all bank accounts (Savings, Current, etc.) associated with the customer.",
			},
			Handler: h.getUserAccounts,
		},
		{
			Group: contractx.SpecialistAccounts,
			Spec: contractx.CapabilitySpec{
				Name:        "get_account_balance",
				Description: "Get the current balance for a specific bank account number.",
				Params: []contractx.ParamSpec{
					{Name: "account_number", Type: contractx.ParamString, Required: true},
				},
			},
			Handler: h.getAccountBalance,
		},
		{
			Group: contractx.SpecialistAccounts,
			Spec: contractx.CapabilitySpec{
				Name:        "list_recent_transactions",
				Description: "List the most recent transactions, newest first. Scope to one account by number, or omit it for all accounts.",
				Params: []contractx.ParamSpec{
					{Name: "account_number", Type: contractx.ParamString, Required: false},
					{Name: "limit", Type: contractx.ParamNumber, Required: false},
				},
			},
			Handler: h.listRecentTransactions,
		},
		{
			Group: contractx.SpecialistAccounts,
			Spec: contractx.CapabilitySpec{
				Name:        "get_credit_card_details",
				Description: "Get card details: outstanding balance, credit limit, due date and reward points for a credit card, or daily limits for a debit card. Pass 'credit', 'debit', or the card number's last digits.",
				Params: []contractx.ParamSpec{
					{Name: "card", Type: contractx.ParamString, Required: true},
				},
			},
			Handler: h.getCardDetails,
		},
		{
			Group: contractx.SpecialistSecurity,
			Spec: contractx.CapabilitySpec{
				Name:        "block_credit_card",
				Description: "Permanently block a credit card for security reasons, like if it was lost or stolen.",
				Params: []contractx.ParamSpec{
					{Name: "card_number", Type: contractx.ParamString, Required: true},
					{Name: "reason", Type: contractx.ParamString, Required: true},
				},
			},
			Handler: h.blockCreditCard,
		},
		{
			Group: contractx.SpecialistSecurity,
			Spec: contractx.CapabilitySpec{
				Name:        "update_card_transaction_limits",
				Description: "Update daily transaction limits on a debit or credit card. Valid limit_type values are 'daily_limit', 'daily_pos_limit', or 'daily_international_limit'.",
				Params: []contractx.ParamSpec{
					{Name: "card_number", Type: contractx.ParamString, Required: true},
					{Name: "limit_type", Type: contractx.ParamString, Required: true},
					{Name: "new_amount", Type: contractx.ParamNumber, Required: true},
				},
			},
			Handler: h.updateCardTransactionLimits,
		},
		{
			Group: contractx.SpecialistSecurity,
			Spec: contractx.CapabilitySpec{
				Name:        "toggle_international_transactions",
				Description: "Enable or disable international transactions on a debit or credit card.",
				Params: []contractx.ParamSpec{
					{Name: "card_number", Type: contractx.ParamString, Required: true},
					{Name: "enabled", Type: contractx.ParamBoolean, Required: true},
				},
			},
			Handler: h.toggleInternationalTransactions,
		},
		{
			Group: contractx.SpecialistAdvisor,
			Spec: contractx.CapabilitySpec{
				Name:        "search_financial_playbook",
				Description: "Search the bank's internal financial playbook for official advice on topics like saving, investment, debt management, and retirement.",
				Params: []contractx.ParamSpec{
					{Name: "query", Type: contractx.ParamString, Required: true},
				},
			},
			Handler: h.searchFinancialPlaybook,
		},
	}

	c := &Catalog{
		byName: make(map[string]Capability, len(caps)),
		groups: make(map[contractx.Specialist][]Capability, len(contractx.SpecialistOrder)),
	}
	for _, entry := range caps {
		c.byName[entry.Spec.Name] = entry
		c.groups[entry.Group] = append(c.groups[entry.Group], entry)
	}
	return c
}

// Describe returns the ordered capability specs visible to one specialist.
func (c *Catalog) Describe(specialist contractx.Specialist) []contractx.CapabilitySpec {
	group := c.groups[specialist]
	specs := make([]contractx.CapabilitySpec, 0, len(group))
	for _, entry := range group {
		specs = append(specs, entry.Spec)
	}
	return specs
}

func (c *Catalog) Resolve(name string) (Capability, bool) {
	entry, ok := c.byName[name]
	return entry, ok
}

// Invoke runs a resolved capability. A handler panic is recovered into a
// Fail outcome so capability faults stay out of the pipeline's error
// channel.
func (c *Catalog) Invoke(ctx context.Context, name string, args map[string]any) (outcome contractx.Outcome, err error) {
	entry, ok := c.Resolve(name)
	if !ok {
		return contractx.Outcome{}, fmt.Errorf("%w: %s", contractx.ErrUnknownCapability, name)
	}

	defer func() {
		if r := recover(); r != nil {
			outcome = contractx.Fail(fmt.Sprintf("Error executing %s: %v", name, r))
		}
	}()

	return entry.Handler(ctx, Args(args)), nil
}

type handlers struct {
	gw domain.Gateway
}
