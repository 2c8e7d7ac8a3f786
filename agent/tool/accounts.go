package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
	"github.com/rohanmehta-dev/fintalk/domain"
)

const defaultTransactionLimit = 10

func (h handlers) getUserAccounts(ctx context.Context, _ Args) contractx.Outcome {
	accounts, err := h.gw.ListAccounts(ctx)
	if err != nil {
		return contractx.Fail(fmt.Sprintf("Error retrieving accounts: %v", err))
	}
	if len(accounts) == 0 {
		return contractx.Ok("No accounts found for the customer.")
	}

	details := make([]string, 0, len(accounts))
	for _, account := range accounts {
		details = append(details, fmt.Sprintf("%s: %s, Balance: %s",
			account.Type, account.MaskedNumber(), domain.FormatMoney(account.Balance, account.Currency)))
	}
	return contractx.Ok("Accounts: " + strings.Join(details, "; "))
}

func (h handlers) getAccountBalance(ctx context.Context, args Args) contractx.Outcome {
	number, ok := args.String("account_number")
	if !ok || strings.TrimSpace(number) == "" {
		return contractx.Fail("account_number is required")
	}

	account, err := h.gw.FindAccount(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return contractx.Fail(fmt.Sprintf("Account ending in %s not found.", number))
	}
	if err != nil {
		return contractx.Fail(fmt.Sprintf("Error retrieving account balance: %v", err))
	}

	return contractx.Ok(fmt.Sprintf("The balance for account %s is %s.",
		account.MaskedNumber(), domain.FormatMoney(account.Balance, account.Currency)))
}

func (h handlers) listRecentTransactions(ctx context.Context, args Args) contractx.Outcome {
	limit := args.IntOr("limit", defaultTransactionLimit)
	if limit <= 0 {
		limit = defaultTransactionLimit
	}

	var accountID int64
	scope := "all accounts"
	if number, ok := args.String("account_number"); ok && strings.TrimSpace(number) != "" {
		account, err := h.gw.FindAccount(ctx, number)
		if errors.Is(err, domain.ErrNotFound) {
			return contractx.Fail(fmt.Sprintf("Account ending in %s not found.", number))
		}
		if err != nil {
			return contractx.Fail(fmt.Sprintf("Error listing recent transactions: %v", err))
		}
		accountID = account.ID
		scope = "account " + account.MaskedNumber()
	}

	transactions, err := h.gw.ListTransactions(ctx, accountID, limit)
	if err != nil {
		return contractx.Fail(fmt.Sprintf("Error listing recent transactions: %v", err))
	}
	if len(transactions) == 0 {
		return contractx.Ok(fmt.Sprintf("No recent transactions found for %s.", scope))
	}

	details := make([]string, 0, len(transactions))
	for _, t := range transactions {
		sign := "-"
		if t.Type == domain.TransactionCredit {
			sign = "+"
		}
		details = append(details, fmt.Sprintf("Date: %s, Merchant: %s, Amount: %s%s, %s via %s",
			t.Date.Format("2006-01-02"), t.Merchant, sign, domain.FormatMoney(t.Amount, ""), t.Category, t.Method))
	}
	return contractx.Ok(fmt.Sprintf("Recent transactions for %s: %s", scope, strings.Join(details, "; ")))
}

func (h handlers) getCardDetails(ctx context.Context, args Args) contractx.Outcome {
	card, ok := args.String("card")
	if !ok || strings.TrimSpace(card) == "" {
		return contractx.Fail("card is required: pass 'credit', 'debit', or the card number's last digits")
	}
	card = strings.TrimSpace(card)

	switch strings.ToLower(card) {
	case "credit":
		cards, err := h.gw.ListCards(ctx)
		if err != nil {
			return contractx.Fail(fmt.Sprintf("Error retrieving credit card details: %v", err))
		}
		if len(cards) == 0 {
			return contractx.Fail("No credit cards found for the customer.")
		}
		return contractx.Ok(describeCard(cards[0]))
	case "debit":
		settings, err := h.gw.ListCardSettings(ctx, domain.CardKindDebit)
		if err != nil {
			return contractx.Fail(fmt.Sprintf("Error retrieving debit card details: %v", err))
		}
		if len(settings) == 0 {
			return contractx.Fail("No debit cards found for the customer.")
		}
		return contractx.Ok(describeSettings(settings[0]))
	}

	found, err := h.gw.FindCard(ctx, card)
	if err == nil {
		return contractx.Ok(describeCard(*found))
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return contractx.Fail(fmt.Sprintf("Error retrieving card details: %v", err))
	}

	// No credit card row; an identifier may still name a debit card, which
	// only has a settings record.
	settings, err := h.gw.FindCardSettings(ctx, card)
	if errors.Is(err, domain.ErrNotFound) {
		return contractx.Fail(fmt.Sprintf("Card ending in %s not found.", card))
	}
	if err != nil {
		return contractx.Fail(fmt.Sprintf("Error retrieving card details: %v", err))
	}
	return contractx.Ok(describeSettings(*settings))
}

func describeCard(card domain.CreditCard) string {
	return fmt.Sprintf("Card: %s, Status: %s, Outstanding: %s, Limit: %s, Due Date: %s, Minimum Due: %s, Reward Points: %d",
		card.MaskedNumber(),
		card.Status,
		domain.FormatMoney(card.OutstandingBalance, ""),
		domain.FormatMoney(card.CreditLimit, ""),
		card.DueDate.Format("2006-01-02"),
		domain.FormatMoney(card.MinimumDue, ""),
		card.RewardPoints)
}

func describeSettings(settings domain.CardSettings) string {
	state := "disabled"
	if settings.InternationalEnabled {
		state = "enabled"
	}
	return fmt.Sprintf("%s %s limits: Daily: %s, POS: %s, International: %s. International transactions are %s.",
		settings.DisplayKind(),
		settings.MaskedNumber(),
		domain.FormatMoney(settings.DailyLimit, ""),
		domain.FormatMoney(settings.DailyPOSLimit, ""),
		domain.FormatMoney(settings.DailyInternationalLimit, ""),
		state)
}
