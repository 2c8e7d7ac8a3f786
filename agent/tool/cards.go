package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
	"github.com/rohanmehta-dev/fintalk/domain"
)

// LimitField is the closed set of mutable limit fields. Writes to any other
// field name are rejected before mutation.
type LimitField string

const (
	LimitDaily         LimitField = "daily_limit"
	LimitDailyPOS      LimitField = "daily_pos_limit"
	LimitInternational LimitField = "daily_international_limit"
)

var limitSetters = map[LimitField]func(*domain.CardSettings, decimal.Decimal){
	LimitDaily:         func(s *domain.CardSettings, v decimal.Decimal) { s.DailyLimit = v },
	LimitDailyPOS:      func(s *domain.CardSettings, v decimal.Decimal) { s.DailyPOSLimit = v },
	LimitInternational: func(s *domain.CardSettings, v decimal.Decimal) { s.DailyInternationalLimit = v },
}

func (h handlers) blockCreditCard(ctx context.Context, args Args) contractx.Outcome {
	number, ok := args.String("card_number")
	if !ok || strings.TrimSpace(number) == "" {
		return contractx.Fail("card_number is required")
	}
	reason, ok := args.String("reason")
	if !ok || strings.TrimSpace(reason) == "" {
		return contractx.Fail("reason is required")
	}

	card, err := h.gw.FindCard(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return contractx.Fail(fmt.Sprintf("Credit card ending in %s not found.", number))
	}
	if err != nil {
		return contractx.Fail(fmt.Sprintf("Error blocking credit card: %v", err))
	}

	card.Status = domain.CardStatusBlocked
	if err := h.gw.SaveCard(ctx, card); err != nil {
		return contractx.Fail(fmt.Sprintf("Error blocking credit card: %v", err))
	}

	return contractx.Ok(fmt.Sprintf(
		"Success: The credit card ending in %s has been permanently blocked due to: %s. A new card will be issued.",
		number, reason))
}

func (h handlers) updateCardTransactionLimits(ctx context.Context, args Args) contractx.Outcome {
	number, ok := args.String("card_number")
	if !ok || strings.TrimSpace(number) == "" {
		return contractx.Fail("card_number is required")
	}
	limitType, ok := args.String("limit_type")
	if !ok {
		return contractx.Fail("limit_type is required")
	}
	amount, ok := args.Number("new_amount")
	if !ok {
		return contractx.Fail("new_amount must be a number")
	}

	setter, valid := limitSetters[LimitField(strings.TrimSpace(strings.ToLower(limitType)))]
	if !valid {
		return contractx.Fail(fmt.Sprintf(
			"Invalid limit type: %s. Valid types are 'daily_limit', 'daily_pos_limit', or 'daily_international_limit'.",
			limitType))
	}

	settings, err := h.gw.FindCardSettings(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return contractx.Fail(fmt.Sprintf("Card settings for card ending in %s not found.", number))
	}
	if err != nil {
		return contractx.Fail(fmt.Sprintf("Error updating card transaction limits: %v", err))
	}

	value := decimal.NewFromFloat(amount)
	setter(settings, value)
	if err := h.gw.SaveCardSettings(ctx, settings); err != nil {
		return contractx.Fail(fmt.Sprintf("Error updating card transaction limits: %v", err))
	}

	return contractx.Ok(fmt.Sprintf("Success: The %s for %s %s has been updated to %s.",
		strings.TrimSpace(strings.ToLower(limitType)), settings.DisplayKind(), settings.MaskedNumber(),
		domain.FormatMoney(value, "")))
}

func (h handlers) toggleInternationalTransactions(ctx context.Context, args Args) contractx.Outcome {
	number, ok := args.String("card_number")
	if !ok || strings.TrimSpace(number) == "" {
		return contractx.Fail("card_number is required")
	}
	enabled, ok := args.Bool("enabled")
	if !ok {
		return contractx.Fail("enabled must be a boolean")
	}

	settings, err := h.gw.FindCardSettings(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return contractx.Fail(fmt.Sprintf("Card settings for card ending in %s not found.", number))
	}
	if err != nil {
		return contractx.Fail(fmt.Sprintf("Error toggling international transactions: %v", err))
	}

	settings.InternationalEnabled = enabled
	if err := h.gw.SaveCardSettings(ctx, settings); err != nil {
		return contractx.Fail(fmt.Sprintf("Error toggling international transactions: %v", err))
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	return contractx.Ok(fmt.Sprintf("Success: International transactions for %s %s are now %s.",
		settings.DisplayKind(), settings.MaskedNumber(), state))
}
