package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatMoney renders an amount in the display convention used across the
// assistant: currency symbol, thousands separators, two decimals. The
// currency may be a symbol or an ISO code; empty defaults to rupees.
// FormatMoney(decimal.NewFromInt(1234500), "INR") == "₹1,234,500.00".
func FormatMoney(amount decimal.Decimal, currency string) string {
	symbol := currency
	if symbol == "" {
		symbol = "₹"
	} else if mapped, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		symbol = mapped
	}

	fixed := amount.StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	if negative {
		fixed = fixed[1:]
	}

	intPart := fixed
	fracPart := ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, fracPart = fixed[:i], fixed[i:]
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteString(fracPart)
	return b.String()
}
