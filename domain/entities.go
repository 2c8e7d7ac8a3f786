package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type AccountType string

const (
	AccountSavings      AccountType = "Savings Account"
	AccountCurrent      AccountType = "Current Account"
	AccountLoan         AccountType = "Loan Account"
	AccountFixedDeposit AccountType = "Fixed Deposit Account"
)

type Account struct {
	bun.BaseModel `bun:"table:accounts"`

	ID       int64           `bun:"id,pk,autoincrement" json:"id"`
	Type     AccountType     `bun:"account_type" json:"account_type"`
	Number   string          `bun:"account_number" json:"account_number"`
	Balance  decimal.Decimal `bun:"balance" json:"balance"`
	Currency string          `bun:"currency" json:"currency"`
	Status   string          `bun:"status" json:"status"`
	Branch   string          `bun:"branch" json:"branch"`
}

// MaskedNumber returns the display form "...1234".
func (a Account) MaskedNumber() string { return maskNumber(a.Number) }

type TransactionType string

const (
	TransactionDebit  TransactionType = "debit"
	TransactionCredit TransactionType = "credit"
)

type TransactionMethod string

const (
	MethodUPI        TransactionMethod = "UPI"
	MethodCard       TransactionMethod = "Card"
	MethodNetbanking TransactionMethod = "Netbanking"
	MethodNEFT       TransactionMethod = "NEFT"
	MethodRTGS       TransactionMethod = "RTGS"
)

type TransactionCategory string

const (
	CategoryFood     TransactionCategory = "Food"
	CategoryShopping TransactionCategory = "Shopping"
	CategoryTravel   TransactionCategory = "Travel"
	CategoryBills    TransactionCategory = "Bills"
	CategoryIncome   TransactionCategory = "Income"
)

type Transaction struct {
	bun.BaseModel `bun:"table:transactions"`

	ID        int64               `bun:"id,pk,autoincrement" json:"id"`
	AccountID int64               `bun:"account_id" json:"account_id"`
	Date      time.Time           `bun:"date" json:"date"`
	Merchant  string              `bun:"merchant" json:"merchant"`
	Amount    decimal.Decimal     `bun:"amount" json:"amount"`
	Category  TransactionCategory `bun:"category" json:"category"`
	Type      TransactionType     `bun:"transaction_type" json:"transaction_type"`
	Method    TransactionMethod   `bun:"method" json:"method"`
}

const CardStatusBlocked = "blocked"

type CreditCard struct {
	bun.BaseModel `bun:"table:credit_cards"`

	ID                 int64           `bun:"id,pk,autoincrement" json:"id"`
	Name               string          `bun:"name" json:"name"`
	Number             string          `bun:"card_number" json:"card_number"`
	OutstandingBalance decimal.Decimal `bun:"outstanding_balance" json:"outstanding_balance"`
	CreditLimit        decimal.Decimal `bun:"credit_limit" json:"credit_limit"`
	DueDate            time.Time       `bun:"due_date" json:"due_date"`
	MinimumDue         decimal.Decimal `bun:"minimum_due" json:"minimum_due"`
	RewardPoints       int             `bun:"reward_points" json:"reward_points"`
	Status             string          `bun:"status" json:"status"`
}

func (c CreditCard) MaskedNumber() string { return maskNumber(c.Number) }

type CardKind string

const (
	CardKindCredit CardKind = "credit"
	CardKindDebit  CardKind = "debit"
)

// CardSettings holds the mutable per-card limit configuration. One row per
// card; Kind discriminates the credit and debit variants.
type CardSettings struct {
	bun.BaseModel `bun:"table:card_settings"`

	ID                      int64           `bun:"id,pk,autoincrement" json:"id"`
	Kind                    CardKind        `bun:"kind" json:"kind"`
	CardNumber              string          `bun:"card_number" json:"card_number"`
	DailyLimit              decimal.Decimal `bun:"daily_limit" json:"daily_limit"`
	DailyPOSLimit           decimal.Decimal `bun:"daily_pos_limit" json:"daily_pos_limit"`
	DailyInternationalLimit decimal.Decimal `bun:"daily_international_limit" json:"daily_international_limit"`
	InternationalEnabled    bool            `bun:"international_transactions_enabled" json:"international_transactions_enabled"`
}

func (s CardSettings) MaskedNumber() string { return maskNumber(s.CardNumber) }

// DisplayKind returns the human form used in confirmations.
func (s CardSettings) DisplayKind() string {
	if s.Kind == CardKindDebit {
		return "Debit Card"
	}
	return "Credit Card"
}

type KnowledgeEntry struct {
	bun.BaseModel `bun:"table:knowledge_entries"`

	ID      int64  `bun:"id,pk,autoincrement" json:"id"`
	Title   string `bun:"title" json:"title"`
	Content string `bun:"content" json:"content"`
}

func maskNumber(number string) string {
	if len(number) <= 4 {
		return "..." + number
	}
	return "..." + number[len(number)-4:]
}
