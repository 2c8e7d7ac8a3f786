package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by the Find* lookups when no row matches.
var ErrNotFound = errors.New("not found")

// Gateway is the data-access contract the capability handlers run against.
// Implementations own their concurrency discipline; the pipeline imposes no
// ordering across concurrent turns touching the same entity.
//
// Identifier matching contract for the Find* methods: the fragment matches a
// stored number by case-insensitive substring OR suffix; the first match is
// returned and multiple matches are not an error.
type Gateway interface {
	ListAccounts(ctx context.Context) ([]Account, error)
	FindAccount(ctx context.Context, fragment string) (*Account, error)

	// ListTransactions returns up to limit transactions newest first.
	// accountID <= 0 means all accounts.
	ListTransactions(ctx context.Context, accountID int64, limit int) ([]Transaction, error)

	ListCards(ctx context.Context) ([]CreditCard, error)
	FindCard(ctx context.Context, fragment string) (*CreditCard, error)
	SaveCard(ctx context.Context, card *CreditCard) error

	// ListCardSettings returns all settings rows of one kind.
	ListCardSettings(ctx context.Context, kind CardKind) ([]CardSettings, error)
	// FindCardSettings prefers the credit variant when both kinds match.
	FindCardSettings(ctx context.Context, fragment string) (*CardSettings, error)
	SaveCardSettings(ctx context.Context, settings *CardSettings) error

	// SearchKnowledge matches query against entry titles and bodies,
	// case-insensitively.
	SearchKnowledge(ctx context.Context, query string) ([]KnowledgeEntry, error)
}
