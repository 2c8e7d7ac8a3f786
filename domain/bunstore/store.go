// Package bunstore is the Postgres Gateway implementation.
package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/rohanmehta-dev/fintalk/domain"
)

type Config struct {
	DSN string `envconfig:"DSN" split_words:"true" required:"true"`
}

type Store struct {
	db *bun.DB
}

var _ domain.Gateway = (*Store)(nil)

func Open(cfg Config) (*Store, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return New(bun.NewDB(sqldb, pgdialect.New())), nil
}

func New(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := s.db.NewSelect().Model(&accounts).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *Store) FindAccount(ctx context.Context, fragment string) (*domain.Account, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, domain.ErrNotFound
	}

	account := new(domain.Account)
	err := s.db.NewSelect().
		Model(account).
		Where("account_number ILIKE ?", contains(fragment)).
		Order("id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapNotFound("find account", err)
	}
	return account, nil
}

func (s *Store) ListTransactions(ctx context.Context, accountID int64, limit int) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	q := s.db.NewSelect().Model(&transactions).Order("date DESC")
	if accountID > 0 {
		q = q.Where("account_id = ?", accountID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

func (s *Store) ListCards(ctx context.Context) ([]domain.CreditCard, error) {
	var cards []domain.CreditCard
	if err := s.db.NewSelect().Model(&cards).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

func (s *Store) FindCard(ctx context.Context, fragment string) (*domain.CreditCard, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, domain.ErrNotFound
	}

	card := new(domain.CreditCard)
	err := s.db.NewSelect().
		Model(card).
		Where("card_number ILIKE ?", contains(fragment)).
		Order("id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapNotFound("find card", err)
	}
	return card, nil
}

func (s *Store) SaveCard(ctx context.Context, card *domain.CreditCard) error {
	if _, err := s.db.NewUpdate().Model(card).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("save card: %w", err)
	}
	return nil
}

func (s *Store) ListCardSettings(ctx context.Context, kind domain.CardKind) ([]domain.CardSettings, error) {
	var settings []domain.CardSettings
	err := s.db.NewSelect().
		Model(&settings).
		Where("kind = ?", kind).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list card settings: %w", err)
	}
	return settings, nil
}

func (s *Store) FindCardSettings(ctx context.Context, fragment string) (*domain.CardSettings, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, domain.ErrNotFound
	}

	settings := new(domain.CardSettings)
	err := s.db.NewSelect().
		Model(settings).
		Where("card_number ILIKE ?", contains(fragment)).
		OrderExpr("CASE kind WHEN 'credit' THEN 0 ELSE 1 END").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapNotFound("find card settings", err)
	}
	return settings, nil
}

func (s *Store) SaveCardSettings(ctx context.Context, settings *domain.CardSettings) error {
	if _, err := s.db.NewUpdate().Model(settings).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("save card settings: %w", err)
	}
	return nil
}

func (s *Store) SearchKnowledge(ctx context.Context, query string) ([]domain.KnowledgeEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	var entries []domain.KnowledgeEntry
	err := s.db.NewSelect().
		Model(&entries).
		Where("title ILIKE ?", contains(query)).
		WhereOr("content ILIKE ?", contains(query)).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("search knowledge: %w", err)
	}
	return entries, nil
}

// contains builds the ILIKE pattern for substring matching; a substring
// match subsumes the suffix case of the fuzzy-matching policy.
func contains(fragment string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(fragment)
	return "%" + escaped + "%"
}

func mapNotFound(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
