// Package memstore is an in-memory Gateway used by tests and local runs.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rohanmehta-dev/fintalk/domain"
)

type Store struct {
	mu sync.Mutex

	accounts     []domain.Account
	transactions []domain.Transaction
	cards        []domain.CreditCard
	settings     []domain.CardSettings
	knowledge    []domain.KnowledgeEntry

	nextID int64
}

var _ domain.Gateway = (*Store)(nil)

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) AddAccount(a domain.Account) domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.id()
	}
	s.accounts = append(s.accounts, a)
	return a
}

func (s *Store) AddTransaction(t domain.Transaction) domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.id()
	}
	s.transactions = append(s.transactions, t)
	return t
}

func (s *Store) AddCard(c domain.CreditCard) domain.CreditCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.cards = append(s.cards, c)
	return c
}

func (s *Store) AddCardSettings(cs domain.CardSettings) domain.CardSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cs.ID == 0 {
		cs.ID = s.id()
	}
	s.settings = append(s.settings, cs)
	return cs
}

func (s *Store) AddKnowledge(k domain.KnowledgeEntry) domain.KnowledgeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k.ID == 0 {
		k.ID = s.id()
	}
	s.knowledge = append(s.knowledge, k)
	return k
}

func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Account(nil), s.accounts...), nil
}

func (s *Store) FindAccount(ctx context.Context, fragment string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if domain.MatchNumber(s.accounts[i].Number, fragment) {
			out := s.accounts[i]
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListTransactions(ctx context.Context, accountID int64, limit int) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if accountID > 0 && t.AccountID != accountID {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListCards(ctx context.Context) ([]domain.CreditCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CreditCard(nil), s.cards...), nil
}

func (s *Store) FindCard(ctx context.Context, fragment string) (*domain.CreditCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cards {
		if domain.MatchNumber(s.cards[i].Number, fragment) {
			out := s.cards[i]
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) SaveCard(ctx context.Context, card *domain.CreditCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cards {
		if s.cards[i].ID == card.ID {
			s.cards[i] = *card
			return nil
		}
	}
	if card.ID == 0 {
		card.ID = s.id()
	}
	s.cards = append(s.cards, *card)
	return nil
}

func (s *Store) ListCardSettings(ctx context.Context, kind domain.CardKind) ([]domain.CardSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.CardSettings
	for _, cs := range s.settings {
		if cs.Kind == kind {
			out = append(out, cs)
		}
	}
	return out, nil
}

func (s *Store) FindCardSettings(ctx context.Context, fragment string) (*domain.CardSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var debit *domain.CardSettings
	for i := range s.settings {
		if !domain.MatchNumber(s.settings[i].CardNumber, fragment) {
			continue
		}
		if s.settings[i].Kind == domain.CardKindCredit {
			out := s.settings[i]
			return &out, nil
		}
		if debit == nil {
			out := s.settings[i]
			debit = &out
		}
	}
	if debit != nil {
		return debit, nil
	}
	return nil, domain.ErrNotFound
}

func (s *Store) SaveCardSettings(ctx context.Context, settings *domain.CardSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.settings {
		if s.settings[i].ID == settings.ID {
			s.settings[i] = *settings
			return nil
		}
	}
	if settings.ID == 0 {
		settings.ID = s.id()
	}
	s.settings = append(s.settings, *settings)
	return nil
}

func (s *Store) SearchKnowledge(ctx context.Context, query string) ([]domain.KnowledgeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	var out []domain.KnowledgeEntry
	for _, k := range s.knowledge {
		if strings.Contains(strings.ToLower(k.Title), q) || strings.Contains(strings.ToLower(k.Content), q) {
			out = append(out, k)
		}
	}
	return out, nil
}
