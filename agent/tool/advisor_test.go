package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFinancialPlaybook(t *testing.T) {
	catalog := NewCatalog(seededStore(t))

	outcome, err := catalog.Invoke(context.Background(), "search_financial_playbook",
		map[string]any{"query": "emergency"})
	require.NoError(t, err)
	require.False(t, outcome.Failed())
	assert.Contains(t, outcome.Text, "Title: Emergency Fund Basics")
	assert.Contains(t, outcome.Text, "three to six months")
}

func TestSearchFinancialPlaybookMultipleMatches(t *testing.T) {
	catalog := NewCatalog(seededStore(t))

	outcome, err := catalog.Invoke(context.Background(), "search_financial_playbook",
		map[string]any{"query": "credit"})
	require.NoError(t, err)
	require.False(t, outcome.Failed())
	assert.Contains(t, outcome.Text, "Title: Credit Card Repayment")
}

func TestSearchFinancialPlaybookNoMatch(t *testing.T) {
	catalog := NewCatalog(seededStore(t))

	outcome, err := catalog.Invoke(context.Background(), "search_financial_playbook",
		map[string]any{"query": "cryptocurrency"})
	require.NoError(t, err)
	require.False(t, outcome.Failed())
	assert.Equal(t,
		"No relevant information found in the financial playbook for 'cryptocurrency'.",
		outcome.Text)
}

func TestSearchFinancialPlaybookMissingQuery(t *testing.T) {
	catalog := NewCatalog(seededStore(t))

	outcome, err := catalog.Invoke(context.Background(), "search_financial_playbook", map[string]any{})
	require.NoError(t, err)
	assert.True(t, outcome.Failed())
	assert.Equal(t, "query is required", outcome.Err)
}
