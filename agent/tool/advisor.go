package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
)

func (h handlers) searchFinancialPlaybook(ctx context.Context, args Args) contractx.Outcome {
	query, ok := args.String("query")
	if !ok || strings.TrimSpace(query) == "" {
		return contractx.Fail("query is required")
	}

	entries, err := h.gw.SearchKnowledge(ctx, query)
	if err != nil {
		return contractx.Fail(fmt.Sprintf("Error searching financial playbook: %v", err))
	}
	if len(entries) == 0 {
		return contractx.Ok(fmt.Sprintf("No relevant information found in the financial playbook for '%s'.", query))
	}

	sections := make([]string, 0, len(entries))
	for _, entry := range entries {
		sections = append(sections, fmt.Sprintf("Title: %s\n%s", entry.Title, entry.Content))
	}
	return contractx.Ok(strings.Join(sections, "\n---\n"))
}
