package application

import (
	"context"
	"fmt"

	"github.com/mayankeq/checkly-mcp/domain/check"
	"github.com/mayankeq/checkly-mcp/infrastructure/checkly"
)

// Listing limits.
const (
	DefaultListLimit    = 100
	DefaultResultsLimit = 10
	MaxLimit            = 100
)

// ClampLimit returns def for non-positive requests and caps at MaxLimit.
func ClampLimit(requested, def int) int {
	if requested <= 0 {
		return def
	}
	if requested > MaxLimit {
		return MaxLimit
	}
	return requested
}

// ListQuery selects checks to list.
type ListQuery struct {
	// Type filters by checkType after fetching.
	Type string
	// GroupID is sent to the API.
	GroupID *int64
	// Limit is sent to the API.
	Limit int
}

// Catalog serves the read-only tools.
type Catalog struct {
	service CheckService
}

// NewCatalog creates a catalog.
func NewCatalog(service CheckService) *Catalog {
	return &Catalog{service: service}
}

// ListChecks returns summaries of the matching checks.
func (c *Catalog) ListChecks(ctx context.Context, q ListQuery) ([]check.Summary, error) {
	checks, err := c.service.ListChecks(ctx, checkly.ListOptions{
		GroupID: q.GroupID,
		Limit:   ClampLimit(q.Limit, DefaultListLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}

	// The API already scopes by group; matching again keeps the result
	// consistent when a server ignores the parameter.
	filter := check.Filter{Type: q.Type, GroupID: q.GroupID}
	summaries := make([]check.Summary, 0, len(checks))
	for _, ch := range checks {
		if filter.Matches(ch) {
			summaries = append(summaries, ch.Summarize())
		}
	}
	return summaries, nil
}

// GetCheck returns the full check as the API reports it.
func (c *Catalog) GetCheck(ctx context.Context, id string) (check.Check, error) {
	if err := requireID(id); err != nil {
		return check.Check{}, err
	}
	ch, err := c.service.GetCheck(ctx, id)
	if err != nil {
		return check.Check{}, fmt.Errorf("get check %s: %w", id, err)
	}
	return ch, nil
}

// GetResults returns the most recent results of a check.
func (c *Catalog) GetResults(ctx context.Context, id string, limit int) ([]check.ResultSummary, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	results, err := c.service.GetResults(ctx, id, ClampLimit(limit, DefaultResultsLimit))
	if err != nil {
		return nil, fmt.Errorf("get check results %s: %w", id, err)
	}

	out := make([]check.ResultSummary, 0, len(results))
	for _, r := range results {
		out = append(out, r.Summarize())
	}
	return out, nil
}
