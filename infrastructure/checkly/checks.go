package checkly

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mayankeq/checkly-mcp/domain/check"
)

// API paths.
const (
	pathChecks        = "/v1/checks"
	pathTrigger       = "/v1/check-sessions/trigger"
	pathCheckSessions = "/v1/check-sessions"
	pathCheckResults  = "/v1/check-results"
)

// ListOptions are sent as query parameters when listing checks.
type ListOptions struct {
	// GroupID restricts the listing to one check group.
	GroupID *int64
	// Limit caps the number of checks returned. Zero omits the parameter.
	Limit int
}

// ListChecks fetches checks.
func (c *Client) ListChecks(ctx context.Context, opts ListOptions) ([]check.Check, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.GroupID != nil {
		query.Set("groupId", strconv.FormatInt(*opts.GroupID, 10))
	}

	raw, err := c.Get(ctx, pathChecks, query)
	if err != nil {
		return nil, err
	}
	var checks []check.Check
	if err := decode(raw, &checks, "list checks"); err != nil {
		return nil, err
	}
	return checks, nil
}

// GetCheck fetches one check with every field the API returns.
func (c *Client) GetCheck(ctx context.Context, id string) (check.Check, error) {
	raw, err := c.Get(ctx, checkPath(id), nil)
	if err != nil {
		return check.Check{}, err
	}
	var out check.Check
	if err := decode(raw, &out, "get check"); err != nil {
		return check.Check{}, err
	}
	return out, nil
}

// UpdateCheck replaces a check with the full entity and returns the
// server's version.
func (c *Client) UpdateCheck(ctx context.Context, id string, updated check.Check) (check.Check, error) {
	raw, err := c.Put(ctx, checkPath(id), updated)
	if err != nil {
		return check.Check{}, err
	}
	var out check.Check
	if err := decode(raw, &out, "update check"); err != nil {
		return check.Check{}, err
	}
	return out, nil
}

// TriggerCheck starts an on-demand run of one check.
func (c *Client) TriggerCheck(ctx context.Context, id string) (check.TriggerResponse, error) {
	raw, err := c.Post(ctx, pathTrigger, check.NewTriggerRequest(id))
	if err != nil {
		return check.TriggerResponse{}, err
	}
	var out check.TriggerResponse
	if err := decode(raw, &out, "trigger check"); err != nil {
		return check.TriggerResponse{}, err
	}
	return out, nil
}

// GetSession fetches the current state of a check session.
func (c *Client) GetSession(ctx context.Context, sessionID string) (check.Session, error) {
	raw, err := c.Get(ctx, pathCheckSessions+"/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return check.Session{}, err
	}
	var out check.Session
	if err := decode(raw, &out, "get check session"); err != nil {
		return check.Session{}, err
	}
	return out, nil
}

// GetResults fetches the most recent results of a check.
func (c *Client) GetResults(ctx context.Context, id string, limit int) ([]check.Result, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	raw, err := c.Get(ctx, pathCheckResults+"/"+url.PathEscape(id), query)
	if err != nil {
		return nil, err
	}
	var out []check.Result
	if err := decode(raw, &out, "get check results"); err != nil {
		return nil, err
	}
	return out, nil
}

func checkPath(id string) string {
	return pathChecks + "/" + url.PathEscape(id)
}

func decode(raw json.RawMessage, out any, op string) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}
