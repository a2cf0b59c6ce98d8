// Package tools defines the Checkly tools the server exposes.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mayankeq/checkly-mcp/application"
	"github.com/mayankeq/checkly-mcp/domain/check"
	"github.com/mayankeq/checkly-mcp/domain/tool"
)

// Tool names.
const (
	NameListChecks      = "list_checks"
	NameGetCheck        = "get_check"
	NameUpdateCheck     = "update_check"
	NameRunCheck        = "run_check"
	NameGetCheckResults = "get_check_results"
)

// Reader serves the read-only tools.
type Reader interface {
	ListChecks(ctx context.Context, q application.ListQuery) ([]check.Summary, error)
	GetCheck(ctx context.Context, id string) (check.Check, error)
	GetResults(ctx context.Context, id string, limit int) ([]check.ResultSummary, error)
}

// Updater runs the guarded update workflow.
type Updater interface {
	Update(ctx context.Context, id string, req check.UpdateRequest, confirm bool) (application.Outcome, error)
}

// Runner runs the triggered-run await workflow.
type Runner interface {
	Run(ctx context.Context, id string, await bool) (application.Outcome, error)
}

var (
	_ Reader  = (*application.Catalog)(nil)
	_ Updater = (*application.UpdateWorkflow)(nil)
	_ Runner  = (*application.RunWorkflow)(nil)
)

// All returns every tool in the order they are advertised.
func All(reader Reader, updater Updater, runner Runner) []tool.Tool {
	return []tool.Tool{
		ListChecks(reader),
		GetCheck(reader),
		UpdateCheck(updater),
		RunCheck(runner),
		GetCheckResults(reader),
	}
}

func intPtr(v int) *int { return &v }

var idProperty = tool.Property{
	Type:        "string",
	Description: "The check ID.",
}

// ListChecks lists checks, optionally filtered by type and group.
func ListChecks(reader Reader) tool.Tool {
	return tool.NewBuilder(NameListChecks).
		WithTitle("List checks").
		WithDescription("List Checkly checks with their type, activation, frequency, locations, tags and group. " +
			"Optional arguments: type (for example API or BROWSER, filtered locally), group_id, limit (1-100, default 100).").
		WithInputSchema(tool.ObjectSchema(map[string]tool.Property{
			"type": {
				Type:        "string",
				Description: "Only return checks of this checkType.",
			},
			"group_id": {
				Type:        "integer",
				Description: "Only return checks in this group.",
			},
			"limit": {
				Type:        "integer",
				Description: "Maximum number of checks to fetch.",
				Default:     application.DefaultListLimit,
				Minimum:     intPtr(1),
				Maximum:     intPtr(application.MaxLimit),
			},
		})).
		ReadOnly().
		Idempotent().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var args struct {
				Type    string `json:"type"`
				GroupID *int64 `json:"group_id"`
				Limit   int    `json:"limit"`
			}
			if err := decode(input, &args); err != nil {
				return tool.Result{}, err
			}

			summaries, err := reader.ListChecks(ctx, application.ListQuery{
				Type:    args.Type,
				GroupID: args.GroupID,
				Limit:   args.Limit,
			})
			if err != nil {
				return tool.Result{}, err
			}
			return tool.JSONResult(summaries)
		}).
		MustBuild()
}

// GetCheck returns the full configuration of one check.
func GetCheck(reader Reader) tool.Tool {
	return tool.NewBuilder(NameGetCheck).
		WithTitle("Get check").
		WithDescription("Get the full configuration of a Checkly check, including its script and every setting the API returns. " +
			"Required argument: id.").
		WithInputSchema(tool.ObjectSchema(map[string]tool.Property{
			"id": idProperty,
		}, "id")).
		ReadOnly().
		Idempotent().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var args struct {
				ID string `json:"id"`
			}
			if err := decode(input, &args); err != nil {
				return tool.Result{}, err
			}

			ch, err := reader.GetCheck(ctx, args.ID)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.JSONResult(ch)
		}).
		MustBuild()
}

// UpdateCheck previews or applies changes to a check.
func UpdateCheck(updater Updater) tool.Tool {
	return tool.NewBuilder(NameUpdateCheck).
		WithTitle("Update check").
		WithDescription("Change a Checkly check's name, activation, frequency or script. " +
			"Without confirm=true this only returns a diff of what would change. " +
			"Arguments: id (required), name, activated, frequency (minutes: 1, 2, 5, 10, 15, 30, 60, 120, 180, 360, 720 or 1440), script, confirm.").
		WithInputSchema(tool.ObjectSchema(map[string]tool.Property{
			"id": idProperty,
			"name": {
				Type:        "string",
				Description: "New check name.",
			},
			"activated": {
				Type:        "boolean",
				Description: "Whether the check runs on its schedule.",
			},
			"frequency": {
				Type:        "integer",
				Description: "Run frequency in minutes.",
				Enum:        frequencyEnum(),
			},
			"script": {
				Type:        "string",
				Description: "New check script, replacing the current one in full.",
			},
			"confirm": {
				Type:        "boolean",
				Description: "Apply the change. When false or absent only the diff is returned.",
				Default:     false,
			},
		}, "id")).
		Destructive().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var args struct {
				ID string `json:"id"`
				check.UpdateRequest
				Confirm bool `json:"confirm"`
			}
			if err := decode(input, &args); err != nil {
				return tool.Result{}, err
			}

			out, err := updater.Update(ctx, args.ID, args.UpdateRequest, args.Confirm)
			if err != nil {
				return tool.Result{}, err
			}
			return outcomeResult(out)
		}).
		MustBuild()
}

// RunCheck triggers a check run and optionally waits for it to finish.
func RunCheck(runner Runner) tool.Tool {
	return tool.NewBuilder(NameRunCheck).
		WithTitle("Run check").
		WithDescription("Trigger an immediate run of a Checkly check. " +
			"With await_result=true, wait up to two minutes for the run to finish and return its results. " +
			"Arguments: id (required), await_result.").
		WithInputSchema(tool.ObjectSchema(map[string]tool.Property{
			"id": idProperty,
			"await_result": {
				Type:        "boolean",
				Description: "Wait for the run to finish.",
				Default:     false,
			},
		}, "id")).
		Destructive().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var args struct {
				ID          string `json:"id"`
				AwaitResult bool   `json:"await_result"`
			}
			if err := decode(input, &args); err != nil {
				return tool.Result{}, err
			}

			out, err := runner.Run(ctx, args.ID, args.AwaitResult)
			if err != nil {
				return tool.Result{}, err
			}
			return outcomeResult(out)
		}).
		MustBuild()
}

// GetCheckResults returns the most recent results of a check.
func GetCheckResults(reader Reader) tool.Tool {
	return tool.NewBuilder(NameGetCheckResults).
		WithTitle("Get check results").
		WithDescription("Get the most recent run results of a Checkly check: location, timing, response time and whether it passed. " +
			"Arguments: id (required), limit (1-100, default 10).").
		WithInputSchema(tool.ObjectSchema(map[string]tool.Property{
			"id": idProperty,
			"limit": {
				Type:        "integer",
				Description: "Maximum number of results.",
				Default:     application.DefaultResultsLimit,
				Minimum:     intPtr(1),
				Maximum:     intPtr(application.MaxLimit),
			},
		}, "id")).
		ReadOnly().
		Idempotent().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var args struct {
				ID    string `json:"id"`
				Limit int    `json:"limit"`
			}
			if err := decode(input, &args); err != nil {
				return tool.Result{}, err
			}

			results, err := reader.GetResults(ctx, args.ID, args.Limit)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.JSONResult(results)
		}).
		MustBuild()
}

func outcomeResult(out application.Outcome) (tool.Result, error) {
	result, err := tool.JSONResult(out.Payload)
	if err != nil {
		return tool.Result{}, err
	}
	return result.WithOutcome(out.Kind), nil
}

// decode unmarshals the tool arguments. Empty input decodes as {}.
func decode(input json.RawMessage, v any) error {
	if len(bytes.TrimSpace(input)) == 0 {
		return nil
	}
	if err := json.Unmarshal(input, v); err != nil {
		return fmt.Errorf("%w: %w", tool.ErrInvalidInput, err)
	}
	return nil
}

func frequencyEnum() []any {
	out := make([]any, len(check.AllowedFrequencies))
	for i, f := range check.AllowedFrequencies {
		out[i] = f
	}
	return out
}
