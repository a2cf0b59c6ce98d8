package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/mayankeq/checkly-mcp/domain/middleware"
	"github.com/mayankeq/checkly-mcp/domain/policy"
	"github.com/mayankeq/checkly-mcp/domain/tool"
	"github.com/mayankeq/checkly-mcp/infrastructure/logging"
)

// Middleware records every call of a mutating tool. Read-only tools pass
// through unrecorded. A failure to record is logged and never fails the
// call.
func Middleware(logger Logger) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (tool.Result, error) {
			if !execCtx.Tool.Annotations().Mutating() {
				return next(ctx, execCtx)
			}

			start := time.Now()
			result, err := next(ctx, execCtx)

			event := Event{
				Timestamp: start.UTC(),
				EventType: EventToolExecution,
				CallID:    execCtx.CallID,
				ToolName:  execCtx.Tool.Name(),
				CheckID:   checkID(execCtx.Input),
				Outcome:   result.Outcome,
				Success:   err == nil,
				Duration:  time.Since(start),
				InputHash: hashInput(execCtx.Input),
			}
			if result.Outcome == policy.OutcomeDenied {
				event.EventType = EventAccessDenied
			}
			if err != nil {
				event.Error = err.Error()
			}

			if logErr := logger.Log(context.WithoutCancel(ctx), event); logErr != nil {
				logging.Warn().
					Add(logging.CallID(execCtx.CallID)).
					Add(logging.ToolName(execCtx.Tool.Name())).
					Add(logging.ErrorField(logErr)).
					Msg("audit record failed")
			}
			return result, err
		}
	}
}

func checkID(input json.RawMessage) string {
	var args struct {
		ID string `json:"id"`
	}
	if len(input) == 0 || json.Unmarshal(input, &args) != nil {
		return ""
	}
	return args.ID
}

func hashInput(input json.RawMessage) string {
	if len(input) == 0 {
		return ""
	}
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:])
}
