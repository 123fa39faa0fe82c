package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

// ToolKey carries the name of the MCP tool that initiated the operation.
const ToolKey ctxKey = "tool"

// WithTool tags the context with the originating tool name.
func WithTool(ctx context.Context, tool string) context.Context {
	return context.WithValue(ctx, ToolKey, tool)
}

// Time logs an operation's duration (and error, if any) when the returned
// function runs; use it with defer and a named error return.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	tool, _ := ctx.Value(ToolKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("tool=%s op=%s dur=%dms err=%v", tool, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("tool=%s op=%s dur=%dms", tool, name, dur.Milliseconds())
	}
}
