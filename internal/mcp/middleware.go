package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/kutbudev/notion-mcp/internal/telemetry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

var errToolFailed = errors.New("tool returned an error result")

// unknownTool is the metric label for calls naming a tool that is not registered.
const unknownTool = "unknown"

// observeMiddleware logs every incoming request and records it in metrics.
// Tool calls that end in an isError result count as failures. known reports
// whether a tool name is registered; other names share a single label.
func observeMiddleware(logger *zap.Logger, metrics telemetry.Metrics, known func(string) bool) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()
			tool := toolName(req)

			res, err := next(ctx, method, req)

			outcome := err
			if r, ok := res.(*mcp.CallToolResult); ok && r != nil && r.IsError && outcome == nil {
				outcome = errToolFailed
			}
			elapsed := time.Since(start)
			label := tool
			if label != "" && !known(label) {
				label = unknownTool
			}
			metrics.ObserveRequest(method, label, elapsed, outcome)

			fields := []zap.Field{
				zap.String("method", method),
				zap.Duration("duration", elapsed),
			}
			if tool != "" {
				fields = append(fields, zap.String("tool", tool))
			}
			if outcome != nil {
				logger.Warn("mcp request failed", append(fields, zap.Error(outcome))...)
			} else {
				logger.Debug("mcp request", fields...)
			}
			return res, err
		}
	}
}

func toolName(req mcp.Request) string {
	call, ok := req.(*mcp.CallToolRequest)
	if !ok || call.Params == nil {
		return ""
	}
	return call.Params.Name
}
