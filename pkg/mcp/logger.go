package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/folio/pkg/log"
)

// WithTracing wraps a tool handler with an OpenTelemetry span and structured
// logging. Logs of the call carry the span's trace ID.
func WithTracing[In, Out any](
	tracer trace.Tracer,
	toolName string,
	handler mcp.ToolHandlerFor[In, Out],
) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		ctx, span := tracer.Start(ctx, toolName, trace.WithAttributes(
			attribute.String("mcp.tool", toolName),
		))
		defer span.End()

		logger := log.WithContext(ctx)

		logger.DebugContext(ctx, "handling tool call",
			slog.String("name", toolName),
			slog.Any("args", in),
		)

		result, out, err := handler(ctx, req, in)
		if err != nil {
			logger.ErrorContext(ctx, "tool call failed",
				slog.String("name", toolName),
				slog.Any("err", err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			logger.DebugContext(ctx, "tool call completed", slog.String("name", toolName))
		}

		return result, out, err
	}
}
