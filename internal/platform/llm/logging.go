package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/lingua-bot/internal/redact"
)

// maxLoggedContent bounds how much raw model output is written to logs.
const maxLoggedContent = 2048

// LoggingProvider records every request as a structured log line.
type LoggingProvider struct {
	inner  Provider
	logger *slog.Logger
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{
		inner:  p,
		logger: logger.With(slog.String("component", "llm")),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	attrs := []any{
		slog.String("model", l.inner.ModelID()),
		slog.String("purpose", PurposeFrom(ctx)),
		slog.Int64("latency_ms", time.Since(start).Milliseconds()),
	}
	if req.Schema != nil {
		attrs = append(attrs, slog.String("schema", req.Schema.Name))
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", redact.Error(err)))
		var inv *ErrInvalidResponse
		if errors.As(err, &inv) && len(inv.Content) > 0 {
			attrs = append(attrs, slog.String("raw_response", redact.Payload(inv.Content, maxLoggedContent)))
		}
		l.logger.WarnContext(ctx, "LLM request failed", attrs...)
		return nil, err
	}

	attrs = append(attrs,
		slog.Int("input_tokens", resp.Usage.InputTokens),
		slog.Int("output_tokens", resp.Usage.OutputTokens),
		slog.String("stop_reason", resp.StopReason),
	)
	l.logger.DebugContext(ctx, "LLM request completed", attrs...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
