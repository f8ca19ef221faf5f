package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger at debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}
	if event.Endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", event.Endpoint))
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("size", event.Frame.Size),
			slog.String("line", string(event.Frame.Data)),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	case event.Request != nil:
		attrs = append(attrs,
			slog.String("kind", event.Request.Kind),
			slog.String("line", event.Request.Line),
		)
		if event.Request.Key != "" {
			attrs = append(attrs, slog.String("key", event.Request.Key))
		}
	case event.Response != nil:
		attrs = append(attrs,
			slog.String("subsystem", event.Response.Subsystem),
			slog.Int("values", event.Response.Values),
		)
		if event.Response.Unknown > 0 {
			attrs = append(attrs, slog.Int("unknown", event.Response.Unknown))
		}
		if event.Response.Restarted {
			attrs = append(attrs, slog.Bool("restarted", true))
		}
		if event.Response.Latency != nil {
			attrs = append(attrs, slog.Duration("latency", *event.Response.Latency))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
