package logging

import (
	"log"
	"log/slog"
	"os"
	"strings"
)

// Setup configures the standard library logger to emit structured JSON and
// returns the underlying slog.Logger. Every line carries the polity name and
// environment so multiple polities logging to the same collector can be told
// apart. Recalculation ticks are frequent and chatty outside production, so
// a non-production environment is logged at Debug; production stays at Info
// to keep a busy polity's tick-by-tick noise out of the default stream.
func Setup(polity, env string) *slog.Logger {
	level := slog.LevelDebug
	if strings.EqualFold(strings.TrimSpace(env), "production") {
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				return slog.Attr{Key: "timestamp", Value: attr.Value}
			}
			if attr.Key == slog.LevelKey {
				return slog.String("severity", strings.ToUpper(attr.Value.String()))
			}
			if attr.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	})

	attrs := polityAttrs(polity, env)
	withArgs := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		withArgs = append(withArgs, attr)
	}

	base := slog.New(handler).With(withArgs...)
	slog.SetDefault(base)

	// Bridge the standard library logger so third-party packages that log
	// through it still land in the same structured stream.
	stdBridge := slog.NewLogLogger(handler.WithAttrs(attrs), slog.LevelInfo)
	stdBridge.SetFlags(0)
	log.SetOutput(stdBridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	base.Info("logger initialized", slog.String("level", level.String()))

	return base
}

func polityAttrs(polity, env string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("polity", strings.TrimSpace(polity)),
	}
	if env = strings.TrimSpace(env); env != "" {
		attrs = append(attrs, slog.String("env", env))
	}
	return attrs
}

// WithCorrelation returns a child logger tagging every line with a
// submission's correlation id, so a single Submit call's validation,
// application, and any cascade log lines it triggers can be grepped as one
// unit.
func WithCorrelation(logger *slog.Logger, correlationID string) *slog.Logger {
	return logger.With(slog.String("correlation_id", correlationID))
}
