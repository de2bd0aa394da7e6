package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/fanclub-cms/matchdesk/app/observability/attr"
)

// StreamName derives the JetStream stream name for a subject prefix.
func StreamName(prefix string) string {
	if prefix == "" {
		return "EVENTS"
	}
	name := strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '/', '\\':
			return '_'
		}
		return r
	}, prefix)
	return strings.ToUpper(name)
}

// EnsureStream creates or updates the stream capturing every mirrored subject.
func EnsureStream(ctx context.Context, js jetstream.JetStream, prefix string, logger *slog.Logger) error {
	subject := ">"
	if prefix != "" {
		subject = prefix + ".>"
	}
	cfg := jetstream.StreamConfig{
		Name:      StreamName(prefix),
		Subjects:  []string{subject},
		Retention: jetstream.LimitsPolicy,
		Storage:   jetstream.FileStorage,
	}

	stream, err := js.CreateOrUpdateStream(ctx, cfg)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create JetStream stream",
			attr.String("stream", cfg.Name),
			attr.Error(err),
		)
		return fmt.Errorf("failed to ensure stream %s: %w", cfg.Name, err)
	}

	logger.InfoContext(ctx, "JetStream stream ready",
		attr.String("stream", stream.CachedInfo().Config.Name),
		attr.String("subject", subject),
	)
	return nil
}
