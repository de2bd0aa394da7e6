package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/fanclub-cms/matchdesk/app/observability/attr"
	"github.com/fanclub-cms/matchdesk/config"
)

const mirrorPublishTimeout = 5 * time.Second

// EventBus delivers domain events in-process over a watermill GoChannel. When a
// NATS URL is configured every published message is also mirrored into a
// JetStream stream under "<prefix>.<topic>".
type EventBus struct {
	pubsub        *gochannel.GoChannel
	natsConn      *nc.Conn
	js            jetstream.JetStream
	subjectPrefix string
	logger        *slog.Logger
}

var (
	_ message.Publisher  = (*EventBus)(nil)
	_ message.Subscriber = (*EventBus)(nil)
)

// NewEventBus creates the in-process bus and, if cfg.URL is set, connects the
// NATS mirror and makes sure its stream exists.
func NewEventBus(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*EventBus, error) {
	eb := &EventBus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewSlogLogger(logger),
		),
		subjectPrefix: cfg.SubjectPrefix,
		logger:        logger,
	}

	if cfg.URL == "" {
		logger.InfoContext(ctx, "NATS URL not configured, domain events stay in-process")
		return eb, nil
	}

	natsConn, err := nc.Connect(cfg.URL,
		nc.Name("matchdesk"),
		nc.RetryOnFailedConnect(true),
		nc.MaxReconnects(-1),
	)
	if err != nil {
		eb.pubsub.Close()
		logger.ErrorContext(ctx, "Failed to connect to NATS", attr.Error(err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		eb.pubsub.Close()
		logger.ErrorContext(ctx, "Failed to initialize JetStream", attr.Error(err))
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	if err := EnsureStream(ctx, js, cfg.SubjectPrefix, logger); err != nil {
		natsConn.Close()
		eb.pubsub.Close()
		return nil, err
	}

	eb.natsConn = natsConn
	eb.js = js
	return eb, nil
}

// Subject returns the NATS subject a topic is mirrored to.
func (eb *EventBus) Subject(topic string) string {
	if eb.subjectPrefix == "" {
		return topic
	}
	return eb.subjectPrefix + "." + topic
}

// Publish delivers messages to local subscribers first. Mirror failures are
// logged and do not fail the publish.
func (eb *EventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
	}

	if err := eb.pubsub.Publish(topic, messages...); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	if eb.js == nil {
		return nil
	}

	subject := eb.Subject(topic)
	for _, msg := range messages {
		if err := eb.mirror(subject, msg); err != nil {
			eb.logger.Warn("Failed to mirror message to NATS",
				attr.String("subject", subject),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
		}
	}
	return nil
}

func (eb *EventBus) mirror(subject string, msg *message.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorPublishTimeout)
	defer cancel()

	out := nc.NewMsg(subject)
	out.Data = msg.Payload
	for k, v := range msg.Metadata {
		out.Header.Set(k, v)
	}
	// JetStream drops duplicates that carry the same id within its window.
	out.Header.Set(nc.MsgIdHdr, msg.UUID)

	ack, err := eb.js.PublishMsg(ctx, out)
	if err != nil {
		return err
	}

	eb.logger.Debug("Message mirrored to NATS",
		attr.String("subject", subject),
		attr.String("stream", ack.Stream),
		attr.Any("sequence", ack.Sequence),
	)
	return nil
}

// Subscribe returns local deliveries for topic.
func (eb *EventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	messages, err := eb.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	return messages, nil
}

// Close closes the in-process bus and drains the NATS connection.
func (eb *EventBus) Close() error {
	var firstErr error
	if err := eb.pubsub.Close(); err != nil {
		eb.logger.Error("Error closing in-process pubsub", attr.Error(err))
		firstErr = err
	}
	if eb.natsConn != nil {
		if err := eb.natsConn.Drain(); err != nil {
			eb.logger.Error("Error draining NATS connection", attr.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
