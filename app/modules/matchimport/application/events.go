package matchimportservice

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/fanclub-cms/matchdesk/app/observability/attr"
)

// publish emits a domain event after its transaction committed. Delivery
// failures are logged and never undo the committed work.
func (s *MatchImportService) publish(ctx context.Context, topic string, payload any) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal event payload", attr.String("topic", topic), attr.Error(err))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.SetContext(ctx)
	msg.Metadata.Set("topic", topic)
	if id := attr.CorrelationIDFromContext(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}

	if err := s.publisher.Publish(topic, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.Error(err),
		)
		return
	}
	s.logger.InfoContext(ctx, "publishing message",
		attr.ExtractCorrelationID(ctx),
		attr.String("topic", topic),
		attr.String("msg_uuid", msg.UUID),
	)
}
