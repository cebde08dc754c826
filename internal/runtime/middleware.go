package runtime

import (
	"github.com/ThreeDotsLabs/watermill/message"

	loggingpkg "github.com/sigwire/sigwire/internal/runtime/logging"
)

// logMessagesMiddleware logs every inbound transport message at trace level
// before it reaches the dispatcher.
func logMessagesMiddleware(logger loggingpkg.ServiceLogger) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			logger.Trace("inbound transport message", loggingpkg.LogFields{
				"message_uuid": msg.UUID,
				"payload_size": len(msg.Payload),
			})
			return h(msg)
		}
	}
}
