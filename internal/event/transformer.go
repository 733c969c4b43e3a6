package event

import (
	"encoding/json"
	"fmt"

	"github.com/caseline/go-dispatch-service/pkg/notification"
)

// DecodeMessageCreated unmarshals a raw event payload into a MessageCreated
// event.
//
// The boolean reports whether the payload should be skipped: a payload that
// cannot decode or lacks a message id will never decode on redelivery, so the
// consumer should ack it away rather than let it poison the subscription.
func DecodeMessageCreated(payload []byte) (*notification.MessageCreated, bool, error) {
	var msg notification.MessageCreated
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, true, fmt.Errorf("failed to unmarshal message-created event: %w", err)
	}
	if msg.MessageID == "" {
		return nil, true, fmt.Errorf("message-created event is missing message_id")
	}
	return &msg, false, nil
}
