// Package event translates inbound domain events into notification requests.
package event

import (
	"github.com/caseline/go-dispatch-service/pkg/notification"
)

// DefaultBroadcastTopic is the single-tenant broadcast channel every
// message-created notification currently goes to. Per-case targeting is a
// known limitation of the deployment, not something this adapter should
// quietly change.
const DefaultBroadcastTopic = "teachers"

const (
	titlePrefix  = "New Message in Case: "
	audioBody    = "Audio message received."
	maxBodyRunes = 50
)

// Adapter builds notification requests from message-created events.
type Adapter struct {
	topic string
}

func NewAdapter(topic string) *Adapter {
	if topic == "" {
		topic = DefaultBroadcastTopic
	}
	return &Adapter{topic: topic}
}

// FromMessageCreated applies the notification policy: broadcast topic, case
// name in the title, and either the audio placeholder or a plain 50-character
// prefix of the text content as the body.
func (a *Adapter) FromMessageCreated(msg notification.MessageCreated) notification.Request {
	body := audioBody
	if msg.Type != notification.MessageTypeAudio {
		body = truncate(msg.Content, maxBodyRunes)
	}

	return notification.Request{
		Target: notification.Topic(a.topic),
		Title:  titlePrefix + msg.CaseName,
		Body:   body,
		Data: map[string]string{
			"message_id": msg.MessageID,
		},
	}
}

// truncate cuts at a rune boundary, no ellipsis, no word-boundary adjustment.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
