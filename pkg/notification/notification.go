// Package notification contains the public interfaces and domain models for the
// dispatch service.
package notification

import "context"

// MessageType distinguishes the content kinds a case thread can carry.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeAudio MessageType = "audio"
)

// MessageCreated is the inbound event contract: a new message was posted to a
// case thread. The CRUD layer that writes the message publishes this event;
// the dispatch service only consumes it.
type MessageCreated struct {
	MessageID string      `json:"message_id"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	CaseName  string      `json:"case_name"`
}

// Request describes one notification to deliver. It is built per dispatch
// call and never mutated afterwards.
type Request struct {
	Target Target
	Title  string
	Body   string
	Data   map[string]string
}

// Notifier is the single entry point the event source calls into.
type Notifier interface {
	Notify(ctx context.Context, event MessageCreated) Outcome
}

// Subscriber manages provider-side topic membership for a device. Used by
// device-registration flows, not by the notification path.
type Subscriber interface {
	SubscribeToTopic(ctx context.Context, deviceToken, topic string) bool
}
