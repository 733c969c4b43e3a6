package fcm

import (
	"errors"
	"strings"

	"github.com/caseline/go-dispatch-service/pkg/notification"
)

// ErrNoTarget is returned when a request carries an unset target.
var ErrNoTarget = errors.New("notification request has no target")

// Notification is the visible part of the wire payload.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Message is the FCM HTTP v1 message body. Exactly one of Topic or Token is
// populated, derived from the request's target variant.
type Message struct {
	Notification Notification      `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
	Topic        string            `json:"topic,omitempty"`
	Token        string            `json:"token,omitempty"`
}

type sendRequest struct {
	Message Message `json:"message"`
}

// BuildMessage translates a request into the provider wire format. Pure and
// deterministic; no I/O.
func BuildMessage(req notification.Request) (Message, error) {
	msg := Message{
		Notification: Notification{Title: req.Title, Body: req.Body},
		Data:         req.Data,
	}

	switch req.Target.Kind() {
	case notification.TargetTopic:
		name, _ := req.Target.Topic()
		// The wire field takes the bare name, not the /topics/ path form some
		// callers carry around.
		msg.Topic = strings.TrimPrefix(name, "/topics/")
	case notification.TargetDeviceToken:
		token, _ := req.Target.DeviceToken()
		msg.Token = token
	default:
		return Message{}, ErrNoTarget
	}

	return msg, nil
}
