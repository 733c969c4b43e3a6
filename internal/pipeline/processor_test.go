package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/caseline/go-dispatch-service/internal/event"
	"github.com/caseline/go-dispatch-service/internal/fcm"
	"github.com/caseline/go-dispatch-service/internal/pipeline"
	"github.com/caseline/go-dispatch-service/pkg/notification"
)

// --- Mocks ---

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, req notification.Request) notification.Outcome {
	args := m.Called(ctx, req)
	return args.Get(0).(notification.Outcome)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProcessor(sender pipeline.Sender) *pipeline.Processor {
	return pipeline.NewProcessor(event.NewAdapter(""), sender, newTestLogger())
}

// --- Tests ---

func TestProcessor_Notify(t *testing.T) {
	ctx := context.Background()
	ev := notification.MessageCreated{
		MessageID: "41",
		Type:      notification.MessageTypeText,
		Content:   "hello",
		CaseName:  "Smith",
	}

	t.Run("Applies policy and returns the dispatch outcome", func(t *testing.T) {
		sender := new(MockSender)
		proc := newProcessor(sender)

		sender.On("Send", ctx, mock.MatchedBy(func(req notification.Request) bool {
			return req.Title == "New Message in Case: Smith" && req.Data["message_id"] == "41"
		})).Return(notification.Delivered())

		outcome := proc.Notify(ctx, ev)

		assert.True(t, outcome.OK())
		sender.AssertExpectations(t)
	})
}

func TestProcessor_Process(t *testing.T) {
	ctx := context.Background()
	validPayload := []byte(`{"message_id":"41","type":"text","content":"hello","case_name":"Smith"}`)

	t.Run("Ack on success", func(t *testing.T) {
		sender := new(MockSender)
		proc := newProcessor(sender)
		sender.On("Send", ctx, mock.Anything).Return(notification.Delivered())

		require.NoError(t, proc.Process(ctx, validPayload))
	})

	t.Run("Ack on undecodable payload without dispatching", func(t *testing.T) {
		sender := new(MockSender)
		proc := newProcessor(sender)

		require.NoError(t, proc.Process(ctx, []byte("poison")))
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Nack on retryable delivery failure", func(t *testing.T) {
		sender := new(MockSender)
		proc := newProcessor(sender)
		sender.On("Send", ctx, mock.Anything).Return(
			notification.Failed(&fcm.DeliveryError{Status: http.StatusServiceUnavailable, Body: "try later"}),
		)

		err := proc.Process(ctx, validPayload)

		require.Error(t, err)
		var delErr *fcm.DeliveryError
		assert.ErrorAs(t, err, &delErr)
	})

	t.Run("Ack on permanent configuration failure", func(t *testing.T) {
		sender := new(MockSender)
		proc := newProcessor(sender)
		sender.On("Send", ctx, mock.Anything).Return(
			notification.Failed(&fcm.ConfigError{Missing: "project id"}),
		)

		// Redelivering cannot conjure up a project id; the event is dropped.
		require.NoError(t, proc.Process(ctx, validPayload))
	})
}
