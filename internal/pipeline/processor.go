// Package pipeline contains the core event processing components for the
// service.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/caseline/go-dispatch-service/internal/event"
	"github.com/caseline/go-dispatch-service/internal/fcm"
	"github.com/caseline/go-dispatch-service/pkg/notification"
)

// Sender is the delivery seam the processor dispatches through.
type Sender interface {
	Send(ctx context.Context, req notification.Request) notification.Outcome
}

// Processor connects the event stream to the dispatcher: decode the event,
// apply the notification policy, deliver once.
type Processor struct {
	adapter *event.Adapter
	sender  Sender
	logger  *slog.Logger
}

func NewProcessor(adapter *event.Adapter, sender Sender, logger *slog.Logger) *Processor {
	return &Processor{
		adapter: adapter,
		sender:  sender,
		logger:  logger.With("component", "Processor"),
	}
}

// Notify is the single entry point for an already-decoded domain event.
func (p *Processor) Notify(ctx context.Context, ev notification.MessageCreated) notification.Outcome {
	procLogger := p.logger.With("message_id", ev.MessageID)

	req := p.adapter.FromMessageCreated(ev)
	outcome := p.sender.Send(ctx, req)

	switch outcome.Status {
	case notification.StatusDelivered:
		procLogger.Info("notification dispatched", "target", req.Target.String())
	case notification.StatusMockDelivered:
		procLogger.Info("notification mock-dispatched", "target", req.Target.String(), "receipt", outcome.Receipt)
	case notification.StatusFailed:
		procLogger.Error("notification dispatch failed", "target", req.Target.String(), "err", outcome.Err)
	}
	return outcome
}

// Process handles a raw event payload from the consumer. A nil return acks
// the message; an error nacks it for redelivery. Permanent failures
// (malformed payloads, configuration or credential problems) are logged and
// acked so they cannot poison the subscription.
func (p *Processor) Process(ctx context.Context, payload []byte) error {
	ev, skip, err := event.DecodeMessageCreated(payload)
	if err != nil {
		if skip {
			p.logger.Warn("dropping undecodable event", "err", err)
			return nil
		}
		return err
	}

	outcome := p.Notify(ctx, *ev)
	if outcome.Status == notification.StatusFailed && fcm.IsRetryable(outcome.Err) {
		return outcome.Err
	}
	return nil
}
