// Package dispatchservice assembles the notification dispatch pipeline and
// runs it against an event consumer.
package dispatchservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/caseline/go-dispatch-service/dispatchservice/config"
	"github.com/caseline/go-dispatch-service/internal/event"
	"github.com/caseline/go-dispatch-service/internal/pipeline"
	"github.com/caseline/go-dispatch-service/pkg/notification"
)

// EventConsumer feeds raw message-created payloads to a handler. The handler
// returning nil acks the event; an error nacks it for redelivery.
type EventConsumer interface {
	Receive(ctx context.Context, handler func(ctx context.Context, payload []byte) error) error
}

// Service owns the consume loop and the processor behind it.
type Service struct {
	consumer  EventConsumer
	processor *pipeline.Processor
	logger    *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	runErr error
}

// New assembles the service. The sender is the dispatch client (or a mock in
// tests); the consumer may be nil when the service is used purely as a
// library via Notifier.
func New(cfg *config.Config, consumer EventConsumer, sender pipeline.Sender, logger *slog.Logger) (*Service, error) {
	if sender == nil {
		return nil, fmt.Errorf("dispatchservice: sender is required")
	}

	adapter := event.NewAdapter(cfg.BroadcastTopic)
	processor := pipeline.NewProcessor(adapter, sender, logger)

	return &Service{
		consumer:  consumer,
		processor: processor,
		logger:    logger,
	}, nil
}

// Notifier returns the single notify(event) entry point for in-process
// callers.
func (s *Service) Notifier() notification.Notifier {
	return s.processor
}

// Start begins consuming events. It returns immediately; the consume loop
// runs until the context is cancelled or Shutdown is called.
func (s *Service) Start(ctx context.Context) error {
	if s.consumer == nil {
		return fmt.Errorf("dispatchservice: no consumer configured")
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	s.logger.Info("Event consumer starting...")
	go func() {
		defer close(done)
		err := s.consumer.Receive(runCtx, s.processor.Process)
		if err != nil && runCtx.Err() == nil {
			s.logger.Error("Event consumer stopped unexpectedly", "err", err)
		}
		s.mu.Lock()
		s.runErr = err
		s.mu.Unlock()
	}()
	return nil
}

// Shutdown stops the consume loop and waits for in-flight handlers to finish.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	runErr := s.runErr
	s.mu.Unlock()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	s.logger.Info("Service shutdown complete.")
	return nil
}
