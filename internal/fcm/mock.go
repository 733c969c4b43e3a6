package fcm

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/caseline/go-dispatch-service/pkg/notification"
)

// MockEndpointMarker designates a configured send endpoint as non-production.
// Its presence anywhere in the endpoint string routes delivery to the mock
// transport.
const MockEndpointMarker = "mock"

// IsMockEndpoint reports whether the endpoint is flagged for the mock bypass.
func IsMockEndpoint(endpoint string) bool {
	return endpoint != "" && strings.Contains(endpoint, MockEndpointMarker)
}

// MockTransport substitutes for the real delivery path in non-production
// environments. It records would-be payloads, needs no credentials or project
// configuration, and performs zero network calls. Content logging is allowed
// here and only here.
type MockTransport struct {
	logger *slog.Logger

	mu            sync.Mutex
	delivered     []notification.Request
	subscriptions []MockSubscription
}

// MockSubscription records one would-be topic subscription.
type MockSubscription struct {
	DeviceToken string
	Topic       string
}

func NewMockTransport(logger *slog.Logger) *MockTransport {
	return &MockTransport{logger: logger.With("component", "MockTransport")}
}

// Deliver records the request and returns MockDelivered with a receipt.
func (m *MockTransport) Deliver(req notification.Request) notification.Outcome {
	m.mu.Lock()
	m.delivered = append(m.delivered, req)
	m.mu.Unlock()

	receipt := uuid.NewString()
	m.logger.Info("mock delivery",
		"target", req.Target.String(),
		"title", req.Title,
		"body", req.Body,
		"data", req.Data,
		"receipt", receipt,
	)
	return notification.MockDelivered(receipt)
}

// Subscribe records the would-be topic subscription.
func (m *MockTransport) Subscribe(deviceToken, topic string) bool {
	m.mu.Lock()
	m.subscriptions = append(m.subscriptions, MockSubscription{DeviceToken: deviceToken, Topic: topic})
	m.mu.Unlock()

	m.logger.Info("mock subscription", "token", deviceToken, "topic", topic)
	return true
}

// Delivered returns a copy of the recorded requests.
func (m *MockTransport) Delivered() []notification.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notification.Request, len(m.delivered))
	copy(out, m.delivered)
	return out
}

// Subscriptions returns a copy of the recorded subscriptions.
func (m *MockTransport) Subscriptions() []MockSubscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockSubscription, len(m.subscriptions))
	copy(out, m.subscriptions)
	return out
}
