package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/caseline/go-dispatch-service/pkg/notification"
)

const (
	defaultSendEndpoint = "https://fcm.googleapis.com"
	defaultIIDEndpoint  = "https://iid.googleapis.com"
)

// ClientConfig carries the environment-provided settings for the dispatcher.
type ClientConfig struct {
	// ProjectID is required unless the send endpoint is mock-flagged.
	ProjectID string
	// SendEndpoint is the base URL for the v1 send API. A value containing
	// MockEndpointMarker routes all delivery to the mock transport.
	SendEndpoint string
	// IIDEndpoint is the base URL for topic-subscription management.
	IIDEndpoint string
}

// Client is the FCM dispatcher. It resolves credentials and a bearer token
// per attempt, builds the wire payload, and performs one delivery attempt.
// Retry policy belongs to the caller.
type Client struct {
	projectID    string
	sendEndpoint string
	iidEndpoint  string
	credentials  *CredentialStore
	tokens       TokenSource
	httpClient   *http.Client
	mock         *MockTransport
	logger       *slog.Logger
}

func NewClient(cfg ClientConfig, credentials *CredentialStore, tokens TokenSource, logger *slog.Logger) *Client {
	c := &Client{
		projectID:    cfg.ProjectID,
		sendEndpoint: cfg.SendEndpoint,
		iidEndpoint:  cfg.IIDEndpoint,
		credentials:  credentials,
		tokens:       tokens,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		logger:       logger.With("component", "FCMClient"),
	}
	if c.sendEndpoint == "" {
		c.sendEndpoint = defaultSendEndpoint
	}
	if c.iidEndpoint == "" {
		c.iidEndpoint = defaultIIDEndpoint
	}
	// The mock bypass is decided once, at construction. Everything else in
	// Send is unreachable when it is active, so a mock environment never
	// needs real secrets.
	if IsMockEndpoint(c.sendEndpoint) {
		c.mock = NewMockTransport(logger)
	}
	return c
}

// Mock exposes the mock transport when the endpoint is mock-flagged; nil
// otherwise.
func (c *Client) Mock() *MockTransport { return c.mock }

// Send delivers one notification. The terminal state is always logged with
// the target and outcome; payload contents never reach production logs.
func (c *Client) Send(ctx context.Context, req notification.Request) notification.Outcome {
	if c.mock != nil {
		return c.mock.Deliver(req)
	}

	if c.projectID == "" {
		return c.fail(req, &ConfigError{Missing: "project id"})
	}

	account, err := c.credentials.Load()
	if err != nil {
		return c.fail(req, err)
	}
	token, err := c.tokens.Token(ctx, account)
	if err != nil {
		return c.fail(req, err)
	}
	msg, err := BuildMessage(req)
	if err != nil {
		return c.fail(req, err)
	}

	body, err := json.Marshal(sendRequest{Message: msg})
	if err != nil {
		return c.fail(req, err)
	}

	url := fmt.Sprintf("%s/v1/projects/%s/messages:send", strings.TrimSuffix(c.sendEndpoint, "/"), c.projectID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return c.fail(req, &DeliveryError{Err: err})
	}
	httpReq.Header.Set("Authorization", "Bearer "+token.Value)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.fail(req, &DeliveryError{Err: err})
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.fail(req, &DeliveryError{Status: resp.StatusCode, Body: string(respBody)})
	}

	c.logger.Info("notification delivered", "target", req.Target.String(), "status", resp.StatusCode)
	return notification.Delivered()
}

// SubscribeToTopic associates a device token with a topic via the provider's
// instance-ID batch endpoint. Returns true only on a 2xx response.
func (c *Client) SubscribeToTopic(ctx context.Context, deviceToken, topic string) bool {
	if c.mock != nil {
		return c.mock.Subscribe(deviceToken, topic)
	}

	account, err := c.credentials.Load()
	if err != nil {
		c.logger.Error("subscription aborted", "topic", topic, "err", err)
		return false
	}
	token, err := c.tokens.Token(ctx, account)
	if err != nil {
		c.logger.Error("subscription aborted", "topic", topic, "err", err)
		return false
	}

	payload, err := json.Marshal(map[string]any{
		"to":                  "/topics/" + strings.TrimPrefix(topic, "/topics/"),
		"registration_tokens": []string{deviceToken},
	})
	if err != nil {
		c.logger.Error("subscription aborted", "topic", topic, "err", err)
		return false
	}

	url := strings.TrimSuffix(c.iidEndpoint, "/") + "/iid/v1:batchAdd"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		c.logger.Error("subscription aborted", "topic", topic, "err", err)
		return false
	}
	httpReq.Header.Set("Authorization", "Bearer "+token.Value)
	httpReq.Header.Set("Content-Type", "application/json")
	// The IID endpoint requires this header when authenticating with an
	// OAuth2 access token instead of a legacy server key.
	httpReq.Header.Set("access_token_auth", "true")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("subscription failed", "topic", topic, "err", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		c.logger.Error("subscription rejected", "topic", topic, "status", resp.StatusCode, "body", string(respBody))
		return false
	}

	c.logger.Info("subscribed to topic", "topic", topic)
	return true
}

func (c *Client) fail(req notification.Request, err error) notification.Outcome {
	c.logger.Error("notification failed", "target", req.Target.String(), "err", err)
	return notification.Failed(err)
}
