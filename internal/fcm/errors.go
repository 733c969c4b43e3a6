package fcm

import (
	"errors"
	"fmt"
)

// ConfigError means the dispatch attempt cannot proceed because a required
// setting is absent. Never retryable.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Missing)
}

// CredentialError kinds.
const (
	CredentialNotFound   = "not_found"
	CredentialUnreadable = "unreadable"
	CredentialMalformed  = "malformed"
	CredentialBadKey     = "bad_key"
)

// CredentialError means the service-account credential could not be loaded or
// is unusable. Path and Kind are diagnostic; key material is never included.
type CredentialError struct {
	Kind string
	Path string
	Err  error
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credentials %s (%s): %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("credentials %s (%s)", e.Kind, e.Path)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// AuthError kinds.
const (
	AuthSigning       = "signing"
	AuthNetwork       = "network"
	AuthTokenEndpoint = "token_endpoint"
)

// AuthError means the access-token exchange failed. Status and Detail carry
// the token endpoint's response when one was received.
type AuthError struct {
	Kind   string
	Status int
	Detail string
	Err    error
}

func (e *AuthError) Error() string {
	switch e.Kind {
	case AuthTokenEndpoint:
		return fmt.Sprintf("token endpoint returned %d: %s", e.Status, e.Detail)
	default:
		return fmt.Sprintf("token acquisition %s: %v", e.Kind, e.Err)
	}
}

func (e *AuthError) Unwrap() error { return e.Err }

// DeliveryError means the provider's send or subscribe endpoint rejected the
// request, or the request never reached it. Body holds the response text for
// diagnostics; Status is zero on transport failure.
type DeliveryError struct {
	Status int
	Body   string
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delivery failed: %v", e.Err)
	}
	return fmt.Sprintf("delivery rejected with status %d: %s", e.Status, e.Body)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// IsRetryable reports whether a later attempt for the same event could
// plausibly succeed. Configuration and credential problems are permanent:
// redelivering the event cannot fix a missing project id or a broken key.
func IsRetryable(err error) bool {
	var cfgErr *ConfigError
	var credErr *CredentialError
	if errors.As(err, &cfgErr) || errors.As(err, &credErr) {
		return false
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind != AuthSigning
	}
	var delErr *DeliveryError
	if errors.As(err, &delErr) {
		return true
	}
	return false
}
