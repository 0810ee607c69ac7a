package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid hosting credentials")
	ErrNoSuchGuild         = errors.New("chat has no linked accounts")
	ErrNoDefaultConfigured = errors.New("no default server configured")
	ErrNoMatchingServer    = errors.New("no matching server found")
	ErrSessionExpired      = errors.New("hosting session expired")
	ErrSessionNotFound     = errors.New("hosting session not found")
	ErrTransport           = errors.New("transport error")
	ErrStoreUnavailable    = errors.New("config store unavailable")
	ErrMalformedResponse   = errors.New("malformed response")
	ErrSecretNotFound      = errors.New("secret not found")
	ErrNotLinked           = errors.New("user is not linked to this chat")
	ErrInvalidIdentifier   = errors.New("invalid server identifier")
)

// ProviderError carries the hosting provider's own failure message.
type ProviderError struct {
	Detail string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Detail == "" {
		return "provider error"
	}
	return fmt.Sprintf("provider error: %s", e.Detail)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(detail string, err error) *ProviderError {
	return &ProviderError{Detail: detail, Err: err}
}
