// Package chain layers two session blob stores: writes land in the primary
// when it works, reads fall through to the fallback.
package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/acs/internal/adapters/secrets/file"
	passstore "github.com/bnema/acs/internal/adapters/secrets/pass"
	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/ports"
)

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
)

type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

func NewStoreChecked(primary ports.SecretStore, fallback ports.SecretStore) (*Store, error) {
	switch {
	case primary == nil:
		return nil, errNilPrimaryStore
	case fallback == nil:
		return nil, errNilFallbackStore
	}
	return &Store{primary: primary, fallback: fallback}, nil
}

// NewPassWithFileFallback keeps blobs in pass and under fileRoot when pass
// is missing or broken.
func NewPassWithFileFallback(passDir string, fileRoot string) (*Store, error) {
	return NewStoreChecked(passstore.NewStore(passDir), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	primaryErr := s.primary.Put(ctx, key, value)
	if primaryErr == nil || isContextError(primaryErr) {
		return primaryErr
	}

	if err := s.fallback.Put(ctx, key, value); err != nil {
		return fmt.Errorf("put %q: primary: %w; fallback: %w", key, primaryErr, err)
	}
	return nil
}

// Get prefers the primary. A blob found only in the fallback while the
// primary is healthy is copied into the primary.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, primaryErr := s.primary.Get(ctx, key)
	if primaryErr == nil || isContextError(primaryErr) {
		return value, primaryErr
	}

	value, err := s.fallback.Get(ctx, key)
	if err != nil {
		if errors.Is(primaryErr, domain.ErrSecretNotFound) && errors.Is(err, domain.ErrSecretNotFound) {
			return "", fmt.Errorf("get %q: %w", key, domain.ErrSecretNotFound)
		}
		return "", fmt.Errorf("get %q: primary: %w; fallback: %w", key, primaryErr, err)
	}

	if errors.Is(primaryErr, domain.ErrSecretNotFound) {
		if err := s.primary.Put(ctx, key, value); err == nil {
			_ = s.fallback.Delete(ctx, key)
		}
	}
	return value, nil
}

// Delete clears key from both stores. A key absent from a store counts as
// deleted there.
func (s *Store) Delete(ctx context.Context, key string) error {
	primaryErr := ignoreNotFound(s.primary.Delete(ctx, key))
	if isContextError(primaryErr) {
		return primaryErr
	}
	fallbackErr := ignoreNotFound(s.fallback.Delete(ctx, key))

	switch {
	case primaryErr == nil && fallbackErr == nil:
		return nil
	case primaryErr == nil:
		return fmt.Errorf("delete %q: fallback: %w", key, fallbackErr)
	case fallbackErr == nil:
		return fmt.Errorf("delete %q: primary: %w", key, primaryErr)
	default:
		return fmt.Errorf("delete %q: primary: %w; fallback: %w", key, primaryErr, fallbackErr)
	}
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrSecretNotFound) {
		return nil
	}
	return err
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
