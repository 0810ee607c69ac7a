package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/logging"
	"github.com/bnema/acs/internal/ports"
)

const (
	sessionKeyPrefix       = "acs/sessions/"
	defaultProviderTimeout = 30 * time.Second
)

// Session is a live hosting session bound to the chat user that owns it.
type Session struct {
	Owner domain.UserID
	ports.HostingSession
}

type SessionManager struct {
	provider ports.HostingProvider
	secrets  ports.SecretStore
	registry *Registry
	timeout  time.Duration
	logger   *slog.Logger
}

func NewSessionManager(provider ports.HostingProvider, secrets ports.SecretStore, registry *Registry, timeout time.Duration, logger *slog.Logger) *SessionManager {
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}

	return &SessionManager{
		provider: provider,
		secrets:  secrets,
		registry: registry,
		timeout:  timeout,
		logger:   logging.OrDiscard(logger),
	}
}

// SessionKey is the secret store key holding username's session blob.
func SessionKey(username string) string {
	return sessionKeyPrefix + url.PathEscape(username)
}

// Login authenticates, persists the session blob under username and records
// the owner's account name together with a fresh server cache.
func (m *SessionManager) Login(ctx context.Context, owner domain.UserID, username, password string) (*Session, []domain.Server, error) {
	hosting, err := m.authenticate(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}
	session := &Session{Owner: owner, HostingSession: hosting}

	blob, err := hosting.Persist()
	if err != nil {
		return nil, nil, fmt.Errorf("persist session: %w", err)
	}
	if err := m.secrets.Put(ctx, SessionKey(username), blob); err != nil {
		return nil, nil, fmt.Errorf("store session: %w", err)
	}

	servers, err := m.listLive(ctx, session)
	if err != nil {
		return nil, nil, err
	}

	if err := m.registry.RecordUser(ctx, owner, domain.UserUpdate{
		Username: domain.Some(username),
		Servers:  domain.Some(domain.CacheIdentifiers(servers)),
	}); err != nil {
		return nil, nil, err
	}

	m.logger.Info("hosting login succeeded", "user", owner, "username", username, "servers", len(servers))
	return session, servers, nil
}

// Restore loads the persisted blob for username.
func (m *SessionManager) Restore(ctx context.Context, owner domain.UserID, username string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if username == "" {
		return nil, domain.ErrSessionNotFound
	}

	blob, err := m.secrets.Get(ctx, SessionKey(username))
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return nil, fmt.Errorf("%w: no stored session for %q", domain.ErrSessionNotFound, username)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	hosting, err := m.provider.Restore(callCtx, username, blob)
	if err != nil {
		return nil, mapDeadline(ctx, callCtx, err)
	}
	return &Session{Owner: owner, HostingSession: hosting}, nil
}

// ListServers fetches the live server list and refreshes the owner's cache
// when the owner is still recorded. Only Login creates user entries.
func (m *SessionManager) ListServers(ctx context.Context, session *Session) ([]domain.Server, error) {
	servers, err := m.listLive(ctx, session)
	if err != nil {
		return nil, err
	}

	refreshed, err := m.registry.RefreshServers(ctx, session.Owner, domain.CacheIdentifiers(servers))
	if err != nil {
		return nil, err
	}
	if !refreshed {
		m.logger.Debug("owner no longer recorded, server cache not refreshed", "user", session.Owner)
	}

	return servers, nil
}

// Forget deletes the stored blob for username. A missing blob is not an error.
func (m *SessionManager) Forget(ctx context.Context, username string) error {
	if username == "" {
		return nil
	}
	if err := m.secrets.Delete(ctx, SessionKey(username)); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (m *SessionManager) listLive(ctx context.Context, session *Session) ([]domain.Server, error) {
	if session == nil || session.HostingSession == nil {
		return nil, domain.ErrSessionNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	servers, err := session.ListServers(callCtx)
	if err != nil {
		return nil, mapDeadline(ctx, callCtx, err)
	}
	return servers, nil
}

func (m *SessionManager) authenticate(ctx context.Context, username, password string) (ports.HostingSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	hosting, err := m.provider.Authenticate(callCtx, username, password)
	if err != nil {
		return nil, mapDeadline(ctx, callCtx, err)
	}
	return hosting, nil
}

// mapDeadline turns an expired per-call timeout into ErrTransport while
// leaving cancellation of the caller's own context untouched.
func mapDeadline(parent, call context.Context, err error) error {
	if parent.Err() == nil && errors.Is(call.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrTransport) {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	return err
}
