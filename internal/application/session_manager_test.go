package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/ports"
	"github.com/bnema/acs/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKeyEscapesUsername(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "acs/sessions/alice", SessionKey("alice"))
	assert.Equal(t, "acs/sessions/a%2Fb", SessionKey("a/b"))
}

func TestSessionManagerLoginPersistsBlobAndRefreshesCache(t *testing.T) {
	t.Parallel()

	panel := newFakeHosting()
	panel.addAccount("alice", "hunter2", domain.Server{ID: "s1", Address: "craft.example.com", Domain: "alice.aternos.me"})

	registry, _ := newTestRegistry(t)
	secrets := newTestSecrets(t)
	manager := NewSessionManager(panel, secrets, registry, time.Second, nil)
	ctx := context.Background()

	session, servers, err := manager.Login(ctx, "u1", "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), session.Owner)
	assert.Equal(t, "alice", session.Username())
	require.Len(t, servers, 1)

	blob, err := secrets.Get(ctx, SessionKey("alice"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"alice"}`, blob)

	entry, ok, err := registry.User(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", entry.Username)
	assert.Equal(t, []domain.ServerIdentifier{"craft.example.com", "alice.aternos.me"}, entry.Servers)
}

func TestSessionManagerLoginInvalidCredentialsStoresNothing(t *testing.T) {
	t.Parallel()

	panel := newFakeHosting()
	panel.addAccount("alice", "hunter2")

	registry, _ := newTestRegistry(t)
	secrets := newTestSecrets(t)
	manager := NewSessionManager(panel, secrets, registry, time.Second, nil)
	ctx := context.Background()

	_, _, err := manager.Login(ctx, "u1", "alice", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = secrets.Get(ctx, SessionKey("alice"))
	require.ErrorIs(t, err, domain.ErrSecretNotFound)

	_, ok, err := registry.User(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionManagerRestore(t *testing.T) {
	t.Parallel()

	panel := newFakeHosting()
	panel.addAccount("alice", "hunter2")

	registry, _ := newTestRegistry(t)
	secrets := newTestSecrets(t)
	manager := NewSessionManager(panel, secrets, registry, time.Second, nil)
	ctx := context.Background()

	_, err := manager.Restore(ctx, "u1", "alice")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = manager.Restore(ctx, "u1", "")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, secrets.Put(ctx, SessionKey("alice"), `{"username":"mallory"}`))
	_, err = manager.Restore(ctx, "u1", "alice")
	require.ErrorIs(t, err, domain.ErrSessionExpired)

	require.NoError(t, secrets.Put(ctx, SessionKey("alice"), `{"username":"alice"}`))
	session, err := manager.Restore(ctx, "u1", "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), session.Owner)
}

func TestSessionManagerListServersRefreshesCacheAndSurfacesExpiry(t *testing.T) {
	t.Parallel()

	panel := newFakeHosting()
	panel.addAccount("alice", "hunter2", domain.Server{ID: "s1", Address: "craft.example.com"})

	registry, _ := newTestRegistry(t)
	manager := NewSessionManager(panel, newTestSecrets(t), registry, time.Second, nil)
	ctx := context.Background()

	session, _, err := manager.Login(ctx, "u1", "alice", "hunter2")
	require.NoError(t, err)

	panel.addAccount("alice", "hunter2", domain.Server{ID: "s2", Address: "new.example.com"})
	servers, err := manager.ListServers(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "new.example.com", servers[0].Address)

	entry, _, err := registry.User(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []domain.ServerIdentifier{"new.example.com"}, entry.Servers)

	panel.mu.Lock()
	panel.revoked["alice"] = true
	panel.mu.Unlock()

	_, err = manager.ListServers(ctx, session)
	require.ErrorIs(t, err, domain.ErrSessionExpired)

	entry, _, err = registry.User(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []domain.ServerIdentifier{"new.example.com"}, entry.Servers)
}

func TestSessionManagerListServersAfterUnlinkKeepsUserPruned(t *testing.T) {
	t.Parallel()

	panel := newFakeHosting()
	panel.addAccount("alice", "hunter2", domain.Server{ID: "s1", Address: "craft.example.com"})

	registry, _ := newTestRegistry(t)
	manager := NewSessionManager(panel, newTestSecrets(t), registry, time.Second, nil)
	ctx := context.Background()

	session, _, err := manager.Login(ctx, "u1", "alice", "hunter2")
	require.NoError(t, err)
	require.NoError(t, registry.Link(ctx, "g1", "u1"))

	_, orphaned, err := registry.Unlink(ctx, "g1", "u1")
	require.NoError(t, err)
	require.True(t, orphaned)

	servers, err := manager.ListServers(ctx, session)
	require.NoError(t, err)
	assert.Len(t, servers, 1)

	_, ok, err := registry.User(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	cfg, err := registry.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, cfg.Users)
}

func TestSessionManagerProviderTimeoutMapsToTransport(t *testing.T) {
	t.Parallel()

	provider := mocks.NewMockHostingProvider(t)
	provider.EXPECT().Authenticate(mockAnyContext(), "alice", "hunter2").
		RunAndReturn(func(ctx context.Context, _ string, _ string) (ports.HostingSession, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	registry, _ := newTestRegistry(t)
	manager := NewSessionManager(provider, newTestSecrets(t), registry, 10*time.Millisecond, nil)

	_, _, err := manager.Login(context.Background(), "u1", "alice", "hunter2")
	require.ErrorIs(t, err, domain.ErrTransport)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSessionManagerSecretStoreFailureAbortsLogin(t *testing.T) {
	t.Parallel()

	session := mocks.NewMockHostingSession(t)
	session.EXPECT().Persist().Return(`{"username":"alice"}`, nil)

	provider := mocks.NewMockHostingProvider(t)
	provider.EXPECT().Authenticate(mockAnyContext(), "alice", "hunter2").Return(session, nil)

	secrets := mocks.NewMockSecretStore(t)
	secrets.EXPECT().Put(mockAnyContext(), SessionKey("alice"), `{"username":"alice"}`).Return(errors.New("disk full"))

	registry, _ := newTestRegistry(t)
	manager := NewSessionManager(provider, secrets, registry, time.Second, nil)

	_, _, err := manager.Login(context.Background(), "u1", "alice", "hunter2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store session")
}

func TestSessionManagerForgetIgnoresMissingBlob(t *testing.T) {
	t.Parallel()

	secrets := mocks.NewMockSecretStore(t)
	secrets.EXPECT().Delete(mockAnyContext(), SessionKey("alice")).Return(domain.ErrSecretNotFound)

	registry, _ := newTestRegistry(t)
	manager := NewSessionManager(newFakeHosting(), secrets, registry, time.Second, nil)

	require.NoError(t, manager.Forget(context.Background(), "alice"))
	require.NoError(t, manager.Forget(context.Background(), ""))
}
