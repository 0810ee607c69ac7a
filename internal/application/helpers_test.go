package application

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bnema/acs/internal/adapters/repo/jsonfile"
	filestore "github.com/bnema/acs/internal/adapters/secrets/file"
	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/ports"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mockAnyContext() interface{} {
	return mock.Anything
}

func newTestRegistry(t *testing.T) (*Registry, *jsonfile.Repository) {
	t.Helper()

	config := viper.New()
	config.Set(jsonfile.StorePathKey, filepath.Join(t.TempDir(), "uconfig.json"))

	repo, err := jsonfile.NewRepository(config)
	require.NoError(t, err)
	return NewRegistry(repo), repo
}

func newTestSecrets(t *testing.T) *filestore.Store {
	t.Helper()
	return filestore.NewStore(filepath.Join(t.TempDir(), "sessions"))
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// fakeHosting is an in-memory hosting panel with per-account servers.
type fakeHosting struct {
	mu        sync.Mutex
	passwords map[string]string
	servers   map[string][]domain.Server
	revoked   map[string]bool
	failures  map[string]error
	started   []string
	stopped   []string
	restores  []string
}

func newFakeHosting() *fakeHosting {
	return &fakeHosting{
		passwords: map[string]string{},
		servers:   map[string][]domain.Server{},
		revoked:   map[string]bool{},
		failures:  map[string]error{},
	}
}

func (f *fakeHosting) addAccount(username, password string, servers ...domain.Server) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.passwords[username] = password
	f.servers[username] = servers
}

func (f *fakeHosting) Authenticate(_ context.Context, username, password string) (ports.HostingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if want, ok := f.passwords[username]; !ok || want != password {
		return nil, domain.ErrInvalidCredentials
	}
	return &fakeSession{panel: f, username: username}, nil
}

func (f *fakeHosting) Restore(_ context.Context, username, blob string) (ports.HostingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.restores = append(f.restores, username)

	var stored struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal([]byte(blob), &stored); err != nil || stored.Username != username {
		return nil, domain.ErrSessionExpired
	}
	return &fakeSession{panel: f, username: username}, nil
}

type fakeSession struct {
	panel    *fakeHosting
	username string
}

func (s *fakeSession) Username() string {
	return s.username
}

func (s *fakeSession) ListServers(context.Context) ([]domain.Server, error) {
	s.panel.mu.Lock()
	defer s.panel.mu.Unlock()

	if s.panel.revoked[s.username] {
		return nil, domain.ErrSessionExpired
	}
	if err := s.panel.failures[s.username]; err != nil {
		return nil, err
	}
	return append([]domain.Server(nil), s.panel.servers[s.username]...), nil
}

func (s *fakeSession) Start(_ context.Context, server domain.Server) error {
	s.panel.mu.Lock()
	defer s.panel.mu.Unlock()

	s.panel.started = append(s.panel.started, s.username+":"+server.ID)
	return nil
}

func (s *fakeSession) Stop(_ context.Context, server domain.Server) error {
	s.panel.mu.Lock()
	defer s.panel.mu.Unlock()

	s.panel.stopped = append(s.panel.stopped, s.username+":"+server.ID)
	return nil
}

func (s *fakeSession) Persist() (string, error) {
	data, err := json.Marshal(map[string]string{"username": s.username})
	return string(data), err
}
