package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bnema/acs/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, path string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set(StorePathKey, path)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "uconfig.json")
	repo := newTestRepository(t, path)

	cfg := domain.NewConfig()
	cfg.UpsertUser("42", domain.UserUpdate{
		Username: domain.Some("alice"),
		Servers:  domain.Some([]domain.ServerIdentifier{"craft.example.com", "alice.aternos.me"}),
	})
	cfg.LinkUser("1001", "42")
	cfg.SetDefault("1001", "craft.example.com")

	require.NoError(t, repo.Save(context.Background(), cfg))

	other := newTestRepository(t, path)
	other.state.cache = nil

	got, err := other.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestRepositoryMissingFileInitializesEmptyDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "uconfig.json")
	repo := newTestRepository(t, path)

	cfg, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cfg.Guilds)
	assert.Empty(t, cfg.Users)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `{}`, string(raw["guilds"]))
	assert.JSONEq(t, `{}`, string(raw["users"]))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(storeFileMode), info.Mode().Perm())
}

func TestRepositoryReadsDocumentWithComments(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "uconfig.json")
	content := `{
  // chats
  "guilds": {
    "1001": {"logged_users": ["42"], "default": "craft.example.com"},
  },
  /* accounts */
  "users": {
    "42": {"username": "alice", "servers": ["craft.example.com"]}
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	repo := newTestRepository(t, path)
	cfg, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.UserID{"42"}, cfg.Guilds["1001"].LoggedUsers)
	assert.Equal(t, domain.ServerIdentifier("craft.example.com"), cfg.Guilds["1001"].Default)
	assert.Equal(t, "alice", cfg.Users["42"].Username)
}

func TestRepositoryGuildWithoutDefaultOmitsKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "uconfig.json")
	repo := newTestRepository(t, path)

	cfg := domain.NewConfig()
	cfg.LinkUser("1001", "42")
	require.NoError(t, repo.Save(context.Background(), cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"default"`)
	assert.Contains(t, string(data), `"logged_users"`)
}

func TestRepositoryMalformedDocumentReturnsStoreUnavailable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "uconfig.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"guilds": [`), 0o600))

	repo := newTestRepository(t, path)

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	err = repo.Update(context.Background(), func(*domain.Config) error { return nil })
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestRepositoryUpdateErrorLeavesDocumentUntouched(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "uconfig.json")
	repo := newTestRepository(t, path)

	cfg := domain.NewConfig()
	cfg.SetDefault("1001", "craft.example.com")
	require.NoError(t, repo.Save(context.Background(), cfg))

	err := repo.Update(context.Background(), func(cfg *domain.Config) error {
		cfg.SetDefault("1001", "other.example.com")
		return domain.ErrNoSuchGuild
	})
	require.ErrorIs(t, err, domain.ErrNoSuchGuild)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ServerIdentifier("craft.example.com"), got.Guilds["1001"].Default)
}

func TestRepositoryLoadReturnsIndependentCopy(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "uconfig.json"))

	cfg := domain.NewConfig()
	cfg.LinkUser("1001", "42")
	require.NoError(t, repo.Save(context.Background(), cfg))

	first, err := repo.Load(context.Background())
	require.NoError(t, err)
	first.LinkUser("1001", "43")

	second, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.UserID{"42"}, second.Guilds["1001"].LoggedUsers)
}

func TestRepositoryCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "uconfig.json"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, repo.Save(ctx, domain.NewConfig()), context.Canceled)
	require.ErrorIs(t, repo.Update(ctx, func(*domain.Config) error { return nil }), context.Canceled)
}

func TestRepositoryConcurrentUpdatesAcrossInstancesLoseNothing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "uconfig.json")
	repoA := newTestRepository(t, path)
	repoB := newTestRepository(t, path)

	const perRepoWrites = 20
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*2)

	var wg sync.WaitGroup
	for _, tc := range []struct {
		repo   *Repository
		prefix string
	}{
		{repo: repoA, prefix: "a"},
		{repo: repoB, prefix: "b"},
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for i := 0; i < perRepoWrites; i++ {
				user := domain.UserID(fmt.Sprintf("%s-%d", tc.prefix, i))
				errCh <- tc.repo.Update(context.Background(), func(cfg *domain.Config) error {
					cfg.UpsertUser(user, domain.UserUpdate{Username: domain.Some(string(user))})
					cfg.LinkUser("1001", user)
					return nil
				})
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	cfg, err := repoA.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, cfg.Users, perRepoWrites*2)
	assert.Len(t, cfg.Guilds["1001"].LoggedUsers, perRepoWrites*2)
}
