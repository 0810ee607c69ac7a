package application

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/bnema/acs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLinkKeepsLoginOrderWithoutDuplicates(t *testing.T) {
	t.Parallel()

	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Link(ctx, "g1", "u2"))
	require.NoError(t, registry.Link(ctx, "g1", "u1"))
	require.NoError(t, registry.Link(ctx, "g1", "u2"))

	guild, err := registry.Guild(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []domain.UserID{"u2", "u1"}, guild.LoggedUsers)
	assert.False(t, guild.HasDefault())
}

func TestRegistryGuildMissingReturnsNoSuchGuild(t *testing.T) {
	t.Parallel()

	registry, _ := newTestRegistry(t)

	_, err := registry.Guild(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrNoSuchGuild)
}

func TestRegistrySetDefaultCreatesGuildLazily(t *testing.T) {
	t.Parallel()

	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.SetDefault(ctx, "g1", "craft.example.com"))

	guild, err := registry.Guild(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, domain.ServerIdentifier("craft.example.com"), guild.Default)
	assert.Empty(t, guild.LoggedUsers)

	err = registry.SetDefault(ctx, "g1", domain.DefaultAlias)
	require.ErrorIs(t, err, domain.ErrInvalidIdentifier)
}

func TestRegistryRecordUserMergesFields(t *testing.T) {
	t.Parallel()

	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.RecordUser(ctx, "u1", domain.UserUpdate{
		Username: domain.Some("alice"),
		Servers:  domain.Some([]domain.ServerIdentifier{"craft.example.com"}),
	}))
	require.NoError(t, registry.RecordUser(ctx, "u1", domain.UserUpdate{
		Servers: domain.Some([]domain.ServerIdentifier{}),
	}))

	entry, ok, err := registry.User(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", entry.Username)
	assert.Empty(t, entry.Servers)
}

func TestRegistryUnlinkAndDetach(t *testing.T) {
	t.Parallel()

	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.RecordUser(ctx, "u1", domain.UserUpdate{Username: domain.Some("alice")}))
	require.NoError(t, registry.RecordUser(ctx, "u2", domain.UserUpdate{Username: domain.Some("bob")}))
	require.NoError(t, registry.Link(ctx, "g1", "u1"))
	require.NoError(t, registry.Link(ctx, "g1", "u2"))
	require.NoError(t, registry.Link(ctx, "g2", "u2"))

	entry, orphaned, err := registry.Unlink(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.True(t, orphaned)
	assert.Equal(t, "alice", entry.Username)

	_, _, err = registry.Unlink(ctx, "g1", "u1")
	require.ErrorIs(t, err, domain.ErrNotLinked)

	dropped, err := registry.Detach(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, dropped)

	inUse, err := registry.UsernameInUse(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, inUse)

	dropped, err = registry.Detach(ctx, "g2")
	require.NoError(t, err)
	require.Len(t, dropped, 1)
	assert.Equal(t, "bob", dropped[0].Username)

	_, err = registry.Detach(ctx, "g2")
	require.ErrorIs(t, err, domain.ErrNoSuchGuild)
}

func TestRegistryConcurrentLoginsInSameChatBothPersist(t *testing.T) {
	t.Parallel()

	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 2*10)
	for i := 0; i < 10; i++ {
		for _, prefix := range []string{"a", "b"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				user := domain.UserID(fmt.Sprintf("%s%d", prefix, i))
				if err := registry.RecordUser(ctx, user, domain.UserUpdate{Username: domain.Some(string(user))}); err != nil {
					errs <- err
					return
				}
				errs <- registry.Link(ctx, "g1", user)
			}()
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	cfg, err := registry.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, cfg.Guilds["g1"].LoggedUsers, 20)
	assert.Len(t, cfg.Users, 20)
}
