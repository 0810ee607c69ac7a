package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertUserMergesExplicitFields(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.UpsertUser("u1", UserUpdate{
		Username: Some("alice"),
		Servers:  Some([]ServerIdentifier{"craft.example.com"}),
	})

	cfg.UpsertUser("u1", UserUpdate{Servers: Some([]ServerIdentifier{"other.example.com"})})
	assert.Equal(t, UserEntry{Username: "alice", Servers: []ServerIdentifier{"other.example.com"}}, cfg.Users["u1"])

	cfg.UpsertUser("u1", UserUpdate{Username: Some("bob")})
	assert.Equal(t, UserEntry{Username: "bob", Servers: []ServerIdentifier{"other.example.com"}}, cfg.Users["u1"])

	cfg.UpsertUser("u1", UserUpdate{Servers: Some([]ServerIdentifier{})})
	assert.Equal(t, UserEntry{Username: "bob", Servers: []ServerIdentifier{}}, cfg.Users["u1"])
}

func TestUpsertUserCreatesEntryWithEmptyServers(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	cfg.UpsertUser("u1", UserUpdate{Username: Some("alice")})

	assert.Equal(t, UserEntry{Username: "alice", Servers: []ServerIdentifier{}}, cfg.Users["u1"])
}

func TestRefreshServersLeavesMissingUserAbsent(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	assert.False(t, cfg.RefreshServers("u1", []ServerIdentifier{"craft.example.com"}))
	assert.NotContains(t, cfg.Users, UserID("u1"))

	cfg.UpsertUser("u1", UserUpdate{Username: Some("alice")})
	assert.True(t, cfg.RefreshServers("u1", nil))
	assert.Equal(t, UserEntry{Username: "alice", Servers: []ServerIdentifier{}}, cfg.Users["u1"])

	assert.True(t, cfg.RefreshServers("u1", []ServerIdentifier{"craft.example.com"}))
	assert.Equal(t, UserEntry{Username: "alice", Servers: []ServerIdentifier{"craft.example.com"}}, cfg.Users["u1"])
}

func TestLinkUserKeepsLoginOrder(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.LinkUser("g1", "u2")
	cfg.LinkUser("g1", "u1")
	cfg.LinkUser("g1", "u2")

	assert.Equal(t, []UserID{"u2", "u1"}, cfg.Guilds["g1"].LoggedUsers)
}

func TestSetDefaultCreatesGuild(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.SetDefault("g1", "craft.example.com")

	guild, ok := cfg.Guilds["g1"]
	require.True(t, ok)
	assert.True(t, guild.HasDefault())
	assert.Empty(t, guild.LoggedUsers)
}

func TestUnlinkUserPrunesOrphanedEntry(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.LinkUser("g1", "u1")
	cfg.LinkUser("g2", "u1")
	cfg.UpsertUser("u1", UserUpdate{Username: Some("alice")})

	_, dropped, err := cfg.UnlinkUser("g1", "u1")
	require.NoError(t, err)
	assert.False(t, dropped)
	assert.Contains(t, cfg.Users, UserID("u1"))

	entry, dropped, err := cfg.UnlinkUser("g2", "u1")
	require.NoError(t, err)
	assert.True(t, dropped)
	assert.Equal(t, "alice", entry.Username)
	assert.NotContains(t, cfg.Users, UserID("u1"))
	assert.False(t, cfg.UsernameReferenced("alice"))
}

func TestUnlinkUserErrors(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	_, _, err := cfg.UnlinkUser("g1", "u1")
	assert.ErrorIs(t, err, ErrNoSuchGuild)

	cfg.LinkUser("g1", "u2")
	_, _, err = cfg.UnlinkUser("g1", "u1")
	assert.ErrorIs(t, err, ErrNotLinked)
}

func TestDetachGuildPrunesOnlyOrphans(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.LinkUser("g1", "u1")
	cfg.LinkUser("g1", "u2")
	cfg.LinkUser("g2", "u2")
	cfg.UpsertUser("u1", UserUpdate{Username: Some("alice")})
	cfg.UpsertUser("u2", UserUpdate{Username: Some("bob")})

	orphaned, err := cfg.DetachGuild("g1")
	require.NoError(t, err)
	assert.Equal(t, []UserEntry{{Username: "alice", Servers: []ServerIdentifier{}}}, orphaned)
	assert.NotContains(t, cfg.Guilds, ChatID("g1"))
	assert.Contains(t, cfg.Users, UserID("u2"))

	_, err = cfg.DetachGuild("g1")
	assert.ErrorIs(t, err, ErrNoSuchGuild)
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.LinkUser("g1", "u1")
	cfg.UpsertUser("u1", UserUpdate{Servers: Some([]ServerIdentifier{"a"})})

	clone := cfg.Clone()
	clone.LinkUser("g1", "u2")
	clone.Users["u1"].Servers[0] = "b"

	assert.Equal(t, []UserID{"u1"}, cfg.Guilds["g1"].LoggedUsers)
	assert.Equal(t, ServerIdentifier("a"), cfg.Users["u1"].Servers[0])
}

func TestServerMatchesBothForms(t *testing.T) {
	t.Parallel()

	server := Server{Address: "craft.aternos.me", Domain: "craft.example.com"}

	assert.True(t, server.Matches("craft.aternos.me"))
	assert.True(t, server.Matches("craft.example.com"))
	assert.False(t, server.Matches("Craft.example.com"))
	assert.False(t, server.Matches(""))
	assert.Equal(t,
		[]ServerIdentifier{"craft.aternos.me", "craft.example.com"},
		CacheIdentifiers([]Server{server, {Address: "craft.aternos.me"}}),
	)
}
