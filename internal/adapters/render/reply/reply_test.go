package reply

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bnema/acs/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStatusMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		outcome domain.Outcome
		want    string
	}{
		{
			name:    "fresh error",
			outcome: domain.Outcome{Kind: domain.OutcomeError, Message: "timeout"},
			want:    "❌ There was an error.\n> timeout",
		},
		{
			name:    "stale error",
			outcome: domain.Outcome{Kind: domain.OutcomeError, Message: "timeout", Stale: true},
			want:    "❌ There was an error.\n> timeout" + staleNotice,
		},
		{
			name:    "online empty",
			outcome: domain.Outcome{Kind: domain.OutcomeOnlineEmpty, Name: "Lobby"},
			want:    "✅ Lobby is online!",
		},
		{
			name:    "online full",
			outcome: domain.Outcome{Kind: domain.OutcomeOnlineFull, Name: "Lobby", Max: 20},
			want:    "✅ Lobby is online!\n\nUnfortunately, the maximum number of 20 players has been reached..",
		},
		{
			name:    "one player",
			outcome: domain.Outcome{Kind: domain.OutcomeOnlinePlayers, Name: "Lobby", Now: 1, Max: 20, Version: "1.20.4"},
			want:    "✅ Lobby is online!\n\nJoin the 1 current player!\n> ip: `craft.example.com`\n> version: `1.20.4`",
		},
		{
			name:    "several players",
			outcome: domain.Outcome{Kind: domain.OutcomeOnlinePlayers, Name: "Lobby", Now: 3, Max: 20, Version: "1.20.4"},
			want:    "✅ Lobby is online!\n\nJoin the 3 current players!\n> ip: `craft.example.com`\n> version: `1.20.4`",
		},
		{
			name:    "not found",
			outcome: domain.Outcome{Kind: domain.OutcomeNotFound},
			want:    "❌ This Aternos server was not found.",
		},
		{
			name:    "unknown with motd",
			outcome: domain.Outcome{Kind: domain.OutcomeUnknown, Message: "Starting"},
			want:    "❓ The server status could not be determined.\n> Starting",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Status(tc.outcome, "craft.example.com"))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "❌ No default server IP configured. Use /setdefault to set one.",
		Error(fmt.Errorf("resolve: %w", domain.ErrNoDefaultConfigured)))
	assert.Equal(t, "❌ No matching server found in your sessions.", Error(domain.ErrNoMatchingServer))
	assert.Equal(t, "Invalid username or password. Please check and retry.", Error(domain.ErrInvalidCredentials))
	assert.Equal(t, "❌ The hosting session has expired. Please /login again.", Error(domain.ErrSessionNotFound))
	assert.Equal(t, "❌ Something went wrong. Please try again.", Error(errors.New("boom")))
	assert.Empty(t, Error(nil))
}

func TestActionMessages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "✅ Server was successfully started! It should be up in 1 to 2 minutes.",
		ActionAccepted(domain.Accepted{Action: domain.ActionStart}))
	assert.Equal(t, "✅ Server was successfully stopped!", ActionAccepted(domain.Accepted{Action: domain.ActionStop}))
	assert.Equal(t, "❌ Failed to start the server. Error: queue full",
		ActionFailed(domain.ActionStart, domain.NewProviderError("queue full", nil)))
	assert.Equal(t, "❌ No matching server found in your sessions.",
		ActionFailed(domain.ActionStop, domain.ErrNoMatchingServer))
}

func TestServerList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, noServersInChat, ServerList(nil))

	got := ServerList([]AccountServers{
		{Username: "alice", Servers: []domain.Server{{Address: "craft.example.com", Version: "1.20.4"}}},
		{Username: "bob", Err: domain.ErrSessionExpired},
	})
	assert.Equal(t, "List of all Aternos servers available:\n"+
		"- `craft.example.com`, 1.20.4\n"+
		"- bob: The hosting session has expired. Please /login again.", got)
}

func TestPending(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "No start or stop requests are pending in this chat.", Pending(nil, now))

	got := Pending([]domain.PendingAction{{
		Action:     domain.ActionStart,
		Target:     domain.ResolvedTarget{Username: "alice", Server: domain.Server{Address: "craft.example.com"}},
		ExpectedBy: now.Add(90 * time.Second),
	}}, now)
	assert.Equal(t, "Pending requests:\n- start `craft.example.com` (requested by alice, settles within 1m30s)", got)
}

func TestUsage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Usage: /login <username> <password>", Usage("login"))
	assert.Equal(t, UnknownCommand, Usage("dance"))
}
