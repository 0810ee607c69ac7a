// Package reply renders plain-text chat replies.
package reply

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/acs/internal/domain"
)

const (
	Greeting = "Bot started. Use /login to authenticate."

	Help = `Available commands:
/login <username> <password> - link a hosting account to this chat
/listservers - list the servers of every linked account
/setdefault <server> - set this chat's default server
/status <server|default> [port] - show a server's status
/turnon <server|default> - start a server
/turnoff <server|default> - stop a server
/pending - show recently requested starts and stops
/logout - unlink your account from this chat
/detach - remove every account and setting of this chat`

	UnknownCommand = "Unknown command. Use /help to see what I can do."

	noServersInChat = "❌ No available Aternos servers in this chat!"
	staleNotice     = "\n\n/!\\ Be aware that the results are from less than 5 minutes ago, and thus might not be up to date!"
)

var usages = map[string]string{
	"login":      "Usage: /login <username> <password>",
	"setdefault": "Usage: /setdefault <server_ip>",
	"status":     "Usage: /status <server_ip> [port]",
	"turnon":     "Usage: /turnon <server_ip>",
	"turnoff":    "Usage: /turnoff <server_ip>",
}

func Usage(command string) string {
	if usage, ok := usages[command]; ok {
		return usage
	}
	return UnknownCommand
}

func LoggedIn(servers int) string {
	switch servers {
	case 0:
		return "Successfully logged in! This account has no servers yet."
	case 1:
		return "Successfully logged in! 1 server found."
	default:
		return fmt.Sprintf("Successfully logged in! %d servers found.", servers)
	}
}

func DefaultSet(id domain.ServerIdentifier) string {
	return fmt.Sprintf("✅ `%s` is now set as your chat default Minecraft server!", id)
}

// AccountServers is one linked account's contribution to a server listing.
type AccountServers struct {
	Username string
	Servers  []domain.Server
	Err      error
}

func ServerList(accounts []AccountServers) string {
	if len(accounts) == 0 {
		return noServersInChat
	}

	var b strings.Builder
	b.WriteString("List of all Aternos servers available:\n")
	for _, account := range accounts {
		if account.Err != nil {
			fmt.Fprintf(&b, "- %s: %s\n", account.Username, strings.TrimPrefix(Error(account.Err), "❌ "))
			continue
		}
		for _, server := range account.Servers {
			fmt.Fprintf(&b, "- `%s`, %s\n", server.DisplayName(), server.Version)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Status renders a classified status query for address.
func Status(outcome domain.Outcome, address string) string {
	switch outcome.Kind {
	case domain.OutcomeError:
		msg := "❌ There was an error.\n> " + outcome.Message
		if outcome.Stale {
			msg += staleNotice
		}
		return msg
	case domain.OutcomeNotFound:
		return "❌ This Aternos server was not found."
	case domain.OutcomeOffline:
		return "❌ This Aternos server is offline."
	case domain.OutcomeUnknown:
		if outcome.Message == "" {
			return "❓ The server status could not be determined."
		}
		return "❓ The server status could not be determined.\n> " + outcome.Message
	case domain.OutcomeOnlineEmpty:
		return online(outcome.Name)
	case domain.OutcomeOnlineFull:
		return online(outcome.Name) + fmt.Sprintf("\n\nUnfortunately, the maximum number of %d players has been reached..", outcome.Max)
	case domain.OutcomeOnlinePlayers:
		plural := ""
		if outcome.Now > 1 {
			plural = "s"
		}
		return online(outcome.Name) +
			fmt.Sprintf("\n\nJoin the %d current player%s!", outcome.Now, plural) +
			fmt.Sprintf("\n> ip: `%s`\n> version: `%s`", address, outcome.Version)
	case domain.OutcomeTransportError:
		return "❌ The status service could not be reached. Please try again later."
	case domain.OutcomeMalformed:
		return "❌ The status service returned an unreadable answer."
	default:
		return "❌ Unknown status result."
	}
}

func online(name string) string {
	return fmt.Sprintf("✅ %s is online!", name)
}

func ActionAccepted(accepted domain.Accepted) string {
	low := int(domain.ActionSettleMin / time.Minute)
	high := int(domain.ActionSettleMax / time.Minute)
	switch accepted.Action {
	case domain.ActionStart:
		return fmt.Sprintf("✅ Server was successfully started! It should be up in %d to %d minutes.", low, high)
	default:
		return "✅ Server was successfully stopped!"
	}
}

func ActionFailed(action domain.Action, err error) string {
	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) {
		return fmt.Sprintf("❌ Failed to %s the server. Error: %s", action, providerErr.Detail)
	}
	return Error(err)
}

func Pending(actions []domain.PendingAction, now time.Time) string {
	if len(actions) == 0 {
		return "No start or stop requests are pending in this chat."
	}

	var b strings.Builder
	b.WriteString("Pending requests:\n")
	for _, action := range actions {
		remaining := action.ExpectedBy.Sub(now).Round(time.Second)
		fmt.Fprintf(&b, "- %s `%s` (requested by %s, settles within %s)\n",
			action.Action, action.Target.Server.DisplayName(), action.Target.Username, remaining)
	}
	return strings.TrimRight(b.String(), "\n")
}

func LoggedOut(username string) string {
	if username == "" {
		return "✅ You were logged out of this chat."
	}
	return fmt.Sprintf("✅ `%s` was logged out of this chat.", username)
}

func Detached(accounts int) string {
	return fmt.Sprintf("✅ This chat was reset. %d account(s) were removed.", accounts)
}

// Error maps a failure to the message shown in chat.
func Error(err error) string {
	var providerErr *domain.ProviderError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid username or password. Please check and retry."
	case errors.Is(err, domain.ErrNoDefaultConfigured):
		return "❌ No default server IP configured. Use /setdefault to set one."
	case errors.Is(err, domain.ErrNoSuchGuild):
		return "❌ No account is logged in for this chat. Use /login first."
	case errors.Is(err, domain.ErrNoMatchingServer):
		return "❌ No matching server found in your sessions."
	case errors.Is(err, domain.ErrSessionExpired), errors.Is(err, domain.ErrSessionNotFound):
		return "❌ The hosting session has expired. Please /login again."
	case errors.Is(err, domain.ErrNotLinked):
		return "❌ You are not logged in in this chat."
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return "❌ That is not a valid server identifier."
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "❌ The bot configuration is unavailable right now. Please try again later."
	case errors.Is(err, domain.ErrTransport):
		return "❌ The hosting service could not be reached. Please try again later."
	case errors.Is(err, domain.ErrMalformedResponse):
		return "❌ The hosting service returned an unexpected answer."
	case errors.As(err, &providerErr):
		return "❌ The hosting service reported an error: " + providerErr.Detail
	default:
		return "❌ Something went wrong. Please try again."
	}
}
