package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/logging"
)

// Resolution is a resolved target plus the live session able to act on it.
type Resolution struct {
	Chat       domain.ChatID
	Identifier domain.ServerIdentifier
	Target     domain.ResolvedTarget
	Session    *Session
}

type Resolver struct {
	registry *Registry
	sessions *SessionManager
	logger   *slog.Logger
}

func NewResolver(registry *Registry, sessions *SessionManager, logger *slog.Logger) *Resolver {
	return &Resolver{registry: registry, sessions: sessions, logger: logging.OrDiscard(logger)}
}

// EffectiveIdentifier expands the "default" alias to the chat's stored
// default and returns any other identifier unchanged.
func (r *Resolver) EffectiveIdentifier(ctx context.Context, chat domain.ChatID, raw domain.ServerIdentifier) (domain.ServerIdentifier, error) {
	if !raw.IsDefaultAlias() {
		if raw == "" {
			return "", domain.ErrInvalidIdentifier
		}
		return raw, nil
	}

	guild, err := r.registry.Guild(ctx, chat)
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchGuild) {
			return "", domain.ErrNoDefaultConfigured
		}
		return "", err
	}
	if !guild.HasDefault() {
		return "", domain.ErrNoDefaultConfigured
	}
	return guild.Default, nil
}

// Resolve walks the chat's logged users in login order and returns the first
// live server whose address or domain equals the identifier. Users whose
// session or listing fails are skipped; when nothing matches, the first such
// failure is returned instead of ErrNoMatchingServer.
func (r *Resolver) Resolve(ctx context.Context, chat domain.ChatID, raw domain.ServerIdentifier) (Resolution, error) {
	id, err := r.EffectiveIdentifier(ctx, chat, raw)
	if err != nil {
		return Resolution{}, err
	}

	cfg, err := r.registry.Snapshot(ctx)
	if err != nil {
		return Resolution{}, err
	}

	guild, ok := cfg.Guilds[chat]
	if !ok {
		return Resolution{}, domain.ErrNoSuchGuild
	}

	var skipErr error
	for _, user := range guild.LoggedUsers {
		if err := ctx.Err(); err != nil {
			return Resolution{}, err
		}

		entry, ok := cfg.Users[user]
		if !ok || !entry.HasServer(id) {
			continue
		}

		session, err := r.sessions.Restore(ctx, user, entry.Username)
		if err != nil {
			if !isAccountError(err) {
				return Resolution{}, err
			}
			r.logger.Warn("skipping user with unusable session", "chat", chat, "user", user, "error", err)
			if skipErr == nil {
				skipErr = err
			}
			continue
		}

		servers, err := r.sessions.ListServers(ctx, session)
		if err != nil {
			if !isAccountError(err) {
				return Resolution{}, err
			}
			r.logger.Warn("skipping user whose servers could not be listed", "chat", chat, "user", user, "error", err)
			if skipErr == nil {
				skipErr = err
			}
			continue
		}

		for _, server := range servers {
			if server.Matches(id) {
				return Resolution{
					Chat:       chat,
					Identifier: id,
					Target: domain.ResolvedTarget{
						Account:  user,
						Username: entry.Username,
						Server:   server,
					},
					Session: session,
				}, nil
			}
		}
	}

	if skipErr != nil {
		return Resolution{}, skipErr
	}
	return Resolution{}, domain.ErrNoMatchingServer
}

// isAccountError reports failures confined to one hosting account. Store
// errors and caller cancellation are not among them.
func isAccountError(err error) bool {
	switch {
	case errors.Is(err, domain.ErrStoreUnavailable), errors.Is(err, context.Canceled):
		return false
	}
	return errors.Is(err, domain.ErrSessionExpired) ||
		errors.Is(err, domain.ErrSessionNotFound) ||
		errors.Is(err, domain.ErrTransport) ||
		errors.Is(err, domain.ErrMalformedResponse)
}
